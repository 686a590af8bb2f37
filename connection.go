package arango

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/transport/registry"
	"github.com/autom8ter/arango/util"
	"github.com/tidwall/gjson"
)

// Version is the server version report
type Version struct {
	Server  string `json:"server"`
	Version string `json:"version"`
	License string `json:"license"`
}

// DatabaseInfo describes a database
type DatabaseInfo struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Path     string `json:"path"`
	IsSystem bool   `json:"isSystem"`
}

// Permission is a user's access level to a database or collection
type Permission string

const (
	PermissionNone      Permission = "none"
	PermissionReadOnly  Permission = "ro"
	PermissionReadWrite Permission = "rw"
)

// ServerHealth is a single node in the cluster health report. The server
// reports these fields in PascalCase.
type ServerHealth struct {
	Endpoint   string `json:"Endpoint"`
	Role       string `json:"Role"`
	Status     string `json:"Status"`
	Engine     string `json:"Engine"`
	Version    string `json:"Version"`
	Leader     string `json:"Leader,omitempty"`
	SyncStatus string `json:"SyncStatus,omitempty"`
}

// ClusterHealth is the health report of every node in a cluster
type ClusterHealth struct {
	ClusterID string                  `json:"ClusterId"`
	Health    map[string]ServerHealth `json:"Health"`
}

// Connection is an authenticated session against a single server endpoint.
// It is safe for concurrent use and cheap to copy via its With methods.
type Connection struct {
	url      string
	username string
	session  transport.Client
	logger   Logger
}

// Connect verifies the configured endpoint is an ArangoDB server and opens an
// authenticated session against it
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	if err := util.ValidateStruct(&cfg); err != nil {
		return nil, err
	}
	baseURL, err := normalizeURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	headers := http.Header{}
	for k, v := range cfg.Transport.Headers {
		headers.Set(k, v)
	}
	provider := cfg.Transport.Provider
	if provider == "" {
		provider = "http"
	}
	plain, err := registry.Open(provider, headers)
	if err != nil {
		return nil, err
	}
	if err := validateServer(ctx, plain, baseURL); err != nil {
		return nil, err
	}
	username := cfg.Auth.Username
	switch cfg.Auth.method() {
	case AuthBasic:
		token := base64.StdEncoding.EncodeToString([]byte(cfg.Auth.Username + ":" + cfg.Auth.Password))
		headers.Set("Authorization", "Basic "+token)
	case AuthJwt:
		token, err := jwtLogin(ctx, plain, baseURL, cfg.Auth.Username, cfg.Auth.Password)
		if err != nil {
			return nil, err
		}
		headers.Set("Authorization", "Bearer "+token)
	case AuthNone:
		username = "root"
	}
	session, err := registry.Open(provider, headers)
	if err != nil {
		return nil, err
	}
	logger := Logger(noOpLogger{})
	if cfg.LogLevel != "" {
		logger, err = NewLogger(cfg.LogLevel, map[string]any{"url": baseURL})
		if err != nil {
			return nil, err
		}
	}
	conn := &Connection{
		url:      baseURL,
		username: username,
		session:  session,
		logger:   logger,
	}
	conn.logger.Debug(ctx, "connection established", map[string]any{"username": username})
	return conn, nil
}

// ConnectWith wraps an already constructed transport session. The url is
// normalized but the server is not probed, so this also suits transports that
// authenticate on their own.
func ConnectWith(session transport.Client, rawURL string) (*Connection, error) {
	baseURL, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Connection{
		url:      baseURL,
		username: "root",
		session:  session,
		logger:   noOpLogger{},
	}, nil
}

// WithLogger returns a copy of the connection that logs through the given logger
func (c *Connection) WithLogger(logger Logger) *Connection {
	return &Connection{
		url:      c.url,
		username: c.username,
		session:  c.session,
		logger:   logger,
	}
}

// URL returns the normalized base endpoint
func (c *Connection) URL() string {
	return c.url
}

// Username returns the user the session authenticated as
func (c *Connection) Username() string {
	return c.username
}

func normalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, errors.Validation, "invalid url: %s", rawURL)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New(errors.Validation, "invalid url: %s", rawURL)
	}
	return strings.TrimSuffix(parsed.String(), "/") + "/", nil
}

// validateServer checks the Server response header to make sure the endpoint
// really is ArangoDB
func validateServer(ctx context.Context, session transport.Client, baseURL string) error {
	resp, err := transport.Get(ctx, session, baseURL, nil)
	if err != nil {
		return err
	}
	server := resp.Header.Get("Server")
	if !strings.EqualFold(server, "ArangoDB") {
		return errors.New(errors.InvalidServer, "endpoint is not an ArangoDB server: %q", server)
	}
	return nil
}

func jwtLogin(ctx context.Context, session transport.Client, baseURL, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.Serde, "encode login request")
	}
	resp, err := transport.Post(ctx, session, baseURL+"_open/auth", body)
	if err != nil {
		return "", err
	}
	out, err := deserializeResponse[struct {
		Jwt string `json:"jwt"`
	}](resp.Body)
	if err != nil {
		return "", errors.Wrap(err, 0, "jwt login")
	}
	return out.Jwt, nil
}

// Version fetches the server version
func (c *Connection) Version(ctx context.Context) (Version, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_api/version", nil)
	if err != nil {
		return Version{}, err
	}
	return deserializeResponse[Version](resp.Body)
}

// ServerRole fetches the role of the connected server (SINGLE, COORDINATOR, ...)
func (c *Connection) ServerRole(ctx context.Context) (string, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_admin/server/role", nil)
	if err != nil {
		return "", err
	}
	if err := checkServerError(resp.Body); err != nil {
		return "", err
	}
	return gjson.GetBytes(resp.Body, "role").String(), nil
}

// ClusterHealth fetches the health of every node in the cluster
func (c *Connection) ClusterHealth(ctx context.Context) (ClusterHealth, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_admin/cluster/health", nil)
	if err != nil {
		return ClusterHealth{}, err
	}
	return deserializeResponse[ClusterHealth](resp.Body)
}

// AccessibleDatabases maps each database the session's user may reach to the
// user's permission on it
func (c *Connection) AccessibleDatabases(ctx context.Context) (map[string]Permission, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_api/user/"+c.username+"/database", nil)
	if err != nil {
		return nil, err
	}
	return deserializeResult[map[string]Permission](resp.Body)
}

// EnsureSystemAccess verifies the session's user holds read write access to
// the _system database
func (c *Connection) EnsureSystemAccess(ctx context.Context) error {
	dbs, err := c.AccessibleDatabases(ctx)
	if err != nil {
		return err
	}
	perm, ok := dbs["_system"]
	if !ok {
		perm = PermissionNone
	}
	if perm != PermissionReadWrite {
		return errors.New(errors.Permission, "user %s has %s access to _system", c.username, perm)
	}
	return nil
}

// Database returns a handle to the named database after verifying it exists
func (c *Connection) Database(ctx context.Context, name string) (*Database, error) {
	db := c.database(name)
	if _, err := db.Info(ctx); err != nil {
		return nil, errors.Wrap(err, 0, "open database %s", name)
	}
	return db, nil
}

func (c *Connection) database(name string) *Database {
	return &Database{
		name:    name,
		baseURL: c.url + "_db/" + name + "/",
		session: c.session,
		logger:  c.logger,
	}
}

// CreateDatabase creates a database and returns a handle to it
func (c *Connection) CreateDatabase(ctx context.Context, name string) (*Database, error) {
	return c.CreateDatabaseWithOptions(ctx, name, nil)
}

// CreateDatabaseWithOptions creates a database with the given cluster options
// and returns a handle to it
func (c *Connection) CreateDatabaseWithOptions(ctx context.Context, name string, options *CreateDatabaseOptions) (*Database, error) {
	payload := struct {
		Name    string                 `json:"name"`
		Users   []DatabaseUser         `json:"users,omitempty"`
		Options *CreateDatabaseOptions `json:"options,omitempty"`
	}{Name: name, Options: options}
	if options != nil {
		payload.Users = options.Users
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.Serde, "encode create database")
	}
	resp, err := transport.Post(ctx, c.session, c.url+"_api/database", body)
	if err != nil {
		return nil, err
	}
	if _, err := deserializeResult[bool](resp.Body); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "database created", map[string]any{"name": name})
	return c.Database(ctx, name)
}

// DropDatabase drops the named database
func (c *Connection) DropDatabase(ctx context.Context, name string) error {
	resp, err := transport.Delete(ctx, c.session, c.url+"_api/database/"+name, nil)
	if err != nil {
		return err
	}
	if _, err := deserializeResult[bool](resp.Body); err != nil {
		return err
	}
	c.logger.Info(ctx, "database dropped", map[string]any{"name": name})
	return nil
}
