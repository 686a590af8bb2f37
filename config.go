package arango

import (
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/util"
)

// AuthMethod selects how a connection authenticates with the server
type AuthMethod string

const (
	// AuthBasic sends an Authorization: Basic header with every request
	AuthBasic AuthMethod = "basic"
	// AuthJwt trades the credentials for a bearer token at connect time
	AuthJwt AuthMethod = "jwt"
	// AuthNone connects without credentials
	AuthNone AuthMethod = "none"
)

// AuthConfig configures connection authentication
type AuthConfig struct {
	// Method is the authentication scheme. Empty picks jwt when credentials are present and none otherwise.
	Method AuthMethod `json:"method" validate:"omitempty,oneof=basic jwt none"`
	// Username is the database user
	Username string `json:"username"`
	// Password is the database user's password
	Password string `json:"password"`
}

func (a AuthConfig) method() AuthMethod {
	if a.Method != "" {
		return a.Method
	}
	if a.Username != "" || a.Password != "" {
		return AuthJwt
	}
	return AuthNone
}

// TransportConfig configures the http transport opened for a connection
type TransportConfig struct {
	// Provider names a transport registered in transport/registry. Empty defaults to http.
	Provider string `json:"provider"`
	// Headers are sent with every request
	Headers map[string]string `json:"headers"`
}

// Config configures a Connection
type Config struct {
	// URL is the base endpoint of the server (ex: http://localhost:8529)
	URL string `json:"url" validate:"required"`
	// Auth configures authentication
	Auth AuthConfig `json:"auth"`
	// Transport configures the http transport
	Transport TransportConfig `json:"transport"`
	// LogLevel sets the client log level (error, warn, info, debug)
	LogLevel string `json:"logLevel"`
}

// ConfigFromYAML parses a yaml or json encoded Config
func ConfigFromYAML(content []byte) (Config, error) {
	var cfg Config
	jsonContent, err := util.YAMLToJSON(content)
	if err != nil {
		return cfg, errors.Wrap(err, errors.Validation, "parse config")
	}
	if err := json.Unmarshal(jsonContent, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.Serde, "parse config")
	}
	return cfg, nil
}
