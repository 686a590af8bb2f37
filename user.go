package arango

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// User is a server account
type User struct {
	Username string `json:"user" validate:"required"`
	// Password is only ever sent, the server never returns it
	Password string         `json:"passwd,omitempty"`
	Active   *bool          `json:"active,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Users lists every account visible to the connected user
func (c *Connection) Users(ctx context.Context) ([]User, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_api/user", nil)
	if err != nil {
		return nil, err
	}
	return deserializeResult[[]User](resp.Body)
}

// User fetches a single account by name
func (c *Connection) User(ctx context.Context, name string) (User, error) {
	resp, err := transport.Get(ctx, c.session, c.url+"_api/user/"+name, nil)
	if err != nil {
		return User{}, err
	}
	return deserializeResponse[User](resp.Body)
}

// CreateUser creates a server account
func (c *Connection) CreateUser(ctx context.Context, user User) (User, error) {
	if err := util.ValidateStruct(&user); err != nil {
		return User{}, err
	}
	body, err := json.Marshal(user)
	if err != nil {
		return User{}, errors.Wrap(err, errors.Serde, "encode user")
	}
	resp, err := transport.Post(ctx, c.session, c.url+"_api/user", body)
	if err != nil {
		return User{}, err
	}
	out, err := deserializeResponse[User](resp.Body)
	if err != nil {
		return User{}, err
	}
	c.logger.Info(ctx, "user created", map[string]any{"user": out.Username})
	return out, nil
}

// UpdateUser patches an existing account. Unset fields keep their value.
func (c *Connection) UpdateUser(ctx context.Context, user User) (User, error) {
	if err := util.ValidateStruct(&user); err != nil {
		return User{}, err
	}
	body, err := json.Marshal(user)
	if err != nil {
		return User{}, errors.Wrap(err, errors.Serde, "encode user")
	}
	resp, err := transport.Patch(ctx, c.session, c.url+"_api/user/"+user.Username, body)
	if err != nil {
		return User{}, err
	}
	return deserializeResponse[User](resp.Body)
}

// RemoveUser deletes a server account
func (c *Connection) RemoveUser(ctx context.Context, name string) error {
	resp, err := transport.Delete(ctx, c.session, c.url+"_api/user/"+name, nil)
	if err != nil {
		return err
	}
	if err := checkServerError(resp.Body); err != nil {
		return err
	}
	c.logger.Info(ctx, "user removed", map[string]any{"user": name})
	return nil
}

// GrantDatabaseAccess sets a user's access level on a database
func (c *Connection) GrantDatabaseAccess(ctx context.Context, username, database string, permission Permission) error {
	body := []byte(fmt.Sprintf(`{"grant":%q}`, permission))
	resp, err := transport.Put(ctx, c.session, c.url+"_api/user/"+username+"/database/"+database, body)
	if err != nil {
		return err
	}
	if err := checkServerError(resp.Body); err != nil {
		return err
	}
	c.logger.Info(ctx, "database access granted", map[string]any{
		"user":       username,
		"database":   database,
		"permission": string(permission),
	})
	return nil
}
