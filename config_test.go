package arango_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/errors"
)

func TestConfigFromYAML(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		cfg, err := arango.ConfigFromYAML([]byte(`
url: http://db.local:8529
auth:
  method: jwt
  username: root
  password: opensesame
transport:
  provider: http
  headers:
    x-request-source: billing
logLevel: debug
`))
		assert.Nil(t, err)
		assert.Equal(t, "http://db.local:8529", cfg.URL)
		assert.Equal(t, arango.AuthJwt, cfg.Auth.Method)
		assert.Equal(t, "root", cfg.Auth.Username)
		assert.Equal(t, "http", cfg.Transport.Provider)
		assert.Equal(t, "billing", cfg.Transport.Headers["x-request-source"])
		assert.Equal(t, "debug", cfg.LogLevel)
	})
	t.Run("json is accepted as is", func(t *testing.T) {
		cfg, err := arango.ConfigFromYAML([]byte(`{"url":"http://db.local:8529","auth":{"method":"basic"}}`))
		assert.Nil(t, err)
		assert.Equal(t, arango.AuthBasic, cfg.Auth.Method)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := arango.ConfigFromYAML([]byte("url: [unterminated"))
		assert.NotNil(t, err)
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("connect validates the config", func(t *testing.T) {
		ctx := context.Background()
		_, err := arango.Connect(ctx, arango.Config{})
		assert.NotNil(t, err)
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)

		_, err = arango.Connect(ctx, arango.Config{
			URL:  "http://db.local:8529",
			Auth: arango.AuthConfig{Method: "kerberos"},
		})
		assert.NotNil(t, err)
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
}
