package registry

import (
	"net/http"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
)

// Opener opens a transport client with the given default headers
type Opener func(headers http.Header) (transport.Client, error)

var registeredOpeners = map[string]Opener{}

// Register registers an Opener by provider name
func Register(name string, opener Opener) {
	registeredOpeners[name] = opener
}

// Open opens a registered transport provider
func Open(name string, headers http.Header) (transport.Client, error) {
	opener, ok := registeredOpeners[name]
	if !ok {
		return nil, errors.New(errors.NotFound, "%s is not registered", name)
	}
	return opener(headers)
}
