package transport

import (
	"context"
	"net/http"
)

// TransactionHeader binds a request to a server side stream transaction
const TransactionHeader = "x-arango-trx-id"

// Request is a single http request
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully buffered http response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client executes buffered http requests against an ArangoDB endpoint.
// Implementations must be safe for concurrent use and must treat their
// default headers as immutable once constructed.
type Client interface {
	// Do executes the request and returns the buffered response
	Do(ctx context.Context, req *Request) (*Response, error)
	// WithTransaction returns a copy of the client whose requests carry the given transaction id.
	// The receiver is left untouched.
	WithTransaction(id string) Client
	// Headers returns a copy of the default headers sent with every request
	Headers() http.Header
}

// Get executes a GET request against the given url
func Get(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url, Body: body})
}

// Post executes a POST request against the given url
func Post(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: url, Body: body})
}

// Put executes a PUT request against the given url
func Put(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: url, Body: body})
}

// Patch executes a PATCH request against the given url
func Patch(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, URL: url, Body: body})
}

// Delete executes a DELETE request against the given url
func Delete(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: url, Body: body})
}

// Head executes a HEAD request against the given url
func Head(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodHead, URL: url, Body: body})
}

// Options executes an OPTIONS request against the given url
func Options(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodOptions, URL: url, Body: body})
}

// Trace executes a TRACE request against the given url
func Trace(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodTrace, URL: url, Body: body})
}

// Connect executes a CONNECT request against the given url
func Connect(ctx context.Context, c Client, url string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodConnect, URL: url, Body: body})
}
