package nethttp

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/transport/registry"
)

func init() {
	registry.Register("http", func(headers http.Header) (transport.Client, error) {
		return New(headers)
	})
}

type httpClient struct {
	hc      *http.Client
	headers http.Header
}

// New returns a transport backed by net/http with the given default headers.
// Redirects are returned to the caller instead of being followed so that
// authorization headers never leak to another host.
func New(headers http.Header) (transport.Client, error) {
	if headers == nil {
		headers = http.Header{}
	}
	return &httpClient{
		hc: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers: headers.Clone(),
	}, nil
}

func (h *httpClient) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.Transport, "%s %s", req.Method, req.URL)
	}
	for k, vals := range h.headers {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	// per request headers win over session defaults
	for k, vals := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	resp, err := h.hc.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.Transport, "%s %s", req.Method, req.URL)
	}
	defer resp.Body.Close()
	bits, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.Transport, "read response body")
	}
	return &transport.Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   bits,
	}, nil
}

func (h *httpClient) WithTransaction(id string) transport.Client {
	headers := h.headers.Clone()
	headers.Set(transport.TransactionHeader, id)
	return &httpClient{
		hc:      h.hc,
		headers: headers,
	}
}

func (h *httpClient) Headers() http.Header {
	return h.headers.Clone()
}
