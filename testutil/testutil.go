package testutil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/transport/registry"
	"github.com/brianvoe/gofakeit/v6"
)

// NewUserDoc builds a random user document
func NewUserDoc() *arango.Document {
	doc, err := arango.NewDocumentFrom(map[string]interface{}{
		"_key": gofakeit.UUID(),
		"name": gofakeit.Name(),
		"contact": map[string]interface{}{
			"email": gofakeit.Email(),
		},
		"account_id":     gofakeit.IntRange(0, 100),
		"language":       gofakeit.Language(),
		"birthday_month": gofakeit.Month(),
		"age":            gofakeit.IntRange(0, 100),
		"timestamp":      gofakeit.DateRange(time.Now().Truncate(7200*time.Hour), time.Now()),
		"annotations":    gofakeit.Map(),
	})
	if err != nil {
		panic(err)
	}
	return doc
}

// NewTaskDoc builds a random task document owned by the given user
func NewTaskDoc(usrKey string) *arango.Document {
	doc, err := arango.NewDocumentFrom(map[string]interface{}{
		"_key":    gofakeit.UUID(),
		"user":    usrKey,
		"content": gofakeit.LoremIpsumSentence(5),
	})
	if err != nil {
		panic(err)
	}
	return doc
}

// RecordedRequest is one request captured by a StubTransport
type RecordedRequest struct {
	Method string
	URL    string
	Body   []byte
	Header http.Header
}

type scriptedResponse struct {
	status int
	body   string
	header http.Header
}

type stubCore struct {
	mu       sync.Mutex
	script   []scriptedResponse
	requests []RecordedRequest
}

// StubTransport is a scripted transport.Client. Responses come back in the
// order they were stubbed, shared across transaction bound copies, and every
// dispatched request is recorded along with its merged headers.
type StubTransport struct {
	core    *stubCore
	headers http.Header
}

func NewStubTransport() *StubTransport {
	return &StubTransport{core: &stubCore{}, headers: http.Header{}}
}

// Stub appends a scripted response
func (s *StubTransport) Stub(status int, body string) *StubTransport {
	return s.StubWithHeader(status, body, nil)
}

// StubWithHeader appends a scripted response carrying response headers
func (s *StubTransport) StubWithHeader(status int, body string, header http.Header) *StubTransport {
	if header == nil {
		header = http.Header{}
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	s.core.script = append(s.core.script, scriptedResponse{status: status, body: body, header: header})
	return s
}

func (s *StubTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.Transport, "%s %s", req.Method, req.URL)
	}
	merged := s.headers.Clone()
	if merged == nil {
		merged = http.Header{}
	}
	for key, values := range req.Header {
		merged.Del(key)
		for _, value := range values {
			merged.Add(key, value)
		}
	}
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	s.core.requests = append(s.core.requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL,
		Body:   append([]byte(nil), req.Body...),
		Header: merged,
	})
	if len(s.core.script) == 0 {
		return nil, errors.New(errors.Internal, "no scripted response left for %s %s", req.Method, req.URL)
	}
	next := s.core.script[0]
	s.core.script = s.core.script[1:]
	return &transport.Response{Status: next.status, Header: next.header, Body: []byte(next.body)}, nil
}

func (s *StubTransport) WithTransaction(id string) transport.Client {
	headers := s.headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	headers.Set(transport.TransactionHeader, id)
	return &StubTransport{core: s.core, headers: headers}
}

func (s *StubTransport) Headers() http.Header {
	return s.headers.Clone()
}

// Requests returns every request dispatched so far, oldest first
func (s *StubTransport) Requests() []RecordedRequest {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return append([]RecordedRequest(nil), s.core.requests...)
}

// LastRequest returns the most recently dispatched request
func (s *StubTransport) LastRequest() RecordedRequest {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	if len(s.core.requests) == 0 {
		return RecordedRequest{}
	}
	return s.core.requests[len(s.core.requests)-1]
}

// Register makes the stub available to arango.Connect under the given
// provider name. Every opened session shares the stub's script and recorder.
func (s *StubTransport) Register(name string) {
	registry.Register(name, func(headers http.Header) (transport.Client, error) {
		if headers == nil {
			headers = http.Header{}
		}
		return &StubTransport{core: s.core, headers: headers.Clone()}, nil
	})
}
