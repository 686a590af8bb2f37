package errors

import (
	"encoding/json"
	"fmt"
)

type Code int

const (
	// Unknown is the zero value and indicates an unclassified error
	Unknown Code = iota
	// Transport indicates the request never produced a usable http response
	Transport
	// Serde indicates a payload could not be serialized or deserialized
	Serde
	// Server indicates an error reported by the database server
	Server
	// InvalidServer indicates the endpoint is not an ArangoDB server
	InvalidServer
	// Permission indicates the authenticated user lacks a required grant
	Permission
	// NotFound indicates a named resource is not registered or does not exist
	NotFound
	// Validation indicates invalid input
	Validation
	// Internal indicates an invariant violation inside the client
	Internal
)

// Error is a custom error
type Error struct {
	Code     Code     `json:"code"`
	Messages []string `json:"messages"`
	Err      error    `json:"err,omitempty"`
}

// Error returns the Error as a json string
func (e *Error) Error() string {
	bits, _ := json.Marshal(e)
	return string(bits)
}

// RemoveError removes the error from the Error and leaves it's messages and code
func (e *Error) RemoveError() *Error {
	return &Error{
		Code:     e.Code,
		Messages: e.Messages,
		Err:      nil,
	}
}

// New returns a new Error with the given code and formatted message
func New(code Code, msg string, args ...any) error {
	return &Error{
		Code:     code,
		Messages: []string{fmt.Sprintf(msg, args...)},
	}
}

// Extract extracts the custom Error from the given error
func Extract(err error) *Error {
	e, ok := err.(*Error)
	if !ok {
		return &Error{
			Code:     0,
			Messages: nil,
			Err:      err,
		}
	}
	return e
}

// Wraps the given error and returns a new one
func Wrap(err error, code Code, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if ok {
		if msg != "" {
			e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
		}
		if code > 0 {
			e.Code = code
		}
		return e
	}
	e = &Error{
		Code: code,
		Err:  err,
	}
	if msg != "" {
		e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
	}
	return e
}
