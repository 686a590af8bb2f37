package arango

import (
	"encoding/json"
	"fmt"

	"github.com/autom8ter/arango/errors"
	"github.com/tidwall/gjson"
)

// ServerError is an error reported by the database server
type ServerError struct {
	// Code is the http status the server put in the body
	Code int `json:"code"`
	// ErrorNum is the ArangoDB error number
	ErrorNum int `json:"errorNum"`
	// Message is the server supplied error message
	Message string `json:"errorMessage"`
}

func (e ServerError) Error() string {
	return fmt.Sprintf("%s(%d)", e.Message, e.ErrorNum)
}

// AsServerError extracts the server reported error from the given error
func AsServerError(err error) (ServerError, bool) {
	if err == nil {
		return ServerError{}, false
	}
	se, ok := errors.Extract(err).Err.(ServerError)
	return se, ok
}

// checkServerError inspects a response body for the server error envelope.
// Error payloads are identified structurally: both errorNum and errorMessage
// must be present. The http status is never consulted.
func checkServerError(body []byte) error {
	if !gjson.ValidBytes(body) {
		return errors.New(errors.Serde, "invalid json response: %s", string(body))
	}
	parsed := gjson.ParseBytes(body)
	errNum := parsed.Get("errorNum")
	errMsg := parsed.Get("errorMessage")
	if errNum.Exists() && errMsg.Exists() {
		return errors.Wrap(ServerError{
			Code:     int(parsed.Get("code").Int()),
			ErrorNum: int(errNum.Int()),
			Message:  errMsg.String(),
		}, errors.Server, "")
	}
	return nil
}

// deserializeResponse decodes a response body into T after ruling out the
// server error envelope
func deserializeResponse[T any](body []byte) (T, error) {
	var out T
	if err := checkServerError(body); err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, errors.Wrap(err, errors.Serde, "decode response: %s", string(body))
	}
	return out, nil
}

// deserializeResult decodes the result field of a response body into T. A
// missing result field is a decode error.
func deserializeResult[T any](body []byte) (T, error) {
	var out T
	if err := checkServerError(body); err != nil {
		return out, err
	}
	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return out, errors.New(errors.Serde, "missing result field: %s", string(body))
	}
	if err := json.Unmarshal([]byte(result.Raw), &out); err != nil {
		return out, errors.Wrap(err, errors.Serde, "decode result: %s", string(body))
	}
	return out, nil
}
