package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated is wrapped by every 401 response error.
var ErrUnauthenticated = errors.New("unauthenticated")

// FieldError is one entry of an Express-style validation errors array.
type FieldError struct {
	Path string
	Msg  string
}

// ErrorBody is the decoded error envelope of a non-2xx response. Which of
// List and Fields is populated depends on the backend convention; both stay
// empty when the response carried no recognizable body.
type ErrorBody struct {
	Message string
	List    []FieldError
	Fields  map[string][]string
}

// Error is a non-2xx response from the backend, carried unmodified to the
// caller. Transport-level failures (no response at all) are plain errors,
// not *Error.
type Error struct {
	StatusCode int
	Body       ErrorBody
}

func (e *Error) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Body.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap exposes ErrUnauthenticated for 401 responses so callers can use
// errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// IsValidation reports whether the error is a validation failure under the
// given convention.
func (e *Error) IsValidation(conv Convention) bool {
	return e.StatusCode == conv.ValidationStatus()
}

// rawErrorEnvelope matches the error body before the errors field is
// resolved against the convention.
type rawErrorEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// rawFieldError tolerates both "msg" (express-validator) and "message"
// spellings within the array convention.
type rawFieldError struct {
	Path    string `json:"path"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// decodeErrorBody decodes a non-2xx body under the given convention. An
// unparsable body yields a zero ErrorBody; the status code alone still
// reaches the caller.
func decodeErrorBody(data []byte, conv Convention) ErrorBody {
	var raw rawErrorEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrorBody{}
	}

	body := ErrorBody{Message: raw.Message}
	if len(raw.Errors) == 0 {
		return body
	}

	switch conv {
	case ConventionExpress:
		var entries []rawFieldError
		if err := json.Unmarshal(raw.Errors, &entries); err != nil {
			return body
		}
		for _, e := range entries {
			msg := e.Msg
			if msg == "" {
				msg = e.Message
			}
			body.List = append(body.List, FieldError{Path: e.Path, Msg: msg})
		}
	case ConventionLaravel:
		var fields map[string][]string
		if err := json.Unmarshal(raw.Errors, &fields); err != nil {
			return body
		}
		body.Fields = fields
	}
	return body
}
