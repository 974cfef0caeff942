package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthorized marks a 401 from the core API. Middleware reacts to it by
// destroying the admin session so the console redirects to login.
var ErrUnauthorized = errors.New("backend rejected credentials")

// APIError carries a non-2xx backend response. For validation failures (4xx)
// Message is the backend-provided text verbatim; server failures (5xx) get a
// generic message so internal details never reach the console.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// IsClientError reports whether the backend rejected the request itself
// (4xx), as opposed to failing to process it.
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// errorBody is the shape Laravel-style backends use for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// responseError maps a non-2xx response to the error taxonomy. The body is
// consumed but the response is not closed.
func responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body errorBody
	_ = json.Unmarshal(raw, &body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if msg == "" {
			msg = "session expired"
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}

	if resp.StatusCode >= 500 || msg == "" {
		msg = "the backend could not process the request"
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}
