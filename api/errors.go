package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// UserMessage maps the HTTP status to the alert text shown to the user.
func (e *APIError) UserMessage() string {
	switch {
	case e.StatusCode >= http.StatusInternalServerError:
		return "server error, retry later"
	case e.StatusCode == http.StatusBadRequest:
		return "invalid payment data"
	case e.StatusCode == http.StatusNotFound:
		return "service unavailable"
	default:
		return "there was a problem processing your request, try again"
	}
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}
