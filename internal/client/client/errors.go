package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is a request the server answered but rejected.
type APIError struct {
	// Code is the envelope code, or the HTTP status when no envelope came back.
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request rejected (code %d)", e.Code)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, ErrUnavailable):
		return "the library server is not reachable, try again later"
	case errors.Is(err, ErrUnauthorized):
		return "your session has expired, please log in again"
	case errors.Is(err, ErrNotFound):
		return "not found"
	default:
		return err.Error()
	}
}
