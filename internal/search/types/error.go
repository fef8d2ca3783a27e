package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidBaseURL   = errors.New("invalid base URL")
	ErrInvalidPath      = errors.New("invalid search path")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidTransport = errors.New("invalid transport")

	// Search errors
	ErrInvalidQuery      = errors.New("invalid search query")
	ErrTransport         = errors.New("transport error")
	ErrServer            = errors.New("server error")
	ErrDecode            = errors.New("decode error")
	ErrTransportNotFound = errors.New("transport not found")
)

// ErrorKind classifies a failed search call
type ErrorKind string

const (
	KindInvalidQuery ErrorKind = "INVALID_QUERY"
	KindTransport    ErrorKind = "TRANSPORT_ERROR"
	KindServer       ErrorKind = "SERVER_ERROR"
	KindDecode       ErrorKind = "DECODE_ERROR"
)

// SearchError is the uniform error surface of a search call
type SearchError struct {
	Kind       ErrorKind
	StatusCode int // set for KindServer
	Message    string
	Err        error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind
func (e *SearchError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *SearchError) sentinel() error {
	switch e.Kind {
	case KindInvalidQuery:
		return ErrInvalidQuery
	case KindTransport:
		return ErrTransport
	case KindServer:
		return ErrServer
	case KindDecode:
		return ErrDecode
	}
	return nil
}

// UserMessage is the single line shown to the user for this error
func (e *SearchError) UserMessage() string {
	switch e.Kind {
	case KindInvalidQuery:
		return "Please enter a search query"
	case KindTransport:
		return fmt.Sprintf("Network error: %s", e.Message)
	case KindServer:
		return fmt.Sprintf("Server returned error status: %d", e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("Failed to parse response: %s", e.Message)
	}
	return e.Message
}

// NewInvalidQueryError reports an empty or whitespace-only query
func NewInvalidQueryError() *SearchError {
	return &SearchError{
		Kind:    KindInvalidQuery,
		Message: "query is empty",
	}
}

// NewTransportError wraps a network layer failure
func NewTransportError(err error) *SearchError {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	return &SearchError{
		Kind:    KindTransport,
		Message: msg,
		Err:     err,
	}
}

// NewServerError reports a non-2xx response
func NewServerError(statusCode int) *SearchError {
	return &SearchError{
		Kind:       KindServer,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP_%d", statusCode),
	}
}

// NewDecodeError reports a payload that does not match the expected shape
func NewDecodeError(msg string, err error) *SearchError {
	return &SearchError{
		Kind:    KindDecode,
		Message: msg,
		Err:     err,
	}
}

// AsSearchError classifies any error. Errors that are not already a
// SearchError are treated as transport failures.
func AsSearchError(err error) *SearchError {
	if err == nil {
		return nil
	}
	var se *SearchError
	if errors.As(err, &se) {
		return se
	}
	return NewTransportError(err)
}
