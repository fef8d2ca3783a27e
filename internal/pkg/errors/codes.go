package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrBadRequest     = 1001

	// Search errors (2000-2999)
	ErrSearchInvalidQuery = 2000
	ErrSearchTransport    = 2001
	ErrSearchServer       = 2002
	ErrSearchDecode       = 2003

	// Session errors (3000-3999)
	ErrSessionNotFound = 3000
	ErrSessionLimit    = 3001
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrBadRequest:     {ErrBadRequest, http.StatusBadRequest, "Bad request"},

	// Search errors
	ErrSearchInvalidQuery: {ErrSearchInvalidQuery, http.StatusBadRequest, "Please enter a search query"},
	ErrSearchTransport:    {ErrSearchTransport, http.StatusBadGateway, "Search backend unreachable"},
	ErrSearchServer:       {ErrSearchServer, http.StatusBadGateway, "Search backend returned an error"},
	ErrSearchDecode:       {ErrSearchDecode, http.StatusBadGateway, "Search backend returned a malformed response"},

	// Session errors
	ErrSessionNotFound: {ErrSessionNotFound, http.StatusNotFound, "Session not found"},
	ErrSessionLimit:    {ErrSessionLimit, http.StatusTooManyRequests, "Too many open sessions"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
