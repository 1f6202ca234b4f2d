package errors

import "net/http"

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001
	ErrNotFound       = 1002
	ErrBadRequest     = 1007
	ErrFileTooLarge   = 1009

	// Upstream model API errors (6000-6999)
	ErrUpstreamFailed      = 6000
	ErrUpstreamUnavailable = 6001
	ErrUpstreamTimeout     = 6002
	ErrUpstreamRateLimited = 6003
	ErrUpstreamEmptyReply  = 6004
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrBadRequest:     {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrFileTooLarge:   {ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File size exceeds limit"},

	ErrUpstreamFailed:      {ErrUpstreamFailed, http.StatusBadGateway, "Model API request failed"},
	ErrUpstreamUnavailable: {ErrUpstreamUnavailable, http.StatusBadGateway, "Model API unreachable"},
	ErrUpstreamTimeout:     {ErrUpstreamTimeout, http.StatusGatewayTimeout, "Model API timed out"},
	ErrUpstreamRateLimited: {ErrUpstreamRateLimited, http.StatusTooManyRequests, "Model API rate limit exceeded"},
	ErrUpstreamEmptyReply:  {ErrUpstreamEmptyReply, http.StatusBadGateway, "Model API returned no choices"},
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
