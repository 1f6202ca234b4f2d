package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType 上游错误类型
type ErrorType string

const (
	// 4xx 客户端错误
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error" // 400
	ErrorTypeAuthentication ErrorType = "authentication_error"  // 401
	ErrorTypePermission     ErrorType = "permission_error"      // 403
	ErrorTypeNotFound       ErrorType = "not_found_error"       // 404
	ErrorTypeRateLimit      ErrorType = "rate_limit_error"      // 429

	// 5xx 服务器错误
	ErrorTypeAPI ErrorType = "api_error"

	// 网络层错误（无 HTTP 响应）
	ErrorTypeConnection ErrorType = "connection_error"
	ErrorTypeTimeout    ErrorType = "timeout_error"
	ErrorTypeCanceled   ErrorType = "canceled_error"

	// 响应格式错误
	ErrorTypeMalformed ErrorType = "malformed_response"
)

// ProviderError Provider 错误
type ProviderError struct {
	Type       ErrorType // 错误类型
	Provider   string    // Provider 名称
	StatusCode int       // HTTP 状态码（网络错误时为 0）
	Message    string    // 错误消息
	RequestID  string    // 上游请求 ID
	Err        error     // 原始错误
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("[%s][%s] %s", e.Provider, e.Type, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request_id: %s)", msg, e.RequestID)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether the request never got an HTTP response.
func (e *ProviderError) IsNetworkError() bool {
	return e.Type == ErrorTypeConnection || e.Type == ErrorTypeTimeout || e.Type == ErrorTypeCanceled
}

// NewProviderError 创建 Provider 错误
func NewProviderError(provider string, errType ErrorType, message string, err error) *ProviderError {
	return &ProviderError{
		Type:     errType,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// NewStatusError builds an error for a non-2xx upstream response.
func NewStatusError(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{
		Type:       ErrorTypeForStatus(statusCode),
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorTypeForStatus 根据 HTTP 状态码推断错误类型
func ErrorTypeForStatus(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return ErrorTypeInvalidRequest
	case http.StatusUnauthorized:
		return ErrorTypeAuthentication
	case http.StatusForbidden:
		return ErrorTypePermission
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	default:
		return ErrorTypeAPI
	}
}

// AsProviderError unwraps err into a *ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

var (
	ErrEmptyChoices = errors.New("response contained no choices")
	ErrEmptyQuery   = errors.New("empty search query")
)
