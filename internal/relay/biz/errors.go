package biz

import (
	"errors"

	aitypes "github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
)

// 输入校验错误
var (
	ErrNoMessages = errors.New("at least one message is required")
	ErrEmptyQuery = errors.New("the last message has no text to search for")
	ErrEmptyImage = errors.New("uploaded image is empty")
)

// upstreamError maps a provider failure onto the business error codes.
func upstreamError(err error) error {
	perr, ok := aitypes.AsProviderError(err)
	if !ok {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	var code int
	switch perr.Type {
	case aitypes.ErrorTypeTimeout:
		code = apperrors.ErrUpstreamTimeout
	case aitypes.ErrorTypeConnection, aitypes.ErrorTypeCanceled:
		code = apperrors.ErrUpstreamUnavailable
	case aitypes.ErrorTypeRateLimit:
		code = apperrors.ErrUpstreamRateLimited
	case aitypes.ErrorTypeMalformed:
		code = apperrors.ErrUpstreamFailed
		if errors.Is(err, aitypes.ErrEmptyChoices) {
			code = apperrors.ErrUpstreamEmptyReply
		}
	case aitypes.ErrorTypeInvalidRequest:
		code = apperrors.ErrUpstreamFailed
		if errors.Is(err, aitypes.ErrEmptyQuery) {
			code = apperrors.ErrInvalidParams
		}
	default:
		code = apperrors.ErrUpstreamFailed
	}

	return apperrors.Wrap(err, code)
}
