package openai

import (
	"context"
	"errors"
	"net"

	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	goopenai "github.com/sashabaranov/go-openai"
)

// classifyError maps client and transport errors onto a ProviderError so
// callers can tell an unreachable upstream from one that answered with an error.
func classifyError(err error) *types.ProviderError {
	if perr, ok := types.AsProviderError(err); ok {
		return perr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewProviderError(providerName, types.ErrorTypeTimeout, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return types.NewProviderError(providerName, types.ErrorTypeCanceled, "request canceled", err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		perr := types.NewStatusError(providerName, apiErr.HTTPStatusCode, apiErr.Message)
		perr.Err = err
		return perr
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		perr := types.NewStatusError(providerName, reqErr.HTTPStatusCode, "unexpected API response")
		perr.Err = err
		return perr
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.NewProviderError(providerName, types.ErrorTypeTimeout, "request timed out", err)
	}

	return types.NewProviderError(providerName, types.ErrorTypeConnection, "request failed", err)
}
