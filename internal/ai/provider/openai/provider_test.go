package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(&types.Config{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1",
		Timeout:     5 * time.Second,
		ChatModel:   "gpt-4o-mini",
		SearchModel: "gpt-4o",
		Headers:     map[string]string{"X-Relay": "test"},
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return p
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, logger.Nop())
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)

	_, err = New(&types.Config{APIKey: "sk-test"}, logger.Nop())
	assert.ErrorIs(t, err, types.ErrMissingBaseURL)

	cfg := &types.Config{APIKey: "sk-test", BaseURL: "http://localhost"}
	p, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "openai", p.Name())
}

func TestCreateChatCompletion(t *testing.T) {
	var captured map[string]interface{}

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "test", r.Header.Get("X-Relay"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Reasoning: r\nAnswer: a"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	resp, err := p.CreateChatCompletion(context.Background(), types.ChatCompletionRequest{
		Messages: []types.Message{
			types.TextMessage(types.RoleSystem, "be structured"),
			{
				Role: types.RoleUser,
				Parts: []types.ContentPart{
					{Type: types.ContentTypeText, Text: "what is this?"},
					{Type: types.ContentTypeImageURL, ImageURL: "data:image/png;base64,AAAA"},
				},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "Reasoning: r\nAnswer: a", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Equal(t, "gpt-4o-mini", captured["model"], "default chat model is used")
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "be structured", messages[0].(map[string]interface{})["content"])

	parts := messages[1].(map[string]interface{})["content"].([]interface{})
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]interface{})["type"])
	image := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/png;base64,AAAA", image["url"])
}

func TestCreateChatCompletion_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType types.ErrorType
	}{
		{
			name:     "authentication",
			status:   http.StatusUnauthorized,
			body:     `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantType: types.ErrorTypeAuthentication,
		},
		{
			name:     "rate limit",
			status:   http.StatusTooManyRequests,
			body:     `{"error": {"message": "Rate limit reached", "type": "requests"}}`,
			wantType: types.ErrorTypeRateLimit,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error": {"message": "The server had an error", "type": "server_error"}}`,
			wantType: types.ErrorTypeAPI,
		},
		{
			name:     "empty choices",
			status:   http.StatusOK,
			body:     `{"id": "x", "choices": []}`,
			wantType: types.ErrorTypeMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.CreateChatCompletion(context.Background(), types.ChatCompletionRequest{
				Messages: []types.Message{types.TextMessage(types.RoleUser, "hi")},
			})
			require.Error(t, err)

			perr, ok := types.AsProviderError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, perr.Type)
		})
	}
}

func TestCreateChatCompletion_Timeout(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.CreateChatCompletion(ctx, types.ChatCompletionRequest{
		Messages: []types.Message{types.TextMessage(types.RoleUser, "hi")},
	})
	require.Error(t, err)

	perr, ok := types.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeTimeout, perr.Type)
	assert.True(t, perr.IsNetworkError())
}

func TestCreateChatCompletion_Unreachable(t *testing.T) {
	p, err := New(&types.Config{
		APIKey:  "sk-test",
		BaseURL: "http://127.0.0.1:1/v1",
		Timeout: time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	_, err = p.CreateChatCompletion(context.Background(), types.ChatCompletionRequest{
		Messages: []types.Message{types.TextMessage(types.RoleUser, "hi")},
	})
	require.Error(t, err)

	perr, ok := types.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeConnection, perr.Type)
}

func TestCancel_AbortsInFlightRequest(t *testing.T) {
	calls := map[string]func(p *Provider, ctx context.Context) error{
		"chat": func(p *Provider, ctx context.Context) error {
			_, err := p.CreateChatCompletion(ctx, types.ChatCompletionRequest{
				Messages: []types.Message{types.TextMessage(types.RoleUser, "hi")},
			})
			return err
		},
		"web search": func(p *Provider, ctx context.Context) error {
			_, err := p.CreateWebSearch(ctx, types.WebSearchRequest{Query: "go 1.24 release"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			started := make(chan struct{})
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				close(started)
				select {
				case <-r.Context().Done():
				case <-time.After(3 * time.Second):
				}
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				<-started
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()

			begin := time.Now()
			err := call(p, ctx)
			elapsed := time.Since(begin)
			require.Error(t, err)

			perr, ok := types.AsProviderError(err)
			require.True(t, ok)
			assert.Equal(t, types.ErrorTypeCanceled, perr.Type)
			assert.ErrorIs(t, err, context.Canceled)
			assert.Less(t, elapsed, time.Second, "canceled call must return before the upstream replies")
		})
	}
}
