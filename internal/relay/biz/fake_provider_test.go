package biz

import (
	"context"
	"time"

	aitypes "github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
)

type fakeProvider struct {
	chatResp   *aitypes.ChatCompletionResponse
	searchResp *aitypes.WebSearchResponse
	err        error

	chatReq     aitypes.ChatCompletionRequest
	searchReq   aitypes.WebSearchRequest
	hasDeadline bool
	calls       int
}

func (f *fakeProvider) CreateChatCompletion(ctx context.Context, req aitypes.ChatCompletionRequest) (*aitypes.ChatCompletionResponse, error) {
	f.calls++
	f.chatReq = req
	_, f.hasDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.chatResp, nil
}

func (f *fakeProvider) CreateWebSearch(ctx context.Context, req aitypes.WebSearchRequest) (*aitypes.WebSearchResponse, error) {
	f.calls++
	f.searchReq = req
	_, f.hasDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.searchResp, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Close() error { return nil }

func testConfig() *conf.Config {
	return &conf.Config{OpenAI: conf.OpenAIConfig{
		ChatModel:   "gpt-4o-mini",
		SearchModel: "gpt-4o",
		Timeout:     5 * time.Second,
	}}
}
