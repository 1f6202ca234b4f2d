package openai

import (
	"context"
	"net/http"
	"time"

	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

// Provider OpenAI Provider 实现
type Provider struct {
	config     *types.Config
	client     *goopenai.Client
	httpClient *http.Client
	logger     *logger.Logger
}

// New 创建 OpenAI Provider
func New(config *types.Config, lgr *logger.Logger) (*Provider, error) {
	if config == nil {
		return nil, types.ErrMissingAPIKey
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if lgr == nil {
		lgr = logger.L()
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &headerTransport{
			base: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			headers: config.Headers,
		},
	}

	clientCfg := goopenai.DefaultConfig(config.APIKey)
	clientCfg.BaseURL = config.BaseURL
	clientCfg.OrgID = config.Organization
	clientCfg.HTTPClient = httpClient

	lgr.Info("openai provider created",
		zap.String("base_url", config.BaseURL),
		zap.String("chat_model", config.ChatModel),
		zap.String("search_model", config.SearchModel),
		zap.Duration("timeout", config.Timeout))

	return &Provider{
		config:     config,
		client:     goopenai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		logger:     lgr.Named("openai"),
	}, nil
}

// Name 返回 Provider 名称
func (p *Provider) Name() string {
	return providerName
}

// CreateChatCompletion 创建聊天补全（同步）
func (p *Provider) CreateChatCompletion(ctx context.Context, req types.ChatCompletionRequest) (*types.ChatCompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.ChatModel
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(req.Messages),
	})
	if err != nil {
		perr := classifyError(err)
		p.logger.Error("chat completion failed",
			zap.String("model", model),
			zap.String("error_type", string(perr.Type)),
			zap.Int("status_code", perr.StatusCode),
			zap.Error(err))
		return nil, perr
	}

	if len(resp.Choices) == 0 {
		return nil, types.NewProviderError(p.Name(), types.ErrorTypeMalformed, "no choices in response", types.ErrEmptyChoices)
	}

	choice := resp.Choices[0]
	p.logger.Debug("chat completion finished",
		zap.String("id", resp.ID),
		zap.String("model", resp.Model),
		zap.String("finish_reason", string(choice.FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("latency", time.Since(start)))

	return &types.ChatCompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// toChatMessages 转换消息格式
func toChatMessages(messages []types.Message) []goopenai.ChatCompletionMessage {
	result := make([]goopenai.ChatCompletionMessage, 0, len(messages))

	for _, msg := range messages {
		if !msg.IsMultimodal() {
			result = append(result, goopenai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
			continue
		}

		parts := make([]goopenai.ChatMessagePart, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Type {
			case types.ContentTypeText:
				parts = append(parts, goopenai.ChatMessagePart{
					Type: goopenai.ChatMessagePartTypeText,
					Text: part.Text,
				})
			case types.ContentTypeImageURL:
				parts = append(parts, goopenai.ChatMessagePart{
					Type: goopenai.ChatMessagePartTypeImageURL,
					ImageURL: &goopenai.ChatMessageImageURL{
						URL:    part.ImageURL,
						Detail: goopenai.ImageURLDetailAuto,
					},
				})
			}
		}

		result = append(result, goopenai.ChatCompletionMessage{
			Role:         msg.Role,
			MultiContent: parts,
		})
	}

	return result
}

// Close 关闭 Provider
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// headerTransport 为每个请求附加自定义 headers
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	return t.base.RoundTrip(clone)
}
