package factory

import (
	"time"

	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/openai"
	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultChatModel     = "gpt-4o-mini"
	DefaultSearchModel   = "gpt-4o"
)

// Option 配置选项函数
type Option func(*types.Config)

// WithBaseURL 返回设置 Base URL 的 Option
func WithBaseURL(baseURL string) Option {
	return func(c *types.Config) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
	}
}

// WithChatModel 返回设置聊天模型的 Option
func WithChatModel(model string) Option {
	return func(c *types.Config) {
		if model != "" {
			c.ChatModel = model
		}
	}
}

// WithSearchModel 返回设置搜索模型的 Option
func WithSearchModel(model string) Option {
	return func(c *types.Config) {
		if model != "" {
			c.SearchModel = model
		}
	}
}

// WithOrganization 返回设置组织 ID 的 Option
func WithOrganization(org string) Option {
	return func(c *types.Config) {
		c.Organization = org
	}
}

// WithTimeout 返回设置超时的 Option
func WithTimeout(timeout time.Duration) Option {
	return func(c *types.Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithHeader 返回添加单个 Header 的 Option
func WithHeader(key, value string) Option {
	return func(c *types.Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}

// OpenAI 快速创建 OpenAI 配置
func OpenAI(apiKey string, opts ...Option) *types.Config {
	config := &types.Config{
		APIKey:      apiKey,
		BaseURL:     DefaultOpenAIBaseURL,
		Timeout:     types.DefaultTimeout,
		ChatModel:   DefaultChatModel,
		SearchModel: DefaultSearchModel,
		Headers:     make(map[string]string),
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// FromConf 由应用配置构建 Provider 配置
func FromConf(c conf.OpenAIConfig) *types.Config {
	return OpenAI(c.APIKey,
		WithBaseURL(c.BaseURL),
		WithOrganization(c.Organization),
		WithChatModel(c.ChatModel),
		WithSearchModel(c.SearchModel),
		WithTimeout(c.Timeout),
	)
}

// NewOpenAIProvider builds the upstream client from application config.
func NewOpenAIProvider(c *conf.Config, log *logger.Logger) (types.Provider, func(), error) {
	p, err := openai.New(FromConf(c.OpenAI), log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = p.Close()
	}
	return p, cleanup, nil
}
