package types

import (
	"errors"
	"time"
)

var (
	ErrMissingAPIKey  = errors.New("API key is required")
	ErrMissingBaseURL = errors.New("base URL is required")
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 60 * time.Second

// Config Provider 通用配置
type Config struct {
	APIKey       string            // API Key
	BaseURL      string            // API 基础 URL
	Organization string            // OpenAI 组织 ID（可选）
	Timeout      time.Duration     // 请求超时
	ChatModel    string            // 聊天默认模型
	SearchModel  string            // 联网搜索默认模型
	Headers      map[string]string // 自定义 HTTP Headers
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}
