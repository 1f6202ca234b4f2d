package types

import "context"

// Provider 上游模型 API 接口
type Provider interface {
	// CreateChatCompletion 创建聊天补全（同步）
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// CreateWebSearch runs a single query with the web search tool forced on.
	CreateWebSearch(ctx context.Context, req WebSearchRequest) (*WebSearchResponse, error)

	// Name 返回 Provider 名称
	Name() string

	// Close 关闭 Provider，释放资源
	Close() error
}
