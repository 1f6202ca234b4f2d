package types

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentType 内容块类型
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImageURL ContentType = "image_url"
)

// ChatCompletionRequest 聊天补全请求
type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message is either plain text (Content) or a list of parts (Parts).
// Parts wins when both are set.
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// ContentPart 多模态内容块
type ContentPart struct {
	Type     ContentType `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL string      `json:"image_url,omitempty"` // http(s) URL 或 data URI
}

// TextMessage 创建纯文本消息
func TextMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// IsMultimodal 是否包含内容块
func (m Message) IsMultimodal() bool {
	return len(m.Parts) > 0
}

// WebSearchRequest 联网搜索请求
type WebSearchRequest struct {
	Model string `json:"model"`
	Query string `json:"query"`
	// SearchContextSize is low, medium or high; empty leaves the upstream default.
	SearchContextSize string `json:"search_context_size,omitempty"`
}
