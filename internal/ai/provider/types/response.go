package types

// ChatCompletionResponse 聊天补全响应（只保留首个 choice）
type ChatCompletionResponse struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
	Usage        Usage  `json:"usage"`
}

// Usage Token 使用统计
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// WebSearchResponse 联网搜索响应
type WebSearchResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Status     string         `json:"status"`
	OutputText string         `json:"output_text"`
	Citations  []URLCitation  `json:"citations"`
	SearchCall *WebSearchCall `json:"search_call,omitempty"`
	Usage      Usage          `json:"usage"`
}

// URLCitation is a url_citation annotation attached to the output text.
// Title and Text may be empty when the upstream omits them.
type URLCitation struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	Text       string `json:"text,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// WebSearchCall web_search_call 输出项
type WebSearchCall struct {
	ID     string `json:"id"`
	Status string `json:"status"` // completed, failed, in_progress
	Query  string `json:"query,omitempty"`
}
