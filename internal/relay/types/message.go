package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message 客户端提交的单条历史消息
type Message struct {
	Text   string  `json:"text"`
	Sender Sender  `json:"sender"`
	Image  *string `json:"image,omitempty"` // 前端展示用，服务端忽略
}

// ChatResponse 聊天接口返回的 bot 消息
type ChatResponse struct {
	Text      string `json:"text"`
	Sender    Sender `json:"sender"`
	Reasoning string `json:"reasoning"`
}

// Citation 引用来源
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SearchResponse 搜索接口返回的 bot 消息
type SearchResponse struct {
	Text      string     `json:"text"`
	Sender    Sender     `json:"sender"`
	Citations []Citation `json:"citations"`
	SearchID  string     `json:"search_id,omitempty"`
}

// WebSearchStatus 搜索调用状态
type WebSearchStatus struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// ChatReply is the body of a successful chat call.
type ChatReply struct {
	Message ChatResponse `json:"message"`
}

// SearchReply is the body of a successful search call.
type SearchReply struct {
	Message   SearchResponse  `json:"message"`
	WebSearch WebSearchStatus `json:"web_search"`
}

// rawMessage keeps pointers so absent fields can be told apart from empty ones.
type rawMessage struct {
	Text   *string `json:"text"`
	Sender *string `json:"sender"`
	Image  *string `json:"image"`
}

// ParseMessages decodes the JSON-encoded conversation history sent in the
// "messages" form field. Every entry needs a text and a known sender.
func ParseMessages(raw string) ([]Message, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("messages is empty")
	}

	var items []rawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("messages is not a valid JSON array: %w", err)
	}

	messages := make([]Message, 0, len(items))
	for i, item := range items {
		if item.Text == nil {
			return nil, fmt.Errorf("messages[%d]: missing field \"text\"", i)
		}
		if item.Sender == nil {
			return nil, fmt.Errorf("messages[%d]: missing field \"sender\"", i)
		}
		sender := Sender(*item.Sender)
		if !sender.Valid() {
			return nil, fmt.Errorf("messages[%d]: unknown sender %q", i, *item.Sender)
		}
		messages = append(messages, Message{
			Text:   *item.Text,
			Sender: sender,
			Image:  item.Image,
		})
	}

	return messages, nil
}
