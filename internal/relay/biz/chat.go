package biz

import (
	"context"
	"time"

	aitypes "github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/relay/parser"
	"github.com/lk2023060901/reasoning-relay/internal/relay/types"
	"go.uber.org/zap"
)

// SystemPrompt asks the model to emit the markers SplitReasoning looks for.
const SystemPrompt = "Always structure your responses in this format:\n" +
	"1. First, provide your reasoning starting with 'Reasoning:'\n" +
	"2. Then, provide your final answer starting with 'Answer:'"

// ChatUseCase 推理对话业务逻辑
type ChatUseCase struct {
	provider aitypes.Provider
	model    string
	timeout  time.Duration
	logger   *logger.Logger
}

// NewChatUseCase 创建对话用例
func NewChatUseCase(provider aitypes.Provider, config *conf.Config, log *logger.Logger) *ChatUseCase {
	return &ChatUseCase{
		provider: provider,
		model:    config.OpenAI.ChatModel,
		timeout:  config.OpenAI.Timeout,
		logger:   log.Named("chat"),
	}
}

// Chat sends the conversation upstream and splits the reply into
// reasoning and answer. With an image, only the last message's text is
// sent alongside it and earlier history is dropped.
func (uc *ChatUseCase) Chat(ctx context.Context, messages []types.Message, image *Image) (*types.ChatResponse, error) {
	req, err := uc.BuildRequest(messages, image)
	if err != nil {
		return nil, err
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	log := uc.logger.WithContext(ctx)
	start := time.Now()

	resp, err := uc.provider.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error("chat completion failed",
			zap.Int("history", len(messages)),
			zap.Bool("image", image != nil),
			zap.Error(err))
		return nil, upstreamError(err)
	}

	split := parser.SplitReasoning(resp.Content)
	if !split.Structured {
		log.Warn("model reply did not follow the reasoning format",
			zap.String("completion_id", resp.ID))
	}

	log.Info("chat completed",
		zap.String("model", resp.Model),
		zap.String("completion_id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", time.Since(start)))

	return &types.ChatResponse{
		Text:      split.Answer,
		Sender:    types.SenderBot,
		Reasoning: split.Reasoning,
	}, nil
}

// BuildRequest 构建上游请求：系统提示 + 历史消息，或系统提示 + 单条图文消息
func (uc *ChatUseCase) BuildRequest(messages []types.Message, image *Image) (aitypes.ChatCompletionRequest, error) {
	req := aitypes.ChatCompletionRequest{
		Model:    uc.model,
		Messages: []aitypes.Message{aitypes.TextMessage(aitypes.RoleSystem, SystemPrompt)},
	}

	if image == nil {
		for _, m := range messages {
			req.Messages = append(req.Messages, aitypes.TextMessage(roleFor(m.Sender), m.Text))
		}
		return req, nil
	}

	if len(messages) == 0 {
		return req, apperrors.Wrap(ErrNoMessages, apperrors.ErrInvalidParams)
	}
	if len(image.Data) == 0 {
		return req, apperrors.Wrap(ErrEmptyImage, apperrors.ErrInvalidParams)
	}

	last := messages[len(messages)-1]
	req.Messages = append(req.Messages, aitypes.Message{
		Role: aitypes.RoleUser,
		Parts: []aitypes.ContentPart{
			{Type: aitypes.ContentTypeText, Text: last.Text},
			{Type: aitypes.ContentTypeImageURL, ImageURL: image.DataURI()},
		},
	})
	return req, nil
}

func roleFor(sender types.Sender) string {
	if sender == types.SenderBot {
		return aitypes.RoleAssistant
	}
	return aitypes.RoleUser
}
