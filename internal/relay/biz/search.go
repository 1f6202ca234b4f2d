package biz

import (
	"context"
	"strings"
	"time"

	aitypes "github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/relay/parser"
	"github.com/lk2023060901/reasoning-relay/internal/relay/types"
	"go.uber.org/zap"
)

// DefaultSearchStatus is reported when the upstream did not expose a search call.
const DefaultSearchStatus = "completed"

// SearchUseCase 联网搜索业务逻辑
type SearchUseCase struct {
	provider    aitypes.Provider
	model       string
	contextSize string
	timeout     time.Duration
	logger      *logger.Logger
}

// NewSearchUseCase 创建搜索用例
func NewSearchUseCase(provider aitypes.Provider, config *conf.Config, log *logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		provider:    provider,
		model:       config.OpenAI.SearchModel,
		contextSize: config.OpenAI.SearchContextSize,
		timeout:     config.OpenAI.Timeout,
		logger:      log.Named("search"),
	}
}

// Search runs a forced web search on the last message's text and gathers
// the answer with its citations.
func (uc *SearchUseCase) Search(ctx context.Context, messages []types.Message) (*types.SearchReply, error) {
	if len(messages) == 0 {
		return nil, apperrors.Wrap(ErrNoMessages, apperrors.ErrInvalidParams)
	}
	query := messages[len(messages)-1].Text
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.Wrap(ErrEmptyQuery, apperrors.ErrInvalidParams)
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	log := uc.logger.WithContext(ctx)
	start := time.Now()

	resp, err := uc.provider.CreateWebSearch(ctx, aitypes.WebSearchRequest{
		Model:             uc.model,
		Query:             query,
		SearchContextSize: uc.contextSize,
	})
	if err != nil {
		log.Error("web search failed", zap.Error(err))
		return nil, upstreamError(err)
	}

	if resp.SearchCall == nil {
		log.Warn("response has no web_search_call item", zap.String("response_id", resp.ID))
	}
	if resp.OutputText == "" {
		log.Warn("response has no output text",
			zap.String("response_id", resp.ID),
			zap.String("status", resp.Status))
	}

	reply := BuildSearchReply(resp)

	log.Info("web search completed",
		zap.String("model", resp.Model),
		zap.String("search_id", reply.WebSearch.ID),
		zap.Int("native_citations", len(resp.Citations)),
		zap.Int("citations", len(reply.Message.Citations)),
		zap.Duration("latency", time.Since(start)))

	return reply, nil
}

// BuildSearchReply 将上游搜索结果转换为客户端响应
func BuildSearchReply(resp *aitypes.WebSearchResponse) *types.SearchReply {
	native := make([]types.Citation, 0, len(resp.Citations))
	for _, c := range resp.Citations {
		native = append(native, parser.NewCitation(c.URL, c.Title, c.Text))
	}

	status := types.WebSearchStatus{Status: DefaultSearchStatus, ID: resp.ID}
	if call := resp.SearchCall; call != nil {
		if call.Status != "" {
			status.Status = call.Status
		}
		if call.ID != "" {
			status.ID = call.ID
		}
	}

	return &types.SearchReply{
		Message: types.SearchResponse{
			Text:      resp.OutputText,
			Sender:    types.SenderBot,
			Citations: parser.ExtractCitations(resp.OutputText, native),
			SearchID:  status.ID,
		},
		WebSearch: status,
	}
}
