package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const webSearchTool = "web_search_preview"

// responsesRequest Responses API 请求体
type responsesRequest struct {
	Model      string     `json:"model"`
	Input      string     `json:"input"`
	Tools      []toolSpec `json:"tools"`
	ToolChoice toolChoice `json:"tool_choice"`
}

type toolSpec struct {
	Type              string `json:"type"`
	SearchContextSize string `json:"search_context_size,omitempty"`
}

type toolChoice struct {
	Type string `json:"type"`
}

// CreateWebSearch calls the Responses API with the web search tool forced,
// so the model cannot answer without searching.
func (p *Provider) CreateWebSearch(ctx context.Context, req types.WebSearchRequest) (*types.WebSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, types.NewProviderError(p.Name(), types.ErrorTypeInvalidRequest, "query is required", types.ErrEmptyQuery)
	}

	model := req.Model
	if model == "" {
		model = p.config.SearchModel
	}

	body, err := json.Marshal(responsesRequest{
		Model: model,
		Input: req.Query,
		Tools: []toolSpec{{
			Type:              webSearchTool,
			SearchContextSize: req.SearchContextSize,
		}},
		ToolChoice: toolChoice{Type: webSearchTool},
	})
	if err != nil {
		return nil, types.NewProviderError(p.Name(), types.ErrorTypeInvalidRequest, "marshal request failed", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.config.BaseURL, "/")+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, types.NewProviderError(p.Name(), types.ErrorTypeInvalidRequest, "create request failed", err)
	}
	p.setHeaders(httpReq)

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		perr := classifyError(err)
		p.logger.Error("web search request failed",
			zap.String("model", model),
			zap.String("error_type", string(perr.Type)),
			zap.Error(err))
		return nil, perr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(err)
	}

	if resp.StatusCode != http.StatusOK {
		message := gjson.GetBytes(raw, "error.message").String()
		if message == "" {
			message = fmt.Sprintf("API error: %s", strings.TrimSpace(string(raw)))
		}
		perr := types.NewStatusError(p.Name(), resp.StatusCode, message)
		perr.RequestID = resp.Header.Get("x-request-id")
		p.logger.Error("web search returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", perr.RequestID),
			zap.String("body", truncate(string(raw), 512)))
		return nil, perr
	}

	if !gjson.ValidBytes(raw) {
		p.logger.Error("web search returned invalid JSON",
			zap.String("body", truncate(string(raw), 512)))
		return nil, types.NewProviderError(p.Name(), types.ErrorTypeMalformed, "invalid JSON in response", nil)
	}

	result := parseResponses(gjson.ParseBytes(raw))

	p.logger.Debug("web search finished",
		zap.String("id", result.ID),
		zap.String("model", result.Model),
		zap.Int("citations", len(result.Citations)),
		zap.Bool("search_called", result.SearchCall != nil),
		zap.Duration("latency", time.Since(start)))

	return result, nil
}

// parseResponses 从 Responses API 结果中提取文本、引用和搜索调用
func parseResponses(doc gjson.Result) *types.WebSearchResponse {
	result := &types.WebSearchResponse{
		ID:     doc.Get("id").String(),
		Model:  doc.Get("model").String(),
		Status: doc.Get("status").String(),
		Usage: types.Usage{
			PromptTokens:     int(doc.Get("usage.input_tokens").Int()),
			CompletionTokens: int(doc.Get("usage.output_tokens").Int()),
			TotalTokens:      int(doc.Get("usage.total_tokens").Int()),
		},
	}

	var texts []string
	doc.Get("output").ForEach(func(_, item gjson.Result) bool {
		switch item.Get("type").String() {
		case "web_search_call":
			if result.SearchCall == nil {
				result.SearchCall = &types.WebSearchCall{
					ID:     item.Get("id").String(),
					Status: item.Get("status").String(),
					Query:  item.Get("action.query").String(),
				}
			}
		case "message":
			item.Get("content").ForEach(func(_, part gjson.Result) bool {
				if part.Get("type").String() != "output_text" {
					return true
				}
				texts = append(texts, part.Get("text").String())
				part.Get("annotations").ForEach(func(_, ann gjson.Result) bool {
					if c, ok := parseURLCitation(ann); ok {
						result.Citations = append(result.Citations, c)
					}
					return true
				})
				return true
			})
		}
		return true
	})

	// The SDK convenience field is preferred when a proxy already flattened it.
	if outputText := doc.Get("output_text"); outputText.Exists() && outputText.Type == gjson.String {
		result.OutputText = outputText.String()
	} else {
		result.OutputText = strings.Join(texts, "\n")
	}

	return result
}

// parseURLCitation accepts both the flat Responses shape and the nested
// chat-completions shape ({"url_citation": {...}}).
func parseURLCitation(ann gjson.Result) (types.URLCitation, bool) {
	if ann.Get("type").String() != "url_citation" {
		return types.URLCitation{}, false
	}

	src := ann
	if nested := ann.Get("url_citation"); nested.IsObject() {
		src = nested
	}

	url := src.Get("url").String()
	if url == "" {
		return types.URLCitation{}, false
	}

	return types.URLCitation{
		URL:        url,
		Title:      src.Get("title").String(),
		Text:       src.Get("content").String(),
		StartIndex: int(src.Get("start_index").Int()),
		EndIndex:   int(src.Get("end_index").Int()),
	}, true
}

// setHeaders 设置请求 headers
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	if p.config.Organization != "" {
		req.Header.Set("OpenAI-Organization", p.config.Organization)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
