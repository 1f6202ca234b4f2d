package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aitypes "github.com/lk2023060901/reasoning-relay/internal/ai/provider/types"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/relay/biz"
	"github.com/lk2023060901/reasoning-relay/internal/relay/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// downProvider fails every call as if the model API were unreachable.
type downProvider struct{}

func (downProvider) CreateChatCompletion(context.Context, aitypes.ChatCompletionRequest) (*aitypes.ChatCompletionResponse, error) {
	return nil, aitypes.NewProviderError("down", aitypes.ErrorTypeConnection, "connection refused", nil)
}

func (downProvider) CreateWebSearch(context.Context, aitypes.WebSearchRequest) (*aitypes.WebSearchResponse, error) {
	return nil, aitypes.NewProviderError("down", aitypes.ErrorTypeConnection, "connection refused", nil)
}

func (downProvider) Name() string { return "down" }

func (downProvider) Close() error { return nil }

func testConfig() *conf.Config {
	return &conf.Config{
		Server: conf.ServerConfig{
			Host:               "127.0.0.1",
			Port:               0,
			Mode:               "test",
			MaxUploadMB:        1,
			ExposeErrorDetails: false,
		},
		CORS: conf.CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"*"},
			AllowHeaders:     []string{"*"},
			ExposeHeaders:    []string{"*"},
			AllowCredentials: true,
			MaxAge:           600 * time.Second,
		},
		OpenAI: conf.OpenAIConfig{ChatModel: "gpt-4o-mini", SearchModel: "gpt-4o", Timeout: time.Second},
	}
}

func newTestServer(t *testing.T, cfg *conf.Config) *HTTPServer {
	t.Helper()
	log := logger.Nop()
	var p aitypes.Provider = downProvider{}
	svc := service.NewRelayService(biz.NewChatUseCase(p, cfg, log), biz.NewSearchUseCase(p, cfg, log), cfg, log)
	return NewHTTPServer(cfg, log, svc)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
}

func TestChat_UpstreamDownHidesDetails(t *testing.T) {
	srv := newTestServer(t, testConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("messages", `[{"text":"hi","sender":"user"}]`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(logger.RequestIDHeader, "req-42")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(logger.RequestIDHeader))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 6001, got["code"])
	assert.Equal(t, "Model API unreachable", got["detail"])
}

func TestNoRoute(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":1002,"detail":"Resource not found"}`, w.Body.String())
}

func TestHealth_IndependentOfUpstream(t *testing.T) {
	srv := newTestServer(t, testConfig())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, testConfig())

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type")

		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "content-type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestCORS_Allowlist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = conf.CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type"},
	}
	srv := newTestServer(t, cfg)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	w := preflight("https://app.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))

	w = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowCredentials = false
	srv := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPServer_StartStop(t *testing.T) {
	srv := newTestServer(t, testConfig())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
