package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	apperrors "github.com/lk2023060901/reasoning-relay/internal/pkg/errors"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/response"
	"github.com/lk2023060901/reasoning-relay/internal/relay/service"
	"go.uber.org/zap"
)

const healthPath = "/api/health"

type HTTPServer struct {
	server       *http.Server
	logger       *logger.Logger
	relayService *service.RelayService
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	relayService *service.RelayService,
) *HTTPServer {
	gin.SetMode(config.Server.Mode)
	response.SetExposeDetails(config.Server.ExposeErrorDetails)

	router := gin.New()
	router.MaxMultipartMemory = config.Server.MaxUploadBytes()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLogger(log, logger.MiddlewareOptions{
		SkipPaths: []string{healthPath},
	}))
	router.Use(CORS(config.CORS))

	// Health check
	router.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	api := router.Group("/api")
	relayService.RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, apperrors.ErrNotFound, c.Request.Method+" "+c.Request.URL.Path)
	})

	return &HTTPServer{
		server: &http.Server{
			Addr:         config.Server.Addr(),
			Handler:      router,
			ReadTimeout:  config.Server.ReadTimeout,
			WriteTimeout: config.Server.WriteTimeout,
		},
		logger:       log,
		relayService: relayService,
	}
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
