//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/lk2023060901/reasoning-relay/internal/ai/provider/factory"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
	"github.com/lk2023060901/reasoning-relay/internal/pkg/logger"
	"github.com/lk2023060901/reasoning-relay/internal/relay/biz"
	"github.com/lk2023060901/reasoning-relay/internal/relay/service"
	"github.com/lk2023060901/reasoning-relay/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Upstream model API
	factory.NewOpenAIProvider,

	// Use cases
	useCaseProviderSet,

	// HTTP services
	service.NewRelayService,

	// Servers
	server.NewHTTPServer,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	biz.NewChatUseCase,
	biz.NewSearchUseCase,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
