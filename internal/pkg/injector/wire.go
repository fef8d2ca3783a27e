//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/lk2023060901/nightmarket-search/internal/conf"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/sse"
	"github.com/lk2023060901/nightmarket-search/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Infrastructure
	infraProviderSet,

	// Search engine
	searchProviderSet,

	// Servers
	serverProviderSet,
)

var infraProviderSet = wire.NewSet(
	provideWorkerPool,
	provideRedisClient,
	sse.NewHub,
)

var searchProviderSet = wire.NewSet(
	provideTransport,
	provideRegistry,
	provideSearchService,
)

var serverProviderSet = wire.NewSet(
	server.NewHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
