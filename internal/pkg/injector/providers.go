package injector

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/conf"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/nightmarket-search/internal/pkg/redis"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/sse"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/workerpool"
	"github.com/lk2023060901/nightmarket-search/internal/search/service"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/search/transport"
	"github.com/lk2023060901/nightmarket-search/internal/server"
)

// Provider functions shared by wire.go and wire_gen.go

func provideWorkerPool(config *conf.Config, log *logger.Logger) (*workerpool.Pool, func(), error) {
	pool, err := workerpool.New(&config.Pool, log)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Shutdown, nil
}

// provideRedisClient returns nil when the response cache is disabled
func provideRedisClient(config *conf.Config, log *logger.Logger) (*pkgredis.Client, func(), error) {
	if !config.Redis.Enabled {
		return nil, func() {}, nil
	}

	client, err := pkgredis.New(&config.Redis, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

func provideTransport(config *conf.Config, redisClient *pkgredis.Client, log *logger.Logger) (transport.Transport, error) {
	tr, err := transport.NewFactory().Create(&config.Search)
	if err != nil {
		return nil, err
	}

	if redisClient == nil {
		return tr, nil
	}

	log.Info("search response cache enabled",
		zap.String("transport", string(tr.Name())),
		zap.Duration("ttl", config.Search.CacheTTL),
	)
	return transport.NewCachedTransport(tr, redisClient, config.Search.CacheTTL, log), nil
}

func provideRegistry(
	config *conf.Config,
	tr transport.Transport,
	pool *workerpool.Pool,
	log *logger.Logger,
) (*session.Registry, func()) {
	registry := session.NewRegistry(&config.Search, tr, pool, log, config.Session.MaxSessions)
	return registry, registry.Close
}

func provideSearchService(
	config *conf.Config,
	registry *session.Registry,
	hub *sse.Hub,
	log *logger.Logger,
) *service.SearchService {
	svc := service.NewSearchService(registry, hub, log)
	svc.SetHeartbeat(config.Session.SSEHeartbeat)
	return svc
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
	registry *session.Registry,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
		Registry:   registry,
	}
}
