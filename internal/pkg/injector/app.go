package injector

import (
	"github.com/lk2023060901/nightmarket-search/internal/conf"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/server"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	HTTPServer *server.HTTPServer
	Registry   *session.Registry
	cleanup    func()
}

// Cleanup releases all resources
func (a *App) Cleanup() {
	if a.cleanup != nil {
		a.cleanup()
	}
}
