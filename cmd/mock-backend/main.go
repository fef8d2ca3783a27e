package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/conf"
	"github.com/lk2023060901/nightmarket-search/internal/mockbackend"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	docs := mockbackend.DefaultCatalogue()
	if config.MockBackend.Fixtures != "" {
		docs, err = mockbackend.LoadCatalogue(config.MockBackend.Fixtures)
		if err != nil {
			log.Fatal("failed to load fixtures", zap.String("path", config.MockBackend.Fixtures), zap.Error(err))
		}
	}

	if config.Server.Mode != "" {
		gin.SetMode(config.Server.Mode)
	}

	engine := mockbackend.NewEngine(docs, config.Search.RelatedKeywordLimit)
	router := mockbackend.NewRouter(mockbackend.NewHandler(engine, log), log)

	srv := &http.Server{
		Addr:              config.MockBackend.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting mock search backend",
			zap.String("addr", srv.Addr),
			zap.Int("documents", len(docs)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start mock backend", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("mock backend forced to shutdown", zap.Error(err))
	}

	log.Info("mock backend exited")
}
