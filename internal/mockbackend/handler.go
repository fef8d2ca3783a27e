package mockbackend

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
)

// Handler serves the backend search API
type Handler struct {
	engine *Engine
	logger *logger.Logger
}

// NewHandler creates a handler over engine
func NewHandler(engine *Engine, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{engine: engine, logger: log.Named("mockbackend")}
}

// NewRouter builds the gin engine exposing /search and /api/search
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{SkipPaths: []string{"/health"}}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/search", h.Search)
	router.GET("/api/search", h.Search)

	return router
}

// Search answers GET ?query=...
//
// Optional debug parameters: status forces an error status, delay_ms delays the answer.
func (h *Handler) Search(c *gin.Context) {
	if ms, err := strconv.Atoi(c.Query("delay_ms")); err == nil && ms > 0 {
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-c.Request.Context().Done():
			return
		}
	}

	if status, err := strconv.Atoi(c.Query("status")); err == nil && status >= 400 {
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}

	query := c.Query("query")
	resp := h.engine.Search(query)

	h.logger.WithContext(c.Request.Context()).Debug("mock search",
		zap.String("query", query),
		zap.Int("results", len(resp.Results)),
	)

	c.JSON(http.StatusOK, resp)
}
