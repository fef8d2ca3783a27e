package service

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/keyword"
	apperrors "github.com/lk2023060901/nightmarket-search/internal/pkg/errors"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/logger"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/response"
	"github.com/lk2023060901/nightmarket-search/internal/pkg/sse"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// SearchService 搜索会话 HTTP 服务
type SearchService struct {
	registry  *session.Registry
	hub       *sse.Hub
	extractor *keyword.Extractor
	logger    *logger.Logger

	// SSE 心跳间隔
	heartbeat time.Duration
	// wait 模式下的最长等待时间
	waitTimeout time.Duration
}

// NewSearchService 创建搜索服务
func NewSearchService(registry *session.Registry, hub *sse.Hub, log *logger.Logger) *SearchService {
	return &SearchService{
		registry:    registry,
		hub:         hub,
		extractor:   keyword.NewExtractor(),
		logger:      log.Named("search.service"),
		heartbeat:   30 * time.Second,
		waitTimeout: 60 * time.Second,
	}
}

// SetHeartbeat 设置 SSE 心跳间隔，非正值忽略
func (s *SearchService) SetHeartbeat(interval time.Duration) {
	if interval > 0 {
		s.heartbeat = interval
	}
}

// RegisterRoutes 注册路由
func (s *SearchService) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", s.CreateSession)
		sessions.GET("/:id", s.GetSession)
		sessions.DELETE("/:id", s.DeleteSession)
		sessions.POST("/:id/search", s.Search)
		sessions.POST("/:id/cancel", s.Cancel)
		sessions.POST("/:id/page", s.GoToPage)
		sessions.POST("/:id/page/next", s.NextPage)
		sessions.POST("/:id/page/prev", s.PreviousPage)
		sessions.GET("/:id/events", s.Events)
	}

	r.POST("/keywords", s.ExtractKeywords)
}

// CreateSession 创建搜索会话
func (s *SearchService) CreateSession(c *gin.Context) {
	sess, err := s.registry.Create()
	if err != nil {
		s.handleError(c, err)
		return
	}

	go s.forwardEvents(sess, sess.Subscribe())

	response.Created(c, toSessionResponse(sess))
}

// GetSession 获取会话当前状态
func (s *SearchService) GetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	response.Success(c, toSessionResponse(sess))
}

// DeleteSession 关闭会话
func (s *SearchService) DeleteSession(c *gin.Context) {
	if err := s.registry.Delete(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, nil)
}

// Search 在会话中发起搜索
func (s *SearchService) Search(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	if !req.Wait {
		seq := sess.Search(req.Query)
		response.Success(c, newSearchResponse(seq, sess.State(), sess.PageSize()))
		return
	}

	updates := sess.Subscribe()
	defer sess.Unsubscribe(updates)

	seq := sess.Search(req.Query)
	s.waitSettled(c, sess, seq, updates)

	response.Success(c, newSearchResponse(seq, sess.State(), sess.PageSize()))
}

// waitSettled 阻塞到 seq 对应的搜索离开 Loading、被更新的搜索取代或超时
func (s *SearchService) waitSettled(c *gin.Context, sess *session.Session, seq uint64, updates <-chan *types.SearchState) {
	settled := func(st *types.SearchState) bool {
		return st.Seq > seq || (st.Seq == seq && st.Status != types.StatusLoading)
	}
	if settled(sess.State()) {
		return
	}

	timer := time.NewTimer(s.waitTimeout)
	defer timer.Stop()

	for {
		select {
		case st, ok := <-updates:
			if !ok || settled(st) || settled(sess.State()) {
				return
			}
		case <-c.Request.Context().Done():
			return
		case <-timer.C:
			s.requestLogger(c).Warn("search wait timed out", zap.Uint64("seq", seq))
			return
		}
	}
}

// Cancel 取消会话中进行中的搜索
func (s *SearchService) Cancel(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	sess.Cancel()
	response.Success(c, sess.View())
}

// GoToPage 跳转到指定页
func (s *SearchService) GoToPage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	sess.GoToPage(req.Page)
	response.Success(c, sess.View())
}

// NextPage 下一页
func (s *SearchService) NextPage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	sess.NextPage()
	response.Success(c, sess.View())
}

// PreviousPage 上一页
func (s *SearchService) PreviousPage(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	sess.PreviousPage()
	response.Success(c, sess.View())
}

// ExtractKeywords 统计文本中的关键词
func (s *SearchService) ExtractKeywords(c *gin.Context) {
	var req ExtractKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	response.Success(c, s.extractor.Extract(req.Text))
}

func (s *SearchService) session(c *gin.Context) (*session.Session, bool) {
	sess, err := s.registry.Get(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return nil, false
	}
	return sess, true
}

// handleError 统一错误处理
func (s *SearchService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		response.HandleError(c, apperrors.NewSessionNotFoundError(c.Param("id")))
	case errors.Is(err, session.ErrTooManySessions):
		response.ErrorWithCode(c, apperrors.ErrSessionLimit)
	default:
		appErr := apperrors.Wrap(err, apperrors.ErrInternalServer)
		if apperrors.IsServerError(appErr.Code) {
			s.requestLogger(c).Error("search service error", zap.Error(err))
		} else {
			s.requestLogger(c).Warn("search service error", zap.Error(err))
		}
		response.HandleError(c, appErr)
	}
}

// requestLogger 返回携带请求 ID 的日志器
func (s *SearchService) requestLogger(c *gin.Context) *logger.Logger {
	return s.logger.WithContext(c.Request.Context())
}
