package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/nightmarket-search/internal/pkg/sse"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

const (
	// EventState 会话状态变更事件
	EventState = "state"
	// EventClosed 会话关闭事件
	EventClosed = "closed"
)

func resourceID(sessionID string) string {
	return "session:" + sessionID
}

// Events 订阅会话状态变更 (SSE)
func (s *SearchService) Events(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	log := s.requestLogger(c)

	var stream *sse.Stream
	stream = sse.NewStream(c, s.hub).
		WithResource(resourceID(sess.ID())).
		WithHeartbeat(s.heartbeat).
		OnConnect(func() {
			log.Debug("sse client connected", zap.String("client_id", stream.GetClientID()))
		}).
		OnDisconnect(func() {
			log.Debug("sse client disconnected",
				zap.String("client_id", stream.GetClientID()),
				zap.Duration("duration", stream.GetDuration()),
			)
		}).
		OnError(func(err error) {
			log.Warn("sse stream error", zap.Error(err))
		}).
		Build()

	// 首条事件为当前状态
	_ = stream.Send(EventState, sess.View())

	stream.StartStreaming()
}

// forwardEvents 将会话状态变更广播给 SSE 订阅者，会话关闭后结束
func (s *SearchService) forwardEvents(sess *session.Session, updates <-chan *types.SearchState) {
	resource := resourceID(sess.ID())

	for st := range updates {
		s.hub.Broadcast(resource, sse.Event{
			Type: EventState,
			Data: session.NewView(st, sess.PageSize()),
		})
	}

	s.hub.Broadcast(resource, sse.Event{
		Type: EventClosed,
		Data: map[string]string{"session_id": sess.ID()},
	})
	s.hub.CloseResource(resource)
}
