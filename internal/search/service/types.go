package service

import (
	"time"

	apperrors "github.com/lk2023060901/nightmarket-search/internal/pkg/errors"
	"github.com/lk2023060901/nightmarket-search/internal/search/session"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// SearchRequest 发起搜索请求
type SearchRequest struct {
	Query string `json:"query"`
	// Wait 为 true 时阻塞到本次搜索结束再返回
	Wait bool `json:"wait"`
}

// PageRequest 跳转页码请求
type PageRequest struct {
	Page int `json:"page" binding:"required"`
}

// ExtractKeywordsRequest 关键词提取请求
type ExtractKeywordsRequest struct {
	Text string `json:"text"`
}

// SessionResponse 会话信息
type SessionResponse struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"created_at"`
	View      *session.View `json:"view"`
}

// SearchResponse 搜索结果
type SearchResponse struct {
	Seq   uint64         `json:"seq"`
	View  *session.View  `json:"view"`
	Error *SearchFailure `json:"error,omitempty"`
}

// SearchFailure 本次搜索失败时的业务错误码与提示
type SearchFailure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newSearchResponse 仅当状态属于 seq 且已失败时附带错误
func newSearchResponse(seq uint64, st *types.SearchState, pageSize int) *SearchResponse {
	resp := &SearchResponse{Seq: seq, View: session.NewView(st, pageSize)}
	if st.Seq == seq && st.Status == types.StatusFailed && st.Err != nil {
		appErr := apperrors.FromSearchError(st.Err)
		resp.Error = &SearchFailure{Code: appErr.Code, Message: apperrors.GetDetails(appErr)}
	}
	return resp
}

func toSessionResponse(s *session.Session) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID(),
		CreatedAt: s.CreatedAt().Format(time.RFC3339),
		View:      s.View(),
	}
}
