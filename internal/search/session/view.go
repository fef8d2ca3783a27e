package session

import (
	"github.com/lk2023060901/nightmarket-search/internal/search/paginator"
	"github.com/lk2023060901/nightmarket-search/internal/search/types"
)

// View is the read model handed to the display layer
type View struct {
	*types.SearchState
	PageCount   int                   `json:"pageCount"`
	PageSize    int                   `json:"pageSize"`
	VisiblePage []*types.SearchResult `json:"visiblePage"`
	HasNext     bool                  `json:"hasNext"`
	HasPrevious bool                  `json:"hasPrevious"`
}

// NewView builds the display model of state
func NewView(state *types.SearchState, pageSize int) *View {
	pageCount := paginator.PageCount(len(state.Results), pageSize)
	return &View{
		SearchState: state,
		PageCount:   pageCount,
		PageSize:    pageSize,
		VisiblePage: paginator.VisibleSlice(state.Results, pageSize, state.CurrentPage),
		HasNext:     state.CurrentPage < pageCount,
		HasPrevious: state.CurrentPage > 1,
	}
}
