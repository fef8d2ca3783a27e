// Package paginator holds the page arithmetic over an ordered result list.
// All functions are pure and never panic on out-of-range input.
package paginator

import "github.com/lk2023060901/nightmarket-search/internal/search/types"

// PageCount returns ceil(total/pageSize). It is 0 for an empty list or a non-positive page size.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage returns page limited to [1, max(1, pageCount)]
func ClampPage(page, pageCount int) int {
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Bounds returns the half-open index range [start, end) of a 1-based page.
// ok is false when the page holds no items.
func Bounds(total, pageSize, pageIndex int) (start, end int, ok bool) {
	if pageSize <= 0 || pageIndex < 1 || total <= 0 {
		return 0, 0, false
	}
	start = (pageIndex - 1) * pageSize
	if start >= total {
		return 0, 0, false
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, true
}

// VisibleSlice returns the results shown on a 1-based page.
// Out-of-range pages yield an empty slice.
func VisibleSlice(results []*types.SearchResult, pageSize, pageIndex int) []*types.SearchResult {
	start, end, ok := Bounds(len(results), pageSize, pageIndex)
	if !ok {
		return []*types.SearchResult{}
	}
	return results[start:end:end]
}
