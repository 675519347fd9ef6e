package helpers

import (
	"net/http"
	"strconv"

	"eventmanager/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	// DefaultSize applies when the client windows with from/size.
	DefaultSize = 10
	MaxPageSize = 100
)

// ParsePagination reads either from/size (row offset and window size) or
// page/page_size. from/size takes precedence when either is present. Bad
// values fall back to the defaults and sizes are capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	if q.Has("from") || q.Has("size") {
		from := queryInt(q.Get("from"), 0, 0)
		size := min(queryInt(q.Get("size"), 1, DefaultSize), MaxPageSize)
		return domain.PaginationParams{Page: from/size + 1, PageSize: size, From: from}
	}
	page := queryInt(q.Get("page"), 1, DefaultPage)
	pageSize := min(queryInt(q.Get("page_size"), 1, DefaultPageSize), MaxPageSize)
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// queryInt parses s, returning def when it is empty, malformed or below lowest.
func queryInt(s string, lowest, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lowest {
		return def
	}
	return v
}

// PaginationMeta is the pagination block of list responses.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
