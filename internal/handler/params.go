package handler

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// pageParams reads page/limit query parameters with clamped defaults.
func pageParams(r *http.Request) (page, limit int) {
	query := r.URL.Query()

	page, _ = strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit
}

// pagedResponse is the standard paginated list envelope.
func pagedResponse(itemsKey string, items any, page, limit, total int) map[string]any {
	return map[string]any{
		itemsKey: items,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	}
}
