package helpers

import (
	"net/http"
	"strconv"

	"eventful/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParsePagination reads page and limit from the request query string, clamps
// them to valid ranges, and returns domain.PaginationParams. Invalid or
// missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	return domain.PaginationParams{Page: page, Limit: limit}
}
