package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * Limit.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PageMeta is the pagination metadata returned alongside paginated results.
// swagger:model PageMeta
type PageMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// NewPageMeta builds PageMeta from the current page, page limit, and total count.
// TotalPages is computed as ceiling(total / limit); if limit is 0, TotalPages is 0.
func NewPageMeta(page, limit, total int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PageMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}
