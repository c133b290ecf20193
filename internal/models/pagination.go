package models

import "math"

const (
	DefaultPageLimit = 5
	MaxPageLimit     = 100
	// MaxPage keeps Page*Limit well inside int range.
	MaxPage = 1_000_000
	RelatedBooksMax  = 10
)

type PaginatedResponse struct {
	Data  any `json:"data"`
	Count int `json:"count"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is offset based: rows [Page*Limit, Page*Limit+Limit).
type Pagination struct {
	Page  int
	Limit int
}

func NewPagination(page, limit int) Pagination {
	if page < 0 {
		page = 0
	}

	page = min(page, MaxPage)

	if limit < 1 {
		limit = DefaultPageLimit
	}

	limit = min(limit, MaxPageLimit)

	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Skip() int {
	if p.Page <= 0 || p.Limit <= 0 {
		return 0
	}

	if p.Page > math.MaxInt/p.Limit {
		return math.MaxInt
	}

	return p.Page * p.Limit
}
