package model

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest is a 1-based page window over an ordered result set.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest normalizes page and perPage: non-positive values fall back to
// the defaults, perPage is capped at MaxPerPage and page is capped so that
// Offset stays representable.
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if maxPage := math.MaxInt / perPage; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p PageRequest) Limit() int {
	return p.PerPage
}
