package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int
	MaxPage = math.MaxInt / MaxLimit
)

// Params is a validated page request
type Params struct {
	Page  int
	Limit int
}

// Pagination is echoed back on every list response
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// FromRequest reads ?page and ?limit. Missing, non-numeric or non-positive
// values fall back to the defaults; limit is capped at MaxLimit.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	return Normalize(parsePositive(q.Get("page")), parsePositive(q.Get("limit")))
}

func Normalize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page > MaxPage {
		page = MaxPage
	}
	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result builds the response block; pages is ceil(total/limit)
func (p Params) Result(total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}

// Window returns items[offset:offset+limit]. A limit of zero or less means
// no limit; an offset outside the slice yields an empty window.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func parsePositive(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
