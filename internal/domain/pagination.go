package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize, saturating at math.MaxInt instead of overflowing.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the half-open [start, end) slice window of this page over total items.
// A zero PageSize means no paging. Pages past the end yield an empty window at total.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	pages := total / p.PageSize
	if total%p.PageSize != 0 {
		pages++
	}
	if p.Page > 1 && p.Page-1 >= pages {
		return total, total
	}
	start = p.Offset()
	end = min(start+p.PageSize, total)
	return start, end
}
