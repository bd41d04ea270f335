// Package utils holds small helpers shared across layers. Currently
// this is the pagination arithmetic for the admin application listing.
package utils

import "strconv"

const (
	// DefaultPageSize is applied when the request names no page size.
	DefaultPageSize = 20
	// MaxPageSize caps a single listing response. The admin panel pages
	// through the collection; base64 document payloads make unbounded
	// pages expensive.
	MaxPageSize = 100
)

// ParsePage converts a page query parameter to a 1-based page number.
// Empty, malformed or non-positive values yield page 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePageSize converts a page_size query parameter, applying the
// default for empty or malformed values and clamping to MaxPageSize.
func ParsePageSize(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// PageBounds returns the [start, end) slice bounds for one page of a
// collection of length total. A page past the end yields an empty range
// with start == end == total.
func PageBounds(page, pageSize, total int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	start := (page - 1) * pageSize
	if start >= total {
		return total, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
