// Package listview implements the list presentation pipeline shared by all
// listing pages: free-text filtering, stable sorting and pagination. The
// three stages compose in that fixed order and never mutate their input.
package listview

import (
	"math"
	"sort"
	"strings"
)

// SortDir selects ascending or descending order.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Filter returns the records whose searchable fields contain query as a
// case-insensitive substring. An empty query matches everything.
func Filter[R any](records []R, query string, fields func(R) []string) []R {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]R(nil), records...)
	}
	out := make([]R, 0, len(records))
	for _, record := range records {
		for _, field := range fields(record) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, record)
				break
			}
		}
	}
	return out
}

// Sort returns a copy of records ordered by the given comparison. The sort
// is stable so equal records keep their store order.
func Sort[R any](records []R, less func(a, b R) bool, dir SortDir) []R {
	out := append([]R(nil), records...)
	cmp := less
	if dir == SortDesc {
		cmp = func(a, b R) bool { return less(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) })
	return out
}

// Paginate slices out the 1-based page of the given size. The last page may
// be partial; pages past the end are empty.
func Paginate[R any](records []R, pageSize, page int) []R {
	if pageSize <= 0 {
		return append([]R(nil), records...)
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []R{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return append([]R(nil), records[start:end]...)
}

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
