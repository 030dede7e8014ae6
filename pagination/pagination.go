// Package pagination slices listings the way json-server does with its
// _page and _limit query parameters.
package pagination

import (
	"strconv"
)

const (
	DefaultPage = 1
	DefaultSize = 100
	MaxSize     = 100
)

type Page struct {
	Number int
	Size   int
}

// Parse reads the raw query values. Missing or malformed values fall back to
// the defaults and sizes are capped at MaxSize.
func Parse(page, limit string) Page {
	number, err := strconv.Atoi(page)
	if err != nil || number < 1 {
		number = DefaultPage
	}

	size, err := strconv.Atoi(limit)
	if err != nil || size <= 0 {
		size = DefaultSize
	} else if size > MaxSize {
		size = MaxSize
	}

	return Page{Number: number, Size: size}
}

// Bounds returns the half-open index range of p within a listing of total
// items. A page past the end yields an empty range.
func (p Page) Bounds(total int) (int, int) {
	if p.Size <= 0 {
		return 0, 0
	}

	if p.Number-1 > total/p.Size {
		return total, total
	}

	start := min((p.Number-1)*p.Size, total)
	end := min(start+p.Size, total)

	return start, end
}

func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}

	return (total + size - 1) / size
}
