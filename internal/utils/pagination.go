// Package utils provides small helpers independent of the domain.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}

// PageParams parses page and page_size query values. page defaults to 1,
// size defaults to def and is capped at limit.
func PageParams(page, size string, def, limit int) (int, int) {
	p := AtoiDefault(page, 1)
	if p < 1 {
		p = 1
	}
	s := AtoiDefault(size, def)
	if s < 1 {
		s = def
	}
	return p, Clamp(s, 1, limit)
}
