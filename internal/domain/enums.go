package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// SortOrder is one of the six orders the working collection can be sorted by.
type SortOrder string

const (
	SortScore     SortOrder = "score"      // final_score descending
	SortPriceLow  SortOrder = "price-low"  // price ascending
	SortPriceHigh SortOrder = "price-high" // price descending
	SortName      SortOrder = "name"       // locale-aware name ascending
	SortYearNew   SortOrder = "year-new"   // year descending, missing year last
	SortYearOld   SortOrder = "year-old"   // year ascending, missing year first
)

// DefaultSort is the order results arrive in.
const DefaultSort = SortScore

// SortOrders lists every order in display order.
var SortOrders = []SortOrder{SortScore, SortPriceLow, SortPriceHigh, SortName, SortYearNew, SortYearOld}

// ErrUnknownSort is returned by ParseSortOrder for unknown tags.
var ErrUnknownSort = errors.New("unknown sort order")

// ParseSortOrder converts a tag (case-insensitive) into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", ErrUnknownSort
	}
	return o, nil
}

// Valid reports whether o is one of the six orders.
func (o SortOrder) Valid() bool {
	switch o {
	case SortScore, SortPriceLow, SortPriceHigh, SortName, SortYearNew, SortYearOld:
		return true
	}
	return false
}

// ViewMode selects the rendering strategy for the current snapshot.
type ViewMode string

const (
	ViewCards ViewMode = "cards"
	ViewTable ViewMode = "table"
)

// ErrUnknownView is returned by ParseViewMode for unknown tags.
var ErrUnknownView = errors.New("unknown view mode")

// ParseViewMode converts a tag (case-insensitive) into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	v := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", ErrUnknownView
	}
	return v, nil
}

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewCards, ViewTable:
		return true
	}
	return false
}

// YearFilter is either AllYears or a specific model year.
type YearFilter int

// AllYears disables year filtering.
const AllYears YearFilter = 0

// ErrInvalidYear is returned by ParseYearFilter for malformed input.
var ErrInvalidYear = errors.New(`year must be "all" or a positive integer`)

// ParseYearFilter accepts "all" (case-insensitive, or empty) or a positive year.
func ParseYearFilter(s string) (YearFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllYears, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return AllYears, ErrInvalidYear
	}
	return YearFilter(n), nil
}

// All reports whether the filter passes every record through.
func (y YearFilter) All() bool { return y <= 0 }

// Matches reports whether a record with the given (optional) year passes.
func (y YearFilter) Matches(year *int) bool {
	if y.All() {
		return true
	}
	return year != nil && *year == int(y)
}

func (y YearFilter) String() string {
	if y.All() {
		return "all"
	}
	return strconv.Itoa(int(y))
}

// MarshalJSON writes "all" or the year as a number.
func (y YearFilter) MarshalJSON() ([]byte, error) {
	if y.All() {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(int(y))), nil
}

// UnmarshalJSON accepts "all", a numeric string, or a number.
func (y *YearFilter) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return ErrInvalidYear
		}
		s = strconv.Itoa(n)
	}
	v, err := ParseYearFilter(s)
	if err != nil {
		return err
	}
	*y = v
	return nil
}

// Status describes where a session is in its query lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"    // no query submitted yet
	StatusLoading Status = "loading" // a query is outstanding
	StatusReady   Status = "ready"   // results available
	StatusEmpty   Status = "empty"   // last query matched nothing
	StatusFailed  Status = "failed"  // last query failed; previous results kept
)
