// Package results is the results state engine: it owns the canonical result
// set of the latest query and derives the working (filtered and sorted) and
// visible (paginated) collections from it, alongside an independent
// comparison set.
//
// Nothing here is safe for concurrent use. Callers that share a Session
// between goroutines must serialize access themselves.
package results

import "github.com/tbourn/go-motormony/internal/domain"

// PageSize is the number of records added to the visible prefix per page.
const PageSize = 20

// State holds the canonical, working and visible collections together with
// the active year filter and sort order.
//
// Invariants after every exported call:
//   - working is filter(canonical) ordered by the active sort policy;
//   - visible is working[:min(page*PageSize, len(working))];
//   - page >= 1.
type State struct {
	canonical []domain.Vehicle
	working   []domain.Vehicle
	page      int
	year      domain.YearFilter
	sort      domain.SortOrder
}

// NewState returns an empty state with the default selections.
func NewState() *State {
	return &State{page: 1, year: domain.AllYears, sort: domain.DefaultSort}
}

// Initialize replaces the canonical collection wholesale and resets the page.
// The active year filter and sort are kept and re-applied; in the default
// selection (all years, score) working is canonical in its received order.
// An empty or nil input yields the empty state.
func (s *State) Initialize(canonical []domain.Vehicle) {
	s.canonical = append([]domain.Vehicle(nil), canonical...)
	s.recompute(false)
}

// SetYear changes the year filter. The active sort is re-applied only when it
// is not score; under score the filtered subset keeps canonical order.
func (s *State) SetYear(year domain.YearFilter) {
	s.year = year
	s.recompute(false)
}

// SetSort changes the sort order and always re-sorts, score included.
// Invalid orders are ignored and reported as false.
func (s *State) SetSort(order domain.SortOrder) bool {
	if !order.Valid() {
		return false
	}
	s.sort = order
	s.recompute(true)
	return true
}

// Restore sets both selections at once. Used when rebuilding a persisted
// session.
func (s *State) Restore(year domain.YearFilter, order domain.SortOrder) {
	if order.Valid() {
		s.sort = order
	}
	s.year = year
	s.recompute(false)
}

func (s *State) recompute(forceSort bool) {
	s.working = Filter(s.canonical, s.year)
	if forceSort || s.sort != domain.SortScore {
		Sort(s.working, s.sort)
	}
	s.page = 1
}

// Year returns the active year filter.
func (s *State) Year() domain.YearFilter { return s.year }

// SortOrder returns the active sort order.
func (s *State) SortOrder() domain.SortOrder { return s.sort }

// Canonical returns a copy of the canonical collection.
func (s *State) Canonical() []domain.Vehicle { return clone(s.canonical) }

// Working returns a copy of the working collection.
func (s *State) Working() []domain.Vehicle { return clone(s.working) }

// Total is the size of the working collection.
func (s *State) Total() int { return len(s.working) }

// Empty reports whether the canonical collection has no records.
func (s *State) Empty() bool { return len(s.canonical) == 0 }

// At returns the i-th working record.
func (s *State) At(i int) (domain.Vehicle, bool) {
	if i < 0 || i >= len(s.working) {
		return domain.Vehicle{}, false
	}
	return s.working[i], true
}

// Years returns the distinct years of the canonical collection, newest first.
func (s *State) Years() []int { return Years(s.canonical) }

// InCanonical reports whether a record with this name is in the canonical
// collection.
func (s *State) InCanonical(name string) bool {
	for _, v := range s.canonical {
		if v.Name == name {
			return true
		}
	}
	return false
}

func clone(vs []domain.Vehicle) []domain.Vehicle {
	return append([]domain.Vehicle{}, vs...)
}
