package results

import "github.com/tbourn/go-motormony/internal/domain"

// Page returns the current page, starting at 1.
func (s *State) Page() int { return s.page }

func (s *State) visibleLen() int {
	return min(s.page*PageSize, len(s.working))
}

// Visible returns a copy of the visible prefix of the working collection.
func (s *State) Visible() []domain.Vehicle { return clone(s.working[:s.visibleLen()]) }

// HasMore reports whether LoadMore would grow the visible prefix.
func (s *State) HasMore() bool { return s.page*PageSize < len(s.working) }

// Remaining is the number of working records not yet visible.
func (s *State) Remaining() int { return len(s.working) - s.visibleLen() }

// LoadMore advances one page when more records are available. It returns
// whether the page advanced and the resulting HasMore. Once everything is
// visible it is a no-op.
func (s *State) LoadMore() (advanced, hasMore bool) {
	if !s.HasMore() {
		return false, false
	}
	s.page++
	return true, s.HasMore()
}
