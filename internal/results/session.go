package results

import (
	"errors"

	"github.com/google/uuid"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
)

// ErrStaleResponse is returned when a response arrives for a query that has
// been superseded or already settled. The session is left untouched.
var ErrStaleResponse = errors.New("stale response")

// Session is one user's explorer state: results, comparison set, view mode
// and the query lifecycle. Every outbound query is stamped with a generation;
// only the response for the latest outstanding generation is applied.
type Session struct {
	state   *State
	compare *Comparison
	view    domain.ViewMode

	status     domain.Status
	errMsg     string
	query      string
	intent     intent.Intent
	suggestion *domain.Suggestion

	generation uint64
	pending    bool
	revision   uint64
	// epoch names this in-memory instance; a rebuilt session gets a new one
	// so revisions that restart are never confused with earlier ones.
	epoch string
}

// NewSession returns an idle session with default selections.
func NewSession() *Session {
	return &Session{
		state:   NewState(),
		compare: NewComparison(),
		view:    domain.ViewCards,
		status:  domain.StatusIdle,
		intent:  intent.General,
		epoch:   uuid.NewString(),
	}
}

// BeginQuery records a submitted query and returns its generation. Any
// earlier outstanding generation becomes stale. Collections are kept until
// the response arrives.
func (s *Session) BeginQuery(query string) uint64 {
	s.generation++
	s.pending = true
	s.query = query
	s.intent = intent.Classify(query)
	s.status = domain.StatusLoading
	s.errMsg = ""
	s.revision++
	return s.generation
}

func (s *Session) current(gen uint64) bool {
	return s.pending && gen == s.generation
}

// Complete applies a successful response for generation gen.
func (s *Session) Complete(gen uint64, vehicles []domain.Vehicle, suggestion *domain.Suggestion) error {
	if !s.current(gen) {
		return ErrStaleResponse
	}
	s.pending = false
	s.state.Initialize(vehicles)
	s.suggestion = suggestion
	if s.state.Empty() {
		s.status = domain.StatusEmpty
	} else {
		s.status = domain.StatusReady
	}
	s.revision++
	return nil
}

// Fail records a failed query for generation gen. The previous collections
// and suggestion stay in place.
func (s *Session) Fail(gen uint64, err error) error {
	if !s.current(gen) {
		return ErrStaleResponse
	}
	s.pending = false
	s.status = domain.StatusFailed
	s.errMsg = "query failed"
	if err != nil {
		s.errMsg = err.Error()
	}
	s.revision++
	return nil
}

// SetSort changes the sort order and resets the page.
func (s *Session) SetSort(order domain.SortOrder) bool {
	if !s.state.SetSort(order) {
		return false
	}
	s.revision++
	return true
}

// SetYear changes the year filter and resets the page.
func (s *Session) SetYear(year domain.YearFilter) {
	s.state.SetYear(year)
	s.revision++
}

// SetView switches the rendering mode. Collections are not touched.
func (s *Session) SetView(mode domain.ViewMode) bool {
	if !mode.Valid() {
		return false
	}
	if mode != s.view {
		s.view = mode
		s.revision++
	}
	return true
}

// LoadMore grows the visible prefix by one page when possible.
func (s *Session) LoadMore() (advanced, hasMore bool) {
	advanced, hasMore = s.state.LoadMore()
	if advanced {
		s.revision++
	}
	return advanced, hasMore
}

// Vehicle returns the working record at index i.
func (s *Session) Vehicle(i int) (domain.Vehicle, error) {
	v, ok := s.state.At(i)
	if !ok {
		return domain.Vehicle{}, ErrIndexOutOfRange
	}
	return v, nil
}

// Lookup finds a record by name in the canonical collection, falling back to
// the comparison set for entries left over from earlier queries.
func (s *Session) Lookup(name string) (domain.Vehicle, bool) {
	for _, v := range s.state.canonical {
		if v.Name == name {
			return v, true
		}
	}
	for _, v := range s.compare.items {
		if v.Name == name {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

// Compare adds v to the comparison set.
func (s *Session) Compare(v domain.Vehicle) error {
	if err := s.compare.Add(v); err != nil {
		return err
	}
	s.revision++
	return nil
}

// Toggle sets v's comparison membership.
func (s *Session) Toggle(v domain.Vehicle, member bool) error {
	before := s.compare.Len()
	if err := s.compare.Toggle(v, member); err != nil {
		return err
	}
	if s.compare.Len() != before {
		s.revision++
	}
	return nil
}

// Uncompare removes the comparison entry at position i; out of range is a
// no-op reported as false.
func (s *Session) Uncompare(i int) bool {
	if !s.compare.Remove(i) {
		return false
	}
	s.revision++
	return true
}

// Comparison returns the comparison entries in order.
func (s *Session) Comparison() []domain.Vehicle { return s.compare.Items() }

// Explain describes the working record at index i under the current query's
// intent.
func (s *Session) Explain(i int) (intent.Explanation, error) {
	v, err := s.Vehicle(i)
	if err != nil {
		return intent.Explanation{}, err
	}
	return intent.Explain(v, s.query), nil
}

// Epoch identifies this in-memory instance of the session.
func (s *Session) Epoch() string { return s.epoch }

// Generation is the latest issued query generation.
func (s *Session) Generation() uint64 { return s.generation }

// Revision increases on every state change.
func (s *Session) Revision() uint64 { return s.revision }

// Status returns the query lifecycle status.
func (s *Session) Status() domain.Status { return s.status }

// Query returns the last submitted query text.
func (s *Session) Query() string { return s.query }

// Selections returns the active sort, year filter and view mode.
func (s *Session) Selections() (domain.SortOrder, domain.YearFilter, domain.ViewMode) {
	return s.state.SortOrder(), s.state.Year(), s.view
}

// Restored is the persisted shape a session is rebuilt from.
type Restored struct {
	Sort       domain.SortOrder
	Year       domain.YearFilter
	View       domain.ViewMode
	Comparison []domain.Vehicle
	Query      string
	Results    []domain.Vehicle
	Suggestion *domain.Suggestion
	Status     domain.Status
	Error      string
	Generation uint64
}

// Restore rebuilds a session from persisted data. Generations issued later
// continue from r.Generation.
func Restore(r Restored) *Session {
	s := NewSession()
	s.state.Restore(r.Year, r.Sort)
	s.state.Initialize(r.Results)
	if r.View.Valid() {
		s.view = r.View
	}
	s.compare.Replace(r.Comparison)
	s.query = r.Query
	if r.Query != "" {
		s.intent = intent.Classify(r.Query)
	}
	s.suggestion = r.Suggestion
	switch r.Status {
	case domain.StatusReady, domain.StatusEmpty, domain.StatusFailed:
		s.status = r.Status
	default:
		s.status = domain.StatusIdle
	}
	s.errMsg = r.Error
	s.generation = r.Generation
	s.revision = 1
	return s
}

// SetComparison replaces the comparison set wholesale, keeping at most
// MaxCompare entries.
func (s *Session) SetComparison(items []domain.Vehicle) {
	s.compare.Replace(items)
	s.revision++
}
