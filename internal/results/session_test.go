package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
)

func TestSession_QueryLifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, domain.StatusIdle, s.Status())

	gen := s.BeginQuery("best family SUV under 10 lakh")
	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, domain.StatusLoading, s.Status())

	sug := &domain.Suggestion{CarName: "Alto"}
	require.NoError(t, s.Complete(gen, altoSwift(), sug))

	snap := s.Snapshot()
	assert.Equal(t, domain.StatusReady, snap.Status)
	assert.Equal(t, intent.Family, snap.Intent)
	assert.Equal(t, []string{"Alto", "Swift"}, names(snap.Visible))
	assert.Equal(t, []int{2022, 2021}, snap.Years)
	assert.Same(t, sug, snap.Suggestion)
	assert.Equal(t, PageSize, snap.PageSize)
	assert.Equal(t, 2, snap.Total)

	// a settled generation cannot be applied twice
	assert.ErrorIs(t, s.Complete(gen, nil, nil), ErrStaleResponse)
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	s := NewSession()
	first := s.BeginQuery("cheap")
	second := s.BeginQuery("fast")

	require.NoError(t, s.Complete(second, []domain.Vehicle{{Name: "GT"}}, nil))
	rev := s.Revision()

	assert.ErrorIs(t, s.Complete(first, altoSwift(), nil), ErrStaleResponse)
	assert.ErrorIs(t, s.Fail(first, errors.New("boom")), ErrStaleResponse)
	assert.Equal(t, []string{"GT"}, names(s.Snapshot().Visible))
	assert.Equal(t, rev, s.Revision())
}

func TestSession_FailureKeepsPreviousResults(t *testing.T) {
	s := NewSession()
	g := s.BeginQuery("a")
	require.NoError(t, s.Complete(g, altoSwift(), nil))

	g = s.BeginQuery("b")
	require.NoError(t, s.Fail(g, errors.New("service unavailable")))

	snap := s.Snapshot()
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Equal(t, "service unavailable", snap.Error)
	assert.Equal(t, []string{"Alto", "Swift"}, names(snap.Visible))

	// a later success clears the error
	g = s.BeginQuery("c")
	require.NoError(t, s.Complete(g, nil, nil))
	snap = s.Snapshot()
	assert.Equal(t, domain.StatusEmpty, snap.Status)
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.Visible)
}

func TestSession_ComparisonSurvivesNewQuery(t *testing.T) {
	s := NewSession()
	g := s.BeginQuery("a")
	require.NoError(t, s.Complete(g, altoSwift(), nil))

	v, err := s.Vehicle(0)
	require.NoError(t, err)
	require.NoError(t, s.Compare(v))

	g = s.BeginQuery("b")
	require.NoError(t, s.Complete(g, []domain.Vehicle{{Name: "Creta"}}, nil))

	snap := s.Snapshot()
	require.Len(t, snap.Comparison, 1)
	assert.Equal(t, "Alto", snap.Comparison[0].Vehicle.Name)
	assert.False(t, snap.Comparison[0].InResults)

	found, ok := s.Lookup("Alto")
	assert.True(t, ok, "comparison leftovers are still resolvable")
	assert.Equal(t, "Alto", found.Name)
}

func TestSession_ViewDoesNotTouchCollections(t *testing.T) {
	s := NewSession()
	g := s.BeginQuery("a")
	require.NoError(t, s.Complete(g, fleet(45), nil))
	s.LoadMore()
	v, _ := s.Vehicle(3)
	require.NoError(t, s.Compare(v))
	before := s.Snapshot()

	assert.True(t, s.SetView(domain.ViewTable))
	assert.False(t, s.SetView("grid"))

	after := s.Snapshot()
	assert.Equal(t, domain.ViewTable, after.View)
	assert.Equal(t, names(before.Visible), names(after.Visible))
	assert.Equal(t, before.Comparison, after.Comparison)
	assert.Equal(t, before.Page, after.Page)
}

func TestSession_RevisionAdvancesOnlyOnChange(t *testing.T) {
	s := NewSession()
	r0 := s.Revision()
	s.SetView(domain.ViewCards) // already cards
	assert.Equal(t, r0, s.Revision())
	assert.False(t, s.Uncompare(0))
	assert.Equal(t, r0, s.Revision())
	adv, _ := s.LoadMore()
	assert.False(t, adv)
	assert.Equal(t, r0, s.Revision())

	s.SetYear(2020)
	assert.Greater(t, s.Revision(), r0)
}

func TestSession_Explain(t *testing.T) {
	s := NewSession()
	g := s.BeginQuery("performance hatch")
	require.NoError(t, s.Complete(g, altoSwift(), nil))
	e, err := s.Explain(1)
	require.NoError(t, err)
	assert.Equal(t, intent.Performance, e.Intent)
	assert.Equal(t, "Swift", e.Vehicle)

	_, err = s.Explain(9)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRestore(t *testing.T) {
	s := Restore(Restored{
		Sort:       domain.SortPriceHigh,
		Year:       domain.AllYears,
		View:       domain.ViewTable,
		Comparison: []domain.Vehicle{{Name: "Old"}},
		Query:      "cheap car",
		Results:    altoSwift(),
		Status:     domain.StatusReady,
		Generation: 7,
	})
	snap := s.Snapshot()
	assert.Equal(t, []string{"Swift", "Alto"}, names(snap.Visible))
	assert.Equal(t, domain.ViewTable, snap.View)
	assert.Equal(t, intent.Budget, snap.Intent)
	assert.Equal(t, domain.StatusReady, snap.Status)
	assert.Len(t, snap.Comparison, 1)
	assert.Equal(t, uint64(8), s.BeginQuery("next"))
}

func TestSession_EpochPerInstance(t *testing.T) {
	a, b := NewSession(), NewSession()
	require.NotEmpty(t, a.Epoch())
	assert.NotEqual(t, a.Epoch(), b.Epoch())
	assert.Equal(t, a.Epoch(), a.Snapshot().Epoch)

	// A rebuilt session restarts its revision, so it must not share an epoch
	// with any earlier instance.
	r1 := Restore(Restored{Results: altoSwift(), Status: domain.StatusReady, Generation: 1})
	r2 := Restore(Restored{Results: altoSwift(), Status: domain.StatusReady, Generation: 1})
	assert.Equal(t, r1.Revision(), r2.Revision())
	assert.NotEqual(t, r1.Snapshot().Epoch, r2.Snapshot().Epoch)
}
