package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-motormony/internal/domain"
)

func TestScenario_CapacityFour(t *testing.T) {
	c := NewComparison()
	for _, n := range []string{"A", "B", "C", "D"} {
		require.NoError(t, c.Add(domain.Vehicle{Name: n}))
	}
	err := c.Add(domain.Vehicle{Name: "E"})
	assert.ErrorIs(t, err, ErrComparisonFull)
	assert.EqualError(t, err, "you may compare at most 4 vehicles")
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(c.Items()))
}

func TestAdd_DuplicateByNameOnly(t *testing.T) {
	c := NewComparison()
	require.NoError(t, c.Add(domain.Vehicle{Name: "City", Brand: "Honda"}))
	err := c.Add(domain.Vehicle{Name: "City", Brand: "Other"})
	assert.ErrorIs(t, err, ErrAlreadyCompared)
	assert.Equal(t, 1, c.Len())
}

func TestAdd_CapacityCheckedBeforeDuplicate(t *testing.T) {
	c := NewComparison()
	for _, n := range []string{"A", "B", "C", "D"} {
		require.NoError(t, c.Add(domain.Vehicle{Name: n}))
	}
	assert.ErrorIs(t, c.Add(domain.Vehicle{Name: "A"}), ErrComparisonFull)
}

func TestRemove(t *testing.T) {
	c := NewComparison()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, c.Add(domain.Vehicle{Name: n}))
	}
	assert.False(t, c.Remove(3))
	assert.False(t, c.Remove(-1))
	assert.Equal(t, 3, c.Len())

	assert.True(t, c.Remove(1))
	assert.Equal(t, []string{"A", "C"}, names(c.Items()))
}

func TestToggle_RoundTrip(t *testing.T) {
	c := NewComparison()
	require.NoError(t, c.Add(domain.Vehicle{Name: "A"}))
	require.NoError(t, c.Add(domain.Vehicle{Name: "B"}))
	before := names(c.Items())

	x := domain.Vehicle{Name: "X"}
	require.NoError(t, c.Toggle(x, true))
	assert.True(t, c.Contains("X"))
	require.NoError(t, c.Toggle(x, false))
	assert.Equal(t, before, names(c.Items()))

	// removing a non-member is a no-op
	require.NoError(t, c.Toggle(domain.Vehicle{Name: "nope"}, false))
	assert.Equal(t, before, names(c.Items()))
}

func TestToggle_AppliesAddRules(t *testing.T) {
	c := NewComparison()
	require.NoError(t, c.Toggle(domain.Vehicle{Name: "A"}, true))
	assert.ErrorIs(t, c.Toggle(domain.Vehicle{Name: "A"}, true), ErrAlreadyCompared)
	for _, n := range []string{"B", "C", "D"} {
		require.NoError(t, c.Toggle(domain.Vehicle{Name: n}, true))
	}
	assert.ErrorIs(t, c.Toggle(domain.Vehicle{Name: "E"}, true), ErrComparisonFull)
	assert.LessOrEqual(t, c.Len(), MaxCompare)
}

func TestReplace_DedupesAndCaps(t *testing.T) {
	c := NewComparison()
	c.Replace([]domain.Vehicle{{Name: "A"}, {Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}})
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(c.Items()))
}
