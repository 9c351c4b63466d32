package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-motormony/internal/domain"
)

func altoSwift() []domain.Vehicle {
	return []domain.Vehicle{
		car("Alto", 0.9, 5, year(2022)),
		car("Swift", 0.8, 7, year(2021)),
	}
}

func TestInitialize_IdentityOrderAndReset(t *testing.T) {
	s := NewState()
	in := []domain.Vehicle{car("B", 0.1, 1, nil), car("A", 0.9, 2, nil)}
	s.Initialize(in)

	assert.Equal(t, []string{"B", "A"}, names(s.Working()), "default selection keeps received order")
	assert.Equal(t, 1, s.Page())
	assert.Len(t, s.Visible(), 2)

	// caller mutation does not leak in
	in[0].Name = "changed"
	assert.Equal(t, "B", s.Canonical()[0].Name)
}

func TestInitialize_Empty(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	s.Initialize(nil)

	assert.True(t, s.Empty())
	assert.Empty(t, s.Visible())
	assert.False(t, s.HasMore())
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, 1, s.Page())
	assert.Empty(t, s.Years())
}

func TestInitialize_KeepsSelections(t *testing.T) {
	s := NewState()
	s.SetSort(domain.SortPriceHigh)
	s.SetYear(2021)
	s.Initialize(append(altoSwift(), car("Dzire", 0.7, 8, year(2021))))

	assert.Equal(t, domain.SortPriceHigh, s.SortOrder())
	assert.Equal(t, domain.YearFilter(2021), s.Year())
	assert.Equal(t, []string{"Dzire", "Swift"}, names(s.Working()))
}

func TestScenario_PriceHigh(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	require.True(t, s.SetSort(domain.SortPriceHigh))
	assert.Equal(t, []string{"Swift", "Alto"}, names(s.Working()))
}

func TestSetSort_Invalid(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	assert.False(t, s.SetSort("rating"))
	assert.Equal(t, domain.SortScore, s.SortOrder())
}

func TestSetSort_ScoreAlwaysSorts(t *testing.T) {
	s := NewState()
	s.Initialize([]domain.Vehicle{car("low", 0.1, 1, nil), car("high", 0.9, 1, nil)})
	s.SetSort(domain.SortScore)
	assert.Equal(t, []string{"high", "low"}, names(s.Working()))
}

func TestSetYear_ScoreKeepsCanonicalOrder(t *testing.T) {
	s := NewState()
	// received order is not score-descending
	s.Initialize([]domain.Vehicle{
		car("a", 0.1, 1, year(2020)),
		car("b", 0.9, 1, year(2020)),
		car("c", 0.5, 1, year(2019)),
	})
	s.SetSort(domain.SortScore)
	assert.Equal(t, []string{"b", "c", "a"}, names(s.Working()))

	s.SetYear(2020)
	assert.Equal(t, []string{"a", "b"}, names(s.Working()), "filter under score resets to canonical relative order")

	s.SetYear(domain.AllYears)
	assert.Equal(t, []string{"a", "b", "c"}, names(s.Working()))
}

func TestSetYear_NonDefaultSortReapplied(t *testing.T) {
	s := NewState()
	s.Initialize([]domain.Vehicle{
		car("a", 0.1, 9, year(2020)),
		car("b", 0.9, 3, year(2020)),
		car("c", 0.5, 1, year(2019)),
	})
	s.SetSort(domain.SortPriceLow)
	s.SetYear(2020)
	assert.Equal(t, []string{"b", "a"}, names(s.Working()))
}

func TestYearFilter_Property(t *testing.T) {
	vs := fleet(45)
	vs = append(vs, car("no-year", 0.5, 5, nil))
	s := NewState()
	s.Initialize(vs)

	for _, y := range s.Years() {
		s.SetYear(domain.YearFilter(y))
		for _, v := range s.Working() {
			require.NotNil(t, v.Year)
			assert.Equal(t, y, *v.Year)
		}
	}

	s.SetYear(domain.AllYears)
	assert.ElementsMatch(t, names(vs), names(s.Working()))
}

func TestAt(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	v, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, "Swift", v.Name)
	_, ok = s.At(2)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
}

func TestInCanonical(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	s.SetYear(2022)
	assert.True(t, s.InCanonical("Swift"), "filtered out but still canonical")
	assert.False(t, s.InCanonical("Brezza"))
}
