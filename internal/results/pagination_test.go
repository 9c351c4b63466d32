package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbourn/go-motormony/internal/domain"
)

func TestScenario_FortyFiveRecords(t *testing.T) {
	s := NewState()
	s.Initialize(fleet(45))
	assert.Len(t, s.Visible(), 20)
	assert.True(t, s.HasMore())
	assert.Equal(t, 25, s.Remaining())

	adv, more := s.LoadMore()
	assert.True(t, adv)
	assert.True(t, more)
	assert.Len(t, s.Visible(), 40)

	adv, more = s.LoadMore()
	assert.True(t, adv)
	assert.False(t, more)
	assert.Len(t, s.Visible(), 45)
	assert.False(t, s.HasMore())
	assert.Equal(t, 0, s.Remaining())

	before := names(s.Visible())
	adv, more = s.LoadMore()
	assert.False(t, adv)
	assert.False(t, more)
	assert.Equal(t, before, names(s.Visible()))
	assert.Equal(t, 3, s.Page())
}

func TestVisibleLength_Property(t *testing.T) {
	s := NewState()
	check := func() {
		t.Helper()
		assert.Len(t, s.Visible(), min(s.Page()*PageSize, s.Total()))
		assert.Equal(t, s.Page()*PageSize < s.Total(), s.HasMore())
		assert.Equal(t, names(s.Working()[:len(s.Visible())]), names(s.Visible()), "visible is a prefix of working")
	}

	s.Initialize(fleet(61))
	check()
	s.LoadMore()
	s.LoadMore()
	check()

	s.SetSort(domain.SortName)
	assert.Equal(t, 1, s.Page())
	check()

	s.LoadMore()
	s.SetYear(2019)
	assert.Equal(t, 1, s.Page())
	check()

	s.LoadMore()
	s.Initialize(fleet(10))
	assert.Equal(t, 1, s.Page())
	check()
}

func TestVisible_IsCopy(t *testing.T) {
	s := NewState()
	s.Initialize(altoSwift())
	v := s.Visible()
	v[0].Name = "x"
	assert.Equal(t, "Alto", s.Visible()[0].Name)
}
