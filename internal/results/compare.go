package results

import (
	"errors"

	"github.com/tbourn/go-motormony/internal/domain"
)

// MaxCompare is the comparison set capacity.
const MaxCompare = 4

var (
	// ErrComparisonFull is returned when adding to a full comparison set.
	ErrComparisonFull = errors.New("you may compare at most 4 vehicles")
	// ErrAlreadyCompared is returned when a record with the same name is
	// already in the comparison set.
	ErrAlreadyCompared = errors.New("vehicle is already in the comparison")
	// ErrIndexOutOfRange is returned when a working index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Comparison is an ordered, capacity-bounded set of vehicles keyed by name.
// It is independent of the results collections and survives new queries.
// Identity is the name alone, so same-named vehicles of different brands or
// years count as one member.
type Comparison struct {
	items []domain.Vehicle
}

// NewComparison returns an empty comparison set.
func NewComparison() *Comparison { return &Comparison{} }

// Add appends v. Capacity is checked before the duplicate check; on error
// the set is unchanged.
func (c *Comparison) Add(v domain.Vehicle) error {
	if len(c.items) >= MaxCompare {
		return ErrComparisonFull
	}
	if c.Contains(v.Name) {
		return ErrAlreadyCompared
	}
	c.items = append(c.items, v)
	return nil
}

// Remove drops the entry at position i. Out-of-range positions are a no-op
// and report false.
func (c *Comparison) Remove(i int) bool {
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// RemoveName drops the entry named name, reporting whether one was present.
func (c *Comparison) RemoveName(name string) bool {
	for i, it := range c.items {
		if it.Name == name {
			return c.Remove(i)
		}
	}
	return false
}

// Toggle makes v a member (Add rules apply) or a non-member.
func (c *Comparison) Toggle(v domain.Vehicle, member bool) error {
	if member {
		return c.Add(v)
	}
	c.RemoveName(v.Name)
	return nil
}

// Contains reports membership by name.
func (c *Comparison) Contains(name string) bool {
	for _, it := range c.items {
		if it.Name == name {
			return true
		}
	}
	return false
}

// Len is the number of entries.
func (c *Comparison) Len() int { return len(c.items) }

// Items returns a copy of the entries in insertion order.
func (c *Comparison) Items() []domain.Vehicle { return clone(c.items) }

// Replace loads entries in order, keeping the first of any duplicate names
// and at most MaxCompare of them.
func (c *Comparison) Replace(items []domain.Vehicle) {
	c.items = nil
	for _, it := range items {
		_ = c.Add(it)
	}
}
