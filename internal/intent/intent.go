// Package intent classifies free-text vehicle queries into a fixed set of
// shopping intents and produces the intent-specific explanation shown for a
// vehicle: the relevant feature list, a narrative overview, and the
// parameters (budget, seats, fuel, body) mentioned in the query.
//
// Everything here is pure and explanatory; nothing in this package changes
// which vehicles are shown or how they are ordered.
package intent

import "strings"

// Intent is the inferred purpose of a query.
type Intent string

const (
	Family      Intent = "family"
	Performance Intent = "performance"
	Budget      Intent = "budget"
	Eco         Intent = "eco"
	Luxury      Intent = "luxury"
	Adventure   Intent = "adventure"
	General     Intent = "general"
)

// All lists every intent in classification priority order, General last.
var All = []Intent{Family, Performance, Budget, Eco, Luxury, Adventure, General}

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case Family, Performance, Budget, Eco, Luxury, Adventure, General:
		return true
	}
	return false
}

// Parse converts a tag into an Intent, falling back to General.
func Parse(s string) Intent {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return General
	}
	return i
}

type rule struct {
	intent   Intent
	keywords []string
}

// rules are evaluated in order; the first group with a substring hit wins.
var rules = []rule{
	{Family, []string{"family", "kids", "children", "safe"}},
	{Performance, []string{"performance", "sport", "fast", "power"}},
	{Budget, []string{"budget", "cheap", "affordable", "under"}},
	{Eco, []string{"electric", "ev", "hybrid", "eco"}},
	{Luxury, []string{"luxury", "premium", "comfort"}},
	{Adventure, []string{"suv", "adventure", "off-road"}},
}

// Classify maps query text to an intent. Matching is case-insensitive
// substring containment, so "safety" counts as "safe" and "every" as "ev".
func Classify(text string) Intent {
	q := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.intent
			}
		}
	}
	return General
}
