package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Params are the structured hints mentioned in a query. A nil field means the
// query did not mention it.
type Params struct {
	BudgetLakh *float64 `json:"budget_lakh,omitempty"`
	MinSeats   *int     `json:"min_seats,omitempty"`
	FuelType   *string  `json:"fuel_type,omitempty"`
	BodyType   *string  `json:"body_type,omitempty"`
}

var (
	reLakh   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lakhs?|la|l)\b`)
	reRupees = regexp.MustCompile(`\b(\d{5,7})\b`)
	reSeats  = regexp.MustCompile(`(\d+)\s*(?:seaters?|people|persons)\b`)
)

type keywordGroup struct {
	value    string
	keywords []string
}

var fuelGroups = []keywordGroup{
	{"petrol", []string{"petrol", "gasoline"}},
	{"diesel", []string{"diesel"}},
	{"ev", []string{"ev", "electric"}},
	{"hybrid", []string{"hybrid"}},
}

var bodyGroups = []keywordGroup{
	{"suv", []string{"suv"}},
	{"sedan", []string{"sedan"}},
	{"hatchback", []string{"hatchback"}},
	{"mpv", []string{"mpv", "minivan"}},
}

// ParseParams extracts budget (in lakh), minimum seats, fuel type and body
// type from a query.
func ParseParams(text string) Params {
	q := strings.ToLower(text)
	var p Params

	if m := reLakh.FindStringSubmatch(q); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.BudgetLakh = &f
		}
	} else if m := reRupees.FindStringSubmatch(q); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			f /= 100000
			p.BudgetLakh = &f
		}
	}

	if m := reSeats.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.MinSeats = &n
		}
	}

	p.FuelType = firstGroup(q, fuelGroups)
	p.BodyType = firstGroup(q, bodyGroups)
	return p
}

func firstGroup(q string, groups []keywordGroup) *string {
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				v := g.value
				return &v
			}
		}
	}
	return nil
}
