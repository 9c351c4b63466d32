package intent

import "github.com/tbourn/go-motormony/internal/domain"

// Explanation is the intent-specific view of one vehicle for one query.
type Explanation struct {
	Vehicle  string    `json:"vehicle"`
	Query    string    `json:"query"`
	Intent   Intent    `json:"intent"`
	Overview string    `json:"overview"`
	Features []Feature `json:"features"`
	Params   Params    `json:"params"`
}

// Explain classifies query and describes v in terms of that intent.
func Explain(v domain.Vehicle, query string) Explanation {
	i := Classify(query)
	return Explanation{
		Vehicle:  v.Name,
		Query:    query,
		Intent:   i,
		Overview: Overview(v, i),
		Features: Features(v, i),
		Params:   ParseParams(query),
	}
}
