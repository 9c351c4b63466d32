package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Suggestion is the service's headline pick for a query. The engine stores and
// returns it unmodified; splitting the bold markers in Reasons is left to the
// presentation layer.
type Suggestion struct {
	CarName  string   `json:"car_name"`
	Brand    string   `json:"brand"`
	Score    float64  `json:"score"`
	KeySpecs KeySpecs `json:"key_specs"`
	Summary  string   `json:"summary"`
	Reasons  []string `json:"reasons"`
}

// KeySpecs are display-ready headline specifications.
type KeySpecs struct {
	Price   SpecValue `json:"price"`
	Seats   SpecValue `json:"seats"`
	Power   SpecValue `json:"power"`
	Mileage SpecValue `json:"mileage"`
	Safety  SpecValue `json:"safety"`
}

// SpecValue is a display string. The service sometimes sends bare numbers
// (seats), which are accepted and kept in their decimal form.
type SpecValue string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *SpecValue) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = SpecValue(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*s = SpecValue(strconv.FormatInt(i, 10))
		return nil
	}
	*s = SpecValue(strings.TrimSpace(n.String()))
	return nil
}
