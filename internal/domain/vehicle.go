// Package domain defines the vehicle payloads exchanged with the
// recommendation service, the closed enumerations that drive the results
// engine, and the persistence models mapped with GORM.
package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Vehicle is one candidate returned by the recommendation service.
//
// The payload is opaque to the engine: only the fields below are interpreted,
// every other key is kept verbatim in Extra and written back on marshal.
// Optional numeric fields are pointers; nil means the service did not send a
// usable value. Decoding never fails because a field is missing, null, or
// carries a placeholder string such as "N/A".
type Vehicle struct {
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	FinalScore     float64  `json:"final_score"`
	PriceMinLakh   float64  `json:"price_min_lakh"`
	Seats          *int     `json:"seats,omitempty"`
	PowerBHP       *float64 `json:"power_bhp,omitempty"`
	MileageKMPL    *float64 `json:"mileage_kmpl,omitempty"`
	SafetyRating   *float64 `json:"safety_rating,omitempty"`
	ResaleValue5yr *float64 `json:"resale_value_5yr,omitempty"`
	BodyType       string   `json:"body_type,omitempty"`
	FuelType       string   `json:"fuel_type,omitempty"`
	Year           *int     `json:"year,omitempty"`
	Reason         string   `json:"reason,omitempty"`

	// Extra holds payload keys the engine does not interpret
	// (e.g. transmission, ev_range_km, ground_clearance_mm).
	Extra map[string]json.RawMessage `json:"-"`
}

var knownVehicleKeys = map[string]struct{}{
	"name": {}, "brand": {}, "final_score": {}, "price_min_lakh": {},
	"seats": {}, "power_bhp": {}, "mileage_kmpl": {}, "safety_rating": {},
	"resale_value_5yr": {}, "body_type": {}, "fuel_type": {}, "year": {},
	"reason": {},
}

// UnmarshalJSON decodes a vehicle leniently.
func (v *Vehicle) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := Vehicle{}
	for k, val := range raw {
		switch k {
		case "name":
			out.Name = lenientString(val)
		case "brand":
			out.Brand = lenientString(val)
		case "final_score":
			if f := lenientFloat(val); f != nil {
				out.FinalScore = *f
			}
		case "price_min_lakh":
			if f := lenientFloat(val); f != nil {
				out.PriceMinLakh = *f
			}
		case "seats":
			out.Seats = lenientInt(val)
		case "power_bhp":
			out.PowerBHP = lenientFloat(val)
		case "mileage_kmpl":
			out.MileageKMPL = lenientFloat(val)
		case "safety_rating":
			out.SafetyRating = lenientFloat(val)
		case "resale_value_5yr":
			out.ResaleValue5yr = lenientFloat(val)
		case "body_type":
			out.BodyType = lenientString(val)
		case "fuel_type":
			out.FuelType = lenientString(val)
		case "year":
			out.Year = lenientInt(val)
		case "reason":
			out.Reason = lenientString(val)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[k] = append(json.RawMessage(nil), val...)
		}
	}
	*v = out
	return nil
}

// MarshalJSON writes the interpreted fields merged over Extra.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(v.Extra)+len(knownVehicleKeys))
	for k, val := range v.Extra {
		if _, known := knownVehicleKeys[k]; known {
			continue
		}
		m[k] = val
	}
	m["name"] = v.Name
	m["brand"] = v.Brand
	m["final_score"] = v.FinalScore
	m["price_min_lakh"] = v.PriceMinLakh
	putOptional(m, "seats", v.Seats)
	putOptional(m, "power_bhp", v.PowerBHP)
	putOptional(m, "mileage_kmpl", v.MileageKMPL)
	putOptional(m, "safety_rating", v.SafetyRating)
	putOptional(m, "resale_value_5yr", v.ResaleValue5yr)
	putOptional(m, "year", v.Year)
	if v.BodyType != "" {
		m["body_type"] = v.BodyType
	}
	if v.FuelType != "" {
		m["fuel_type"] = v.FuelType
	}
	if v.Reason != "" {
		m["reason"] = v.Reason
	}
	return json.Marshal(m)
}

// YearOrZero returns the model year, or 0 when absent.
func (v Vehicle) YearOrZero() int {
	if v.Year == nil {
		return 0
	}
	return *v.Year
}

// ExtraString returns an uninterpreted payload field rendered as text, and
// whether it was present and non-null.
func (v Vehicle) ExtraString(key string) (string, bool) {
	raw, ok := v.Extra[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	return strings.TrimSpace(string(raw)), true
}

func putOptional[T any](m map[string]any, key string, p *T) {
	if p != nil {
		m[key] = *p
	}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func lenientString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func lenientFloat(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f
		}
	}
	return nil
}

func lenientInt(raw json.RawMessage) *int {
	f := lenientFloat(raw)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}
