package intent

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-motormony/internal/domain"
)

var relevant = map[Intent][]string{
	Family:      {"safety_rating", "seats", "mileage_kmpl", "price_min_lakh", "boot_space_l"},
	Performance: {"power_bhp", "acceleration_0_100", "top_speed_kmph", "transmission"},
	Budget:      {"price_min_lakh", "mileage_kmpl", "maintenance_cost_year", "resale_value_5yr"},
	Eco:         {"mileage_kmpl", "fuel_type", "ev_range_km", "emissions"},
	Luxury:      {"safety_rating", "comfort", "features", "brand"},
	Adventure:   {"ground_clearance_mm", "power_bhp", "body_type", "seats"},
	General:     {"price_min_lakh", "mileage_kmpl", "safety_rating", "power_bhp"},
}

// RelevantFeatures returns the ordered field names that matter for an intent.
// Unknown intents get the General list. The returned slice is a copy.
func RelevantFeatures(i Intent) []string {
	fs, ok := relevant[i]
	if !ok {
		fs = relevant[General]
	}
	return append([]string(nil), fs...)
}

// Feature is one relevant field resolved against a vehicle.
type Feature struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// Label turns a field name like "ground_clearance_mm" into display text.
func Label(field string) string {
	// Casers are stateful; one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

// FeatureValue reads a field from a vehicle as display text. Interpreted
// fields come from the typed struct; anything else from the raw payload.
func FeatureValue(v domain.Vehicle, field string) (string, bool) {
	switch field {
	case "name":
		return v.Name, v.Name != ""
	case "brand":
		return v.Brand, v.Brand != ""
	case "final_score":
		return formatNumber(v.FinalScore), true
	case "price_min_lakh":
		return formatNumber(v.PriceMinLakh), true
	case "seats":
		return intValue(v.Seats)
	case "year":
		return intValue(v.Year)
	case "power_bhp":
		return floatValue(v.PowerBHP)
	case "mileage_kmpl":
		return floatValue(v.MileageKMPL)
	case "safety_rating":
		return floatValue(v.SafetyRating)
	case "resale_value_5yr":
		return floatValue(v.ResaleValue5yr)
	case "body_type":
		return v.BodyType, v.BodyType != ""
	case "fuel_type":
		return v.FuelType, v.FuelType != ""
	case "reason":
		return v.Reason, v.Reason != ""
	}
	return v.ExtraString(field)
}

// Features resolves the intent's relevant fields against v, using "N/A" for
// missing values.
func Features(v domain.Vehicle, i Intent) []Feature {
	names := RelevantFeatures(i)
	out := make([]Feature, 0, len(names))
	for _, n := range names {
		val, ok := FeatureValue(v, n)
		if !ok {
			val = notAvailable
		}
		out = append(out, Feature{Name: n, Label: Label(n), Value: val, Present: ok})
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func floatValue(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return formatNumber(*p), true
}

func intValue(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.Itoa(*p), true
}
