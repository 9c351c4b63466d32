package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVehicle_UnmarshalLenient(t *testing.T) {
	raw := `{
		"name": "Nexon EV", "brand": "Tata", "final_score": 0.82,
		"price_min_lakh": "14.5", "seats": 5.0, "power_bhp": null,
		"mileage_kmpl": "N/A", "year": 2024, "fuel_type": "EV",
		"ev_range_km": 465, "transmission": "Automatic"
	}`
	var v Vehicle
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Name != "Nexon EV" || v.Brand != "Tata" || v.FinalScore != 0.82 {
		t.Fatalf("core fields wrong: %+v", v)
	}
	if v.PriceMinLakh != 14.5 {
		t.Fatalf("price from string = %v; want 14.5", v.PriceMinLakh)
	}
	if v.Seats == nil || *v.Seats != 5 {
		t.Fatalf("seats = %v; want 5", v.Seats)
	}
	if v.PowerBHP != nil || v.MileageKMPL != nil {
		t.Fatalf("null and placeholder should decode to nil")
	}
	if v.YearOrZero() != 2024 {
		t.Fatalf("year = %d; want 2024", v.YearOrZero())
	}
	if s, ok := v.ExtraString("transmission"); !ok || s != "Automatic" {
		t.Fatalf("extra transmission = %q,%v", s, ok)
	}
	if s, ok := v.ExtraString("ev_range_km"); !ok || s != "465" {
		t.Fatalf("extra ev_range_km = %q,%v", s, ok)
	}
	if _, ok := v.ExtraString("ground_clearance_mm"); ok {
		t.Fatalf("absent extra should report false")
	}
}

func TestVehicle_MarshalKeepsExtra(t *testing.T) {
	var v Vehicle
	if err := json.Unmarshal([]byte(`{"name":"X","brand":"B","unknown":{"a":1}}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"unknown":{"a":1}`) {
		t.Fatalf("extra not preserved: %s", s)
	}
	if strings.Contains(s, `"year"`) || strings.Contains(s, `"seats"`) {
		t.Fatalf("absent optional fields should be omitted: %s", s)
	}
}

func TestVehicle_MissingYear(t *testing.T) {
	var v Vehicle
	if err := json.Unmarshal([]byte(`{"name":"Old"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Year != nil || v.YearOrZero() != 0 {
		t.Fatalf("missing year should be nil / 0")
	}
}

func TestSuggestion_KeySpecsAcceptNumbers(t *testing.T) {
	raw := `{"car_name":"Innova","brand":"Toyota","score":91.5,
		"key_specs":{"price":"₹19.9L","seats":7,"power":"148 BHP","mileage":null,"safety":"5★"},
		"summary":"s","reasons":["**Roomy** cabin"]}`
	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.KeySpecs.Seats != "7" || s.KeySpecs.Price != "₹19.9L" || s.KeySpecs.Mileage != "" {
		t.Fatalf("key specs = %+v", s.KeySpecs)
	}
	if len(s.Reasons) != 1 || s.Reasons[0] != "**Roomy** cabin" {
		t.Fatalf("reasons must be passed through unmodified: %v", s.Reasons)
	}
}
