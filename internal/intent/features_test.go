package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-motormony/internal/domain"
)

func vehicleFromJSON(t *testing.T, raw string) domain.Vehicle {
	t.Helper()
	var v domain.Vehicle
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestRelevantFeatures(t *testing.T) {
	assert.Equal(t, []string{"safety_rating", "seats", "mileage_kmpl", "price_min_lakh", "boot_space_l"}, RelevantFeatures(Family))
	assert.Equal(t, []string{"ground_clearance_mm", "power_bhp", "body_type", "seats"}, RelevantFeatures(Adventure))
	assert.Equal(t, RelevantFeatures(General), RelevantFeatures(Intent("unknown")))

	// callers cannot mutate the table
	fs := RelevantFeatures(Budget)
	fs[0] = "x"
	assert.Equal(t, "price_min_lakh", RelevantFeatures(Budget)[0])
}

func TestFeatures_ResolvesTypedAndExtraFields(t *testing.T) {
	v := vehicleFromJSON(t, `{"name":"Thar","power_bhp":150,"body_type":"SUV","seats":4,"ground_clearance_mm":226}`)
	fs := Features(v, Adventure)
	require.Len(t, fs, 4)
	assert.Equal(t, Feature{Name: "ground_clearance_mm", Label: "Ground Clearance Mm", Value: "226", Present: true}, fs[0])
	assert.Equal(t, "150", fs[1].Value)
	assert.Equal(t, "SUV", fs[2].Value)
	assert.Equal(t, "4", fs[3].Value)

	fam := Features(v, Family)
	assert.False(t, fam[0].Present)
	assert.Equal(t, "N/A", fam[0].Value)
}

func TestOverview_Templates(t *testing.T) {
	v := vehicleFromJSON(t, `{"name":"Innova","brand":"Toyota","safety_rating":5,"seats":7,"mileage_kmpl":12.5,"price_min_lakh":19.9,"power_bhp":148,"resale_value_5yr":62}`)

	assert.Equal(t,
		"Perfect for families! With a 5-star safety rating and 7 comfortable seats, the Innova keeps your loved ones safe. Great 12.5 km/l mileage means more road trips without breaking the bank.",
		Overview(v, Family))
	assert.Equal(t,
		"Smart choice for value! At just ₹19.9L, the Innova delivers excellent 12.5 km/l efficiency. Low maintenance costs and strong 62% resale value make it a wise investment.",
		Overview(v, Budget))
	assert.Equal(t,
		"Well-rounded performer! The Innova offers 148 BHP power, 12.5 km/l efficiency, and 5-star safety at ₹19.9L. A solid choice for everyday driving.",
		Overview(v, General))
	assert.Contains(t, Overview(v, Luxury), "combines Toyota's legendary quality with 5-star safety")
}

func TestOverview_Placeholders(t *testing.T) {
	v := vehicleFromJSON(t, `{"name":"Mystery"}`)

	assert.Contains(t, Overview(v, Family), "With a good-star safety rating and N/A comfortable seats")
	assert.Contains(t, Overview(v, Performance), "in just impressive seconds")

	ev := vehicleFromJSON(t, `{"name":"Nexon EV","fuel_type":"EV"}`)
	assert.Equal(t,
		"Green driving champion! This electric Nexon EV offers excellent km range with zero emissions. Save money on fuel while saving the planet.",
		Overview(ev, Eco))

	withRange := vehicleFromJSON(t, `{"name":"Nexon EV","fuel_type":"EV","ev_range_km":465}`)
	assert.Contains(t, Overview(withRange, Eco), "offers 465 km range")

	petrol := vehicleFromJSON(t, `{"name":"City","fuel_type":"Petrol","mileage_kmpl":17.8}`)
	assert.Equal(t,
		"Eco-conscious choice! Impressive 17.8 km/l efficiency means fewer stops at the pump. Petrol engine balances performance with environmental responsibility.",
		Overview(petrol, Eco))
}

func TestOverview_UnknownIntentFallsBackToGeneral(t *testing.T) {
	v := vehicleFromJSON(t, `{"name":"X"}`)
	assert.Equal(t, Overview(v, General), Overview(v, Intent("collector")))
}
