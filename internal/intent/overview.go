package intent

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-motormony/internal/domain"
)

const notAvailable = "N/A"

// Overview renders the intent's narrative for a vehicle. Missing fields are
// replaced with a placeholder; it never fails.
func Overview(v domain.Vehicle, i Intent) string {
	get := func(field, fallback string) string {
		if s, ok := FeatureValue(v, field); ok && s != "" {
			return s
		}
		return fallback
	}
	name := get("name", "vehicle")

	switch i {
	case Family:
		return fmt.Sprintf("Perfect for families! With a %s-star safety rating and %s comfortable seats, the %s keeps your loved ones safe. Great %s km/l mileage means more road trips without breaking the bank.",
			get("safety_rating", "good"), get("seats", notAvailable), name, get("mileage_kmpl", notAvailable))
	case Performance:
		return fmt.Sprintf("Built for thrill-seekers! This %s packs %s BHP of pure power, reaching 0-100 km/h in just %s seconds. %s transmission puts you in complete control.",
			name, get("power_bhp", notAvailable), get("acceleration_0_100", "impressive"), get("transmission", notAvailable))
	case Budget:
		return fmt.Sprintf("Smart choice for value! At just ₹%sL, the %s delivers excellent %s km/l efficiency. Low maintenance costs and strong %s%% resale value make it a wise investment.",
			get("price_min_lakh", notAvailable), name, get("mileage_kmpl", notAvailable), get("resale_value_5yr", notAvailable))
	case Eco:
		if strings.EqualFold(v.FuelType, "EV") {
			return fmt.Sprintf("Green driving champion! This electric %s offers %s km range with zero emissions. Save money on fuel while saving the planet.",
				name, get("ev_range_km", "excellent"))
		}
		return fmt.Sprintf("Eco-conscious choice! Impressive %s km/l efficiency means fewer stops at the pump. %s engine balances performance with environmental responsibility.",
			get("mileage_kmpl", notAvailable), get("fuel_type", notAvailable))
	case Luxury:
		return fmt.Sprintf("Premium experience awaits! The %s combines %s's legendary quality with %s-star safety. Every journey becomes a first-class experience with refined comfort and cutting-edge features.",
			name, get("brand", notAvailable), get("safety_rating", notAvailable))
	case Adventure:
		return fmt.Sprintf("Adventure ready! With %smm ground clearance and %s BHP, this %s conquers any terrain. %s seats mean you can bring the whole crew along.",
			get("ground_clearance_mm", notAvailable), get("power_bhp", notAvailable), get("body_type", "vehicle"), get("seats", notAvailable))
	}
	return fmt.Sprintf("Well-rounded performer! The %s offers %s BHP power, %s km/l efficiency, and %s-star safety at ₹%sL. A solid choice for everyday driving.",
		name, get("power_bhp", notAvailable), get("mileage_kmpl", notAvailable), get("safety_rating", notAvailable), get("price_min_lakh", notAvailable))
}
