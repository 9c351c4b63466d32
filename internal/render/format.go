package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/tbourn/go-motormony/internal/domain"
)

// SplitReason separates a leading **bold** phrase from the rest of a reason.
// Reasons without a complete marker pair come back whole in rest.
func SplitReason(reason string) (bold, rest string) {
	parts := strings.SplitN(reason, "**", 3)
	if len(parts) < 3 {
		return "", reason
	}
	return parts[1], parts[2]
}

// Badges returns the highlight labels for v: Budget under ₹10L, Premium over
// ₹50L, and Electric for electric fuel type or an "EV" token in the name.
func Badges(v domain.Vehicle) []string {
	var out []string
	switch {
	case v.PriceMinLakh > 0 && v.PriceMinLakh < 10:
		out = append(out, "Budget")
	case v.PriceMinLakh > 50:
		out = append(out, "Premium")
	}
	if isElectric(v) {
		out = append(out, "Electric")
	}
	return out
}

func isElectric(v domain.Vehicle) bool {
	if strings.EqualFold(v.FuelType, "electric") {
		return true
	}
	for _, tok := range strings.FieldsFunc(strings.ToLower(v.Name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if tok == "ev" {
			return true
		}
	}
	return false
}

// Price formats a lakh amount; zero means unknown.
func Price(lakh float64) string {
	if lakh <= 0 {
		return na
	}
	return fmt.Sprintf("₹%gL", lakh)
}

// Power formats brake horsepower rounded to a whole number.
func Power(bhp *float64) string {
	if bhp == nil {
		return na
	}
	return fmt.Sprintf("%d BHP", int(math.Round(*bhp)))
}

// Mileage formats fuel efficiency in km/l.
func Mileage(kmpl *float64) string {
	if kmpl == nil {
		return na
	}
	return fmt.Sprintf("%g km/l", *kmpl)
}

// Safety formats a star rating.
func Safety(rating *float64) string {
	if rating == nil {
		return na
	}
	return fmt.Sprintf("%g ★", *rating)
}

func floatOr(f *float64, format string) string {
	if f == nil {
		return na
	}
	return fmt.Sprintf(format, *f)
}

func intOr(n *int) string {
	if n == nil {
		return na
	}
	return fmt.Sprint(*n)
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprint(*n)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
