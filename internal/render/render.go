// Package render draws explorer snapshots on a terminal: result cards or a
// table, the headline suggestion, the comparison set and explanations.
// Colors come from fatih/color and honour NO_COLOR and non-TTY output unless
// disabled outright.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/tbourn/go-motormony/internal/domain"
	"github.com/tbourn/go-motormony/internal/intent"
	"github.com/tbourn/go-motormony/internal/results"
)

const na = "N/A"

type palette struct {
	title, brand, name, score, muted, badge, good, warn, bold *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title: color.New(color.FgCyan, color.Bold),
		brand: color.New(color.FgHiBlack),
		name:  color.New(color.Bold),
		score: color.New(color.FgYellow),
		muted: color.New(color.Faint),
		badge: color.New(color.FgMagenta),
		good:  color.New(color.FgGreen),
		warn:  color.New(color.FgRed),
		bold:  color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.brand, p.name, p.score, p.muted, p.badge, p.good, p.warn, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// Renderer writes to one output stream. Write errors are sticky: after the
// first failure nothing else is written and Err reports it.
type Renderer struct {
	w   io.Writer
	p   palette
	err error
}

// New returns a renderer writing to w.
func New(w io.Writer, noColor bool) *Renderer {
	return &Renderer{w: w, p: newPalette(noColor)}
}

// Err returns the first write error.
func (r *Renderer) Err() error { return r.err }

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Snapshot draws a whole session state.
func (r *Renderer) Snapshot(s results.Snapshot) error {
	switch s.Status {
	case domain.StatusIdle:
		r.printf("%s\n", r.p.muted.Sprint("Enter a query to get recommendations."))
		return r.err
	case domain.StatusLoading:
		r.printf("%s\n", r.p.muted.Sprint("Searching..."))
		return r.err
	case domain.StatusFailed:
		r.printf("%s %s\n", r.p.warn.Sprint("Search failed:"), s.Error)
		if s.Total == 0 {
			return r.err
		}
		r.printf("%s\n\n", r.p.muted.Sprint("Showing previous results."))
	}

	if s.Suggestion != nil {
		r.Suggestion(s.Suggestion)
	}
	if s.Total == 0 {
		r.printf("%s\n", r.p.title.Sprint("No cars found"))
		r.printf("%s\n", r.p.muted.Sprint("Try adjusting your search criteria or using different keywords."))
		r.Comparison(s.Comparison)
		return r.err
	}

	r.printf("%s  %s\n", r.p.title.Sprint("Top Recommendations"),
		r.p.muted.Sprintf("showing %d of %d · sort %s · year %s · intent %s",
			len(s.Visible), s.Total, s.Sort, s.Year, s.Intent))
	r.printf("\n")

	compared := make(map[string]bool, len(s.Comparison))
	for _, c := range s.Comparison {
		compared[c.Vehicle.Name] = true
	}
	if s.View == domain.ViewTable {
		r.Table(s.Visible, compared)
	} else {
		r.Cards(s.Visible, compared)
	}

	if s.HasMore {
		r.printf("%s\n", r.p.muted.Sprintf("%d more available.", s.Remaining))
	} else {
		r.printf("%s\n", r.p.muted.Sprint("All cars shown."))
	}
	r.Comparison(s.Comparison)
	return r.err
}

// Cards draws one block per vehicle, ranked from 1.
func (r *Renderer) Cards(vs []domain.Vehicle, compared map[string]bool) {
	for i, v := range vs {
		mark := ""
		if compared[v.Name] {
			mark = " " + r.p.good.Sprint("[comparing]")
		}
		r.printf("#%-3d %s %s  %s%s\n", i+1, r.p.brand.Sprint(v.Brand), r.p.name.Sprint(v.Name),
			r.p.score.Sprintf("★ %.3f", v.FinalScore), mark)
		if b := Badges(v); len(b) > 0 {
			r.printf("     %s\n", r.p.badge.Sprint(strings.Join(b, "  ")))
		}
		r.printf("     Price %s · Seats %s · Power %s · Mileage %s · Safety %s\n",
			Price(v.PriceMinLakh), intOr(v.Seats), Power(v.PowerBHP), Mileage(v.MileageKMPL), Safety(v.SafetyRating))
		if v.BodyType != "" || v.FuelType != "" || v.Year != nil {
			r.printf("     %s\n", r.p.muted.Sprint(joinNonEmpty(" · ", v.BodyType, v.FuelType, intOrEmpty(v.Year))))
		}
		if v.Reason != "" {
			r.printf("     %s\n", v.Reason)
		}
		r.printf("\n")
	}
}

// tableHeaders mirrors the columns of the results table.
var tableHeaders = []string{"Rank", "Name", "Brand", "Score", "Price (₹L)", "Seats", "Power (BHP)", "Mileage", "Safety", "Compare"}

// Table draws the vehicles in aligned columns. Alignment is computed on the
// plain text and color applied per line afterwards so escape codes do not
// skew the column widths.
func (r *Renderer) Table(vs []domain.Vehicle, compared map[string]bool) {
	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeaders, "\t"))
	for i, v := range vs {
		check := "[ ]"
		if compared[v.Name] {
			check = "[x]"
		}
		fmt.Fprintln(tw, strings.Join([]string{
			fmt.Sprint(i + 1), v.Name, v.Brand, fmt.Sprintf("%.3f", v.FinalScore),
			fmt.Sprintf("₹%g", v.PriceMinLakh), intOr(v.Seats), floatOr(v.PowerBHP, "%g"),
			Mileage(v.MileageKMPL), Safety(v.SafetyRating), check,
		}, "\t"))
	}
	_ = tw.Flush()

	sc := bufio.NewScanner(strings.NewReader(buf.String()))
	for row := -1; sc.Scan(); row++ {
		line := strings.TrimRight(sc.Text(), " ")
		switch {
		case row < 0:
			line = r.p.bold.Sprint(line)
		case row < len(vs) && compared[vs[row].Name]:
			line = r.p.good.Sprint(line)
		}
		r.printf("%s\n", line)
	}
	r.printf("\n")
}

// Suggestion draws the headline pick with its key specs and reasons.
func (r *Renderer) Suggestion(s *domain.Suggestion) {
	r.printf("%s\n", r.p.title.Sprint("CarPilot Recommendation"))
	r.printf("  %s %s  %s\n", r.p.brand.Sprint(s.Brand), r.p.name.Sprint(s.CarName),
		r.p.score.Sprintf("%.1f%% match", s.Score*100))
	k := s.KeySpecs
	r.printf("  %s · %s seats · %s · %s · %s\n", k.Price, k.Seats, k.Power, k.Mileage, k.Safety)
	if s.Summary != "" {
		r.printf("  %s\n", s.Summary)
	}
	if len(s.Reasons) > 0 {
		r.printf("  %s\n", r.p.bold.Sprint("Why this car?"))
		for _, reason := range s.Reasons {
			head, rest := SplitReason(reason)
			r.printf("   - %s%s\n", r.p.bold.Sprint(head), rest)
		}
	}
	r.printf("\n")
}

// Comparison draws the comparison set, marking entries that dropped out of
// the current results.
func (r *Renderer) Comparison(items []results.ComparisonItem) {
	if len(items) == 0 {
		return
	}
	r.printf("%s %s\n", r.p.title.Sprint("Comparing"), r.p.muted.Sprintf("(%d/%d)", len(items), results.MaxCompare))
	for i, it := range items {
		v := it.Vehicle
		note := ""
		if !it.InResults {
			note = " " + r.p.muted.Sprint("(not in current results)")
		}
		r.printf("  %d. %s %s · %s · %s%s\n", i+1, v.Brand, r.p.name.Sprint(v.Name), Price(v.PriceMinLakh),
			r.p.score.Sprintf("★ %.3f", v.FinalScore), note)
	}
	r.printf("\n")
}

// Explanation draws the intent-specific view of one vehicle.
func (r *Renderer) Explanation(e intent.Explanation) error {
	r.printf("%s %s\n", r.p.title.Sprint(e.Vehicle), r.p.muted.Sprintf("(%s intent)", e.Intent))
	r.printf("  %s\n", e.Overview)
	for _, f := range e.Features {
		val := f.Value
		if !f.Present {
			val = r.p.muted.Sprint(na)
		}
		r.printf("  %-22s %s\n", f.Label, val)
	}
	r.printf("\n")
	return r.err
}
