package results

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tbourn/go-motormony/internal/domain"
)

// Filter returns the records of src that pass the year filter, in src order.
// The result never aliases src.
func Filter(src []domain.Vehicle, year domain.YearFilter) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(src))
	for _, v := range src {
		if year.Matches(v.Year) {
			out = append(out, v)
		}
	}
	return out
}

// Sort stably orders vs in place by the given order.
func Sort(vs []domain.Vehicle, order domain.SortOrder) {
	switch order {
	case domain.SortScore:
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return cmp.Compare(b.FinalScore, a.FinalScore) })
	case domain.SortPriceLow:
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return cmp.Compare(a.PriceMinLakh, b.PriceMinLakh) })
	case domain.SortPriceHigh:
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return cmp.Compare(b.PriceMinLakh, a.PriceMinLakh) })
	case domain.SortName:
		// A Collator keeps scratch buffers; one per sort.
		c := collate.New(language.English)
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return c.CompareString(a.Name, b.Name) })
	case domain.SortYearNew:
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return cmp.Compare(b.YearOrZero(), a.YearOrZero()) })
	case domain.SortYearOld:
		slices.SortStableFunc(vs, func(a, b domain.Vehicle) int { return cmp.Compare(a.YearOrZero(), b.YearOrZero()) })
	}
}

// Years returns the distinct model years present in src, newest first.
// Records without a year are skipped.
func Years(src []domain.Vehicle) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, v := range src {
		y := v.YearOrZero()
		if y <= 0 {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	return out
}
