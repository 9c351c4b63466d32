package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSortOrder(t *testing.T) {
	for _, o := range SortOrders {
		got, err := ParseSortOrder(" " + string(o) + " ")
		if err != nil || got != o {
			t.Fatalf("ParseSortOrder(%q) = %q,%v", o, got, err)
		}
	}
	if got, _ := ParseSortOrder("PRICE-LOW"); got != SortPriceLow {
		t.Fatalf("case-insensitive parse failed: %q", got)
	}
	if _, err := ParseSortOrder("rating"); !errors.Is(err, ErrUnknownSort) {
		t.Fatalf("want ErrUnknownSort, got %v", err)
	}
}

func TestParseViewMode(t *testing.T) {
	if v, err := ParseViewMode("Table"); err != nil || v != ViewTable {
		t.Fatalf("ParseViewMode(Table) = %q,%v", v, err)
	}
	if _, err := ParseViewMode("grid"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("want ErrUnknownView, got %v", err)
	}
}

func TestYearFilter(t *testing.T) {
	cases := []struct {
		in      string
		want    YearFilter
		wantErr bool
	}{
		{"all", AllYears, false},
		{"ALL", AllYears, false},
		{"", AllYears, false},
		{"2023", 2023, false},
		{"-1", AllYears, true},
		{"abc", AllYears, true},
	}
	for _, tc := range cases {
		got, err := ParseYearFilter(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("ParseYearFilter(%q) = %v,%v", tc.in, got, err)
		}
	}

	y := 2023
	other := 2021
	if !AllYears.Matches(nil) || !AllYears.Matches(&y) {
		t.Fatalf("all should match everything")
	}
	if !YearFilter(2023).Matches(&y) || YearFilter(2023).Matches(&other) || YearFilter(2023).Matches(nil) {
		t.Fatalf("specific year matching wrong")
	}
}

func TestYearFilter_JSON(t *testing.T) {
	b, _ := json.Marshal(struct {
		A YearFilter `json:"a"`
		B YearFilter `json:"b"`
	}{AllYears, 2022})
	if string(b) != `{"a":"all","b":2022}` {
		t.Fatalf("marshal = %s", b)
	}
	var in struct {
		A YearFilter `json:"a"`
		B YearFilter `json:"b"`
		C YearFilter `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"all","b":2022,"c":"2019"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.A.All() || in.B != 2022 || in.C != 2019 {
		t.Fatalf("unmarshal = %+v", in)
	}
	if err := json.Unmarshal([]byte(`{"a":"soon"}`), &in); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("want ErrInvalidYear, got %v", err)
	}
}
