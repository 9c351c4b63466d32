package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		query string
		want  Intent
	}{
		{"safe car for kids", Family},
		{"Family SUV", Family}, // family outranks adventure
		{"fast budget car", Performance},
		{"sporty hatchback", Performance},
		{"affordable sedan", Budget},
		{"cheap electric car", Budget}, // budget outranks eco
		{"electric city car", Eco},
		{"hybrid", Eco},
		{"premium sedan", Luxury},
		{"off-road SUV", Adventure},
		{"a nice car", General},
		{"", General},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.query), "query %q", tc.query)
	}
}

func TestClassify_SubstringSemantics(t *testing.T) {
	// "safety" contains "safe", "seven" contains "ev"
	assert.Equal(t, Family, Classify("best safety"))
	assert.Equal(t, Eco, Classify("seven"))
}

func TestParse(t *testing.T) {
	for _, i := range All {
		assert.True(t, i.Valid())
		assert.Equal(t, i, Parse(string(i)))
	}
	assert.Equal(t, General, Parse("collector"))
	assert.Equal(t, Eco, Parse(" ECO "))
}
