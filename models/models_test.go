package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatch(t *testing.T) {
	tests := []struct {
		raw     string
		wantSet bool
		want    string
	}{
		{"", false, ""},
		{"All", false, ""},
		{"  All ", false, ""},
		{"all", true, "all"},
		{"Zomato", true, "Zomato"},
	}

	for _, tt := range tests {
		got, set := ParseMatch(tt.raw).Value()
		assert.Equal(t, tt.wantSet, set, "ParseMatch(%q) set", tt.raw)
		assert.Equal(t, tt.want, got, "ParseMatch(%q) value", tt.raw)
	}
}

func TestMatchAccepts(t *testing.T) {
	assert.True(t, AnyValue().Accepts("anything"))
	assert.True(t, Exactly("Express").Accepts("Express"))
	assert.False(t, Exactly("Express").Accepts("express"))
	assert.False(t, Exactly("").Accepts("Express"))
	assert.Equal(t, "All", AnyValue().String())
}

func TestFilterAccepts(t *testing.T) {
	r := Review{AgentName: "X", Location: "Delhi", OrderType: "Express", Rating: 4.5}

	assert.True(t, Filter{}.Accepts(r))
	assert.True(t, NewFilter("X", "All").Accepts(r))
	assert.False(t, NewFilter("Y", "All").Accepts(r))
	assert.False(t, NewFilter("X", "Standard").Accepts(r))
	assert.False(t, Filter{Location: Exactly("Pune")}.Accepts(r))
	assert.True(t, Filter{Rating: &RatingRange{Min: 4.5, Max: 5}}.Accepts(r))
	assert.False(t, Filter{Rating: &RatingRange{Min: 0, Max: 4.4}}.Accepts(r))
}

func TestOptionalFloatJSON(t *testing.T) {
	b, err := json.Marshal(SummaryStats{AverageRating: Undefined()})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"average_rating":null`)

	b, err = json.Marshal(Some(3.25))
	require.NoError(t, err)
	assert.Equal(t, "3.25", string(b))

	var o OptionalFloat
	require.NoError(t, json.Unmarshal([]byte("null"), &o))
	assert.False(t, o.Valid)
	require.NoError(t, json.Unmarshal([]byte("4.5"), &o))
	assert.Equal(t, Some(4.5), o)
}

func TestSomeRejectsNaN(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)
	assert.Equal(t, -1.0, Undefined().Or(-1))
	assert.Equal(t, 2.0, Some(2).Or(-1))
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandLow, BandFor(2.99))
	assert.Equal(t, BandMedium, BandFor(3.0))
	assert.Equal(t, BandMedium, BandFor(3.99))
	assert.Equal(t, BandHigh, BandFor(4.0))
}
