package services_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yab-g4u/IDA-sub000/internal/application/services"
	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

func newTestResolver(t *testing.T) (*services.LocationResolver, *catalog.Gazetteer) {
	t.Helper()
	g := catalog.DefaultGazetteer()
	r, err := services.NewLocationResolver(g, "Addis Ababa")
	require.NoError(t, err)
	return r, g
}

func alternateCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i%2 == 0 {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func TestNewLocationResolver_UnknownDefault(t *testing.T) {
	_, err := services.NewLocationResolver(catalog.DefaultGazetteer(), "Atlantis")
	assert.Error(t, err)
}

func TestLocationResolver_EveryKeyResolvesExactly(t *testing.T) {
	r, g := newTestResolver(t)

	for _, city := range g.Cities() {
		for _, variant := range []string{city.Name, strings.ToUpper(city.Name), strings.ToLower(city.Name), alternateCase(city.Name)} {
			res := r.Resolve(variant)
			assert.Equal(t, city.Name, res.CanonicalName, variant)
			assert.Equal(t, city.Coordinates, res.Coordinates, variant)
			assert.Equal(t, services.TierExact, res.Tier, variant)
		}
	}
}

func TestLocationResolver_KeyInsidePhraseUsesSubstringTier(t *testing.T) {
	r, g := newTestResolver(t)

	for _, city := range g.Cities() {
		res := r.Resolve("city hall near " + city.Name)
		assert.Equal(t, city.Name, res.CanonicalName)
		assert.Equal(t, city.Coordinates, res.Coordinates)
		assert.Equal(t, services.TierSubstring, res.Tier)
	}
}

func TestLocationResolver_PartialInputUsesSubstringTier(t *testing.T) {
	r, _ := newTestResolver(t)

	res := r.Resolve("hawas")
	assert.Equal(t, "Hawassa", res.CanonicalName)
	assert.Equal(t, services.TierSubstring, res.Tier)
}

func TestLocationResolver_WordTier(t *testing.T) {
	r, _ := newTestResolver(t)

	tests := []struct {
		input string
		want  string
	}{
		{"xyz qq bahir", "Bahir Dar"},
		{"open dire pharmacy", "Dire Dawa"},
		{"bahi jimm", "Bahir Dar"},
		{"jimm bahi", "Jimma"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := r.Resolve(tt.input)
			assert.Equal(t, tt.want, res.CanonicalName)
			assert.Equal(t, services.TierWord, res.Tier)
			assert.True(t, res.Matched())
		})
	}
}

func TestLocationResolver_FallsBackToDefault(t *testing.T) {
	r, g := newTestResolver(t)
	addis, _ := g.Lookup("Addis Ababa")

	for _, input := range []string{"", "   ", "qqzxnonsense", "ab cd", "xy zq", "አዲስ ከተማ"} {
		t.Run(input, func(t *testing.T) {
			res := r.Resolve(input)
			assert.Equal(t, "Addis Ababa", res.CanonicalName)
			assert.Equal(t, addis.Coordinates, res.Coordinates)
			assert.Equal(t, services.TierDefault, res.Tier)
			assert.False(t, res.Matched())
		})
	}
}

func TestLocationResolver_ExplicitCoordinatesSkipMatching(t *testing.T) {
	r, _ := newTestResolver(t)
	coords := &entities.Coordinates{Latitude: 7.06, Longitude: 38.48}

	res := r.ResolveWithCoordinates("bahir dar", coords)
	assert.Equal(t, services.TierExplicit, res.Tier)
	assert.Equal(t, *coords, res.Coordinates)
	assert.Equal(t, "Hawassa", res.CanonicalName)

	fallback := r.ResolveWithCoordinates("bahir dar", nil)
	assert.Equal(t, "Bahir Dar", fallback.CanonicalName)
	assert.Equal(t, services.TierExact, fallback.Tier)
}

func TestLocationResolver_Names(t *testing.T) {
	r, g := newTestResolver(t)
	assert.Equal(t, g.Names(), r.Names())
	assert.Equal(t, "Addis Ababa", r.DefaultCity())
}

func TestResolution_DisplayName(t *testing.T) {
	assert.Equal(t, "Hawassa", services.Resolution{CanonicalName: "Hawassa", Input: "hws"}.DisplayName())
	assert.Equal(t, "somewhere", services.Resolution{Input: " somewhere "}.DisplayName())
	assert.Equal(t, "7.0500, 38.4700", services.Resolution{Coordinates: entities.Coordinates{Latitude: 7.05, Longitude: 38.47}}.DisplayName())
}
