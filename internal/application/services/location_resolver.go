package services

import (
	"fmt"
	"strings"

	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

// Resolution is the outcome of turning user input into a base coordinate.
type Resolution struct {
	Input         string               `json:"input"`
	CanonicalName string               `json:"canonical_name"`
	Coordinates   entities.Coordinates `json:"coordinates"`
	Tier          MatchTier            `json:"tier"`
}

// Matched reports whether the input was recognised rather than defaulted.
func (r Resolution) Matched() bool {
	return r.Tier != TierDefault
}

// LocationResolver maps free-text place names to gazetteer coordinates. It
// never fails: unrecognised input resolves to the configured default city.
type LocationResolver struct {
	gazetteer   *catalog.Gazetteer
	names       *NameIndex
	defaultCity catalog.City
}

// NewLocationResolver returns an error only when defaultCity is not in the
// gazetteer.
func NewLocationResolver(gazetteer *catalog.Gazetteer, defaultCity string) (*LocationResolver, error) {
	city, ok := gazetteer.Lookup(defaultCity)
	if !ok {
		return nil, fmt.Errorf("default city %q is not in the gazetteer", defaultCity)
	}
	return &LocationResolver{
		gazetteer:   gazetteer,
		names:       NewNameIndex(gazetteer.Names()),
		defaultCity: city,
	}, nil
}

// Resolve applies exact, substring and word-level matching in that order and
// falls back to the default city.
func (r *LocationResolver) Resolve(input string) Resolution {
	res := Resolution{Input: input}

	name, tier, ok := r.names.Match(input)
	if !ok {
		res.CanonicalName = r.defaultCity.Name
		res.Coordinates = r.defaultCity.Coordinates
		res.Tier = TierDefault
		return res
	}

	city, _ := r.gazetteer.Lookup(name)
	res.CanonicalName = city.Name
	res.Coordinates = city.Coordinates
	res.Tier = tier
	return res
}

// ResolveWithCoordinates uses coords as the base when given and skips text
// matching. The canonical name is then the nearest gazetteer city, which is
// only a display label.
func (r *LocationResolver) ResolveWithCoordinates(input string, coords *entities.Coordinates) Resolution {
	if coords == nil {
		return r.Resolve(input)
	}

	res := Resolution{
		Input:       input,
		Coordinates: *coords,
		Tier:        TierExplicit,
	}
	if city, ok := r.gazetteer.Nearest(*coords); ok {
		res.CanonicalName = city.Name
	}
	return res
}

// DefaultCity returns the fallback city name.
func (r *LocationResolver) DefaultCity() string {
	return r.defaultCity.Name
}

// Names lists the gazetteer names, used as the place suggestion corpus.
func (r *LocationResolver) Names() []string {
	return r.names.Names()
}

// DisplayName is the label shown to the user for a resolution.
func (r Resolution) DisplayName() string {
	if r.CanonicalName != "" {
		return r.CanonicalName
	}
	if trimmed := strings.TrimSpace(r.Input); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("%.4f, %.4f", r.Coordinates.Latitude, r.Coordinates.Longitude)
}
