package services

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

// RandomSource is the subset of *rand.Rand the synthesizer draws from.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// globalRandom uses the math/rand/v2 top-level functions, which are safe for
// concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// CountRange bounds how many synthetic records are generated, inclusive.
type CountRange struct {
	Min int
	Max int
}

// DefaultCountRange is three to five records.
var DefaultCountRange = CountRange{Min: 3, Max: 5}

const (
	minSyntheticDistanceKm = 0.5
	maxSyntheticDistanceKm = 2.5
	minOffsetDegrees       = 0.002
	maxOffsetDegrees       = 0.004
)

var pharmacyNameTemplates = []string{
	"City Pharmacy",
	"Health Plus Pharmacy",
	"Life Care Drug Store",
	"Family Pharmacy",
	"Medicare Pharmacy",
	"Community Drug Store",
}

var addressTemplates = []string{
	"Main Road, %s",
	"Near the central market, %s",
	"Hospital Street, %s",
	"Next to the bus station, %s",
	"Ring Road junction, %s",
}

var openingHours = []string{
	"8:00 AM - 8:00 PM",
	"7:30 AM - 9:00 PM",
	"Open 24 hours",
	"8:30 AM - 10:00 PM",
}

// PlaceSynthesizer produces a plausible pharmacy list when no data source has
// answered. Curated listings are returned as-is; anything else is generated
// around the base coordinate.
type PlaceSynthesizer struct {
	curated *catalog.PharmacyDataset
	rnd     RandomSource
}

// NewPlaceSynthesizer uses rnd for generation, or a concurrency-safe global
// source when rnd is nil. A *rand.Rand is not safe for concurrent use, so
// pass one only when calls are serialized (tests).
func NewPlaceSynthesizer(curated *catalog.PharmacyDataset, rnd RandomSource) *PlaceSynthesizer {
	if rnd == nil {
		rnd = globalRandom{}
	}
	if curated == nil {
		curated = catalog.NewPharmacyDataset(nil)
	}
	return &PlaceSynthesizer{curated: curated, rnd: rnd}
}

// Synthesize never fails and never returns an empty slice. The result is
// sorted by distance and tagged with whether it came from curated data.
func (s *PlaceSynthesizer) Synthesize(base entities.Coordinates, canonicalName string, count CountRange) ([]entities.Place, entities.PlaceOrigin) {
	if canonicalName != "" {
		if places, ok := s.curated.Lookup(canonicalName); ok {
			return places, entities.PlaceOriginCurated
		}
	}

	count = normalizeCount(count)
	n := count.Min + s.rnd.IntN(count.Max-count.Min+1)

	display := strings.TrimSpace(canonicalName)
	if display == "" {
		display = "your area"
	}

	start := s.rnd.IntN(len(pharmacyNameTemplates))
	places := make([]entities.Place, 0, n)
	for i := 0; i < n; i++ {
		slot := (start + i) % len(pharmacyNameTemplates)
		places = append(places, entities.Place{
			ID:         fmt.Sprintf("synthetic-%d", i+1),
			Name:       pharmacyNameTemplates[slot],
			Address:    fmt.Sprintf(addressTemplates[(start+i)%len(addressTemplates)], display),
			Contact:    s.phoneNumber(),
			Hours:      openingHours[s.rnd.IntN(len(openingHours))],
			DistanceKm: utils.RoundTo(s.uniform(minSyntheticDistanceKm, maxSyntheticDistanceKm), 2),
			Coordinates: entities.Coordinates{
				Latitude:  base.Latitude + s.offset(),
				Longitude: base.Longitude + s.offset(),
			},
		})
	}

	entities.SortPlacesByDistance(places)
	return places, entities.PlaceOriginSynthetic
}

func normalizeCount(c CountRange) CountRange {
	if c.Min <= 0 {
		c.Min = DefaultCountRange.Min
	}
	if c.Max < c.Min {
		c.Max = c.Min
	}
	return c
}

func (s *PlaceSynthesizer) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}

// offset is a signed delta whose magnitude lies in
// [minOffsetDegrees, maxOffsetDegrees).
func (s *PlaceSynthesizer) offset() float64 {
	d := s.uniform(minOffsetDegrees, maxOffsetDegrees)
	if s.rnd.IntN(2) == 0 {
		return -d
	}
	return d
}

func (s *PlaceSynthesizer) phoneNumber() string {
	return fmt.Sprintf("+251 9%d %03d %04d", s.rnd.IntN(10), s.rnd.IntN(1000), s.rnd.IntN(10000))
}
