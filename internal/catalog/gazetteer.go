// Package catalog holds the fixed reference data the finder works from: the
// city gazetteer, hand-curated pharmacy listings and the medicine catalog.
// Everything here is built once and read-only afterwards.
package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/pkg/utils"
)

// Country is the country every gazetteer city belongs to.
const Country = "Ethiopia"

// City is a gazetteer entry.
type City struct {
	Name        string               `json:"name"`
	Coordinates entities.Coordinates `json:"coordinates"`
}

var ethiopianCities = []City{
	{Name: "Addis Ababa", Coordinates: entities.Coordinates{Latitude: 9.0320, Longitude: 38.7469}},
	{Name: "Hawassa", Coordinates: entities.Coordinates{Latitude: 7.0621, Longitude: 38.4764}},
	{Name: "Bahir Dar", Coordinates: entities.Coordinates{Latitude: 11.5742, Longitude: 37.3614}},
	{Name: "Gondar", Coordinates: entities.Coordinates{Latitude: 12.6030, Longitude: 37.4521}},
	{Name: "Mekelle", Coordinates: entities.Coordinates{Latitude: 13.4967, Longitude: 39.4753}},
	{Name: "Dire Dawa", Coordinates: entities.Coordinates{Latitude: 9.6009, Longitude: 41.8501}},
	{Name: "Adama", Coordinates: entities.Coordinates{Latitude: 8.5400, Longitude: 39.2700}},
	{Name: "Jimma", Coordinates: entities.Coordinates{Latitude: 7.6735, Longitude: 36.8344}},
	{Name: "Dessie", Coordinates: entities.Coordinates{Latitude: 11.1333, Longitude: 39.6333}},
	{Name: "Harar", Coordinates: entities.Coordinates{Latitude: 9.3126, Longitude: 42.1227}},
	{Name: "Arba Minch", Coordinates: entities.Coordinates{Latitude: 6.0333, Longitude: 37.5500}},
	{Name: "Debre Birhan", Coordinates: entities.Coordinates{Latitude: 9.6797, Longitude: 39.5322}},
	{Name: "Shashamane", Coordinates: entities.Coordinates{Latitude: 7.2000, Longitude: 38.6000}},
	{Name: "Jijiga", Coordinates: entities.Coordinates{Latitude: 9.3500, Longitude: 42.8000}},
	{Name: "Nekemte", Coordinates: entities.Coordinates{Latitude: 9.0833, Longitude: 36.5500}},
}

// Gazetteer maps canonical city names to coordinates. Entries keep their
// declaration order, which is the order name matching walks them in.
type Gazetteer struct {
	cities []City
	byName map[string]int
	tree   *rtreego.Rtree
}

type cityPoint struct {
	index int
	rect  rtreego.Rect
}

func (c *cityPoint) Bounds() rtreego.Rect {
	return c.rect
}

// NewGazetteer builds a gazetteer from cities. Later duplicates of a name
// (case-insensitive) are ignored.
func NewGazetteer(cities []City) *Gazetteer {
	g := &Gazetteer{
		byName: make(map[string]int, len(cities)),
	}

	var points []rtreego.Spatial
	for _, c := range cities {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		if _, dup := g.byName[key]; dup {
			continue
		}
		g.byName[key] = len(g.cities)
		points = append(points, &cityPoint{
			index: len(g.cities),
			rect:  rtreego.Point{c.Coordinates.Latitude, c.Coordinates.Longitude}.ToRect(1e-6),
		})
		g.cities = append(g.cities, c)
	}

	g.tree = rtreego.NewTree(2, 2, 8, points...)
	return g
}

// DefaultGazetteer returns the built-in list of Ethiopian cities.
func DefaultGazetteer() *Gazetteer {
	return NewGazetteer(ethiopianCities)
}

// Names returns canonical names in declaration order.
func (g *Gazetteer) Names() []string {
	names := make([]string, len(g.cities))
	for i, c := range g.cities {
		names[i] = c.Name
	}
	return names
}

func (g *Gazetteer) Cities() []City {
	out := make([]City, len(g.cities))
	copy(out, g.cities)
	return out
}

func (g *Gazetteer) Len() int {
	return len(g.cities)
}

// Lookup finds a city by canonical name, ignoring case and surrounding space.
func (g *Gazetteer) Lookup(name string) (City, bool) {
	idx, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return City{}, false
	}
	return g.cities[idx], true
}

// Nearest returns the city closest to c by great-circle distance.
func (g *Gazetteer) Nearest(c entities.Coordinates) (City, bool) {
	if len(g.cities) == 0 {
		return City{}, false
	}

	// The tree ranks in plain degrees. Its nearest entry bounds the answer,
	// so every city inside that great-circle radius is a candidate.
	p := rtreego.Point{c.Latitude, c.Longitude}
	first := g.tree.NearestNeighbor(p)
	if first == nil {
		return City{}, false
	}
	candidates := append(g.tree.SearchIntersect(searchBox(c, g.distanceTo(first, c))), first)
	sort.SliceStable(candidates, func(i, j int) bool {
		return g.distanceTo(candidates[i], c) < g.distanceTo(candidates[j], c)
	})
	for _, s := range candidates {
		if cp, ok := s.(*cityPoint); ok {
			return g.cities[cp.index], true
		}
	}
	return City{}, false
}

// searchBox returns a lat/lng rectangle containing every point within
// radiusKm of c.
func searchBox(c entities.Coordinates, radiusKm float64) rtreego.Rect {
	const pad = 1e-6
	angular := radiusKm / utils.EarthRadiusKm
	dLat := angular * 180 / math.Pi

	dLng := 180.0
	if cosLat := math.Cos(c.Latitude * math.Pi / 180); cosLat > 1e-9 {
		ratio := math.Sin(math.Min(angular, math.Pi/2)) / cosLat
		if ratio < 1 && angular < math.Pi/2 {
			dLng = math.Asin(ratio) * 180 / math.Pi
		}
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{c.Latitude - dLat - pad, c.Longitude - dLng - pad},
		[]float64{2 * (dLat + pad), 2 * (dLng + pad)},
	)
	if err != nil {
		return rtreego.Point{c.Latitude, c.Longitude}.ToRect(pad)
	}
	return rect
}

func (g *Gazetteer) distanceTo(s rtreego.Spatial, c entities.Coordinates) float64 {
	p, ok := s.(*cityPoint)
	if !ok {
		return 0
	}
	city := g.cities[p.index].Coordinates
	return utils.HaversineKm(c.Latitude, c.Longitude, city.Latitude, city.Longitude)
}
