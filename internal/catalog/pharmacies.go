package catalog

import (
	"strings"

	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
)

func website(url string) *string {
	return &url
}

// curatedPharmacies are hand-authored listings for cities where we have
// verified data. Distances are from the city's gazetteer coordinate.
var curatedPharmacies = map[string][]entities.Place{
	"Hawassa": {
		{
			ID:          "hws-001",
			Name:        "Hawassa Referral Pharmacy",
			Address:     "Piazza, near Hawassa University Referral Hospital, Hawassa",
			Contact:     "+251 46 220 1234",
			Hours:       "Open 24 hours",
			DistanceKm:  0.4,
			Coordinates: entities.Coordinates{Latitude: 7.0650, Longitude: 38.4791},
		},
		{
			ID:          "hws-002",
			Name:        "Tabor Pharmacy",
			Address:     "Tabor sub-city, Main Road, Hawassa",
			Contact:     "+251 46 221 5566",
			Hours:       "8:00 AM - 10:00 PM",
			DistanceKm:  0.9,
			Coordinates: entities.Coordinates{Latitude: 7.0558, Longitude: 38.4712},
		},
		{
			ID:          "hws-003",
			Name:        "Lakeside Drug Store",
			Address:     "Amora Gedel road, Lake Hawassa shore, Hawassa",
			Contact:     "+251 46 212 7788",
			Hours:       "8:00 AM - 9:00 PM",
			DistanceKm:  1.6,
			Coordinates: entities.Coordinates{Latitude: 7.0489, Longitude: 38.4652},
		},
		{
			ID:          "hws-004",
			Name:        "Atote Community Pharmacy",
			Address:     "Atote, near the main bus station, Hawassa",
			Contact:     "+251 46 220 9900",
			Hours:       "7:30 AM - 8:30 PM",
			DistanceKm:  2.3,
			Coordinates: entities.Coordinates{Latitude: 7.0733, Longitude: 38.4903},
		},
	},
	"Addis Ababa": {
		{
			ID:          "add-001",
			Name:        "Bole Medhanialem Pharmacy",
			Address:     "Bole Road, near Edna Mall, Addis Ababa",
			Contact:     "+251 11 661 2233",
			Hours:       "Open 24 hours",
			DistanceKm:  0.7,
			Coordinates: entities.Coordinates{Latitude: 9.0371, Longitude: 38.7508},
		},
		{
			ID:          "add-002",
			Name:        "Kenema Pharmacy No. 4",
			Address:     "Churchill Avenue, Piassa, Addis Ababa",
			Contact:     "+251 11 155 4433",
			Hours:       "8:00 AM - 8:00 PM",
			DistanceKm:  1.1,
			Coordinates: entities.Coordinates{Latitude: 9.0268, Longitude: 38.7402},
			Website:     website("https://kenema.example.et"),
		},
		{
			ID:          "add-003",
			Name:        "Arat Kilo Pharmacy",
			Address:     "Arat Kilo, near Addis Ababa University, Addis Ababa",
			Contact:     "+251 11 123 8080",
			Hours:       "8:00 AM - 9:00 PM",
			DistanceKm:  1.8,
			Coordinates: entities.Coordinates{Latitude: 9.0445, Longitude: 38.7611},
		},
		{
			ID:          "add-004",
			Name:        "Mexico Square Drug Store",
			Address:     "Mexico Square, Ras Abebe Aregay Street, Addis Ababa",
			Contact:     "+251 11 552 6161",
			Hours:       "7:00 AM - 10:00 PM",
			DistanceKm:  2.4,
			Coordinates: entities.Coordinates{Latitude: 9.0102, Longitude: 38.7345},
		},
	},
	"Bahir Dar": {
		{
			ID:          "bdr-001",
			Name:        "Tana Pharmacy",
			Address:     "Kebele 14, near St. George Church, Bahir Dar",
			Contact:     "+251 58 220 3344",
			Hours:       "8:00 AM - 9:00 PM",
			DistanceKm:  0.6,
			Coordinates: entities.Coordinates{Latitude: 11.5781, Longitude: 37.3641},
		},
		{
			ID:          "bdr-002",
			Name:        "Blue Nile Drug Store",
			Address:     "Lake Tana shore road, Bahir Dar",
			Contact:     "+251 58 226 1122",
			Hours:       "8:00 AM - 8:00 PM",
			DistanceKm:  1.3,
			Coordinates: entities.Coordinates{Latitude: 11.5830, Longitude: 37.3905},
		},
		{
			ID:          "bdr-003",
			Name:        "Felege Hiwot Pharmacy",
			Address:     "Near Felege Hiwot Referral Hospital, Bahir Dar",
			Contact:     "+251 58 220 0505",
			Hours:       "Open 24 hours",
			DistanceKm:  2.0,
			Coordinates: entities.Coordinates{Latitude: 11.5908, Longitude: 37.3870},
		},
	},
}

// PharmacyDataset looks up curated pharmacy listings by city name.
type PharmacyDataset struct {
	byCity map[string][]entities.Place
	cities []string
}

// NewPharmacyDataset indexes listings by lower-cased city name.
func NewPharmacyDataset(listings map[string][]entities.Place) *PharmacyDataset {
	d := &PharmacyDataset{byCity: make(map[string][]entities.Place, len(listings))}
	for city, places := range listings {
		key := strings.ToLower(strings.TrimSpace(city))
		d.byCity[key] = places
		d.cities = append(d.cities, city)
	}
	return d
}

// DefaultPharmacyDataset returns the built-in curated listings.
func DefaultPharmacyDataset() *PharmacyDataset {
	return NewPharmacyDataset(curatedPharmacies)
}

// Lookup returns a copy of the curated listing for city, sorted nearest
// first. The copy is safe for the caller to modify.
func (d *PharmacyDataset) Lookup(city string) ([]entities.Place, bool) {
	places, ok := d.byCity[strings.ToLower(strings.TrimSpace(city))]
	if !ok || len(places) == 0 {
		return nil, false
	}
	out := make([]entities.Place, len(places))
	copy(out, places)
	for i := range out {
		if out[i].Website != nil {
			w := *out[i].Website
			out[i].Website = &w
		}
	}
	entities.SortPlacesByDistance(out)
	return out, true
}

// All returns every curated listing keyed by city, used by the indexer.
func (d *PharmacyDataset) All() map[string][]entities.Place {
	out := make(map[string][]entities.Place, len(d.byCity))
	for _, city := range d.cities {
		places, _ := d.Lookup(city)
		out[city] = places
	}
	return out
}
