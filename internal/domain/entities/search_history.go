package entities

import "time"

// SearchType tags a history entry with the feature that produced it.
type SearchType string

const (
	SearchTypeMedicine SearchType = "medicine"
	SearchTypePharmacy SearchType = "pharmacy"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	return t == SearchTypeMedicine || t == SearchTypePharmacy
}

// SearchHistoryEntry is one search made by a signed-in user.
type SearchHistoryEntry struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Type          SearchType `json:"type" db:"search_type"`
	Query         string     `json:"query" db:"query"`
	LocationLabel string     `json:"location_label,omitempty" db:"location_label"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
