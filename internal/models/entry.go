package models

import "time"

// DefaultColor is the swatch assigned to entries created without an explicit color.
const DefaultColor = "#3b82f6"

// TimeEntry represents one unit of tracked work. An entry with EndAt == nil is
// running; a user has at most one running entry at any time.
type TimeEntry struct {
	ID           string     `json:"id"`            // entry UUID
	UserID       string     `json:"-"`             // owner, hidden from JSON
	Project      string     `json:"project"`       // free-text project label
	Tags         []string   `json:"tags"`          // unordered tag strings
	Note         string     `json:"note"`          // free-text note
	Color        string     `json:"color"`         // hex color for UI theming
	LocationLat  *float64   `json:"location_lat"`  // GPS latitude (optional)
	LocationLng  *float64   `json:"location_lng"`  // GPS longitude (optional)
	LocationAddr *string    `json:"location_addr"` // human-readable address (optional)
	PhotoData    *string    `json:"photo_data"`    // base64 photo payload (optional)
	StartAt      time.Time  `json:"start_at"`      // tracking start
	EndAt        *time.Time `json:"end_at"`        // tracking end, nil while running
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Running reports whether the entry is still open.
func (e *TimeEntry) Running() bool {
	return e.EndAt == nil
}
