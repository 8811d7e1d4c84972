package venue

import (
	"fmt"
	"strings"
)

// Venue represents a named area of the zoo with optional geocoordinates.
type Venue struct {
	VenueName string   `json:"venue_name"`
	Aliases   []string `json:"aliases"`
	Category  string   `json:"category"`
	URL       string   `json:"url,omitempty"`

	VenueLat float64 `json:"venue_lat"`
	VenueLon float64 `json:"venue_lng"`
	// HasCoords is false when the source geometry was missing or unparseable.
	HasCoords bool `json:"has_coords"`
}

// MatchesAlias reports whether any alias of the venue occurs in text.
func (v *Venue) MatchesAlias(text string) bool {
	for _, alias := range v.Aliases {
		if alias != "" && strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

func (v *Venue) ToString() string {
	return fmt.Sprintf("Venue(name=%s, category=%s, lat=%f, lon=%f)",
		v.VenueName, v.Category, v.VenueLat, v.VenueLon)
}
