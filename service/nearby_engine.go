package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/venue"
)

const earthRadiusMeters = 6371000.0

var multiPointPattern = regexp.MustCompile(`MULTIPOINT\s*\(\(\s*([-+]?[\d.]+)\s+([-+]?[\d.]+)\s*\)\)`)

// ParseMultiPoint extracts (lat, lon) from a "MULTIPOINT ((lon lat))" string.
func ParseMultiPoint(geometry string) (lat, lon float64, err error) {
	m := multiPointPattern.FindStringSubmatch(geometry)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: geometry %q", models.ErrParseFailure, geometry)
	}
	lon, errLon := strconv.ParseFloat(m[1], 64)
	lat, errLat := strconv.ParseFloat(m[2], 64)
	if errLon != nil || errLat != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("%w: coordinates %q", models.ErrParseFailure, geometry)
	}
	return lat, lon, nil
}

// HaversineMeters is the great-circle distance between two points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// FormatDistance renders meters below 1 km and kilometres otherwise.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("約%d公尺", int(meters))
	}
	return fmt.Sprintf("約%.1f公里", meters/1000)
}

// RankedVenue is a venue with its distance from the reference venue.
type RankedVenue struct {
	Venue          venue.Venue `json:"venue"`
	DistanceMeters float64     `json:"distance_m"`
}

// RankNearby orders the located venues other than current by ascending
// distance, keeping input order on ties, and keeps at most topN.
func RankNearby(current venue.Venue, all []venue.Venue, topN int) []RankedVenue {
	ranked := make([]RankedVenue, 0, len(all))
	for _, v := range all {
		if v.VenueName == current.VenueName || !v.HasCoords {
			continue
		}
		ranked = append(ranked, RankedVenue{
			Venue:          v,
			DistanceMeters: HaversineMeters(current.VenueLat, current.VenueLon, v.VenueLat, v.VenueLon),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// RankByPoint orders located venues by distance from an arbitrary point.
func RankByPoint(lat, lon float64, all []venue.Venue, topN int) []RankedVenue {
	return RankNearby(venue.Venue{VenueLat: lat, VenueLon: lon}, all, topN)
}

// NearbyEngine answers "what is near me" questions.
type NearbyEngine struct {
	vocab *config.Vocabulary
	topN  int
}

func NewNearbyEngine(vocab *config.Vocabulary, topN int) *NearbyEngine {
	return &NearbyEngine{vocab: vocab, topN: topN}
}

// HasTrigger reports whether the message asks about nearby venues.
func (e *NearbyEngine) HasTrigger(message string) bool {
	return containsAny(message, e.vocab.NearbyTriggers)
}

// WantsItinerary reports whether the message also asks for a route.
func (e *NearbyEngine) WantsItinerary(message string) bool {
	return containsAny(message, e.vocab.ItineraryTriggers)
}

// FindCurrentVenue returns the first located venue, in declaration order,
// having an alias contained in message.
func (e *NearbyEngine) FindCurrentVenue(message string, venues []venue.Venue) (venue.Venue, bool) {
	for _, v := range venues {
		if v.HasCoords && v.MatchesAlias(message) {
			return v, true
		}
	}
	return venue.Venue{}, false
}

// Answer returns the ranking text when message names a known venue.
func (e *NearbyEngine) Answer(message string, venues []venue.Venue) (string, bool) {
	current, ok := e.FindCurrentVenue(message, venues)
	if !ok {
		return "", false
	}
	return NearbyText(current, RankNearby(current, venues, e.topN)), true
}

func NearbyText(current venue.Venue, ranked []RankedVenue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "距離「%s」由近到遠的館區：", current.VenueName)
	for i, r := range ranked {
		fmt.Fprintf(&b, "\n%d. %s（%s）", i+1, r.Venue.VenueName, FormatDistance(r.DistanceMeters))
	}
	return b.String()
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
