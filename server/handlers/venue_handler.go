package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"zoo-assistant/models/venue"
	services "zoo-assistant/service"
)

const (
	LAT_QUERY_ARG    = "lat"
	LON_QUERY_ARG    = "lon"
	RADIUS_QUERY_ARG = "radius"
	VENUE_QUERY_ARG  = "venue"
)

// NearbyVenue is one entry of the nearby response.
type NearbyVenue struct {
	VenueName      string  `json:"venue_name"`
	Category       string  `json:"category,omitempty"`
	URL            string  `json:"url,omitempty"`
	VenueLat       float64 `json:"venue_lat"`
	VenueLon       float64 `json:"venue_lng"`
	DistanceMeters int     `json:"distance_m"`
	Distance       string  `json:"distance"`
}

type NearbyResponse struct {
	From   *venue.Venue  `json:"from,omitempty"`
	Venues []NearbyVenue `json:"venues"`
}

type VenueHandler struct {
	venueService *services.VenueService
}

func NewVenueHandler(venueService *services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// GetVenuesNearby handles GET /v1/venues/nearby, either
// ?venue={name} or ?lat={float}&lon={float}[&radius={km}].
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()

	if name := vals.Get(VENUE_QUERY_ARG); name != "" {
		current, ranked, ok := h.venueService.GetVenueNeighbours(name)
		if !ok {
			http.Error(w, "Unknown venue "+name, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, NearbyResponse{From: &current, Venues: toNearbyVenues(ranked)})
		return
	}

	lat, lon, radius, ok := parseArgs(vals, w)
	if !ok {
		return
	}
	ranked := h.venueService.GetVenuesNearby(r.Context(), lat, lon, radius)
	writeJSON(w, http.StatusOK, NearbyResponse{Venues: toNearbyVenues(ranked)})
}

func parseArgs(vals url.Values, w http.ResponseWriter) (lat, lon, radius float64, ok bool) {
	var err error

	lat, err = parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil || lat < -90 || lat > 90 {
		http.Error(w, "Invalid argument "+LAT_QUERY_ARG, http.StatusBadRequest)
		return
	}
	lon, err = parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil || lon < -180 || lon > 180 {
		http.Error(w, "Invalid argument "+LON_QUERY_ARG, http.StatusBadRequest)
		return
	}
	if vals.Get(RADIUS_QUERY_ARG) != "" {
		radius, err = parseArgFloat64(vals, RADIUS_QUERY_ARG)
		if err != nil || radius < 0 {
			http.Error(w, "Invalid argument "+RADIUS_QUERY_ARG, http.StatusBadRequest)
			return
		}
	}
	ok = true
	return
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	return strconv.ParseFloat(vals.Get(name), 64)
}

func toNearbyVenues(ranked []services.RankedVenue) []NearbyVenue {
	out := make([]NearbyVenue, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, NearbyVenue{
			VenueName:      r.Venue.VenueName,
			Category:       r.Venue.Category,
			URL:            r.Venue.URL,
			VenueLat:       r.Venue.VenueLat,
			VenueLon:       r.Venue.VenueLon,
			DistanceMeters: int(r.DistanceMeters),
			Distance:       services.FormatDistance(r.DistanceMeters),
		})
	}
	return out
}

// Ping handles GET /ping
func Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("[HTTP] Pinging server")
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}
