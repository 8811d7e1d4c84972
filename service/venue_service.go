package services

import (
	"context"
	"log"

	"zoo-assistant/models/venue"
)

// VenueLookup is a geo index able to pre-filter venues around a point.
type VenueLookup interface {
	GetNearbyVenues(ctx context.Context, lat, lon, radiusKm float64) ([]venue.Venue, error)
}

type VenueService struct {
	store  *ReferenceStore
	lookup VenueLookup
	topN   int
}

// NewVenueService constructs a new VenueService. lookup may be nil, in
// which case the current snapshot is scanned.
func NewVenueService(store *ReferenceStore, lookup VenueLookup, topN int) *VenueService {
	return &VenueService{store: store, lookup: lookup, topN: topN}
}

// GetVenuesNearby ranks located venues within radiusKm of a point, nearest
// first. A non-positive radius means unbounded.
func (vs *VenueService) GetVenuesNearby(ctx context.Context, lat, lon, radiusKm float64) []RankedVenue {
	candidates := vs.candidates(ctx, lat, lon, radiusKm)
	ranked := RankByPoint(lat, lon, candidates, -1)

	out := make([]RankedVenue, 0, len(ranked))
	for _, r := range ranked {
		if radiusKm > 0 && r.DistanceMeters > radiusKm*1000 {
			break
		}
		out = append(out, r)
		if vs.topN > 0 && len(out) == vs.topN {
			break
		}
	}
	return out
}

// GetVenueNeighbours ranks the venues around the venue whose alias occurs
// in name.
func (vs *VenueService) GetVenueNeighbours(name string) (venue.Venue, []RankedVenue, bool) {
	ref := vs.store.Snapshot()
	if !ref.Venues.OK() {
		return venue.Venue{}, nil, false
	}
	for _, v := range ref.Venues.Value {
		if v.HasCoords && v.MatchesAlias(name) {
			return v, RankNearby(v, ref.Venues.Value, vs.topN), true
		}
	}
	return venue.Venue{}, nil, false
}

func (vs *VenueService) candidates(ctx context.Context, lat, lon, radiusKm float64) []venue.Venue {
	if vs.lookup != nil && radiusKm > 0 {
		venues, err := vs.lookup.GetNearbyVenues(ctx, lat, lon, radiusKm)
		if err == nil {
			return venues
		}
		log.Printf("[VenueService] Geo index lookup failed, scanning snapshot: %v", err)
	}
	ref := vs.store.Snapshot()
	if !ref.Venues.OK() {
		return nil
	}
	return ref.Venues.Value
}
