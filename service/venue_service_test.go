package services

import (
	"context"
	"errors"
	"testing"

	"zoo-assistant/models"
	"zoo-assistant/models/venue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVenueLookup struct {
	venues []venue.Venue
	err    error
}

func (s stubVenueLookup) GetNearbyVenues(ctx context.Context, lat, lon, radiusKm float64) ([]venue.Venue, error) {
	return s.venues, s.err
}

func venueStore() *ReferenceStore {
	return NewReferenceStore(&models.ReferenceData{Venues: models.Loaded([]venue.Venue{
		located("遠館", 0, 0.02),
		located("近館", 0, 0.001),
		located("中館", 0, 0.005),
		{VenueName: "無座標"},
	})})
}

func names(ranked []RankedVenue) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Venue.VenueName)
	}
	return out
}

func TestVenueService_GetVenuesNearby(t *testing.T) {
	tests := []struct {
		name     string
		radiusKm float64
		topN     int
		expected []string
	}{
		{"unbounded", 0, 0, []string{"近館", "中館", "遠館"}},
		{"radius filters far venues", 1, 0, []string{"近館", "中館"}},
		{"top n", 0, 1, []string{"近館"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewVenueService(venueStore(), nil, tt.topN)
			assert.Equal(t, tt.expected, names(s.GetVenuesNearby(context.Background(), 0, 0, tt.radiusKm)))
		})
	}
}

func TestVenueService_UsesLookup(t *testing.T) {
	lookup := stubVenueLookup{venues: []venue.Venue{located("索引館", 0, 0.002)}}
	s := NewVenueService(venueStore(), lookup, 0)

	assert.Equal(t, []string{"索引館"}, names(s.GetVenuesNearby(context.Background(), 0, 0, 1)))
}

func TestVenueService_LookupFailureFallsBackToSnapshot(t *testing.T) {
	s := NewVenueService(venueStore(), stubVenueLookup{err: errors.New("redis down")}, 0)

	assert.Equal(t, []string{"近館", "中館"}, names(s.GetVenuesNearby(context.Background(), 0, 0, 1)))
}

func TestVenueService_GetVenueNeighbours(t *testing.T) {
	s := NewVenueService(venueStore(), nil, 2)

	current, ranked, ok := s.GetVenueNeighbours("近館")

	require.True(t, ok)
	assert.Equal(t, "近館", current.VenueName)
	assert.Equal(t, []string{"中館", "遠館"}, names(ranked))

	_, _, ok = s.GetVenueNeighbours("不存在")
	assert.False(t, ok)
}
