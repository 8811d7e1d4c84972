package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"zoo-assistant/db"
	"zoo-assistant/models/venue"
)

const VENUES_GEO_KEY_V1 = "zoo_venues_geo_v1"
const VENUES_GEO_PLACE_MEMBER_FORMAT_V1 = "zoo_venues_geo_place_v1:%s"

// RedisVenueDAO handles venue operations using Redis.
type RedisVenueDAO struct {
	client db.RedisClient
}

// NewRedisVenueDAO initializes a RedisVenueDAO with the Redis client.
func NewRedisVenueDAO(client db.RedisClient) *RedisVenueDAO {
	return &RedisVenueDAO{client: client}
}

// UpsertVenue stores the venue as a geolocation with the venue's JSON data.
// Venues without coordinates are rejected.
func (dao *RedisVenueDAO) UpsertVenue(ctx context.Context, v venue.Venue) error {
	if !v.HasCoords {
		return fmt.Errorf("[RedisVenueDAO] venue %q has no coordinates", v.VenueName)
	}
	venueKey := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, v.VenueName)
	return dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, venueKey, v.VenueLat, v.VenueLon, v)
}

// GetNearbyVenues retrieves the venues within radiusKm of a point, in the
// order returned by the index.
func (dao *RedisVenueDAO) GetNearbyVenues(ctx context.Context, lat, lon, radiusKm float64) ([]venue.Venue, error) {
	venuesJSON, err := dao.client.GetLocationsWithinRadius(ctx, VENUES_GEO_KEY_V1, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.Venue, len(venuesJSON))
	for i, venueJSON := range venuesJSON {
		if err := json.Unmarshal([]byte(venueJSON), &venues[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
		}
	}
	return venues, nil
}

// ListAllVenueNames returns all venue names present in the geo index.
func (dao *RedisVenueDAO) ListAllVenueNames(ctx context.Context) ([]string, error) {
	pattern := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, "*")
	keys, err := dao.client.Keys(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue geo keys: %w", err)
	}
	names := make([]string, 0, len(keys))
	prefix := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, "")
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, prefix))
	}
	return names, nil
}

// DeleteVenue removes a venue from the index.
func (dao *RedisVenueDAO) DeleteVenue(ctx context.Context, venueName string) error {
	key := fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, venueName)
	if err := dao.client.Del(ctx, key); err != nil {
		return fmt.Errorf("failed to delete venue key %s: %w", key, err)
	}
	log.Printf("[RedisVenueDAO] Deleted venue %s", venueName)
	return nil
}

// PruneVenues deletes indexed venues whose names are not in keep and
// returns how many were removed.
func (dao *RedisVenueDAO) PruneVenues(ctx context.Context, keep []venue.Venue) (int, error) {
	names, err := dao.ListAllVenueNames(ctx)
	if err != nil {
		return 0, err
	}
	wanted := make(map[string]bool, len(keep))
	for _, v := range keep {
		wanted[v.VenueName] = true
	}
	removed := 0
	for _, name := range names {
		if wanted[name] {
			continue
		}
		if err := dao.DeleteVenue(ctx, name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
