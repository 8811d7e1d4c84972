package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// GeoRedisClient wraps a go-redis client with the geo and list operations
// the venue index and interest log need.
type GeoRedisClient struct {
	client *redis.Client
}

// NewGeoRedisClient checks the connection and returns the wrapper.
func NewGeoRedisClient(ctx context.Context, client *redis.Client) (*GeoRedisClient, error) {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis at %s: %w", client.Options().Addr, err)
	}
	log.Printf("[GeoRedisClient] Connected to Redis at %s", client.Options().Addr)

	return &GeoRedisClient{client: client}, nil
}

// Set sets a key-value pair in Redis
func (r *GeoRedisClient) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Get retrieves the value for a given key, ErrKeyNotFound when absent.
func (r *GeoRedisClient) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, err
}

// AddLocationWithJSON stores geolocation along with associated JSON data.
func (r *GeoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
			Name:      memberKey,
			Latitude:  lat,
			Longitude: lon,
		})
		pipe.Set(ctx, memberKey, jsonData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add geolocation for %s: %w", memberKey, err)
	}
	return nil
}

// GetLocationsWithinRadius returns the JSON data of every member within
// radiusKm, nearest first.
func (r *GeoRedisClient) GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusKm float64) ([]string, error) {
	results, err := r.client.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}

	objects := make([]string, 0, len(results))
	for _, loc := range results {
		data, err := r.client.Get(ctx, loc.Name).Result()
		if err != nil {
			log.Printf("[GeoRedisClient] Skipping member %s: %v", loc.Name, err)
			continue
		}
		objects = append(objects, data)
	}
	return objects, nil
}

// PushCapped prepends value to the list at key and trims it to limit entries.
func (r *GeoRedisClient) PushCapped(ctx context.Context, key, value string, limit int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, value)
		if limit > 0 {
			pipe.LTrim(ctx, key, 0, limit-1)
		}
		return nil
	})
	return err
}

func (r *GeoRedisClient) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r *GeoRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r *GeoRedisClient) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *GeoRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *GeoRedisClient) Close() error {
	return r.client.Close()
}
