package db

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("redis: key not found")

// RedisClient defines the methods available in the RedisClient
type RedisClient interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusKm float64) ([]string, error)
	PushCapped(ctx context.Context, key, value string, limit int64) error
	Range(ctx context.Context, key string, start, stop int64) ([]string, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
