package db

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"
)

// MockRedisClient simulates a Redis client for testing purposes.
type MockRedisClient struct {
	data    map[string]string
	lists   map[string][]string
	geoData map[string]map[string]GeoLoc
	mu      sync.RWMutex
}

// GeoLoc represents a geolocation with latitude and longitude.
type GeoLoc struct {
	Latitude  float64
	Longitude float64
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data:    make(map[string]string),
		lists:   make(map[string][]string),
		geoData: make(map[string]map[string]GeoLoc),
	}
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Get retrieves a value for a given key from the mock Redis.
func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

// AddLocationWithJSON adds geolocation with JSON data in the mock Redis.
func (m *MockRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.geoData[geoKey]; !exists {
		m.geoData[geoKey] = make(map[string]GeoLoc)
	}
	m.geoData[geoKey][memberKey] = GeoLoc{Latitude: lat, Longitude: lon}
	m.data[memberKey] = string(jsonData)
	return nil
}

// GetLocationsWithinRadius ignores the radius and returns every member of
// key, ordered by member name.
func (m *MockRedisClient) GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusKm float64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]string, 0, len(m.geoData[key]))
	for member := range m.geoData[key] {
		members = append(members, member)
	}
	sort.Strings(members)

	var results []string
	for _, member := range members {
		if data, exists := m.data[member]; exists {
			results = append(results, data)
		}
	}
	return results, nil
}

func (m *MockRedisClient) PushCapped(ctx context.Context, key, value string, limit int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := append([]string{value}, m.lists[key]...)
	if limit > 0 && int64(len(list)) > limit {
		list = list[:limit]
	}
	m.lists[key] = list
	return nil
}

// Range follows LRANGE semantics, including negative indexes.
func (m *MockRedisClient) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []string{}, nil
	}
	return append([]string(nil), list[start:stop+1]...), nil
}

// Keys matches glob patterns against plain and list keys.
func (m *MockRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	for k := range m.lists {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.lists, key)
	delete(m.geoData, key)
	for _, members := range m.geoData {
		delete(members, key)
	}
	return nil
}

// Ping always succeeds.
func (m *MockRedisClient) Ping(ctx context.Context) error {
	return nil
}
