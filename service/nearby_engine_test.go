package services

import (
	"testing"

	"zoo-assistant/config"
	"zoo-assistant/models"
	"zoo-assistant/models/venue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func located(name string, lat, lon float64, aliases ...string) venue.Venue {
	return venue.Venue{
		VenueName: name,
		Aliases:   append([]string{name}, aliases...),
		VenueLat:  lat,
		VenueLon:  lon,
		HasCoords: true,
	}
}

func TestParseMultiPoint(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		lat, lon float64
		wantErr  bool
	}{
		{"spaced", "MULTIPOINT ((121.5809 24.9983))", 24.9983, 121.5809, false},
		{"compact", "MULTIPOINT((121.58 24.99))", 24.99, 121.58, false},
		{"signed", "MULTIPOINT (( -73.55 45.52 ))", 45.52, -73.55, false},
		{"empty", "", 0, 0, true},
		{"point form", "POINT (121.58 24.99)", 0, 0, true},
		{"garbage numbers", "MULTIPOINT ((1.2.3 24.99))", 0, 0, true},
		{"latitude out of range", "MULTIPOINT ((121.58 124.99))", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ParseMultiPoint(tt.geometry)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrParseFailure)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, lat, 1e-9)
			assert.InDelta(t, tt.lon, lon, 1e-9)
		})
	}
}

func TestHaversineMeters(t *testing.T) {
	aLat, aLon := 24.9983, 121.5809
	bLat, bLon := 24.9946, 121.5873

	assert.Equal(t, 0.0, HaversineMeters(aLat, aLon, aLat, aLon))
	assert.InDelta(t, HaversineMeters(aLat, aLon, bLat, bLon), HaversineMeters(bLat, bLon, aLat, aLon), 1e-9)

	// One degree of latitude along a meridian.
	assert.InDelta(t, 111195.0, HaversineMeters(0, 0, 1, 0), 1.0)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "約0公尺", FormatDistance(0))
	assert.Equal(t, "約999公尺", FormatDistance(999.9))
	assert.Equal(t, "約1.0公里", FormatDistance(1000))
	assert.Equal(t, "約2.3公里", FormatDistance(2345))
}

func TestRankNearby(t *testing.T) {
	current := located("入口廣場", 0, 0)
	venues := []venue.Venue{
		current,
		located("遠", 0, 0.02),
		located("近甲", 0, 0.001),
		{VenueName: "無座標"},
		located("近乙", 0, -0.001),
		located("中", 0, 0.005),
	}

	ranked := RankNearby(current, venues, 10)

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Venue.VenueName
	}
	// 近甲 and 近乙 are equidistant and keep input order.
	assert.Equal(t, []string{"近甲", "近乙", "中", "遠"}, names)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].DistanceMeters, ranked[i].DistanceMeters)
	}

	assert.Len(t, RankNearby(current, venues, 2), 2)
}

func TestNearbyEngine_Answer(t *testing.T) {
	engine := NewNearbyEngine(config.DefaultVocabulary(), config.DEFAULT_NEARBY_TOP_N)
	venues := []venue.Venue{
		located("熱帶雨林室內館", 24.9983, 121.5809, "穿山甲館"),
		located("鳥園", 24.9946, 121.5873),
		located("無尾熊館", 24.9975, 121.5820),
	}

	assert.True(t, engine.HasTrigger("我在穿山甲館附近"))
	assert.False(t, engine.HasTrigger("票價多少"))

	text, ok := engine.Answer("我在穿山甲館，附近有什麼", venues)
	require.True(t, ok)
	assert.Equal(t, "距離「熱帶雨林室內館」由近到遠的館區：\n1. 無尾熊館（約142公尺）\n2. 鳥園（約765公尺）", text)

	_, ok = engine.Answer("我在附近", venues)
	assert.False(t, ok)
}
