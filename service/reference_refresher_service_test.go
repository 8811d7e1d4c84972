package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	daoredis "zoo-assistant/dao/redis"
	"zoo-assistant/db"
	"zoo-assistant/models"
	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReferenceSource struct {
	loads atomic.Int32
	ref   *models.ReferenceData
}

func (f *fakeReferenceSource) Load() *models.ReferenceData {
	f.loads.Add(1)
	return f.ref
}

func TestReferenceRefresherService_RefreshReferenceData(t *testing.T) {
	ctx := context.Background()
	ref := &models.ReferenceData{
		Venues: models.Loaded([]venue.Venue{
			located("大貓熊館", 24.996, 121.584),
			{VenueName: "E_倉庫", Aliases: []string{"E_倉庫"}},
		}),
		Courses: models.Failed[[]course.CourseRow](models.ErrDataSourceUnavailable),
	}
	client := db.NewMockRedisClient()
	venueDAO := daoredis.NewRedisVenueDAO(client)
	require.NoError(t, venueDAO.UpsertVenue(ctx, located("舊館", 24.99, 121.58)))

	store := NewReferenceStore(nil)
	refresher := NewReferenceRefresherService(&fakeReferenceSource{ref: ref}, store, venueDAO)

	published := refresher.RefreshReferenceData(ctx)

	assert.Same(t, ref, published)
	assert.Same(t, ref, store.Snapshot())

	names, err := venueDAO.ListAllVenueNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"大貓熊館"}, names)
}

func TestReferenceRefresherService_NilIndex(t *testing.T) {
	ref := &models.ReferenceData{Venues: models.Loaded([]venue.Venue{located("大貓熊館", 24.996, 121.584)})}
	store := NewReferenceStore(nil)

	NewReferenceRefresherService(&fakeReferenceSource{ref: ref}, store, nil).RefreshReferenceData(context.Background())

	assert.Same(t, ref, store.Snapshot())
}

func TestReferenceRefresherService_StartPeriodicJob(t *testing.T) {
	source := &fakeReferenceSource{ref: &models.ReferenceData{}}
	refresher := NewReferenceRefresherService(source, NewReferenceStore(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refresher.StartPeriodicJob(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return source.loads.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
