package services

import (
	"context"
	"log"
	"time"

	"zoo-assistant/models"
	"zoo-assistant/models/venue"
)

// ReferenceSource produces a fresh reference snapshot.
type ReferenceSource interface {
	Load() *models.ReferenceData
}

// VenueIndex receives every located venue after a refresh and drops the
// ones that disappeared from the source.
type VenueIndex interface {
	UpsertVenue(ctx context.Context, v venue.Venue) error
	PruneVenues(ctx context.Context, keep []venue.Venue) (int, error)
}

// ReferenceRefresherService periodically reloads the reference data and
// publishes it to the store. venueIndex may be nil.
type ReferenceRefresherService struct {
	source     ReferenceSource
	store      *ReferenceStore
	venueIndex VenueIndex
}

// NewReferenceRefresherService constructs a new refresher with dependencies.
func NewReferenceRefresherService(
	source ReferenceSource,
	store *ReferenceStore,
	venueIndex VenueIndex,
) *ReferenceRefresherService {
	return &ReferenceRefresherService{
		source:     source,
		store:      store,
		venueIndex: venueIndex,
	}
}

// StartPeriodicJob launches the background loop at the given interval. The
// loop stops when ctx is cancelled.
func (rr *ReferenceRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go rr.startPeriodicJob(ctx, interval)
}

func (rr *ReferenceRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[ReferenceRefresherService] Stopping periodic refresher job.")
			return
		case <-ticker.C:
			log.Println("[ReferenceRefresherService] Running periodic reference refresher job.")
			rr.RefreshReferenceData(ctx)
		}
	}
}

// RefreshReferenceData loads, publishes and indexes a new snapshot. It
// returns the published snapshot.
func (rr *ReferenceRefresherService) RefreshReferenceData(ctx context.Context) *models.ReferenceData {
	ref := rr.source.Load()
	rr.store.Publish(ref)
	logSourceStatus(ref)

	if rr.venueIndex != nil && ref.Venues.OK() {
		rr.indexVenues(ctx, ref.Venues.Value)
	}
	return ref
}

func (rr *ReferenceRefresherService) indexVenues(ctx context.Context, venues []venue.Venue) {
	located := make([]venue.Venue, 0, len(venues))
	for _, v := range venues {
		if !v.HasCoords {
			continue
		}
		if err := rr.venueIndex.UpsertVenue(ctx, v); err != nil {
			log.Printf("[ReferenceRefresherService] Upsert failed for %q: %v", v.VenueName, err)
			continue
		}
		located = append(located, v)
	}

	removed, err := rr.venueIndex.PruneVenues(ctx, located)
	if err != nil {
		log.Printf("[ReferenceRefresherService] Prune failed: %v", err)
	}
	log.Printf("[ReferenceRefresherService] Indexed %d venues, pruned %d", len(located), removed)
}

func logSourceStatus(ref *models.ReferenceData) {
	status := map[string]error{
		"venues":       ref.Venues.Err,
		"tickets":      ref.Tickets.Err,
		"hours":        ref.Hours.Err,
		"closures":     ref.Closures.Err,
		"courses":      ref.Courses.Err,
		"visitor_info": ref.VisitorInfo.Err,
		"env_notes":    ref.EnvEduNotes.Err,
	}
	failed := 0
	for name, err := range status {
		if err != nil {
			failed++
			log.Printf("[ReferenceRefresherService] Source %s unavailable: %v", name, err)
		}
	}
	log.Printf("[ReferenceRefresherService] Published snapshot (%d/%d sources failed)", failed, len(status))
}
