package services

import (
	"sync/atomic"

	"zoo-assistant/models"
	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"
	"zoo-assistant/models/visitor"
)

// ReferenceStore publishes immutable reference snapshots. Readers keep the
// snapshot they fetched for the whole request even if a newer one is
// published meanwhile.
type ReferenceStore struct {
	current atomic.Pointer[models.ReferenceData]
}

func NewReferenceStore(initial *models.ReferenceData) *ReferenceStore {
	s := &ReferenceStore{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Snapshot returns the latest published snapshot. Before the first load
// every source reports ErrDataSourceUnavailable.
func (s *ReferenceStore) Snapshot() *models.ReferenceData {
	if ref := s.current.Load(); ref != nil {
		return ref
	}
	return unloadedReferenceData()
}

// Publish replaces the current snapshot. ref must not be mutated afterwards.
func (s *ReferenceStore) Publish(ref *models.ReferenceData) {
	s.current.Store(ref)
}

func unloadedReferenceData() *models.ReferenceData {
	err := models.ErrDataSourceUnavailable
	return &models.ReferenceData{
		Venues:      models.Failed[[]venue.Venue](err),
		Tickets:     models.Failed[[]visitor.TicketRow](err),
		Hours:       models.Failed[[]visitor.HoursRow](err),
		Closures:    models.Failed[[]visitor.ClosureRule](err),
		Courses:     models.Failed[[]course.CourseRow](err),
		VisitorInfo: models.Failed[string](err),
		EnvEduNotes: models.Failed[string](err),
	}
}
