package models

import (
	"errors"
	"time"

	"zoo-assistant/models/course"
	"zoo-assistant/models/venue"
	"zoo-assistant/models/visitor"
)

var (
	// ErrDataSourceUnavailable marks a reference file that is missing or unreadable.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	// ErrParseFailure marks a single malformed row or token.
	ErrParseFailure = errors.New("parse failure")
	// ErrSectionNotFound is returned when a document section marker is absent.
	ErrSectionNotFound = errors.New("section not found")
	// ErrOutOfRange marks a date outside the course data validity window.
	ErrOutOfRange = errors.New("date outside course data window")
	// ErrCollaboratorFailure wraps any failure of the generative service.
	ErrCollaboratorFailure = errors.New("collaborator failure")
)

// Source is the load outcome of one reference source: either a payload
// or the error that prevented loading it.
type Source[T any] struct {
	Value T
	Err   error
}

// Loaded wraps a successfully loaded payload.
func Loaded[T any](v T) Source[T] {
	return Source[T]{Value: v}
}

// Failed wraps a load error.
func Failed[T any](err error) Source[T] {
	return Source[T]{Err: err}
}

func (s Source[T]) OK() bool {
	return s.Err == nil
}

// ReferenceData is an immutable snapshot of every reference source. A
// snapshot is never mutated after it has been published.
type ReferenceData struct {
	Venues      Source[[]venue.Venue]
	Tickets     Source[[]visitor.TicketRow]
	Hours       Source[[]visitor.HoursRow]
	Closures    Source[[]visitor.ClosureRule]
	Courses     Source[[]course.CourseRow]
	VisitorInfo Source[string]
	EnvEduNotes Source[string]

	LoadedAt time.Time
}
