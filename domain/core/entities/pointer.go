package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// HangoutPointer is the denormalized projection of a hangout stored in one
// associated group's partition. It exists so a group feed is a single-
// partition query. Pointers are derived records: they are only ever written
// by the pointer synchronization path, never mutated directly.
//
// ParticipantCount and Version are pointer-only fields. The field-copy
// contract that keeps the rest in sync with the canonical hangout lives in
// the persistence layer (ApplyHangoutToPointer); add any new propagated
// field there, not at individual call sites.
type HangoutPointer struct {
	GroupID          valueobjects.GroupID
	HangoutID        valueobjects.HangoutID
	Title            string
	Window           valueobjects.TimeWindow
	Location         string
	Visibility       HangoutVisibility
	MainImagePath    string
	TicketInfo       TicketInfo
	SeriesID         valueobjects.SeriesID
	ParticipantCount int
	Version          int64
	UpdatedAt        time.Time
}

// SeriesPointer is the per-group projection of an event series, analogous
// to HangoutPointer.
type SeriesPointer struct {
	GroupID    valueobjects.GroupID
	SeriesID   valueobjects.SeriesID
	Title      string
	HangoutIDs []valueobjects.HangoutID
	StartTime  time.Time
	Version    int64
	UpdatedAt  time.Time
}
