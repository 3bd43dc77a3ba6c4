package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// Car is a carpool offer under a hangout's partition. AvailableSeats is a
// hot field mutated by concurrent claims, so it is only ever changed through
// the optimistic-retry update path.
type Car struct {
	HangoutID      valueobjects.HangoutID
	CarID          valueobjects.CarID
	DriverID       valueobjects.UserID
	TotalSeats     int
	AvailableSeats int
	Notes          string
	Version        int64
	CreatedAt      time.Time
}

// CarRider is one claimed seat in a car
type CarRider struct {
	HangoutID valueobjects.HangoutID
	CarID     valueobjects.CarID
	UserID    valueobjects.UserID
	Note      string
	ClaimedAt time.Time
}

// NeedsRide marks a user looking for a seat to a hangout
type NeedsRide struct {
	HangoutID valueobjects.HangoutID
	UserID    valueobjects.UserID
	Note      string
	CreatedAt time.Time
}

// InterestStatus is a user's attendance signal for a hangout
type InterestStatus string

const (
	InterestGoing      InterestStatus = "going"
	InterestInterested InterestStatus = "interested"
	InterestNotGoing   InterestStatus = "not_going"
)

// InterestLevel is one user's attendance record under a hangout's partition
type InterestLevel struct {
	HangoutID valueobjects.HangoutID
	UserID    valueobjects.UserID
	Status    InterestStatus
	UpdatedAt time.Time
}

// HangoutAttribute is a free-form named attribute attached to a hangout
// (e.g. "dress code", "bring"). Attributes share the hangout's partition so
// the detail read returns them in the same round trip.
type HangoutAttribute struct {
	HangoutID   valueobjects.HangoutID
	AttributeID string
	Name        string
	Value       string
	UpdatedAt   time.Time
}
