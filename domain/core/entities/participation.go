package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// ParticipationStatus tracks a user's ticket/reservation state for a hangout
type ParticipationStatus string

const (
	ParticipationRequested ParticipationStatus = "requested"
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationDeclined  ParticipationStatus = "declined"
)

// Participation records that a user holds (or requested) tickets or a
// reservation slot for a hangout.
type Participation struct {
	HangoutID   valueobjects.HangoutID
	ID          string
	UserID      valueobjects.UserID
	Status      ParticipationStatus
	TicketCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReservationOffer is spare tickets or reservation capacity a user offers
// to others attending the hangout.
type ReservationOffer struct {
	HangoutID    valueobjects.HangoutID
	ID           string
	UserID       valueobjects.UserID
	SeatsOffered int
	Note         string
	CreatedAt    time.Time
}
