package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// Identifier value objects for the entities stored in the planner table.
// Value objects are immutable and have no identity beyond their value.

// GroupID identifies a group
type GroupID struct {
	value string
}

// NewGroupID creates a new random GroupID
func NewGroupID() GroupID {
	return GroupID{value: uuid.New().String()}
}

// NewGroupIDFromString creates a GroupID from an existing string
func NewGroupIDFromString(id string) (GroupID, error) {
	if err := validateID("group ID", id); err != nil {
		return GroupID{}, err
	}
	return GroupID{value: id}, nil
}

func (id GroupID) String() string { return id.value }
func (id GroupID) IsZero() bool { return id.value == "" }
func (id GroupID) Equals(o GroupID) bool { return id.value == o.value }

// HangoutID identifies a hangout (event)
type HangoutID struct {
	value string
}

// NewHangoutID creates a new random HangoutID
func NewHangoutID() HangoutID {
	return HangoutID{value: uuid.New().String()}
}

// NewHangoutIDFromString creates a HangoutID from an existing string
func NewHangoutIDFromString(id string) (HangoutID, error) {
	if err := validateID("hangout ID", id); err != nil {
		return HangoutID{}, err
	}
	return HangoutID{value: id}, nil
}

func (id HangoutID) String() string { return id.value }
func (id HangoutID) IsZero() bool { return id.value == "" }
func (id HangoutID) Equals(o HangoutID) bool { return id.value == o.value }

// UserID identifies a user
type UserID struct {
	value string
}

// NewUserID creates a new random UserID
func NewUserID() UserID {
	return UserID{value: uuid.New().String()}
}

// NewUserIDFromString creates a UserID from an existing string
func NewUserIDFromString(id string) (UserID, error) {
	if err := validateID("user ID", id); err != nil {
		return UserID{}, err
	}
	return UserID{value: id}, nil
}

func (id UserID) String() string { return id.value }
func (id UserID) IsZero() bool { return id.value == "" }
func (id UserID) Equals(o UserID) bool { return id.value == o.value }

// SeriesID identifies an event series
type SeriesID struct {
	value string
}

// NewSeriesID creates a new random SeriesID
func NewSeriesID() SeriesID {
	return SeriesID{value: uuid.New().String()}
}

// NewSeriesIDFromString creates a SeriesID from an existing string
func NewSeriesIDFromString(id string) (SeriesID, error) {
	if err := validateID("series ID", id); err != nil {
		return SeriesID{}, err
	}
	return SeriesID{value: id}, nil
}

func (id SeriesID) String() string { return id.value }
func (id SeriesID) IsZero() bool { return id.value == "" }
func (id SeriesID) Equals(o SeriesID) bool { return id.value == o.value }

// PollID identifies a poll under a hangout
type PollID struct {
	value string
}

// NewPollID creates a new random PollID
func NewPollID() PollID {
	return PollID{value: uuid.New().String()}
}

// NewPollIDFromString creates a PollID from an existing string
func NewPollIDFromString(id string) (PollID, error) {
	if err := validateID("poll ID", id); err != nil {
		return PollID{}, err
	}
	return PollID{value: id}, nil
}

func (id PollID) String() string { return id.value }
func (id PollID) IsZero() bool { return id.value == "" }
func (id PollID) Equals(o PollID) bool { return id.value == o.value }

// OptionID identifies a poll option
type OptionID struct {
	value string
}

// NewOptionID creates a new random OptionID
func NewOptionID() OptionID {
	return OptionID{value: uuid.New().String()}
}

// NewOptionIDFromString creates an OptionID from an existing string
func NewOptionIDFromString(id string) (OptionID, error) {
	if err := validateID("option ID", id); err != nil {
		return OptionID{}, err
	}
	return OptionID{value: id}, nil
}

func (id OptionID) String() string { return id.value }
func (id OptionID) IsZero() bool { return id.value == "" }
func (id OptionID) Equals(o OptionID) bool { return id.value == o.value }

// CarID identifies a carpool offer under a hangout
type CarID struct {
	value string
}

// NewCarID creates a new random CarID
func NewCarID() CarID {
	return CarID{value: uuid.New().String()}
}

// NewCarIDFromString creates a CarID from an existing string
func NewCarIDFromString(id string) (CarID, error) {
	if err := validateID("car ID", id); err != nil {
		return CarID{}, err
	}
	return CarID{value: id}, nil
}

func (id CarID) String() string { return id.value }
func (id CarID) IsZero() bool { return id.value == "" }
func (id CarID) Equals(o CarID) bool { return id.value == o.value }

func validateID(name, id string) error {
	if id == "" {
		return errors.New(name + " cannot be empty")
	}
	if !isValidUUID(id) {
		return errors.New(name + " must be a valid UUID")
	}
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
