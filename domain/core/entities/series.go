package entities

import (
	"errors"
	"strings"
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// EventSeries groups recurring hangouts (e.g. weekly watch-party episodes).
// The series record lists its constituent hangout IDs; each hangout carries
// the back-link. Both sides of the link are only ever written in the same
// transaction so a half-linked series is never observable.
type EventSeries struct {
	id          valueobjects.SeriesID
	title       string
	description string
	groupIDs    []valueobjects.GroupID
	hangoutIDs  []valueobjects.HangoutID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEventSeries creates a series seeded with its first hangout parts
func NewEventSeries(title string, groupIDs []valueobjects.GroupID, hangoutIDs []valueobjects.HangoutID) (*EventSeries, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("series title cannot be empty")
	}
	if len(hangoutIDs) == 0 {
		return nil, errors.New("series must contain at least one hangout")
	}
	now := time.Now().UTC()
	return &EventSeries{
		id:         valueobjects.NewSeriesID(),
		title:      title,
		groupIDs:   append([]valueobjects.GroupID(nil), groupIDs...),
		hangoutIDs: append([]valueobjects.HangoutID(nil), hangoutIDs...),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructEventSeries rebuilds a series from persisted attributes
func ReconstructEventSeries(
	id valueobjects.SeriesID,
	title, description string,
	groupIDs []valueobjects.GroupID,
	hangoutIDs []valueobjects.HangoutID,
	createdAt, updatedAt time.Time,
) *EventSeries {
	return &EventSeries{
		id:          id,
		title:       title,
		description: description,
		groupIDs:    groupIDs,
		hangoutIDs:  hangoutIDs,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *EventSeries) ID() valueobjects.SeriesID { return s.id }
func (s *EventSeries) Title() string { return s.title }
func (s *EventSeries) Description() string { return s.description }
func (s *EventSeries) CreatedAt() time.Time { return s.createdAt }
func (s *EventSeries) UpdatedAt() time.Time { return s.updatedAt }

// GroupIDs returns the groups this series is shared with
func (s *EventSeries) GroupIDs() []valueobjects.GroupID {
	return append([]valueobjects.GroupID(nil), s.groupIDs...)
}

// HangoutIDs returns the series parts in order
func (s *EventSeries) HangoutIDs() []valueobjects.HangoutID {
	return append([]valueobjects.HangoutID(nil), s.hangoutIDs...)
}

// SetTitle updates the series title
func (s *EventSeries) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("series title cannot be empty")
	}
	s.title = title
	s.touch()
	return nil
}

// SetDescription updates the description
func (s *EventSeries) SetDescription(description string) {
	s.description = description
	s.touch()
}

// AddPart appends a hangout to the series if not already present
func (s *EventSeries) AddPart(hangoutID valueobjects.HangoutID) bool {
	for _, id := range s.hangoutIDs {
		if id.Equals(hangoutID) {
			return false
		}
	}
	s.hangoutIDs = append(s.hangoutIDs, hangoutID)
	s.touch()
	return true
}

// RemovePart removes a hangout from the series
func (s *EventSeries) RemovePart(hangoutID valueobjects.HangoutID) bool {
	for i, id := range s.hangoutIDs {
		if id.Equals(hangoutID) {
			s.hangoutIDs = append(s.hangoutIDs[:i], s.hangoutIDs[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

// IsEmpty reports whether the series has no parts left
func (s *EventSeries) IsEmpty() bool {
	return len(s.hangoutIDs) == 0
}

func (s *EventSeries) touch() {
	s.updatedAt = time.Now().UTC()
}
