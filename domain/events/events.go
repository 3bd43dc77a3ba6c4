package events

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// SourceBackend is the EventBridge source attached to every event this
// service publishes. The notification dispatcher subscribes on it.
const SourceBackend = "inviter.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Hangout events

// HangoutCreated is raised when a new hangout is created
type HangoutCreated struct {
	BaseEvent
	HangoutID string   `json:"hangout_id"`
	GroupIDs  []string `json:"group_ids"`
	Title     string   `json:"title"`
	CreatedBy string   `json:"created_by"`
}

// NewHangoutCreated creates a HangoutCreated event
func NewHangoutCreated(hangoutID valueobjects.HangoutID, groupIDs []valueobjects.GroupID, title string, createdBy valueobjects.UserID) HangoutCreated {
	ids := make([]string, len(groupIDs))
	for i, g := range groupIDs {
		ids[i] = g.String()
	}
	return HangoutCreated{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID.String(),
			EventType:   "hangout.created",
			Timestamp:   time.Now().UTC(),
		},
		HangoutID: hangoutID.String(),
		GroupIDs:  ids,
		Title:     title,
		CreatedBy: createdBy.String(),
	}
}

// HangoutUpdated is raised after a canonical hangout update has been
// propagated to its pointers
type HangoutUpdated struct {
	BaseEvent
	HangoutID string `json:"hangout_id"`
	Title     string `json:"title"`
}

// NewHangoutUpdated creates a HangoutUpdated event
func NewHangoutUpdated(hangoutID valueobjects.HangoutID, title string) HangoutUpdated {
	return HangoutUpdated{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID.String(),
			EventType:   "hangout.updated",
			Timestamp:   time.Now().UTC(),
		},
		HangoutID: hangoutID.String(),
		Title:     title,
	}
}

// HangoutDeleted is raised when a hangout is deleted
type HangoutDeleted struct {
	BaseEvent
	HangoutID string `json:"hangout_id"`
}

// NewHangoutDeleted creates a HangoutDeleted event
func NewHangoutDeleted(hangoutID valueobjects.HangoutID) HangoutDeleted {
	return HangoutDeleted{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID.String(),
			EventType:   "hangout.deleted",
			Timestamp:   time.Now().UTC(),
		},
		HangoutID: hangoutID.String(),
	}
}

// Group events

// GroupMemberAdded is raised when a user joins a group
type GroupMemberAdded struct {
	BaseEvent
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

// NewGroupMemberAdded creates a GroupMemberAdded event
func NewGroupMemberAdded(groupID valueobjects.GroupID, userID valueobjects.UserID) GroupMemberAdded {
	return GroupMemberAdded{
		BaseEvent: BaseEvent{
			AggregateID: groupID.String(),
			EventType:   "group.member_added",
			Timestamp:   time.Now().UTC(),
		},
		GroupID: groupID.String(),
		UserID:  userID.String(),
	}
}

// GroupMemberRemoved is raised when a user leaves or is removed from a group
type GroupMemberRemoved struct {
	BaseEvent
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

// NewGroupMemberRemoved creates a GroupMemberRemoved event
func NewGroupMemberRemoved(groupID valueobjects.GroupID, userID valueobjects.UserID) GroupMemberRemoved {
	return GroupMemberRemoved{
		BaseEvent: BaseEvent{
			AggregateID: groupID.String(),
			EventType:   "group.member_removed",
			Timestamp:   time.Now().UTC(),
		},
		GroupID: groupID.String(),
		UserID:  userID.String(),
	}
}

// Series events

// SeriesCreated is raised when a hangout is converted into a series
type SeriesCreated struct {
	BaseEvent
	SeriesID   string   `json:"series_id"`
	HangoutIDs []string `json:"hangout_ids"`
}

// NewSeriesCreated creates a SeriesCreated event
func NewSeriesCreated(seriesID valueobjects.SeriesID, hangoutIDs []valueobjects.HangoutID) SeriesCreated {
	ids := make([]string, len(hangoutIDs))
	for i, h := range hangoutIDs {
		ids[i] = h.String()
	}
	return SeriesCreated{
		BaseEvent: BaseEvent{
			AggregateID: seriesID.String(),
			EventType:   "series.created",
			Timestamp:   time.Now().UTC(),
		},
		SeriesID:   seriesID.String(),
		HangoutIDs: ids,
	}
}

// Poll events

// VoteCast is raised when a user votes on a poll option
type VoteCast struct {
	BaseEvent
	HangoutID string `json:"hangout_id"`
	PollID    string `json:"poll_id"`
	OptionID  string `json:"option_id"`
	UserID    string `json:"user_id"`
}

// NewVoteCast creates a VoteCast event
func NewVoteCast(hangoutID valueobjects.HangoutID, pollID valueobjects.PollID, optionID valueobjects.OptionID, userID valueobjects.UserID) VoteCast {
	return VoteCast{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID.String(),
			EventType:   "poll.vote_cast",
			Timestamp:   time.Now().UTC(),
		},
		HangoutID: hangoutID.String(),
		PollID:    pollID.String(),
		OptionID:  optionID.String(),
		UserID:    userID.String(),
	}
}
