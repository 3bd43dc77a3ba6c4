package entities

import (
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// Poll lives under its hangout's partition. Vote counts are never stored;
// they are computed at read time from the vote items so there is no second
// class of counters to keep consistent.
type Poll struct {
	HangoutID   valueobjects.HangoutID
	PollID      valueobjects.PollID
	Title       string
	MultiSelect bool
	CreatedBy   valueobjects.UserID
	CreatedAt   time.Time
}

// PollOption is one votable option of a poll
type PollOption struct {
	HangoutID valueobjects.HangoutID
	PollID    valueobjects.PollID
	OptionID  valueobjects.OptionID
	Text      string
}

// Vote is one user's vote for one option. The sort key encodes poll, user
// and option, so a single-select poll replaces a user's vote by deleting
// the old item and a multi-select poll accumulates one item per option.
type Vote struct {
	HangoutID valueobjects.HangoutID
	PollID    valueobjects.PollID
	UserID    valueobjects.UserID
	OptionID  valueobjects.OptionID
	VotedAt   time.Time
}

// PollDetail is the read-side aggregate of a poll, its options and votes
type PollDetail struct {
	Poll    Poll
	Options []PollOption
	Votes   []Vote
}

// VoteCounts tallies votes per option at read time
func (d PollDetail) VoteCounts() map[valueobjects.OptionID]int {
	counts := make(map[valueobjects.OptionID]int, len(d.Options))
	for _, opt := range d.Options {
		counts[opt.OptionID] = 0
	}
	for _, v := range d.Votes {
		counts[v.OptionID]++
	}
	return counts
}

// VotesByUser returns the options a user has voted for
func (d PollDetail) VotesByUser(userID valueobjects.UserID) []valueobjects.OptionID {
	var options []valueobjects.OptionID
	for _, v := range d.Votes {
		if v.UserID.Equals(userID) {
			options = append(options, v.OptionID)
		}
	}
	return options
}
