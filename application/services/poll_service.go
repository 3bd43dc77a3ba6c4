package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/domain/events"
	"inviter-backend/pkg/errors"
)

// PollService manages polls and voting under a hangout
type PollService struct {
	polls     ports.PollRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewPollService creates a PollService
func NewPollService(polls ports.PollRepository, publisher ports.EventPublisher, logger *zap.Logger) *PollService {
	return &PollService{polls: polls, publisher: publisher, logger: logger}
}

// CreatePoll creates a poll with its options in one transaction
func (s *PollService) CreatePoll(ctx context.Context, hangoutID valueobjects.HangoutID, title string, multiSelect bool, optionTexts []string, createdBy valueobjects.UserID) (entities.PollDetail, error) {
	if title == "" {
		return entities.PollDetail{}, errors.NewValidationError("poll title is required")
	}
	if len(optionTexts) < 2 {
		return entities.PollDetail{}, errors.NewValidationError("a poll needs at least two options")
	}

	poll := entities.Poll{
		HangoutID:   hangoutID,
		PollID:      valueobjects.NewPollID(),
		Title:       title,
		MultiSelect: multiSelect,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	options := make([]entities.PollOption, 0, len(optionTexts))
	for _, text := range optionTexts {
		if text == "" {
			return entities.PollDetail{}, errors.NewValidationError("poll option text cannot be empty")
		}
		options = append(options, entities.PollOption{
			HangoutID: hangoutID,
			PollID:    poll.PollID,
			OptionID:  valueobjects.NewOptionID(),
			Text:      text,
		})
	}

	if err := s.polls.CreatePoll(ctx, poll, options); err != nil {
		return entities.PollDetail{}, fmt.Errorf("failed to create poll: %w", err)
	}
	return entities.PollDetail{Poll: poll, Options: options}, nil
}

// GetPoll returns a poll with options and votes
func (s *PollService) GetPoll(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) (entities.PollDetail, error) {
	return s.polls.GetPollDetail(ctx, hangoutID, pollID)
}

// ListPolls returns every poll of a hangout
func (s *PollService) ListPolls(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.PollDetail, error) {
	return s.polls.ListPolls(ctx, hangoutID)
}

// CastVote records a vote; single-select polls replace the user's previous
// vote, multi-select polls accumulate one vote per option.
func (s *PollService) CastVote(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID, optionID valueobjects.OptionID, userID valueobjects.UserID) error {
	detail, err := s.polls.GetPollDetail(ctx, hangoutID, pollID)
	if err != nil {
		return err
	}
	if !validOption(detail, optionID) {
		return errors.NewValidationError("option does not belong to this poll")
	}

	vote := entities.Vote{
		HangoutID: hangoutID,
		PollID:    pollID,
		UserID:    userID,
		OptionID:  optionID,
		VotedAt:   time.Now().UTC(),
	}
	if err := s.polls.CastVote(ctx, vote, detail.Poll.MultiSelect); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	if err := s.publisher.Publish(ctx, events.NewVoteCast(hangoutID, pollID, optionID, userID)); err != nil {
		s.logger.Warn("failed to publish event", zap.Error(err))
	}
	return nil
}

// RemoveVote withdraws one of the user's votes
func (s *PollService) RemoveVote(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID, optionID valueobjects.OptionID, userID valueobjects.UserID) error {
	return s.polls.RemoveVote(ctx, entities.Vote{
		HangoutID: hangoutID,
		PollID:    pollID,
		UserID:    userID,
		OptionID:  optionID,
	})
}

// DeletePoll removes the poll, its options and all votes
func (s *PollService) DeletePoll(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) error {
	return s.polls.DeletePoll(ctx, hangoutID, pollID)
}

func validOption(detail entities.PollDetail, optionID valueobjects.OptionID) bool {
	for _, opt := range detail.Options {
		if opt.OptionID.Equals(optionID) {
			return true
		}
	}
	return false
}
