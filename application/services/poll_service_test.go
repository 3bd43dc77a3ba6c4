package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestCreatePollValidatesShape(t *testing.T) {
	svc := NewPollService(newStubPollRepo(), &capturingPublisher{}, zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()
	creator := valueobjects.NewUserID()

	_, err := svc.CreatePoll(context.Background(), hangoutID, "", false, []string{"a", "b"}, creator)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.CreatePoll(context.Background(), hangoutID, "where?", false, []string{"only one"}, creator)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	detail, err := svc.CreatePoll(context.Background(), hangoutID, "where?", false, []string{"park", "beach"}, creator)
	require.NoError(t, err)
	assert.Len(t, detail.Options, 2)
	assert.False(t, detail.Poll.MultiSelect)
}

func TestCastVoteChecksOptionAndPublishes(t *testing.T) {
	polls := newStubPollRepo()
	publisher := &capturingPublisher{}
	svc := NewPollService(polls, publisher, zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()
	voter := valueobjects.NewUserID()

	detail, err := svc.CreatePoll(context.Background(), hangoutID, "when?", true, []string{"fri", "sat"}, valueobjects.NewUserID())
	require.NoError(t, err)

	// option from some other poll
	err = svc.CastVote(context.Background(), hangoutID, detail.Poll.PollID, valueobjects.NewOptionID(), voter)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Empty(t, polls.votes)

	err = svc.CastVote(context.Background(), hangoutID, detail.Poll.PollID, detail.Options[0].OptionID, voter)
	require.NoError(t, err)
	require.Len(t, polls.votes, 1)
	assert.True(t, polls.multi[0])
	assert.Equal(t, []string{"poll.vote_cast"}, publisher.eventTypes())
}
