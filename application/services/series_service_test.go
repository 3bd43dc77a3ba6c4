package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
)

func TestCreateFromHangoutClonesSeedOntoNewPart(t *testing.T) {
	hangouts := newStubHangoutRepo()
	series := newStubSeriesRepo()
	publisher := &capturingPublisher{}
	svc := NewSeriesService(series, hangouts, publisher, zap.NewNop())

	groupID := valueobjects.NewGroupID()
	seed, err := entities.NewHangout("trivia night", testServiceWindow(t, time.Now().Add(24*time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{groupID}, valueobjects.NewUserID())
	require.NoError(t, err)
	seed.SetLocation("the usual pub")
	hangouts.add(seed)

	created, err := svc.CreateFromHangout(context.Background(), seed.ID(), "weekly trivia",
		testServiceWindow(t, time.Now().Add(8*24*time.Hour)))
	require.NoError(t, err)

	require.Len(t, series.created, 1)
	members := series.members[created.ID().String()]
	require.Len(t, members, 2)
	assert.Equal(t, seed.ID(), members[0].ID())

	next := members[1]
	assert.Equal(t, "trivia night", next.Title())
	assert.Equal(t, "the usual pub", next.Location())
	assert.Equal(t, created.ID(), next.SeriesID())
	assert.Equal(t, created.ID(), seed.SeriesID())

	assert.Equal(t, []string{"series.created"}, publisher.eventTypes())
}

func TestAddPartIsIdempotent(t *testing.T) {
	hangouts := newStubHangoutRepo()
	seriesRepo := newStubSeriesRepo()
	svc := NewSeriesService(seriesRepo, hangouts, &capturingPublisher{}, zap.NewNop())

	groupID := valueobjects.NewGroupID()
	member, err := entities.NewHangout("trivia", testServiceWindow(t, time.Now().Add(24*time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{groupID}, valueobjects.NewUserID())
	require.NoError(t, err)
	hangouts.add(member)

	series, err := entities.NewEventSeries("weekly trivia", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{member.ID()})
	require.NoError(t, err)
	seriesRepo.series[series.ID().String()] = series

	// already a part; SetSeriesLink must not be called (the stub would panic)
	require.NoError(t, svc.AddPart(context.Background(), series.ID(), member.ID()))
	assert.Len(t, series.HangoutIDs(), 1)
}
