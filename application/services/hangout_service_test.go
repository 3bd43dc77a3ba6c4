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

func testServiceWindow(t *testing.T, start time.Time) valueobjects.TimeWindow {
	t.Helper()
	window, err := valueobjects.NewExactTimeWindow(start, start.Add(2*time.Hour))
	require.NoError(t, err)
	return window
}

func TestCreateHangoutPublishesEvent(t *testing.T) {
	hangouts := newStubHangoutRepo()
	publisher := &capturingPublisher{}
	svc := NewHangoutService(hangouts, newStubCarpoolRepo(), nil, publisher, zap.NewNop())

	h, err := svc.CreateHangout(context.Background(), CreateHangoutInput{
		Title:      "board games",
		Window:     testServiceWindow(t, time.Now().Add(24*time.Hour)),
		Visibility: entities.HangoutVisibilityPublic,
		GroupIDs:   []valueobjects.GroupID{valueobjects.NewGroupID()},
		CreatedBy:  valueobjects.NewUserID(),
	})
	require.NoError(t, err)

	require.Len(t, hangouts.created, 1)
	assert.Equal(t, h.ID(), hangouts.created[0].ID())
	assert.Equal(t, []string{"hangout.created"}, publisher.eventTypes())
}

func TestCreateHangoutDedupesByExternalSource(t *testing.T) {
	hangouts := newStubHangoutRepo()
	publisher := &capturingPublisher{}
	svc := NewHangoutService(hangouts, newStubCarpoolRepo(), nil, publisher, zap.NewNop())

	groupID := valueobjects.NewGroupID()
	existing, err := entities.NewHangout("concert", testServiceWindow(t, time.Now().Add(48*time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{groupID}, valueobjects.NewUserID())
	require.NoError(t, err)
	existing.SetExternalSource("ticketmaster:xyz")
	hangouts.add(existing)

	h, err := svc.CreateHangout(context.Background(), CreateHangoutInput{
		Title:          "concert (import)",
		Window:         testServiceWindow(t, time.Now().Add(48*time.Hour)),
		Visibility:     entities.HangoutVisibilityPublic,
		GroupIDs:       []valueobjects.GroupID{groupID},
		ExternalSource: "ticketmaster:xyz",
		CreatedBy:      valueobjects.NewUserID(),
	})
	require.NoError(t, err)

	assert.Equal(t, existing.ID(), h.ID())
	assert.Empty(t, hangouts.created)
	assert.Empty(t, publisher.published)
}

func TestSetInterestMovesParticipantCountOnce(t *testing.T) {
	hangouts := newStubHangoutRepo()
	carpool := newStubCarpoolRepo()
	svc := NewHangoutService(hangouts, carpool, nil, &capturingPublisher{}, zap.NewNop())

	h, err := entities.NewHangout("picnic", testServiceWindow(t, time.Now().Add(time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{valueobjects.NewGroupID()}, valueobjects.NewUserID())
	require.NoError(t, err)
	hangouts.add(h)
	userID := valueobjects.NewUserID()

	// interested → no count change
	require.NoError(t, svc.SetInterest(context.Background(), h.ID(), userID, entities.InterestInterested))
	assert.Empty(t, hangouts.deltas)

	// going → +1
	require.NoError(t, svc.SetInterest(context.Background(), h.ID(), userID, entities.InterestGoing))
	assert.Equal(t, []int{1}, hangouts.deltas)

	// going again → still +1 in total
	require.NoError(t, svc.SetInterest(context.Background(), h.ID(), userID, entities.InterestGoing))
	assert.Equal(t, []int{1}, hangouts.deltas)

	// backing out → -1
	require.NoError(t, svc.SetInterest(context.Background(), h.ID(), userID, entities.InterestNotGoing))
	assert.Equal(t, []int{1, -1}, hangouts.deltas)
}

func TestUpdateHangoutAppliesOnlyGivenFields(t *testing.T) {
	hangouts := newStubHangoutRepo()
	publisher := &capturingPublisher{}
	svc := NewHangoutService(hangouts, newStubCarpoolRepo(), nil, publisher, zap.NewNop())

	h, err := entities.NewHangout("hike", testServiceWindow(t, time.Now().Add(time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{valueobjects.NewGroupID()}, valueobjects.NewUserID())
	require.NoError(t, err)
	h.SetLocation("trailhead")
	hangouts.add(h)

	title := "sunrise hike"
	updated, err := svc.UpdateHangout(context.Background(), h.ID(), UpdateHangoutInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "sunrise hike", updated.Title())
	assert.Equal(t, "trailhead", updated.Location())
	require.Len(t, hangouts.updated, 1)
	assert.Equal(t, []string{"hangout.updated"}, publisher.eventTypes())
}

func TestDeleteHangoutPublishesEvent(t *testing.T) {
	hangouts := newStubHangoutRepo()
	publisher := &capturingPublisher{}
	svc := NewHangoutService(hangouts, newStubCarpoolRepo(), nil, publisher, zap.NewNop())

	h, err := entities.NewHangout("hike", testServiceWindow(t, time.Now().Add(time.Hour)),
		entities.HangoutVisibilityPublic, []valueobjects.GroupID{valueobjects.NewGroupID()}, valueobjects.NewUserID())
	require.NoError(t, err)
	hangouts.add(h)

	require.NoError(t, svc.DeleteHangout(context.Background(), h.ID()))
	assert.Equal(t, []string{"hangout.deleted"}, publisher.eventTypes())
	assert.Empty(t, hangouts.hangouts)
}
