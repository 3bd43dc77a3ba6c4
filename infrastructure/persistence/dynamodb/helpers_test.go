package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
)

func testWindow(t *testing.T, start time.Time, d time.Duration) valueobjects.TimeWindow {
	t.Helper()
	w, err := valueobjects.NewExactTimeWindow(start, start.Add(d))
	require.NoError(t, err)
	return w
}

func testGroup(t *testing.T, name string) *entities.Group {
	t.Helper()
	g, err := entities.NewGroup(name, entities.GroupVisibilityInviteOnly)
	require.NoError(t, err)
	return g
}

func testHangout(t *testing.T, title string, start time.Time, groupIDs ...valueobjects.GroupID) *entities.Hangout {
	t.Helper()
	if len(groupIDs) == 0 {
		groupIDs = []valueobjects.GroupID{valueobjects.NewGroupID()}
	}
	h, err := entities.NewHangout(
		title,
		testWindow(t, start, 2*time.Hour),
		entities.HangoutVisibilityPrivate,
		groupIDs,
		valueobjects.NewUserID(),
	)
	require.NoError(t, err)
	return h
}

func mustGroupPK(t *testing.T, id valueobjects.GroupID) string {
	t.Helper()
	pk, err := keys.GroupPK(id)
	require.NoError(t, err)
	return pk
}

func mustPointerSK(t *testing.T, id valueobjects.HangoutID) string {
	t.Helper()
	sk, err := keys.HangoutPointerSK(id)
	require.NoError(t, err)
	return sk
}

func newTestHangoutRepo() (*HangoutRepository, *fakeStore) {
	store := newFakeStore()
	sync := NewPointerSync(store, zap.NewNop())
	return NewHangoutRepository(store, sync, zap.NewNop()), store
}
