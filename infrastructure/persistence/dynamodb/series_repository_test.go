package dynamodb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func newTestSeriesRepo() (*SeriesRepository, *HangoutRepository, *fakeStore) {
	store := newFakeStore()
	sync := NewPointerSync(store, zap.NewNop())
	return NewSeriesRepository(store, sync, zap.NewNop()),
		NewHangoutRepository(store, sync, zap.NewNop()),
		store
}

func TestCreateSeriesLinksBothSidesAtomically(t *testing.T) {
	seriesRepo, hangoutRepo, _ := newTestSeriesRepo()
	groupID := valueobjects.NewGroupID()
	now := time.Now()

	first := testHangout(t, "league night 1", now.Add(24*time.Hour), groupID)
	second := testHangout(t, "league night 2", now.Add(7*24*time.Hour), groupID)
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), first))
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), second))

	series, err := entities.NewEventSeries("bowling league", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{first.ID(), second.ID()})
	require.NoError(t, err)
	require.NoError(t, first.LinkSeries(series.ID()))
	require.NoError(t, second.LinkSeries(series.ID()))

	err = seriesRepo.CreateSeries(context.Background(), series,
		[]*entities.Hangout{first, second}, first.Window().Start())
	require.NoError(t, err)

	// series side
	got, err := seriesRepo.GetSeries(context.Background(), series.ID())
	require.NoError(t, err)
	assert.Len(t, got.HangoutIDs(), 2)

	// hangout side
	reloaded, err := hangoutRepo.GetHangout(context.Background(), first.ID())
	require.NoError(t, err)
	assert.Equal(t, series.ID(), reloaded.SeriesID())
	assert.True(t, reloaded.InSeries())

	// group feed carries the series pointer alongside the hangouts
	page, err := hangoutRepo.ListUpcoming(context.Background(), groupID, now, 10, "")
	require.NoError(t, err)
	var sawSeries bool
	for _, item := range page.Items {
		if item.Series != nil {
			sawSeries = true
			assert.Equal(t, "bowling league", item.Series.Title)
		}
	}
	assert.True(t, sawSeries)
}

func TestSeriesBadgeReachesHangoutPointers(t *testing.T) {
	seriesRepo, hangoutRepo, store := newTestSeriesRepo()
	groupID := valueobjects.NewGroupID()
	h := testHangout(t, "league night", time.Now().Add(24*time.Hour), groupID)
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), h))

	series, err := entities.NewEventSeries("league", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{h.ID()})
	require.NoError(t, err)
	require.NoError(t, h.LinkSeries(series.ID()))
	require.NoError(t, seriesRepo.CreateSeries(context.Background(), series,
		[]*entities.Hangout{h}, h.Window().Start()))

	pointer := readPointer(t, store, h)
	assert.Equal(t, series.ID(), pointer.SeriesID)
}

func TestCreateSeriesMintsUnpersistedMembers(t *testing.T) {
	seriesRepo, hangoutRepo, store := newTestSeriesRepo()
	groupID := valueobjects.NewGroupID()
	seed := testHangout(t, "league night", time.Now().Add(24*time.Hour), groupID)
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), seed))

	// the second part is minted together with the series, never written on
	// its own
	next := testHangout(t, "league night", time.Now().Add(8*24*time.Hour), groupID)

	series, err := entities.NewEventSeries("league", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{seed.ID(), next.ID()})
	require.NoError(t, err)
	require.NoError(t, seed.LinkSeries(series.ID()))
	require.NoError(t, next.LinkSeries(series.ID()))

	require.NoError(t, seriesRepo.CreateSeries(context.Background(), series,
		[]*entities.Hangout{seed, next}, seed.Window().Start()))

	created, err := hangoutRepo.GetHangout(context.Background(), next.ID())
	require.NoError(t, err)
	assert.Equal(t, series.ID(), created.SeriesID())

	pointer := readPointer(t, store, next)
	assert.Equal(t, series.ID(), pointer.SeriesID)
}

func TestCreateSeriesLeavesNoTraceWhenAWriteFails(t *testing.T) {
	seriesRepo, hangoutRepo, store := newTestSeriesRepo()
	groupID := valueobjects.NewGroupID()
	h := testHangout(t, "league night", time.Now().Add(24*time.Hour), groupID)
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), h))

	series, err := entities.NewEventSeries("league", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{h.ID()})
	require.NoError(t, err)
	require.NoError(t, h.LinkSeries(series.ID()))

	// the group's series pointer write fails; nothing else may stick
	store.failPut = func(item map[string]types.AttributeValue) error {
		if stringAttr(item, attrItemType) == itemTypeSeriesPointer {
			return stderrors.New("write rejected")
		}
		return nil
	}
	err = seriesRepo.CreateSeries(context.Background(), series, []*entities.Hangout{h}, h.Window().Start())
	require.Error(t, err)
	store.failPut = nil

	_, err = seriesRepo.GetSeries(context.Background(), series.ID())
	assert.True(t, errors.IsNotFound(err))

	reloaded, err := hangoutRepo.GetHangout(context.Background(), h.ID())
	require.NoError(t, err)
	assert.False(t, reloaded.InSeries())

	pointer := readPointer(t, store, h)
	assert.True(t, pointer.SeriesID.IsZero())
}

func TestDeleteSeriesUnlinksMembers(t *testing.T) {
	seriesRepo, hangoutRepo, _ := newTestSeriesRepo()
	groupID := valueobjects.NewGroupID()
	h := testHangout(t, "league night", time.Now().Add(24*time.Hour), groupID)
	require.NoError(t, hangoutRepo.CreateHangout(context.Background(), h))

	series, err := entities.NewEventSeries("league", []valueobjects.GroupID{groupID},
		[]valueobjects.HangoutID{h.ID()})
	require.NoError(t, err)
	require.NoError(t, h.LinkSeries(series.ID()))
	require.NoError(t, seriesRepo.CreateSeries(context.Background(), series,
		[]*entities.Hangout{h}, h.Window().Start()))

	require.NoError(t, seriesRepo.DeleteSeries(context.Background(), series, []*entities.Hangout{h}))

	reloaded, err := hangoutRepo.GetHangout(context.Background(), h.ID())
	require.NoError(t, err)
	assert.False(t, reloaded.InSeries())

	_, err = seriesRepo.GetSeries(context.Background(), series.ID())
	require.Error(t, err)
}
