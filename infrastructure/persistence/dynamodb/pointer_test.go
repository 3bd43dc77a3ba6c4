package dynamodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
)

func TestSyncHangoutPointersCreatesMissingPointers(t *testing.T) {
	store := newFakeStore()
	ps := NewPointerSync(store, zap.NewNop())
	h := testHangout(t, "game night", time.Now().Add(3*time.Hour))

	require.NoError(t, ps.SyncHangoutPointers(context.Background(), h))

	repo := NewHangoutRepository(store, ps, zap.NewNop())
	page, err := repo.ListUpcoming(context.Background(), h.GroupIDs()[0], time.Now(), 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Hangout)
	assert.Equal(t, "game night", page.Items[0].Hangout.Title)
	assert.Equal(t, int64(1), page.Items[0].Hangout.Version)
}

func TestSyncHangoutPointersPropagatesFieldsAndKeepsCount(t *testing.T) {
	store := newFakeStore()
	ps := NewPointerSync(store, zap.NewNop())
	h := testHangout(t, "game night", time.Now().Add(3*time.Hour))
	require.NoError(t, ps.SyncHangoutPointers(context.Background(), h))

	// a join bumped the pointer count since the last sync
	seedPointerCount(t, store, h, 5)

	require.NoError(t, h.SetTitle("trivia night"))
	h.SetLocation("the usual pub")
	require.NoError(t, ps.SyncHangoutPointers(context.Background(), h))

	pointer := readPointer(t, store, h)
	assert.Equal(t, "trivia night", pointer.Title)
	assert.Equal(t, "the usual pub", pointer.Location)
	assert.Equal(t, 5, pointer.ParticipantCount, "sync must not clobber the pointer-owned count")
	assert.Equal(t, int64(2), pointer.Version)
}

func TestAddParticipantDeltaMovesCanonicalAndPointers(t *testing.T) {
	repo, store := newTestHangoutRepo()
	ps := NewPointerSync(store, zap.NewNop())
	h := testHangout(t, "picnic", time.Now().Add(time.Hour))
	require.NoError(t, repo.CreateHangout(context.Background(), h))

	require.NoError(t, ps.AddParticipantDelta(context.Background(), h, 3))
	require.NoError(t, ps.AddParticipantDelta(context.Background(), h, -1))

	got, err := repo.GetHangout(context.Background(), h.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.ParticipantCount())

	pointer := readPointer(t, store, h)
	assert.Equal(t, 2, pointer.ParticipantCount)
}

func TestAddParticipantDeltaSurvivesConcurrentJoins(t *testing.T) {
	repo, store := newTestHangoutRepo()
	ps := NewPointerSync(store, zap.NewNop())
	h := testHangout(t, "street party", time.Now().Add(time.Hour))
	require.NoError(t, repo.CreateHangout(context.Background(), h))

	// 20 joins and 5 leaves racing; the final count must be the delta sum
	const joins, leaves = 20, 5
	var wg sync.WaitGroup
	for i := 0; i < joins+leaves; i++ {
		delta := 1
		if i < leaves {
			delta = -1
		}
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			assert.NoError(t, ps.AddParticipantDelta(context.Background(), h, d))
		}(delta)
	}
	wg.Wait()

	got, err := repo.GetHangout(context.Background(), h.ID())
	require.NoError(t, err)
	assert.Equal(t, joins-leaves, got.ParticipantCount())

	pointer := readPointer(t, store, h)
	assert.Equal(t, joins-leaves, pointer.ParticipantCount)
}

func TestDeleteHangoutPointersRemovesRows(t *testing.T) {
	store := newFakeStore()
	ps := NewPointerSync(store, zap.NewNop())
	h := testHangout(t, "hike", time.Now().Add(time.Hour))
	require.NoError(t, ps.SyncHangoutPointers(context.Background(), h))
	require.Equal(t, 1, store.len())

	require.NoError(t, ps.DeleteHangoutPointers(context.Background(), h.ID(), h.GroupIDs()))
	assert.Equal(t, 0, store.len())
}

func readPointer(t *testing.T, store *fakeStore, h *entities.Hangout) entities.HangoutPointer {
	t.Helper()
	pk := mustGroupPK(t, h.GroupIDs()[0])
	sk := mustPointerSK(t, h.ID())
	raw, err := store.GetItem(context.Background(), Key{PK: pk, SK: sk})
	require.NoError(t, err)
	require.NotNil(t, raw)
	var item hangoutPointerItem
	require.NoError(t, unmarshalItem(raw, &item))
	pointer, err := item.toDomain()
	require.NoError(t, err)
	return pointer
}

func seedPointerCount(t *testing.T, store *fakeStore, h *entities.Hangout, count int) {
	t.Helper()
	pointer := readPointer(t, store, h)
	pointer.ParticipantCount = count
	item, err := newHangoutPointerItem(pointer)
	require.NoError(t, err)
	raw, err := marshalItem(item)
	require.NoError(t, err)
	store.seed(raw)
}
