package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func testParticipation(hangoutID valueobjects.HangoutID, tickets int) entities.Participation {
	return entities.Participation{
		HangoutID:   hangoutID,
		ID:          uuid.NewString(),
		UserID:      valueobjects.NewUserID(),
		Status:      entities.ParticipationConfirmed,
		TicketCount: tickets,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestParticipationRoundTrip(t *testing.T) {
	repo := NewParticipationRepository(newFakeStore(), zap.NewNop())
	p := testParticipation(valueobjects.NewHangoutID(), 2)

	require.NoError(t, repo.SaveParticipation(context.Background(), p))

	got, err := repo.GetParticipation(context.Background(), p.HangoutID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, got.UserID)
	assert.Equal(t, entities.ParticipationConfirmed, got.Status)
	assert.Equal(t, 2, got.TicketCount)

	require.NoError(t, repo.DeleteParticipation(context.Background(), p.HangoutID, p.ID))
	_, err = repo.GetParticipation(context.Background(), p.HangoutID, p.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestListParticipationsScopedToHangout(t *testing.T) {
	repo := NewParticipationRepository(newFakeStore(), zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()

	require.NoError(t, repo.SaveParticipation(context.Background(), testParticipation(hangoutID, 1)))
	require.NoError(t, repo.SaveParticipation(context.Background(), testParticipation(hangoutID, 4)))
	require.NoError(t, repo.SaveParticipation(context.Background(), testParticipation(valueobjects.NewHangoutID(), 1)))

	participations, err := repo.ListParticipations(context.Background(), hangoutID)
	require.NoError(t, err)
	assert.Len(t, participations, 2)
}

func TestOffersLiveBesideParticipations(t *testing.T) {
	repo := NewParticipationRepository(newFakeStore(), zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()

	require.NoError(t, repo.SaveParticipation(context.Background(), testParticipation(hangoutID, 1)))

	offer := entities.ReservationOffer{
		HangoutID:    hangoutID,
		ID:           uuid.NewString(),
		UserID:       valueobjects.NewUserID(),
		SeatsOffered: 3,
		Note:         "two spare tickets plus a plus-one",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.SaveOffer(context.Background(), offer))

	// the participation listing must not pick up offer rows and vice versa
	participations, err := repo.ListParticipations(context.Background(), hangoutID)
	require.NoError(t, err)
	assert.Len(t, participations, 1)

	offers, err := repo.ListOffers(context.Background(), hangoutID)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 3, offers[0].SeatsOffered)
	assert.Equal(t, "two spare tickets plus a plus-one", offers[0].Note)

	require.NoError(t, repo.DeleteOffer(context.Background(), hangoutID, offer.ID))
	offers, err = repo.ListOffers(context.Background(), hangoutID)
	require.NoError(t, err)
	assert.Empty(t, offers)
}
