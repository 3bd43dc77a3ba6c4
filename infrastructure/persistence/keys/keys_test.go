package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestPartitionKeys(t *testing.T) {
	groupID, err := valueobjects.NewGroupIDFromString("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)

	pk, err := GroupPK(groupID)
	require.NoError(t, err)
	assert.Equal(t, "GROUP#11111111-1111-1111-1111-111111111111", pk)

	hangoutID, err := valueobjects.NewHangoutIDFromString("22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)

	pk, err = EventPK(hangoutID)
	require.NoError(t, err)
	assert.Equal(t, "EVENT#22222222-2222-2222-2222-222222222222", pk)

	pk, err = HangoutPK(hangoutID)
	require.NoError(t, err)
	assert.Equal(t, "HANGOUT#22222222-2222-2222-2222-222222222222", pk)
}

func TestSortKeyClassificationRoundTrip(t *testing.T) {
	hangoutID := valueobjects.NewHangoutID()
	seriesID := valueobjects.NewSeriesID()
	userID := valueobjects.NewUserID()
	pollID := valueobjects.NewPollID()
	optionID := valueobjects.NewOptionID()
	carID := valueobjects.NewCarID()

	tests := []struct {
		name  string
		build func() (string, error)
		want  ItemKind
	}{
		{"metadata", func() (string, error) { return MetadataSK(), nil }, KindMetadata},
		{"membership", func() (string, error) { return MembershipSK(userID) }, KindMembership},
		{"hangout pointer", func() (string, error) { return HangoutPointerSK(hangoutID) }, KindHangoutPointer},
		{"series pointer", func() (string, error) { return SeriesPointerSK(seriesID) }, KindSeriesPointer},
		{"poll", func() (string, error) { return PollSK(pollID) }, KindPoll},
		{"poll option", func() (string, error) { return PollOptionSK(pollID, optionID) }, KindPollOption},
		{"vote", func() (string, error) { return VoteSK(pollID, userID, optionID) }, KindVote},
		{"car", func() (string, error) { return CarSK(carID) }, KindCar},
		{"car rider", func() (string, error) { return CarRiderSK(carID, userID) }, KindCarRider},
		{"interest level", func() (string, error) { return InterestLevelSK(userID) }, KindInterestLevel},
		{"attribute", func() (string, error) { return AttributeSK("33333333-3333-3333-3333-333333333333") }, KindAttribute},
		{"needs ride", func() (string, error) { return NeedsRideSK(userID) }, KindNeedsRide},
		{"participation", func() (string, error) { return ParticipationSK("44444444-4444-4444-4444-444444444444") }, KindParticipation},
		{"offer", func() (string, error) { return OfferSK("55555555-5555-5555-5555-555555555555") }, KindOffer},
		{"invite", func() (string, error) { return InviteSK("AB3X9K") }, KindInvite},
		{"refresh token", func() (string, error) { return RefreshTokenSK("deadbeefcafe") }, KindRefreshToken},
		{"verification", func() (string, error) { return VerificationSK("+15555550123") }, KindVerification},
		{"password reset", func() (string, error) { return PasswordResetSK("user@example.com") }, KindPasswordReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, Classify(sk))
		})
	}
}

func TestClassifyDisambiguatesPollShapes(t *testing.T) {
	pollID := valueobjects.NewPollID()
	userID := valueobjects.NewUserID()
	optionID := valueobjects.NewOptionID()

	// A vote's sort key contains both the VOTE and OPTION segments; it must
	// classify as a vote, not an option.
	voteSK, err := VoteSK(pollID, userID, optionID)
	require.NoError(t, err)
	assert.Equal(t, KindVote, Classify(voteSK))

	optionSK, err := PollOptionSK(pollID, optionID)
	require.NoError(t, err)
	assert.Equal(t, KindPollOption, Classify(optionSK))

	pollSK, err := PollSK(pollID)
	require.NoError(t, err)
	assert.Equal(t, KindPoll, Classify(pollSK))
}

func TestClassifyDisambiguatesCarShapes(t *testing.T) {
	carID := valueobjects.NewCarID()
	userID := valueobjects.NewUserID()

	riderSK, err := CarRiderSK(carID, userID)
	require.NoError(t, err)
	assert.Equal(t, KindCarRider, Classify(riderSK))

	carSK, err := CarSK(carID)
	require.NoError(t, err)
	assert.Equal(t, KindCar, Classify(carSK))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, KindUnknown, Classify("SOMETHING#unexpected"))
	assert.Equal(t, KindUnknown, Classify(""))
}

func TestBuildRejectsInvalidIdentifiers(t *testing.T) {
	_, err := AttributeSK("")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))

	_, err = AttributeSK("not-a-uuid")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))

	_, err = ParticipationSK("12345")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))
}

func TestRawRejectsDelimiter(t *testing.T) {
	_, err := InviteSK("AB#CD")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))

	_, err = InviteSK("")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))
}
