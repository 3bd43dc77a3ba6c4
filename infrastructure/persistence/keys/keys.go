// Package keys is the single sanctioned builder of the composite partition
// and sort keys used in the planner table. No caller concatenates prefix
// strings by hand; writers and readers both go through this package so the
// persisted key format cannot drift.
//
// Persisted format (fixed, for compatibility with existing data):
// `{PREFIX}#{identifier}` segments joined by `#`, uppercase prefix tokens,
// `METADATA` reserved for a partition's canonical item.
package keys

import (
	"strings"

	"github.com/google/uuid"

	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

// Delimiter separates prefix tokens and identifiers within a key
const Delimiter = "#"

// Prefix tokens. These are persisted; never change them.
const (
	PrefixGroup         = "GROUP"
	PrefixUser          = "USER"
	PrefixEvent         = "EVENT"
	PrefixSeries        = "SERIES"
	PrefixPoll          = "POLL"
	PrefixOption        = "OPTION"
	PrefixVote          = "VOTE"
	PrefixCar           = "CAR"
	PrefixRider         = "RIDER"
	PrefixAttendance    = "ATTENDANCE"
	PrefixHangout       = "HANGOUT"
	PrefixAttribute     = "ATTRIBUTE"
	PrefixNeedsRide     = "NEEDS_RIDE"
	PrefixInvite        = "INVITE"
	PrefixParticipation = "PARTICIPATION"
	PrefixOffer         = "OFFER"
	PrefixRefreshToken  = "REFRESH_TOKEN"
	PrefixVerification  = "VERIFICATION"
	PrefixPasswordReset = "PASSWORD_RESET"

	// SortKeyMetadata is the reserved sort key of a partition's canonical item
	SortKeyMetadata = "METADATA"
)

// ItemKind classifies the shape of a stored item by its sort key
type ItemKind string

const (
	KindUnknown        ItemKind = ""
	KindMetadata       ItemKind = "METADATA"
	KindMembership     ItemKind = "MEMBERSHIP"
	KindHangoutPointer ItemKind = "HANGOUT_POINTER"
	KindSeriesPointer  ItemKind = "SERIES_POINTER"
	KindPoll           ItemKind = "POLL"
	KindPollOption     ItemKind = "POLL_OPTION"
	KindVote           ItemKind = "VOTE"
	KindCar            ItemKind = "CAR"
	KindCarRider       ItemKind = "CAR_RIDER"
	KindInterestLevel  ItemKind = "INTEREST_LEVEL"
	KindAttribute      ItemKind = "ATTRIBUTE"
	KindNeedsRide      ItemKind = "NEEDS_RIDE"
	KindParticipation  ItemKind = "PARTICIPATION"
	KindOffer          ItemKind = "OFFER"
	KindInvite         ItemKind = "INVITE"
	KindRefreshToken   ItemKind = "REFRESH_TOKEN"
	KindVerification   ItemKind = "VERIFICATION"
	KindPasswordReset  ItemKind = "PASSWORD_RESET"
)

// build joins a prefix and a validated UUID identifier
func build(prefix, id string) (string, error) {
	if id == "" {
		return "", errors.NewInvalidKeyError(prefix + " identifier cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.NewInvalidKeyError(prefix + " identifier is not a valid UUID: " + id)
	}
	return prefix + Delimiter + id, nil
}

// Raw joins a prefix and a non-UUID identifier (invite codes, token hashes).
// The identifier only has to be non-empty and delimiter-free.
func Raw(prefix, id string) (string, error) {
	if id == "" {
		return "", errors.NewInvalidKeyError(prefix + " identifier cannot be empty")
	}
	if strings.Contains(id, Delimiter) {
		return "", errors.NewInvalidKeyError(prefix + " identifier cannot contain " + Delimiter)
	}
	return prefix + Delimiter + id, nil
}

// Partition keys

// GroupPK builds the partition key of a group's item collection
func GroupPK(id valueobjects.GroupID) (string, error) {
	return build(PrefixGroup, id.String())
}

// EventPK builds the partition key of a hangout's item collection
func EventPK(id valueobjects.HangoutID) (string, error) {
	return build(PrefixEvent, id.String())
}

// HangoutPK builds the partition key of a hangout's participation records.
// Participation and offers were added later and live under the HANGOUT
// prefix rather than EVENT; the split is persisted data, keep it.
func HangoutPK(id valueobjects.HangoutID) (string, error) {
	return build(PrefixHangout, id.String())
}

// SeriesPK builds the partition key of a series' canonical record
func SeriesPK(id valueobjects.SeriesID) (string, error) {
	return build(PrefixSeries, id.String())
}

// UserPK builds the partition key of a user's auth records
func UserPK(id valueobjects.UserID) (string, error) {
	return build(PrefixUser, id.String())
}

// Sort keys

// MetadataSK returns the canonical-item sort key
func MetadataSK() string {
	return SortKeyMetadata
}

// MembershipSK builds the sort key of a group membership row
func MembershipSK(userID valueobjects.UserID) (string, error) {
	return build(PrefixUser, userID.String())
}

// HangoutPointerSK builds the sort key of a hangout pointer in a group partition
func HangoutPointerSK(hangoutID valueobjects.HangoutID) (string, error) {
	return build(PrefixHangout, hangoutID.String())
}

// SeriesPointerSK builds the sort key of a series pointer in a group partition
func SeriesPointerSK(seriesID valueobjects.SeriesID) (string, error) {
	return build(PrefixSeries, seriesID.String())
}

// PollSK builds the sort key of a poll's root item
func PollSK(pollID valueobjects.PollID) (string, error) {
	return build(PrefixPoll, pollID.String())
}

// PollOptionSK builds the sort key of a poll option
func PollOptionSK(pollID valueobjects.PollID, optionID valueobjects.OptionID) (string, error) {
	pollKey, err := build(PrefixPoll, pollID.String())
	if err != nil {
		return "", err
	}
	optKey, err := build(PrefixOption, optionID.String())
	if err != nil {
		return "", err
	}
	return pollKey + Delimiter + optKey, nil
}

// VoteSK builds the sort key of one user's vote for one option
func VoteSK(pollID valueobjects.PollID, userID valueobjects.UserID, optionID valueobjects.OptionID) (string, error) {
	pollKey, err := build(PrefixPoll, pollID.String())
	if err != nil {
		return "", err
	}
	voteKey, err := build(PrefixVote, userID.String())
	if err != nil {
		return "", err
	}
	optKey, err := build(PrefixOption, optionID.String())
	if err != nil {
		return "", err
	}
	return pollKey + Delimiter + voteKey + Delimiter + optKey, nil
}

// VotePrefixSK builds the sort-key prefix matching every vote of a poll
func VotePrefixSK(pollID valueobjects.PollID) (string, error) {
	pollKey, err := build(PrefixPoll, pollID.String())
	if err != nil {
		return "", err
	}
	return pollKey + Delimiter + PrefixVote + Delimiter, nil
}

// CarSK builds the sort key of a carpool offer
func CarSK(carID valueobjects.CarID) (string, error) {
	return build(PrefixCar, carID.String())
}

// CarRiderSK builds the sort key of a claimed seat
func CarRiderSK(carID valueobjects.CarID, userID valueobjects.UserID) (string, error) {
	carKey, err := build(PrefixCar, carID.String())
	if err != nil {
		return "", err
	}
	riderKey, err := build(PrefixRider, userID.String())
	if err != nil {
		return "", err
	}
	return carKey + Delimiter + riderKey, nil
}

// InterestLevelSK builds the sort key of a user's attendance record
func InterestLevelSK(userID valueobjects.UserID) (string, error) {
	return build(PrefixAttendance, userID.String())
}

// AttributeSK builds the sort key of a hangout attribute
func AttributeSK(attributeID string) (string, error) {
	return build(PrefixAttribute, attributeID)
}

// NeedsRideSK builds the sort key of a needs-ride marker
func NeedsRideSK(userID valueobjects.UserID) (string, error) {
	return build(PrefixNeedsRide, userID.String())
}

// ParticipationSK builds the sort key of a participation record
func ParticipationSK(id string) (string, error) {
	return build(PrefixParticipation, id)
}

// OfferSK builds the sort key of a reservation offer
func OfferSK(id string) (string, error) {
	return build(PrefixOffer, id)
}

// InviteSK builds the sort key of an invite code row; codes are raw tokens,
// not UUIDs
func InviteSK(code string) (string, error) {
	return Raw(PrefixInvite, code)
}

// RefreshTokenSK builds the sort key of a stored refresh-token hash
func RefreshTokenSK(tokenHash string) (string, error) {
	return Raw(PrefixRefreshToken, tokenHash)
}

// VerificationSK builds the sort key of a phone verification code
func VerificationSK(phone string) (string, error) {
	return Raw(PrefixVerification, phone)
}

// PasswordResetSK builds the sort key of a password reset request
func PasswordResetSK(email string) (string, error) {
	return Raw(PrefixPasswordReset, email)
}

// Classify returns the entity shape encoded by a sort key. Used as the
// fallback for legacy items written before the itemType tag existed.
//
// Disambiguation order matters: a vote's sort key starts with POLL# and
// contains both #VOTE# and #OPTION#, and an option's starts with POLL# and
// contains #OPTION#, so the most specific pattern is tested and excluded
// before the more general one is accepted.
func Classify(sortKey string) ItemKind {
	switch {
	case sortKey == SortKeyMetadata:
		return KindMetadata
	case strings.HasPrefix(sortKey, PrefixPoll+Delimiter):
		if strings.Contains(sortKey, Delimiter+PrefixVote+Delimiter) {
			return KindVote
		}
		if strings.Contains(sortKey, Delimiter+PrefixOption+Delimiter) {
			return KindPollOption
		}
		return KindPoll
	case strings.HasPrefix(sortKey, PrefixCar+Delimiter):
		if strings.Contains(sortKey, Delimiter+PrefixRider+Delimiter) {
			return KindCarRider
		}
		return KindCar
	case strings.HasPrefix(sortKey, PrefixUser+Delimiter):
		return KindMembership
	case strings.HasPrefix(sortKey, PrefixHangout+Delimiter):
		return KindHangoutPointer
	case strings.HasPrefix(sortKey, PrefixSeries+Delimiter):
		return KindSeriesPointer
	case strings.HasPrefix(sortKey, PrefixAttendance+Delimiter):
		return KindInterestLevel
	case strings.HasPrefix(sortKey, PrefixAttribute+Delimiter):
		return KindAttribute
	case strings.HasPrefix(sortKey, PrefixNeedsRide+Delimiter):
		return KindNeedsRide
	case strings.HasPrefix(sortKey, PrefixParticipation+Delimiter):
		return KindParticipation
	case strings.HasPrefix(sortKey, PrefixOffer+Delimiter):
		return KindOffer
	case strings.HasPrefix(sortKey, PrefixInvite+Delimiter):
		return KindInvite
	case strings.HasPrefix(sortKey, PrefixRefreshToken+Delimiter):
		return KindRefreshToken
	case strings.HasPrefix(sortKey, PrefixVerification+Delimiter):
		return KindVerification
	case strings.HasPrefix(sortKey, PrefixPasswordReset+Delimiter):
		return KindPasswordReset
	default:
		return KindUnknown
	}
}
