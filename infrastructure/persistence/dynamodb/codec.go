package dynamodb

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// DecodedItem is one table row materialized as its domain type. Value holds
// *entities.Group, *entities.Hangout, entities.HangoutPointer, entities.Vote
// and so on; callers type-switch on it.
type DecodedItem struct {
	Kind  keys.ItemKind
	Value interface{}
}

// DecodeItem turns a raw table row into its domain type. The ItemType tag is
// authoritative when present; rows written before the tag existed fall back
// to sort-key classification. A row that matches neither is an error, never
// silently skipped: dropping it would make reads lie about what the
// collection contains.
func DecodeItem(item map[string]types.AttributeValue) (DecodedItem, error) {
	sk := stringAttr(item, attrSK)

	kind := keys.ItemKind(stringAttr(item, attrItemType))
	if kind == keys.KindUnknown {
		kind = keys.Classify(sk)
	}
	if kind == keys.KindMetadata {
		kind = metadataKind(stringAttr(item, attrPK))
	}

	decode, ok := decoders[kind]
	if !ok {
		return DecodedItem{}, errors.NewUnknownItemShapeError(sk)
	}
	return decode(item)
}

// The ItemType tag values for canonical aggregates differ from the shared
// METADATA sort key, so tagged rows land directly on these kinds and only
// untagged rows go through metadataKind.
const (
	kindGroup   keys.ItemKind = itemTypeGroup
	kindHangout keys.ItemKind = itemTypeHangout
	kindSeries  keys.ItemKind = itemTypeSeries
)

// metadataKind disambiguates the shared METADATA sort key by partition prefix
func metadataKind(pk string) keys.ItemKind {
	switch {
	case strings.HasPrefix(pk, keys.PrefixGroup+keys.Delimiter):
		return kindGroup
	case strings.HasPrefix(pk, keys.PrefixEvent+keys.Delimiter):
		return kindHangout
	case strings.HasPrefix(pk, keys.PrefixSeries+keys.Delimiter):
		return kindSeries
	}
	return keys.KindUnknown
}

var decoders = map[keys.ItemKind]func(map[string]types.AttributeValue) (DecodedItem, error){
	kindGroup:               decodeAs(kindGroup, (*groupItem).toDomain),
	kindHangout:             decodeAs(kindHangout, (*hangoutItem).toDomain),
	kindSeries:              decodeAs(kindSeries, (*seriesItem).toDomain),
	keys.KindMembership:     decodeAs(keys.KindMembership, (*membershipItem).toDomain),
	keys.KindHangoutPointer: decodeAs(keys.KindHangoutPointer, (*hangoutPointerItem).toDomain),
	keys.KindSeriesPointer:  decodeAs(keys.KindSeriesPointer, (*seriesPointerItem).toDomain),
	keys.KindPoll:           decodeAs(keys.KindPoll, (*pollItem).toDomain),
	keys.KindPollOption:     decodeAs(keys.KindPollOption, (*pollOptionItem).toDomain),
	keys.KindVote:           decodeAs(keys.KindVote, (*voteItem).toDomain),
	keys.KindCar:            decodeAs(keys.KindCar, (*carItem).toDomain),
	keys.KindCarRider:       decodeAs(keys.KindCarRider, (*carRiderItem).toDomain),
	keys.KindInterestLevel:  decodeAs(keys.KindInterestLevel, (*interestLevelItem).toDomain),
	keys.KindAttribute:      decodeAs(keys.KindAttribute, (*attributeItem).toDomain),
	keys.KindNeedsRide:      decodeAs(keys.KindNeedsRide, (*needsRideItem).toDomain),
	keys.KindParticipation:  decodeAs(keys.KindParticipation, (*participationItem).toDomain),
	keys.KindOffer:          decodeAs(keys.KindOffer, (*offerItem).toDomain),
	keys.KindInvite:         decodeAs(keys.KindInvite, (*inviteItem).toDomain),
	keys.KindRefreshToken:   decodeAs(keys.KindRefreshToken, (*refreshTokenItem).toDomain),
	keys.KindVerification:   decodeAs(keys.KindVerification, (*verificationItem).toDomain),
	keys.KindPasswordReset:  decodeAs(keys.KindPasswordReset, (*passwordResetItem).toDomain),
}

// decodeAs builds a decoder that unmarshals into the item struct I and
// converts it to its domain representation D via the given method expression.
func decodeAs[I, D any](kind keys.ItemKind, toDomain func(*I) (D, error)) func(map[string]types.AttributeValue) (DecodedItem, error) {
	return func(item map[string]types.AttributeValue) (DecodedItem, error) {
		var raw I
		if err := unmarshalItem(item, &raw); err != nil {
			return DecodedItem{}, err
		}
		value, err := toDomain(&raw)
		if err != nil {
			return DecodedItem{}, err
		}
		return DecodedItem{Kind: kind, Value: value}, nil
	}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
