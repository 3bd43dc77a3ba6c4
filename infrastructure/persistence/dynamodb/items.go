package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// Secondary index attribute names. GSI1 is a string/string index (user to
// group lookups), GSI2 and GSI3 carry numeric epoch sort keys for the
// time-ordered feed scans.
const (
	attrGSI1PK = "GSI1PK"
	attrGSI1SK = "GSI1SK"
	attrGSI2PK = "GSI2PK"
	attrGSI2SK = "GSI2SK"
	attrGSI3PK = "GSI3PK"
	attrGSI3SK = "GSI3SK"

	attrCode           = "Code"
	attrExternalSource = "ExternalSource"
	attrTokenHash      = "TokenHash"
)

// Secondary index names as provisioned on the table
const (
	UserGroupIndex      = "UserGroupIndex"      // GSI1PK=USER#, GSI1SK=GROUP#
	StartTimeIndex      = "StartTimeIndex"      // GSI2PK=GROUP#, GSI2SK=start epoch
	EndTimeIndex        = "EndTimeIndex"        // GSI3PK=GROUP#, GSI3SK=end epoch
	CodeIndex           = "CodeIndex"           // invite code lookup
	ExternalSourceIndex = "ExternalSourceIndex" // imported-event dedupe
	TokenHashIndex      = "TokenHashIndex"      // refresh token lookup
)

// ItemType tag values. New rows always carry the tag; classification falls
// back to the sort-key pattern only for rows written before it existed. The
// canonical aggregates get their own tags since they share the METADATA sort
// key; everything else reuses its classification kind so tag and fallback
// agree on the same name.
const (
	itemTypeGroup   = "GROUP"
	itemTypeHangout = "HANGOUT"
	itemTypeSeries  = "EVENT_SERIES"

	itemTypeMembership     = string(keys.KindMembership)
	itemTypeHangoutPointer = string(keys.KindHangoutPointer)
	itemTypeSeriesPointer  = string(keys.KindSeriesPointer)
	itemTypePoll           = string(keys.KindPoll)
	itemTypePollOption     = string(keys.KindPollOption)
	itemTypeVote           = string(keys.KindVote)
	itemTypeCar            = string(keys.KindCar)
	itemTypeCarRider       = string(keys.KindCarRider)
	itemTypeInterestLevel  = string(keys.KindInterestLevel)
	itemTypeAttribute      = string(keys.KindAttribute)
	itemTypeNeedsRide      = string(keys.KindNeedsRide)
	itemTypeParticipation  = string(keys.KindParticipation)
	itemTypeOffer          = string(keys.KindOffer)
	itemTypeInvite         = string(keys.KindInvite)
	itemTypeRefreshToken   = string(keys.KindRefreshToken)
	itemTypeVerification   = string(keys.KindVerification)
	itemTypePasswordReset  = string(keys.KindPasswordReset)
)

func marshalItem(v interface{}) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, errors.NewRepositoryError("MarshalItem", err)
	}
	return item, nil
}

func unmarshalItem(item map[string]types.AttributeValue, out interface{}) error {
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return errors.NewRepositoryError("UnmarshalItem", err)
	}
	return nil
}

// groupItem is the canonical group row (PK=GROUP#, SK=METADATA)
type groupItem struct {
	PK                  string    `dynamodbav:"PK"`
	SK                  string    `dynamodbav:"SK"`
	ItemType            string    `dynamodbav:"ItemType"`
	GroupID             string    `dynamodbav:"GroupID"`
	Name                string    `dynamodbav:"Name"`
	Visibility          string    `dynamodbav:"Visibility"`
	MainImagePath       string    `dynamodbav:"MainImagePath,omitempty"`
	BackgroundImagePath string    `dynamodbav:"BackgroundImagePath,omitempty"`
	InviteCode          string    `dynamodbav:"InviteCode,omitempty"`
	CreatedAt           time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt           time.Time `dynamodbav:"UpdatedAt"`
}

func newGroupItem(g *entities.Group) (*groupItem, error) {
	pk, err := keys.GroupPK(g.ID())
	if err != nil {
		return nil, err
	}
	return &groupItem{
		PK:                  pk,
		SK:                  keys.MetadataSK(),
		ItemType:            itemTypeGroup,
		GroupID:             g.ID().String(),
		Name:                g.Name(),
		Visibility:          string(g.Visibility()),
		MainImagePath:       g.MainImagePath(),
		BackgroundImagePath: g.BackgroundImagePath(),
		InviteCode:          g.InviteCode(),
		CreatedAt:           g.CreatedAt(),
		UpdatedAt:           g.UpdatedAt(),
	}, nil
}

func (i *groupItem) toDomain() (*entities.Group, error) {
	id, err := valueobjects.NewGroupIDFromString(i.GroupID)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructGroup(
		id,
		i.Name,
		entities.GroupVisibility(i.Visibility),
		i.MainImagePath,
		i.BackgroundImagePath,
		i.InviteCode,
		i.CreatedAt,
		i.UpdatedAt,
	), nil
}

// membershipItem lives in the group partition and is mirrored onto GSI1 so
// one query answers "which groups is this user in"
type membershipItem struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	GSI1PK         string    `dynamodbav:"GSI1PK"`
	GSI1SK         string    `dynamodbav:"GSI1SK"`
	ItemType       string    `dynamodbav:"ItemType"`
	GroupID        string    `dynamodbav:"GroupID"`
	UserID         string    `dynamodbav:"UserID"`
	Role           string    `dynamodbav:"Role"`
	GroupName      string    `dynamodbav:"GroupName"`
	GroupImagePath string    `dynamodbav:"GroupImagePath,omitempty"`
	UserImagePath  string    `dynamodbav:"UserImagePath,omitempty"`
	JoinedAt       time.Time `dynamodbav:"JoinedAt"`
}

func newMembershipItem(m entities.GroupMembership) (*membershipItem, error) {
	pk, err := keys.GroupPK(m.GroupID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.MembershipSK(m.UserID)
	if err != nil {
		return nil, err
	}
	userPK, err := keys.UserPK(m.UserID)
	if err != nil {
		return nil, err
	}
	return &membershipItem{
		PK:             pk,
		SK:             sk,
		GSI1PK:         userPK,
		GSI1SK:         pk,
		ItemType:       itemTypeMembership,
		GroupID:        m.GroupID.String(),
		UserID:         m.UserID.String(),
		Role:           string(m.Role),
		GroupName:      m.GroupName,
		GroupImagePath: m.GroupImagePath,
		UserImagePath:  m.UserImagePath,
		JoinedAt:       m.JoinedAt,
	}, nil
}

func (i *membershipItem) toDomain() (entities.GroupMembership, error) {
	groupID, err := valueobjects.NewGroupIDFromString(i.GroupID)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	return entities.GroupMembership{
		GroupID:        groupID,
		UserID:         userID,
		Role:           entities.GroupRole(i.Role),
		GroupName:      i.GroupName,
		GroupImagePath: i.GroupImagePath,
		UserImagePath:  i.UserImagePath,
		JoinedAt:       i.JoinedAt,
	}, nil
}

// hangoutItem is the canonical hangout row (PK=EVENT#, SK=METADATA). The
// external source key is mirrored to its own index for imported-event dedupe.
type hangoutItem struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	ItemType         string    `dynamodbav:"ItemType"`
	HangoutID        string    `dynamodbav:"HangoutID"`
	Title            string    `dynamodbav:"Title"`
	Description      string    `dynamodbav:"Description,omitempty"`
	StartTimestamp   int64     `dynamodbav:"StartTimestamp"`
	EndTimestamp     int64     `dynamodbav:"EndTimestamp"`
	Granularity      string    `dynamodbav:"Granularity"`
	Location         string    `dynamodbav:"Location,omitempty"`
	Visibility       string    `dynamodbav:"Visibility"`
	GroupIDs         []string  `dynamodbav:"GroupIDs"`
	SeriesID         string    `dynamodbav:"SeriesID,omitempty"`
	ExternalSource   string    `dynamodbav:"ExternalSource,omitempty"`
	MainImagePath    string    `dynamodbav:"MainImagePath,omitempty"`
	TicketRequired   bool      `dynamodbav:"TicketRequired"`
	TicketLink       string    `dynamodbav:"TicketLink,omitempty"`
	TicketPriceCents int64     `dynamodbav:"TicketPriceCents,omitempty"`
	TicketCurrency   string    `dynamodbav:"TicketCurrency,omitempty"`
	ParticipantCount int       `dynamodbav:"ParticipantCount"`
	ReminderSent     bool      `dynamodbav:"ReminderSent"`
	CreatedBy        string    `dynamodbav:"CreatedBy"`
	CreatedAt        time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func newHangoutItem(h *entities.Hangout) (*hangoutItem, error) {
	pk, err := keys.EventPK(h.ID())
	if err != nil {
		return nil, err
	}
	groupIDs := make([]string, 0, len(h.GroupIDs()))
	for _, gid := range h.GroupIDs() {
		groupIDs = append(groupIDs, gid.String())
	}
	ticket := h.TicketInfo()
	return &hangoutItem{
		PK:               pk,
		SK:               keys.MetadataSK(),
		ItemType:         itemTypeHangout,
		HangoutID:        h.ID().String(),
		Title:            h.Title(),
		Description:      h.Description(),
		StartTimestamp:   h.Window().Start().Unix(),
		EndTimestamp:     h.Window().End().Unix(),
		Granularity:      string(h.Window().Granularity()),
		Location:         h.Location(),
		Visibility:       string(h.Visibility()),
		GroupIDs:         groupIDs,
		SeriesID:         seriesIDString(h.SeriesID()),
		ExternalSource:   h.ExternalSource(),
		MainImagePath:    h.MainImagePath(),
		TicketRequired:   ticket.Required,
		TicketLink:       ticket.Link,
		TicketPriceCents: ticket.PriceCents,
		TicketCurrency:   ticket.Currency,
		ParticipantCount: h.ParticipantCount(),
		ReminderSent:     h.ReminderSent(),
		CreatedBy:        h.CreatedBy().String(),
		CreatedAt:        h.CreatedAt(),
		UpdatedAt:        h.UpdatedAt(),
	}, nil
}

// hangoutDisplayUpdate is the slice of the canonical row an edit is allowed
// to touch. ParticipantCount and ReminderSent have their own write paths
// (atomic ADD, one-way flag) and must never be rewritten from a read copy.
// No omitempty here: clearing an optional field has to reach the row.
type hangoutDisplayUpdate struct {
	Title            string    `dynamodbav:"Title"`
	Description      string    `dynamodbav:"Description"`
	StartTimestamp   int64     `dynamodbav:"StartTimestamp"`
	EndTimestamp     int64     `dynamodbav:"EndTimestamp"`
	Granularity      string    `dynamodbav:"Granularity"`
	Location         string    `dynamodbav:"Location"`
	Visibility       string    `dynamodbav:"Visibility"`
	SeriesID         string    `dynamodbav:"SeriesID"`
	MainImagePath    string    `dynamodbav:"MainImagePath"`
	TicketRequired   bool      `dynamodbav:"TicketRequired"`
	TicketLink       string    `dynamodbav:"TicketLink"`
	TicketPriceCents int64     `dynamodbav:"TicketPriceCents"`
	TicketCurrency   string    `dynamodbav:"TicketCurrency"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func newHangoutDisplayUpdate(h *entities.Hangout) (map[string]types.AttributeValue, error) {
	ticket := h.TicketInfo()
	return marshalItem(&hangoutDisplayUpdate{
		Title:            h.Title(),
		Description:      h.Description(),
		StartTimestamp:   h.Window().Start().Unix(),
		EndTimestamp:     h.Window().End().Unix(),
		Granularity:      string(h.Window().Granularity()),
		Location:         h.Location(),
		Visibility:       string(h.Visibility()),
		SeriesID:         seriesIDString(h.SeriesID()),
		MainImagePath:    h.MainImagePath(),
		TicketRequired:   ticket.Required,
		TicketLink:       ticket.Link,
		TicketPriceCents: ticket.PriceCents,
		TicketCurrency:   ticket.Currency,
		UpdatedAt:        h.UpdatedAt(),
	})
}

func (i *hangoutItem) toDomain() (*entities.Hangout, error) {
	id, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return nil, err
	}
	createdBy, err := valueobjects.NewUserIDFromString(i.CreatedBy)
	if err != nil {
		return nil, err
	}
	groupIDs := make([]valueobjects.GroupID, 0, len(i.GroupIDs))
	for _, raw := range i.GroupIDs {
		gid, err := valueobjects.NewGroupIDFromString(raw)
		if err != nil {
			return nil, err
		}
		groupIDs = append(groupIDs, gid)
	}
	seriesID, err := parseSeriesID(i.SeriesID)
	if err != nil {
		return nil, err
	}
	window := valueobjects.ReconstructTimeWindow(
		i.StartTimestamp,
		i.EndTimestamp,
		valueobjects.PeriodGranularity(i.Granularity),
	)
	return entities.ReconstructHangout(
		id,
		i.Title,
		i.Description,
		window,
		i.Location,
		entities.HangoutVisibility(i.Visibility),
		groupIDs,
		seriesID,
		i.ExternalSource,
		i.MainImagePath,
		entities.TicketInfo{
			Required:   i.TicketRequired,
			Link:       i.TicketLink,
			PriceCents: i.TicketPriceCents,
			Currency:   i.TicketCurrency,
		},
		i.ParticipantCount,
		i.ReminderSent,
		createdBy,
		i.CreatedAt,
		i.UpdatedAt,
	), nil
}

// hangoutPointerItem is the per-group denormalized hangout row. GSI2/GSI3
// give each group a start-ordered and an end-ordered view of its feed.
type hangoutPointerItem struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	GSI2PK           string    `dynamodbav:"GSI2PK"`
	GSI2SK           int64     `dynamodbav:"GSI2SK"`
	GSI3PK           string    `dynamodbav:"GSI3PK"`
	GSI3SK           int64     `dynamodbav:"GSI3SK"`
	ItemType         string    `dynamodbav:"ItemType"`
	GroupID          string    `dynamodbav:"GroupID"`
	HangoutID        string    `dynamodbav:"HangoutID"`
	Title            string    `dynamodbav:"Title"`
	StartTimestamp   int64     `dynamodbav:"StartTimestamp"`
	EndTimestamp     int64     `dynamodbav:"EndTimestamp"`
	Granularity      string    `dynamodbav:"Granularity"`
	Location         string    `dynamodbav:"Location,omitempty"`
	Visibility       string    `dynamodbav:"Visibility"`
	MainImagePath    string    `dynamodbav:"MainImagePath,omitempty"`
	TicketRequired   bool      `dynamodbav:"TicketRequired"`
	TicketLink       string    `dynamodbav:"TicketLink,omitempty"`
	TicketPriceCents int64     `dynamodbav:"TicketPriceCents,omitempty"`
	TicketCurrency   string    `dynamodbav:"TicketCurrency,omitempty"`
	SeriesID         string    `dynamodbav:"SeriesID,omitempty"`
	ParticipantCount int       `dynamodbav:"ParticipantCount"`
	Version          int64     `dynamodbav:"Version"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func newHangoutPointerItem(p entities.HangoutPointer) (*hangoutPointerItem, error) {
	pk, err := keys.GroupPK(p.GroupID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.HangoutPointerSK(p.HangoutID)
	if err != nil {
		return nil, err
	}
	ticket := p.TicketInfo
	return &hangoutPointerItem{
		PK:               pk,
		SK:               sk,
		GSI2PK:           pk,
		GSI2SK:           p.Window.Start().Unix(),
		GSI3PK:           pk,
		GSI3SK:           p.Window.End().Unix(),
		ItemType:         itemTypeHangoutPointer,
		GroupID:          p.GroupID.String(),
		HangoutID:        p.HangoutID.String(),
		Title:            p.Title,
		StartTimestamp:   p.Window.Start().Unix(),
		EndTimestamp:     p.Window.End().Unix(),
		Granularity:      string(p.Window.Granularity()),
		Location:         p.Location,
		Visibility:       string(p.Visibility),
		MainImagePath:    p.MainImagePath,
		TicketRequired:   ticket.Required,
		TicketLink:       ticket.Link,
		TicketPriceCents: ticket.PriceCents,
		TicketCurrency:   ticket.Currency,
		SeriesID:         seriesIDString(p.SeriesID),
		ParticipantCount: p.ParticipantCount,
		Version:          p.Version,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

func (i *hangoutPointerItem) toDomain() (entities.HangoutPointer, error) {
	groupID, err := valueobjects.NewGroupIDFromString(i.GroupID)
	if err != nil {
		return entities.HangoutPointer{}, err
	}
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.HangoutPointer{}, err
	}
	seriesID, err := parseSeriesID(i.SeriesID)
	if err != nil {
		return entities.HangoutPointer{}, err
	}
	return entities.HangoutPointer{
		GroupID:   groupID,
		HangoutID: hangoutID,
		Title:     i.Title,
		Window: valueobjects.ReconstructTimeWindow(
			i.StartTimestamp,
			i.EndTimestamp,
			valueobjects.PeriodGranularity(i.Granularity),
		),
		Location:      i.Location,
		Visibility:    entities.HangoutVisibility(i.Visibility),
		MainImagePath: i.MainImagePath,
		TicketInfo: entities.TicketInfo{
			Required:   i.TicketRequired,
			Link:       i.TicketLink,
			PriceCents: i.TicketPriceCents,
			Currency:   i.TicketCurrency,
		},
		SeriesID:         seriesID,
		ParticipantCount: i.ParticipantCount,
		Version:          i.Version,
		UpdatedAt:        i.UpdatedAt,
	}, nil
}

// hangoutPointerUpdate is the propagated slice of an existing pointer row,
// the in-place counterpart of ApplyHangoutToPointer. The GSI sort keys ride
// along because they derive from the window. ParticipantCount and Version
// are pointer-owned and absent here. No omitempty: clearing a field (series
// unlink, dropped image) has to reach the row.
type hangoutPointerUpdate struct {
	GSI2SK           int64     `dynamodbav:"GSI2SK"`
	GSI3SK           int64     `dynamodbav:"GSI3SK"`
	Title            string    `dynamodbav:"Title"`
	StartTimestamp   int64     `dynamodbav:"StartTimestamp"`
	EndTimestamp     int64     `dynamodbav:"EndTimestamp"`
	Granularity      string    `dynamodbav:"Granularity"`
	Location         string    `dynamodbav:"Location"`
	Visibility       string    `dynamodbav:"Visibility"`
	MainImagePath    string    `dynamodbav:"MainImagePath"`
	TicketRequired   bool      `dynamodbav:"TicketRequired"`
	TicketLink       string    `dynamodbav:"TicketLink"`
	TicketPriceCents int64     `dynamodbav:"TicketPriceCents"`
	TicketCurrency   string    `dynamodbav:"TicketCurrency"`
	SeriesID         string    `dynamodbav:"SeriesID"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func newHangoutPointerUpdate(h *entities.Hangout) (map[string]types.AttributeValue, error) {
	ticket := h.TicketInfo()
	return marshalItem(&hangoutPointerUpdate{
		GSI2SK:           h.Window().Start().Unix(),
		GSI3SK:           h.Window().End().Unix(),
		Title:            h.Title(),
		StartTimestamp:   h.Window().Start().Unix(),
		EndTimestamp:     h.Window().End().Unix(),
		Granularity:      string(h.Window().Granularity()),
		Location:         h.Location(),
		Visibility:       string(h.Visibility()),
		MainImagePath:    h.MainImagePath(),
		TicketRequired:   ticket.Required,
		TicketLink:       ticket.Link,
		TicketPriceCents: ticket.PriceCents,
		TicketCurrency:   ticket.Currency,
		SeriesID:         seriesIDString(h.SeriesID()),
		UpdatedAt:        time.Now().UTC(),
	})
}

// hangoutSeriesLink is the canonical-row side of a series link move
type hangoutSeriesLink struct {
	SeriesID  string    `dynamodbav:"SeriesID"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func newHangoutSeriesLink(h *entities.Hangout) (map[string]types.AttributeValue, error) {
	return marshalItem(&hangoutSeriesLink{
		SeriesID:  seriesIDString(h.SeriesID()),
		UpdatedAt: h.UpdatedAt(),
	})
}

// ApplyHangoutToPointer copies every propagated field from the canonical
// hangout onto a pointer. Create and sync both go through here; a field
// added to the pointer projection is added here and nowhere else.
// ParticipantCount and Version are pointer-owned and deliberately untouched.
func ApplyHangoutToPointer(h *entities.Hangout, p *entities.HangoutPointer) {
	p.HangoutID = h.ID()
	p.Title = h.Title()
	p.Window = h.Window()
	p.Location = h.Location()
	p.Visibility = h.Visibility()
	p.MainImagePath = h.MainImagePath()
	p.TicketInfo = h.TicketInfo()
	p.SeriesID = h.SeriesID()
}

// seriesItem is the canonical series row (PK=SERIES#, SK=METADATA)
type seriesItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ItemType    string    `dynamodbav:"ItemType"`
	SeriesID    string    `dynamodbav:"SeriesID"`
	Title       string    `dynamodbav:"Title"`
	Description string    `dynamodbav:"Description,omitempty"`
	GroupIDs    []string  `dynamodbav:"GroupIDs"`
	HangoutIDs  []string  `dynamodbav:"HangoutIDs"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
}

func newSeriesItem(s *entities.EventSeries) (*seriesItem, error) {
	pk, err := keys.SeriesPK(s.ID())
	if err != nil {
		return nil, err
	}
	groupIDs := make([]string, 0, len(s.GroupIDs()))
	for _, gid := range s.GroupIDs() {
		groupIDs = append(groupIDs, gid.String())
	}
	hangoutIDs := make([]string, 0, len(s.HangoutIDs()))
	for _, hid := range s.HangoutIDs() {
		hangoutIDs = append(hangoutIDs, hid.String())
	}
	return &seriesItem{
		PK:          pk,
		SK:          keys.MetadataSK(),
		ItemType:    itemTypeSeries,
		SeriesID:    s.ID().String(),
		Title:       s.Title(),
		Description: s.Description(),
		GroupIDs:    groupIDs,
		HangoutIDs:  hangoutIDs,
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}, nil
}

func (i *seriesItem) toDomain() (*entities.EventSeries, error) {
	id, err := valueobjects.NewSeriesIDFromString(i.SeriesID)
	if err != nil {
		return nil, err
	}
	groupIDs := make([]valueobjects.GroupID, 0, len(i.GroupIDs))
	for _, raw := range i.GroupIDs {
		gid, err := valueobjects.NewGroupIDFromString(raw)
		if err != nil {
			return nil, err
		}
		groupIDs = append(groupIDs, gid)
	}
	hangoutIDs, err := parseHangoutIDs(i.HangoutIDs)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructEventSeries(id, i.Title, i.Description, groupIDs, hangoutIDs, i.CreatedAt, i.UpdatedAt), nil
}

// seriesPointerItem is the per-group series projection, start-ordered on GSI2
// alongside the hangout pointers so one feed query returns both.
type seriesPointerItem struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	GSI2PK         string    `dynamodbav:"GSI2PK"`
	GSI2SK         int64     `dynamodbav:"GSI2SK"`
	ItemType       string    `dynamodbav:"ItemType"`
	GroupID        string    `dynamodbav:"GroupID"`
	SeriesID       string    `dynamodbav:"SeriesID"`
	Title          string    `dynamodbav:"Title"`
	HangoutIDs     []string  `dynamodbav:"HangoutIDs"`
	StartTimestamp int64     `dynamodbav:"StartTimestamp"`
	Version        int64     `dynamodbav:"Version"`
	UpdatedAt      time.Time `dynamodbav:"UpdatedAt"`
}

func newSeriesPointerItem(p entities.SeriesPointer) (*seriesPointerItem, error) {
	pk, err := keys.GroupPK(p.GroupID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.SeriesPointerSK(p.SeriesID)
	if err != nil {
		return nil, err
	}
	hangoutIDs := make([]string, 0, len(p.HangoutIDs))
	for _, hid := range p.HangoutIDs {
		hangoutIDs = append(hangoutIDs, hid.String())
	}
	return &seriesPointerItem{
		PK:             pk,
		SK:             sk,
		GSI2PK:         pk,
		GSI2SK:         p.StartTime.Unix(),
		ItemType:       itemTypeSeriesPointer,
		GroupID:        p.GroupID.String(),
		SeriesID:       p.SeriesID.String(),
		Title:          p.Title,
		HangoutIDs:     hangoutIDs,
		StartTimestamp: p.StartTime.Unix(),
		Version:        p.Version,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func (i *seriesPointerItem) toDomain() (entities.SeriesPointer, error) {
	groupID, err := valueobjects.NewGroupIDFromString(i.GroupID)
	if err != nil {
		return entities.SeriesPointer{}, err
	}
	seriesID, err := valueobjects.NewSeriesIDFromString(i.SeriesID)
	if err != nil {
		return entities.SeriesPointer{}, err
	}
	hangoutIDs, err := parseHangoutIDs(i.HangoutIDs)
	if err != nil {
		return entities.SeriesPointer{}, err
	}
	return entities.SeriesPointer{
		GroupID:    groupID,
		SeriesID:   seriesID,
		Title:      i.Title,
		HangoutIDs: hangoutIDs,
		StartTime:  time.Unix(i.StartTimestamp, 0).UTC(),
		Version:    i.Version,
		UpdatedAt:  i.UpdatedAt,
	}, nil
}

// pollItem lives in its hangout's partition (PK=EVENT#, SK=POLL#)
type pollItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ItemType    string    `dynamodbav:"ItemType"`
	HangoutID   string    `dynamodbav:"HangoutID"`
	PollID      string    `dynamodbav:"PollID"`
	Title       string    `dynamodbav:"Title"`
	MultiSelect bool      `dynamodbav:"MultiSelect"`
	CreatedBy   string    `dynamodbav:"CreatedBy"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
}

func newPollItem(p entities.Poll) (*pollItem, error) {
	pk, err := keys.EventPK(p.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.PollSK(p.PollID)
	if err != nil {
		return nil, err
	}
	return &pollItem{
		PK:          pk,
		SK:          sk,
		ItemType:    itemTypePoll,
		HangoutID:   p.HangoutID.String(),
		PollID:      p.PollID.String(),
		Title:       p.Title,
		MultiSelect: p.MultiSelect,
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (i *pollItem) toDomain() (entities.Poll, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.Poll{}, err
	}
	pollID, err := valueobjects.NewPollIDFromString(i.PollID)
	if err != nil {
		return entities.Poll{}, err
	}
	createdBy, err := valueobjects.NewUserIDFromString(i.CreatedBy)
	if err != nil {
		return entities.Poll{}, err
	}
	return entities.Poll{
		HangoutID:   hangoutID,
		PollID:      pollID,
		Title:       i.Title,
		MultiSelect: i.MultiSelect,
		CreatedBy:   createdBy,
		CreatedAt:   i.CreatedAt,
	}, nil
}

type pollOptionItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	ItemType  string `dynamodbav:"ItemType"`
	HangoutID string `dynamodbav:"HangoutID"`
	PollID    string `dynamodbav:"PollID"`
	OptionID  string `dynamodbav:"OptionID"`
	Text      string `dynamodbav:"Text"`
}

func newPollOptionItem(o entities.PollOption) (*pollOptionItem, error) {
	pk, err := keys.EventPK(o.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.PollOptionSK(o.PollID, o.OptionID)
	if err != nil {
		return nil, err
	}
	return &pollOptionItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypePollOption,
		HangoutID: o.HangoutID.String(),
		PollID:    o.PollID.String(),
		OptionID:  o.OptionID.String(),
		Text:      o.Text,
	}, nil
}

func (i *pollOptionItem) toDomain() (entities.PollOption, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.PollOption{}, err
	}
	pollID, err := valueobjects.NewPollIDFromString(i.PollID)
	if err != nil {
		return entities.PollOption{}, err
	}
	optionID, err := valueobjects.NewOptionIDFromString(i.OptionID)
	if err != nil {
		return entities.PollOption{}, err
	}
	return entities.PollOption{
		HangoutID: hangoutID,
		PollID:    pollID,
		OptionID:  optionID,
		Text:      i.Text,
	}, nil
}

type voteItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	HangoutID string    `dynamodbav:"HangoutID"`
	PollID    string    `dynamodbav:"PollID"`
	UserID    string    `dynamodbav:"UserID"`
	OptionID  string    `dynamodbav:"OptionID"`
	VotedAt   time.Time `dynamodbav:"VotedAt"`
}

func newVoteItem(v entities.Vote) (*voteItem, error) {
	pk, err := keys.EventPK(v.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.VoteSK(v.PollID, v.UserID, v.OptionID)
	if err != nil {
		return nil, err
	}
	return &voteItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeVote,
		HangoutID: v.HangoutID.String(),
		PollID:    v.PollID.String(),
		UserID:    v.UserID.String(),
		OptionID:  v.OptionID.String(),
		VotedAt:   v.VotedAt,
	}, nil
}

func (i *voteItem) toDomain() (entities.Vote, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.Vote{}, err
	}
	pollID, err := valueobjects.NewPollIDFromString(i.PollID)
	if err != nil {
		return entities.Vote{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.Vote{}, err
	}
	optionID, err := valueobjects.NewOptionIDFromString(i.OptionID)
	if err != nil {
		return entities.Vote{}, err
	}
	return entities.Vote{
		HangoutID: hangoutID,
		PollID:    pollID,
		UserID:    userID,
		OptionID:  optionID,
		VotedAt:   i.VotedAt,
	}, nil
}

// carItem carries a Version attribute; AvailableSeats only moves under a
// version-conditioned update
type carItem struct {
	PK             string    `dynamodbav:"PK"`
	SK             string    `dynamodbav:"SK"`
	ItemType       string    `dynamodbav:"ItemType"`
	HangoutID      string    `dynamodbav:"HangoutID"`
	CarID          string    `dynamodbav:"CarID"`
	DriverID       string    `dynamodbav:"DriverID"`
	TotalSeats     int       `dynamodbav:"TotalSeats"`
	AvailableSeats int       `dynamodbav:"AvailableSeats"`
	Notes          string    `dynamodbav:"Notes,omitempty"`
	Version        int64     `dynamodbav:"Version"`
	CreatedAt      time.Time `dynamodbav:"CreatedAt"`
}

func newCarItem(c entities.Car) (*carItem, error) {
	pk, err := keys.EventPK(c.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.CarSK(c.CarID)
	if err != nil {
		return nil, err
	}
	return &carItem{
		PK:             pk,
		SK:             sk,
		ItemType:       itemTypeCar,
		HangoutID:      c.HangoutID.String(),
		CarID:          c.CarID.String(),
		DriverID:       c.DriverID.String(),
		TotalSeats:     c.TotalSeats,
		AvailableSeats: c.AvailableSeats,
		Notes:          c.Notes,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
	}, nil
}

func (i *carItem) toDomain() (entities.Car, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.Car{}, err
	}
	carID, err := valueobjects.NewCarIDFromString(i.CarID)
	if err != nil {
		return entities.Car{}, err
	}
	driverID, err := valueobjects.NewUserIDFromString(i.DriverID)
	if err != nil {
		return entities.Car{}, err
	}
	return entities.Car{
		HangoutID:      hangoutID,
		CarID:          carID,
		DriverID:       driverID,
		TotalSeats:     i.TotalSeats,
		AvailableSeats: i.AvailableSeats,
		Notes:          i.Notes,
		Version:        i.Version,
		CreatedAt:      i.CreatedAt,
	}, nil
}

type carRiderItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	HangoutID string    `dynamodbav:"HangoutID"`
	CarID     string    `dynamodbav:"CarID"`
	UserID    string    `dynamodbav:"UserID"`
	Note      string    `dynamodbav:"Note,omitempty"`
	ClaimedAt time.Time `dynamodbav:"ClaimedAt"`
}

func newCarRiderItem(r entities.CarRider) (*carRiderItem, error) {
	pk, err := keys.EventPK(r.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.CarRiderSK(r.CarID, r.UserID)
	if err != nil {
		return nil, err
	}
	return &carRiderItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeCarRider,
		HangoutID: r.HangoutID.String(),
		CarID:     r.CarID.String(),
		UserID:    r.UserID.String(),
		Note:      r.Note,
		ClaimedAt: r.ClaimedAt,
	}, nil
}

func (i *carRiderItem) toDomain() (entities.CarRider, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.CarRider{}, err
	}
	carID, err := valueobjects.NewCarIDFromString(i.CarID)
	if err != nil {
		return entities.CarRider{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.CarRider{}, err
	}
	return entities.CarRider{
		HangoutID: hangoutID,
		CarID:     carID,
		UserID:    userID,
		Note:      i.Note,
		ClaimedAt: i.ClaimedAt,
	}, nil
}

type needsRideItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	HangoutID string    `dynamodbav:"HangoutID"`
	UserID    string    `dynamodbav:"UserID"`
	Note      string    `dynamodbav:"Note,omitempty"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

func newNeedsRideItem(n entities.NeedsRide) (*needsRideItem, error) {
	pk, err := keys.EventPK(n.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.NeedsRideSK(n.UserID)
	if err != nil {
		return nil, err
	}
	return &needsRideItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeNeedsRide,
		HangoutID: n.HangoutID.String(),
		UserID:    n.UserID.String(),
		Note:      n.Note,
		CreatedAt: n.CreatedAt,
	}, nil
}

func (i *needsRideItem) toDomain() (entities.NeedsRide, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.NeedsRide{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.NeedsRide{}, err
	}
	return entities.NeedsRide{
		HangoutID: hangoutID,
		UserID:    userID,
		Note:      i.Note,
		CreatedAt: i.CreatedAt,
	}, nil
}

type interestLevelItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	HangoutID string    `dynamodbav:"HangoutID"`
	UserID    string    `dynamodbav:"UserID"`
	Status    string    `dynamodbav:"Status"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func newInterestLevelItem(l entities.InterestLevel) (*interestLevelItem, error) {
	pk, err := keys.EventPK(l.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.InterestLevelSK(l.UserID)
	if err != nil {
		return nil, err
	}
	return &interestLevelItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeInterestLevel,
		HangoutID: l.HangoutID.String(),
		UserID:    l.UserID.String(),
		Status:    string(l.Status),
		UpdatedAt: l.UpdatedAt,
	}, nil
}

func (i *interestLevelItem) toDomain() (entities.InterestLevel, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.InterestLevel{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.InterestLevel{}, err
	}
	return entities.InterestLevel{
		HangoutID: hangoutID,
		UserID:    userID,
		Status:    entities.InterestStatus(i.Status),
		UpdatedAt: i.UpdatedAt,
	}, nil
}

type attributeItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ItemType    string    `dynamodbav:"ItemType"`
	HangoutID   string    `dynamodbav:"HangoutID"`
	AttributeID string    `dynamodbav:"AttributeID"`
	Name        string    `dynamodbav:"Name"`
	Value       string    `dynamodbav:"Value"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
}

func newAttributeItem(a entities.HangoutAttribute) (*attributeItem, error) {
	pk, err := keys.EventPK(a.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.AttributeSK(a.AttributeID)
	if err != nil {
		return nil, err
	}
	return &attributeItem{
		PK:          pk,
		SK:          sk,
		ItemType:    itemTypeAttribute,
		HangoutID:   a.HangoutID.String(),
		AttributeID: a.AttributeID,
		Name:        a.Name,
		Value:       a.Value,
		UpdatedAt:   a.UpdatedAt,
	}, nil
}

func (i *attributeItem) toDomain() (entities.HangoutAttribute, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.HangoutAttribute{}, err
	}
	return entities.HangoutAttribute{
		HangoutID:   hangoutID,
		AttributeID: i.AttributeID,
		Name:        i.Name,
		Value:       i.Value,
		UpdatedAt:   i.UpdatedAt,
	}, nil
}

// participationItem uses the HANGOUT# partition prefix, not EVENT#. That is
// how the data was originally laid out and rows exist under it, so the
// divergence is permanent.
type participationItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ItemType    string    `dynamodbav:"ItemType"`
	HangoutID   string    `dynamodbav:"HangoutID"`
	ID          string    `dynamodbav:"ID"`
	UserID      string    `dynamodbav:"UserID"`
	Status      string    `dynamodbav:"Status"`
	TicketCount int       `dynamodbav:"TicketCount"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
}

func newParticipationItem(p entities.Participation) (*participationItem, error) {
	pk, err := keys.HangoutPK(p.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.ParticipationSK(p.ID)
	if err != nil {
		return nil, err
	}
	return &participationItem{
		PK:          pk,
		SK:          sk,
		ItemType:    itemTypeParticipation,
		HangoutID:   p.HangoutID.String(),
		ID:          p.ID,
		UserID:      p.UserID.String(),
		Status:      string(p.Status),
		TicketCount: p.TicketCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (i *participationItem) toDomain() (entities.Participation, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.Participation{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.Participation{}, err
	}
	return entities.Participation{
		HangoutID:   hangoutID,
		ID:          i.ID,
		UserID:      userID,
		Status:      entities.ParticipationStatus(i.Status),
		TicketCount: i.TicketCount,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}, nil
}

type offerItem struct {
	PK           string    `dynamodbav:"PK"`
	SK           string    `dynamodbav:"SK"`
	ItemType     string    `dynamodbav:"ItemType"`
	HangoutID    string    `dynamodbav:"HangoutID"`
	ID           string    `dynamodbav:"ID"`
	UserID       string    `dynamodbav:"UserID"`
	SeatsOffered int       `dynamodbav:"SeatsOffered"`
	Note         string    `dynamodbav:"Note,omitempty"`
	CreatedAt    time.Time `dynamodbav:"CreatedAt"`
}

func newOfferItem(o entities.ReservationOffer) (*offerItem, error) {
	pk, err := keys.HangoutPK(o.HangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.OfferSK(o.ID)
	if err != nil {
		return nil, err
	}
	return &offerItem{
		PK:           pk,
		SK:           sk,
		ItemType:     itemTypeOffer,
		HangoutID:    o.HangoutID.String(),
		ID:           o.ID,
		UserID:       o.UserID.String(),
		SeatsOffered: o.SeatsOffered,
		Note:         o.Note,
		CreatedAt:    o.CreatedAt,
	}, nil
}

func (i *offerItem) toDomain() (entities.ReservationOffer, error) {
	hangoutID, err := valueobjects.NewHangoutIDFromString(i.HangoutID)
	if err != nil {
		return entities.ReservationOffer{}, err
	}
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.ReservationOffer{}, err
	}
	return entities.ReservationOffer{
		HangoutID:    hangoutID,
		ID:           i.ID,
		UserID:       userID,
		SeatsOffered: i.SeatsOffered,
		Note:         i.Note,
		CreatedAt:    i.CreatedAt,
	}, nil
}

// inviteItem mirrors the code onto CodeIndex so joining by code is one query
type inviteItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	Code      string    `dynamodbav:"Code"`
	GroupID   string    `dynamodbav:"GroupID"`
	CreatedBy string    `dynamodbav:"CreatedBy"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	MaxUses   int       `dynamodbav:"MaxUses"`
	Uses      int       `dynamodbav:"Uses"`
	Revoked   bool      `dynamodbav:"Revoked"`
}

func newInviteItem(c entities.InviteCode) (*inviteItem, error) {
	pk, err := keys.GroupPK(c.GroupID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.InviteSK(c.Code)
	if err != nil {
		return nil, err
	}
	return &inviteItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeInvite,
		Code:      c.Code,
		GroupID:   c.GroupID.String(),
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt,
		MaxUses:   c.MaxUses,
		Uses:      c.Uses,
		Revoked:   c.Revoked,
	}, nil
}

func (i *inviteItem) toDomain() (entities.InviteCode, error) {
	groupID, err := valueobjects.NewGroupIDFromString(i.GroupID)
	if err != nil {
		return entities.InviteCode{}, err
	}
	createdBy, err := valueobjects.NewUserIDFromString(i.CreatedBy)
	if err != nil {
		return entities.InviteCode{}, err
	}
	return entities.InviteCode{
		Code:      i.Code,
		GroupID:   groupID,
		CreatedBy: createdBy,
		CreatedAt: i.CreatedAt,
		MaxUses:   i.MaxUses,
		Uses:      i.Uses,
		Revoked:   i.Revoked,
	}, nil
}

// refreshTokenItem carries a TTL epoch so DynamoDB reaps expired tokens
type refreshTokenItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	UserID    string    `dynamodbav:"UserID"`
	TokenHash string    `dynamodbav:"TokenHash"`
	Device    string    `dynamodbav:"Device,omitempty"`
	ExpiresAt time.Time `dynamodbav:"ExpiresAt"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	TTL       int64     `dynamodbav:"TTL"`
}

func newRefreshTokenItem(t entities.RefreshToken) (*refreshTokenItem, error) {
	pk, err := keys.UserPK(t.UserID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.RefreshTokenSK(t.TokenHash)
	if err != nil {
		return nil, err
	}
	return &refreshTokenItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeRefreshToken,
		UserID:    t.UserID.String(),
		TokenHash: t.TokenHash,
		Device:    t.Device,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
		TTL:       t.ExpiresAt.Unix(),
	}, nil
}

func (i *refreshTokenItem) toDomain() (entities.RefreshToken, error) {
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.RefreshToken{}, err
	}
	return entities.RefreshToken{
		UserID:    userID,
		TokenHash: i.TokenHash,
		Device:    i.Device,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}, nil
}

type verificationItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	UserID    string    `dynamodbav:"UserID"`
	Phone     string    `dynamodbav:"Phone"`
	Code      string    `dynamodbav:"VerificationCode"`
	ExpiresAt time.Time `dynamodbav:"ExpiresAt"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	TTL       int64     `dynamodbav:"TTL"`
}

func newVerificationItem(v entities.VerificationCode) (*verificationItem, error) {
	pk, err := keys.UserPK(v.UserID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.VerificationSK(v.Phone)
	if err != nil {
		return nil, err
	}
	return &verificationItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypeVerification,
		UserID:    v.UserID.String(),
		Phone:     v.Phone,
		Code:      v.Code,
		ExpiresAt: v.ExpiresAt,
		CreatedAt: v.CreatedAt,
		TTL:       v.ExpiresAt.Unix(),
	}, nil
}

func (i *verificationItem) toDomain() (entities.VerificationCode, error) {
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.VerificationCode{}, err
	}
	return entities.VerificationCode{
		UserID:    userID,
		Phone:     i.Phone,
		Code:      i.Code,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}, nil
}

type passwordResetItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	ItemType  string    `dynamodbav:"ItemType"`
	UserID    string    `dynamodbav:"UserID"`
	Email     string    `dynamodbav:"Email"`
	TokenHash string    `dynamodbav:"TokenHash"`
	ExpiresAt time.Time `dynamodbav:"ExpiresAt"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	TTL       int64     `dynamodbav:"TTL"`
}

func newPasswordResetItem(r entities.PasswordResetRequest) (*passwordResetItem, error) {
	pk, err := keys.UserPK(r.UserID)
	if err != nil {
		return nil, err
	}
	sk, err := keys.PasswordResetSK(r.Email)
	if err != nil {
		return nil, err
	}
	return &passwordResetItem{
		PK:        pk,
		SK:        sk,
		ItemType:  itemTypePasswordReset,
		UserID:    r.UserID.String(),
		Email:     r.Email,
		TokenHash: r.TokenHash,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		TTL:       r.ExpiresAt.Unix(),
	}, nil
}

func (i *passwordResetItem) toDomain() (entities.PasswordResetRequest, error) {
	userID, err := valueobjects.NewUserIDFromString(i.UserID)
	if err != nil {
		return entities.PasswordResetRequest{}, err
	}
	return entities.PasswordResetRequest{
		UserID:    userID,
		Email:     i.Email,
		TokenHash: i.TokenHash,
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}, nil
}

func seriesIDString(id valueobjects.SeriesID) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

func parseSeriesID(raw string) (valueobjects.SeriesID, error) {
	if raw == "" {
		return valueobjects.SeriesID{}, nil
	}
	return valueobjects.NewSeriesIDFromString(raw)
}

func parseHangoutIDs(raw []string) ([]valueobjects.HangoutID, error) {
	ids := make([]valueobjects.HangoutID, 0, len(raw))
	for _, r := range raw {
		id, err := valueobjects.NewHangoutIDFromString(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
