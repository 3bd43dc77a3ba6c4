package ports

import (
	"context"
	"time"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/dynamodb"
)

// Repository ports mirror the DynamoDB repositories so services can be
// tested against mocks. The page and read-model types come from the
// persistence package; they are storage-shaped on purpose, since the
// cursor format is part of the API contract.

// GroupRepository persists groups and their memberships
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *entities.Group, creator valueobjects.UserID) error
	GetGroup(ctx context.Context, id valueobjects.GroupID) (*entities.Group, error)
	UpdateGroup(ctx context.Context, group *entities.Group) error
	SyncMembershipProjections(ctx context.Context, group *entities.Group) error
	DeleteGroup(ctx context.Context, id valueobjects.GroupID) error
	AddMember(ctx context.Context, membership entities.GroupMembership) error
	RemoveMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) error
	GetMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) (entities.GroupMembership, error)
	ListMembers(ctx context.Context, groupID valueobjects.GroupID, limit int32, token string) (dynamodb.Page[entities.GroupMembership], error)
	ListGroupsForUser(ctx context.Context, userID valueobjects.UserID) ([]entities.GroupMembership, error)
}

// HangoutRepository persists hangouts, their pointers and item collections
type HangoutRepository interface {
	CreateHangout(ctx context.Context, h *entities.Hangout) error
	GetHangout(ctx context.Context, id valueobjects.HangoutID) (*entities.Hangout, error)
	UpdateHangout(ctx context.Context, h *entities.Hangout) error
	DeleteHangout(ctx context.Context, h *entities.Hangout) error
	GetHangoutDetail(ctx context.Context, id valueobjects.HangoutID) (*dynamodb.HangoutDetail, error)
	FindByExternalSource(ctx context.Context, source string) (*entities.Hangout, error)
	MarkReminderSent(ctx context.Context, id valueobjects.HangoutID) error
	AddParticipantDelta(ctx context.Context, h *entities.Hangout, delta int) error
	ListUpcoming(ctx context.Context, groupID valueobjects.GroupID, now time.Time, limit int32, token string) (dynamodb.Page[dynamodb.FeedItem], error)
	ListPast(ctx context.Context, groupID valueobjects.GroupID, now time.Time, limit int32, token string) (dynamodb.Page[dynamodb.FeedItem], error)
	ListInProgress(ctx context.Context, groupID valueobjects.GroupID, now time.Time) ([]entities.HangoutPointer, error)
}

// SeriesRepository persists event series and their group pointers
type SeriesRepository interface {
	CreateSeries(ctx context.Context, series *entities.EventSeries, members []*entities.Hangout, startTime time.Time) error
	GetSeries(ctx context.Context, id valueobjects.SeriesID) (*entities.EventSeries, error)
	UpdateSeries(ctx context.Context, series *entities.EventSeries, startTime time.Time) error
	SetSeriesLink(ctx context.Context, series *entities.EventSeries, h *entities.Hangout) error
	DeleteSeries(ctx context.Context, series *entities.EventSeries, members []*entities.Hangout) error
}

// PollRepository persists polls, options and votes
type PollRepository interface {
	CreatePoll(ctx context.Context, poll entities.Poll, options []entities.PollOption) error
	GetPollDetail(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) (entities.PollDetail, error)
	ListPolls(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.PollDetail, error)
	CastVote(ctx context.Context, vote entities.Vote, multiSelect bool) error
	RemoveVote(ctx context.Context, vote entities.Vote) error
	DeletePoll(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) error
}

// CarpoolRepository persists cars, seat claims, ride requests, interest
// levels and hangout attributes
type CarpoolRepository interface {
	CreateCar(ctx context.Context, car entities.Car) error
	GetCar(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID) (entities.Car, error)
	ClaimSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID, note string) (entities.Car, error)
	ReleaseSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID) (entities.Car, error)
	DeleteCar(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID) error
	ListCarpool(ctx context.Context, hangoutID valueobjects.HangoutID) ([]dynamodb.CarDetail, error)
	SetNeedsRide(ctx context.Context, n entities.NeedsRide) error
	ClearNeedsRide(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) error
	SetInterestLevel(ctx context.Context, level entities.InterestLevel) error
	GetInterestLevel(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) (entities.InterestLevel, error)
	SetAttribute(ctx context.Context, a entities.HangoutAttribute) error
	DeleteAttribute(ctx context.Context, hangoutID valueobjects.HangoutID, attributeID string) error
}

// ParticipationRepository persists ticket/reservation records and offers
type ParticipationRepository interface {
	SaveParticipation(ctx context.Context, p entities.Participation) error
	GetParticipation(ctx context.Context, hangoutID valueobjects.HangoutID, id string) (entities.Participation, error)
	ListParticipations(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.Participation, error)
	DeleteParticipation(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error
	SaveOffer(ctx context.Context, o entities.ReservationOffer) error
	ListOffers(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.ReservationOffer, error)
	DeleteOffer(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error
}

// InviteRepository persists group invite codes
type InviteRepository interface {
	CreateInvite(ctx context.Context, groupID valueobjects.GroupID, createdBy valueobjects.UserID, maxUses int) (entities.InviteCode, error)
	GetByCode(ctx context.Context, code string) (entities.InviteCode, error)
	ConsumeInvite(ctx context.Context, code string) (entities.InviteCode, error)
	RevokeInvite(ctx context.Context, code string) error
	ListInvites(ctx context.Context, groupID valueobjects.GroupID) ([]entities.InviteCode, error)
}

// AuthRepository persists refresh tokens, verification codes and password
// reset requests
type AuthRepository interface {
	SaveRefreshToken(ctx context.Context, t entities.RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (entities.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userID valueobjects.UserID, tokenHash string) error
	DeleteAllRefreshTokens(ctx context.Context, userID valueobjects.UserID) error
	SaveVerificationCode(ctx context.Context, v entities.VerificationCode) error
	GetVerificationCode(ctx context.Context, userID valueobjects.UserID, phone string) (entities.VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, userID valueobjects.UserID, phone string) error
	SavePasswordReset(ctx context.Context, p entities.PasswordResetRequest) error
	GetPasswordResetByHash(ctx context.Context, tokenHash string) (entities.PasswordResetRequest, error)
	DeletePasswordReset(ctx context.Context, userID valueobjects.UserID, email string) error
}
