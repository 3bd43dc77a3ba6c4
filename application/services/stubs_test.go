package services

import (
	"context"
	"time"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/domain/events"
	"inviter-backend/pkg/errors"
)

// Test stubs embed the port interface so only the methods a test exercises
// need implementations; an unexpected call panics and fails the test loudly.

type capturingPublisher struct {
	published []events.DomainEvent
	fail      error
}

func (p *capturingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, evts...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.GetEventType()
	}
	return out
}

type stubHangoutRepo struct {
	ports.HangoutRepository

	hangouts map[string]*entities.Hangout
	created  []*entities.Hangout
	updated  []*entities.Hangout
	deltas   []int
	bySource map[string]*entities.Hangout
}

func newStubHangoutRepo() *stubHangoutRepo {
	return &stubHangoutRepo{
		hangouts: make(map[string]*entities.Hangout),
		bySource: make(map[string]*entities.Hangout),
	}
}

func (s *stubHangoutRepo) add(h *entities.Hangout) {
	s.hangouts[h.ID().String()] = h
	if h.ExternalSource() != "" {
		s.bySource[h.ExternalSource()] = h
	}
}

func (s *stubHangoutRepo) CreateHangout(_ context.Context, h *entities.Hangout) error {
	s.created = append(s.created, h)
	s.add(h)
	return nil
}

func (s *stubHangoutRepo) GetHangout(_ context.Context, id valueobjects.HangoutID) (*entities.Hangout, error) {
	h, ok := s.hangouts[id.String()]
	if !ok {
		return nil, errors.NewNotFoundError("hangout")
	}
	return h, nil
}

func (s *stubHangoutRepo) UpdateHangout(_ context.Context, h *entities.Hangout) error {
	s.updated = append(s.updated, h)
	s.add(h)
	return nil
}

func (s *stubHangoutRepo) DeleteHangout(_ context.Context, h *entities.Hangout) error {
	delete(s.hangouts, h.ID().String())
	return nil
}

func (s *stubHangoutRepo) FindByExternalSource(_ context.Context, source string) (*entities.Hangout, error) {
	h, ok := s.bySource[source]
	if !ok {
		return nil, errors.NewNotFoundError("hangout")
	}
	return h, nil
}

func (s *stubHangoutRepo) AddParticipantDelta(_ context.Context, _ *entities.Hangout, delta int) error {
	s.deltas = append(s.deltas, delta)
	return nil
}

type stubCarpoolRepo struct {
	ports.CarpoolRepository

	interest map[string]entities.InterestLevel
	cars     map[string]entities.Car
	deleted  []string
}

func newStubCarpoolRepo() *stubCarpoolRepo {
	return &stubCarpoolRepo{
		interest: make(map[string]entities.InterestLevel),
		cars:     make(map[string]entities.Car),
	}
}

func interestKey(hangoutID valueobjects.HangoutID, userID valueobjects.UserID) string {
	return hangoutID.String() + "/" + userID.String()
}

func (s *stubCarpoolRepo) GetInterestLevel(_ context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) (entities.InterestLevel, error) {
	level, ok := s.interest[interestKey(hangoutID, userID)]
	if !ok {
		return entities.InterestLevel{}, errors.NewNotFoundError("interest level")
	}
	return level, nil
}

func (s *stubCarpoolRepo) SetInterestLevel(_ context.Context, level entities.InterestLevel) error {
	s.interest[interestKey(level.HangoutID, level.UserID)] = level
	return nil
}

func (s *stubCarpoolRepo) GetCar(_ context.Context, _ valueobjects.HangoutID, carID valueobjects.CarID) (entities.Car, error) {
	car, ok := s.cars[carID.String()]
	if !ok {
		return entities.Car{}, errors.NewNotFoundError("car")
	}
	return car, nil
}

func (s *stubCarpoolRepo) DeleteCar(_ context.Context, _ valueobjects.HangoutID, carID valueobjects.CarID) error {
	s.deleted = append(s.deleted, carID.String())
	delete(s.cars, carID.String())
	return nil
}

func (s *stubCarpoolRepo) CreateCar(_ context.Context, car entities.Car) error {
	if _, exists := s.cars[car.CarID.String()]; exists {
		return errors.NewConflictError("car already exists")
	}
	s.cars[car.CarID.String()] = car
	return nil
}

type stubGroupRepo struct {
	ports.GroupRepository

	groups  map[string]*entities.Group
	members map[string]entities.GroupMembership
	updated []*entities.Group
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{
		groups:  make(map[string]*entities.Group),
		members: make(map[string]entities.GroupMembership),
	}
}

func memberKey(groupID valueobjects.GroupID, userID valueobjects.UserID) string {
	return groupID.String() + "/" + userID.String()
}

func (s *stubGroupRepo) CreateGroup(_ context.Context, group *entities.Group, creator valueobjects.UserID) error {
	s.groups[group.ID().String()] = group
	s.members[memberKey(group.ID(), creator)] = entities.NewGroupMembership(group, creator, entities.GroupRoleAdmin)
	return nil
}

func (s *stubGroupRepo) GetGroup(_ context.Context, id valueobjects.GroupID) (*entities.Group, error) {
	group, ok := s.groups[id.String()]
	if !ok {
		return nil, errors.NewNotFoundError("group")
	}
	return group, nil
}

func (s *stubGroupRepo) UpdateGroup(_ context.Context, group *entities.Group) error {
	s.updated = append(s.updated, group)
	s.groups[group.ID().String()] = group
	return nil
}

func (s *stubGroupRepo) GetMember(_ context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) (entities.GroupMembership, error) {
	m, ok := s.members[memberKey(groupID, userID)]
	if !ok {
		return entities.GroupMembership{}, errors.NewNotFoundError("group membership")
	}
	return m, nil
}

func (s *stubGroupRepo) AddMember(_ context.Context, membership entities.GroupMembership) error {
	key := memberKey(membership.GroupID, membership.UserID)
	if _, exists := s.members[key]; exists {
		return errors.NewConflictError("user is already a member of this group")
	}
	s.members[key] = membership
	return nil
}

type stubInviteRepo struct {
	ports.InviteRepository

	invites  map[string]entities.InviteCode
	consumed []string
	nextCode string
}

func newStubInviteRepo() *stubInviteRepo {
	return &stubInviteRepo{invites: make(map[string]entities.InviteCode), nextCode: "TESTCODE"}
}

func (s *stubInviteRepo) CreateInvite(_ context.Context, groupID valueobjects.GroupID, createdBy valueobjects.UserID, maxUses int) (entities.InviteCode, error) {
	invite := entities.InviteCode{
		Code:      s.nextCode,
		GroupID:   groupID,
		CreatedBy: createdBy,
		MaxUses:   maxUses,
	}
	s.invites[invite.Code] = invite
	return invite, nil
}

func (s *stubInviteRepo) GetByCode(_ context.Context, code string) (entities.InviteCode, error) {
	invite, ok := s.invites[code]
	if !ok {
		return entities.InviteCode{}, errors.NewNotFoundError("invite code")
	}
	return invite, nil
}

func (s *stubInviteRepo) ConsumeInvite(_ context.Context, code string) (entities.InviteCode, error) {
	invite, ok := s.invites[code]
	if !ok {
		return entities.InviteCode{}, errors.NewNotFoundError("invite code")
	}
	if !invite.Usable() {
		return entities.InviteCode{}, errors.NewForbiddenError("invite code is no longer usable")
	}
	invite.Uses++
	s.invites[code] = invite
	s.consumed = append(s.consumed, code)
	return invite, nil
}

type stubSeriesRepo struct {
	ports.SeriesRepository

	series  map[string]*entities.EventSeries
	created []*entities.EventSeries
	members map[string][]*entities.Hangout
}

func newStubSeriesRepo() *stubSeriesRepo {
	return &stubSeriesRepo{
		series:  make(map[string]*entities.EventSeries),
		members: make(map[string][]*entities.Hangout),
	}
}

func (s *stubSeriesRepo) CreateSeries(_ context.Context, series *entities.EventSeries, members []*entities.Hangout, _ time.Time) error {
	s.series[series.ID().String()] = series
	s.created = append(s.created, series)
	s.members[series.ID().String()] = members
	return nil
}

func (s *stubSeriesRepo) GetSeries(_ context.Context, id valueobjects.SeriesID) (*entities.EventSeries, error) {
	series, ok := s.series[id.String()]
	if !ok {
		return nil, errors.NewNotFoundError("event series")
	}
	return series, nil
}

type stubPollRepo struct {
	ports.PollRepository

	details map[string]entities.PollDetail
	votes   []entities.Vote
	multi   []bool
}

func newStubPollRepo() *stubPollRepo {
	return &stubPollRepo{details: make(map[string]entities.PollDetail)}
}

func (s *stubPollRepo) CreatePoll(_ context.Context, poll entities.Poll, options []entities.PollOption) error {
	s.details[poll.PollID.String()] = entities.PollDetail{Poll: poll, Options: options}
	return nil
}

func (s *stubPollRepo) GetPollDetail(_ context.Context, _ valueobjects.HangoutID, pollID valueobjects.PollID) (entities.PollDetail, error) {
	detail, ok := s.details[pollID.String()]
	if !ok {
		return entities.PollDetail{}, errors.NewNotFoundError("poll")
	}
	return detail, nil
}

func (s *stubPollRepo) CastVote(_ context.Context, vote entities.Vote, multiSelect bool) error {
	s.votes = append(s.votes, vote)
	s.multi = append(s.multi, multiSelect)
	return nil
}
