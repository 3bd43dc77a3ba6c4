package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/domain/events"
	"inviter-backend/infrastructure/persistence/dynamodb"
	"inviter-backend/pkg/errors"
)

// HangoutService orchestrates hangout lifecycle, feeds, attendance and
// ticket participation.
type HangoutService struct {
	hangouts       ports.HangoutRepository
	carpool        ports.CarpoolRepository
	participations ports.ParticipationRepository
	publisher      ports.EventPublisher
	logger         *zap.Logger
}

// NewHangoutService creates a HangoutService
func NewHangoutService(
	hangouts ports.HangoutRepository,
	carpool ports.CarpoolRepository,
	participations ports.ParticipationRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *HangoutService {
	return &HangoutService{
		hangouts:       hangouts,
		carpool:        carpool,
		participations: participations,
		publisher:      publisher,
		logger:         logger,
	}
}

// CreateHangoutInput carries everything needed to create a hangout
type CreateHangoutInput struct {
	Title          string
	Description    string
	Window         valueobjects.TimeWindow
	Location       string
	Visibility     entities.HangoutVisibility
	GroupIDs       []valueobjects.GroupID
	MainImagePath  string
	TicketInfo     entities.TicketInfo
	ExternalSource string
	CreatedBy      valueobjects.UserID
}

// CreateHangout creates a hangout and its per-group feed pointers. When the
// hangout comes from an external import, an existing hangout with the same
// source key is returned instead of creating a duplicate.
func (s *HangoutService) CreateHangout(ctx context.Context, input CreateHangoutInput) (*entities.Hangout, error) {
	if input.ExternalSource != "" {
		existing, err := s.hangouts.FindByExternalSource(ctx, input.ExternalSource)
		if err == nil {
			return existing, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	h, err := entities.NewHangout(input.Title, input.Window, input.Visibility, input.GroupIDs, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	h.SetDescription(input.Description)
	h.SetLocation(input.Location)
	h.SetMainImage(input.MainImagePath)
	h.SetTicketInfo(input.TicketInfo)
	h.SetExternalSource(input.ExternalSource)

	if err := s.hangouts.CreateHangout(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to create hangout: %w", err)
	}

	s.logger.Info("hangout created",
		zap.String("hangoutID", h.ID().String()),
		zap.Int("groups", len(h.GroupIDs())),
	)
	s.publish(ctx, events.NewHangoutCreated(h.ID(), h.GroupIDs(), h.Title(), h.CreatedBy()))
	return h, nil
}

// GetHangout returns the canonical hangout
func (s *HangoutService) GetHangout(ctx context.Context, id valueobjects.HangoutID) (*entities.Hangout, error) {
	return s.hangouts.GetHangout(ctx, id)
}

// GetHangoutDetail returns the hangout with its full item collection
func (s *HangoutService) GetHangoutDetail(ctx context.Context, id valueobjects.HangoutID) (*dynamodb.HangoutDetail, error) {
	return s.hangouts.GetHangoutDetail(ctx, id)
}

// UpdateHangoutInput carries optional hangout changes; nil fields are left
// untouched.
type UpdateHangoutInput struct {
	Title         *string
	Description   *string
	Window        *valueobjects.TimeWindow
	Location      *string
	Visibility    *entities.HangoutVisibility
	MainImagePath *string
	TicketInfo    *entities.TicketInfo
}

// UpdateHangout applies changes to the canonical row, then propagates them
// to every group pointer.
func (s *HangoutService) UpdateHangout(ctx context.Context, id valueobjects.HangoutID, input UpdateHangoutInput) (*entities.Hangout, error) {
	h, err := s.hangouts.GetHangout(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		if err := h.SetTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		h.SetDescription(*input.Description)
	}
	if input.Window != nil {
		if err := h.Reschedule(*input.Window); err != nil {
			return nil, err
		}
	}
	if input.Location != nil {
		h.SetLocation(*input.Location)
	}
	if input.Visibility != nil {
		if err := h.SetVisibility(*input.Visibility); err != nil {
			return nil, err
		}
	}
	if input.MainImagePath != nil {
		h.SetMainImage(*input.MainImagePath)
	}
	if input.TicketInfo != nil {
		h.SetTicketInfo(*input.TicketInfo)
	}

	if err := s.hangouts.UpdateHangout(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to update hangout: %w", err)
	}
	s.publish(ctx, events.NewHangoutUpdated(h.ID(), h.Title()))
	return h, nil
}

// DeleteHangout removes a hangout, its pointers and its item collection
func (s *HangoutService) DeleteHangout(ctx context.Context, id valueobjects.HangoutID) error {
	h, err := s.hangouts.GetHangout(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hangouts.DeleteHangout(ctx, h); err != nil {
		return fmt.Errorf("failed to delete hangout: %w", err)
	}
	s.publish(ctx, events.NewHangoutDeleted(id))
	return nil
}

// UpcomingFeed returns one page of a group's future feed
func (s *HangoutService) UpcomingFeed(ctx context.Context, groupID valueobjects.GroupID, limit int32, token string) (dynamodb.Page[dynamodb.FeedItem], error) {
	return s.hangouts.ListUpcoming(ctx, groupID, time.Now(), limit, token)
}

// PastFeed returns one page of a group's past feed
func (s *HangoutService) PastFeed(ctx context.Context, groupID valueobjects.GroupID, limit int32, token string) (dynamodb.Page[dynamodb.FeedItem], error) {
	return s.hangouts.ListPast(ctx, groupID, time.Now(), limit, token)
}

// InProgress returns the group's currently running hangouts
func (s *HangoutService) InProgress(ctx context.Context, groupID valueobjects.GroupID) ([]entities.HangoutPointer, error) {
	return s.hangouts.ListInProgress(ctx, groupID, time.Now())
}

// SetInterest records a user's attendance signal and keeps the hangout's
// participant count in step: the count only moves when the user crosses the
// "going" line in either direction.
func (s *HangoutService) SetInterest(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID, status entities.InterestStatus) error {
	h, err := s.hangouts.GetHangout(ctx, hangoutID)
	if err != nil {
		return err
	}

	wasGoing := false
	previous, err := s.carpool.GetInterestLevel(ctx, hangoutID, userID)
	switch {
	case err == nil:
		wasGoing = previous.Status == entities.InterestGoing
	case errors.IsNotFound(err):
	default:
		return err
	}

	if err := s.carpool.SetInterestLevel(ctx, entities.InterestLevel{
		HangoutID: hangoutID,
		UserID:    userID,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to set interest level: %w", err)
	}

	isGoing := status == entities.InterestGoing
	delta := 0
	if isGoing && !wasGoing {
		delta = 1
	} else if !isGoing && wasGoing {
		delta = -1
	}
	if delta == 0 {
		return nil
	}
	if err := s.hangouts.AddParticipantDelta(ctx, h, delta); err != nil {
		return fmt.Errorf("failed to adjust participant count: %w", err)
	}
	return nil
}

// SetAttribute sets a named attribute on a hangout
func (s *HangoutService) SetAttribute(ctx context.Context, a entities.HangoutAttribute) error {
	return s.carpool.SetAttribute(ctx, a)
}

// DeleteAttribute removes a named attribute from a hangout
func (s *HangoutService) DeleteAttribute(ctx context.Context, hangoutID valueobjects.HangoutID, attributeID string) error {
	return s.carpool.DeleteAttribute(ctx, hangoutID, attributeID)
}

// RecordParticipation saves a ticket/reservation record for a hangout
func (s *HangoutService) RecordParticipation(ctx context.Context, p entities.Participation) error {
	return s.participations.SaveParticipation(ctx, p)
}

// ListParticipations returns all participation records for a hangout
func (s *HangoutService) ListParticipations(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.Participation, error) {
	return s.participations.ListParticipations(ctx, hangoutID)
}

// RemoveParticipation deletes a participation record
func (s *HangoutService) RemoveParticipation(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error {
	return s.participations.DeleteParticipation(ctx, hangoutID, id)
}

// OfferReservation saves a spare ticket/reservation offer
func (s *HangoutService) OfferReservation(ctx context.Context, o entities.ReservationOffer) error {
	return s.participations.SaveOffer(ctx, o)
}

// ListReservationOffers returns all offers on a hangout
func (s *HangoutService) ListReservationOffers(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.ReservationOffer, error) {
	return s.participations.ListOffers(ctx, hangoutID)
}

// WithdrawReservationOffer deletes an offer
func (s *HangoutService) WithdrawReservationOffer(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error {
	return s.participations.DeleteOffer(ctx, hangoutID, id)
}

// MarkReminderSent flips the reminder flag; invoked by the reminder job
func (s *HangoutService) MarkReminderSent(ctx context.Context, id valueobjects.HangoutID) error {
	return s.hangouts.MarkReminderSent(ctx, id)
}

func (s *HangoutService) publish(ctx context.Context, evt events.DomainEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("eventType", evt.GetEventType()),
			zap.Error(err),
		)
	}
}
