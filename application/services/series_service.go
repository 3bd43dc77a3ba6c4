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
)

// SeriesService turns standalone hangouts into recurring series and manages
// series membership.
type SeriesService struct {
	series    ports.SeriesRepository
	hangouts  ports.HangoutRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSeriesService creates a SeriesService
func NewSeriesService(
	series ports.SeriesRepository,
	hangouts ports.HangoutRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *SeriesService {
	return &SeriesService{
		series:    series,
		hangouts:  hangouts,
		publisher: publisher,
		logger:    logger,
	}
}

// SeriesDetail is a series with its member hangouts loaded
type SeriesDetail struct {
	Series  *entities.EventSeries
	Members []*entities.Hangout
}

// CreateFromHangout converts an existing hangout into a series by pairing
// it with a new part at the given window. The seed's metadata is cloned
// onto the new part; the whole thing commits in one transaction.
func (s *SeriesService) CreateFromHangout(ctx context.Context, seedID valueobjects.HangoutID, title string, nextWindow valueobjects.TimeWindow) (*entities.EventSeries, error) {
	seed, err := s.hangouts.GetHangout(ctx, seedID)
	if err != nil {
		return nil, err
	}

	next, err := entities.NewHangout(seed.Title(), nextWindow, seed.Visibility(), seed.GroupIDs(), seed.CreatedBy())
	if err != nil {
		return nil, err
	}
	next.SetDescription(seed.Description())
	next.SetLocation(seed.Location())
	next.SetMainImage(seed.MainImagePath())
	next.SetTicketInfo(seed.TicketInfo())

	series, err := entities.NewEventSeries(title, seed.GroupIDs(),
		[]valueobjects.HangoutID{seed.ID(), next.ID()})
	if err != nil {
		return nil, err
	}
	if err := seed.LinkSeries(series.ID()); err != nil {
		return nil, err
	}
	if err := next.LinkSeries(series.ID()); err != nil {
		return nil, err
	}

	members := []*entities.Hangout{seed, next}
	if err := s.series.CreateSeries(ctx, series, members, earliestStart(members)); err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}

	s.logger.Info("series created",
		zap.String("seriesID", series.ID().String()),
		zap.String("seed", seedID.String()),
	)
	if err := s.publisher.Publish(ctx, events.NewSeriesCreated(series.ID(), series.HangoutIDs())); err != nil {
		s.logger.Warn("failed to publish event", zap.Error(err))
	}
	return series, nil
}

// GetWithParts loads a series and every member hangout
func (s *SeriesService) GetWithParts(ctx context.Context, id valueobjects.SeriesID) (*SeriesDetail, error) {
	series, err := s.series.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	members := make([]*entities.Hangout, 0, len(series.HangoutIDs()))
	for _, hid := range series.HangoutIDs() {
		h, err := s.hangouts.GetHangout(ctx, hid)
		if err != nil {
			return nil, fmt.Errorf("failed to load series member: %w", err)
		}
		members = append(members, h)
	}
	return &SeriesDetail{Series: series, Members: members}, nil
}

// AddPart links an existing hangout into a series
func (s *SeriesService) AddPart(ctx context.Context, seriesID valueobjects.SeriesID, hangoutID valueobjects.HangoutID) error {
	series, err := s.series.GetSeries(ctx, seriesID)
	if err != nil {
		return err
	}
	h, err := s.hangouts.GetHangout(ctx, hangoutID)
	if err != nil {
		return err
	}
	if !series.AddPart(hangoutID) {
		return nil
	}
	if err := h.LinkSeries(seriesID); err != nil {
		return err
	}
	if err := s.series.SetSeriesLink(ctx, series, h); err != nil {
		return fmt.Errorf("failed to link part: %w", err)
	}
	return nil
}

// RemovePart unlinks a hangout from a series; the hangout itself survives
func (s *SeriesService) RemovePart(ctx context.Context, seriesID valueobjects.SeriesID, hangoutID valueobjects.HangoutID) error {
	series, err := s.series.GetSeries(ctx, seriesID)
	if err != nil {
		return err
	}
	h, err := s.hangouts.GetHangout(ctx, hangoutID)
	if err != nil {
		return err
	}
	if !series.RemovePart(hangoutID) {
		return nil
	}
	h.UnlinkSeries()
	if err := s.series.SetSeriesLink(ctx, series, h); err != nil {
		return fmt.Errorf("failed to unlink part: %w", err)
	}
	return nil
}

// DeleteSeries removes the series and unlinks all members
func (s *SeriesService) DeleteSeries(ctx context.Context, id valueobjects.SeriesID) error {
	detail, err := s.GetWithParts(ctx, id)
	if err != nil {
		return err
	}
	return s.series.DeleteSeries(ctx, detail.Series, detail.Members)
}

func earliestStart(members []*entities.Hangout) time.Time {
	earliest := members[0].Window().Start()
	for _, m := range members[1:] {
		if start := m.Window().Start(); start.Before(earliest) {
			earliest = start
		}
	}
	return earliest
}
