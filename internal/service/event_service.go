package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubhub/internal/dto"
	"clubhub/internal/models"
	"clubhub/internal/repository"

	"go.uber.org/zap"
)

type EventService struct {
	eventRepo EventStore
	clubs     *ClubService
	notifier  ClubNotifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewEventService(eventRepo EventStore, clubs *ClubService, notifier ClubNotifier, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		clubs:     clubs,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *EventService) ListByClub(ctx context.Context, clubID int64) ([]*models.Event, error) {
	if _, err := s.clubs.Get(ctx, clubID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByClub(ctx, clubID)
}

// Upcoming lists events that have not started yet across all clubs.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	return s.eventRepo.ListUpcoming(ctx, s.now(), uint64(clampLimit(limit, 20, 100)))
}

// Create schedules an event and notifies the club's members.
func (s *EventService) Create(ctx context.Context, clubID, userID int64, req *dto.EventRequest) (*models.Event, error) {
	club, err := s.clubs.Get(ctx, clubID)
	if err != nil {
		return nil, err
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, ErrInvalidStartTime
	}

	event := &models.Event{
		ClubID:      clubID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		StartsAt:    startsAt,
		CreatedBy:   userID,
		CreatedAt:   s.now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Event created", zap.Int64("event_id", event.ID), zap.Int64("club_id", clubID))

	title := fmt.Sprintf("New event in %s: %s", club.Name, event.Title)
	body := fmt.Sprintf("%s starts at %s.", event.Title, event.StartsAt.Format("02 Jan 2006 15:04 MST"))
	if event.Location != "" {
		body += " Location: " + event.Location + "."
	}
	if err := s.notifier.NotifyClubMembers(ctx, clubID, title, body); err != nil {
		s.logger.Error("Failed to notify club members", zap.Int64("event_id", event.ID), zap.Error(err))
	}

	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}
