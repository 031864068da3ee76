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

type AnnouncementService struct {
	annRepo  AnnouncementStore
	clubs    *ClubService
	notifier ClubNotifier
	logger   *zap.Logger
}

func NewAnnouncementService(annRepo AnnouncementStore, clubs *ClubService, notifier ClubNotifier, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		annRepo:  annRepo,
		clubs:    clubs,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *AnnouncementService) ListByClub(ctx context.Context, clubID int64, limit, offset int) ([]*models.Announcement, error) {
	if _, err := s.clubs.Get(ctx, clubID); err != nil {
		return nil, err
	}
	return s.annRepo.ListByClub(ctx, clubID, clampLimit(limit, 20, 100), max(offset, 0))
}

// Create posts an announcement and notifies the club's members.
func (s *AnnouncementService) Create(ctx context.Context, clubID, userID int64, req *dto.AnnouncementRequest) (*models.Announcement, error) {
	club, err := s.clubs.Get(ctx, clubID)
	if err != nil {
		return nil, err
	}

	a := &models.Announcement{
		ClubID:    clubID,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}

	if err := s.annRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Announcement created", zap.Int64("announcement_id", a.ID), zap.Int64("club_id", clubID))

	title := fmt.Sprintf("%s: %s", club.Name, a.Title)
	if err := s.notifier.NotifyClubMembers(ctx, clubID, title, a.Body); err != nil {
		s.logger.Error("Failed to notify club members", zap.Int64("announcement_id", a.ID), zap.Error(err))
	}

	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	if err := s.annRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementGone
		}
		return err
	}
	return nil
}
