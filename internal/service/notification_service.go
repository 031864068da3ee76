package service

import (
	"context"
	"errors"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"
	"clubhub/pkg/mailer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberLister is the part of the club repository notifications need.
type MemberLister interface {
	ListMembers(ctx context.Context, clubID int64) ([]*models.ClubMember, error)
}

type NotificationService struct {
	notifRepo NotificationStore
	members   MemberLister
	mailer    mailer.Mailer
	logger    *zap.Logger
}

func NewNotificationService(notifRepo NotificationStore, members MemberLister, m mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		members:   members,
		mailer:    m,
		logger:    logger,
	}
}

// NotifyClubMembers stores one notification per member and emails each of
// them. Email failures are logged only.
func (s *NotificationService) NotifyClubMembers(ctx context.Context, clubID int64, title, body string) error {
	members, err := s.members.ListMembers(ctx, clubID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	now := time.Now()
	notifications := make([]*models.Notification, 0, len(members))
	for _, m := range members {
		notifications = append(notifications, &models.Notification{
			ID:        uuid.New(),
			UserID:    m.UserID,
			Title:     title,
			Body:      body,
			CreatedAt: now,
		})
	}

	if err := s.notifRepo.CreateBatch(ctx, notifications); err != nil {
		return err
	}

	failed := 0
	for _, m := range members {
		if err := s.mailer.Send(ctx, m.Email, title, body); err != nil {
			failed++
			s.logger.Warn("Failed to email notification",
				zap.Int64("user_id", m.UserID),
				zap.Int64("club_id", clubID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Club members notified",
		zap.Int64("club_id", clubID),
		zap.Int("recipients", len(members)),
		zap.Int("email_failures", failed),
	)
	return nil
}

func (s *NotificationService) ListMine(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, unreadOnly, clampLimit(limit, 20, 100), max(offset, 0))
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, id uuid.UUID) error {
	if err := s.notifRepo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func clampLimit(limit, def, ceiling int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, ceiling)
}
