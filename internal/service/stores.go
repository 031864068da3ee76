package service

import (
	"context"
	"time"

	"clubhub/internal/models"

	"github.com/google/uuid"
)

// The interfaces below are satisfied by the postgres repositories in
// internal/repository.

type UserStore interface {
	UserReader
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type DepartmentStore interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
}

type ClubStore interface {
	ClubReader
	Create(ctx context.Context, club *models.Club) error
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	ListActive(ctx context.Context) ([]*models.Club, error)
	AddMember(ctx context.Context, userID, clubID int64, joinedAt time.Time) error
	RemoveMember(ctx context.Context, userID, clubID int64) error
	ListMembers(ctx context.Context, clubID int64) ([]*models.ClubMember, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListByClub(ctx context.Context, clubID int64) ([]*models.Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit uint64) ([]*models.Event, error)
	Delete(ctx context.Context, id int64) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	ListByClub(ctx context.Context, clubID int64, limit, offset int) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID int64, id uuid.UUID) error
}

// ClubNotifier fans a message out to every member of a club.
type ClubNotifier interface {
	NotifyClubMembers(ctx context.Context, clubID int64, title, body string) error
}
