package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubhub/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventService_CreateNotifiesMembers(t *testing.T) {
	f := newClubFixture(t)
	ctx := context.Background()
	club, err := f.svc.Create(ctx, &dto.ClubRequest{Name: "Chess"})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	events := newMemEvents()
	svc := NewEventService(events, f.svc, notifier, zap.NewNop())

	event, err := svc.Create(ctx, club.ID, 7, &dto.EventRequest{
		Title:    "Blitz night",
		Location: "Room 101",
		StartsAt: "2026-11-01T18:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), event.CreatedBy)
	assert.Equal(t, time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC), event.StartsAt.UTC())

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, club.ID, notifier.calls[0].clubID)
	assert.Equal(t, "New event in Chess: Blitz night", notifier.calls[0].title)
	assert.Contains(t, notifier.calls[0].body, "Room 101")
}

func TestEventService_CreateValidation(t *testing.T) {
	f := newClubFixture(t)
	ctx := context.Background()
	club, err := f.svc.Create(ctx, &dto.ClubRequest{Name: "Chess"})
	require.NoError(t, err)

	svc := NewEventService(newMemEvents(), f.svc, &recordingNotifier{}, zap.NewNop())

	_, err = svc.Create(ctx, club.ID, 1, &dto.EventRequest{Title: "x", StartsAt: "next friday"})
	assert.ErrorIs(t, err, ErrInvalidStartTime)

	_, err = svc.Create(ctx, 999, 1, &dto.EventRequest{Title: "x", StartsAt: "2026-11-01T18:00:00Z"})
	assert.ErrorIs(t, err, ErrClubNotFound)
}

func TestEventService_NotifyFailureDoesNotFailCreate(t *testing.T) {
	f := newClubFixture(t)
	ctx := context.Background()
	club, err := f.svc.Create(ctx, &dto.ClubRequest{Name: "Chess"})
	require.NoError(t, err)

	svc := NewEventService(newMemEvents(), f.svc, &recordingNotifier{err: errors.New("smtp down")}, zap.NewNop())

	_, err = svc.Create(ctx, club.ID, 1, &dto.EventRequest{Title: "Blitz", StartsAt: "2026-11-01T18:00:00Z"})
	assert.NoError(t, err)
}

func TestEventService_UpcomingAndDelete(t *testing.T) {
	f := newClubFixture(t)
	ctx := context.Background()
	club, err := f.svc.Create(ctx, &dto.ClubRequest{Name: "Chess"})
	require.NoError(t, err)

	svc := NewEventService(newMemEvents(), f.svc, &recordingNotifier{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	past, err := svc.Create(ctx, club.ID, 1, &dto.EventRequest{Title: "Past", StartsAt: "2026-10-01T18:00:00Z"})
	require.NoError(t, err)
	soon, err := svc.Create(ctx, club.ID, 1, &dto.EventRequest{Title: "Soon", StartsAt: "2026-10-18T18:00:00Z"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, club.ID, 1, &dto.EventRequest{Title: "Later", StartsAt: "2026-12-18T18:00:00Z"})
	require.NoError(t, err)

	upcoming, err := svc.Upcoming(ctx, 1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)

	byClub, err := svc.ListByClub(ctx, club.ID)
	require.NoError(t, err)
	assert.Len(t, byClub, 3)
	assert.Equal(t, past.ID, byClub[0].ID)

	_, err = svc.ListByClub(ctx, 999)
	assert.ErrorIs(t, err, ErrClubNotFound)

	require.NoError(t, svc.Delete(ctx, past.ID))
	assert.ErrorIs(t, svc.Delete(ctx, past.ID), ErrEventNotFound)
}

func TestAnnouncementService(t *testing.T) {
	f := newClubFixture(t)
	ctx := context.Background()
	club, err := f.svc.Create(ctx, &dto.ClubRequest{Name: "Chess"})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	store := newMemAnnouncementStore()
	svc := NewAnnouncementService(store, f.svc, notifier, zap.NewNop())

	a, err := svc.Create(ctx, club.ID, 3, &dto.AnnouncementRequest{Title: " Room change ", Body: "We meet in B12 now."})
	require.NoError(t, err)
	assert.Equal(t, "Room change", a.Title)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Chess: Room change", notifier.calls[0].title)
	assert.Equal(t, "We meet in B12 now.", notifier.calls[0].body)

	list, err := svc.ListByClub(ctx, club.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Create(ctx, 999, 3, &dto.AnnouncementRequest{Title: "x", Body: "y"})
	assert.ErrorIs(t, err, ErrClubNotFound)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrAnnouncementGone)
}
