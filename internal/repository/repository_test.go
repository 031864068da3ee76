package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"clubhub/internal/models"
	"clubhub/migrations"
	"clubhub/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestPool connects to CLUBHUB_TEST_DSN, applies the schema and empties
// every table. The test is skipped when the variable is unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("CLUBHUB_TEST_DSN")
	if dsn == "" {
		t.Skip("CLUBHUB_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, migrations.FS, zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE notifications, announcements, events, club_memberships, clubs, users, departments RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestRepositories_Integration(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	logger := zap.NewNop()
	now := time.Now().UTC().Truncate(time.Microsecond)

	depts := NewDepartmentRepository(pool, logger)
	users := NewUserRepository(pool, logger)
	clubs := NewClubRepository(pool, logger)
	events := NewEventRepository(pool, logger)
	notifs := NewNotificationRepository(pool, logger)

	cs := &models.Department{Name: "CS", CreatedAt: now}
	require.NoError(t, depts.Create(ctx, cs))
	assert.ErrorIs(t, depts.Create(ctx, &models.Department{Name: "CS", CreatedAt: now}), ErrDuplicate)

	ada := &models.User{Username: "ada", Email: "ada@uni.edu", Password: "x", Role: models.RoleStudent, DepartmentID: &cs.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, ada))

	got, err := users.GetByIDWithDepartment(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS", got.DepartmentName())

	_, err = users.GetByEmail(ctx, "nobody@uni.edu")
	assert.ErrorIs(t, err, ErrNotFound)

	chess := &models.Club{Name: "Chess", DepartmentID: &cs.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	drama := &models.Club{Name: "Drama", IsActive: false, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, clubs.Create(ctx, chess))
	require.NoError(t, clubs.Create(ctx, drama))

	all, err := clubs.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CS", all[0].DepartmentName)
	assert.Equal(t, "", all[1].DepartmentName)

	active, err := clubs.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, clubs.AddMember(ctx, ada.ID, chess.ID, now))
	assert.ErrorIs(t, clubs.AddMember(ctx, ada.ID, chess.ID, now), ErrDuplicate)
	assert.ErrorIs(t, clubs.AddMember(ctx, 9999, chess.ID, now), ErrForeignKey)

	mine, err := clubs.ListByMember(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, chess.ID, mine[0].ID)

	members, err := clubs.ListMembers(ctx, chess.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "ada@uni.edu", members[0].Email)

	event := &models.Event{ClubID: chess.ID, Title: "Blitz", StartsAt: now.Add(time.Hour), CreatedBy: ada.ID, CreatedAt: now}
	require.NoError(t, events.Create(ctx, event))
	upcoming, err := events.ListUpcoming(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)

	n := &models.Notification{ID: uuid.New(), UserID: ada.ID, Title: "t", Body: "b", CreatedAt: now}
	require.NoError(t, notifs.CreateBatch(ctx, []*models.Notification{n}))
	assert.ErrorIs(t, notifs.MarkRead(ctx, ada.ID+1, n.ID), ErrNotFound)
	require.NoError(t, notifs.MarkRead(ctx, ada.ID, n.ID))
	unread, err := notifs.ListByUser(ctx, ada.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, clubs.RemoveMember(ctx, ada.ID, chess.ID))
	assert.ErrorIs(t, clubs.RemoveMember(ctx, ada.ID, chess.ID), ErrNotFound)
	require.NoError(t, clubs.Delete(ctx, drama.ID))
	assert.ErrorIs(t, clubs.Delete(ctx, drama.ID), ErrNotFound)
}
