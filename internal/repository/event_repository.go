package repository

import (
	"context"
	"time"

	"clubhub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EventRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEventRepository(db *pgxpool.Pool, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := squirrel.Insert("events").
		Columns("club_id", "title", "description", "location", "starts_at", "created_by", "created_at").
		Values(event.ClubID, event.Title, event.Description, event.Location, event.StartsAt, event.CreatedBy, event.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return mapError(r.db.QueryRow(ctx, sql, args...).Scan(&event.ID))
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	events, err := r.list(ctx, squirrel.Eq{"id": id}, "id", 1)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return events[0], nil
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID int64) ([]*models.Event, error) {
	return r.list(ctx, squirrel.Eq{"club_id": clubID}, "starts_at ASC", 0)
}

// ListUpcoming returns events starting at or after from, soonest first.
func (r *EventRepository) ListUpcoming(ctx context.Context, from time.Time, limit uint64) ([]*models.Event, error) {
	return r.list(ctx, squirrel.GtOrEq{"starts_at": from}, "starts_at ASC", limit)
}

func (r *EventRepository) list(ctx context.Context, where squirrel.Sqlizer, orderBy string, limit uint64) ([]*models.Event, error) {
	query := squirrel.Select("id", "club_id", "title", "description", "location", "starts_at", "created_by", "created_at").
		From("events").
		Where(where).
		OrderBy(orderBy).
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		query = query.Limit(limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.ClubID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("events").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
