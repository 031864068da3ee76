package repository

import (
	"context"

	"clubhub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AnnouncementRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAnnouncementRepository(db *pgxpool.Pool, logger *zap.Logger) *AnnouncementRepository {
	return &AnnouncementRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := squirrel.Insert("announcements").
		Columns("club_id", "title", "body", "created_by", "created_at").
		Values(a.ClubID, a.Title, a.Body, a.CreatedBy, a.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return mapError(r.db.QueryRow(ctx, sql, args...).Scan(&a.ID))
}

func (r *AnnouncementRepository) ListByClub(ctx context.Context, clubID int64, limit, offset int) ([]*models.Announcement, error) {
	query := squirrel.Select("id", "club_id", "title", "body", "created_by", "created_at").
		From("announcements").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.ClubID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, &a)
	}

	return announcements, rows.Err()
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("announcements").
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
