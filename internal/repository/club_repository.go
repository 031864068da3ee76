package repository

import (
	"context"
	"time"

	"clubhub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var clubColumns = []string{
	"c.id", "c.name", "c.description", "c.department_id", "c.is_active", "c.created_at", "c.updated_at",
	"COALESCE(d.name, '')",
}

type ClubRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClubRepository(db *pgxpool.Pool, logger *zap.Logger) *ClubRepository {
	return &ClubRepository{
		db:     db,
		logger: logger,
	}
}

func selectClubs() squirrel.SelectBuilder {
	return squirrel.Select(clubColumns...).
		From("clubs c").
		LeftJoin("departments d ON d.id = c.department_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	if err := row.Scan(
		&club.ID, &club.Name, &club.Description, &club.DepartmentID, &club.IsActive, &club.CreatedAt, &club.UpdatedAt,
		&club.DepartmentName,
	); err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) queryClubs(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Club, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}

	return clubs, rows.Err()
}

func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := squirrel.Insert("clubs").
		Columns("name", "description", "department_id", "is_active", "created_at", "updated_at").
		Values(club.Name, club.Description, club.DepartmentID, club.IsActive, club.CreatedAt, club.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return mapError(r.db.QueryRow(ctx, sql, args...).Scan(&club.ID))
}

func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	query := squirrel.Update("clubs").
		Set("name", club.Name).
		Set("description", club.Description).
		Set("department_id", club.DepartmentID).
		Set("is_active", club.IsActive).
		Set("updated_at", club.UpdatedAt).
		Where(squirrel.Eq{"id": club.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("clubs").
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

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	sql, args, err := selectClubs().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanClub(r.db.QueryRow(ctx, sql, args...))
}

// ListAll returns every club with its department name, active or not.
func (r *ClubRepository) ListAll(ctx context.Context) ([]*models.Club, error) {
	return r.queryClubs(ctx, selectClubs().OrderBy("c.name ASC"))
}

func (r *ClubRepository) ListActive(ctx context.Context) ([]*models.Club, error) {
	return r.queryClubs(ctx, selectClubs().Where(squirrel.Eq{"c.is_active": true}).OrderBy("c.name ASC"))
}

// ListByMember returns the clubs userID belongs to.
func (r *ClubRepository) ListByMember(ctx context.Context, userID int64) ([]*models.Club, error) {
	query := selectClubs().
		Join("club_memberships m ON m.club_id = c.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("m.joined_at ASC")
	return r.queryClubs(ctx, query)
}

func (r *ClubRepository) AddMember(ctx context.Context, userID, clubID int64, joinedAt time.Time) error {
	sql, args, err := squirrel.Insert("club_memberships").
		Columns("user_id", "club_id", "joined_at").
		Values(userID, clubID, joinedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return mapError(err)
}

func (r *ClubRepository) RemoveMember(ctx context.Context, userID, clubID int64) error {
	sql, args, err := squirrel.Delete("club_memberships").
		Where(squirrel.Eq{"user_id": userID, "club_id": clubID}).
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

func (r *ClubRepository) ListMembers(ctx context.Context, clubID int64) ([]*models.ClubMember, error) {
	sql, args, err := squirrel.Select("u.id", "u.username", "u.email", "m.joined_at").
		From("club_memberships m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.club_id": clubID}).
		OrderBy("m.joined_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.ClubMember
	for rows.Next() {
		var m models.ClubMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.Email, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}
