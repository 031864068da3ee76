package repository

import (
	"context"

	"clubhub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DepartmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDepartmentRepository(db *pgxpool.Pool, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	query := squirrel.Insert("departments").
		Columns("name", "created_at").
		Values(dept.Name, dept.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return mapError(r.db.QueryRow(ctx, sql, args...).Scan(&dept.ID))
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *DepartmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Department, error) {
	query := squirrel.Select("id", "name", "created_at").
		From("departments").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var dept models.Department
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&dept.ID, &dept.Name, &dept.CreatedAt); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	query := squirrel.Select("id", "name", "created_at").
		From("departments").
		OrderBy("name ASC").
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

	var departments []*models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, &dept)
	}

	return departments, rows.Err()
}
