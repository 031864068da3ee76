package repository

import (
	"context"
	"time"

	"clubhub/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns("username", "email", "password", "role", "department_id", "created_at", "updated_at").
		Values(user.Username, user.Email, user.Password, user.Role, user.DepartmentID, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return mapError(r.db.QueryRow(ctx, sql, args...).Scan(&user.ID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByIDWithDepartment is GetByID; the department is always joined.
func (r *UserRepository) GetByIDWithDepartment(ctx context.Context, id int64) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	query := squirrel.Select(
		"u.id", "u.username", "u.email", "u.password", "u.role", "u.department_id", "u.created_at", "u.updated_at",
		"d.id", "d.name", "d.created_at",
	).
		From("users u").
		LeftJoin("departments d ON d.id = u.department_id").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		user      models.User
		deptID    *int64
		deptName  *string
		deptAdded *time.Time
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.DepartmentID, &user.CreatedAt, &user.UpdatedAt,
		&deptID, &deptName, &deptAdded,
	)
	if err != nil {
		return nil, err
	}

	if deptID != nil {
		user.Department = &models.Department{ID: *deptID, Name: derefString(deptName), CreatedAt: derefTime(deptAdded)}
	}

	return &user, nil
}
