package models

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleClubManager Role = "club_manager"
	RoleStudent     Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClubManager, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	Password     string    `db:"password"`
	Role         Role      `db:"role"`
	DepartmentID *int64    `db:"department_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Department is populated by queries that join departments.
	Department *Department `db:"-"`
}

// DepartmentName returns the joined department's name, or "" when the user has none.
func (u *User) DepartmentName() string {
	if u.Department == nil {
		return ""
	}
	return u.Department.Name
}
