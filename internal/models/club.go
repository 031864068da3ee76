package models

import "time"

type Club struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	DepartmentID *int64    `db:"department_id"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// DepartmentName is filled from a LEFT JOIN on departments; empty when unset.
	DepartmentName string `db:"department_name"`
}

// InDepartment reports whether the club belongs to the given department.
// A nil department matches nothing.
func (c *Club) InDepartment(departmentID *int64) bool {
	return departmentID != nil && c.DepartmentID != nil && *c.DepartmentID == *departmentID
}

type ClubMembership struct {
	UserID   int64     `db:"user_id"`
	ClubID   int64     `db:"club_id"`
	JoinedAt time.Time `db:"joined_at"`
}

// ClubMember is a membership joined with the member's account.
type ClubMember struct {
	UserID   int64     `db:"user_id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
	JoinedAt time.Time `db:"joined_at"`
}
