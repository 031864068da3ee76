package dto

type DepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type DepartmentResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ClubRequest is used for both create and update. IsActive defaults to true on create.
type ClubRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	DepartmentID *int64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

type ClubResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DepartmentID   *int64 `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type ClubMemberResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}
