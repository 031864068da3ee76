package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")

	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department already exists")

	ErrClubNotFound     = errors.New("club not found")
	ErrClubExists       = errors.New("club already exists")
	ErrClubInactive     = errors.New("club is not active")
	ErrAlreadyMember    = errors.New("already a member of this club")
	ErrNotMember        = errors.New("not a member of this club")
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidStartTime = errors.New("starts_at must be an RFC3339 timestamp")
	ErrAnnouncementGone = errors.New("announcement not found")

	ErrNotificationNotFound = errors.New("notification not found")
)

// Recommendation failures. All of them end the request; none is retried.
var (
	ErrNoCandidatesAvailable = errors.New("no clubs left to recommend")
	ErrGenerationUnparseable = errors.New("text generator reply is not the expected JSON object")
	ErrInvalidSuggestion     = errors.New("text generator suggested a club outside the candidate list")
	ErrGenerationTimeout     = errors.New("text generator did not answer in time")
	ErrGenerationTransport   = errors.New("text generator request failed")
)

// GenerationError carries whatever the text generator sent back so operators
// can see what went wrong.
type GenerationError struct {
	Err error
	Raw string
}

func (e *GenerationError) Error() string {
	if e.Raw == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (raw: %s)", e.Err, e.Raw)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
