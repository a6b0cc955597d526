package team

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for an unknown team or share ID
	ErrNotFound = errors.New("team not found")
	// ErrForbidden is returned when the caller may not access the team
	ErrForbidden = errors.New("access denied")
	// ErrNotPublic is returned when a share ID points at a private team
	ErrNotPublic = fmt.Errorf("%w: this team is not public", ErrForbidden)
	// ErrLimitReached is returned when a user already owns MaxTeamsPerUser teams
	ErrLimitReached = fmt.Errorf("maximum %d teams per user allowed", MaxTeamsPerUser)
	// ErrValidation wraps invalid team input
	ErrValidation = errors.New("validation failed")
)
