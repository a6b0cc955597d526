package typechart

import (
	"errors"
	"fmt"
)

var (
	// ErrPokemonNotFound matches any NotFoundError
	ErrPokemonNotFound = errors.New("pokemon not found")
	// ErrMatrixUnavailable is returned when no matrix has been built yet
	ErrMatrixUnavailable = errors.New("type matrix not available")
	// ErrRebuildInProgress is returned when a rebuild is requested while one is running
	ErrRebuildInProgress = errors.New("type matrix rebuild already in progress")
)

// NotFoundError names the first team member missing from the roster cache
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Pokemon with ID %d not found", e.ID)
}

// Is makes errors.Is(err, ErrPokemonNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPokemonNotFound
}
