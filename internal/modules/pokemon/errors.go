package pokemon

import "errors"

var (
	// ErrNotFound is returned when a roster member does not exist upstream
	ErrNotFound = errors.New("pokemon not found")
	// ErrRebuildInProgress is returned when a rebuild is requested while one is running
	ErrRebuildInProgress = errors.New("roster rebuild already in progress")
	// ErrEmptyRebuild is returned when a rebuild fetched nothing while a roster is installed
	ErrEmptyRebuild = errors.New("rebuild produced an empty roster")
)
