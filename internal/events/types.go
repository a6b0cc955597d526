// Package events provides the in-process event bus used to broadcast build and team activity.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	// Cache and matrix lifecycle
	RosterCacheBuilt       EventType = "ROSTER_CACHE_BUILT"
	RosterCacheBuildFailed EventType = "ROSTER_CACHE_BUILD_FAILED"
	TypeMatrixBuilt        EventType = "TYPE_MATRIX_BUILT"
	TypeMatrixBuildFailed  EventType = "TYPE_MATRIX_BUILD_FAILED"
	RebuildStarted         EventType = "REBUILD_STARTED"

	// Saved teams
	TeamCreated EventType = "TEAM_CREATED"
	TeamUpdated EventType = "TEAM_UPDATED"
	TeamDeleted EventType = "TEAM_DELETED"

	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type a stream client can subscribe to
var AllEventTypes = []EventType{
	RosterCacheBuilt,
	RosterCacheBuildFailed,
	TypeMatrixBuilt,
	TypeMatrixBuildFailed,
	RebuildStarted,
	TeamCreated,
	TeamUpdated,
	TeamDeleted,
	ErrorOccurred,
}

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}
