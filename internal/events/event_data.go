package events

import "encoding/json"

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// RosterCacheBuiltData contains data for RosterCacheBuilt events
type RosterCacheBuiltData struct {
	Requested  int   `json:"requested"`
	Cached     int   `json:"cached"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
}

// EventType returns the event type for RosterCacheBuiltData
func (d *RosterCacheBuiltData) EventType() EventType {
	return RosterCacheBuilt
}

// RosterCacheBuildFailedData contains data for RosterCacheBuildFailed events
type RosterCacheBuildFailedData struct {
	Error string `json:"error"`
}

// EventType returns the event type for RosterCacheBuildFailedData
func (d *RosterCacheBuildFailedData) EventType() EventType {
	return RosterCacheBuildFailed
}

// TypeMatrixBuiltData contains data for TypeMatrixBuilt events
type TypeMatrixBuiltData struct {
	Types      int   `json:"types"`
	DurationMs int64 `json:"duration_ms"`
}

// EventType returns the event type for TypeMatrixBuiltData
func (d *TypeMatrixBuiltData) EventType() EventType {
	return TypeMatrixBuilt
}

// TypeMatrixBuildFailedData contains data for TypeMatrixBuildFailed events
type TypeMatrixBuildFailedData struct {
	Error        string `json:"error"`
	KeptPrevious bool   `json:"kept_previous"`
}

// EventType returns the event type for TypeMatrixBuildFailedData
func (d *TypeMatrixBuildFailedData) EventType() EventType {
	return TypeMatrixBuildFailed
}

// RebuildStartedData contains data for RebuildStarted events
type RebuildStartedData struct {
	Trigger string `json:"trigger"` // "startup", "schedule" or "manual"
}

// EventType returns the event type for RebuildStartedData
func (d *RebuildStartedData) EventType() EventType {
	return RebuildStarted
}

// TeamCreatedData contains data for TeamCreated events
type TeamCreatedData struct {
	TeamID  string `json:"team_id"`
	Members int    `json:"members"`
}

// EventType returns the event type for TeamCreatedData
func (d *TeamCreatedData) EventType() EventType {
	return TeamCreated
}

// TeamUpdatedData contains data for TeamUpdated events
type TeamUpdatedData struct {
	TeamID   string `json:"team_id"`
	Members  int    `json:"members"`
	IsPublic bool   `json:"is_public"`
}

// EventType returns the event type for TeamUpdatedData
func (d *TeamUpdatedData) EventType() EventType {
	return TeamUpdated
}

// TeamDeletedData contains data for TeamDeleted events
type TeamDeletedData struct {
	TeamID string `json:"team_id"`
}

// EventType returns the event type for TeamDeletedData
func (d *TeamDeletedData) EventType() EventType {
	return TeamDeleted
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// GetTypedData converts the Data map back into its typed form.
// Returns nil for unknown types or malformed data.
func (e *Event) GetTypedData() EventData {
	if e.Data == nil {
		return nil
	}

	var data EventData
	switch e.Type {
	case RosterCacheBuilt:
		data = &RosterCacheBuiltData{}
	case RosterCacheBuildFailed:
		data = &RosterCacheBuildFailedData{}
	case TypeMatrixBuilt:
		data = &TypeMatrixBuiltData{}
	case TypeMatrixBuildFailed:
		data = &TypeMatrixBuildFailedData{}
	case RebuildStarted:
		data = &RebuildStartedData{}
	case TeamCreated:
		data = &TeamCreatedData{}
	case TeamUpdated:
		data = &TeamUpdatedData{}
	case TeamDeleted:
		data = &TeamDeletedData{}
	case ErrorOccurred:
		data = &ErrorEventData{}
	default:
		return nil
	}

	if err := convertMapToStruct(e.Data, data); err != nil {
		return nil
	}
	return data
}

func convertMapToStruct(m map[string]interface{}, v interface{}) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, v)
}

func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}
	return result
}
