package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/partydex/partydex/internal/events"
	"github.com/partydex/partydex/internal/utils"
)

const defaultHeartbeatInterval = 30 * time.Second

// EventsStreamHandler streams bus events to clients over Server-Sent Events.
type EventsStreamHandler struct {
	eventBus  *events.Bus
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler.
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		heartbeat: defaultHeartbeatInterval,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/stream requests (SSE).
// An optional comma-separated "types" query parameter narrows the subscription.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventTypes := parseEventTypes(r.URL.Query().Get("types"))

	h.log.Info().
		Int("event_types", len(eventTypes)).
		Msg("Client connected to event stream")

	eventChan := make(chan *events.Event, 100)
	unsubscribe := h.eventBus.SubscribeMany(eventTypes, func(event *events.Event) {
		// Never block the emitter; drop when the client falls behind
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	})
	defer unsubscribe()

	fmt.Fprintf(w, "data: %s\n\n", encodeEvent(map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	}))
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			fmt.Fprintf(w, "data: %s\n\n", encodeEvent(eventPayload(event)))
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprintf(w, "data: %s\n\n", encodeEvent(map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			}))
			flusher.Flush()
		}
	}
}

// parseEventTypes resolves a comma-separated filter against the known event types.
// Unknown names are ignored; an empty or fully unknown filter selects everything.
func parseEventTypes(filter string) []events.EventType {
	names := utils.ParseCSV(filter)
	if len(names) == 0 {
		return events.AllEventTypes
	}

	known := make(map[events.EventType]bool, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		known[t] = true
	}

	seen := make(map[events.EventType]bool)
	var selected []events.EventType
	for _, name := range names {
		t := events.EventType(strings.ToUpper(name))
		if known[t] && !seen[t] {
			seen[t] = true
			selected = append(selected, t)
		}
	}
	if len(selected) == 0 {
		return events.AllEventTypes
	}
	return selected
}

// eventPayload is the wire shape shared by the SSE and WebSocket streams
func eventPayload(event *events.Event) map[string]interface{} {
	return map[string]interface{}{
		"type":      string(event.Type),
		"module":    event.Module,
		"timestamp": event.Timestamp.Format(time.RFC3339),
		"data":      event.Data,
	}
}

func encodeEvent(event map[string]interface{}) string {
	data, err := json.Marshal(event)
	if err != nil {
		return `{"type":"error","message":"failed to encode event"}`
	}
	return string(data)
}
