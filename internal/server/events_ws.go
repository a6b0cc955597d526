package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/partydex/partydex/internal/events"
)

const wsWriteTimeout = 5 * time.Second

// EventsWebSocketHandler pushes bus events to WebSocket clients.
// The connection is write-only; inbound frames are discarded.
type EventsWebSocketHandler struct {
	eventBus       *events.Bus
	originPatterns []string
	heartbeat      time.Duration
	log            zerolog.Logger
}

// NewEventsWebSocketHandler creates a handler accepting cross-origin upgrades
// from the hosts of the given origins.
func NewEventsWebSocketHandler(eventBus *events.Bus, allowedOrigins []string, log zerolog.Logger) *EventsWebSocketHandler {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}

	return &EventsWebSocketHandler{
		eventBus:       eventBus,
		originPatterns: patterns,
		heartbeat:      defaultHeartbeatInterval,
		log:            log.With().Str("component", "events_ws").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws upgrade requests.
func (h *EventsWebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	// CloseRead handles control frames and cancels ctx once the peer goes away
	ctx := conn.CloseRead(r.Context())

	eventTypes := parseEventTypes(r.URL.Query().Get("types"))
	eventChan := make(chan *events.Event, 100)
	unsubscribe := h.eventBus.SubscribeMany(eventTypes, func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	})
	defer unsubscribe()

	h.log.Info().Int("event_types", len(eventTypes)).Msg("WebSocket client connected")

	if err := h.write(ctx, conn, map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("WebSocket client disconnected")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			if err := h.write(ctx, conn, eventPayload(event)); err != nil {
				return
			}

		case <-heartbeat.C:
			if err := h.write(ctx, conn, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}

func (h *EventsWebSocketHandler) write(ctx context.Context, conn *websocket.Conn, msg map[string]interface{}) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		h.log.Debug().Err(err).Msg("WebSocket write failed")
		return err
	}
	return nil
}
