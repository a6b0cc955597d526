// Package handlers provides HTTP handlers for team operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/partydex/partydex/internal/modules/team"
	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/rs/zerolog"
)

// Handler handles team HTTP requests
type Handler struct {
	service     *team.Service
	requireAuth func(http.Handler) http.Handler
	log         zerolog.Logger
}

// NewHandler creates a new team handler.
// requireAuth must reject unauthenticated requests and store the user with auth.WithUser.
func NewHandler(service *team.Service, requireAuth func(http.Handler) http.Handler, log zerolog.Logger) *Handler {
	return &Handler{
		service:     service,
		requireAuth: requireAuth,
		log:         log.With().Str("handler", "team").Logger(),
	}
}

// HandleCreate handles POST /api/teams
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	var input team.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// HandleList handles GET /api/teams
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	teams, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// HandleGet handles GET /api/teams/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// HandleGetByShareID handles GET /api/teams/share/{shareId}
func (h *Handler) HandleGetByShareID(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetByShareID(r.Context(), chi.URLParam(r, "shareId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// HandleUpdate handles PUT /api/teams/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	var input team.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), user.ID, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /api/teams/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAnalyze handles GET /api/teams/{id}/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	user := h.user(r)

	analysis, err := h.service.Analyze(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, analysis)
}

// user returns the authenticated user. Routes using it sit behind requireAuth.
func (h *Handler) user(r *http.Request) *auth.User {
	user, _ := auth.UserFromContext(r.Context())
	return user
}

// writeServiceError maps service errors to status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var notFound *typechart.NotFoundError

	switch {
	case errors.Is(err, team.ErrValidation):
		h.writeError(w, http.StatusBadRequest, capitalize(strings.TrimPrefix(err.Error(), team.ErrValidation.Error()+": ")))
	case errors.Is(err, team.ErrLimitReached):
		h.writeError(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, team.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Team not found")
	case errors.Is(err, team.ErrNotPublic):
		h.writeError(w, http.StatusForbidden, "This team is not public")
	case errors.Is(err, team.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "Access denied")
	case errors.As(err, &notFound):
		h.writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, typechart.ErrMatrixUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, "Type matrix is not available yet")
	default:
		h.log.Error().Err(err).Msg("Team request failed")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
