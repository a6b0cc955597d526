// Package handlers provides HTTP handlers for roster operations.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/utils"
	"github.com/rs/zerolog"
)

// RosterService is the roster functionality the handlers need
type RosterService interface {
	List(params pokemon.ListParams) pokemon.ListResult
	GetDetail(ctx context.Context, id int) (*pokemon.PokemonDetail, bool)
	Generations() *pokemon.GenerationTable
}

// Handler handles roster HTTP requests
type Handler struct {
	service RosterService
	log     zerolog.Logger
}

// NewHandler creates a new roster handler
func NewHandler(service RosterService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "pokemon").Logger(),
	}
}

// HandleList handles GET /api/pokemon
// Query: page, limit, generation, type|types (comma-separated), search
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parsePositiveInt(query.Get("page"), 1)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, err := parsePositiveInt(query.Get("limit"), 20)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	generation, err := parsePositiveInt(query.Get("generation"), 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "generation must be a positive integer")
		return
	}

	types := append(utils.ParseCSVValues(query["type"]...), utils.ParseCSVValues(query["types"]...)...)

	result := h.service.List(pokemon.ListParams{
		Page:       page,
		Limit:      limit,
		Generation: generation,
		Types:      types,
		Search:     query.Get("search"),
	})

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetByID handles GET /api/pokemon/{id}
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	detail, ok := h.service.GetDetail(r.Context(), id)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("Pokemon with id %d not found", id))
		return
	}

	h.writeJSON(w, http.StatusOK, detail)
}

// HandleGetGenerations handles GET /api/pokemon/generations
func (h *Handler) HandleGetGenerations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Generations())
}

// parsePositiveInt parses an optional positive integer query value.
// An absent value yields def.
func parsePositiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value %d is not positive", n)
	}
	return n, nil
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
