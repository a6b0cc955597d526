// Package handlers provides HTTP handlers for type chart operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/rs/zerolog"
)

// MaxTeamSize is the largest team the analyzer accepts
const MaxTeamSize = 6

// Handler handles type chart HTTP requests
type Handler struct {
	analyzer *typechart.Analyzer
	chart    *typechart.Chart
	log      zerolog.Logger
}

// NewHandler creates a new type chart handler
func NewHandler(analyzer *typechart.Analyzer, chart *typechart.Chart, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		chart:    chart,
		log:      log.With().Str("handler", "typechart").Logger(),
	}
}

// AnalyzeRequest is the body of POST /api/types/analyze
type AnalyzeRequest struct {
	PokemonIDs []int `json:"pokemonIds"`
}

// HandleAnalyze handles POST /api/types/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.PokemonIDs) == 0 || len(req.PokemonIDs) > MaxTeamSize {
		h.writeError(w, http.StatusBadRequest, "pokemonIds must contain between 1 and 6 IDs")
		return
	}
	for _, id := range req.PokemonIDs {
		if id < 1 {
			h.writeError(w, http.StatusBadRequest, "pokemonIds must be positive integers")
			return
		}
	}

	result, err := h.analyzer.Analyze(req.PokemonIDs)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleGetMatrix handles GET /api/types/matrix
func (h *Handler) HandleGetMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.chart.Matrix()
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, matrix)
}

// writeAnalysisError maps analyzer errors to status codes
func (h *Handler) writeAnalysisError(w http.ResponseWriter, err error) {
	var notFound *typechart.NotFoundError
	switch {
	case errors.As(err, &notFound):
		h.writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, typechart.ErrMatrixUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, "Type matrix is not available yet")
	default:
		h.log.Error().Err(err).Msg("Type analysis failed")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
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
