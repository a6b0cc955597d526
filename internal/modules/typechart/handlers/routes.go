package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all type chart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/types", func(r chi.Router) {
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/matrix", h.HandleGetMatrix)
	})
}
