package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all team routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/teams", func(r chi.Router) {
		// Public
		r.Get("/share/{shareId}", h.HandleGetByShareID)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Post("/", h.HandleCreate)
			r.Get("/", h.HandleList)
			r.Get("/{id}", h.HandleGet)
			r.Get("/{id}/analysis", h.HandleAnalyze)
			r.Put("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
		})
	})
}
