package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all roster routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pokemon", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/generations", h.HandleGetGenerations)
		r.Get("/{id}", h.HandleGetByID)
	})
}
