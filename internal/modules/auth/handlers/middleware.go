package handlers

import (
	"net/http"

	"github.com/partydex/partydex/internal/modules/auth"
)

// RequireAuth rejects requests without a valid session with 401 and stores
// the authenticated user in the request context for the next handler
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.authenticate(r)
		if err != nil {
			h.writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}
