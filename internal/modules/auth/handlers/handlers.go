// Package handlers provides HTTP handlers for account and session operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/rs/zerolog"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "partydex_session"

// Handler handles auth HTTP requests
type Handler struct {
	service      *auth.Service
	cookieSecure bool
	log          zerolog.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *auth.Service, cookieSecure bool, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		cookieSecure: cookieSecure,
		log:          log.With().Str("handler", "auth").Logger(),
	}
}

// CredentialsRequest is the body of signup and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *auth.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}

// HandleSignup handles POST /api/auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, session, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			h.writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), auth.ErrValidation.Error()+": "))
		case errors.Is(err, auth.ErrEmailTaken):
			h.writeError(w, http.StatusConflict, "Email already registered")
		default:
			h.log.Error().Err(err).Msg("Signup failed")
			h.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.setSessionCookie(w, session)
	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleLogin handles POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(w, session)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

// HandleLogout handles POST /api/auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("Failed to revoke session")
		}
	}

	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// HandleMe handles GET /api/auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

// authenticate resolves the request's session cookie
func (h *Handler) authenticate(r *http.Request) (*auth.User, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, auth.ErrUnauthenticated
	}
	return h.service.Authenticate(r.Context(), cookie.Value)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrUnauthenticated) {
		h.writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.log.Error().Err(err).Msg("Session lookup failed")
	h.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
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
