package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// Service handles signup, login and session resolution
type Service struct {
	repo       *Repository
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

// NewService creates a new auth service
func NewService(repo *Repository, sessionTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// SessionTTL returns how long a new session stays valid
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Signup registers a new user and opens a session for them
func (s *Service) Signup(ctx context.Context, email, password string) (*User, *Session, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User signed up")
	return user, session, nil
}

// Login checks credentials and opens a new session.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("User logged in")
	return user, session, nil
}

// Logout revokes the session with the given token
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user.
// Expired sessions are deleted and yield ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.repo.DeleteSession(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// PurgeExpiredSessions deletes every expired session
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}

func (s *Service) openSession(ctx context.Context, userID string) (*Session, error) {
	now := s.now().UTC()
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("%w: email must be a valid email address", ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain at least one letter and one number", ErrValidation)
	}
	return nil
}
