package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles user and session database operations
// Database: partydex.db (users, sessions tables)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "auth").Logger(),
	}
}

// CreateUser inserts a new user. A duplicate email yields ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.CreatedAt.Unix(),
		user.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	r.log.Debug().Str("user_id", user.ID).Msg("User created")
	return nil
}

// GetUserByEmail returns the user with the given email, or ErrUserNotFound
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users WHERE email = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetUserByID returns the user with the given ID, or ErrUserNotFound
func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users WHERE id = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAtUnix, updatedAtUnix int64

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&createdAtUnix,
		&updatedAtUnix,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	user.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return &user, nil
}

// CreateSession stores a new session
func (r *Repository) CreateSession(ctx context.Context, session *Session) error {
	query := "INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)"

	if _, err := r.db.ExecContext(ctx, query,
		session.Token,
		session.UserID,
		session.CreatedAt.Unix(),
		session.ExpiresAt.Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession returns the session with the given token, or ErrSessionNotFound
func (r *Repository) GetSession(ctx context.Context, token string) (*Session, error) {
	query := "SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?"

	var session Session
	var createdAtUnix, expiresAtUnix int64
	if err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&createdAtUnix,
		&expiresAtUnix,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	session.ExpiresAt = time.Unix(expiresAtUnix, 0).UTC()
	return &session, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session expired at now and returns how many were removed
func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.log.Debug().Int64("rows_affected", rowsAffected).Msg("Expired sessions deleted")
	return rowsAffected, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
