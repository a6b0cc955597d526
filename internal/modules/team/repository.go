package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/partydex/partydex/internal/database"
	"github.com/rs/zerolog"
)

// Repository handles team database operations
// Database: partydex.db (teams, team_pokemon tables)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new team repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "team").Logger(),
	}
}

const teamColumns = "id, user_id, name, is_public, share_id, created_at, updated_at"

// Create inserts a team and its members in one transaction.
// Returns ErrLimitReached when the owner already has maxTeams teams.
func (r *Repository) Create(ctx context.Context, team *Team, maxTeams int) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM teams WHERE user_id = ?", team.UserID,
		).Scan(&count); err != nil {
			return fmt.Errorf("failed to count teams: %w", err)
		}
		if count >= maxTeams {
			return ErrLimitReached
		}

		query := `
			INSERT INTO teams (id, user_id, name, is_public, share_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			team.ID,
			team.UserID,
			team.Name,
			boolToInt(team.IsPublic),
			nullString(team.ShareID),
			team.CreatedAt.Unix(),
			team.UpdatedAt.Unix(),
		); err != nil {
			return fmt.Errorf("failed to insert team: %w", err)
		}

		return insertMembers(ctx, tx, team.ID, team.Members)
	})
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			return ErrLimitReached
		}
		return err
	}

	r.log.Debug().
		Str("team_id", team.ID).
		Int("members", len(team.Members)).
		Msg("Team created")
	return nil
}

// GetByID returns the team with the given ID, or ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id string) (*Team, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE id = ?", id)
	return r.loadTeam(ctx, row)
}

// GetByShareID returns the team with the given share ID, or ErrNotFound
func (r *Repository) GetByShareID(ctx context.Context, shareID string) (*Team, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE share_id = ?", shareID)
	return r.loadTeam(ctx, row)
}

// ListByUser returns the user's teams, most recently updated first
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Team, error) {
	query := "SELECT " + teamColumns + " FROM teams WHERE user_id = ? ORDER BY updated_at DESC, rowid DESC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	rows.Close()

	for i := range teams {
		members, err := r.getMembers(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}

	return teams, nil
}

// Update writes the team's name, visibility, share ID and update time.
// When replaceMembers is set, the members are replaced in the same transaction.
func (r *Repository) Update(ctx context.Context, team *Team, replaceMembers bool) error {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		query := "UPDATE teams SET name = ?, is_public = ?, share_id = ?, updated_at = ? WHERE id = ?"
		result, err := tx.ExecContext(ctx, query,
			team.Name,
			boolToInt(team.IsPublic),
			nullString(team.ShareID),
			team.UpdatedAt.Unix(),
			team.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update team: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		if !replaceMembers {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM team_pokemon WHERE team_id = ?", team.ID); err != nil {
			return fmt.Errorf("failed to clear team members: %w", err)
		}
		return insertMembers(ctx, tx, team.ID, team.Members)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	r.log.Debug().
		Str("team_id", team.ID).
		Bool("members_replaced", replaceMembers).
		Msg("Team updated")
	return nil
}

// Delete removes a team; its members go with it by cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	r.log.Debug().Str("team_id", id).Msg("Team deleted")
	return nil
}

func (r *Repository) loadTeam(ctx context.Context, row *sql.Row) (*Team, error) {
	team, err := scanTeam(row)
	if err != nil {
		return nil, err
	}
	members, err := r.getMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

func (r *Repository) getMembers(ctx context.Context, teamID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT pokemon_id, position FROM team_pokemon WHERE team_id = ? ORDER BY position ASC",
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.PokemonID, &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}
	return members, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(s scanner) (*Team, error) {
	var team Team
	var isPublic int
	var shareID sql.NullString
	var createdAtUnix, updatedAtUnix int64

	if err := s.Scan(
		&team.ID,
		&team.UserID,
		&team.Name,
		&isPublic,
		&shareID,
		&createdAtUnix,
		&updatedAtUnix,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}

	team.IsPublic = isPublic != 0
	team.ShareID = shareID.String
	team.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	team.UpdatedAt = time.Unix(updatedAtUnix, 0).UTC()
	return &team, nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, teamID string, members []Member) error {
	if len(members) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO team_pokemon (team_id, pokemon_id, position) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, teamID, m.PokemonID, m.Position); err != nil {
			return fmt.Errorf("failed to insert team member: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
