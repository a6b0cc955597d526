// Package team provides saved teams: persistence, ownership rules and
// enrichment from the roster cache.
package team

import (
	"time"

	"github.com/partydex/partydex/internal/modules/typechart"
)

const (
	// MaxTeamsPerUser is the number of teams one user may own
	MaxTeamsPerUser = 10
	// MaxMembers is the number of members a team may hold
	MaxMembers = 6
	// MaxNameLength is the longest accepted team name, in characters
	MaxNameLength = 100
	// MaxPosition is the highest member slot; slots start at 0
	MaxPosition = MaxMembers - 1
)

// Member is one persisted team slot
type Member struct {
	PokemonID int `json:"pokemonId"`
	Position  int `json:"position"`
}

// Team is a persisted team. Members are ordered by position.
type Team struct {
	ID        string
	UserID    string
	Name      string
	IsPublic  bool
	ShareID   string // Empty when the team is private
	CreatedAt time.Time
	UpdatedAt time.Time
	Members   []Member
}

// PokemonSummary is the display data joined from the roster cache
type PokemonSummary struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	NameEn string   `json:"nameEn"`
	Types  []string `json:"types"`
	Sprite string   `json:"sprite"`
}

// MemberView is a team slot enriched with roster data
type MemberView struct {
	PokemonID int            `json:"pokemonId"`
	Position  int            `json:"position"`
	Pokemon   PokemonSummary `json:"pokemon"`
}

// TeamView is the API representation of a team
type TeamView struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Name      string       `json:"name"`
	IsPublic  bool         `json:"isPublic"`
	ShareID   *string      `json:"shareId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Pokemon   []MemberView `json:"pokemon"`
}

// CreateInput is the payload for creating a team
type CreateInput struct {
	Name     string   `json:"name"`
	IsPublic bool     `json:"isPublic"`
	Pokemon  []Member `json:"pokemon"`
}

// UpdateInput is a partial update. Nil fields are left unchanged; a non-nil
// Pokemon replaces every member.
type UpdateInput struct {
	Name     *string   `json:"name"`
	IsPublic *bool     `json:"isPublic"`
	Pokemon  *[]Member `json:"pokemon"`
}

// Analysis is the type coverage of a saved team
type Analysis struct {
	TeamID     string                    `json:"teamId"`
	PokemonIDs []int                     `json:"pokemonIds"`
	Coverage   *typechart.CoverageResult `json:"coverage"`
}
