// Package pokemon provides the roster cache, its builder and the roster query engine.
package pokemon

import "time"

// Stats holds the six base stats and their sum
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"specialAttack"`
	SpecialDefense int `json:"specialDefense"`
	Speed          int `json:"speed"`
	Total          int `json:"total"`
}

// CachedPokemon is one normalized roster member held in the cache.
// Values are never mutated after a build; a rebuild replaces the whole roster.
type CachedPokemon struct {
	ID         int      `json:"id"`
	NameEn     string   `json:"nameEn"`
	Name       string   `json:"name"`  // Localized name, falls back to NameEn
	Types      []string `json:"types"` // Slot order, 1-2 entries
	Sprite     string   `json:"sprite"`
	Stats      Stats    `json:"stats"`
	Generation int      `json:"generation"` // 0 = unrecognized
}

// HasType reports whether the member has the given elemental type
func (p CachedPokemon) HasType(t string) bool {
	for _, own := range p.Types {
		if own == t {
			return true
		}
	}
	return false
}

// PokemonDetail is a live-fetched roster member with extra attributes
type PokemonDetail struct {
	CachedPokemon
	Abilities []string `json:"abilities"`
	Height    int      `json:"height"`
	Weight    int      `json:"weight"`
}

// ListParams are the normalized roster list filters
type ListParams struct {
	Page       int      // Defaults to 1
	Limit      int      // Defaults to 20
	Generation int      // 0 = no generation filter
	Types      []string // AND semantics
	Search     string   // Case-insensitive substring on either name; empty = no filter
}

// Pagination describes the page returned by List
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResult is one page of filtered roster members
type ListResult struct {
	Data       []CachedPokemon `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// BuildStats summarizes one roster cache build
type BuildStats struct {
	Requested  int       `json:"requested"`
	Cached     int       `json:"cached"`
	Failed     int       `json:"failed"`
	DurationMs int64     `json:"durationMs"`
	BuiltAt    time.Time `json:"builtAt"`
}
