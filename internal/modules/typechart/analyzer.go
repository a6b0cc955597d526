package typechart

import (
	"github.com/partydex/partydex/internal/modules/pokemon"
	"gonum.org/v1/gonum/floats"
)

// RosterLookup resolves roster members by ID
type RosterLookup interface {
	GetByID(id int) (pokemon.CachedPokemon, bool)
}

// CoverageResult is the defensive type coverage of a team.
// Defensive holds, per attacking type, the worst multiplier across members.
type CoverageResult struct {
	Defensive       map[string]float64 `json:"defensive"`
	WeaknessCount   int                `json:"weaknessCount"`
	ResistanceCount int                `json:"resistanceCount"`
	ImmunityCount   int                `json:"immunityCount"`
}

// Analyzer computes team coverage from the roster cache and the type chart.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	roster RosterLookup
	chart  *Chart
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(roster RosterLookup, chart *Chart) *Analyzer {
	return &Analyzer{
		roster: roster,
		chart:  chart,
	}
}

// Analyze returns the coverage of the team with the given member IDs.
// The first ID missing from the roster yields a *NotFoundError and no result.
func (a *Analyzer) Analyze(ids []int) (*CoverageResult, error) {
	matrix, err := a.chart.Matrix()
	if err != nil {
		return nil, err
	}

	teamTypes := make([][]string, len(ids))
	for i, id := range ids {
		member, ok := a.roster.GetByID(id)
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		teamTypes[i] = member.Types
	}

	return Coverage(matrix, teamTypes), nil
}

// Coverage computes the worst-case multiplier per attacking type for members
// with the given types, and the weakness/resistance/immunity counts.
func Coverage(matrix *Matrix, teamTypes [][]string) *CoverageResult {
	result := &CoverageResult{
		Defensive: make(map[string]float64, NumTypes),
	}
	if len(teamTypes) == 0 {
		for _, attacker := range AllTypes {
			result.Defensive[attacker] = 1
		}
		return result
	}

	multipliers := make([]float64, len(teamTypes))
	for _, attacker := range AllTypes {
		for i, types := range teamTypes {
			multipliers[i] = matrix.Defense(attacker, types)
		}
		worst := floats.Max(multipliers)
		result.Defensive[attacker] = worst

		switch {
		case worst >= 2:
			result.WeaknessCount++
		case worst == 0:
			result.ImmunityCount++
		case worst <= 0.5:
			result.ResistanceCount++
		}
	}

	return result
}
