package typechart

import (
	"encoding/json"
	"fmt"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"gonum.org/v1/gonum/mat"
)

// Matrix is an immutable attacker x defender damage multiplier table
type Matrix struct {
	m *mat.Dense
}

// newNeutralMatrix returns a matrix with every cell set to 1
func newNeutralMatrix() *mat.Dense {
	data := make([]float64, NumTypes*NumTypes)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(NumTypes, NumTypes, data)
}

// NewMatrixFromRelations builds a matrix from the damage relations of all 18 types.
// Each row starts neutral; double_damage_to, half_damage_to and no_damage_to
// override it in that order. Unknown defender names are ignored.
func NewMatrixFromRelations(relations map[string]*pokeapi.TypeData) (*Matrix, error) {
	dense := newNeutralMatrix()

	for _, attacker := range AllTypes {
		data, ok := relations[attacker]
		if !ok || data == nil {
			return nil, fmt.Errorf("missing damage relations for type %s", attacker)
		}
		row := typeIndex[attacker]

		apply := func(targets []pokeapi.NamedResource, value float64) {
			for _, target := range targets {
				if col, ok := typeIndex[target.Name]; ok {
					dense.Set(row, col, value)
				}
			}
		}
		apply(data.DamageRelations.DoubleDamageTo, 2)
		apply(data.DamageRelations.HalfDamageTo, 0.5)
		apply(data.DamageRelations.NoDamageTo, 0)
	}

	return &Matrix{m: dense}, nil
}

// Multiplier returns the multiplier of attacker hitting a single defender type.
// Unknown types are neutral.
func (m *Matrix) Multiplier(attacker, defender string) float64 {
	row, ok := typeIndex[attacker]
	if !ok {
		return 1
	}
	col, ok := typeIndex[defender]
	if !ok {
		return 1
	}
	return m.m.At(row, col)
}

// Defense returns the multiplier of attacker hitting a member with the given
// types: the product of the single-type multipliers
func (m *Matrix) Defense(attacker string, defenderTypes []string) float64 {
	multiplier := 1.0
	for _, t := range defenderTypes {
		multiplier *= m.Multiplier(attacker, t)
	}
	return multiplier
}

// Row returns the multipliers of attacker against every defender type
func (m *Matrix) Row(attacker string) map[string]float64 {
	row := make(map[string]float64, NumTypes)
	for _, defender := range AllTypes {
		row[defender] = m.Multiplier(attacker, defender)
	}
	return row
}

// MarshalJSON renders the matrix as {"types": [...], "multipliers": {attacker: {defender: x}}}
func (m *Matrix) MarshalJSON() ([]byte, error) {
	multipliers := make(map[string]map[string]float64, NumTypes)
	for _, attacker := range AllTypes {
		multipliers[attacker] = m.Row(attacker)
	}
	return json.Marshal(struct {
		Types       []string                      `json:"types"`
		Multipliers map[string]map[string]float64 `json:"multipliers"`
	}{
		Types:       AllTypes,
		Multipliers: multipliers,
	})
}
