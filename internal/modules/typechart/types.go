// Package typechart builds the type-effectiveness matrix and analyzes the
// defensive type coverage of teams.
package typechart

// AllTypes is the canonical order of the 18 elemental types.
// Matrix rows and columns follow this order.
var AllTypes = []string{
	"normal",
	"fire",
	"water",
	"electric",
	"grass",
	"ice",
	"fighting",
	"poison",
	"ground",
	"flying",
	"psychic",
	"bug",
	"rock",
	"ghost",
	"dragon",
	"dark",
	"steel",
	"fairy",
}

// NumTypes is the size of each matrix dimension
var NumTypes = len(AllTypes)

var typeIndex = func() map[string]int {
	m := make(map[string]int, len(AllTypes))
	for i, t := range AllTypes {
		m[t] = i
	}
	return m
}()

// IsValidType reports whether t is one of the canonical types
func IsValidType(t string) bool {
	_, ok := typeIndex[t]
	return ok
}
