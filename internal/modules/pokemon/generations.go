package pokemon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// MaxGeneration is the highest generation number a table may define
const MaxGeneration = 9

//go:embed generations.toml
var defaultGenerationsTOML []byte

// GenerationRange is the contiguous ID range of one generation
type GenerationRange struct {
	Number int    `toml:"number" json:"number"`
	Region string `toml:"region" json:"region"`
	Start  int    `toml:"start" json:"start"`
	End    int    `toml:"end" json:"end"`
}

// Contains reports whether id falls inside the range
func (r GenerationRange) Contains(id int) bool {
	return id >= r.Start && id <= r.End
}

// GenerationTable is the versioned generation range table.
// RosterSize bounds the IDs fetched by the roster builder.
type GenerationTable struct {
	Version     string            `toml:"version" json:"version"`
	RosterSize  int               `toml:"roster_size" json:"rosterSize"`
	Generations []GenerationRange `toml:"generations" json:"generations"`
}

// DefaultGenerationTable returns the table embedded in the binary
func DefaultGenerationTable() (*GenerationTable, error) {
	return ParseGenerationTable(defaultGenerationsTOML)
}

// LoadGenerationTable reads a table from path, or the embedded default when path is empty
func LoadGenerationTable(path string) (*GenerationTable, error) {
	if path == "" {
		return DefaultGenerationTable()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation table %s: %w", path, err)
	}
	return ParseGenerationTable(data)
}

// ParseGenerationTable decodes and validates a TOML generation table
func ParseGenerationTable(data []byte) (*GenerationTable, error) {
	var table GenerationTable
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse generation table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	sort.Slice(table.Generations, func(i, j int) bool {
		return table.Generations[i].Start < table.Generations[j].Start
	})
	return &table, nil
}

// Validate checks that ranges are well formed, disjoint and inside the roster
func (t *GenerationTable) Validate() error {
	if t.RosterSize < 0 {
		return fmt.Errorf("generation table: roster_size must not be negative")
	}

	seen := make(map[int]bool, len(t.Generations))
	for _, g := range t.Generations {
		if g.Number <= 0 || g.Number > MaxGeneration {
			return fmt.Errorf("generation table: invalid generation number %d", g.Number)
		}
		if seen[g.Number] {
			return fmt.Errorf("generation table: duplicate generation %d", g.Number)
		}
		seen[g.Number] = true

		if g.Start <= 0 || g.End < g.Start {
			return fmt.Errorf("generation table: invalid range %d-%d for generation %d", g.Start, g.End, g.Number)
		}
		if g.End > t.RosterSize {
			return fmt.Errorf("generation table: generation %d ends at %d beyond roster_size %d", g.Number, g.End, t.RosterSize)
		}
	}

	for i, a := range t.Generations {
		for _, b := range t.Generations[i+1:] {
			if a.Start <= b.End && b.Start <= a.End {
				return fmt.Errorf("generation table: generations %d and %d overlap", a.Number, b.Number)
			}
		}
	}
	return nil
}

// Range returns the ID range of a generation
func (t *GenerationTable) Range(generation int) (GenerationRange, bool) {
	for _, g := range t.Generations {
		if g.Number == generation {
			return g, true
		}
	}
	return GenerationRange{}, false
}

// ForID returns the generation whose range contains id, or 0
func (t *GenerationTable) ForID(id int) int {
	for _, g := range t.Generations {
		if g.Contains(id) {
			return g.Number
		}
	}
	return 0
}
