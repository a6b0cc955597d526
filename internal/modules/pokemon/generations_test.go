package pokemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenerationTable(t *testing.T) {
	table, err := DefaultGenerationTable()
	require.NoError(t, err)

	assert.Equal(t, 1025, table.RosterSize)
	require.Len(t, table.Generations, 9)

	// Ranges are contiguous and cover the whole roster
	next := 1
	for _, g := range table.Generations {
		assert.Equal(t, next, g.Start, "generation %d", g.Number)
		next = g.End + 1
	}
	assert.Equal(t, table.RosterSize+1, next)
}

func TestGenerationTable_ForID(t *testing.T) {
	table, err := DefaultGenerationTable()
	require.NoError(t, err)

	testCases := []struct {
		id       int
		expected int
	}{
		{1, 1},
		{151, 1},
		{152, 2},
		{386, 3},
		{493, 4},
		{649, 5},
		{721, 6},
		{809, 7},
		{905, 8},
		{906, 9},
		{1025, 9},
		{1026, 0},
		{0, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, table.ForID(tc.id), "id %d", tc.id)
	}
}

func TestGenerationTable_EveryIDInRangeMapsToItsGeneration(t *testing.T) {
	table, err := DefaultGenerationTable()
	require.NoError(t, err)

	for g := 1; g <= 9; g++ {
		r, ok := table.Range(g)
		require.True(t, ok)
		for id := r.Start; id <= r.End; id++ {
			require.Equal(t, g, table.ForID(id), "id %d", id)
		}
	}

	_, ok := table.Range(42)
	assert.False(t, ok)
}

func TestParseGenerationTable_Validation(t *testing.T) {
	testCases := []struct {
		name string
		toml string
	}{
		{
			name: "overlapping ranges",
			toml: `
roster_size = 20
[[generations]]
number = 1
start = 1
end = 10
[[generations]]
number = 2
start = 10
end = 20
`,
		},
		{
			name: "range beyond roster",
			toml: `
roster_size = 5
[[generations]]
number = 1
start = 1
end = 10
`,
		},
		{
			name: "duplicate generation",
			toml: `
roster_size = 20
[[generations]]
number = 1
start = 1
end = 5
[[generations]]
number = 1
start = 6
end = 10
`,
		},
		{
			name: "inverted range",
			toml: `
roster_size = 20
[[generations]]
number = 1
start = 10
end = 1
`,
		},
		{
			name: "generation beyond the known eras",
			toml: `
roster_size = 20
[[generations]]
number = 10
start = 1
end = 20
`,
		},
		{
			name: "malformed toml",
			toml: `roster_size = "many"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseGenerationTable([]byte(tc.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoadGenerationTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generations.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = "test"
roster_size = 6

[[generations]]
number = 2
start = 4
end = 6

[[generations]]
number = 1
start = 1
end = 3
`), 0644))

	table, err := LoadGenerationTable(path)
	require.NoError(t, err)

	assert.Equal(t, "test", table.Version)
	assert.Equal(t, 6, table.RosterSize)
	assert.Equal(t, 1, table.Generations[0].Number, "sorted by start")
	assert.Equal(t, 2, table.ForID(5))

	_, err = LoadGenerationTable(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
