package pokemon

import (
	"sync/atomic"
)

// snapshot is one immutable build of the roster
type snapshot struct {
	members []CachedPokemon // Ascending ID order
	byID    map[int]int     // ID -> index into members
	stats   BuildStats
}

// Cache holds the current roster snapshot.
// Readers never lock; Replace swaps the whole snapshot atomically.
type Cache struct {
	current atomic.Pointer[snapshot]
}

// NewCache creates an empty cache
func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(&snapshot{byID: map[int]int{}})
	return c
}

// Replace installs a new roster. The slice must not be modified afterwards.
func (c *Cache) Replace(members []CachedPokemon, stats BuildStats) {
	byID := make(map[int]int, len(members))
	for i, m := range members {
		byID[m.ID] = i
	}
	c.current.Store(&snapshot{
		members: members,
		byID:    byID,
		stats:   stats,
	})
}

// GetByID returns the cached member with the given ID
func (c *Cache) GetByID(id int) (CachedPokemon, bool) {
	s := c.current.Load()
	i, ok := s.byID[id]
	if !ok {
		return CachedPokemon{}, false
	}
	return s.members[i], true
}

// All returns the current roster in ascending ID order. Callers must not modify it.
func (c *Cache) All() []CachedPokemon {
	return c.current.Load().members
}

// Len returns the number of cached members
func (c *Cache) Len() int {
	return len(c.current.Load().members)
}

// Ready reports whether at least one build has been installed
func (c *Cache) Ready() bool {
	return !c.current.Load().stats.BuiltAt.IsZero()
}

// Stats returns the stats of the installed build
func (c *Cache) Stats() BuildStats {
	return c.current.Load().stats
}
