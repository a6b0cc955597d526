package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/modules/pokemon"
)

// PokeAPIServer is an httptest upstream serving roster and type fixtures
type PokeAPIServer struct {
	*httptest.Server
	roster    map[int]pokemon.CachedPokemon
	relations map[string]*pokeapi.TypeData
	failTypes map[string]bool
}

// NewPokeAPIServer starts a fake upstream for the given roster and the full type chart.
// The server is closed when the test finishes.
func NewPokeAPIServer(t *testing.T, roster []pokemon.CachedPokemon) *PokeAPIServer {
	t.Helper()

	s := &PokeAPIServer{
		roster:    make(map[int]pokemon.CachedPokemon, len(roster)),
		relations: NewTypeRelationFixtures(),
		failTypes: make(map[string]bool),
	}
	for _, m := range roster {
		s.roster[m.ID] = m
	}

	r := chi.NewRouter()
	r.Get("/pokemon/{id}", s.handlePokemon)
	r.Get("/pokemon-species/{id}", s.handleSpecies)
	r.Get("/type/{name}", s.handleType)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// FailType makes /type/{name} answer 404 for the given type
func (s *PokeAPIServer) FailType(name string) {
	s.failTypes[name] = true
}

func (s *PokeAPIServer) member(w http.ResponseWriter, r *http.Request) (pokemon.CachedPokemon, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return pokemon.CachedPokemon{}, false
	}
	m, ok := s.roster[id]
	if !ok {
		http.NotFound(w, r)
		return pokemon.CachedPokemon{}, false
	}
	return m, true
}

func (s *PokeAPIServer) handlePokemon(w http.ResponseWriter, r *http.Request) {
	m, ok := s.member(w, r)
	if !ok {
		return
	}

	slots := make([]pokeapi.PokemonTypeSlot, len(m.Types))
	for i, t := range m.Types {
		slots[i] = pokeapi.PokemonTypeSlot{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}}
	}
	stat := func(name string, v int) pokeapi.PokemonStat {
		return pokeapi.PokemonStat{BaseStat: v, Stat: pokeapi.NamedResource{Name: name}}
	}
	p := pokeapi.Pokemon{
		ID:     m.ID,
		Name:   m.NameEn,
		Height: 10,
		Weight: 100,
		Types:  slots,
		Stats: []pokeapi.PokemonStat{
			stat("hp", m.Stats.HP),
			stat("attack", m.Stats.Attack),
			stat("defense", m.Stats.Defense),
			stat("special-attack", m.Stats.SpecialAttack),
			stat("special-defense", m.Stats.SpecialDefense),
			stat("speed", m.Stats.Speed),
		},
		Abilities: []pokeapi.PokemonAbility{{Slot: 1, Ability: pokeapi.NamedResource{Name: "pressure"}}},
	}
	if m.Sprite != "" {
		sprite := m.Sprite
		p.Sprites.FrontDefault = &sprite
	}
	writeFixtureJSON(w, p)
}

var romanNumerals = []string{"", "i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix"}

func (s *PokeAPIServer) handleSpecies(w http.ResponseWriter, r *http.Request) {
	m, ok := s.member(w, r)
	if !ok {
		return
	}

	generation := "generation-" + strconv.Itoa(m.Generation)
	if m.Generation > 0 && m.Generation < len(romanNumerals) {
		generation = "generation-" + romanNumerals[m.Generation]
	}
	writeFixtureJSON(w, pokeapi.PokemonSpecies{
		ID:   m.ID,
		Name: m.NameEn,
		Names: []pokeapi.LocalizedName{
			{Name: m.NameEn, Language: pokeapi.NamedResource{Name: "en"}},
			{Name: m.Name, Language: pokeapi.NamedResource{Name: "ja"}},
		},
		Generation: pokeapi.NamedResource{Name: generation},
	})
}

func (s *PokeAPIServer) handleType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, ok := s.relations[name]
	if !ok || s.failTypes[name] {
		http.NotFound(w, r)
		return
	}
	writeFixtureJSON(w, data)
}

func writeFixtureJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
