package testing

import (
	"time"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/modules/pokemon"
)

// NewRosterFixtures returns a small roster spanning several generations
func NewRosterFixtures() []pokemon.CachedPokemon {
	return []pokemon.CachedPokemon{
		rosterMember(1, "bulbasaur", "フシギダネ", 1, 318, "grass", "poison"),
		rosterMember(4, "charmander", "ヒトカゲ", 1, 309, "fire"),
		rosterMember(6, "charizard", "リザードン", 1, 534, "fire", "flying"),
		rosterMember(7, "squirtle", "ゼニガメ", 1, 314, "water"),
		rosterMember(25, "pikachu", "ピカチュウ", 1, 320, "electric"),
		rosterMember(94, "gengar", "ゲンガー", 1, 500, "ghost", "poison"),
		rosterMember(130, "gyarados", "ギャラドス", 1, 540, "water", "flying"),
		rosterMember(143, "snorlax", "カビゴン", 1, 540, "normal"),
		rosterMember(212, "scizor", "ハッサム", 2, 500, "bug", "steel"),
		rosterMember(445, "garchomp", "ガブリアス", 4, 600, "dragon", "ground"),
	}
}

// NewRosterCache returns a cache loaded with NewRosterFixtures
func NewRosterCache() *pokemon.Cache {
	members := NewRosterFixtures()
	cache := pokemon.NewCache()
	cache.Replace(members, pokemon.BuildStats{
		Requested: len(members),
		Cached:    len(members),
		BuiltAt:   time.Now(),
	})
	return cache
}

func rosterMember(id int, nameEn, name string, generation, total int, types ...string) pokemon.CachedPokemon {
	// Stats only need a consistent total for fixtures
	base := total / 6
	stats := pokemon.Stats{
		HP:             base + total%6,
		Attack:         base,
		Defense:        base,
		SpecialAttack:  base,
		SpecialDefense: base,
		Speed:          base,
		Total:          total,
	}
	return pokemon.CachedPokemon{
		ID:         id,
		NameEn:     nameEn,
		Name:       name,
		Types:      types,
		Sprite:     "https://img.example/" + nameEn + ".png",
		Stats:      stats,
		Generation: generation,
	}
}

// typeRelations is the attacking side of the current type chart:
// type -> {double_damage_to, half_damage_to, no_damage_to}
var typeRelations = map[string][3][]string{
	"normal":   {nil, {"rock", "steel"}, {"ghost"}},
	"fire":     {{"grass", "ice", "bug", "steel"}, {"fire", "water", "rock", "dragon"}, nil},
	"water":    {{"fire", "ground", "rock"}, {"water", "grass", "dragon"}, nil},
	"electric": {{"water", "flying"}, {"electric", "grass", "dragon"}, {"ground"}},
	"grass":    {{"water", "ground", "rock"}, {"fire", "grass", "poison", "flying", "bug", "dragon", "steel"}, nil},
	"ice":      {{"grass", "ground", "flying", "dragon"}, {"fire", "water", "ice", "steel"}, nil},
	"fighting": {{"normal", "ice", "rock", "dark", "steel"}, {"poison", "flying", "psychic", "bug", "fairy"}, {"ghost"}},
	"poison":   {{"grass", "fairy"}, {"poison", "ground", "rock", "ghost"}, {"steel"}},
	"ground":   {{"fire", "electric", "poison", "rock", "steel"}, {"grass", "bug"}, {"flying"}},
	"flying":   {{"grass", "fighting", "bug"}, {"electric", "rock", "steel"}, nil},
	"psychic":  {{"fighting", "poison"}, {"psychic", "steel"}, {"dark"}},
	"bug":      {{"grass", "psychic", "dark"}, {"fire", "fighting", "poison", "flying", "ghost", "steel", "fairy"}, nil},
	"rock":     {{"fire", "ice", "flying", "bug"}, {"fighting", "ground", "steel"}, nil},
	"ghost":    {{"psychic", "ghost"}, {"dark"}, {"normal"}},
	"dragon":   {{"dragon"}, {"steel"}, {"fairy"}},
	"dark":     {{"psychic", "ghost"}, {"fighting", "dark", "fairy"}, nil},
	"steel":    {{"ice", "rock", "fairy"}, {"fire", "water", "electric", "steel"}, nil},
	"fairy":    {{"fighting", "dragon", "dark"}, {"fire", "poison", "steel"}, nil},
}

// NewTypeRelationFixtures returns upstream damage relations for all 18 types
func NewTypeRelationFixtures() map[string]*pokeapi.TypeData {
	out := make(map[string]*pokeapi.TypeData, len(typeRelations))
	id := 1
	for name, rel := range typeRelations {
		out[name] = &pokeapi.TypeData{
			ID:   id,
			Name: name,
			DamageRelations: pokeapi.DamageRelations{
				DoubleDamageTo: resources(rel[0]),
				HalfDamageTo:   resources(rel[1]),
				NoDamageTo:     resources(rel[2]),
			},
		}
		id++
	}
	return out
}

func resources(names []string) []pokeapi.NamedResource {
	out := make([]pokeapi.NamedResource, len(names))
	for i, n := range names {
		out[i] = pokeapi.NamedResource{Name: n, URL: "https://pokeapi.co/api/v2/type/" + n + "/"}
	}
	return out
}
