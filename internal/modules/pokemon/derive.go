package pokemon

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/partydex/partydex/internal/clients/pokeapi"
)

// ExtractStats maps upstream stat entries to Stats. Missing stats count as 0.
func ExtractStats(raw []pokeapi.PokemonStat) Stats {
	get := func(name string) int {
		for _, s := range raw {
			if s.Stat.Name == name {
				return s.BaseStat
			}
		}
		return 0
	}

	stats := Stats{
		HP:             get("hp"),
		Attack:         get("attack"),
		Defense:        get("defense"),
		SpecialAttack:  get("special-attack"),
		SpecialDefense: get("special-defense"),
		Speed:          get("speed"),
	}
	stats.Total = stats.HP + stats.Attack + stats.Defense +
		stats.SpecialAttack + stats.SpecialDefense + stats.Speed
	return stats
}

// ParseGeneration extracts the generation number from a label such as
// "generation-iv" or "generation-4". Returns 0 when the label does not match
// or names a generation outside 1..MaxGeneration.
func ParseGeneration(label string) int {
	label = strings.ToLower(strings.TrimSpace(label))
	suffix, ok := strings.CutPrefix(label, "generation-")
	if !ok || suffix == "" {
		return 0
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		n = parseRoman(suffix)
	}
	if n < 1 || n > MaxGeneration {
		return 0
	}
	return n
}

// ResolveGeneration assigns the generation of a roster member. The table
// range covering id wins; otherwise the species label is used when it names
// a generation known to the table. Anything else is 0.
func ResolveGeneration(id int, label string, table *GenerationTable) int {
	parsed := ParseGeneration(label)
	if table == nil {
		return parsed
	}
	if g := table.ForID(id); g != 0 {
		return g
	}
	if _, ok := table.Range(parsed); ok {
		return parsed
	}
	return 0
}

var romanValues = map[byte]int{
	'i': 1,
	'v': 5,
	'x': 10,
	'l': 50,
	'c': 100,
}

// parseRoman converts a lowercase roman numeral; 0 for anything else
func parseRoman(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if total <= 0 {
		return 0
	}
	return total
}

// LocalizedName returns the first species name in the given language,
// or fallback when there is none
func LocalizedName(names []pokeapi.LocalizedName, locale, fallback string) string {
	for _, n := range names {
		if n.Language.Name == locale && n.Name != "" {
			return n.Name
		}
	}
	return fallback
}

// ExtractTypes returns type names ordered by slot
func ExtractTypes(slots []pokeapi.PokemonTypeSlot) []string {
	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b pokeapi.PokemonTypeSlot) int {
		return cmp.Compare(a.Slot, b.Slot)
	})

	types := make([]string, len(sorted))
	for i, s := range sorted {
		types[i] = s.Type.Name
	}
	return types
}

// normalize builds a CachedPokemon from the two upstream records
func normalize(p *pokeapi.Pokemon, species *pokeapi.PokemonSpecies, locale string, table *GenerationTable) CachedPokemon {
	sprite := ""
	if p.Sprites.FrontDefault != nil {
		sprite = *p.Sprites.FrontDefault
	}

	return CachedPokemon{
		ID:         p.ID,
		NameEn:     p.Name,
		Name:       LocalizedName(species.Names, locale, p.Name),
		Types:      ExtractTypes(p.Types),
		Sprite:     sprite,
		Stats:      ExtractStats(p.Stats),
		Generation: ResolveGeneration(p.ID, species.Generation.Name, table),
	}
}
