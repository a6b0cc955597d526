package pokeapi

// NamedResource is the {name, url} reference PokeAPI uses for every link
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonTypeSlot is one elemental type of a Pokemon in slot order
type PokemonTypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// PokemonStat is one base stat entry
type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// PokemonAbility is one ability entry
type PokemonAbility struct {
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
	Ability  NamedResource `json:"ability"`
}

// Sprites holds the sprite URLs; any of them may be null upstream
type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault *string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

// Pokemon is the response of /pokemon/{id}
type Pokemon struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Height    int               `json:"height"`
	Weight    int               `json:"weight"`
	Abilities []PokemonAbility  `json:"abilities"`
	Types     []PokemonTypeSlot `json:"types"`
	Stats     []PokemonStat     `json:"stats"`
	Sprites   Sprites           `json:"sprites"`
}

// LocalizedName is a name in one language
type LocalizedName struct {
	Name     string        `json:"name"`
	Language NamedResource `json:"language"`
}

// PokemonSpecies is the response of /pokemon-species/{id}
type PokemonSpecies struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Names      []LocalizedName `json:"names"`
	Generation NamedResource   `json:"generation"`
}

// DamageRelations lists the types affected by a type's attacks and defenses
type DamageRelations struct {
	NoDamageTo       []NamedResource `json:"no_damage_to"`
	HalfDamageTo     []NamedResource `json:"half_damage_to"`
	DoubleDamageTo   []NamedResource `json:"double_damage_to"`
	NoDamageFrom     []NamedResource `json:"no_damage_from"`
	HalfDamageFrom   []NamedResource `json:"half_damage_from"`
	DoubleDamageFrom []NamedResource `json:"double_damage_from"`
}

// TypeData is the response of /type/{name}
type TypeData struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	DamageRelations DamageRelations `json:"damage_relations"`
}
