package pokeapi

// Pokemon is the subset of /pokemon/{key} this service consumes.
type Pokemon struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Height    *int          `json:"height"`
	Weight    *int          `json:"weight"`
	Sprites   Sprites       `json:"sprites"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Species   NamedResource `json:"species"`
}

type Sprites struct {
	FrontDefault *string `json:"front_default"`
}

type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type AbilitySlot struct {
	Slot     int           `json:"slot"`
	IsHidden bool          `json:"is_hidden"`
	Ability  NamedResource `json:"ability"`
}

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Species carries the localized names of a pokemon.
type Species struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Names []SpeciesName `json:"names"`
}

type SpeciesName struct {
	Name     string        `json:"name"`
	Language NamedResource `json:"language"`
}

// LocalizedName returns the first name in lang, or "" when absent.
func (s *Species) LocalizedName(lang string) string {
	if s == nil {
		return ""
	}
	for _, n := range s.Names {
		if n.Language.Name == lang && n.Name != "" {
			return n.Name
		}
	}
	return ""
}

type ListPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}
