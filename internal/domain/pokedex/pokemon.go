package pokedex

import "time"

// Pokemon is the cached creature row. ID comes from the upstream source and
// is never generated locally.
type Pokemon struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name        string  `gorm:"column:name;size:100;not null;index" json:"name"`
	EnglishName string  `gorm:"column:english_name;size:100;not null;uniqueIndex:idx_pokemon_english_name" json:"english_name"`
	Height      *int    `gorm:"column:height" json:"height,omitempty"`
	Weight      *int    `gorm:"column:weight" json:"weight,omitempty"`
	SpriteURL   *string `gorm:"column:sprite_url;size:500" json:"sprite_url,omitempty"`

	Types     []PokemonType    `gorm:"foreignKey:PokemonID;references:ID;constraint:OnDelete:CASCADE" json:"types,omitempty"`
	Abilities []PokemonAbility `gorm:"foreignKey:PokemonID;references:ID;constraint:OnDelete:CASCADE" json:"abilities,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Loaded records which child collections the row was fetched with.
	Loaded LoadState `gorm:"-" json:"-"`
}

func (Pokemon) TableName() string { return "pokemon" }

type LoadState struct {
	Types     bool
	Abilities bool
}

// Shape selects how much of the object graph a read brings back.
type Shape int

const (
	// ShapeRow loads the pokemon row only.
	ShapeRow Shape = iota
	// ShapeWithTypes loads the row plus type assignments and their types.
	ShapeWithTypes
	// ShapeWithAll loads type and ability assignments in one retrieval.
	ShapeWithAll
)

func (s Shape) String() string {
	switch s {
	case ShapeRow:
		return "row"
	case ShapeWithTypes:
		return "with_types"
	case ShapeWithAll:
		return "with_all"
	default:
		return "unknown"
	}
}

func (s Shape) LoadState() LoadState {
	return LoadState{
		Types:     s >= ShapeWithTypes,
		Abilities: s >= ShapeWithAll,
	}
}
