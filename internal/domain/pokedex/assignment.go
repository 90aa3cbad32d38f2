package pokedex

// PokemonType is owned by its Pokemon and points at a shared Type by id.
// Deleting it never touches the Type row.
type PokemonType struct {
	ID        uint  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PokemonID int64 `gorm:"column:pokemon_id;not null;uniqueIndex:idx_pokemon_types_slot,priority:1" json:"pokemon_id"`
	TypeID    uint  `gorm:"column:type_id;not null;index" json:"type_id"`
	Type      *Type `gorm:"foreignKey:TypeID;references:ID;constraint:OnDelete:RESTRICT" json:"type,omitempty"`
	Slot      int   `gorm:"column:slot;not null;uniqueIndex:idx_pokemon_types_slot,priority:2" json:"slot"`
}

func (PokemonType) TableName() string { return "pokemon_types" }

type PokemonAbility struct {
	ID        uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PokemonID int64    `gorm:"column:pokemon_id;not null;uniqueIndex:idx_pokemon_abilities_slot,priority:1" json:"pokemon_id"`
	AbilityID uint     `gorm:"column:ability_id;not null;index" json:"ability_id"`
	Ability   *Ability `gorm:"foreignKey:AbilityID;references:ID;constraint:OnDelete:RESTRICT" json:"ability,omitempty"`
	Slot      int      `gorm:"column:slot;not null;uniqueIndex:idx_pokemon_abilities_slot,priority:2" json:"slot"`
	IsHidden  bool     `gorm:"column:is_hidden;not null;default:false;index" json:"is_hidden"`
}

func (PokemonAbility) TableName() string { return "pokemon_abilities" }
