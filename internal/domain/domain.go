package domain

import "github.com/yungbote/pokedex-cache/internal/domain/pokedex"

type Pokemon = pokedex.Pokemon
type PokemonType = pokedex.PokemonType
type PokemonAbility = pokedex.PokemonAbility
type Type = pokedex.Type
type Ability = pokedex.Ability
type ReferenceItem = pokedex.ReferenceItem
type RefKind = pokedex.RefKind
type LoadState = pokedex.LoadState
type Shape = pokedex.Shape

const (
	RefKindType    = pokedex.RefKindType
	RefKindAbility = pokedex.RefKindAbility

	ShapeRow       = pokedex.ShapeRow
	ShapeWithTypes = pokedex.ShapeWithTypes
	ShapeWithAll   = pokedex.ShapeWithAll
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&Type{},
		&Ability{},
		&Pokemon{},
		&PokemonType{},
		&PokemonAbility{},
	}
}
