package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/pointers"
)

func SeedType(tb testing.TB, ctx context.Context, tx *gorm.DB, name, korean string) *types.Type {
	tb.Helper()
	row := &types.Type{Name: name, KoreanName: pointers.StringOrNil(korean)}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed type: %v", err)
	}
	return row
}

func SeedAbility(tb testing.TB, ctx context.Context, tx *gorm.DB, name, korean string) *types.Ability {
	tb.Helper()
	row := &types.Ability{Name: name, KoreanName: pointers.StringOrNil(korean)}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed ability: %v", err)
	}
	return row
}

// NewPokemon builds an unsaved pokemon with the given assignments in slot order.
func NewPokemon(id int64, name, english string, typeRows []*types.Type, abilityRows []*types.Ability, hidden ...bool) *types.Pokemon {
	p := &types.Pokemon{
		ID:          id,
		Name:        name,
		EnglishName: english,
		Height:      pointers.Int(4),
		Weight:      pointers.Int(60),
	}
	for i, t := range typeRows {
		p.Types = append(p.Types, types.PokemonType{TypeID: t.ID, Type: t, Slot: i + 1})
	}
	for i, a := range abilityRows {
		isHidden := i < len(hidden) && hidden[i]
		p.Abilities = append(p.Abilities, types.PokemonAbility{AbilityID: a.ID, Ability: a, Slot: i + 1, IsHidden: isHidden})
	}
	return p
}
