package pokedex

import (
	"fmt"
	"strings"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
)

// LocalizedLanguage is the species language used for display names.
const LocalizedLanguage = "ko"

// Normalizer converts remote payloads into unsaved entities, resolving
// every referenced type and ability through the Catalog.
type Normalizer struct {
	catalog *Catalog
}

func NewNormalizer(catalog *Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Normalize fails as a whole if any reference cannot be resolved; it never
// returns a partially populated entity. species may be nil.
func (n *Normalizer) Normalize(dbc dbctx.Context, payload *pokeapi.Pokemon, species *pokeapi.Species) (*types.Pokemon, error) {
	if payload == nil || payload.ID <= 0 || strings.TrimSpace(payload.Name) == "" {
		return nil, fmt.Errorf("%w: malformed pokemon payload", ErrSourceUnavailable)
	}

	canonical := CanonicalName(payload.Name)
	out := &types.Pokemon{
		ID:          payload.ID,
		EnglishName: canonical,
		Name:        canonical,
		Height:      payload.Height,
		Weight:      payload.Weight,
	}
	if localized := species.LocalizedName(LocalizedLanguage); localized != "" {
		out.Name = localized
	}
	if s := payload.Sprites.FrontDefault; s != nil && strings.TrimSpace(*s) != "" {
		sprite := strings.TrimSpace(*s)
		out.SpriteURL = &sprite
	}

	out.Types = make([]types.PokemonType, 0, len(payload.Types))
	for i, ts := range payload.Types {
		t, err := n.catalog.GetOrCreateType(dbc, CanonicalName(ts.Type.Name))
		if err != nil {
			return nil, fmt.Errorf("resolve type %q for pokemon %d: %w", ts.Type.Name, payload.ID, err)
		}
		out.Types = append(out.Types, types.PokemonType{
			TypeID: t.ID,
			Type:   t,
			Slot:   slotOrPosition(ts.Slot, i),
		})
	}

	out.Abilities = make([]types.PokemonAbility, 0, len(payload.Abilities))
	for i, as := range payload.Abilities {
		a, err := n.catalog.GetOrCreateAbility(dbc, CanonicalName(as.Ability.Name))
		if err != nil {
			return nil, fmt.Errorf("resolve ability %q for pokemon %d: %w", as.Ability.Name, payload.ID, err)
		}
		out.Abilities = append(out.Abilities, types.PokemonAbility{
			AbilityID: a.ID,
			Ability:   a,
			Slot:      slotOrPosition(as.Slot, i),
			IsHidden:  as.IsHidden,
		})
	}
	out.Loaded = types.ShapeWithAll.LoadState()
	return out, nil
}

// CanonicalName is the form reference and pokemon names are stored under.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Slots come from the payload; a missing slot falls back to 1-based position.
func slotOrPosition(slot, index int) int {
	if slot > 0 {
		return slot
	}
	return index + 1
}
