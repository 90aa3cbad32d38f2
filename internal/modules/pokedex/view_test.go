package pokedex

import (
	"encoding/json"
	"net/http"
	"testing"

	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/pointers"
)

func TestAssembleViewOrdersBySlot(t *testing.T) {
	fire := &types.Type{ID: 1, Name: "fire", KoreanName: pointers.String("불꽃")}
	flying := &types.Type{ID: 2, Name: "flying"}
	p := &types.Pokemon{
		ID:          6,
		Name:        "리자몽",
		EnglishName: "charizard",
		Types: []types.PokemonType{
			{Slot: 2, TypeID: 2, Type: flying},
			{Slot: 1, TypeID: 1, Type: fire},
		},
		Abilities: []types.PokemonAbility{
			{Slot: 3, IsHidden: true, Ability: &types.Ability{Name: "solar-power"}},
			{Slot: 1, Ability: &types.Ability{Name: "blaze", KoreanName: pointers.String("맹화")}},
		},
		Loaded: types.ShapeWithAll.LoadState(),
	}

	v := AssembleView(p)
	if v.Types.Status != StatusLoaded || v.Types.Items[0].Name != "fire" || v.Types.Items[1].Slot != 2 {
		t.Fatalf("types=%+v", v.Types)
	}
	if v.Types.Items[0].KoreanName != "불꽃" || v.Types.Items[1].KoreanName != "flying" {
		t.Fatalf("localized type names=%+v", v.Types.Items)
	}
	if v.Abilities.Items[0].Name != "blaze" || !v.Abilities.Items[1].IsHidden {
		t.Fatalf("abilities=%+v", v.Abilities)
	}
	if p.Types[0].Slot != 2 {
		t.Fatalf("AssembleView reordered the entity")
	}
}

func TestAssembleViewDistinguishesEmptyFromUnavailable(t *testing.T) {
	p := &types.Pokemon{ID: 1, Name: "x", EnglishName: "x", Loaded: types.LoadState{Types: true}}
	v := AssembleView(p)
	if v.Types.Status != StatusEmpty || v.Abilities.Status != StatusUnavailable {
		t.Fatalf("status types=%q abilities=%q", v.Types.Status, v.Abilities.Status)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	abilities := decoded["abilities"].(map[string]any)
	if abilities["status"] != StatusUnavailable || abilities["items"] == nil {
		t.Fatalf("abilities json=%v", abilities)
	}
}

func TestNewPageNavigation(t *testing.T) {
	p := NewPage(nil, 45, 20, 20, "", "")
	if !p.HasNext || !p.HasPrev || *p.Next != "?limit=20&offset=40" || *p.Previous != "?limit=20&offset=0" {
		t.Fatalf("middle page=%+v", p)
	}

	last := NewPage(nil, 45, 20, 40, "type", "불꽃")
	if last.HasNext || last.Next != nil {
		t.Fatalf("last page has next: %+v", last)
	}
	if *last.Previous != "?limit=20&offset=20&type=%EB%B6%88%EA%BD%83" {
		t.Fatalf("previous=%q", *last.Previous)
	}

	first := NewPage(nil, 5, 20, 5, "ability", "static")
	if *first.Previous != "?limit=20&offset=0&ability=static" || first.HasNext {
		t.Fatalf("clamped previous=%+v", first)
	}
	if first.Items == nil {
		t.Fatalf("items should be an empty slice")
	}
}

func TestToAPIError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrValidation, http.StatusBadRequest, "invalid_argument"},
		{ErrNotFound, http.StatusNotFound, "pokemon_not_found"},
		{ErrSourceUnavailable, http.StatusServiceUnavailable, "source_unavailable"},
		{ErrStorage, http.StatusInternalServerError, "storage_error"},
		{json.Unmarshal([]byte("{"), &struct{}{}), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ae := ToAPIError(tc.err)
		if ae.Status != tc.status || ae.Code != tc.code {
			t.Fatalf("%v: got %d/%s want %d/%s", tc.err, ae.Status, ae.Code, tc.status, tc.code)
		}
	}
	if ToAPIError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}

func TestTranslationsLookup(t *testing.T) {
	tr, err := DefaultTranslations()
	if err != nil {
		t.Fatalf("DefaultTranslations: %v", err)
	}
	if got := tr.Type("Psychic"); got != "에스퍼" {
		t.Fatalf("Type(Psychic)=%q", got)
	}
	if got := tr.Ability("slow-start"); got != "슬로스타트" {
		t.Fatalf("Ability(slow-start)=%q", got)
	}
	if got := tr.Type("shadow"); got != "shadow" {
		t.Fatalf("unknown type should echo, got %q", got)
	}
	nTypes, nAbilities := tr.Len()
	if nTypes != 18 || nAbilities != 49 {
		t.Fatalf("table sizes types=%d abilities=%d", nTypes, nAbilities)
	}
	var nilTr *Translations
	if nilTr.Ability("guts") != "guts" {
		t.Fatalf("nil translations should echo")
	}
}
