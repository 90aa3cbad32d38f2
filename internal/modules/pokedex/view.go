package pokedex

import (
	"fmt"
	"net/url"
	"sort"

	types "github.com/yungbote/pokedex-cache/internal/domain"
)

// Collection status markers. "unavailable" means the collection was not
// loaded, which is different from a loaded collection with no items.
const (
	StatusLoaded      = "loaded"
	StatusEmpty       = "empty"
	StatusUnavailable = "unavailable"
)

type View struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	EnglishName string      `json:"english_name"`
	Height      *int        `json:"height"`
	Weight      *int        `json:"weight"`
	SpriteURL   *string     `json:"sprite_url"`
	Types       TypeList    `json:"types"`
	Abilities   AbilityList `json:"abilities"`
}

type TypeList struct {
	Status string     `json:"status"`
	Items  []TypeView `json:"items"`
}

type TypeView struct {
	Slot       int    `json:"slot"`
	Name       string `json:"name"`
	KoreanName string `json:"korean_name"`
}

type AbilityList struct {
	Status string        `json:"status"`
	Items  []AbilityView `json:"items"`
}

type AbilityView struct {
	Slot       int    `json:"slot"`
	Name       string `json:"name"`
	KoreanName string `json:"korean_name"`
	IsHidden   bool   `json:"is_hidden"`
}

// AssembleView builds the outward view with children ordered by slot.
func AssembleView(p *types.Pokemon) *View {
	if p == nil {
		return nil
	}
	v := &View{
		ID:          p.ID,
		Name:        p.Name,
		EnglishName: p.EnglishName,
		Height:      p.Height,
		Weight:      p.Weight,
		SpriteURL:   p.SpriteURL,
		Types:       TypeList{Status: StatusUnavailable, Items: []TypeView{}},
		Abilities:   AbilityList{Status: StatusUnavailable, Items: []AbilityView{}},
	}

	if p.Loaded.Types {
		rows := append([]types.PokemonType(nil), p.Types...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Slot < rows[j].Slot })
		for _, r := range rows {
			tv := TypeView{Slot: r.Slot}
			if r.Type != nil {
				tv.Name = r.Type.CanonicalName()
				tv.KoreanName = r.Type.LocalizedName()
			}
			v.Types.Items = append(v.Types.Items, tv)
		}
		v.Types.Status = statusFor(len(rows))
	}

	if p.Loaded.Abilities {
		rows := append([]types.PokemonAbility(nil), p.Abilities...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Slot < rows[j].Slot })
		for _, r := range rows {
			av := AbilityView{Slot: r.Slot, IsHidden: r.IsHidden}
			if r.Ability != nil {
				av.Name = r.Ability.CanonicalName()
				av.KoreanName = r.Ability.LocalizedName()
			}
			v.Abilities.Items = append(v.Abilities.Items, av)
		}
		v.Abilities.Status = statusFor(len(rows))
	}
	return v
}

func AssembleViews(rows []*types.Pokemon) []*View {
	out := make([]*View, 0, len(rows))
	for _, p := range rows {
		if v := AssembleView(p); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func statusFor(n int) string {
	if n == 0 {
		return StatusEmpty
	}
	return StatusLoaded
}

// Page is one window of a listing plus navigation query strings.
type Page struct {
	Items    []*View `json:"items"`
	Total    int64   `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	HasNext  bool    `json:"has_next"`
	HasPrev  bool    `json:"has_previous"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// NewPage computes navigation for a listing. filterKey/filterValue, when
// set, are carried into the next and previous query strings.
func NewPage(items []*View, total int64, limit, offset int, filterKey, filterValue string) *Page {
	if items == nil {
		items = []*View{}
	}
	p := &Page{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasNext: int64(offset+limit) < total,
		HasPrev: offset > 0,
	}
	suffix := ""
	if filterKey != "" && filterValue != "" {
		suffix = "&" + filterKey + "=" + url.QueryEscape(filterValue)
	}
	if p.HasNext {
		next := fmt.Sprintf("?limit=%d&offset=%d%s", limit, offset+limit, suffix)
		p.Next = &next
	}
	if p.HasPrev {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := fmt.Sprintf("?limit=%d&offset=%d%s", limit, prevOffset, suffix)
		p.Previous = &prev
	}
	return p
}

// DebugInfo reports how a stored pokemon was loaded.
type DebugInfo struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	EnglishName     string   `json:"english_name"`
	TypesLoaded     bool     `json:"types_loaded"`
	AbilitiesLoaded bool     `json:"abilities_loaded"`
	TypeCount       int      `json:"type_count"`
	AbilityCount    int      `json:"ability_count"`
	TypeNames       []string `json:"type_names"`
	AbilityNames    []string `json:"ability_names"`
	FallbackShape   bool     `json:"fallback_shape"`
}

func NewDebugInfo(p *types.Pokemon, fallback bool) *DebugInfo {
	if p == nil {
		return nil
	}
	v := AssembleView(p)
	d := &DebugInfo{
		ID:              p.ID,
		Name:            p.Name,
		EnglishName:     p.EnglishName,
		TypesLoaded:     p.Loaded.Types,
		AbilitiesLoaded: p.Loaded.Abilities,
		TypeCount:       len(v.Types.Items),
		AbilityCount:    len(v.Abilities.Items),
		TypeNames:       []string{},
		AbilityNames:    []string{},
		FallbackShape:   fallback,
	}
	for _, t := range v.Types.Items {
		d.TypeNames = append(d.TypeNames, t.Name)
	}
	for _, a := range v.Abilities.Items {
		d.AbilityNames = append(d.AbilityNames, a.Name)
	}
	return d
}
