package pokedex

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var defaultTranslationsYAML []byte

// Translations maps canonical reference names to Korean display names.
// It is read-only after construction and safe for concurrent use.
type Translations struct {
	types     map[string]string
	abilities map[string]string
}

type translationsFile struct {
	Types     map[string]string `yaml:"types"`
	Abilities map[string]string `yaml:"abilities"`
}

func ParseTranslations(raw []byte) (*Translations, error) {
	var f translationsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}
	return &Translations{
		types:     lowerKeys(f.Types),
		abilities: lowerKeys(f.Abilities),
	}, nil
}

func DefaultTranslations() (*Translations, error) {
	return ParseTranslations(defaultTranslationsYAML)
}

// Type returns the localized name for a type, or name itself when unknown.
func (t *Translations) Type(name string) string {
	return lookup(t, name, func(t *Translations) map[string]string { return t.types })
}

// Ability returns the localized name for an ability, or name itself when unknown.
func (t *Translations) Ability(name string) string {
	return lookup(t, name, func(t *Translations) map[string]string { return t.abilities })
}

func (t *Translations) Len() (types, abilities int) {
	if t == nil {
		return 0, 0
	}
	return len(t.types), len(t.abilities)
}

func lookup(t *Translations, name string, table func(*Translations) map[string]string) string {
	if t == nil {
		return name
	}
	if v, ok := table(t)[strings.ToLower(strings.TrimSpace(name))]; ok && v != "" {
		return v
	}
	return name
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}
