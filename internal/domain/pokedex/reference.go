package pokedex

import "time"

// RefKind names one of the shared reference vocabularies.
type RefKind string

const (
	RefKindType    RefKind = "type"
	RefKindAbility RefKind = "ability"
)

// ReferenceItem is the common read surface of Type and Ability.
type ReferenceItem interface {
	RefKind() RefKind
	RefID() uint
	CanonicalName() string
	LocalizedName() string
}

type Type struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;size:50;not null;uniqueIndex:idx_types_name" json:"name"`
	KoreanName *string   `gorm:"column:korean_name;size:50;index" json:"korean_name,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Type) TableName() string { return "types" }

func (t *Type) RefKind() RefKind      { return RefKindType }
func (t *Type) RefID() uint           { return t.ID }
func (t *Type) CanonicalName() string { return t.Name }
func (t *Type) LocalizedName() string { return localized(t.Name, t.KoreanName) }

type Ability struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_abilities_name" json:"name"`
	KoreanName *string   `gorm:"column:korean_name;size:100;index" json:"korean_name,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Ability) TableName() string { return "abilities" }

func (a *Ability) RefKind() RefKind      { return RefKindAbility }
func (a *Ability) RefID() uint           { return a.ID }
func (a *Ability) CanonicalName() string { return a.Name }
func (a *Ability) LocalizedName() string { return localized(a.Name, a.KoreanName) }

func localized(canonical string, name *string) string {
	if name == nil || *name == "" {
		return canonical
	}
	return *name
}
