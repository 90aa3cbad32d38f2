package pokedex

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/data/db"
	"github.com/yungbote/pokedex-cache/internal/data/repos"
	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
	"github.com/yungbote/pokedex-cache/internal/platform/pointers"
)

// Catalog resolves shared reference items by canonical name, creating them
// on first sight. Concurrent callers resolving the same name always end up
// with the same row.
type Catalog struct {
	types        repos.TypeRepo
	abilities    repos.AbilityRepo
	translations *Translations
	log          *logger.Logger
}

func NewCatalog(typeRepo repos.TypeRepo, abilityRepo repos.AbilityRepo, tr *Translations, baseLog *logger.Logger) *Catalog {
	return &Catalog{
		types:        typeRepo,
		abilities:    abilityRepo,
		translations: tr,
		log:          baseLog.With("module", "Catalog"),
	}
}

func (c *Catalog) GetOrCreate(dbc dbctx.Context, kind types.RefKind, name string) (types.ReferenceItem, error) {
	switch kind {
	case types.RefKindType:
		return c.GetOrCreateType(dbc, name)
	case types.RefKindAbility:
		return c.GetOrCreateAbility(dbc, name)
	default:
		return nil, fmt.Errorf("%w: unknown reference kind %q", ErrValidation, kind)
	}
}

func (c *Catalog) GetOrCreateType(dbc dbctx.Context, name string) (*types.Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty type name", ErrValidation)
	}
	row, err := c.types.GetByName(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if row != nil {
		observability.Current().IncCatalog(string(types.RefKindType), "found")
		return row, nil
	}

	created := &types.Type{Name: name, KoreanName: pointers.String(c.translations.Type(name))}
	inserted, err := insertIfAbsent(dbc, func(sp dbctx.Context) (bool, error) {
		return c.types.CreateIfAbsent(sp, created)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create type %q: %w", ErrStorage, name, err)
	}
	if inserted {
		observability.Current().IncCatalog(string(types.RefKindType), "created")
		c.log.Debug("type created", "name", name, "id", created.ID)
		return created, nil
	}

	row, err = c.types.GetByName(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: type %q missing after insert", ErrStorage, name)
	}
	observability.Current().IncCatalog(string(types.RefKindType), "raced")
	return row, nil
}

func (c *Catalog) GetOrCreateAbility(dbc dbctx.Context, name string) (*types.Ability, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty ability name", ErrValidation)
	}
	row, err := c.abilities.GetByName(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if row != nil {
		observability.Current().IncCatalog(string(types.RefKindAbility), "found")
		return row, nil
	}

	created := &types.Ability{Name: name, KoreanName: pointers.String(c.translations.Ability(name))}
	inserted, err := insertIfAbsent(dbc, func(sp dbctx.Context) (bool, error) {
		return c.abilities.CreateIfAbsent(sp, created)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create ability %q: %w", ErrStorage, name, err)
	}
	if inserted {
		observability.Current().IncCatalog(string(types.RefKindAbility), "created")
		c.log.Debug("ability created", "name", name, "id", created.ID)
		return created, nil
	}

	row, err = c.abilities.GetByName(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: ability %q missing after insert", ErrStorage, name)
	}
	observability.Current().IncCatalog(string(types.RefKindAbility), "raced")
	return row, nil
}

// insertIfAbsent runs insert inside a savepoint when dbc carries a
// transaction, so a unique violation leaves the outer transaction usable.
// A unique violation is reported as "not inserted".
func insertIfAbsent(dbc dbctx.Context, insert func(dbctx.Context) (bool, error)) (bool, error) {
	var inserted bool
	var err error
	if dbc.Tx != nil {
		err = dbc.Tx.WithContext(dbc.Context()).Transaction(func(sp *gorm.DB) error {
			var inErr error
			inserted, inErr = insert(dbctx.Context{Ctx: dbc.Ctx, Tx: sp})
			return inErr
		})
	} else {
		inserted, err = insert(dbc)
	}
	if db.IsUniqueViolation(err) {
		return false, nil
	}
	return inserted, err
}
