package pokedex

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

// PokemonRepo reads and writes cached pokemon. Single-row getters return
// (nil, nil) when the row does not exist.
type PokemonRepo interface {
	GetByID(dbc dbctx.Context, id int64) (*types.Pokemon, error)
	GetByIDWithTypes(dbc dbctx.Context, id int64) (*types.Pokemon, error)
	GetByIDWithAll(dbc dbctx.Context, id int64) (*types.Pokemon, error)
	GetByName(dbc dbctx.Context, name string) (*types.Pokemon, error)
	GetByNameWithTypes(dbc dbctx.Context, name string) (*types.Pokemon, error)
	GetByNameWithAll(dbc dbctx.Context, name string) (*types.Pokemon, error)
	LoadAbilities(dbc dbctx.Context, p *types.Pokemon) error

	ListWithAll(dbc dbctx.Context, offset, limit int) ([]*types.Pokemon, error)
	Count(dbc dbctx.Context) (int64, error)
	ListByTypeName(dbc dbctx.Context, name string, offset, limit int) ([]*types.Pokemon, int64, error)
	ListByAbilityName(dbc dbctx.Context, name string, offset, limit int) ([]*types.Pokemon, int64, error)
	ListWithHiddenAbilities(dbc dbctx.Context) ([]*types.Pokemon, error)
	ListWithMultipleTypes(dbc dbctx.Context) ([]*types.Pokemon, error)

	ExistsByID(dbc dbctx.Context, id int64) (bool, error)
	ExistsByName(dbc dbctx.Context, name string) (bool, error)
	ExistsByEnglishName(dbc dbctx.Context, englishName string) (bool, error)
	MaxID(dbc dbctx.Context) (int64, error)

	Create(dbc dbctx.Context, p *types.Pokemon) error
	Delete(dbc dbctx.Context, id int64) error
	RemoveTypeAssignment(dbc dbctx.Context, pokemonID int64, slot int) error
	RemoveAbilityAssignment(dbc dbctx.Context, pokemonID int64, slot int) error
}

type pokemonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPokemonRepo(db *gorm.DB, baseLog *logger.Logger) PokemonRepo {
	return &pokemonRepo{db: db, log: baseLog.With("repo", "PokemonRepo")}
}

const (
	typeMatchSubquery = `SELECT pt.pokemon_id FROM pokemon_types pt
		JOIN types t ON t.id = pt.type_id
		WHERE t.name = ? OR t.korean_name = ?`
	abilityMatchSubquery = `SELECT pa.pokemon_id FROM pokemon_abilities pa
		JOIN abilities a ON a.id = pa.ability_id
		WHERE a.name = ? OR a.korean_name = ?`
	hiddenAbilitySubquery = `SELECT pokemon_id FROM pokemon_abilities WHERE is_hidden = ?`
	multiTypeSubquery     = `SELECT pokemon_id FROM pokemon_types GROUP BY pokemon_id HAVING COUNT(*) > 1`
)

func withShape(q *gorm.DB, shape types.Shape) *gorm.DB {
	bySlot := func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }
	if shape >= types.ShapeWithTypes {
		q = q.Preload("Types", bySlot).Preload("Types.Type")
	}
	if shape >= types.ShapeWithAll {
		q = q.Preload("Abilities", bySlot).Preload("Abilities.Ability")
	}
	return q
}

func markLoaded(rows []*types.Pokemon, shape types.Shape) {
	for _, p := range rows {
		if p != nil {
			p.Loaded = shape.LoadState()
		}
	}
}

func (r *pokemonRepo) getByID(dbc dbctx.Context, id int64, shape types.Shape) (*types.Pokemon, error) {
	if id <= 0 {
		return nil, nil
	}
	var out []*types.Pokemon
	if err := withShape(dbc.DB(r.db), shape).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("get pokemon by id %d (%s): %w", id, shape, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	markLoaded(out, shape)
	return out[0], nil
}

// getByName prefers a canonical-name match over a localized-name match.
func (r *pokemonRepo) getByName(dbc dbctx.Context, name string, shape types.Shape) (*types.Pokemon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	// English names are stored lowercased; localized names match as given.
	lookups := []struct{ col, value string }{
		{"english_name", strings.ToLower(name)},
		{"name", name},
	}
	for _, l := range lookups {
		col := l.col
		var out []*types.Pokemon
		if err := withShape(dbc.DB(r.db), shape).
			Where(col+" = ?", l.value).
			Order("id ASC").
			Limit(1).
			Find(&out).Error; err != nil {
			return nil, fmt.Errorf("get pokemon by %s %q (%s): %w", col, name, shape, err)
		}
		if len(out) > 0 {
			markLoaded(out, shape)
			return out[0], nil
		}
	}
	return nil, nil
}

func (r *pokemonRepo) GetByID(dbc dbctx.Context, id int64) (*types.Pokemon, error) {
	return r.getByID(dbc, id, types.ShapeRow)
}

func (r *pokemonRepo) GetByIDWithTypes(dbc dbctx.Context, id int64) (*types.Pokemon, error) {
	return r.getByID(dbc, id, types.ShapeWithTypes)
}

func (r *pokemonRepo) GetByIDWithAll(dbc dbctx.Context, id int64) (*types.Pokemon, error) {
	return r.getByID(dbc, id, types.ShapeWithAll)
}

func (r *pokemonRepo) GetByName(dbc dbctx.Context, name string) (*types.Pokemon, error) {
	return r.getByName(dbc, name, types.ShapeRow)
}

func (r *pokemonRepo) GetByNameWithTypes(dbc dbctx.Context, name string) (*types.Pokemon, error) {
	return r.getByName(dbc, name, types.ShapeWithTypes)
}

func (r *pokemonRepo) GetByNameWithAll(dbc dbctx.Context, name string) (*types.Pokemon, error) {
	return r.getByName(dbc, name, types.ShapeWithAll)
}

func (r *pokemonRepo) LoadAbilities(dbc dbctx.Context, p *types.Pokemon) error {
	if p == nil {
		return nil
	}
	var rows []types.PokemonAbility
	if err := dbc.DB(r.db).
		Preload("Ability").
		Where("pokemon_id = ?", p.ID).
		Order("slot ASC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("load abilities for pokemon %d: %w", p.ID, err)
	}
	p.Abilities = rows
	p.Loaded.Abilities = true
	return nil
}

func (r *pokemonRepo) ListWithAll(dbc dbctx.Context, offset, limit int) ([]*types.Pokemon, error) {
	var out []*types.Pokemon
	q := withShape(dbc.DB(r.db), types.ShapeWithAll).Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}
	markLoaded(out, types.ShapeWithAll)
	return out, nil
}

func (r *pokemonRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Pokemon{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count pokemon: %w", err)
	}
	return n, nil
}

func (r *pokemonRepo) listMatching(dbc dbctx.Context, subquery string, args []any, offset, limit int) ([]*types.Pokemon, int64, error) {
	var total int64
	if err := dbc.DB(r.db).
		Model(&types.Pokemon{}).
		Where("id IN ("+subquery+")", args...).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Pokemon
	q := withShape(dbc.DB(r.db), types.ShapeWithAll).
		Where("id IN ("+subquery+")", args...).
		Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	markLoaded(out, types.ShapeWithAll)
	return out, total, nil
}

// ListByTypeName matches the type's canonical or localized name.
func (r *pokemonRepo) ListByTypeName(dbc dbctx.Context, name string, offset, limit int) ([]*types.Pokemon, int64, error) {
	out, total, err := r.listMatching(dbc, typeMatchSubquery, []any{name, name}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list pokemon by type %q: %w", name, err)
	}
	return out, total, nil
}

// ListByAbilityName matches the ability's canonical or localized name.
func (r *pokemonRepo) ListByAbilityName(dbc dbctx.Context, name string, offset, limit int) ([]*types.Pokemon, int64, error) {
	out, total, err := r.listMatching(dbc, abilityMatchSubquery, []any{name, name}, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list pokemon by ability %q: %w", name, err)
	}
	return out, total, nil
}

func (r *pokemonRepo) ListWithHiddenAbilities(dbc dbctx.Context) ([]*types.Pokemon, error) {
	out, _, err := r.listMatching(dbc, hiddenAbilitySubquery, []any{true}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list pokemon with hidden abilities: %w", err)
	}
	return out, nil
}

func (r *pokemonRepo) ListWithMultipleTypes(dbc dbctx.Context) ([]*types.Pokemon, error) {
	out, _, err := r.listMatching(dbc, multiTypeSubquery, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list pokemon with multiple types: %w", err)
	}
	return out, nil
}

func (r *pokemonRepo) exists(dbc dbctx.Context, col string, v any) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Pokemon{}).
		Where(col+" = ?", v).
		Limit(1).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("pokemon exists by %s: %w", col, err)
	}
	return n > 0, nil
}

func (r *pokemonRepo) ExistsByID(dbc dbctx.Context, id int64) (bool, error) {
	return r.exists(dbc, "id", id)
}

func (r *pokemonRepo) ExistsByName(dbc dbctx.Context, name string) (bool, error) {
	return r.exists(dbc, "name", name)
}

func (r *pokemonRepo) ExistsByEnglishName(dbc dbctx.Context, englishName string) (bool, error) {
	return r.exists(dbc, "english_name", englishName)
}

func (r *pokemonRepo) MaxID(dbc dbctx.Context) (int64, error) {
	var max int64
	if err := dbc.DB(r.db).
		Model(&types.Pokemon{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max pokemon id: %w", err)
	}
	return max, nil
}

// Create inserts the pokemon and its assignments atomically. The referenced
// types and abilities must already exist.
func (r *pokemonRepo) Create(dbc dbctx.Context, p *types.Pokemon) error {
	if p == nil {
		return fmt.Errorf("create pokemon: nil entity")
	}
	write := func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		for i := range p.Types {
			p.Types[i].PokemonID = p.ID
		}
		for i := range p.Abilities {
			p.Abilities[i].PokemonID = p.ID
		}
		if len(p.Types) > 0 {
			if err := tx.Omit("Type").Create(&p.Types).Error; err != nil {
				return err
			}
		}
		if len(p.Abilities) > 0 {
			if err := tx.Omit("Ability").Create(&p.Abilities).Error; err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if dbc.Tx != nil {
		err = write(dbc.DB(r.db))
	} else {
		err = dbc.DB(r.db).Transaction(write)
	}
	if err != nil {
		return fmt.Errorf("create pokemon %d: %w", p.ID, err)
	}
	p.Loaded = types.ShapeWithAll.LoadState()
	return nil
}

func (r *pokemonRepo) Delete(dbc dbctx.Context, id int64) error {
	if err := dbc.DB(r.db).Delete(&types.Pokemon{}, id).Error; err != nil {
		return fmt.Errorf("delete pokemon %d: %w", id, err)
	}
	return nil
}

func (r *pokemonRepo) RemoveTypeAssignment(dbc dbctx.Context, pokemonID int64, slot int) error {
	if err := dbc.DB(r.db).
		Where("pokemon_id = ? AND slot = ?", pokemonID, slot).
		Delete(&types.PokemonType{}).Error; err != nil {
		return fmt.Errorf("remove type slot %d from pokemon %d: %w", slot, pokemonID, err)
	}
	return nil
}

func (r *pokemonRepo) RemoveAbilityAssignment(dbc dbctx.Context, pokemonID int64, slot int) error {
	if err := dbc.DB(r.db).
		Where("pokemon_id = ? AND slot = ?", pokemonID, slot).
		Delete(&types.PokemonAbility{}).Error; err != nil {
		return fmt.Errorf("remove ability slot %d from pokemon %d: %w", slot, pokemonID, err)
	}
	return nil
}
