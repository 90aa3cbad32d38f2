package pokedex

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type AbilityRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Ability, error)
	// CreateIfAbsent inserts row unless an ability with the same name exists.
	// It reports whether this call inserted the row.
	CreateIfAbsent(dbc dbctx.Context, row *types.Ability) (bool, error)
	List(dbc dbctx.Context) ([]*types.Ability, error)
	Count(dbc dbctx.Context) (int64, error)
}

type abilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAbilityRepo(db *gorm.DB, baseLog *logger.Logger) AbilityRepo {
	return &abilityRepo{db: db, log: baseLog.With("repo", "AbilityRepo")}
}

func (r *abilityRepo) GetByName(dbc dbctx.Context, name string) (*types.Ability, error) {
	if name == "" {
		return nil, nil
	}
	var out []*types.Ability
	if err := dbc.DB(r.db).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("get ability %q: %w", name, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *abilityRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Ability) (bool, error) {
	if row == nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *abilityRepo) List(dbc dbctx.Context) ([]*types.Ability, error) {
	var out []*types.Ability
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list abilities: %w", err)
	}
	return out, nil
}

func (r *abilityRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Ability{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count abilities: %w", err)
	}
	return n, nil
}
