package pokedex

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type TypeRepo interface {
	GetByName(dbc dbctx.Context, name string) (*types.Type, error)
	// CreateIfAbsent inserts row unless a type with the same name exists.
	// It reports whether this call inserted the row.
	CreateIfAbsent(dbc dbctx.Context, row *types.Type) (bool, error)
	List(dbc dbctx.Context) ([]*types.Type, error)
	Count(dbc dbctx.Context) (int64, error)
}

type typeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTypeRepo(db *gorm.DB, baseLog *logger.Logger) TypeRepo {
	return &typeRepo{db: db, log: baseLog.With("repo", "TypeRepo")}
}

func (r *typeRepo) GetByName(dbc dbctx.Context, name string) (*types.Type, error) {
	if name == "" {
		return nil, nil
	}
	var out []*types.Type
	if err := dbc.DB(r.db).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("get type %q: %w", name, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *typeRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Type) (bool, error) {
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

func (r *typeRepo) List(dbc dbctx.Context) ([]*types.Type, error) {
	var out []*types.Type
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	return out, nil
}

func (r *typeRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Type{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count types: %w", err)
	}
	return n, nil
}
