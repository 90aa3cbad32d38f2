package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/data/repos/pokedex"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type PokemonRepo = pokedex.PokemonRepo
type TypeRepo = pokedex.TypeRepo
type AbilityRepo = pokedex.AbilityRepo

func NewPokemonRepo(db *gorm.DB, baseLog *logger.Logger) PokemonRepo {
	return pokedex.NewPokemonRepo(db, baseLog)
}
func NewTypeRepo(db *gorm.DB, baseLog *logger.Logger) TypeRepo {
	return pokedex.NewTypeRepo(db, baseLog)
}
func NewAbilityRepo(db *gorm.DB, baseLog *logger.Logger) AbilityRepo {
	return pokedex.NewAbilityRepo(db, baseLog)
}
