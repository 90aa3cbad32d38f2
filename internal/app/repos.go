package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/data/repos"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type Repos struct {
	Pokemon repos.PokemonRepo
	Type    repos.TypeRepo
	Ability repos.AbilityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Pokemon: repos.NewPokemonRepo(db, log),
		Type:    repos.NewTypeRepo(db, log),
		Ability: repos.NewAbilityRepo(db, log),
	}
}
