package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/data/cache"
	"github.com/yungbote/pokedex-cache/internal/jobs/warmup"
	"github.com/yungbote/pokedex-cache/internal/modules/pokedex"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
	"github.com/yungbote/pokedex-cache/internal/services"
)

type Services struct {
	Catalog    *pokedex.Catalog
	Normalizer *pokedex.Normalizer
	Pokemon    services.PokemonService
	Warmup     *warmup.Loader
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	translations, err := pokedex.DefaultTranslations()
	if err != nil {
		return Services{}, fmt.Errorf("load translations: %w", err)
	}
	nTypes, nAbilities := translations.Len()
	log.Info("Translations loaded", "types", nTypes, "abilities", nAbilities)

	catalog := pokedex.NewCatalog(reposet.Type, reposet.Ability, translations, log)
	normalizer := pokedex.NewNormalizer(catalog)

	var pages cache.PageCache
	if clients.Redis != nil {
		pages = cache.NewRedisPageCache(clients.Redis, cfg.CacheTTL(), log)
	}

	pokemon := services.NewPokemonService(db, log, reposet.Pokemon, clients.PokeAPI, normalizer, pages, cfg.FetchTimeout())
	loader := warmup.NewLoader(log, cfg.Warmup(), reposet.Pokemon, reposet.Type, pokemon).WithSource(clients.PokeAPI)

	return Services{
		Catalog:    catalog,
		Normalizer: normalizer,
		Pokemon:    pokemon,
		Warmup:     loader,
	}, nil
}
