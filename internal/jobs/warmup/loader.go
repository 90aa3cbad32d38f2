package warmup

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	"github.com/yungbote/pokedex-cache/internal/data/repos"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
	"github.com/yungbote/pokedex-cache/internal/services"
)

const statsTypeLimit = 5

type Config struct {
	Enabled     bool
	Count       int
	BatchSize   int
	Concurrency int
	BatchPause  time.Duration
}

type Stats struct {
	Requested int64
	Loaded    int64
	Skipped   int64
	Failed    int64
	Total     int64
}

// Loader pre-populates the store with ids 1..Count through the normal
// lookup path, so warmed rows go through the same normalization.
type Loader struct {
	log         *logger.Logger
	cfg         Config
	pokemonRepo repos.PokemonRepo
	typeRepo    repos.TypeRepo
	pokemon     services.PokemonService
	source      pokeapi.Fetcher
}

func NewLoader(baseLog *logger.Logger, cfg Config, pokemonRepo repos.PokemonRepo, typeRepo repos.TypeRepo, pokemon services.PokemonService) *Loader {
	if cfg.Count <= 0 {
		cfg.Count = 151
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = 0
	}
	return &Loader{
		log:         baseLog.With("component", "WarmupLoader"),
		cfg:         cfg,
		pokemonRepo: pokemonRepo,
		typeRepo:    typeRepo,
		pokemon:     pokemon,
	}
}

// WithSource lets the loader cap its target at the number of entries the
// remote source lists.
func (l *Loader) WithSource(source pokeapi.Fetcher) *Loader {
	l.source = source
	return l
}

func (l *Loader) target(ctx context.Context) int {
	target := l.cfg.Count
	if l.source == nil {
		return target
	}
	page, err := l.source.ListPokemon(ctx, 1, 0)
	if err != nil {
		l.log.Warn("Warm-up could not read remote count, using configured target", "error", err)
		return target
	}
	if page.Count > 0 && page.Count < target {
		l.log.Info("Warm-up target capped by remote count", "configured", target, "remote", page.Count)
		return page.Count
	}
	return target
}

// Start runs the loader in the background when enabled.
func (l *Loader) Start(ctx context.Context) {
	if !l.cfg.Enabled {
		l.log.Info("Warm-up disabled")
		return
	}
	go func() {
		if _, err := l.Run(ctx); err != nil {
			l.log.Warn("Warm-up stopped", "error", err)
		}
	}()
}

func (l *Loader) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	dbc := dbctx.Context{Ctx: ctx}

	target := l.target(ctx)
	existing, err := l.pokemonRepo.Count(dbc)
	if err != nil {
		return stats, err
	}
	if existing >= int64(target) {
		l.log.Info("Warm-up skipped, store already populated", "existing", existing, "target", target)
		stats.Total = existing
		return stats, nil
	}

	start := time.Now()
	l.log.Info("Warm-up starting",
		"existing", existing,
		"target", target,
		"batch_size", l.cfg.BatchSize,
		"concurrency", l.cfg.Concurrency,
	)

	var loaded, skipped, failed atomic.Int64
	for first := 1; first <= target; first += l.cfg.BatchSize {
		last := first + l.cfg.BatchSize - 1
		if last > target {
			last = target
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.cfg.Concurrency)
		for id := first; id <= last; id++ {
			id := int64(id)
			g.Go(func() error {
				ok, err := l.pokemonRepo.ExistsByID(dbctx.Context{Ctx: gctx}, id)
				if err == nil && ok {
					skipped.Add(1)
					observability.Current().IncWarmup("skipped")
					return nil
				}
				if _, err := l.pokemon.GetByKey(gctx, strconv.FormatInt(id, 10)); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					failed.Add(1)
					observability.Current().IncWarmup("failed")
					l.log.Warn("Warm-up item failed", "pokemon_id", id, "error", err)
					return nil
				}
				loaded.Add(1)
				observability.Current().IncWarmup("loaded")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return l.fill(stats, target, &loaded, &skipped, &failed), err
		}
		l.log.Debug("Warm-up batch done", "first", first, "last", last)

		if last < target && l.cfg.BatchPause > 0 {
			select {
			case <-ctx.Done():
				return l.fill(stats, target, &loaded, &skipped, &failed), ctx.Err()
			case <-time.After(l.cfg.BatchPause):
			}
		}
	}

	l.fill(stats, target, &loaded, &skipped, &failed)
	if total, err := l.pokemonRepo.Count(dbc); err == nil {
		stats.Total = total
	}
	l.log.Info("Warm-up finished",
		"loaded", stats.Loaded,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"total", stats.Total,
		"elapsed", time.Since(start).String(),
	)
	l.logTypeStats(dbc)
	return stats, nil
}

func (l *Loader) fill(stats *Stats, target int, loaded, skipped, failed *atomic.Int64) *Stats {
	stats.Requested = int64(target)
	stats.Loaded = loaded.Load()
	stats.Skipped = skipped.Load()
	stats.Failed = failed.Load()
	return stats
}

func (l *Loader) logTypeStats(dbc dbctx.Context) {
	typeRows, err := l.typeRepo.List(dbc)
	if err != nil {
		l.log.Warn("Warm-up type stats unavailable", "error", err)
		return
	}
	if len(typeRows) > statsTypeLimit {
		typeRows = typeRows[:statsTypeLimit]
	}
	for _, t := range typeRows {
		_, n, err := l.pokemonRepo.ListByTypeName(dbc, t.Name, 0, 1)
		if err != nil {
			continue
		}
		l.log.Info("Warm-up type stats", "type", t.Name, "korean_name", t.LocalizedName(), "pokemon", n)
	}
}
