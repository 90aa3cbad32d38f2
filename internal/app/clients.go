package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	"github.com/yungbote/pokedex-cache/internal/data/cache"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type Clients struct {
	PokeAPI pokeapi.Fetcher
	Redis   *goredis.Client
}

// wireClients builds the remote source client and, when REDIS_ADDR is set,
// the redis client. An unreachable redis only disables list caching.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	fetcher, err := pokeapi.NewClient(log, cfg.PokeAPI())
	if err != nil {
		return Clients{}, fmt.Errorf("init pokeapi client: %w", err)
	}

	var rdb *goredis.Client
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb, err = cache.NewRedisClient(ctx, addr)
		if err != nil {
			log.Warn("Redis unavailable, page cache disabled", "addr", addr, "error", err)
			rdb = nil
		}
	}

	return Clients{PokeAPI: fetcher, Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
