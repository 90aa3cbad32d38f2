package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

const (
	keyPrefix = "pokedex:page"
	genKey    = keyPrefix + ":gen"
)

// PageKey identifies one cached list page. Keys returned by Get are pinned
// to the generation observed at read time.
type PageKey struct {
	Kind   string
	Name   string
	Limit  int
	Offset int

	gen    int64
	pinned bool
}

// PageCache stores serialized list pages. Bump invalidates every page at
// once by moving to a new key generation.
//
// Get returns the key pinned to the generation it read. Passing that key to
// Set writes under the same generation, so a page built before a Bump lands
// in the dead generation and is never served.
type PageCache interface {
	Get(ctx context.Context, key PageKey, dst any) (PageKey, bool, error)
	Set(ctx context.Context, key PageKey, v any) error
	Bump(ctx context.Context) error
}

type redisPageCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisClient dials addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisPageCache(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) PageCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisPageCache{rdb: rdb, ttl: ttl, log: log.With("service", "RedisPageCache")}
}

func (c *redisPageCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisPageCache) pin(ctx context.Context, k PageKey) (PageKey, error) {
	if k.pinned {
		return k, nil
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return k, fmt.Errorf("page cache generation: %w", err)
	}
	k.gen, k.pinned = gen, true
	return k, nil
}

func (k PageKey) redisKey() string {
	return fmt.Sprintf("%s:%d:%s:%s:%d:%d", keyPrefix, k.gen, k.Kind, strings.ToLower(k.Name), k.Limit, k.Offset)
}

func (c *redisPageCache) Get(ctx context.Context, k PageKey, dst any) (PageKey, bool, error) {
	k, err := c.pin(ctx, k)
	if err != nil {
		return k, false, err
	}
	key := k.redisKey()
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return k, false, nil
	}
	if err != nil {
		return k, false, fmt.Errorf("page cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A page that no longer decodes is treated as a miss.
		c.log.Warn("page cache entry undecodable", "key", key, "error", err)
		return k, false, nil
	}
	return k, true, nil
}

func (c *redisPageCache) Set(ctx context.Context, k PageKey, v any) error {
	k, err := c.pin(ctx, k)
	if err != nil {
		return err
	}
	key := k.redisKey()
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("page cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("page cache set: %w", err)
	}
	return nil
}

func (c *redisPageCache) Bump(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("page cache bump: %w", err)
	}
	return nil
}
