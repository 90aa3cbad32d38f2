package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	"github.com/yungbote/pokedex-cache/internal/data/db"
	"github.com/yungbote/pokedex-cache/internal/jobs/warmup"
	"github.com/yungbote/pokedex-cache/internal/observability"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DBDriver         string `env:"DB_DRIVER" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"pokedex"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"pokedex.db"`
	DBMaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`

	RedisAddr       string `env:"REDIS_ADDR"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	PokeAPIBaseURL        string `env:"POKEAPI_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`
	PokeAPITimeoutSeconds int    `env:"POKEAPI_TIMEOUT_SECONDS" envDefault:"10"`
	PokeAPIMaxRetries     int    `env:"POKEAPI_MAX_RETRIES" envDefault:"3"`

	WarmupEnabled      bool `env:"WARMUP_ENABLED" envDefault:"false"`
	WarmupCount        int  `env:"WARMUP_COUNT" envDefault:"151"`
	WarmupBatchSize    int  `env:"WARMUP_BATCH_SIZE" envDefault:"10"`
	WarmupConcurrency  int  `env:"WARMUP_CONCURRENCY" envDefault:"1"`
	WarmupBatchPauseMS int  `env:"WARMUP_BATCH_PAUSE_MS" envDefault:"1000"`

	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"pokedex-cache"`
	OtelEnvironment string  `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	OtelVersion     string  `env:"OTEL_SERVICE_VERSION"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = 300
	}
	return cfg, nil
}

func (c Config) Addr() string { return ":" + c.Port }

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.PokeAPITimeoutSeconds) * time.Second
}

func (c Config) DBOptions() db.Options {
	return db.Options{
		Driver:           c.DBDriver,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
		PostgresSSLMode:  c.PostgresSSLMode,
		SQLitePath:       c.SQLitePath,
		MaxOpenConns:     c.DBMaxOpenConns,
		MaxIdleConns:     c.DBMaxIdleConns,
	}
}

func (c Config) PokeAPI() pokeapi.Config {
	return pokeapi.Config{
		BaseURL:    c.PokeAPIBaseURL,
		Timeout:    c.FetchTimeout(),
		MaxRetries: c.PokeAPIMaxRetries,
	}
}

func (c Config) Warmup() warmup.Config {
	return warmup.Config{
		Enabled:     c.WarmupEnabled,
		Count:       c.WarmupCount,
		BatchSize:   c.WarmupBatchSize,
		Concurrency: c.WarmupConcurrency,
		BatchPause:  time.Duration(c.WarmupBatchPauseMS) * time.Millisecond,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.OtelEnvironment,
		Version:     c.OtelVersion,
		Endpoint:    c.OtelEndpoint,
		Headers:     c.OtelHeaders,
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}
