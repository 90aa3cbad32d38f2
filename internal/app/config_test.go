package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
	if cfg.DBDriver != "postgres" || cfg.CacheTTL() != 300*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	w := cfg.Warmup()
	if w.Enabled || w.Count != 151 || w.BatchSize != 10 || w.BatchPause != time.Second {
		t.Fatalf("unexpected warm-up defaults: %+v", w)
	}
	if cfg.PokeAPI().Timeout != 10*time.Second {
		t.Fatalf("fetch timeout = %s", cfg.PokeAPI().Timeout)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/dex.db")
	t.Setenv("WARMUP_ENABLED", "true")
	t.Setenv("WARMUP_BATCH_PAUSE_MS", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CACHE_TTL_SECONDS", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
	opts := cfg.DBOptions()
	if opts.Driver != "sqlite" || opts.SQLitePath != "/tmp/dex.db" {
		t.Fatalf("unexpected db options: %+v", opts)
	}
	if w := cfg.Warmup(); !w.Enabled || w.BatchPause != 250*time.Millisecond {
		t.Fatalf("unexpected warm-up config: %+v", w)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
	if cfg.CacheTTL() != 300*time.Second {
		t.Fatalf("non-positive ttl should fall back to default, got %s", cfg.CacheTTL())
	}
}

func TestLoadConfigRejectsBadInt(t *testing.T) {
	t.Setenv("WARMUP_COUNT", "lots")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}
