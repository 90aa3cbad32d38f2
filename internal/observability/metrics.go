package observability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

// Lookup outcomes recorded by the orchestrator.
const (
	LookupHit         = "hit"
	LookupMissFilled  = "miss_filled"
	LookupRaceLost    = "race_lost"
	LookupNotFound    = "not_found"
	LookupUnavailable = "unavailable"
	LookupError       = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	lookups      *prometheus.CounterVec
	remoteFetch  *prometheus.HistogramVec
	catalogRefs  *prometheus.CounterVec
	pageCache    *prometheus.CounterVec
	warmupLoaded *prometheus.CounterVec

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics once. It returns nil when disabled,
// and every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pokedex_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pokedex_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pokedex_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pokedex_lookups_total",
			Help: "Pokemon lookups by outcome.",
		}, []string{"outcome"}),
		remoteFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pokedex_remote_fetch_duration_seconds",
			Help:    "Remote source request latency by resource/status.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"resource", "status"}),
		catalogRefs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pokedex_catalog_resolutions_total",
			Help: "Reference item resolutions by kind/result.",
		}, []string{"kind", "result"}),
		pageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pokedex_page_cache_total",
			Help: "Page cache lookups by result.",
		}, []string{"result"}),
		warmupLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pokedex_warmup_items_total",
			Help: "Warm-up items by status.",
		}, []string{"status"}),
		pgStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pokedex_db_pool",
			Help: "Database pool statistics.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pokedex_redis_up",
			Help: "Redis connectivity (1=up, 0=down).",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pokedex_redis_ping_seconds",
			Help: "Redis ping latency in seconds.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.lookups,
		m.remoteFetch,
		m.catalogRefs,
		m.pageCache,
		m.warmupLoaded,
		m.pgStats,
		m.redisUp,
		m.redisPing,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRemoteFetch(resource, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.remoteFetch.WithLabelValues(resource, status).Observe(dur.Seconds())
}

// IncCatalog records a get-or-create result: found, created or raced.
func (m *Metrics) IncCatalog(kind, result string) {
	if m == nil {
		return
	}
	m.catalogRefs.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) IncPageCache(result string) {
	if m == nil {
		return
	}
	m.pageCache.WithLabelValues(result).Inc()
}

func (m *Metrics) IncWarmup(status string) {
	if m == nil {
		return
	}
	m.warmupLoaded.WithLabelValues(status).Inc()
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
