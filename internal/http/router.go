package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pokedex-cache/internal/http/handlers"
	httpMW "github.com/yungbote/pokedex-cache/internal/http/middleware"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type RouterConfig struct {
	PokemonHandler *httpH.PokemonHandler
	HealthHandler  *httpH.HealthHandler

	Metrics     *observability.Metrics
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.PokemonHandler != nil {
			pokemon := api.Group("/pokemon")
			pokemon.GET("", cfg.PokemonHandler.ListPokemon)
			pokemon.GET("/search", cfg.PokemonHandler.Search)
			pokemon.GET("/types/:name", cfg.PokemonHandler.ListByType)
			pokemon.GET("/abilities/:name", cfg.PokemonHandler.ListByAbility)
			pokemon.GET("/hidden-abilities", cfg.PokemonHandler.ListHiddenAbilities)
			pokemon.GET("/multi-type", cfg.PokemonHandler.ListMultiType)
			pokemon.GET("/debug/:key", cfg.PokemonHandler.Debug)
			pokemon.GET("/:key", cfg.PokemonHandler.GetPokemon)
		}
	}

	return r
}
