package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/pokedex-cache/internal/http"
	httpH "github.com/yungbote/pokedex-cache/internal/http/handlers"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Pokemon *httpH.PokemonHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Pokemon: httpH.NewPokemonHandler(services.Pokemon),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		HealthHandler:  handlers.Health,
		PokemonHandler: handlers.Pokemon,
		Metrics:        metrics,
		Log:            log,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
	})
}
