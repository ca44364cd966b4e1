package app

import (
	"log/slog"
	"net/http"

	ladderidentity "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/identity"
	ladderrouter "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/router"
	"github.com/Black-And-White-Club/padel-ladder/config"
	"github.com/go-chi/chi/v5"
)

// Module is an application module exposing authenticated HTTP routes.
type Module interface {
	Routes(r chi.Router)
}

// newHTTPHandler mounts every module's routes under /v1.
func newHTTPHandler(cfg config.HTTPConfig, provider ladderidentity.Provider, logger *slog.Logger, health ladderrouter.HealthCheck, modules ...Module) http.Handler {
	return ladderrouter.New(ladderrouter.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
	}, provider, logger, health, func(r chi.Router) {
		for _, m := range modules {
			m.Routes(r)
		}
	})
}
