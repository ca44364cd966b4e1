package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/padel-ladder/app/modules/ladder"
	ladderidentity "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/identity"
	"github.com/Black-And-White-Club/padel-ladder/app/observability"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/Black-And-White-Club/padel-ladder/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App owns the process-wide resources.
type App struct {
	Config        *config.Config
	Observability *observability.Provider
	DB            *bun.DB
	Ladder        *ladder.Module

	server        *http.Server
	metricsServer *http.Server
}

// NewApp connects to Postgres, builds the ladder module and prepares both HTTP servers.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.New(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	db, err := openDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to PostgreSQL", attr.Error(err))
		return nil, err
	}

	ladderModule, err := ladder.NewLadderModule(ctx, cfg, obs, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize ladder module: %w", err)
	}

	if cfg.JWT.Secret == "" {
		logger.WarnContext(ctx, "JWT secret is empty, every API request will be rejected")
	}
	handler := newHTTPHandler(cfg.HTTP, ladderidentity.NewProvider(cfg.JWT.Secret), logger,
		healthCheck(db, ladderModule), ladderModule)

	a := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		Ladder:        ladderModule,
		server: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{Registry: obs.Registry}))
		a.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return a, nil
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func healthCheck(db *bun.DB, m *ladder.Module) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		return m.HealthCheck(ctx)
	}
}
