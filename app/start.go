package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"golang.org/x/sync/errgroup"
)

// Run serves until ctx is cancelled or a server fails, then shuts everything down.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.Ladder.Run(gctx, nil)
	})
	g.Go(func() error {
		logger.Info("Starting API server", attr.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	if app.metricsServer != nil {
		g.Go(func() error {
			logger.Info("Starting metrics server", attr.String("address", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return app.Shutdown(context.WithoutCancel(ctx))
	})

	return g.Wait()
}
