package app

import (
	"context"
	"errors"
	"time"

	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
)

const shutdownTimeout = 15 * time.Second

// Shutdown stops accepting requests, drains the notification queue and releases connections.
func (app *App) Shutdown(ctx context.Context) error {
	logger := app.Observability.Logger
	logger.Info("Shutting down application...", attr.String("timeout", shutdownTimeout.String()))

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
		_ = app.server.Close()
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := app.Ladder.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := app.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Shutdown finished with errors", attr.Error(err))
		return err
	}
	logger.Info("Application stopped")
	return nil
}
