package ladder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/padel-ladder/app/observability"
	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	ladderhandlers "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/handlers"
	laddermetrics "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/metrics"
	laddernotify "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/notifications"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/Black-And-White-Club/padel-ladder/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the ladder module.
type Module struct {
	Service  ladderservice.Service
	Handlers *ladderhandlers.LadderHandlers

	queue         *laddernotify.Queue
	publisher     message.Publisher
	cancelFunc    context.CancelFunc
	observability *observability.Provider
}

// NewLadderModule wires the repository, service, handlers and notification pipeline.
// Without a NATS URL notices are dropped and no queue is started.
func NewLadderModule(ctx context.Context, cfg *config.Config, obs *observability.Provider, db *bun.DB) (*Module, error) {
	logger := obs.Logger.With(attr.String("module", "ladder"))
	logger.InfoContext(ctx, "ladder.NewLadderModule initializing")

	metrics := laddermetrics.NewPrometheus(obs.Registry, "padel")
	repo := ladderdb.NewRepo(db, ladderdb.LockConfig{
		Attempts: cfg.Ladder.LockAttempts,
		Interval: cfg.Ladder.LockInterval,
		Timeout:  cfg.Ladder.LockTimeout,
	}, metrics)

	loc, err := time.LoadLocation(cfg.Ladder.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid ladder time zone %q: %w", cfg.Ladder.TimeZone, err)
	}

	m := &Module{observability: obs}
	var notifier ladderservice.Notifier = ladderservice.NoopNotifier{}
	if cfg.NATS.URL != "" {
		m.publisher, err = laddernotify.NewNATSPublisher(cfg.NATS.URL, logger, obs.Registry, cfg.Observability.Environment)
		if err != nil {
			return nil, err
		}
		m.queue, err = laddernotify.NewQueue(ctx, laddernotify.QueueConfig{
			DSN:           cfg.Postgres.DSN,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}, m.publisher, logger)
		if err != nil {
			_ = m.publisher.Close()
			return nil, fmt.Errorf("failed to create notification queue: %w", err)
		}
		notifier = m.queue.Dispatcher()
	} else {
		logger.WarnContext(ctx, "NATS URL not configured, notifications are disabled")
	}

	service := ladderservice.NewLadderService(repo, logger, metrics, obs.Tracer, db, ladderservice.Options{
		Notifier:         notifier,
		RevokeWindow:     cfg.Ladder.RevokeWindow,
		DefaultGroupSize: cfg.Ladder.DefaultGroupSize,
		Location:         loc,
	})

	m.Service = service
	m.Handlers = ladderhandlers.NewLadderHandlers(service, logger, obs.Tracer)
	return m, nil
}

// Routes mounts the ladder API.
func (m *Module) Routes(r chi.Router) {
	m.Handlers.Routes(r)
}

// Run starts the notification workers and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) error {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting ladder module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		// Stop drains the queue in Close, so cancelling ctx must not abort running jobs.
		if err := m.queue.Start(context.WithoutCancel(ctx)); err != nil {
			return err
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Ladder module goroutine stopped")
	return nil
}

// HealthCheck pings the notification queue's pool when one is configured.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}

// Close stops the queue, letting running jobs finish, then closes the publisher.
func (m *Module) Close(ctx context.Context) error {
	logger := m.observability.Logger
	logger.Info("Stopping ladder module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var errs []error
	if m.queue != nil {
		if err := m.queue.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing publisher: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error("Error stopping ladder module", attr.Error(err))
		return err
	}

	logger.Info("Ladder module stopped")
	return nil
}
