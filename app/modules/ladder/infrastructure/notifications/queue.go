package laddernotify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Queue owns the River client that stores and runs notification jobs.
type Queue struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// QueueConfig sizes the notification workers.
type QueueConfig struct {
	DSN           string
	SubjectPrefix string
	MaxWorkers    int
}

// NewQueue opens a pgx pool for River and registers the notification worker.
func NewQueue(ctx context.Context, cfg QueueConfig, publisher message.Publisher, logger *slog.Logger) (*Queue, error) {
	logger = logger.With(attr.String("component", "river_queue"))

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewWorker(publisher, cfg.SubjectPrefix, logger))

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueNotifications: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.Info("Notification queue initialized", attr.Int("max_workers", maxWorkers))
	return &Queue{client: client, pool: pool, logger: logger}, nil
}

// Dispatcher returns a Notifier backed by this queue.
func (q *Queue) Dispatcher() *Dispatcher {
	return NewDispatcher(q.client, q.logger)
}

func (q *Queue) Start(ctx context.Context) error {
	if err := q.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	q.logger.Info("Notification queue started")
	return nil
}

// Stop waits for running jobs, then closes the pool.
func (q *Queue) Stop(ctx context.Context) error {
	defer q.pool.Close()
	if err := q.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	q.logger.Info("Notification queue stopped")
	return nil
}

func (q *Queue) HealthCheck(ctx context.Context) error {
	return q.pool.Ping(ctx)
}
