package ladderservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	laddermetrics "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/metrics"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LadderService"

// Options tunes a LadderService. Zero values fall back to defaults.
type Options struct {
	Clock            ladderdomain.Clock
	Notifier         Notifier
	RevokeWindow     time.Duration
	DefaultGroupSize int
	Location         *time.Location
}

// LadderService implements Service.
type LadderService struct {
	repo     ladderdb.Repository
	logger   *slog.Logger
	metrics  laddermetrics.LadderMetrics
	tracer   trace.Tracer
	db       *bun.DB
	clock    ladderdomain.Clock
	notifier Notifier
	dates    *DateParser

	revokeWindow     time.Duration
	defaultGroupSize int
}

// NewLadderService creates a new LadderService.
func NewLadderService(
	repo ladderdb.Repository,
	logger *slog.Logger,
	metrics laddermetrics.LadderMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts Options,
) *LadderService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = ladderdomain.RealClock{}
	}
	if opts.Notifier == nil {
		opts.Notifier = NoopNotifier{}
	}
	if opts.RevokeWindow <= 0 {
		opts.RevokeWindow = ladderdomain.DefaultRevokeWindow
	}
	if opts.DefaultGroupSize <= 0 {
		opts.DefaultGroupSize = ladderdomain.DefaultGroupSize
	}
	return &LadderService{
		repo:             repo,
		logger:           logger,
		metrics:          metrics,
		tracer:           tracer,
		db:               db,
		clock:            opts.Clock,
		notifier:         opts.Notifier,
		dates:            NewDateParser(opts.Location),
		revokeWindow:     opts.RevokeWindow,
		defaultGroupSize: opts.DefaultGroupSize,
	}
}

var _ Service = (*LadderService)(nil)

// operationFunc is the signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps an operation with tracing, metrics, logging and panic recovery.
func withTelemetry[S any, F any](
	s *LadderService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// errRollback aborts a transaction whose operation produced a domain failure.
var errRollback = errors.New("ladder: rollback on failure")

// writeTxOptions is the isolation of every mutation. Mutations poll the round lock first, and under
// READ COMMITTED each statement after the lock sees what the previous holder committed.
var writeTxOptions = sql.TxOptions{Isolation: sql.LevelReadCommitted}

// runInTx runs fn in a write transaction. A failure result rolls the transaction back.
func runInTx[S any](
	s *LadderService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error),
) (results.OperationResult[S, error], error) {
	opts := writeTxOptions
	return runWithOptions(s, ctx, &opts, fn)
}

// runReadOnly runs fn in a read-only REPEATABLE READ transaction.
func runReadOnly[S any](
	s *LadderService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error),
) (results.OperationResult[S, error], error) {
	return runWithOptions(s, ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func runWithOptions[S any](
	s *LadderService,
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error),
) (results.OperationResult[S, error], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, error]
	err := s.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		if result.IsFailure() {
			return errRollback
		}
		return nil
	})
	switch {
	case err == nil, errors.Is(err, errRollback):
		return result, nil
	case isSerializationFailure(err):
		return results.FailureResult[S, error](ladderdomain.NewIntegrityFailure(
			ladderdomain.CodeRollback, "concurrent update detected, retry the operation", err)), nil
	}
	return results.OperationResult[S, error]{}, err
}

func isSerializationFailure(err error) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Field('C') {
	case "40001", "40P01":
		return true
	}
	return false
}

// unwrap turns an operation result into the public (value, error) pair.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, errors.New("ladder: empty operation result")
	}
	return *result.Success, nil
}

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func ok[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

// fromRepo classifies a repository error: domain-visible conditions become failures, the rest stay infrastructure errors.
func fromRepo[S any](err error, what string) (results.OperationResult[S, error], error) {
	var le *ladderdomain.Error
	switch {
	case errors.As(err, &le):
		return fail[S](le)
	case errors.Is(err, ladderdb.ErrNotFound):
		return fail[S](ladderdomain.NewNotFound(what))
	case errors.Is(err, ladderdb.ErrLockTimeout):
		return fail[S](ladderdomain.NewIntegrityFailure(ladderdomain.CodeLockTimeout,
			"round is busy, retry the operation", err))
	}
	return results.OperationResult[S, error]{}, fmt.Errorf("%s: %w", what, err)
}
