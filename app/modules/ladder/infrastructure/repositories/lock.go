package ladderdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LockConfig bounds advisory lock acquisition.
type LockConfig struct {
	Attempts int
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultLockConfig waits at most five seconds for a busy round.
func DefaultLockConfig() LockConfig {
	return LockConfig{Attempts: 50, Interval: 100 * time.Millisecond, Timeout: 5 * time.Second}
}

// LockObserver receives the outcome of each lock acquisition.
type LockObserver interface {
	RecordLockWait(ctx context.Context, attempts int, waited time.Duration, acquired bool)
}

func roundLockKey(roundID uuid.UUID) string {
	return "ladder_round:" + roundID.String()
}

// AcquireRoundLock polls pg_try_advisory_xact_lock until it succeeds or the retry budget runs out.
// The lock is released when the surrounding transaction ends.
func (r *Repo) AcquireRoundLock(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	cfg := r.lock
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	start := time.Now()
	lockCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		var acquired bool
		err := db.NewRaw("SELECT pg_try_advisory_xact_lock(hashtext(?))", roundLockKey(roundID)).Scan(lockCtx, &acquired)
		if err != nil {
			if errors.Is(lockCtx.Err(), context.DeadlineExceeded) {
				r.observeLock(ctx, attempt, start, false)
				return fmt.Errorf("ladder.AcquireRoundLock(%s): %w", roundID, ErrLockTimeout)
			}
			return fmt.Errorf("ladder.AcquireRoundLock(%s): %w", roundID, err)
		}
		if acquired {
			r.observeLock(ctx, attempt, start, true)
			return nil
		}

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-lockCtx.Done():
			timer.Stop()
			r.observeLock(ctx, attempt, start, false)
			if ctx.Err() != nil {
				return fmt.Errorf("ladder.AcquireRoundLock(%s): %w", roundID, ctx.Err())
			}
			return fmt.Errorf("ladder.AcquireRoundLock(%s): %w", roundID, ErrLockTimeout)
		case <-timer.C:
		}
	}

	r.observeLock(ctx, cfg.Attempts, start, false)
	return fmt.Errorf("ladder.AcquireRoundLock(%s): %w after %d attempts", roundID, ErrLockTimeout, cfg.Attempts)
}

func (r *Repo) observeLock(ctx context.Context, attempts int, start time.Time, acquired bool) {
	if r.observer != nil {
		r.observer.RecordLockWait(ctx, attempts, time.Since(start), acquired)
	}
}
