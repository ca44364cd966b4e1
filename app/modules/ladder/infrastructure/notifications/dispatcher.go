package laddernotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// Inserter is the part of the River client the dispatcher needs.
type Inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Dispatcher turns notices into River jobs. It satisfies the service's Notifier.
type Dispatcher struct {
	inserter Inserter
	logger   *slog.Logger
}

func NewDispatcher(inserter Inserter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{inserter: inserter, logger: logger}
}

func (d *Dispatcher) NotifySchedule(ctx context.Context, notice ladderdomain.ScheduleNotice) error {
	return d.enqueue(ctx, notice.Subject(), notice)
}

func (d *Dispatcher) NotifyRoundClosed(ctx context.Context, notice ladderdomain.RoundClosedNotice) error {
	return d.enqueue(ctx, ladderdomain.SubjectRoundClosed, notice)
}

func (d *Dispatcher) enqueue(ctx context.Context, subject string, notice any) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal %s notice: %w", subject, err)
	}

	res, err := d.inserter.Insert(ctx, NotificationArgs{Subject: subject, Payload: payload}, nil)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s notice: %w", subject, err)
	}
	if res.UniqueSkippedAsDuplicate {
		d.logger.DebugContext(ctx, "Duplicate notice skipped", attr.String("subject", subject))
		return nil
	}
	d.logger.InfoContext(ctx, "Notice enqueued",
		attr.String("subject", subject),
		slog.Int64("job_id", res.Job.ID),
	)
	return nil
}
