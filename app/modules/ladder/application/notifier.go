package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
)

// Notifier hands notices to the delivery pipeline. It is called after commit and its errors are only logged.
type Notifier interface {
	NotifySchedule(ctx context.Context, notice ladderdomain.ScheduleNotice) error
	NotifyRoundClosed(ctx context.Context, notice ladderdomain.RoundClosedNotice) error
}

// NoopNotifier drops every notice.
type NoopNotifier struct{}

func (NoopNotifier) NotifySchedule(context.Context, ladderdomain.ScheduleNotice) error       { return nil }
func (NoopNotifier) NotifyRoundClosed(context.Context, ladderdomain.RoundClosedNotice) error { return nil }
