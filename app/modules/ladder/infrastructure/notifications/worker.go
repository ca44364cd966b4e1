package laddernotify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"
)

// Worker publishes queued notices. A failed publish is retried by River.
type Worker struct {
	river.WorkerDefaults[NotificationArgs]
	publisher message.Publisher
	prefix    string
	logger    *slog.Logger
}

func NewWorker(publisher message.Publisher, subjectPrefix string, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, prefix: subjectPrefix, logger: logger}
}

// Topic is where a subject is published once the prefix is applied.
func (w *Worker) Topic(subject string) string {
	if w.prefix == "" {
		return subject
	}
	return w.prefix + "." + subject
}

func (w *Worker) Work(ctx context.Context, job *river.Job[NotificationArgs]) error {
	topic := w.Topic(job.Args.Subject)

	msg := message.NewMessage(watermill.NewUUID(), []byte(job.Args.Payload))
	msg.Metadata.Set("subject", topic)
	msg.Metadata.Set("job_id", strconv.FormatInt(job.ID, 10))
	msg.Metadata.Set("attempt", strconv.Itoa(job.Attempt))
	msg.SetContext(ctx)

	if err := w.publisher.Publish(topic, msg); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish notice",
			attr.String("topic", topic),
			attr.Int("attempt", job.Attempt),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	w.logger.InfoContext(ctx, "Notice published",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
	return nil
}

func (w *Worker) Timeout(*river.Job[NotificationArgs]) time.Duration { return 30 * time.Second }
