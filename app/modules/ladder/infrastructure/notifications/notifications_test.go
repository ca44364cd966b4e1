package laddernotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeInserter struct {
	inserted  []river.JobArgs
	duplicate bool
	err       error
}

func (f *fakeInserter) Insert(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, args)
	return &rivertype.JobInsertResult{
		Job:                      &rivertype.JobRow{ID: int64(len(f.inserted)), Kind: args.Kind()},
		UniqueSkippedAsDuplicate: f.duplicate,
	}, nil
}

func TestDispatcher(t *testing.T) {
	ctx := context.Background()
	ins := &fakeInserter{}
	d := NewDispatcher(ins, discard())

	proposal := ladderdomain.ScheduleNotice{
		MatchID:     uuid.New(),
		ProposedBy:  uuid.New(),
		ProposedFor: time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
		Recipients:  []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
	}
	require.NoError(t, d.NotifySchedule(ctx, proposal))
	scheduled := proposal
	scheduled.Scheduled = true
	require.NoError(t, d.NotifySchedule(ctx, scheduled))
	closed := ladderdomain.RoundClosedNotice{RoundID: uuid.New(), RoundNumber: 4}
	require.NoError(t, d.NotifyRoundClosed(ctx, closed))

	require.Len(t, ins.inserted, 3)
	subjects := make([]string, 0, 3)
	for _, a := range ins.inserted {
		args, ok := a.(NotificationArgs)
		require.True(t, ok)
		subjects = append(subjects, args.Subject)
	}
	assert.Equal(t, []string{
		ladderdomain.SubjectMatchDateProposed,
		ladderdomain.SubjectMatchScheduled,
		ladderdomain.SubjectRoundClosed,
	}, subjects)

	var decoded ladderdomain.RoundClosedNotice
	require.NoError(t, json.Unmarshal(ins.inserted[2].(NotificationArgs).Payload, &decoded))
	assert.Equal(t, closed, decoded)
}

func TestDispatcher_Errors(t *testing.T) {
	ins := &fakeInserter{err: errors.New("pool closed")}
	err := NewDispatcher(ins, discard()).NotifyRoundClosed(context.Background(), ladderdomain.RoundClosedNotice{})
	assert.ErrorContains(t, err, "pool closed")
	assert.ErrorContains(t, err, ladderdomain.SubjectRoundClosed)

	ins = &fakeInserter{duplicate: true}
	assert.NoError(t, NewDispatcher(ins, discard()).NotifyRoundClosed(context.Background(), ladderdomain.RoundClosedNotice{}))
}

func TestNotificationArgs_InsertOpts(t *testing.T) {
	opts := NotificationArgs{}.InsertOpts()
	assert.Equal(t, QueueNotifications, opts.Queue)
	assert.True(t, opts.UniqueOpts.ByArgs)
	assert.Equal(t, "ladder_notification", NotificationArgs{}.Kind())
}

func TestWorker_PublishesWithPrefix(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 4}, watermill.NopLogger{})
	defer pubsub.Close()

	w := NewWorker(pubsub, "padel", discard())
	topic := w.Topic(ladderdomain.SubjectRoundClosed)
	assert.Equal(t, "padel.ladder.round.closed", topic)

	messages, err := pubsub.Subscribe(ctx, topic)
	require.NoError(t, err)

	payload := json.RawMessage(`{"round_number":3}`)
	job := &river.Job[NotificationArgs]{
		JobRow: &rivertype.JobRow{ID: 42, Attempt: 1},
		Args:   NotificationArgs{Subject: ladderdomain.SubjectRoundClosed, Payload: payload},
	}
	require.NoError(t, w.Work(ctx, job))

	select {
	case msg := <-messages:
		assert.JSONEq(t, string(payload), string(msg.Payload))
		assert.Equal(t, topic, msg.Metadata.Get("subject"))
		assert.Equal(t, "42", msg.Metadata.Get("job_id"))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("notice was not published")
	}

	assert.Equal(t, ladderdomain.SubjectMatchScheduled, NewWorker(pubsub, "", discard()).Topic(ladderdomain.SubjectMatchScheduled))
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("nats: no servers available") }
func (failingPublisher) Close() error                              { return nil }

func TestWorker_PublishFailureIsRetried(t *testing.T) {
	w := NewWorker(failingPublisher{}, "", discard())
	job := &river.Job[NotificationArgs]{
		JobRow: &rivertype.JobRow{ID: 1, Attempt: 2},
		Args:   NotificationArgs{Subject: ladderdomain.SubjectMatchScheduled, Payload: json.RawMessage(`{}`)},
	}
	err := w.Work(context.Background(), job)
	assert.ErrorContains(t, err, "no servers available")
}

func TestDecorate(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	same, err := decorate(pubsub, discard(), prometheus.NewRegistry(), TestEnvironmentValue)
	require.NoError(t, err)
	assert.Same(t, pubsub, same)

	same, err = decorate(pubsub, discard(), nil, "production")
	require.NoError(t, err)
	assert.Same(t, pubsub, same)

	decorated, err := decorate(pubsub, discard(), prometheus.NewRegistry(), "production")
	require.NoError(t, err)
	assert.NotSame(t, pubsub, decorated)
}
