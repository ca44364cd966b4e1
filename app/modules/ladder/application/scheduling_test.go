package ladderservice

import (
	"context"
	"errors"
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposeAndAcceptDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 1)
	rg := f.manual(t, 1, []uuid.UUID{pid(1), pid(2), pid(3), pid(4)})
	id := rg.Groups[0].Matches[0].ID
	when := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)

	view, err := f.svc.ProposeDate(ctx, ladderdomain.Actor{PlayerID: pid(1)}, id, "2026-03-06T19:00:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, string(ladderdomain.ScheduleDateProposed), view.ScheduleStatus)
	require.NotNil(t, view.ProposedFor)
	assert.True(t, when.Equal(*view.ProposedFor))
	assert.Equal(t, []uuid.UUID{pid(1)}, view.AcceptedBy)

	require.Len(t, f.notifier.Schedules, 1)
	proposal := f.notifier.Schedules[0]
	assert.False(t, proposal.Scheduled)
	assert.Equal(t, pid(1), proposal.ProposedBy)
	assert.ElementsMatch(t, []uuid.UUID{pid(2), pid(3), pid(4)}, proposal.Recipients)

	for _, p := range []uuid.UUID{pid(4), pid(2)} {
		view, err = f.svc.AcceptDate(ctx, ladderdomain.Actor{PlayerID: p}, id)
		require.NoError(t, err)
		assert.Equal(t, string(ladderdomain.ScheduleDateProposed), view.ScheduleStatus)
	}
	// Accepting twice changes nothing.
	view, err = f.svc.AcceptDate(ctx, ladderdomain.Actor{PlayerID: pid(2)}, id)
	require.NoError(t, err)
	assert.Len(t, view.AcceptedBy, 3)
	assert.Len(t, f.notifier.Schedules, 1)

	view, err = f.svc.AcceptDate(ctx, ladderdomain.Actor{PlayerID: pid(3)}, id)
	require.NoError(t, err)
	assert.Equal(t, string(ladderdomain.ScheduleScheduled), view.ScheduleStatus)
	require.NotNil(t, view.ScheduledAt)
	assert.True(t, when.Equal(*view.ScheduledAt))

	require.Len(t, f.notifier.Schedules, 2)
	scheduled := f.notifier.Schedules[1]
	assert.True(t, scheduled.Scheduled)
	assert.ElementsMatch(t, []uuid.UUID{pid(1), pid(2), pid(3), pid(4)}, scheduled.Recipients)
	assert.NotEqual(t, proposal.Subject(), scheduled.Subject())
}

func TestProposeDate_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 1)
	rg := f.manual(t, 1, []uuid.UUID{pid(1), pid(2), pid(3), pid(4)})
	id := rg.Groups[0].Matches[1].ID
	p1 := ladderdomain.Actor{PlayerID: pid(1)}

	tests := []struct {
		name  string
		actor ladderdomain.Actor
		when  string
		kind  error
		code  ladderdomain.Code
	}{
		{name: "unparseable", actor: p1, when: "some evening", kind: ladderdomain.ErrValidation, code: ladderdomain.CodeInvalidDate},
		{name: "in the past", actor: p1, when: "2026-03-03T18:00:00Z", kind: ladderdomain.ErrValidation, code: ladderdomain.CodeInvalidDate},
		{name: "after the round", actor: p1, when: "2026-04-01T18:00:00Z", kind: ladderdomain.ErrValidation, code: ladderdomain.CodeInvalidDate},
		{name: "outsider", actor: ladderdomain.Actor{PlayerID: pid(50)}, when: "2026-03-06T18:00:00Z", kind: ladderdomain.ErrPolicyViolation, code: ladderdomain.CodeNotMatchPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProposeDate(ctx, tt.actor, id, tt.when)
			requireCode(t, err, tt.kind, tt.code)
		})
	}
	assert.False(t, f.repo.Called("UpdateMatch"))
	assert.Empty(t, f.notifier.Schedules)

	t.Run("completed match", func(t *testing.T) {
		_, err := f.svc.ReportResult(ctx, admin, id, sweep[2])
		require.NoError(t, err)
		_, err = f.svc.ProposeDate(ctx, p1, id, "2026-03-06T18:00:00Z")
		requireCode(t, err, ladderdomain.ErrStateConflict, ladderdomain.CodeScheduleState)
	})
}

func TestAcceptDate_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, 1)
	rg := f.manual(t, 1, []uuid.UUID{pid(1), pid(2), pid(3), pid(4)})
	id := rg.Groups[0].Matches[0].ID

	_, err := f.svc.AcceptDate(ctx, ladderdomain.Actor{PlayerID: pid(2)}, id)
	requireCode(t, err, ladderdomain.ErrStateConflict, ladderdomain.CodeScheduleState)

	_, err = f.svc.ProposeDate(ctx, ladderdomain.Actor{PlayerID: pid(1)}, id, "2026-03-05T12:00:00Z")
	require.NoError(t, err)

	_, err = f.svc.AcceptDate(ctx, admin, id)
	requireCode(t, err, ladderdomain.ErrPolicyViolation, ladderdomain.CodeNotMatchPlayer)

	f.clock.t = time.Date(2026, 3, 5, 13, 0, 0, 0, time.UTC)
	_, err = f.svc.AcceptDate(ctx, ladderdomain.Actor{PlayerID: pid(2)}, id)
	requireCode(t, err, ladderdomain.ErrStateConflict, ladderdomain.CodeScheduleState)
}

func TestProposeDate_NotifierFailureIsTolerated(t *testing.T) {
	f := newFixture(t, 4, 1)
	rg := f.manual(t, 1, []uuid.UUID{pid(1), pid(2), pid(3), pid(4)})
	f.notifier.Err = errors.New("queue unavailable")

	view, err := f.svc.ProposeDate(context.Background(), admin, rg.Groups[0].Matches[0].ID, "tomorrow 7pm")
	require.NoError(t, err)
	assert.Empty(t, view.AcceptedBy, "an admin proposal accepts on nobody's behalf")
	assert.Equal(t, string(ladderdomain.ScheduleDateProposed), f.repo.Match(view.ID).ScheduleStatus)
}
