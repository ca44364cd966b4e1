package ladderservice

import (
	"context"
	"slices"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProposeDate records a proposed date for a match. The proposer counts as having accepted it.
func (s *LadderService) ProposeDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, when string) (*MatchView, error) {
	var notice *ladderdomain.ScheduleNotice
	result, err := withTelemetry(s, ctx, "ProposeDate", matchID.String(), func(ctx context.Context) (results.OperationResult[*MatchView, error], error) {
		now := s.clock.Now()
		at, parsed := s.dates.Parse(when, now)
		if !parsed {
			return fail[*MatchView](ladderdomain.NewValidationError("when", ladderdomain.CodeInvalidDate, "could not understand the proposed date"))
		}
		if !at.After(now) {
			return fail[*MatchView](ladderdomain.NewValidationError("when", ladderdomain.CodeInvalidDate, "proposed date must be in the future"))
		}
		roundID, err := s.roundOfMatch(ctx, matchID)
		if err != nil {
			return fromRepo[*MatchView](err, "match")
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*MatchView, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*MatchView](err, "round")
			}
			scope, err := s.loadMatch(ctx, db, matchID)
			if err != nil {
				return fromRepo[*MatchView](err, "match")
			}
			if err := playableMatch(scope); err != nil {
				return fail[*MatchView](err)
			}
			m := scope.match
			pairing := pairingOf(*m)
			if !pairing.Has(actor.PlayerID) && !actor.IsAdmin {
				return fail[*MatchView](ladderdomain.NewPolicyViolation(ladderdomain.CodeNotMatchPlayer, "only the match players can propose a date"))
			}
			if m.Confirmed || m.ScheduleStatus == string(ladderdomain.ScheduleCompleted) {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeScheduleState, "match is already completed"))
			}
			if at.Before(scope.round.StartsAt) || at.After(scope.round.EndsAt) {
				return fail[*MatchView](ladderdomain.NewValidationError("when", ladderdomain.CodeInvalidDate, "proposed date is outside the round window"))
			}

			m.ScheduleStatus = string(ladderdomain.ScheduleDateProposed)
			m.ProposedBy = ptr(actor.PlayerID)
			m.ProposedFor = &at
			m.ScheduledAt = nil
			m.AcceptedBy = nil
			if pairing.Has(actor.PlayerID) {
				m.AcceptedBy = []string{actor.PlayerID.String()}
			}
			if err := s.repo.UpdateMatch(ctx, db, m); err != nil {
				return fromRepo[*MatchView](err, "match")
			}

			notice = scheduleNotice(m, scope.round.ID, actor.PlayerID, false)
			v := matchView(*m)
			return ok(&v)
		})
	})
	view, err := unwrap(result, err)
	if err == nil && notice != nil {
		s.sendSchedule(ctx, *notice)
	}
	return view, err
}

// AcceptDate records a player's agreement with the proposed date; once all four agree the match is SCHEDULED.
func (s *LadderService) AcceptDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*MatchView, error) {
	var notice *ladderdomain.ScheduleNotice
	result, err := withTelemetry(s, ctx, "AcceptDate", matchID.String(), func(ctx context.Context) (results.OperationResult[*MatchView, error], error) {
		roundID, err := s.roundOfMatch(ctx, matchID)
		if err != nil {
			return fromRepo[*MatchView](err, "match")
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*MatchView, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*MatchView](err, "round")
			}
			scope, err := s.loadMatch(ctx, db, matchID)
			if err != nil {
				return fromRepo[*MatchView](err, "match")
			}
			if err := playableMatch(scope); err != nil {
				return fail[*MatchView](err)
			}
			m := scope.match
			pairing := pairingOf(*m)
			if !pairing.Has(actor.PlayerID) {
				return fail[*MatchView](ladderdomain.NewPolicyViolation(ladderdomain.CodeNotMatchPlayer, "only the match players can accept a date"))
			}
			if m.ScheduleStatus != string(ladderdomain.ScheduleDateProposed) || m.ProposedFor == nil {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeScheduleState, "there is no pending date proposal"))
			}
			if !m.ProposedFor.After(s.clock.Now()) {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeScheduleState, "the proposed date has already passed"))
			}

			if id := actor.PlayerID.String(); !slices.Contains(m.AcceptedBy, id) {
				m.AcceptedBy = append(m.AcceptedBy, id)
			}
			if allAccepted(pairing, m.AcceptedBy) {
				m.ScheduleStatus = string(ladderdomain.ScheduleScheduled)
				m.ScheduledAt = m.ProposedFor
				var proposer uuid.UUID
				if m.ProposedBy != nil {
					proposer = *m.ProposedBy
				}
				notice = scheduleNotice(m, scope.round.ID, proposer, true)
			}
			if err := s.repo.UpdateMatch(ctx, db, m); err != nil {
				return fromRepo[*MatchView](err, "match")
			}
			v := matchView(*m)
			return ok(&v)
		})
	})
	view, err := unwrap(result, err)
	if err == nil && notice != nil {
		s.sendSchedule(ctx, *notice)
	}
	return view, err
}

func allAccepted(p ladderdomain.Pairing, accepted []string) bool {
	for _, id := range p.Players() {
		if !slices.Contains(accepted, id.String()) {
			return false
		}
	}
	return true
}

// scheduleNotice addresses a proposal to the other players and a completed schedule to everyone.
func scheduleNotice(m *ladderdb.Match, roundID, proposer uuid.UUID, scheduled bool) *ladderdomain.ScheduleNotice {
	var recipients []uuid.UUID
	for _, id := range pairingOf(*m).Players() {
		if scheduled || id != proposer {
			recipients = append(recipients, id)
		}
	}
	return &ladderdomain.ScheduleNotice{
		MatchID:     m.ID,
		GroupID:     m.GroupID,
		RoundID:     roundID,
		ProposedBy:  proposer,
		ProposedFor: *m.ProposedFor,
		Recipients:  recipients,
		Scheduled:   scheduled,
	}
}

func (s *LadderService) sendSchedule(ctx context.Context, notice ladderdomain.ScheduleNotice) {
	if err := s.notifier.NotifySchedule(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "Failed to enqueue schedule notice",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("match_id", notice.MatchID),
			attr.String("subject", notice.Subject()),
			attr.Error(err),
		)
	}
}
