package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReportResult stores a set score. A player's report waits for an opponent to confirm;
// an admin's report is confirmed immediately.
func (s *LadderService) ReportResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, score ladderdomain.SetScore) (*MatchView, error) {
	result, err := withTelemetry(s, ctx, "ReportResult", matchID.String(), func(ctx context.Context) (results.OperationResult[*MatchView, error], error) {
		res, err := ladderdomain.MustDecide(score)
		if err != nil {
			return fail[*MatchView](err)
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
			if !actor.IsAdmin && !pairingOf(*m).Has(actor.PlayerID) {
				return fail[*MatchView](ladderdomain.NewPolicyViolation(ladderdomain.CodeNotMatchPlayer, "only the match players can report its result"))
			}
			if m.Confirmed && !actor.IsAdmin {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeAlreadyConfirmed, "result is already confirmed"))
			}

			now := s.clock.Now()
			m.Team1Games = ptr(score.Team1Games)
			m.Team2Games = ptr(score.Team2Games)
			m.Tiebreak = nil
			if score.Tiebreak != "" {
				m.Tiebreak = ptr(score.Tiebreak)
			}
			m.Winner = ptr(int(res.Winner))
			m.ReportedBy = ptr(actor.PlayerID)
			m.ReportedAt = &now
			if actor.IsAdmin {
				m.Confirmed = true
				m.ConfirmedBy = ptr(actor.PlayerID)
				m.ConfirmedAt = &now
				m.ScheduleStatus = string(ladderdomain.ScheduleCompleted)
			} else {
				m.Confirmed = false
				m.ConfirmedBy = nil
				m.ConfirmedAt = nil
			}
			if err := s.repo.UpdateMatch(ctx, db, m); err != nil {
				return fromRepo[*MatchView](err, "match")
			}
			v := matchView(*m)
			return ok(&v)
		})
	})
	return unwrap(result, err)
}

// ConfirmResult accepts a reported score. Only an admin or a player of the team that did not report may confirm.
func (s *LadderService) ConfirmResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*MatchView, error) {
	result, err := withTelemetry(s, ctx, "ConfirmResult", matchID.String(), func(ctx context.Context) (results.OperationResult[*MatchView, error], error) {
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
			if m.ReportedBy == nil || m.Winner == nil {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeNotReported, "no result has been reported yet"))
			}
			if m.Confirmed {
				return fail[*MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeAlreadyConfirmed, "result is already confirmed"))
			}
			if !actor.IsAdmin {
				pairing := pairingOf(*m)
				mine := pairing.TeamOf(actor.PlayerID)
				if mine == ladderdomain.TeamNone {
					return fail[*MatchView](ladderdomain.NewPolicyViolation(ladderdomain.CodeNotMatchPlayer, "only the match players can confirm its result"))
				}
				if mine == pairing.TeamOf(*m.ReportedBy) {
					return fail[*MatchView](ladderdomain.NewPolicyViolation(ladderdomain.CodeNotOpponent, "the result must be confirmed by the opposing team"))
				}
			}

			now := s.clock.Now()
			m.Confirmed = true
			m.ConfirmedBy = ptr(actor.PlayerID)
			m.ConfirmedAt = &now
			m.ScheduleStatus = string(ladderdomain.ScheduleCompleted)
			if err := s.repo.UpdateMatch(ctx, db, m); err != nil {
				return fromRepo[*MatchView](err, "match")
			}
			v := matchView(*m)
			return ok(&v)
		})
	})
	return unwrap(result, err)
}

// playableMatch rejects result changes on closed rounds and skipped groups.
func playableMatch(scope *matchScope) error {
	if scope.round.IsClosed {
		return ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "round is closed")
	}
	if scope.group.Status == string(ladderdomain.GroupSkipped) {
		return ladderdomain.NewStateConflict(ladderdomain.CodeGroupSkipped, "group was skipped this round")
	}
	return nil
}
