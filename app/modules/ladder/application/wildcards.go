package ladderservice

import (
	"context"
	"errors"
	"strings"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ApplyWildcard lets a player sit out the round while still being credited at close.
func (s *LadderService) ApplyWildcard(ctx context.Context, req ApplyWildcardRequest) (*SeatView, error) {
	result, err := withTelemetry(s, ctx, "ApplyWildcard", req.PlayerID.String(), func(ctx context.Context) (results.OperationResult[*SeatView, error], error) {
		mode, err := ladderdomain.ParseWildcardMode(strings.ToUpper(strings.TrimSpace(req.Mode)))
		if err != nil {
			return fail[*SeatView](err)
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*SeatView, error], error) {
			return s.applyWildcard(ctx, db, req, mode)
		})
	})
	return unwrap(result, err)
}

func (s *LadderService) applyWildcard(ctx context.Context, db bun.IDB, req ApplyWildcardRequest, mode ladderdomain.WildcardMode) (results.OperationResult[*SeatView, error], error) {
	if err := s.repo.AcquireRoundLock(ctx, db, req.RoundID); err != nil {
		return fromRepo[*SeatView](err, "round")
	}
	scope, err := s.loadRound(ctx, db, req.RoundID)
	if err != nil {
		return fromRepo[*SeatView](err, "round")
	}
	round := scope.round

	enrolment, err := s.repo.GetTournamentPlayer(ctx, db, round.TournamentID, req.PlayerID)
	if err != nil {
		return fromRepo[*SeatView](err, "tournament player")
	}
	seats, err := s.repo.ListSeatsByRound(ctx, db, round.ID)
	if err != nil {
		return fromRepo[*SeatView](err, "seats")
	}
	seat := findSeat(seats, req.PlayerID)

	check := ladderdomain.ApplyRequest{
		PlayerID:      req.PlayerID,
		RoundNumber:   round.Number,
		RoundClosed:   round.IsClosed,
		HasSeat:       seat != nil,
		ComodinesUsed: enrolment.ComodinesUsed,
		Mode:          mode,
	}
	if seat != nil {
		check.AlreadyUsed = seat.UsedComodin
		group, err := s.repo.GetGroup(ctx, db, seat.GroupID)
		if err != nil {
			return fromRepo[*SeatView](err, "group")
		}
		check.GroupSkipped = group.Status == string(ladderdomain.GroupSkipped)
	}
	if req.SubstitutePlayerID != nil {
		candidate, err := s.substituteCandidate(ctx, db, round.TournamentID, *req.SubstitutePlayerID, seat, seats)
		if err != nil {
			return fromRepo[*SeatView](err, "substitute")
		}
		check.Substitute = candidate
	}
	if err := ladderdomain.CheckApply(scope.policy.Wildcard, check); err != nil {
		return fail[*SeatView](err)
	}

	now := s.clock.Now()
	seat.UsedComodin = true
	seat.ComodinMode = ptr(string(mode))
	seat.ComodinAt = &now
	seat.ComodinReason = nil
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		seat.ComodinReason = &reason
	}
	seat.SubstitutePlayerID = nil
	if mode == ladderdomain.WildcardSubstitute {
		seat.SubstitutePlayerID = req.SubstitutePlayerID
	}
	if err := s.repo.UpdateSeatWildcard(ctx, db, seat); err != nil {
		return fromRepo[*SeatView](err, "seat")
	}
	if err := s.repo.AdjustComodinesUsed(ctx, db, round.TournamentID, req.PlayerID, 1); err != nil {
		return fromRepo[*SeatView](err, "tournament player")
	}
	if seat.SubstitutePlayerID != nil {
		if err := s.repo.AdjustSubstituteAppearances(ctx, db, round.TournamentID, *seat.SubstitutePlayerID, 1); err != nil {
			return fromRepo[*SeatView](err, "substitute")
		}
	}

	v := seatView(*seat)
	return ok(&v)
}

func (s *LadderService) substituteCandidate(
	ctx context.Context,
	db bun.IDB,
	tournamentID, substituteID uuid.UUID,
	seat *ladderdb.GroupPlayer,
	seats []ladderdb.GroupPlayer,
) (*ladderdomain.SubstituteCandidate, error) {
	candidate := &ladderdomain.SubstituteCandidate{PlayerID: substituteID}
	enrolment, err := s.repo.GetTournamentPlayer(ctx, db, tournamentID, substituteID)
	switch {
	case errors.Is(err, ladderdb.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		candidate.Enrolled = true
		candidate.JoinedRound = enrolment.JoinedRound
		candidate.Appearances = enrolment.SubstituteAppearances
	}
	for _, other := range seats {
		if seat != nil && other.GroupID == seat.GroupID && other.PlayerID == substituteID {
			candidate.SameGroup = true
		}
		if other.SubstitutePlayerID != nil && *other.SubstitutePlayerID == substituteID {
			candidate.AlreadySubstitute = true
		}
	}
	return candidate, nil
}

// RevokeWildcard withdraws a player's wildcard. Self-service revocation is frozen once the player has
// confirmed matches or a match scheduled inside the revoke window; bypassFreezeWindow skips those checks.
func (s *LadderService) RevokeWildcard(ctx context.Context, playerID, roundID uuid.UUID, bypassFreezeWindow bool) (*SeatView, error) {
	result, err := withTelemetry(s, ctx, "RevokeWildcard", playerID.String(), func(ctx context.Context) (results.OperationResult[*SeatView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*SeatView, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*SeatView](err, "round")
			}
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*SeatView](err, "round")
			}
			seats, err := s.repo.ListSeatsByRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*SeatView](err, "seats")
			}
			seat := findSeat(seats, playerID)
			if seat == nil {
				return fail[*SeatView](ladderdomain.NewNotFound("seat"))
			}
			matches, err := s.repo.ListMatchesByRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*SeatView](err, "matches")
			}

			check := ladderdomain.RevokeRequest{
				RoundClosed:        round.IsClosed,
				UsedComodin:        seat.UsedComodin,
				Now:                s.clock.Now(),
				BypassFreezeWindow: bypassFreezeWindow,
			}
			check.ConfirmedMatches, check.ScheduledDates = playerCommitments(matches, playerID)
			if err := ladderdomain.CheckRevoke(check, s.revokeWindow); err != nil {
				return fail[*SeatView](err)
			}

			if err := s.withdrawWildcard(ctx, db, round.TournamentID, seat); err != nil {
				return fromRepo[*SeatView](err, "wildcard")
			}
			v := seatView(*seat)
			return ok(&v)
		})
	})
	return unwrap(result, err)
}

// playerCommitments counts the player's confirmed matches and collects the dates of their scheduled ones.
func playerCommitments(matches []ladderdb.Match, playerID uuid.UUID) (int, []time.Time) {
	var confirmed int
	var dates []time.Time
	for _, m := range matches {
		if !pairingOf(m).Has(playerID) {
			continue
		}
		if m.Confirmed {
			confirmed++
		}
		if m.ScheduleStatus == string(ladderdomain.ScheduleScheduled) && m.ScheduledAt != nil {
			dates = append(dates, *m.ScheduledAt)
		}
	}
	return confirmed, dates
}

// withdrawWildcard clears the wildcard fields of a seat and refunds its counters.
func (s *LadderService) withdrawWildcard(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, seat *ladderdb.GroupPlayer) error {
	if err := s.refundWildcard(ctx, db, tournamentID, *seat); err != nil {
		return err
	}
	seat.UsedComodin = false
	seat.ComodinMode = nil
	seat.ComodinReason = nil
	seat.ComodinAt = nil
	seat.SubstitutePlayerID = nil
	return s.repo.UpdateSeatWildcard(ctx, db, seat)
}

func (s *LadderService) refundWildcard(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, seat ladderdb.GroupPlayer) error {
	if err := s.repo.AdjustComodinesUsed(ctx, db, tournamentID, seat.PlayerID, -1); err != nil {
		return err
	}
	if seat.SubstitutePlayerID != nil {
		return s.repo.AdjustSubstituteAppearances(ctx, db, tournamentID, *seat.SubstitutePlayerID, -1)
	}
	return nil
}

func findSeat(seats []ladderdb.GroupPlayer, playerID uuid.UUID) *ladderdb.GroupPlayer {
	for i := range seats {
		if seats[i].PlayerID == playerID {
			return &seats[i]
		}
	}
	return nil
}
