package ladderservice

import (
	"context"
	"strings"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SkipGroup marks a group SKIPPED so the round can close without its matches.
// Wildcards granted inside the group are withdrawn and refunded, and sets it already
// confirmed stop counting towards the rankings.
func (s *LadderService) SkipGroup(ctx context.Context, groupID uuid.UUID, reason string) (*GroupView, error) {
	result, err := withTelemetry(s, ctx, "SkipGroup", groupID.String(), func(ctx context.Context) (results.OperationResult[*GroupView, error], error) {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return fail[*GroupView](ladderdomain.NewValidationError("reason", ladderdomain.CodeMissingField, "a skip reason is required"))
		}
		roundID, err := s.roundOfGroup(ctx, groupID)
		if err != nil {
			return fromRepo[*GroupView](err, "group")
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GroupView, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*GroupView](err, "round")
			}
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*GroupView](err, "round")
			}
			if round.IsClosed {
				return fail[*GroupView](ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "round is closed"))
			}
			group, err := s.repo.GetGroup(ctx, db, groupID)
			if err != nil {
				return fromRepo[*GroupView](err, "group")
			}

			if group.Status != string(ladderdomain.GroupSkipped) {
				seats, err := s.repo.ListSeatsByGroup(ctx, db, groupID)
				if err != nil {
					return fromRepo[*GroupView](err, "seats")
				}
				for i := range seats {
					if !seats[i].UsedComodin {
						continue
					}
					if err := s.withdrawWildcard(ctx, db, round.TournamentID, &seats[i]); err != nil {
						return fromRepo[*GroupView](err, "wildcard")
					}
				}
				if err := s.repo.UpdateGroupStatus(ctx, db, groupID, string(ladderdomain.GroupSkipped), &reason); err != nil {
					return fromRepo[*GroupView](err, "group")
				}
				group.Status = string(ladderdomain.GroupSkipped)
				group.SkipReason = &reason
			}

			return s.groupResult(ctx, db, group)
		})
	})
	return unwrap(result, err)
}

// SwapPositions exchanges the positions of two seats of a group in one atomic write.
func (s *LadderService) SwapPositions(ctx context.Context, groupID, playerA, playerB uuid.UUID) (*GroupView, error) {
	result, err := withTelemetry(s, ctx, "SwapPositions", groupID.String(), func(ctx context.Context) (results.OperationResult[*GroupView, error], error) {
		roundID, err := s.roundOfGroup(ctx, groupID)
		if err != nil {
			return fromRepo[*GroupView](err, "group")
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*GroupView, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*GroupView](err, "round")
			}
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*GroupView](err, "round")
			}
			if round.IsClosed {
				return fail[*GroupView](ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "round is closed"))
			}
			group, err := s.repo.GetGroup(ctx, db, groupID)
			if err != nil {
				return fromRepo[*GroupView](err, "group")
			}
			seats, err := s.repo.ListSeatsByGroup(ctx, db, groupID)
			if err != nil {
				return fromRepo[*GroupView](err, "seats")
			}

			current := make([]ladderdomain.PositionAssignment, len(seats))
			ids := make([]uuid.UUID, len(seats))
			for i, seat := range seats {
				current[i] = ladderdomain.PositionAssignment{PlayerID: seat.PlayerID, Position: seat.Position}
				ids[i] = seat.PlayerID
			}
			next, err := ladderdomain.SwapAssignment(current, playerA, playerB)
			if err != nil {
				return fail[*GroupView](err)
			}
			if err := ladderdomain.ValidatePermutation(ids, next); err != nil {
				return fail[*GroupView](err)
			}
			if err := s.repo.UpdatePositions(ctx, db, groupID, positionUpdates(seats, next)); err != nil {
				return fromRepo[*GroupView](err, "positions")
			}
			return s.groupResult(ctx, db, group)
		})
	})
	return unwrap(result, err)
}

// positionUpdates maps player assignments onto seat rows.
func positionUpdates(seats []ladderdb.GroupPlayer, assignments []ladderdomain.PositionAssignment) []ladderdb.PositionUpdate {
	seatOf := make(map[uuid.UUID]uuid.UUID, len(seats))
	for _, seat := range seats {
		seatOf[seat.PlayerID] = seat.ID
	}
	out := make([]ladderdb.PositionUpdate, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, ladderdb.PositionUpdate{ID: seatOf[a.PlayerID], Position: a.Position})
	}
	return out
}

func (s *LadderService) groupResult(ctx context.Context, db bun.IDB, group *ladderdb.Group) (results.OperationResult[*GroupView, error], error) {
	seats, err := s.repo.ListSeatsByGroup(ctx, db, group.ID)
	if err != nil {
		return fromRepo[*GroupView](err, "seats")
	}
	matches, err := s.repo.ListMatchesByGroup(ctx, db, group.ID)
	if err != nil {
		return fromRepo[*GroupView](err, "matches")
	}
	v := groupView(*group, seats, matches)
	return ok(&v)
}
