package ladderservice

import (
	"context"
	"math/rand/v2"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StructureGroups partitions the round's eligible players and creates groups, seats and rotations.
func (s *LadderService) StructureGroups(ctx context.Context, req StructureRequest) (*RoundGroups, error) {
	result, err := withTelemetry(s, ctx, "StructureGroups", req.RoundID.String(), func(ctx context.Context) (results.OperationResult[*RoundGroups, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*RoundGroups, error], error) {
			return s.structureGroups(ctx, db, req)
		})
	})
	return unwrap(result, err)
}

func (s *LadderService) structureGroups(ctx context.Context, db bun.IDB, req StructureRequest) (results.OperationResult[*RoundGroups, error], error) {
	strategy, err := ladderdomain.ParseStrategy(req.Strategy)
	if err != nil {
		return fail[*RoundGroups](err)
	}
	if req.GroupSize < 0 {
		return fail[*RoundGroups](ladderdomain.NewValidationError("groupSize", ladderdomain.CodeInvalidGroupSize, "group size must be positive"))
	}

	if err := s.repo.AcquireRoundLock(ctx, db, req.RoundID); err != nil {
		return fromRepo[*RoundGroups](err, "round")
	}
	scope, err := s.loadRound(ctx, db, req.RoundID)
	if err != nil {
		return fromRepo[*RoundGroups](err, "round")
	}
	round := scope.round
	if round.IsClosed {
		return fail[*RoundGroups](ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "groups of a closed round cannot be regenerated"))
	}

	size := req.GroupSize
	if size == 0 {
		size = scope.policy.GroupSize
	}
	if size == 0 {
		size = s.defaultGroupSize
	}

	existing, err := s.repo.ListGroups(ctx, db, round.ID)
	if err != nil {
		return fromRepo[*RoundGroups](err, "groups")
	}
	if len(existing) > 0 {
		if !req.Force {
			return fail[*RoundGroups](ladderdomain.NewStateConflict(ladderdomain.CodeGroupsExist, "round already has groups; pass force to regenerate"))
		}
		if err := s.dropRoundGroups(ctx, db, scope); err != nil {
			return fromRepo[*RoundGroups](err, "groups")
		}
	}

	roster, err := s.repo.ListTournamentPlayers(ctx, db, round.TournamentID)
	if err != nil {
		return fromRepo[*RoundGroups](err, "players")
	}
	eligible := make([]uuid.UUID, 0, len(roster))
	for _, tp := range roster {
		if tp.JoinedRound <= round.Number {
			eligible = append(eligible, tp.PlayerID)
		}
	}

	var plans []ladderdomain.GroupPlan
	switch strategy {
	case ladderdomain.StrategyRandom:
		plans, err = ladderdomain.PartitionRandom(eligible, size, s.shuffler(req.Seed))
	case ladderdomain.StrategySeeded:
		var ranked []uuid.UUID
		ranked, err = s.seededOrder(ctx, db, scope, eligible)
		if err == nil {
			plans, err = ladderdomain.PartitionSeeded(ranked, size)
		}
	case ladderdomain.StrategyManual:
		plans, err = ladderdomain.PartitionManual(eligible, req.Manual, size)
	case ladderdomain.StrategyLadder:
		var previous []ladderdomain.LadderSeat
		previous, err = s.previousLadder(ctx, db, scope)
		if err == nil {
			plans, err = ladderdomain.PartitionLadder(eligible, previous, size)
		}
	}
	if err != nil {
		return fromRepo[*RoundGroups](err, "partition")
	}

	groups := make([]ladderdb.Group, 0, len(plans))
	var seats []ladderdb.GroupPlayer
	var matches []ladderdb.Match
	for _, plan := range plans {
		g := ladderdb.Group{
			ID:      uuid.New(),
			RoundID: round.ID,
			Number:  plan.Number,
			Level:   plan.Level,
			Status:  string(ladderdomain.GroupPending),
		}
		groups = append(groups, g)
		for i, playerID := range plan.Players {
			seats = append(seats, ladderdb.GroupPlayer{
				ID:       uuid.New(),
				GroupID:  g.ID,
				PlayerID: playerID,
				Position: i + 1,
			})
		}
		// Only groups of four have a rotation; others wait for an explicit skip.
		if len(plan.Players) == ladderdomain.DefaultGroupSize {
			pairings, err := ladderdomain.GenerateRotation(plan.Players)
			if err != nil {
				return fail[*RoundGroups](err)
			}
			matches = append(matches, newMatches(g.ID, pairings)...)
		}
	}

	if err := s.repo.InsertGroups(ctx, db, groups, seats); err != nil {
		return fromRepo[*RoundGroups](err, "groups")
	}
	if err := s.repo.InsertMatches(ctx, db, matches); err != nil {
		return fromRepo[*RoundGroups](err, "matches")
	}

	bySeat := seatsByGroup(seats)
	byMatch := matchesByGroup(matches)
	out := &RoundGroups{RoundID: round.ID, Strategy: string(strategy), Groups: make([]GroupView, 0, len(groups))}
	for _, g := range groups {
		out.Groups = append(out.Groups, groupView(g, bySeat[g.ID], byMatch[g.ID]))
	}
	return ok(out)
}

// dropRoundGroups removes the round's structure and refunds wildcards granted on it.
func (s *LadderService) dropRoundGroups(ctx context.Context, db bun.IDB, scope *roundScope) error {
	seats, err := s.repo.ListSeatsByRound(ctx, db, scope.round.ID)
	if err != nil {
		return err
	}
	for _, seat := range seats {
		if !seat.UsedComodin {
			continue
		}
		if err := s.refundWildcard(ctx, db, scope.round.TournamentID, seat); err != nil {
			return err
		}
	}
	return s.repo.DeleteRoundGroups(ctx, db, scope.round.ID)
}

func (s *LadderService) shuffler(seed *uint64) *rand.Rand {
	var v uint64
	if seed != nil {
		v = *seed
	} else {
		v = uint64(s.clock.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(v, v^0x9e3779b97f4a7c15))
}

// seededOrder ranks players by the official standings of the previous round.
func (s *LadderService) seededOrder(ctx context.Context, db bun.IDB, scope *roundScope, eligible []uuid.UUID) ([]uuid.UUID, error) {
	if scope.round.Number <= 1 {
		return ladderdomain.SeededOrder(nil, eligible), nil
	}
	rankings, err := s.computeRankings(ctx, db, scope.tournament, scope.policy, scope.round.Number-1)
	if err != nil {
		return nil, err
	}
	return ladderdomain.SeededOrder(rankings.Official, eligible), nil
}

// previousLadder reads the seats of the previous round with the movement earned there.
func (s *LadderService) previousLadder(ctx context.Context, db bun.IDB, scope *roundScope) ([]ladderdomain.LadderSeat, error) {
	if scope.round.Number <= 1 {
		return nil, nil
	}
	history, err := s.repo.ListTournamentHistory(ctx, db, scope.round.TournamentID, scope.round.Number)
	if err != nil {
		return nil, err
	}
	var out []ladderdomain.LadderSeat
	for _, rec := range history {
		if rec.RoundNumber != scope.round.Number-1 {
			continue
		}
		out = append(out, ladderdomain.LadderSeat{
			PlayerID: rec.PlayerID,
			Level:    rec.GroupLevel,
			Position: rec.Position,
			Movement: rec.Movement,
		})
	}
	return out, nil
}

func newMatches(groupID uuid.UUID, pairings []ladderdomain.Pairing) []ladderdb.Match {
	out := make([]ladderdb.Match, 0, len(pairings))
	for _, p := range pairings {
		out = append(out, ladderdb.Match{
			ID:             uuid.New(),
			GroupID:        groupID,
			SetNumber:      p.SetNumber,
			Team1Player1:   p.Team1[0],
			Team1Player2:   p.Team1[1],
			Team2Player1:   p.Team2[0],
			Team2Player2:   p.Team2[1],
			ScheduleStatus: string(ladderdomain.SchedulePending),
		})
	}
	return out
}

// GenerateRotation creates the three sets of a group of four from its current positions.
func (s *LadderService) GenerateRotation(ctx context.Context, groupID uuid.UUID, overwrite bool) ([]MatchView, error) {
	result, err := withTelemetry(s, ctx, "GenerateRotation", groupID.String(), func(ctx context.Context) (results.OperationResult[[]MatchView, error], error) {
		roundID, err := s.roundOfGroup(ctx, groupID)
		if err != nil {
			return fromRepo[[]MatchView](err, "group")
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]MatchView, error], error) {
			return s.generateRotation(ctx, db, roundID, groupID, overwrite)
		})
	})
	return unwrap(result, err)
}

func (s *LadderService) generateRotation(ctx context.Context, db bun.IDB, roundID, groupID uuid.UUID, overwrite bool) (results.OperationResult[[]MatchView, error], error) {
	if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
		return fromRepo[[]MatchView](err, "round")
	}
	round, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		return fromRepo[[]MatchView](err, "round")
	}
	if round.IsClosed {
		return fail[[]MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "round is closed"))
	}
	group, err := s.repo.GetGroup(ctx, db, groupID)
	if err != nil {
		return fromRepo[[]MatchView](err, "group")
	}
	if group.Status == string(ladderdomain.GroupSkipped) {
		return fail[[]MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeGroupSkipped, "group was skipped this round"))
	}

	existing, err := s.repo.ListMatchesByGroup(ctx, db, groupID)
	if err != nil {
		return fromRepo[[]MatchView](err, "matches")
	}
	if len(existing) > 0 {
		if !overwrite {
			return fail[[]MatchView](ladderdomain.NewStateConflict(ladderdomain.CodeMatchesExist, "group already has its rotation; pass overwrite to regenerate"))
		}
		if err := s.repo.DeleteGroupMatches(ctx, db, groupID); err != nil {
			return fromRepo[[]MatchView](err, "matches")
		}
	}

	seats, err := s.repo.ListSeatsByGroup(ctx, db, groupID)
	if err != nil {
		return fromRepo[[]MatchView](err, "seats")
	}
	byPosition := make([]uuid.UUID, len(seats))
	for i, seat := range seats {
		byPosition[i] = seat.PlayerID
	}
	pairings, err := ladderdomain.GenerateRotation(byPosition)
	if err != nil {
		return fail[[]MatchView](err)
	}

	matches := newMatches(groupID, pairings)
	if err := s.repo.InsertMatches(ctx, db, matches); err != nil {
		return fromRepo[[]MatchView](err, "matches")
	}
	return ok(matchViews(matches))
}
