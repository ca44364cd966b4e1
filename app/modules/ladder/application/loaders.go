package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// policyOf reads a tournament's rule set; unknown formulas fall back to the defaults.
func policyOf(t *ladderdb.Tournament) ladderdomain.TournamentPolicy {
	p := ladderdomain.DefaultPolicy()
	if t == nil {
		return p
	}
	if t.GroupSize > 0 {
		p.GroupSize = t.GroupSize
	}
	if f, err := ladderdomain.ParsePointsFormula(t.ClosePointsFormula); err == nil {
		p.ClosePoints = f
	}
	if f, err := ladderdomain.ParsePointsFormula(t.RankingPointsFormula); err == nil {
		p.RankingPoints = f
	}
	p.Wildcard = ladderdomain.WildcardPolicy{
		MaxPerPlayer:             t.MaxComodinesPerPlayer,
		MeanEnabled:              t.MeanComodinEnabled,
		SubstituteEnabled:        t.SubstituteComodinEnabled,
		SubstituteCreditFactor:   t.SubstituteCreditFactor,
		SubstituteMaxAppearances: t.SubstituteMaxAppearances,
	}
	mode := ladderdomain.ContinuityMode(t.ContinuityMode)
	switch mode {
	case ladderdomain.ContinuitySets, ladderdomain.ContinuityMatches, ladderdomain.ContinuityBoth:
	default:
		mode = ladderdomain.ContinuityMatches
	}
	p.Continuity = ladderdomain.ContinuityPolicy{
		Enabled:        t.ContinuityEnabled,
		PointsPerSet:   t.ContinuityPointsPerSet,
		PointsPerRound: t.ContinuityPointsPerRound,
		MinRounds:      t.ContinuityMinRounds,
		MaxBonus:       t.ContinuityMaxBonus,
		Mode:           mode,
	}
	return p
}

// roundScope is a round with its tournament.
type roundScope struct {
	round      *ladderdb.Round
	tournament *ladderdb.Tournament
	policy     ladderdomain.TournamentPolicy
}

func (s *LadderService) loadRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*roundScope, error) {
	round, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	tournament, err := s.repo.GetTournament(ctx, db, round.TournamentID)
	if err != nil {
		return nil, err
	}
	return &roundScope{round: round, tournament: tournament, policy: policyOf(tournament)}, nil
}

// matchScope is a match with its group and round.
type matchScope struct {
	match *ladderdb.Match
	group *ladderdb.Group
	round *ladderdb.Round
}

func (s *LadderService) loadMatch(ctx context.Context, db bun.IDB, matchID uuid.UUID) (*matchScope, error) {
	match, err := s.repo.GetMatch(ctx, db, matchID)
	if err != nil {
		return nil, err
	}
	group, err := s.repo.GetGroup(ctx, db, match.GroupID)
	if err != nil {
		return nil, err
	}
	round, err := s.repo.GetRound(ctx, db, group.RoundID)
	if err != nil {
		return nil, err
	}
	return &matchScope{match: match, group: group, round: round}, nil
}

// roundOfMatch resolves the round to lock before the transaction starts. Everything read inside the
// transaction is read after the lock is held.
func (s *LadderService) roundOfMatch(ctx context.Context, matchID uuid.UUID) (uuid.UUID, error) {
	match, err := s.repo.GetMatch(ctx, nil, matchID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.roundOfGroup(ctx, match.GroupID)
}

func (s *LadderService) roundOfGroup(ctx context.Context, groupID uuid.UUID) (uuid.UUID, error) {
	group, err := s.repo.GetGroup(ctx, nil, groupID)
	if err != nil {
		return uuid.Nil, err
	}
	return group.RoundID, nil
}

func seatsByGroup(seats []ladderdb.GroupPlayer) map[uuid.UUID][]ladderdb.GroupPlayer {
	out := make(map[uuid.UUID][]ladderdb.GroupPlayer)
	for _, s := range seats {
		out[s.GroupID] = append(out[s.GroupID], s)
	}
	return out
}

func matchesByGroup(matches []ladderdb.Match) map[uuid.UUID][]ladderdb.Match {
	out := make(map[uuid.UUID][]ladderdb.Match)
	for _, m := range matches {
		out[m.GroupID] = append(out[m.GroupID], m)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
