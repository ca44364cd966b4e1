package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetRankings returns the official and ironman standings up to a reference round.
// Closed reference rounds are served from their snapshot when it covers the current roster.
func (s *LadderService) GetRankings(ctx context.Context, tournamentID uuid.UUID, referenceRound *int) (*ladderdomain.Rankings, error) {
	result, err := withTelemetry(s, ctx, "GetRankings", tournamentID.String(), func(ctx context.Context) (results.OperationResult[*ladderdomain.Rankings, error], error) {
		if referenceRound != nil && *referenceRound < 0 {
			return fail[*ladderdomain.Rankings](ladderdomain.NewValidationError("round", ladderdomain.CodeMissingField, "reference round must not be negative"))
		}
		return runReadOnly(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ladderdomain.Rankings, error], error) {
			tournament, err := s.repo.GetTournament(ctx, db, tournamentID)
			if err != nil {
				return fromRepo[*ladderdomain.Rankings](err, "tournament")
			}
			rounds, err := s.repo.ListRounds(ctx, db, tournamentID)
			if err != nil {
				return fromRepo[*ladderdomain.Rankings](err, "rounds")
			}
			ref, closed := referenceOf(rounds, referenceRound)

			if closed {
				cached, err := s.snapshotRankings(ctx, db, tournamentID, ref)
				if err != nil {
					return fromRepo[*ladderdomain.Rankings](err, "ranking snapshot")
				}
				if cached != nil {
					return ok(cached)
				}
			}

			rankings, err := s.computeRankings(ctx, db, tournament, policyOf(tournament), ref)
			if err != nil {
				return fromRepo[*ladderdomain.Rankings](err, "rankings")
			}
			return ok(&rankings)
		})
	})
	return unwrap(result, err)
}

// referenceOf picks the requested round, else the latest closed round, else the latest round.
func referenceOf(rounds []ladderdb.Round, requested *int) (int, bool) {
	if requested != nil {
		for _, r := range rounds {
			if r.Number == *requested {
				return r.Number, r.IsClosed
			}
		}
		return *requested, false
	}
	latest, latestClosed := 0, 0
	for _, r := range rounds {
		latest = max(latest, r.Number)
		if r.IsClosed {
			latestClosed = max(latestClosed, r.Number)
		}
	}
	if latestClosed > 0 {
		return latestClosed, true
	}
	return latest, false
}

func (s *LadderService) computeRankings(
	ctx context.Context,
	db bun.IDB,
	tournament *ladderdb.Tournament,
	policy ladderdomain.TournamentPolicy,
	ref int,
) (ladderdomain.Rankings, error) {
	roster, err := s.rosterIDs(ctx, db, tournament.ID)
	if err != nil {
		return ladderdomain.Rankings{}, err
	}
	confirmed, err := s.repo.ListConfirmedMatches(ctx, db, tournament.ID, ref)
	if err != nil {
		return ladderdomain.Rankings{}, err
	}
	sets := make([]ladderdomain.PlayedSet, 0, len(confirmed))
	for _, rm := range confirmed {
		score, reported := scoreOf(rm.Match)
		if !reported {
			continue
		}
		res, err := ladderdomain.ResolveSet(score)
		if err != nil {
			continue
		}
		sets = append(sets, ladderdomain.PlayedSet{Pairing: pairingOf(rm.Match), RoundNumber: rm.RoundNumber, Result: res})
	}
	history, err := s.repo.ListTournamentHistory(ctx, db, tournament.ID, ref+1)
	if err != nil {
		return ladderdomain.Rankings{}, err
	}
	rankings := ladderdomain.BuildCreditedRankings(roster, rankingSeats(history), sets, policy, ref)
	rankings.TournamentID = tournament.ID
	return rankings, nil
}

// rankingSeats lists the seats that count towards the rankings; skipped groups score nothing.
func rankingSeats(history []ladderdb.PlayerRoundRecord) []ladderdomain.RankingSeat {
	seats := make([]ladderdomain.RankingSeat, 0, len(history))
	for _, rec := range history {
		if rec.GroupStatus == string(ladderdomain.GroupSkipped) {
			continue
		}
		seat := ladderdomain.RankingSeat{PlayerID: rec.PlayerID, GroupID: rec.GroupID, RoundNumber: rec.RoundNumber}
		if rec.UsedComodin {
			seat.Wildcard = &ladderdomain.WildcardUse{Mode: ladderdomain.WildcardMean}
			if rec.ComodinMode != nil && *rec.ComodinMode == string(ladderdomain.WildcardSubstitute) {
				seat.Wildcard.Mode = ladderdomain.WildcardSubstitute
			}
		}
		seats = append(seats, seat)
	}
	return seats
}

func (s *LadderService) rosterIDs(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]uuid.UUID, error) {
	players, err := s.repo.ListTournamentPlayers(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(players))
	for i, tp := range players {
		ids[i] = tp.PlayerID
	}
	return ids, nil
}

// snapshotRankings rebuilds rankings from the stored snapshot; nil when the snapshot is missing
// or no longer lists exactly the enrolled players.
func (s *LadderService) snapshotRankings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, ref int) (*ladderdomain.Rankings, error) {
	rows, err := s.repo.GetRankingSnapshot(ctx, db, tournamentID, ref)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	roster, err := s.rosterIDs(ctx, db, tournamentID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[uuid.UUID]bool, len(roster))
	for _, id := range roster {
		enrolled[id] = true
	}

	out := &ladderdomain.Rankings{TournamentID: tournamentID, ReferenceRound: ref}
	for _, row := range rows {
		if !enrolled[row.PlayerID] {
			return nil, nil
		}
		st := ladderdomain.Standing{
			PlayerID:      row.PlayerID,
			Position:      row.Position,
			AveragePoints: row.AveragePoints,
			TotalPoints:   row.TotalPoints,
			RoundsPlayed:  row.RoundsPlayed,
		}
		switch ladderdomain.RankingView(row.View) {
		case ladderdomain.ViewOfficial:
			out.Official = append(out.Official, st)
			if st.RoundsPlayed > 0 {
				out.HasRankings = true
			}
		case ladderdomain.ViewIronman:
			out.Ironman = append(out.Ironman, st)
		}
	}
	if len(out.Official) != len(roster) || len(out.Ironman) != len(roster) {
		return nil, nil
	}
	return out, nil
}

func snapshotRows(r ladderdomain.Rankings) []ladderdb.RankingSnapshot {
	rows := make([]ladderdb.RankingSnapshot, 0, len(r.Official)+len(r.Ironman))
	add := func(view ladderdomain.RankingView, standings []ladderdomain.Standing) {
		for _, st := range standings {
			rows = append(rows, ladderdb.RankingSnapshot{
				TournamentID:  r.TournamentID,
				RoundNumber:   r.ReferenceRound,
				View:          string(view),
				PlayerID:      st.PlayerID,
				Position:      st.Position,
				AveragePoints: st.AveragePoints,
				TotalPoints:   st.TotalPoints,
				RoundsPlayed:  st.RoundsPlayed,
			})
		}
	}
	add(ladderdomain.ViewOfficial, r.Official)
	add(ladderdomain.ViewIronman, r.Ironman)
	return rows
}

// GetMovements lists where each player of a closed round plays next.
func (s *LadderService) GetMovements(ctx context.Context, roundID uuid.UUID) ([]MovementView, error) {
	result, err := withTelemetry(s, ctx, "GetMovements", roundID.String(), func(ctx context.Context) (results.OperationResult[[]MovementView, error], error) {
		return runReadOnly(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]MovementView, error], error) {
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[[]MovementView](err, "round")
			}
			if !round.IsClosed {
				return fail[[]MovementView](ladderdomain.NewStateConflict(ladderdomain.CodeRoundNotClosed, "movements are known once the round is closed"))
			}
			groups, err := s.repo.ListGroups(ctx, db, roundID)
			if err != nil {
				return fromRepo[[]MovementView](err, "groups")
			}
			levelOf := make(map[uuid.UUID]int, len(groups))
			for _, g := range groups {
				levelOf[g.ID] = g.Level
			}
			seats, err := s.repo.ListSeatsByRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[[]MovementView](err, "seats")
			}
			out := make([]MovementView, 0, len(seats))
			for _, seat := range seats {
				level := levelOf[seat.GroupID]
				out = append(out, MovementView{
					PlayerID:    seat.PlayerID,
					GroupID:     seat.GroupID,
					Level:       level,
					Position:    seat.Position,
					Movement:    seat.Movement,
					TargetLevel: level + seat.Movement,
				})
			}
			return ok(out)
		})
	})
	return unwrap(result, err)
}
