package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetPlayerHistory lists a player's closed rounds in order.
func (s *LadderService) GetPlayerHistory(ctx context.Context, tournamentID, playerID uuid.UUID) (*PlayerHistory, error) {
	result, err := withTelemetry(s, ctx, "GetPlayerHistory", playerID.String(), func(ctx context.Context) (results.OperationResult[*PlayerHistory, error], error) {
		return runReadOnly(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*PlayerHistory, error], error) {
			records, err := s.closedRecords(ctx, db, tournamentID, playerID)
			if err != nil {
				return fromRepo[*PlayerHistory](err, "tournament player")
			}
			out := &PlayerHistory{TournamentID: tournamentID, PlayerID: playerID, Rounds: make([]PlayerRound, 0, len(records))}
			for _, rec := range records {
				out.Rounds = append(out.Rounds, PlayerRound{
					RoundNumber:     rec.RoundNumber,
					GroupLevel:      rec.GroupLevel,
					GroupStatus:     rec.GroupStatus,
					Position:        rec.Position,
					Points:          rec.Points,
					ContinuityBonus: rec.Bonus,
					Streak:          rec.Streak,
					Movement:        rec.Movement,
					UsedComodin:     rec.UsedComodin,
				})
			}
			return ok(out)
		})
	})
	return unwrap(result, err)
}

// GetPlayerStreak summarises a player's continuity from the closed rounds and the active ledger entries.
func (s *LadderService) GetPlayerStreak(ctx context.Context, tournamentID, playerID uuid.UUID) (*StreakStats, error) {
	result, err := withTelemetry(s, ctx, "GetPlayerStreak", playerID.String(), func(ctx context.Context) (results.OperationResult[*StreakStats, error], error) {
		return runReadOnly(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*StreakStats, error], error) {
			records, err := s.closedRecords(ctx, db, tournamentID, playerID)
			if err != nil {
				return fromRepo[*StreakStats](err, "tournament player")
			}
			entries, err := s.repo.ListStreakEntries(ctx, db, tournamentID, playerID)
			if err != nil {
				return fromRepo[*StreakStats](err, "streak history")
			}

			out := &StreakStats{TournamentID: tournamentID, PlayerID: playerID, Events: make([]StreakEvent, 0, len(entries))}
			for _, rec := range records {
				out.Best = max(out.Best, rec.Streak)
			}
			if n := len(records); n > 0 {
				out.Current = records[n-1].Streak
			}
			for _, e := range entries {
				if e.Kind == string(ladderdomain.StreakBonus) {
					out.TotalBonus += e.BonusPoints
				}
				out.Events = append(out.Events, StreakEvent{
					RoundID:     e.RoundID,
					Kind:        e.Kind,
					Streak:      e.Streak,
					BonusPoints: e.BonusPoints,
					At:          e.CreatedAt,
				})
			}
			return ok(out)
		})
	})
	return unwrap(result, err)
}

// closedRecords returns the player's seats in closed rounds, oldest first.
func (s *LadderService) closedRecords(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) ([]ladderdb.PlayerRoundRecord, error) {
	if _, err := s.repo.GetTournamentPlayer(ctx, db, tournamentID, playerID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListPlayerHistory(ctx, db, tournamentID, playerID)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, rec := range records {
		if rec.RoundClosed {
			out = append(out, rec)
		}
	}
	return out, nil
}
