package ladderdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Repo) InsertStreakEntries(ctx context.Context, db bun.IDB, entries []StreakEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if _, err := r.resolveDB(db).NewInsert().Model(&entries).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.InsertStreakEntries: %w", err)
	}
	return nil
}

func (r *Repo) ListStreakEntries(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) ([]StreakEntry, error) {
	var entries []StreakEntry
	err := r.resolveDB(db).NewSelect().
		Model(&entries).
		Join("JOIN ladder_round_closings AS rc ON rc.id = sh.closing_id").
		Where("sh.tournament_id = ?", tournamentID).
		Where("sh.player_id = ?", playerID).
		Where("rc.reopened_at IS NULL").
		Order("sh.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListStreakEntries: %w", err)
	}
	return entries, nil
}

func (r *Repo) GetActiveClosing(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*RoundClosing, error) {
	var closings []RoundClosing
	err := r.resolveDB(db).NewSelect().
		Model(&closings).
		Where("rc.round_id = ?", roundID).
		Where("rc.reopened_at IS NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.GetActiveClosing: %w", err)
	}
	if len(closings) == 0 {
		return nil, nil
	}
	return &closings[0], nil
}

func (r *Repo) GetLatestClosing(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*RoundClosing, error) {
	var closings []RoundClosing
	err := r.resolveDB(db).NewSelect().
		Model(&closings).
		Where("rc.round_id = ?", roundID).
		Order("rc.closed_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.GetLatestClosing: %w", err)
	}
	if len(closings) == 0 {
		return nil, nil
	}
	return &closings[0], nil
}

func (r *Repo) InsertClosing(ctx context.Context, db bun.IDB, closing *RoundClosing) error {
	if _, err := r.resolveDB(db).NewInsert().Model(closing).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.InsertClosing: %w", err)
	}
	return nil
}

func (r *Repo) MarkClosingReopened(ctx context.Context, db bun.IDB, closingID uuid.UUID, at time.Time) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model((*RoundClosing)(nil)).
		Set("reopened_at = ?", at).
		Where("id = ?", closingID).
		Where("reopened_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.MarkClosingReopened: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Repo) ReplaceRankingSnapshot(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, roundNumber int, rows []RankingSnapshot) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*RankingSnapshot)(nil)).
		Where("tournament_id = ?", tournamentID).
		Where("round_number = ?", roundNumber).
		Exec(ctx); err != nil {
		return fmt.Errorf("ladder.ReplaceRankingSnapshot: delete: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.ReplaceRankingSnapshot: insert: %w", err)
	}
	return nil
}

func (r *Repo) GetRankingSnapshot(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, roundNumber int) ([]RankingSnapshot, error) {
	var rows []RankingSnapshot
	err := r.resolveDB(db).NewSelect().
		Model(&rows).
		Where("rs.tournament_id = ?", tournamentID).
		Where("rs.round_number = ?", roundNumber).
		Order("rs.view ASC", "rs.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.GetRankingSnapshot: %w", err)
	}
	return rows, nil
}

func (r *Repo) DeleteRankingSnapshotsFrom(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, fromRound int) error {
	if _, err := r.resolveDB(db).NewDelete().
		Model((*RankingSnapshot)(nil)).
		Where("tournament_id = ?", tournamentID).
		Where("round_number >= ?", fromRound).
		Exec(ctx); err != nil {
		return fmt.Errorf("ladder.DeleteRankingSnapshotsFrom: %w", err)
	}
	return nil
}
