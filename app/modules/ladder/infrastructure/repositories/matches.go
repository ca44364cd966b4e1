package ladderdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Repo) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error) {
	m := new(Match)
	err := r.resolveDB(db).NewSelect().Model(m).Where("m.id = ?", id).Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetMatch: %w", err)
	}
	return m, nil
}

func (r *Repo) ListMatchesByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]Match, error) {
	var matches []Match
	err := r.resolveDB(db).NewSelect().
		Model(&matches).
		Where("m.group_id = ?", groupID).
		Order("m.set_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListMatchesByGroup: %w", err)
	}
	return matches, nil
}

func (r *Repo) ListMatchesByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Match, error) {
	var matches []Match
	err := r.resolveDB(db).NewSelect().
		Model(&matches).
		Join("JOIN ladder_groups AS g ON g.id = m.group_id").
		Where("g.round_id = ?", roundID).
		Order("g.number ASC", "m.set_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListMatchesByRound: %w", err)
	}
	return matches, nil
}

// ListConfirmedMatches leaves out skipped groups: a skip voids whatever its sets produced.
func (r *Repo) ListConfirmedMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, upToRound int) ([]RoundMatch, error) {
	var matches []RoundMatch
	err := r.resolveDB(db).NewSelect().
		Model((*Match)(nil)).
		ColumnExpr("m.*").
		ColumnExpr("r.number AS round_number").
		Join("JOIN ladder_groups AS g ON g.id = m.group_id").
		Join("JOIN ladder_rounds AS r ON r.id = g.round_id").
		Where("r.tournament_id = ?", tournamentID).
		Where("r.number <= ?", upToRound).
		Where("m.confirmed = TRUE").
		Where("g.status <> ?", "SKIPPED").
		OrderExpr("r.number ASC, g.number ASC, m.set_number ASC").
		Scan(ctx, &matches)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListConfirmedMatches: %w", err)
	}
	return matches, nil
}

func (r *Repo) InsertMatches(ctx context.Context, db bun.IDB, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}
	if _, err := r.resolveDB(db).NewInsert().Model(&matches).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.InsertMatches: %w", err)
	}
	return nil
}

func (r *Repo) DeleteGroupMatches(ctx context.Context, db bun.IDB, groupID uuid.UUID) error {
	if _, err := r.resolveDB(db).NewDelete().Model((*Match)(nil)).Where("group_id = ?", groupID).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.DeleteGroupMatches: %w", err)
	}
	return nil
}

// UpdateMatch writes every mutable column; the pairing is fixed once generated.
func (r *Repo) UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model(match).
		Column(
			"team1_games", "team2_games", "tiebreak", "winner",
			"confirmed", "reported_by", "reported_at", "confirmed_by", "confirmed_at",
			"schedule_status", "proposed_by", "proposed_for", "accepted_by", "scheduled_at",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.UpdateMatch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
