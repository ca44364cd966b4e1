package ladderdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Repo) GetGroup(ctx context.Context, db bun.IDB, id uuid.UUID) (*Group, error) {
	g := new(Group)
	err := r.resolveDB(db).NewSelect().Model(g).Where("g.id = ?", id).Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetGroup: %w", err)
	}
	return g, nil
}

func (r *Repo) ListGroups(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Group, error) {
	var groups []Group
	err := r.resolveDB(db).NewSelect().
		Model(&groups).
		Where("g.round_id = ?", roundID).
		Order("g.level ASC", "g.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListGroups: %w", err)
	}
	return groups, nil
}

func (r *Repo) InsertGroups(ctx context.Context, db bun.IDB, groups []Group, seats []GroupPlayer) error {
	if len(groups) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&groups).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.InsertGroups: groups: %w", err)
	}
	if len(seats) == 0 {
		return nil
	}
	if _, err := db.NewInsert().Model(&seats).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.InsertGroups: seats: %w", err)
	}
	return nil
}

func (r *Repo) DeleteRoundGroups(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	groupIDs := db.NewSelect().Model((*Group)(nil)).Column("id").Where("round_id = ?", roundID)

	if _, err := db.NewDelete().Model((*Match)(nil)).Where("group_id IN (?)", groupIDs).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.DeleteRoundGroups: matches: %w", err)
	}
	if _, err := db.NewDelete().Model((*GroupPlayer)(nil)).Where("group_id IN (?)", groupIDs).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.DeleteRoundGroups: seats: %w", err)
	}
	if _, err := db.NewDelete().Model((*Group)(nil)).Where("round_id = ?", roundID).Exec(ctx); err != nil {
		return fmt.Errorf("ladder.DeleteRoundGroups: groups: %w", err)
	}
	return nil
}

func (r *Repo) UpdateGroupStatus(ctx context.Context, db bun.IDB, groupID uuid.UUID, status string, reason *string) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model((*Group)(nil)).
		Set("status = ?", status).
		Set("skip_reason = ?", reason).
		Where("id = ?", groupID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.UpdateGroupStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Repo) ListSeatsByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]GroupPlayer, error) {
	var seats []GroupPlayer
	err := r.resolveDB(db).NewSelect().
		Model(&seats).
		Join("JOIN ladder_groups AS g ON g.id = gp.group_id").
		Where("g.round_id = ?", roundID).
		Order("g.level ASC", "g.number ASC", "gp.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListSeatsByRound: %w", err)
	}
	return seats, nil
}

func (r *Repo) ListSeatsByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]GroupPlayer, error) {
	var seats []GroupPlayer
	err := r.resolveDB(db).NewSelect().
		Model(&seats).
		Where("gp.group_id = ?", groupID).
		Order("gp.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListSeatsByGroup: %w", err)
	}
	return seats, nil
}

// UpdatePositions writes the new order in two phases. Positions are first negated so the
// unique (group_id, position) constraint never sees two seats on the same slot.
func (r *Repo) UpdatePositions(ctx context.Context, db bun.IDB, groupID uuid.UUID, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	db = r.resolveDB(db)

	if _, err := db.NewUpdate().
		Model((*GroupPlayer)(nil)).
		Set("position = -position").
		Where("group_id = ?", groupID).
		Where("position > 0").
		Exec(ctx); err != nil {
		return fmt.Errorf("ladder.UpdatePositions: sentinel phase: %w", err)
	}

	values := db.NewValues(&updates)
	res, err := db.NewUpdate().
		With("_data", values).
		Model((*GroupPlayer)(nil)).
		TableExpr("_data").
		Set("position = _data.position").
		Where("gp.id = _data.id").
		Where("gp.group_id = ?", groupID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.UpdatePositions: %w", err)
	}
	if n, _ := res.RowsAffected(); int(n) != len(updates) {
		return fmt.Errorf("ladder.UpdatePositions: updated %d of %d seats: %w", n, len(updates), ErrNoRowsAffected)
	}
	return nil
}

func (r *Repo) UpdateSeatResults(ctx context.Context, db bun.IDB, results []SeatResult) error {
	if len(results) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	values := db.NewValues(&results)
	_, err := db.NewUpdate().
		With("_data", values).
		Model((*GroupPlayer)(nil)).
		TableExpr("_data").
		Set("points = _data.points").
		Set("continuity_bonus = _data.continuity_bonus").
		Set("streak = _data.streak").
		Set("movement = _data.movement").
		Set("locked = _data.locked").
		Where("gp.id = _data.id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.UpdateSeatResults: %w", err)
	}
	return nil
}

func (r *Repo) UpdateSeatWildcard(ctx context.Context, db bun.IDB, seat *GroupPlayer) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model(seat).
		Column("used_comodin", "comodin_mode", "comodin_reason", "comodin_at", "substitute_player_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.UpdateSeatWildcard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Repo) ResetRoundResults(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	groupIDs := db.NewSelect().Model((*Group)(nil)).Column("id").Where("round_id = ?", roundID)

	if _, err := db.NewUpdate().
		Model((*GroupPlayer)(nil)).
		Set("points = 0").
		Set("continuity_bonus = 0").
		Set("streak = 0").
		Set("movement = 0").
		Set("locked = FALSE").
		Where("group_id IN (?)", groupIDs).
		Exec(ctx); err != nil {
		return fmt.Errorf("ladder.ResetRoundResults: seats: %w", err)
	}
	if _, err := db.NewUpdate().
		Model((*Group)(nil)).
		Set("status = ?", "PENDING").
		Where("round_id = ?", roundID).
		Where("status = ?", "PLAYED").
		Exec(ctx); err != nil {
		return fmt.Errorf("ladder.ResetRoundResults: groups: %w", err)
	}
	return nil
}

func (r *Repo) historyQuery(db bun.IDB, tournamentID uuid.UUID) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("ladder_group_players AS gp").
		Join("JOIN ladder_groups AS g ON g.id = gp.group_id").
		Join("JOIN ladder_rounds AS r ON r.id = g.round_id").
		ColumnExpr("gp.player_id, gp.position, gp.points, gp.continuity_bonus, gp.streak, gp.movement, gp.used_comodin, gp.comodin_mode").
		ColumnExpr("g.id AS group_id, g.level AS group_level, g.status AS group_status").
		ColumnExpr("r.id AS round_id, r.number AS round_number, r.is_closed AS round_closed").
		Where("r.tournament_id = ?", tournamentID)
}

func (r *Repo) ListTournamentHistory(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, beforeRound int) ([]PlayerRoundRecord, error) {
	var records []PlayerRoundRecord
	err := r.historyQuery(r.resolveDB(db), tournamentID).
		Where("r.number < ?", beforeRound).
		OrderExpr("r.number ASC, gp.player_id ASC").
		Scan(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListTournamentHistory: %w", err)
	}
	return records, nil
}

func (r *Repo) ListPlayerHistory(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) ([]PlayerRoundRecord, error) {
	var records []PlayerRoundRecord
	err := r.historyQuery(r.resolveDB(db), tournamentID).
		Where("gp.player_id = ?", playerID).
		OrderExpr("r.number ASC").
		Scan(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListPlayerHistory: %w", err)
	}
	return records, nil
}
