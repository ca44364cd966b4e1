package laddermigrations

import (
	"context"
	"fmt"

	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func ladderModels() []interface{} {
	return []interface{}{
		(*ladderdb.Tournament)(nil),
		(*ladderdb.Player)(nil),
		(*ladderdb.TournamentPlayer)(nil),
		(*ladderdb.Round)(nil),
		(*ladderdb.Group)(nil),
		(*ladderdb.GroupPlayer)(nil),
		(*ladderdb.Match)(nil),
		(*ladderdb.RoundClosing)(nil),
		(*ladderdb.StreakEntry)(nil),
		(*ladderdb.RankingSnapshot)(nil),
	}
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating ladder tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range ladderModels() {
				if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table for %T: %w", model, err)
				}
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_tournaments_single_active
					ON ladder_tournaments (is_active) WHERE is_active;
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_rounds_tournament_number
					ON ladder_rounds (tournament_id, number);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_groups_round_number
					ON ladder_groups (round_id, number);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_group_players_group_player
					ON ladder_group_players (group_id, player_id);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_group_players_group_position
					ON ladder_group_players (group_id, position);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_matches_group_set
					ON ladder_matches (group_id, set_number);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_ladder_round_closings_active
					ON ladder_round_closings (round_id) WHERE reopened_at IS NULL;
				CREATE INDEX IF NOT EXISTS idx_ladder_streak_history_player
					ON ladder_streak_history (tournament_id, player_id, id);
				CREATE INDEX IF NOT EXISTS idx_ladder_groups_round
					ON ladder_groups (round_id);
			`); err != nil {
				return fmt.Errorf("failed to create ladder indexes: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE ladder_tournament_players
					ADD CONSTRAINT chk_ladder_tp_comodines_used CHECK (comodines_used >= 0),
					ADD CONSTRAINT chk_ladder_tp_substitute_appearances CHECK (substitute_appearances >= 0);
				ALTER TABLE ladder_matches
					ADD CONSTRAINT chk_ladder_matches_team1_games CHECK (team1_games BETWEEN 0 AND 7),
					ADD CONSTRAINT chk_ladder_matches_team2_games CHECK (team2_games BETWEEN 0 AND 7);
			`); err != nil {
				return fmt.Errorf("failed to add ladder constraints: %w", err)
			}

			fmt.Println("Ladder tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ladder tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := ladderModels()
			for i := len(models) - 1; i >= 0; i-- {
				if _, err := tx.NewDropTable().Model(models[i]).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
				}
			}
			return nil
		})
	})
}
