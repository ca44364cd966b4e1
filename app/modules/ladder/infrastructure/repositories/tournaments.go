package ladderdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repo implements Repository on Postgres.
type Repo struct {
	db       *bun.DB
	lock     LockConfig
	observer LockObserver
}

// NewRepo creates a repository. db is used whenever a method receives a nil bun.IDB.
func NewRepo(db *bun.DB, lock LockConfig, observer LockObserver) *Repo {
	return &Repo{db: db, lock: lock, observer: observer}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (r *Repo) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error) {
	t := new(Tournament)
	err := r.resolveDB(db).NewSelect().Model(t).Where("t.id = ?", id).Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetTournament: %w", err)
	}
	return t, nil
}

func (r *Repo) GetActiveTournament(ctx context.Context, db bun.IDB) (*Tournament, error) {
	t := new(Tournament)
	err := r.resolveDB(db).NewSelect().Model(t).Where("t.is_active = TRUE").Limit(1).Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetActiveTournament: %w", err)
	}
	return t, nil
}

func (r *Repo) ListTournamentPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]TournamentPlayer, error) {
	var players []TournamentPlayer
	err := r.resolveDB(db).NewSelect().
		Model(&players).
		Where("tp.tournament_id = ?", tournamentID).
		Order("tp.player_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListTournamentPlayers: %w", err)
	}
	return players, nil
}

func (r *Repo) GetTournamentPlayer(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) (*TournamentPlayer, error) {
	tp := new(TournamentPlayer)
	err := r.resolveDB(db).NewSelect().
		Model(tp).
		Where("tp.tournament_id = ?", tournamentID).
		Where("tp.player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetTournamentPlayer: %w", err)
	}
	return tp, nil
}

func (r *Repo) AdjustComodinesUsed(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID, delta int) error {
	return r.adjustCounter(ctx, db, "comodines_used", tournamentID, playerID, delta)
}

func (r *Repo) AdjustSubstituteAppearances(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID, delta int) error {
	return r.adjustCounter(ctx, db, "substitute_appearances", tournamentID, playerID, delta)
}

func (r *Repo) adjustCounter(ctx context.Context, db bun.IDB, column string, tournamentID, playerID uuid.UUID, delta int) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model((*TournamentPlayer)(nil)).
		Set("? = GREATEST(? + ?, 0)", bun.Ident(column), bun.Ident(column), delta).
		Where("tournament_id = ?", tournamentID).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.adjust %s: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Repo) GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error) {
	round := new(Round)
	err := r.resolveDB(db).NewSelect().Model(round).Where("r.id = ?", id).Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetRound: %w", err)
	}
	return round, nil
}

func (r *Repo) GetRoundByNumber(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, number int) (*Round, error) {
	round := new(Round)
	err := r.resolveDB(db).NewSelect().
		Model(round).
		Where("r.tournament_id = ?", tournamentID).
		Where("r.number = ?", number).
		Scan(ctx)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ladder.GetRoundByNumber: %w", err)
	}
	return round, nil
}

func (r *Repo) ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Round, error) {
	var rounds []Round
	err := r.resolveDB(db).NewSelect().
		Model(&rounds).
		Where("r.tournament_id = ?", tournamentID).
		Order("r.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ladder.ListRounds: %w", err)
	}
	return rounds, nil
}

// SetRoundClosed closes the round when closedAt is set and reopens it when nil.
func (r *Repo) SetRoundClosed(ctx context.Context, db bun.IDB, roundID uuid.UUID, closedAt *time.Time) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model((*Round)(nil)).
		Set("is_closed = ?", closedAt != nil).
		Set("closed_at = ?", closedAt).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ladder.SetRoundClosed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
