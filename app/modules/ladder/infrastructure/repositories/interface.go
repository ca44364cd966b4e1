package ladderdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for ladder persistence.
// Every method takes the bun.IDB to run on so callers control the transaction.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - ErrLockTimeout: the round lock could not be taken within the configured bound
//   - Other errors: infrastructure failures
type Repository interface {
	// AcquireRoundLock takes a transaction-scoped advisory lock on the round.
	// Must be called within a transaction; retries are bounded.
	AcquireRoundLock(ctx context.Context, db bun.IDB, roundID uuid.UUID) error

	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error)
	GetActiveTournament(ctx context.Context, db bun.IDB) (*Tournament, error)
	ListTournamentPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]TournamentPlayer, error)
	GetTournamentPlayer(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) (*TournamentPlayer, error)
	// AdjustComodinesUsed adds delta to the wildcard counter, never going below zero.
	AdjustComodinesUsed(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID, delta int) error
	// AdjustSubstituteAppearances adds delta to the substitute counter, never going below zero.
	AdjustSubstituteAppearances(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID, delta int) error

	GetRound(ctx context.Context, db bun.IDB, id uuid.UUID) (*Round, error)
	GetRoundByNumber(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, number int) (*Round, error)
	ListRounds(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Round, error)
	SetRoundClosed(ctx context.Context, db bun.IDB, roundID uuid.UUID, closedAt *time.Time) error

	GetGroup(ctx context.Context, db bun.IDB, id uuid.UUID) (*Group, error)
	ListGroups(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Group, error)
	// InsertGroups creates groups with their seats.
	InsertGroups(ctx context.Context, db bun.IDB, groups []Group, seats []GroupPlayer) error
	// DeleteRoundGroups drops the round's groups, seats and matches.
	DeleteRoundGroups(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
	UpdateGroupStatus(ctx context.Context, db bun.IDB, groupID uuid.UUID, status string, reason *string) error

	ListSeatsByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]GroupPlayer, error)
	ListSeatsByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]GroupPlayer, error)
	// UpdatePositions rewrites a group's positions through negative sentinels.
	UpdatePositions(ctx context.Context, db bun.IDB, groupID uuid.UUID, updates []PositionUpdate) error
	UpdateSeatResults(ctx context.Context, db bun.IDB, results []SeatResult) error
	UpdateSeatWildcard(ctx context.Context, db bun.IDB, seat *GroupPlayer) error
	// ResetRoundResults clears every computed column of the round's seats and groups.
	ResetRoundResults(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
	// ListTournamentHistory returns every seat of rounds numbered below beforeRound.
	ListTournamentHistory(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, beforeRound int) ([]PlayerRoundRecord, error)
	ListPlayerHistory(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) ([]PlayerRoundRecord, error)

	GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error)
	ListMatchesByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]Match, error)
	ListMatchesByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Match, error)
	// ListConfirmedMatches returns confirmed matches of rounds numbered up to upToRound,
	// skipping groups marked SKIPPED.
	ListConfirmedMatches(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, upToRound int) ([]RoundMatch, error)
	InsertMatches(ctx context.Context, db bun.IDB, matches []Match) error
	DeleteGroupMatches(ctx context.Context, db bun.IDB, groupID uuid.UUID) error
	UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error

	InsertStreakEntries(ctx context.Context, db bun.IDB, entries []StreakEntry) error
	// ListStreakEntries returns the player's ledger, skipping entries of reopened closings.
	ListStreakEntries(ctx context.Context, db bun.IDB, tournamentID, playerID uuid.UUID) ([]StreakEntry, error)

	// GetActiveClosing returns the round's closing that has not been reopened, or nil.
	GetActiveClosing(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*RoundClosing, error)
	// GetLatestClosing returns the most recent closing of the round, reopened or not, or nil.
	GetLatestClosing(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*RoundClosing, error)
	InsertClosing(ctx context.Context, db bun.IDB, closing *RoundClosing) error
	MarkClosingReopened(ctx context.Context, db bun.IDB, closingID uuid.UUID, at time.Time) error

	ReplaceRankingSnapshot(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, roundNumber int, rows []RankingSnapshot) error
	GetRankingSnapshot(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, roundNumber int) ([]RankingSnapshot, error)
	DeleteRankingSnapshotsFrom(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, fromRound int) error
}
