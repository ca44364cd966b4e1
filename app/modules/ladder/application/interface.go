package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/google/uuid"
)

// Service defines the ladder operations.
type Service interface {
	// StructureGroups partitions the round's eligible players into groups and generates their rotations.
	StructureGroups(ctx context.Context, req StructureRequest) (*RoundGroups, error)
	// GenerateRotation creates the group's three sets; existing sets are only replaced with overwrite.
	GenerateRotation(ctx context.Context, groupID uuid.UUID, overwrite bool) ([]MatchView, error)
	SkipGroup(ctx context.Context, groupID uuid.UUID, reason string) (*GroupView, error)
	SwapPositions(ctx context.Context, groupID, playerA, playerB uuid.UUID) (*GroupView, error)

	ReportResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, score ladderdomain.SetScore) (*MatchView, error)
	ConfirmResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*MatchView, error)
	ProposeDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, when string) (*MatchView, error)
	AcceptDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*MatchView, error)

	CloseRound(ctx context.Context, roundID uuid.UUID) (*CloseSummary, error)
	ReopenRound(ctx context.Context, roundID uuid.UUID) (*ReopenSummary, error)

	ApplyWildcard(ctx context.Context, req ApplyWildcardRequest) (*SeatView, error)
	RevokeWildcard(ctx context.Context, playerID, roundID uuid.UUID, bypassFreezeWindow bool) (*SeatView, error)

	// GetRankings returns both standings; a nil referenceRound picks the latest closed round.
	GetRankings(ctx context.Context, tournamentID uuid.UUID, referenceRound *int) (*ladderdomain.Rankings, error)
	GetMovements(ctx context.Context, roundID uuid.UUID) ([]MovementView, error)
	GetPlayerHistory(ctx context.Context, tournamentID, playerID uuid.UUID) (*PlayerHistory, error)
	GetPlayerStreak(ctx context.Context, tournamentID, playerID uuid.UUID) (*StreakStats, error)
}

// StructureRequest describes a group generation.
type StructureRequest struct {
	RoundID   uuid.UUID
	Strategy  string
	GroupSize int
	Force     bool
	// Manual lists the players of each group for the manual strategy, in position order.
	Manual [][]uuid.UUID
	// Seed makes the random strategy reproducible.
	Seed *uint64
}

// ApplyWildcardRequest describes a wildcard application.
type ApplyWildcardRequest struct {
	PlayerID           uuid.UUID
	RoundID            uuid.UUID
	Mode               string
	SubstitutePlayerID *uuid.UUID
	Reason             string
}
