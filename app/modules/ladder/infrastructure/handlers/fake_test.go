package ladderhandlers

import (
	"context"

	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/google/uuid"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	StructureGroupsFunc  func(ctx context.Context, req ladderservice.StructureRequest) (*ladderservice.RoundGroups, error)
	GenerateRotationFunc func(ctx context.Context, groupID uuid.UUID, overwrite bool) ([]ladderservice.MatchView, error)
	SkipGroupFunc        func(ctx context.Context, groupID uuid.UUID, reason string) (*ladderservice.GroupView, error)
	SwapPositionsFunc    func(ctx context.Context, groupID, a, b uuid.UUID) (*ladderservice.GroupView, error)
	ReportResultFunc     func(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, score ladderdomain.SetScore) (*ladderservice.MatchView, error)
	ConfirmResultFunc    func(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*ladderservice.MatchView, error)
	ProposeDateFunc      func(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, when string) (*ladderservice.MatchView, error)
	AcceptDateFunc       func(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*ladderservice.MatchView, error)
	CloseRoundFunc       func(ctx context.Context, roundID uuid.UUID) (*ladderservice.CloseSummary, error)
	ReopenRoundFunc      func(ctx context.Context, roundID uuid.UUID) (*ladderservice.ReopenSummary, error)
	ApplyWildcardFunc    func(ctx context.Context, req ladderservice.ApplyWildcardRequest) (*ladderservice.SeatView, error)
	RevokeWildcardFunc   func(ctx context.Context, playerID, roundID uuid.UUID, bypass bool) (*ladderservice.SeatView, error)
	GetRankingsFunc      func(ctx context.Context, tournamentID uuid.UUID, ref *int) (*ladderdomain.Rankings, error)
	GetMovementsFunc     func(ctx context.Context, roundID uuid.UUID) ([]ladderservice.MovementView, error)
	GetPlayerHistoryFunc func(ctx context.Context, tournamentID, playerID uuid.UUID) (*ladderservice.PlayerHistory, error)
	GetPlayerStreakFunc  func(ctx context.Context, tournamentID, playerID uuid.UUID) (*ladderservice.StreakStats, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) StructureGroups(ctx context.Context, req ladderservice.StructureRequest) (*ladderservice.RoundGroups, error) {
	f.record("StructureGroups")
	if f.StructureGroupsFunc != nil {
		return f.StructureGroupsFunc(ctx, req)
	}
	return &ladderservice.RoundGroups{RoundID: req.RoundID, Strategy: req.Strategy}, nil
}

func (f *FakeService) GenerateRotation(ctx context.Context, groupID uuid.UUID, overwrite bool) ([]ladderservice.MatchView, error) {
	f.record("GenerateRotation")
	if f.GenerateRotationFunc != nil {
		return f.GenerateRotationFunc(ctx, groupID, overwrite)
	}
	return nil, nil
}

func (f *FakeService) SkipGroup(ctx context.Context, groupID uuid.UUID, reason string) (*ladderservice.GroupView, error) {
	f.record("SkipGroup")
	if f.SkipGroupFunc != nil {
		return f.SkipGroupFunc(ctx, groupID, reason)
	}
	return &ladderservice.GroupView{ID: groupID, SkipReason: reason}, nil
}

func (f *FakeService) SwapPositions(ctx context.Context, groupID, a, b uuid.UUID) (*ladderservice.GroupView, error) {
	f.record("SwapPositions")
	if f.SwapPositionsFunc != nil {
		return f.SwapPositionsFunc(ctx, groupID, a, b)
	}
	return &ladderservice.GroupView{ID: groupID}, nil
}

func (f *FakeService) ReportResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, score ladderdomain.SetScore) (*ladderservice.MatchView, error) {
	f.record("ReportResult")
	if f.ReportResultFunc != nil {
		return f.ReportResultFunc(ctx, actor, matchID, score)
	}
	return &ladderservice.MatchView{ID: matchID}, nil
}

func (f *FakeService) ConfirmResult(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*ladderservice.MatchView, error) {
	f.record("ConfirmResult")
	if f.ConfirmResultFunc != nil {
		return f.ConfirmResultFunc(ctx, actor, matchID)
	}
	return &ladderservice.MatchView{ID: matchID, Confirmed: true}, nil
}

func (f *FakeService) ProposeDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID, when string) (*ladderservice.MatchView, error) {
	f.record("ProposeDate")
	if f.ProposeDateFunc != nil {
		return f.ProposeDateFunc(ctx, actor, matchID, when)
	}
	return &ladderservice.MatchView{ID: matchID}, nil
}

func (f *FakeService) AcceptDate(ctx context.Context, actor ladderdomain.Actor, matchID uuid.UUID) (*ladderservice.MatchView, error) {
	f.record("AcceptDate")
	if f.AcceptDateFunc != nil {
		return f.AcceptDateFunc(ctx, actor, matchID)
	}
	return &ladderservice.MatchView{ID: matchID}, nil
}

func (f *FakeService) CloseRound(ctx context.Context, roundID uuid.UUID) (*ladderservice.CloseSummary, error) {
	f.record("CloseRound")
	if f.CloseRoundFunc != nil {
		return f.CloseRoundFunc(ctx, roundID)
	}
	return &ladderservice.CloseSummary{RoundID: roundID}, nil
}

func (f *FakeService) ReopenRound(ctx context.Context, roundID uuid.UUID) (*ladderservice.ReopenSummary, error) {
	f.record("ReopenRound")
	if f.ReopenRoundFunc != nil {
		return f.ReopenRoundFunc(ctx, roundID)
	}
	return &ladderservice.ReopenSummary{RoundID: roundID}, nil
}

func (f *FakeService) ApplyWildcard(ctx context.Context, req ladderservice.ApplyWildcardRequest) (*ladderservice.SeatView, error) {
	f.record("ApplyWildcard")
	if f.ApplyWildcardFunc != nil {
		return f.ApplyWildcardFunc(ctx, req)
	}
	return &ladderservice.SeatView{PlayerID: req.PlayerID, UsedComodin: true}, nil
}

func (f *FakeService) RevokeWildcard(ctx context.Context, playerID, roundID uuid.UUID, bypass bool) (*ladderservice.SeatView, error) {
	f.record("RevokeWildcard")
	if f.RevokeWildcardFunc != nil {
		return f.RevokeWildcardFunc(ctx, playerID, roundID, bypass)
	}
	return &ladderservice.SeatView{PlayerID: playerID}, nil
}

func (f *FakeService) GetRankings(ctx context.Context, tournamentID uuid.UUID, ref *int) (*ladderdomain.Rankings, error) {
	f.record("GetRankings")
	if f.GetRankingsFunc != nil {
		return f.GetRankingsFunc(ctx, tournamentID, ref)
	}
	return &ladderdomain.Rankings{TournamentID: tournamentID}, nil
}

func (f *FakeService) GetMovements(ctx context.Context, roundID uuid.UUID) ([]ladderservice.MovementView, error) {
	f.record("GetMovements")
	if f.GetMovementsFunc != nil {
		return f.GetMovementsFunc(ctx, roundID)
	}
	return nil, nil
}

func (f *FakeService) GetPlayerHistory(ctx context.Context, tournamentID, playerID uuid.UUID) (*ladderservice.PlayerHistory, error) {
	f.record("GetPlayerHistory")
	if f.GetPlayerHistoryFunc != nil {
		return f.GetPlayerHistoryFunc(ctx, tournamentID, playerID)
	}
	return &ladderservice.PlayerHistory{TournamentID: tournamentID, PlayerID: playerID}, nil
}

func (f *FakeService) GetPlayerStreak(ctx context.Context, tournamentID, playerID uuid.UUID) (*ladderservice.StreakStats, error) {
	f.record("GetPlayerStreak")
	if f.GetPlayerStreakFunc != nil {
		return f.GetPlayerStreakFunc(ctx, tournamentID, playerID)
	}
	return &ladderservice.StreakStats{TournamentID: tournamentID, PlayerID: playerID}, nil
}

var _ ladderservice.Service = (*FakeService)(nil)
