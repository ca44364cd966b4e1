package ladderservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	laddermetrics "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/metrics"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// pid returns a stable id whose string order follows n.
func pid(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

var admin = ladderdomain.Actor{PlayerID: pid(999), IsAdmin: true}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type fixture struct {
	repo       *FakeRepo
	notifier   *FakeNotifier
	clock      *testClock
	svc        *LadderService
	tournament ladderdb.Tournament
	players    []uuid.UUID
	rounds     []ladderdb.Round
}

// newFixture enrols players pid(1)..pid(n) in a tournament of the given number of two-week rounds.
// The clock sits two days into round 1.
func newFixture(t *testing.T, n, rounds int) *fixture {
	t.Helper()
	faker := gofakeit.New(42)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f := &fixture{
		repo:     NewFakeRepo(),
		notifier: &FakeNotifier{},
		clock:    &testClock{t: start.Add(58 * time.Hour)},
	}
	f.tournament = ladderdb.Tournament{
		ID:                       uuid.New(),
		Name:                     faker.Company() + " Padel Ladder",
		TotalRounds:              rounds,
		RoundDurationDays:        14,
		IsActive:                 true,
		GroupSize:                4,
		ClosePointsFormula:       string(ladderdomain.FormulaSetResult),
		RankingPointsFormula:     string(ladderdomain.FormulaGamesPlusWin),
		MaxComodinesPerPlayer:    1,
		MeanComodinEnabled:       true,
		SubstituteComodinEnabled: true,
		SubstituteCreditFactor:   0.5,
		SubstituteMaxAppearances: 2,
		ContinuityEnabled:        true,
		ContinuityPointsPerSet:   0.5,
		ContinuityPointsPerRound: 1,
		ContinuityMinRounds:      2,
		ContinuityMaxBonus:       3,
		ContinuityMode:           string(ladderdomain.ContinuityMatches),
	}
	f.repo.PutTournament(f.tournament)
	for i := 1; i <= n; i++ {
		f.players = append(f.players, pid(i))
		f.repo.PutPlayer(ladderdb.TournamentPlayer{TournamentID: f.tournament.ID, PlayerID: pid(i), JoinedRound: 1})
	}
	for i := 1; i <= rounds; i++ {
		r := ladderdb.Round{
			ID:           uuid.New(),
			TournamentID: f.tournament.ID,
			Number:       i,
			StartsAt:     start.AddDate(0, 0, 14*(i-1)),
			EndsAt:       start.AddDate(0, 0, 14*i),
		}
		f.rounds = append(f.rounds, r)
		f.repo.PutRound(r)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewLadderService(f.repo, logger, laddermetrics.NoOp{}, noop.NewTracerProvider().Tracer("test"), nil, Options{
		Clock:    f.clock,
		Notifier: f.notifier,
	})
	return f
}

func (f *fixture) round(n int) uuid.UUID { return f.rounds[n-1].ID }

// manual structures a round with the given groups, players listed in position order.
func (f *fixture) manual(t *testing.T, round int, groups ...[]uuid.UUID) *RoundGroups {
	t.Helper()
	out, err := f.svc.StructureGroups(context.Background(), StructureRequest{
		RoundID:  f.round(round),
		Strategy: "manual",
		Manual:   groups,
	})
	require.NoError(t, err)
	return out
}

// sweep has team 1 win every set: 6-2, 6-3, 6-4. With positions p1..p4 the close ranks p1, p4, p3, p2.
var sweep = map[int]ladderdomain.SetScore{
	1: {Team1Games: 6, Team2Games: 2},
	2: {Team1Games: 6, Team2Games: 3},
	3: {Team1Games: 6, Team2Games: 4},
}

// play reports and confirms every set of the group as admin.
func (f *fixture) play(t *testing.T, g GroupView, scores map[int]ladderdomain.SetScore) {
	t.Helper()
	require.Len(t, g.Matches, 3)
	for _, m := range g.Matches {
		_, err := f.svc.ReportResult(context.Background(), admin, m.ID, scores[m.SetNumber])
		require.NoError(t, err)
	}
}

func (f *fixture) close(t *testing.T, round int) *CloseSummary {
	t.Helper()
	out, err := f.svc.CloseRound(context.Background(), f.round(round))
	require.NoError(t, err)
	return out
}

// seatOf finds a player's seat in a round.
func (f *fixture) seatOf(t *testing.T, round int, player uuid.UUID) ladderdb.GroupPlayer {
	t.Helper()
	seats, err := f.repo.ListSeatsByRound(context.Background(), nil, f.round(round))
	require.NoError(t, err)
	for _, s := range seats {
		if s.PlayerID == player {
			return s
		}
	}
	t.Fatalf("player %s has no seat in round %d", player, round)
	return ladderdb.GroupPlayer{}
}

// requireCode asserts the error kind and rule code.
func requireCode(t *testing.T, err error, kind error, code ladderdomain.Code) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, code, ladderdomain.CodeOf(err), err.Error())
}
