package ladderdomain

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRotation(t *testing.T) {
	p := pids(1, 4)
	sets, err := GenerateRotation(p)
	require.NoError(t, err)

	want := []Pairing{
		{SetNumber: 1, Team1: [2]uuid.UUID{p[0], p[3]}, Team2: [2]uuid.UUID{p[1], p[2]}},
		{SetNumber: 2, Team1: [2]uuid.UUID{p[0], p[2]}, Team2: [2]uuid.UUID{p[1], p[3]}},
		{SetNumber: 3, Team1: [2]uuid.UUID{p[0], p[1]}, Team2: [2]uuid.UUID{p[2], p[3]}},
	}
	if diff := cmp.Diff(want, sets); diff != "" {
		t.Fatalf("rotation mismatch (-want +got):\n%s", diff)
	}

	// every player partners every other player exactly once
	partners := map[[2]uuid.UUID]int{}
	for _, s := range sets {
		partners[[2]uuid.UUID{s.Team1[0], s.Team1[1]}]++
		partners[[2]uuid.UUID{s.Team2[0], s.Team2[1]}]++
	}
	assert.Len(t, partners, 6)

	_, err = GenerateRotation(pids(1, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeInvalidGroupSize, CodeOf(err))
}

func TestPartitionRejectsUnevenCounts(t *testing.T) {
	cases := map[string][]uuid.UUID{
		"not a multiple": pids(1, 6),
		"empty":          {},
	}
	for name, players := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PartitionSeeded(players, 4)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, CodeInvalidPartition, CodeOf(err))

			_, err = PartitionRandom(players, 4, rand.New(rand.NewPCG(1, 2)))
			assert.Equal(t, CodeInvalidPartition, CodeOf(err))
		})
	}
}

func TestPartitionSeededSerpentine(t *testing.T) {
	ranked := pids(1, 12)
	plans, err := PartitionSeeded(ranked, 4)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	want := [][]uuid.UUID{
		{pid(1), pid(6), pid(7), pid(12)},
		{pid(2), pid(5), pid(8), pid(11)},
		{pid(3), pid(4), pid(9), pid(10)},
	}
	for i, plan := range plans {
		assert.Equal(t, i+1, plan.Number)
		assert.Equal(t, i+1, plan.Level)
		assert.Equal(t, want[i], plan.Players)
	}
}

func TestPartitionRandomIsSeedDeterministic(t *testing.T) {
	players := pids(1, 16)
	a, err := PartitionRandom(players, 4, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)
	b, err := PartitionRandom(players, 4, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	seen := map[uuid.UUID]int{}
	for _, plan := range a {
		require.Len(t, plan.Players, 4)
		for _, id := range plan.Players {
			seen[id]++
		}
	}
	assert.Len(t, seen, 16)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}
}

func TestPartitionManual(t *testing.T) {
	eligible := pids(1, 8)

	t.Run("valid lists keep order", func(t *testing.T) {
		groups := [][]uuid.UUID{pids(5, 8), pids(1, 4)}
		plans, err := PartitionManual(eligible, groups, 4)
		require.NoError(t, err)
		assert.Equal(t, pids(5, 8), plans[0].Players)
		assert.Equal(t, 2, plans[1].Level)
	})

	t.Run("duplicate across groups", func(t *testing.T) {
		groups := [][]uuid.UUID{pids(1, 4), {pid(4), pid(5), pid(6), pid(7)}}
		_, err := PartitionManual(eligible, groups, 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPolicyViolation)
		assert.Equal(t, CodeDuplicatePlayer, CodeOf(err))
	})

	t.Run("duplicate inside a group", func(t *testing.T) {
		groups := [][]uuid.UUID{{pid(1), pid(1), pid(2), pid(3)}, pids(5, 8)}
		_, err := PartitionManual(eligible, groups, 4)
		assert.Equal(t, CodeDuplicatePlayer, CodeOf(err))
	})

	t.Run("ineligible player", func(t *testing.T) {
		groups := [][]uuid.UUID{pids(1, 4), {pid(5), pid(6), pid(7), pid(99)}}
		_, err := PartitionManual(eligible, groups, 4)
		assert.Equal(t, CodePlayerNotEligible, CodeOf(err))
	})

	t.Run("missing players", func(t *testing.T) {
		_, err := PartitionManual(eligible, [][]uuid.UUID{pids(1, 4)}, 4)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, CodeInvalidPartition, CodeOf(err))
	})

	t.Run("wrong group size", func(t *testing.T) {
		_, err := PartitionManual(eligible, [][]uuid.UUID{pids(1, 3), pids(4, 8)}, 4)
		assert.Equal(t, CodeInvalidGroupSize, CodeOf(err))
	})
}

func TestPartitionLadderAppliesMovement(t *testing.T) {
	// two groups last round: group 1 (level 1) p1..p4, group 2 (level 2) p5..p8
	previous := []LadderSeat{
		{PlayerID: pid(1), Level: 1, Position: 1, Movement: 0},
		{PlayerID: pid(2), Level: 1, Position: 2, Movement: 0},
		{PlayerID: pid(3), Level: 1, Position: 3, Movement: 1},
		{PlayerID: pid(4), Level: 1, Position: 4, Movement: 1},
		{PlayerID: pid(5), Level: 2, Position: 1, Movement: -1},
		{PlayerID: pid(6), Level: 2, Position: 2, Movement: -1},
		{PlayerID: pid(7), Level: 2, Position: 3, Movement: 0},
		{PlayerID: pid(8), Level: 2, Position: 4, Movement: 0},
	}
	// p8 left the tournament, p9 joined
	eligible := append(pids(1, 7), pid(9))

	plans, err := PartitionLadder(eligible, previous, 4)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, []uuid.UUID{pid(1), pid(5), pid(2), pid(6)}, plans[0].Players)
	assert.Equal(t, []uuid.UUID{pid(3), pid(7), pid(4), pid(9)}, plans[1].Players)
}
