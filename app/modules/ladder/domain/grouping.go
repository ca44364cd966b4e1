package ladderdomain

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

// Strategy selects how eligible players are partitioned into groups.
type Strategy string

const (
	StrategyRandom Strategy = "random"
	StrategySeeded Strategy = "seeded"
	StrategyManual Strategy = "manual"
	// StrategyLadder places players by their previous level plus the movement earned at close.
	StrategyLadder Strategy = "ladder"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRandom, StrategySeeded, StrategyManual, StrategyLadder:
		return Strategy(s), nil
	}
	return "", NewValidationError("strategy", CodeInvalidStrategy, "strategy must be random, seeded, manual or ladder")
}

// GroupPlan is one group to create: its number doubles as its ladder level,
// and Players are listed in position order.
type GroupPlan struct {
	Number  int
	Level   int
	Players []uuid.UUID
}

// LadderSeat is a player's standing at the end of the previous round.
type LadderSeat struct {
	PlayerID uuid.UUID
	Level    int
	Position int
	Movement int
}

func checkPartition(count, size int) error {
	if size <= 0 {
		return NewValidationError("groupSize", CodeInvalidGroupSize, "group size must be positive")
	}
	if count == 0 || count%size != 0 {
		return NewValidationError("players", CodeInvalidPartition,
			fmt.Sprintf("%d eligible players cannot be split into groups of %d", count, size))
	}
	return nil
}

func chunk(players []uuid.UUID, size int) []GroupPlan {
	plans := make([]GroupPlan, 0, len(players)/size)
	for i := 0; i < len(players); i += size {
		n := len(plans) + 1
		plans = append(plans, GroupPlan{Number: n, Level: n, Players: slices.Clone(players[i : i+size])})
	}
	return plans
}

// PartitionRandom shuffles with the given source and cuts consecutive groups.
func PartitionRandom(eligible []uuid.UUID, size int, rng *rand.Rand) ([]GroupPlan, error) {
	if err := checkPartition(len(eligible), size); err != nil {
		return nil, err
	}
	shuffled := slices.Clone(eligible)
	slices.SortFunc(shuffled, compareIDs)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return chunk(shuffled, size), nil
}

// PartitionSeeded distributes players ranked best-first with a serpentine pass:
// groups 1..G on the first pass, G..1 on the second, and so on.
func PartitionSeeded(ranked []uuid.UUID, size int) ([]GroupPlan, error) {
	if err := checkPartition(len(ranked), size); err != nil {
		return nil, err
	}
	groupCount := len(ranked) / size
	plans := make([]GroupPlan, groupCount)
	for g := range plans {
		plans[g] = GroupPlan{Number: g + 1, Level: g + 1, Players: make([]uuid.UUID, 0, size)}
	}
	for i, id := range ranked {
		pass, idx := i/groupCount, i%groupCount
		if pass%2 == 1 {
			idx = groupCount - 1 - idx
		}
		plans[idx].Players = append(plans[idx].Players, id)
	}
	return plans, nil
}

// PartitionManual validates explicit group lists against the eligible set.
func PartitionManual(eligible []uuid.UUID, groups [][]uuid.UUID, size int) ([]GroupPlan, error) {
	if err := checkPartition(len(eligible), size); err != nil {
		return nil, err
	}
	allowed := make(map[uuid.UUID]bool, len(eligible))
	for _, id := range eligible {
		allowed[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(eligible))
	plans := make([]GroupPlan, 0, len(groups))
	for gi, members := range groups {
		if len(members) != size {
			return nil, NewValidationError(fmt.Sprintf("groups[%d]", gi), CodeInvalidGroupSize,
				fmt.Sprintf("group has %d players, expected %d", len(members), size))
		}
		for _, id := range members {
			if seen[id] {
				return nil, NewPolicyViolation(CodeDuplicatePlayer,
					fmt.Sprintf("player %s is assigned more than once", id))
			}
			if !allowed[id] {
				return nil, NewPolicyViolation(CodePlayerNotEligible,
					fmt.Sprintf("player %s is not eligible for this round", id))
			}
			seen[id] = true
		}
		plans = append(plans, GroupPlan{Number: gi + 1, Level: gi + 1, Players: slices.Clone(members)})
	}
	if len(seen) != len(eligible) {
		return nil, NewValidationError("groups", CodeInvalidPartition,
			fmt.Sprintf("%d of %d eligible players were not placed", len(eligible)-len(seen), len(eligible)))
	}
	return plans, nil
}

// PartitionLadder applies last round's movements. Players without a previous seat join at the bottom.
func PartitionLadder(eligible []uuid.UUID, previous []LadderSeat, size int) ([]GroupPlan, error) {
	if err := checkPartition(len(eligible), size); err != nil {
		return nil, err
	}
	isEligible := make(map[uuid.UUID]bool, len(eligible))
	for _, id := range eligible {
		isEligible[id] = true
	}

	seats := make([]LadderSeat, 0, len(previous))
	placed := make(map[uuid.UUID]bool, len(previous))
	for _, s := range previous {
		if !isEligible[s.PlayerID] || placed[s.PlayerID] {
			continue
		}
		seats = append(seats, s)
		placed[s.PlayerID] = true
	}
	slices.SortFunc(seats, func(a, b LadderSeat) int {
		return cmp.Or(
			cmp.Compare(a.Level+a.Movement, b.Level+b.Movement),
			cmp.Compare(a.Position, b.Position),
			compareIDs(a.PlayerID, b.PlayerID),
		)
	})

	ordered := make([]uuid.UUID, 0, len(eligible))
	for _, s := range seats {
		ordered = append(ordered, s.PlayerID)
	}
	newcomers := make([]uuid.UUID, 0)
	for _, id := range eligible {
		if !placed[id] {
			newcomers = append(newcomers, id)
		}
	}
	slices.SortFunc(newcomers, compareIDs)
	ordered = append(ordered, newcomers...)

	return chunk(ordered, size), nil
}

func compareIDs(a, b uuid.UUID) int {
	return cmp.Compare(a.String(), b.String())
}
