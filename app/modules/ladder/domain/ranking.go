package ladderdomain

import (
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"
)

const pointsEpsilon = 1e-9

// PlayerStats are the per-round tie-break inputs for one seat in a group.
type PlayerStats struct {
	PlayerID  uuid.UUID
	Points    float64
	SetsWon   int
	GamesWon  int
	GamesLost int
	// Beat counts sets won against each opponent.
	Beat map[uuid.UUID]int
}

func (s PlayerStats) GameDiff() int {
	return s.GamesWon - s.GamesLost
}

// AccumulateGroup sums points and tie-break statistics for every seat from the group's decided sets.
func AccumulateGroup(seats []uuid.UUID, sets []PlayedSet, formula PointsFormula) map[uuid.UUID]*PlayerStats {
	stats := make(map[uuid.UUID]*PlayerStats, len(seats))
	for _, id := range seats {
		stats[id] = &PlayerStats{PlayerID: id, Beat: map[uuid.UUID]int{}}
	}

	for _, set := range sets {
		if !set.Result.Decided() {
			continue
		}
		for _, team := range []Team{Team1, Team2} {
			mine, theirs := set.Team1, set.Team2
			if team == Team2 {
				mine, theirs = set.Team2, set.Team1
			}
			won := set.Result.Winner == team
			for _, id := range mine {
				s, ok := stats[id]
				if !ok {
					continue
				}
				s.Points += formula.Award(set.Result, team)
				s.GamesWon += set.Result.GamesFor(team)
				s.GamesLost += set.Result.GamesAgainst(team)
				if won {
					s.SetsWon++
					for _, opp := range theirs {
						s.Beat[opp]++
					}
				}
			}
		}
	}
	return stats
}

func pointsEqual(a, b float64) bool {
	return math.Abs(a-b) < pointsEpsilon
}

func comparePoints(a, b float64) int {
	if pointsEqual(a, b) {
		return 0
	}
	return cmp.Compare(a, b)
}

// primaryOrder compares on points, sets won and game differential, best first.
func primaryOrder(a, b PlayerStats) int {
	return cmp.Or(
		-comparePoints(a.Points, b.Points),
		-cmp.Compare(a.SetsWon, b.SetsWon),
		-cmp.Compare(a.GameDiff(), b.GameDiff()),
	)
}

// RankGroup orders a group best-first: points, sets won, game differential,
// head-to-head wins inside the tied cluster, total games won, player id.
func RankGroup(stats []PlayerStats) []PlayerStats {
	ranked := slices.Clone(stats)
	slices.SortStableFunc(ranked, func(a, b PlayerStats) int {
		return cmp.Or(primaryOrder(a, b), compareIDs(a.PlayerID, b.PlayerID))
	})

	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && primaryOrder(ranked[start], ranked[end]) == 0 {
			end++
		}
		if end-start > 1 {
			breakCluster(ranked[start:end])
		}
		start = end
	}
	return ranked
}

func breakCluster(cluster []PlayerStats) {
	members := make(map[uuid.UUID]bool, len(cluster))
	for _, s := range cluster {
		members[s.PlayerID] = true
	}
	h2h := make(map[uuid.UUID]int, len(cluster))
	for _, s := range cluster {
		for opp, n := range s.Beat {
			if members[opp] {
				h2h[s.PlayerID] += n
			}
		}
	}
	slices.SortStableFunc(cluster, func(a, b PlayerStats) int {
		return cmp.Or(
			-cmp.Compare(h2h[a.PlayerID], h2h[b.PlayerID]),
			-cmp.Compare(a.GamesWon, b.GamesWon),
			compareIDs(a.PlayerID, b.PlayerID),
		)
	})
}

// PositionAssignment is the final position of one seat.
type PositionAssignment struct {
	PlayerID uuid.UUID
	Position int
}

// AssignPositions turns a ranked group into positions 1..N.
func AssignPositions(ranked []PlayerStats) []PositionAssignment {
	out := make([]PositionAssignment, len(ranked))
	for i, s := range ranked {
		out[i] = PositionAssignment{PlayerID: s.PlayerID, Position: i + 1}
	}
	return out
}

// ValidatePermutation checks that assignments cover every seat exactly once with positions 1..N.
func ValidatePermutation(seats []uuid.UUID, assignments []PositionAssignment) error {
	if len(seats) != len(assignments) {
		return NewStateConflict(CodePositionMissing, "position assignment does not cover every seat")
	}
	inGroup := make(map[uuid.UUID]bool, len(seats))
	for _, id := range seats {
		inGroup[id] = true
	}
	usedPos := make(map[int]bool, len(assignments))
	usedID := make(map[uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		if !inGroup[a.PlayerID] || usedID[a.PlayerID] {
			return NewStateConflict(CodePositionMissing, "position target "+a.PlayerID.String()+" is not a seat in the group")
		}
		if a.Position < 1 || a.Position > len(seats) || usedPos[a.Position] {
			return NewStateConflict(CodePositionMissing, "positions must be a permutation of 1..N")
		}
		usedID[a.PlayerID] = true
		usedPos[a.Position] = true
	}
	return nil
}

// SwapAssignment exchanges the positions of two seats and returns the complete target permutation.
func SwapAssignment(current []PositionAssignment, a, b uuid.UUID) ([]PositionAssignment, error) {
	ia, ib := -1, -1
	for i, pa := range current {
		switch pa.PlayerID {
		case a:
			ia = i
		case b:
			ib = i
		}
	}
	if ia < 0 || ib < 0 || a == b {
		return nil, NewStateConflict(CodePositionMissing, "both players must hold distinct seats in the group")
	}
	next := slices.Clone(current)
	next[ia].Position, next[ib].Position = current[ib].Position, current[ia].Position
	return next, nil
}
