package ladderdomain

import (
	"cmp"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// RankingView names one of the two standings.
type RankingView string

const (
	ViewOfficial RankingView = "official"
	ViewIronman  RankingView = "ironman"
)

// Standing is a player's line in a ranking view.
type Standing struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Position      int       `json:"position"`
	AveragePoints float64   `json:"averagePoints"`
	TotalPoints   float64   `json:"totalPoints"`
	RoundsPlayed  int       `json:"roundsPlayed"`
}

// Rankings holds both views over the same aggregate.
type Rankings struct {
	TournamentID   uuid.UUID  `json:"tournamentId"`
	ReferenceRound int        `json:"referenceRound"`
	HasRankings    bool       `json:"hasRankings"`
	Official       []Standing `json:"official"`
	Ironman        []Standing `json:"ironman"`
}

// RankingSeat places a player in a group of a round, with the wildcard the seat used if any.
type RankingSeat struct {
	PlayerID    uuid.UUID
	GroupID     uuid.UUID
	RoundNumber int
	Wildcard    *WildcardUse
}

// BuildRankings aggregates decided sets up to the reference round for every enrolled player.
func BuildRankings(roster []uuid.UUID, sets []PlayedSet, formula PointsFormula, referenceRound int) Rankings {
	return BuildCreditedRankings(roster, nil, sets, TournamentPolicy{RankingPoints: formula}, referenceRound)
}

// BuildCreditedRankings aggregates like BuildRankings, then credits wildcard seats the way round
// closing does, under the ranking formula: a substitute's slot earns the credit factor share of its
// points and a mean wildcard earns MeanCredit. Seats of groups without a decided set get no credit.
func BuildCreditedRankings(roster []uuid.UUID, seats []RankingSeat, sets []PlayedSet, policy TournamentPolicy, referenceRound int) Rankings {
	perRound := make(map[uuid.UUID]map[int]float64, len(roster))
	for _, id := range roster {
		perRound[id] = map[int]float64{}
	}

	counted := false
	for _, set := range sets {
		if set.RoundNumber > referenceRound || !set.Result.Decided() {
			continue
		}
		counted = true
		for _, id := range set.Players() {
			rounds, ok := perRound[id]
			if !ok {
				continue
			}
			rounds[set.RoundNumber] += policy.RankingPoints.Award(set.Result, set.TeamOf(id))
		}
	}
	creditWildcards(perRound, seats, policy, referenceRound)

	totals := make(map[uuid.UUID]float64, len(perRound))
	for id, rounds := range perRound {
		for _, pts := range rounds {
			totals[id] += pts
		}
	}

	base := make([]Standing, 0, len(roster))
	seen := make(map[uuid.UUID]bool, len(roster))
	for _, id := range roster {
		if seen[id] {
			continue
		}
		seen[id] = true
		s := Standing{PlayerID: id, TotalPoints: totals[id], RoundsPlayed: len(perRound[id])}
		if s.RoundsPlayed > 0 {
			s.AveragePoints = s.TotalPoints / float64(s.RoundsPlayed)
		}
		base = append(base, s)
	}

	official := slices.Clone(base)
	slices.SortFunc(official, func(a, b Standing) int {
		return cmp.Or(
			-comparePoints(a.AveragePoints, b.AveragePoints),
			-comparePoints(a.TotalPoints, b.TotalPoints),
			compareIDs(a.PlayerID, b.PlayerID),
		)
	})
	ironman := slices.Clone(base)
	slices.SortFunc(ironman, func(a, b Standing) int {
		return cmp.Or(
			-comparePoints(a.TotalPoints, b.TotalPoints),
			-comparePoints(a.AveragePoints, b.AveragePoints),
			compareIDs(a.PlayerID, b.PlayerID),
		)
	})
	for i := range official {
		official[i].Position = i + 1
		ironman[i].Position = i + 1
	}

	return Rankings{
		ReferenceRound: referenceRound,
		HasRankings:    counted,
		Official:       official,
		Ironman:        ironman,
	}
}

type seatGroup struct {
	round int
	group uuid.UUID
}

func creditWildcards(perRound map[uuid.UUID]map[int]float64, seats []RankingSeat, policy TournamentPolicy, referenceRound int) {
	groups := make(map[seatGroup][]RankingSeat)
	wildcardRounds := make(map[uuid.UUID]map[int]bool)
	for _, seat := range seats {
		if seat.RoundNumber > referenceRound {
			continue
		}
		key := seatGroup{round: seat.RoundNumber, group: seat.GroupID}
		groups[key] = append(groups[key], seat)
		if seat.Wildcard != nil {
			if wildcardRounds[seat.PlayerID] == nil {
				wildcardRounds[seat.PlayerID] = map[int]bool{}
			}
			wildcardRounds[seat.PlayerID][seat.RoundNumber] = true
		}
	}
	if len(wildcardRounds) == 0 {
		return
	}

	raw := make(map[uuid.UUID]map[int]float64, len(perRound))
	for id, rounds := range perRound {
		raw[id] = maps.Clone(rounds)
	}

	for key, members := range groups {
		played := false
		var sum float64
		var n int
		for _, seat := range members {
			pts, ok := raw[seat.PlayerID][key.round]
			played = played || ok
			if seat.Wildcard == nil {
				sum += pts
				n++
			}
		}
		if !played {
			continue
		}
		intraMean := 0.0
		if n > 0 {
			intraMean = sum / float64(n)
		}
		for _, seat := range members {
			rounds, ok := perRound[seat.PlayerID]
			if seat.Wildcard == nil || !ok {
				continue
			}
			switch seat.Wildcard.Mode {
			case WildcardSubstitute:
				rounds[key.round] = policy.Wildcard.SubstituteCreditFactor * raw[seat.PlayerID][key.round]
			default:
				history := ownHistory(raw[seat.PlayerID], wildcardRounds[seat.PlayerID], key.round)
				rounds[key.round] = MeanCredit(key.round, history, intraMean)
			}
		}
	}
}

// ownHistory lists a player's points in earlier rounds played without a wildcard, oldest first.
func ownHistory(rounds map[int]float64, wildcard map[int]bool, before int) []float64 {
	numbers := make([]int, 0, len(rounds))
	for n := range rounds {
		if n < before && !wildcard[n] {
			numbers = append(numbers, n)
		}
	}
	slices.Sort(numbers)
	out := make([]float64, len(numbers))
	for i, n := range numbers {
		out[i] = rounds[n]
	}
	return out
}

// SeededOrder lists players best-first by an official ranking, appending unranked players by id.
func SeededOrder(official []Standing, players []uuid.UUID) []uuid.UUID {
	want := make(map[uuid.UUID]bool, len(players))
	for _, id := range players {
		want[id] = true
	}
	out := make([]uuid.UUID, 0, len(players))
	placed := make(map[uuid.UUID]bool, len(players))
	byPos := slices.Clone(official)
	slices.SortFunc(byPos, func(a, b Standing) int { return cmp.Compare(a.Position, b.Position) })
	for _, s := range byPos {
		if want[s.PlayerID] && !placed[s.PlayerID] {
			out = append(out, s.PlayerID)
			placed[s.PlayerID] = true
		}
	}
	rest := make([]uuid.UUID, 0, len(players)-len(out))
	for _, id := range players {
		if !placed[id] {
			rest = append(rest, id)
		}
	}
	slices.SortFunc(rest, compareIDs)
	return append(out, rest...)
}
