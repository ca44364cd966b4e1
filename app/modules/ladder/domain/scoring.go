package ladderdomain

import (
	"github.com/google/uuid"
)

// meanHistoryFromRound is the first round in which mean-mode credit uses the player's own history.
const meanHistoryFromRound = 3

// WildcardUse is a wildcard applied to a seat.
type WildcardUse struct {
	Mode         WildcardMode
	SubstituteID uuid.UUID
}

// SeatInput is one seat of a group being closed.
type SeatInput struct {
	PlayerID uuid.UUID
	Wildcard *WildcardUse
	// History holds the player's points in earlier closed rounds played without a wildcard.
	History []float64
}

// GroupInput is everything needed to score one played group.
type GroupInput struct {
	Level int
	Seats []SeatInput
	Sets  []PlayedSet
}

// SeatOutcome is the computed result of a seat after closing.
type SeatOutcome struct {
	PlayerID uuid.UUID
	Position int
	Points   float64
	Movement int
	Wildcard bool
	Stats    PlayerStats
}

// ScoreGroup ranks a played group and computes positions, credited points and movement.
// Outcomes are returned best-first.
func ScoreGroup(in GroupInput, roundNumber, levels int, policy TournamentPolicy) []SeatOutcome {
	ids := make([]uuid.UUID, len(in.Seats))
	for i, s := range in.Seats {
		ids[i] = s.PlayerID
	}
	stats := AccumulateGroup(ids, in.Sets, policy.ClosePoints)

	var sum float64
	var played int
	for _, s := range in.Seats {
		if s.Wildcard == nil {
			sum += stats[s.PlayerID].Points
			played++
		}
	}
	intraMean := 0.0
	if played > 0 {
		intraMean = sum / float64(played)
	}

	wildcards := make(map[uuid.UUID]bool)
	for _, s := range in.Seats {
		if s.Wildcard == nil {
			continue
		}
		wildcards[s.PlayerID] = true
		st := stats[s.PlayerID]
		switch s.Wildcard.Mode {
		case WildcardSubstitute:
			st.Points = policy.Wildcard.SubstituteCreditFactor * st.Points
		default:
			st.Points = MeanCredit(roundNumber, s.History, intraMean)
		}
	}

	list := make([]PlayerStats, 0, len(ids))
	for _, id := range ids {
		list = append(list, *stats[id])
	}
	ranked := RankGroup(list)

	out := make([]SeatOutcome, len(ranked))
	for i, st := range ranked {
		out[i] = SeatOutcome{
			PlayerID: st.PlayerID,
			Position: i + 1,
			Points:   st.Points,
			Movement: Movement(i+1, in.Level, levels),
			Wildcard: wildcards[st.PlayerID],
			Stats:    st,
		}
	}
	return out
}

// MeanCredit is the mean-mode wildcard score: the groupmates' mean in the first rounds,
// later the player's own historical average when there is one.
func MeanCredit(roundNumber int, history []float64, intraMean float64) float64 {
	if roundNumber < meanHistoryFromRound || len(history) == 0 {
		return intraMean
	}
	var sum float64
	for _, p := range history {
		sum += p
	}
	return sum / float64(len(history))
}
