package ladderdomain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ClosingInput is one fact a round closing depends on: a match score, a group status, a wildcard
// or what earlier closed rounds recorded for a seated player.
type ClosingInput struct {
	Kind  string
	Key   uuid.UUID
	Value string
}

// MatchInput describes a confirmed set for hashing.
func MatchInput(matchID uuid.UUID, s SetScore) ClosingInput {
	return ClosingInput{Kind: "match", Key: matchID, Value: fmt.Sprintf("%d-%d|%s", s.Team1Games, s.Team2Games, s.Tiebreak)}
}

// GroupStatusInput describes a group status for hashing.
func GroupStatusInput(groupID uuid.UUID, status GroupStatus) ClosingInput {
	return ClosingInput{Kind: "group", Key: groupID, Value: string(status)}
}

// WildcardInput describes a wildcard for hashing.
func WildcardInput(playerID uuid.UUID, w WildcardUse) ClosingInput {
	return ClosingInput{Kind: "wildcard", Key: playerID, Value: string(w.Mode) + "|" + w.SubstituteID.String()}
}

// HistoryInput describes what earlier closed rounds contribute to a seated player's closing:
// the rounds that count for the streak, the points a mean wildcard averages and the last streak.
func HistoryInput(playerID uuid.UUID, rounds []int, points []float64, lastStreak int) ClosingInput {
	var sb strings.Builder
	for _, r := range slices.Sorted(slices.Values(rounds)) {
		fmt.Fprintf(&sb, "%d,", r)
	}
	sb.WriteString("|")
	for _, pts := range points {
		fmt.Fprintf(&sb, "%g,", pts)
	}
	fmt.Fprintf(&sb, "|%d", lastStreak)
	return ClosingInput{Kind: "history", Key: playerID, Value: sb.String()}
}

// ComputeProcessingHash produces a deterministic digest of the facts a closing was computed from.
// Reclosing a reopened round with an identical hash yields identical results, as long as the
// inputs include a HistoryInput for every seated player.
func ComputeProcessingHash(inputs []ClosingInput) string {
	sorted := slices.Clone(inputs)
	slices.SortFunc(sorted, func(a, b ClosingInput) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			compareIDs(a.Key, b.Key),
			cmp.Compare(a.Value, b.Value),
		)
	})

	var sb strings.Builder
	for _, in := range sorted {
		fmt.Fprintf(&sb, "%s:%s=%s;", in.Kind, in.Key, in.Value)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
