package ladderdomain

import (
	"fmt"

	"github.com/google/uuid"
)

// pid returns a stable id whose string order follows n.
func pid(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

func pids(from, to int) []uuid.UUID {
	out := make([]uuid.UUID, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, pid(i))
	}
	return out
}

func played(round int, p Pairing, t1, t2 int, tiebreak string) PlayedSet {
	res, err := ResolveSet(SetScore{Team1Games: t1, Team2Games: t2, Tiebreak: tiebreak})
	if err != nil {
		panic(err)
	}
	return PlayedSet{Pairing: p, RoundNumber: round, Result: res}
}
