package ladderdomain

import (
	"strconv"
	"strings"
)

const (
	minGames = 0
	maxGames = 7
	// tiebreakThreshold is the game count both teams must reach for a tiebreak marker to apply.
	tiebreakThreshold = 4
)

// SetScore is a raw reported score.
type SetScore struct {
	Team1Games int
	Team2Games int
	Tiebreak   string
}

// Resolution is a normalized set result.
type Resolution struct {
	Team1Games int
	Team2Games int
	Winner     Team
}

// Decided reports whether the set has a winner.
func (r Resolution) Decided() bool {
	return r.Winner != TeamNone
}

// GamesFor returns the normalized games of a team.
func (r Resolution) GamesFor(t Team) int {
	if t == Team1 {
		return r.Team1Games
	}
	return r.Team2Games
}

// GamesAgainst returns the normalized games conceded by a team.
func (r Resolution) GamesAgainst(t Team) int {
	if t == Team1 {
		return r.Team2Games
	}
	return r.Team1Games
}

// ResolveSet validates a raw score and resolves its winner.
// A tie without a usable tiebreak marker yields an undecided Resolution, not an error.
func ResolveSet(s SetScore) (Resolution, error) {
	if s.Team1Games < minGames || s.Team1Games > maxGames {
		return Resolution{}, NewValidationError("team1Games", CodeScoreOutOfRange, "games must be between 0 and 7")
	}
	if s.Team2Games < minGames || s.Team2Games > maxGames {
		return Resolution{}, NewValidationError("team2Games", CodeScoreOutOfRange, "games must be between 0 and 7")
	}

	var tb *[2]int
	if strings.TrimSpace(s.Tiebreak) != "" {
		parsed, err := parseTiebreak(s.Tiebreak)
		if err != nil {
			return Resolution{}, err
		}
		tb = &parsed
	}

	res := Resolution{Team1Games: s.Team1Games, Team2Games: s.Team2Games}
	switch {
	case s.Team1Games > s.Team2Games:
		res.Winner = Team1
	case s.Team2Games > s.Team1Games:
		res.Winner = Team2
	case s.Team1Games >= tiebreakThreshold && tb != nil:
		if tb[0] > tb[1] {
			res.Team1Games = s.Team2Games + 1
			res.Winner = Team1
		} else {
			res.Team2Games = s.Team1Games + 1
			res.Winner = Team2
		}
	}
	return res, nil
}

// MustDecide resolves a set and rejects undecided ties.
func MustDecide(s SetScore) (Resolution, error) {
	res, err := ResolveSet(s)
	if err != nil {
		return Resolution{}, err
	}
	if !res.Decided() {
		return Resolution{}, NewValidationError("tiebreak", CodeUnresolvedTie, "tied set needs a tiebreak score")
	}
	return res, nil
}

func parseTiebreak(marker string) ([2]int, error) {
	bad := NewValidationError("tiebreak", CodeInvalidTiebreak, "tiebreak must look like \"7-5\"")
	parts := strings.Split(strings.TrimSpace(marker), "-")
	if len(parts) != 2 {
		return [2]int{}, bad
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a < 0 || b < 0 || a == b {
		return [2]int{}, bad
	}
	return [2]int{a, b}, nil
}

// Award returns the points a team earns from a resolved set under the formula.
func (f PointsFormula) Award(res Resolution, team Team) float64 {
	if !res.Decided() || team == TeamNone {
		return 0
	}
	won := res.Winner == team
	switch f {
	case FormulaGamesPlusWin:
		pts := float64(res.GamesFor(team))
		if won {
			pts++
		}
		return pts
	default:
		if won {
			return 3
		}
		return 1
	}
}
