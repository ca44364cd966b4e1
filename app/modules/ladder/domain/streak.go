package ladderdomain

// StreakLength counts the current round plus every consecutive earlier round the player took part in.
// participated maps round number to whether the player played it (seat, no wildcard, group not skipped).
func StreakLength(current int, participated map[int]bool) int {
	streak := 1
	for r := current - 1; r >= 1 && participated[r]; r-- {
		streak++
	}
	return streak
}

// ContinuityBonus returns the bonus a streak earns for one round.
func ContinuityBonus(streak int, p ContinuityPolicy) float64 {
	if !p.Enabled || streak <= 0 || streak < p.MinRounds {
		return 0
	}
	var bonus float64
	switch p.Mode {
	case ContinuitySets:
		bonus = p.PointsPerSet * 3
	case ContinuityMatches:
		bonus = p.PointsPerRound
	case ContinuityBoth:
		bonus = p.PointsPerSet*3 + p.PointsPerRound
	}
	if p.MaxBonus > 0 && bonus > p.MaxBonus {
		bonus = p.MaxBonus
	}
	return bonus
}
