package ladderdomain

// TargetLevel is where a player ranked `rank` in a group at `level` plays next round.
// Level 1 is the top group, levels is the number of groups in the round.
func TargetLevel(rank, level, levels int) int {
	switch rank {
	case 1:
		return max(1, level-2)
	case 2:
		return max(1, level-1)
	case 3:
		return min(levels, level+1)
	case 4:
		return min(levels, level+2)
	}
	return level
}

// Movement is the signed level delta for next round; negative means promotion.
func Movement(rank, level, levels int) int {
	return TargetLevel(rank, level, levels) - level
}
