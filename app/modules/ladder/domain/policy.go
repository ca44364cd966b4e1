package ladderdomain

import "fmt"

// DefaultGroupSize is the canonical ladder group size; the rotation is only defined for it.
const DefaultGroupSize = 4

// ContinuityMode selects how a continuity bonus is computed.
type ContinuityMode string

const (
	ContinuitySets    ContinuityMode = "SETS"
	ContinuityMatches ContinuityMode = "MATCHES"
	ContinuityBoth    ContinuityMode = "BOTH"
)

// PointsFormula names a per-set point accrual scheme.
type PointsFormula string

const (
	// FormulaSetResult awards 3 points for a won set and 1 for a lost one.
	FormulaSetResult PointsFormula = "SET_RESULT"
	// FormulaGamesPlusWin awards the normalized game count plus 1 if the set was won.
	FormulaGamesPlusWin PointsFormula = "GAMES_PLUS_WIN"
)

func ParsePointsFormula(s string) (PointsFormula, error) {
	switch PointsFormula(s) {
	case FormulaSetResult, FormulaGamesPlusWin:
		return PointsFormula(s), nil
	case "":
		return "", fmt.Errorf("empty points formula")
	}
	return "", fmt.Errorf("unknown points formula %q", s)
}

// WildcardPolicy bounds wildcard usage in a tournament.
type WildcardPolicy struct {
	MaxPerPlayer             int
	MeanEnabled              bool
	SubstituteEnabled        bool
	SubstituteCreditFactor   float64
	SubstituteMaxAppearances int
}

// ContinuityPolicy configures the participation streak bonus.
type ContinuityPolicy struct {
	Enabled        bool
	PointsPerSet   float64
	PointsPerRound float64
	MinRounds      int
	MaxBonus       float64
	Mode           ContinuityMode
}

// TournamentPolicy is everything the engine needs to know about a tournament's rules.
type TournamentPolicy struct {
	GroupSize     int
	ClosePoints   PointsFormula
	RankingPoints PointsFormula
	Wildcard      WildcardPolicy
	Continuity    ContinuityPolicy
}

// DefaultPolicy mirrors the column defaults of the tournaments table.
func DefaultPolicy() TournamentPolicy {
	return TournamentPolicy{
		GroupSize:     DefaultGroupSize,
		ClosePoints:   FormulaSetResult,
		RankingPoints: FormulaGamesPlusWin,
		Wildcard: WildcardPolicy{
			MaxPerPlayer:             1,
			MeanEnabled:              true,
			SubstituteEnabled:        true,
			SubstituteCreditFactor:   0.5,
			SubstituteMaxAppearances: 2,
		},
		Continuity: ContinuityPolicy{
			Enabled:        true,
			PointsPerSet:   0.5,
			PointsPerRound: 1,
			MinRounds:      2,
			MaxBonus:       3,
			Mode:           ContinuityMatches,
		},
	}
}
