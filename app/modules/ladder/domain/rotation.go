package ladderdomain

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateRotation returns the three sets a group of four plays, given players ordered by position.
//
//	set 1: p1+p4 vs p2+p3
//	set 2: p1+p3 vs p2+p4
//	set 3: p1+p2 vs p3+p4
func GenerateRotation(byPosition []uuid.UUID) ([]Pairing, error) {
	if len(byPosition) != DefaultGroupSize {
		return nil, NewValidationError("groupSize", CodeInvalidGroupSize,
			fmt.Sprintf("rotation needs exactly %d players, group has %d", DefaultGroupSize, len(byPosition)))
	}
	p := byPosition
	return []Pairing{
		{SetNumber: 1, Team1: [2]uuid.UUID{p[0], p[3]}, Team2: [2]uuid.UUID{p[1], p[2]}},
		{SetNumber: 2, Team1: [2]uuid.UUID{p[0], p[2]}, Team2: [2]uuid.UUID{p[1], p[3]}},
		{SetNumber: 3, Team1: [2]uuid.UUID{p[0], p[1]}, Team2: [2]uuid.UUID{p[2], p[3]}},
	}, nil
}
