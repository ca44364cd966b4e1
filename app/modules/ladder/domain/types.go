package ladderdomain

import (
	"time"

	"github.com/google/uuid"
)

// GroupStatus is the lifecycle state of a group inside a round.
type GroupStatus string

const (
	GroupPending   GroupStatus = "PENDING"
	GroupPlayed    GroupStatus = "PLAYED"
	GroupSkipped   GroupStatus = "SKIPPED"
	GroupPostponed GroupStatus = "POSTPONED"
)

// ScheduleStatus tracks agreement on when a match is played.
type ScheduleStatus string

const (
	SchedulePending      ScheduleStatus = "PENDING"
	ScheduleDateProposed ScheduleStatus = "DATE_PROPOSED"
	ScheduleScheduled    ScheduleStatus = "SCHEDULED"
	ScheduleCompleted    ScheduleStatus = "COMPLETED"
)

// WildcardMode selects how a wildcard user's score is credited.
type WildcardMode string

const (
	WildcardMean       WildcardMode = "MEAN"
	WildcardSubstitute WildcardMode = "SUBSTITUTE"
)

func ParseWildcardMode(s string) (WildcardMode, error) {
	switch WildcardMode(s) {
	case WildcardMean, WildcardSubstitute:
		return WildcardMode(s), nil
	}
	return "", NewValidationError("mode", CodeInvalidMode, "mode must be MEAN or SUBSTITUTE")
}

// StreakEventKind labels a continuity ledger entry.
type StreakEventKind string

const (
	StreakBonus  StreakEventKind = "BONUS"
	StreakBroken StreakEventKind = "BROKEN"
)

// Actor is the caller identity supplied by the identity provider.
type Actor struct {
	PlayerID uuid.UUID
	IsAdmin  bool
}

// Team is 1 or 2; TeamNone marks an undecided set.
type Team int

const (
	TeamNone Team = 0
	Team1    Team = 1
	Team2    Team = 2
)

// Pairing is one set of a rotation: two teams of two player ids.
type Pairing struct {
	SetNumber int
	Team1     [2]uuid.UUID
	Team2     [2]uuid.UUID
}

// Has reports whether the player is on either team.
func (p Pairing) Has(playerID uuid.UUID) bool {
	return p.TeamOf(playerID) != TeamNone
}

// TeamOf returns which team the player is on.
func (p Pairing) TeamOf(playerID uuid.UUID) Team {
	switch playerID {
	case p.Team1[0], p.Team1[1]:
		return Team1
	case p.Team2[0], p.Team2[1]:
		return Team2
	}
	return TeamNone
}

// Players returns the four participants, team 1 first.
func (p Pairing) Players() []uuid.UUID {
	return []uuid.UUID{p.Team1[0], p.Team1[1], p.Team2[0], p.Team2[1]}
}

// PlayedSet is a confirmed set with its resolved score.
type PlayedSet struct {
	Pairing
	RoundNumber int
	Result      Resolution
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
