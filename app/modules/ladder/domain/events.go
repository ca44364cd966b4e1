package ladderdomain

import (
	"time"

	"github.com/google/uuid"
)

// Notification subjects published after commit.
const (
	SubjectMatchDateProposed = "ladder.match.date_proposed"
	SubjectMatchScheduled    = "ladder.match.scheduled"
	SubjectRoundClosed       = "ladder.round.closed"
)

// ScheduleNotice announces a proposed or agreed match date to the match players.
type ScheduleNotice struct {
	MatchID     uuid.UUID   `json:"match_id"`
	GroupID     uuid.UUID   `json:"group_id"`
	RoundID     uuid.UUID   `json:"round_id"`
	ProposedBy  uuid.UUID   `json:"proposed_by"`
	ProposedFor time.Time   `json:"proposed_for"`
	Recipients  []uuid.UUID `json:"recipients"`
	Scheduled   bool        `json:"scheduled"`
}

// Subject returns the topic the notice is published on.
func (n ScheduleNotice) Subject() string {
	if n.Scheduled {
		return SubjectMatchScheduled
	}
	return SubjectMatchDateProposed
}

// RoundClosedNotice announces a closed round.
type RoundClosedNotice struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	RoundID      uuid.UUID `json:"round_id"`
	RoundNumber  int       `json:"round_number"`
	ClosedAt     time.Time `json:"closed_at"`
}
