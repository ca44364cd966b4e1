package ladderservice

import (
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/google/uuid"
)

// SeatView is a player's seat in a group.
type SeatView struct {
	ID                 uuid.UUID  `json:"id"`
	GroupID            uuid.UUID  `json:"groupId"`
	PlayerID           uuid.UUID  `json:"playerId"`
	Position           int        `json:"position"`
	Points             float64    `json:"points"`
	ContinuityBonus    float64    `json:"continuityBonus"`
	Streak             int        `json:"streak"`
	Movement           int        `json:"movement"`
	Locked             bool       `json:"locked"`
	UsedComodin        bool       `json:"usedComodin"`
	ComodinMode        string     `json:"comodinMode,omitempty"`
	ComodinReason      string     `json:"comodinReason,omitempty"`
	ComodinAt          *time.Time `json:"comodinAt,omitempty"`
	SubstitutePlayerID *uuid.UUID `json:"substitutePlayerId,omitempty"`
}

// MatchView is a set with its result and scheduling state.
type MatchView struct {
	ID             uuid.UUID    `json:"id"`
	GroupID        uuid.UUID    `json:"groupId"`
	SetNumber      int          `json:"setNumber"`
	Team1          [2]uuid.UUID `json:"team1"`
	Team2          [2]uuid.UUID `json:"team2"`
	Team1Games     *int         `json:"team1Games,omitempty"`
	Team2Games     *int         `json:"team2Games,omitempty"`
	Tiebreak       string       `json:"tiebreak,omitempty"`
	Winner         int          `json:"winner,omitempty"`
	Confirmed      bool         `json:"confirmed"`
	ReportedBy     *uuid.UUID   `json:"reportedBy,omitempty"`
	ConfirmedBy    *uuid.UUID   `json:"confirmedBy,omitempty"`
	ScheduleStatus string       `json:"scheduleStatus"`
	ProposedBy     *uuid.UUID   `json:"proposedBy,omitempty"`
	ProposedFor    *time.Time   `json:"proposedFor,omitempty"`
	AcceptedBy     []uuid.UUID  `json:"acceptedBy,omitempty"`
	ScheduledAt    *time.Time   `json:"scheduledAt,omitempty"`
}

// GroupView is a group with its seats and sets.
type GroupView struct {
	ID         uuid.UUID   `json:"id"`
	RoundID    uuid.UUID   `json:"roundId"`
	Number     int         `json:"number"`
	Level      int         `json:"level"`
	Status     string      `json:"status"`
	SkipReason string      `json:"skipReason,omitempty"`
	Seats      []SeatView  `json:"seats"`
	Matches    []MatchView `json:"matches,omitempty"`
}

// RoundGroups is the outcome of a group generation.
type RoundGroups struct {
	RoundID  uuid.UUID   `json:"roundId"`
	Strategy string      `json:"strategy"`
	Groups   []GroupView `json:"groups"`
}

// CloseSummary is the outcome of a round closing.
type CloseSummary struct {
	RoundID        uuid.UUID   `json:"roundId"`
	RoundNumber    int         `json:"roundNumber"`
	ClosedAt       time.Time   `json:"closedAt"`
	ProcessingHash string      `json:"processingHash"`
	Groups         []GroupView `json:"groups"`
}

// ReopenSummary is the outcome of a reopen.
type ReopenSummary struct {
	RoundID    uuid.UUID `json:"roundId"`
	ReopenedAt time.Time `json:"reopenedAt"`
}

// MovementView is where a player goes next round.
type MovementView struct {
	PlayerID    uuid.UUID `json:"playerId"`
	GroupID     uuid.UUID `json:"groupId"`
	Level       int       `json:"level"`
	Position    int       `json:"position"`
	Movement    int       `json:"movement"`
	TargetLevel int       `json:"targetLevel"`
}

// PlayerRound is one closed round of a player's history.
type PlayerRound struct {
	RoundNumber     int     `json:"roundNumber"`
	GroupLevel      int     `json:"groupLevel"`
	GroupStatus     string  `json:"groupStatus"`
	Position        int     `json:"position"`
	Points          float64 `json:"points"`
	ContinuityBonus float64 `json:"continuityBonus"`
	Streak          int     `json:"streak"`
	Movement        int     `json:"movement"`
	UsedComodin     bool    `json:"usedComodin"`
}

// PlayerHistory lists a player's closed rounds in order.
type PlayerHistory struct {
	TournamentID uuid.UUID     `json:"tournamentId"`
	PlayerID     uuid.UUID     `json:"playerId"`
	Rounds       []PlayerRound `json:"rounds"`
}

// StreakEvent is one continuity ledger entry.
type StreakEvent struct {
	RoundID     uuid.UUID `json:"roundId"`
	Kind        string    `json:"kind"`
	Streak      int       `json:"streak"`
	BonusPoints float64   `json:"bonusPoints"`
	At          time.Time `json:"at"`
}

// StreakStats summarises a player's continuity.
type StreakStats struct {
	TournamentID uuid.UUID     `json:"tournamentId"`
	PlayerID     uuid.UUID     `json:"playerId"`
	Current      int           `json:"current"`
	Best         int           `json:"best"`
	TotalBonus   float64       `json:"totalBonus"`
	Events       []StreakEvent `json:"events"`
}

func seatView(s ladderdb.GroupPlayer) SeatView {
	v := SeatView{
		ID:                 s.ID,
		GroupID:            s.GroupID,
		PlayerID:           s.PlayerID,
		Position:           s.Position,
		Points:             s.Points,
		ContinuityBonus:    s.ContinuityBonus,
		Streak:             s.Streak,
		Movement:           s.Movement,
		Locked:             s.Locked,
		UsedComodin:        s.UsedComodin,
		ComodinAt:          s.ComodinAt,
		SubstitutePlayerID: s.SubstitutePlayerID,
	}
	if s.ComodinMode != nil {
		v.ComodinMode = *s.ComodinMode
	}
	if s.ComodinReason != nil {
		v.ComodinReason = *s.ComodinReason
	}
	return v
}

func seatViews(seats []ladderdb.GroupPlayer) []SeatView {
	out := make([]SeatView, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatView(s))
	}
	return out
}

func matchView(m ladderdb.Match) MatchView {
	v := MatchView{
		ID:             m.ID,
		GroupID:        m.GroupID,
		SetNumber:      m.SetNumber,
		Team1:          [2]uuid.UUID{m.Team1Player1, m.Team1Player2},
		Team2:          [2]uuid.UUID{m.Team2Player1, m.Team2Player2},
		Team1Games:     m.Team1Games,
		Team2Games:     m.Team2Games,
		Confirmed:      m.Confirmed,
		ReportedBy:     m.ReportedBy,
		ConfirmedBy:    m.ConfirmedBy,
		ScheduleStatus: m.ScheduleStatus,
		ProposedBy:     m.ProposedBy,
		ProposedFor:    m.ProposedFor,
		AcceptedBy:     acceptedIDs(m.AcceptedBy),
		ScheduledAt:    m.ScheduledAt,
	}
	if m.Tiebreak != nil {
		v.Tiebreak = *m.Tiebreak
	}
	if m.Winner != nil {
		v.Winner = *m.Winner
	}
	return v
}

func matchViews(matches []ladderdb.Match) []MatchView {
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchView(m))
	}
	return out
}

func groupView(g ladderdb.Group, seats []ladderdb.GroupPlayer, matches []ladderdb.Match) GroupView {
	v := GroupView{
		ID:      g.ID,
		RoundID: g.RoundID,
		Number:  g.Number,
		Level:   g.Level,
		Status:  g.Status,
		Seats:   seatViews(seats),
	}
	if len(matches) > 0 {
		v.Matches = matchViews(matches)
	}
	if g.SkipReason != nil {
		v.SkipReason = *g.SkipReason
	}
	return v
}

func pairingOf(m ladderdb.Match) ladderdomain.Pairing {
	return ladderdomain.Pairing{
		SetNumber: m.SetNumber,
		Team1:     [2]uuid.UUID{m.Team1Player1, m.Team1Player2},
		Team2:     [2]uuid.UUID{m.Team2Player1, m.Team2Player2},
	}
}

// scoreOf returns the reported raw score; ok is false while nothing was reported.
func scoreOf(m ladderdb.Match) (ladderdomain.SetScore, bool) {
	if m.Team1Games == nil || m.Team2Games == nil {
		return ladderdomain.SetScore{}, false
	}
	s := ladderdomain.SetScore{Team1Games: *m.Team1Games, Team2Games: *m.Team2Games}
	if m.Tiebreak != nil {
		s.Tiebreak = *m.Tiebreak
	}
	return s, true
}

func acceptedIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
