package ladderdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tournament is a ladder tournament with its rule set.
type Tournament struct {
	bun.BaseModel `bun:"table:ladder_tournaments,alias:t"`

	ID                uuid.UUID `bun:"id,pk,type:uuid"`
	Name              string    `bun:"name,notnull"`
	TotalRounds       int       `bun:"total_rounds,notnull"`
	RoundDurationDays int       `bun:"round_duration_days,notnull,default:14"`
	IsActive          bool      `bun:"is_active,notnull,default:false"`
	GroupSize         int       `bun:"group_size,notnull,default:4"`

	ClosePointsFormula   string `bun:"close_points_formula,notnull,default:'SET_RESULT'"`
	RankingPointsFormula string `bun:"ranking_points_formula,notnull,default:'GAMES_PLUS_WIN'"`

	MaxComodinesPerPlayer    int     `bun:"max_comodines_per_player,notnull,default:1"`
	MeanComodinEnabled       bool    `bun:"mean_comodin_enabled,notnull,default:true"`
	SubstituteComodinEnabled bool    `bun:"substitute_comodin_enabled,notnull,default:true"`
	SubstituteCreditFactor   float64 `bun:"substitute_credit_factor,notnull,default:0.5"`
	SubstituteMaxAppearances int     `bun:"substitute_max_appearances,notnull,default:2"`

	ContinuityEnabled        bool    `bun:"continuity_enabled,notnull,default:true"`
	ContinuityPointsPerSet   float64 `bun:"continuity_points_per_set,notnull,default:0.5"`
	ContinuityPointsPerRound float64 `bun:"continuity_points_per_round,notnull,default:1"`
	ContinuityMinRounds      int     `bun:"continuity_min_rounds,notnull,default:2"`
	ContinuityMaxBonus       float64 `bun:"continuity_max_bonus,notnull,default:3"`
	ContinuityMode           string  `bun:"continuity_mode,notnull,default:'MATCHES'"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Player is the minimal player record the ladder needs; profile data lives elsewhere.
type Player struct {
	bun.BaseModel `bun:"table:ladder_players,alias:p"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	DisplayName string    `bun:"display_name,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// TournamentPlayer is a player's enrolment with the wildcard counters.
type TournamentPlayer struct {
	bun.BaseModel `bun:"table:ladder_tournament_players,alias:tp"`

	TournamentID          uuid.UUID `bun:"tournament_id,pk,type:uuid"`
	PlayerID              uuid.UUID `bun:"player_id,pk,type:uuid"`
	JoinedRound           int       `bun:"joined_round,notnull,default:1"`
	ComodinesUsed         int       `bun:"comodines_used,notnull,default:0"`
	SubstituteAppearances int       `bun:"substitute_appearances,notnull,default:0"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Round is one ladder round.
type Round struct {
	bun.BaseModel `bun:"table:ladder_rounds,alias:r"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid"`
	TournamentID uuid.UUID  `bun:"tournament_id,notnull,type:uuid"`
	Number       int        `bun:"number,notnull"`
	StartsAt     time.Time  `bun:"starts_at,notnull"`
	EndsAt       time.Time  `bun:"ends_at,notnull"`
	IsClosed     bool       `bun:"is_closed,notnull,default:false"`
	ClosedAt     *time.Time `bun:"closed_at"`
}

// Group is a cohort of players inside a round.
type Group struct {
	bun.BaseModel `bun:"table:ladder_groups,alias:g"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	RoundID    uuid.UUID `bun:"round_id,notnull,type:uuid"`
	Number     int       `bun:"number,notnull"`
	Level      int       `bun:"level,notnull"`
	Status     string    `bun:"status,notnull,default:'PENDING'"`
	SkipReason *string   `bun:"skip_reason"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// GroupPlayer is a seat in a group.
type GroupPlayer struct {
	bun.BaseModel `bun:"table:ladder_group_players,alias:gp"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid"`
	GroupID            uuid.UUID  `bun:"group_id,notnull,type:uuid"`
	PlayerID           uuid.UUID  `bun:"player_id,notnull,type:uuid"`
	Position           int        `bun:"position,notnull"`
	Points             float64    `bun:"points,notnull,default:0"`
	ContinuityBonus    float64    `bun:"continuity_bonus,notnull,default:0"`
	Streak             int        `bun:"streak,notnull,default:0"`
	Movement           int        `bun:"movement,notnull,default:0"`
	UsedComodin        bool       `bun:"used_comodin,notnull,default:false"`
	ComodinMode        *string    `bun:"comodin_mode"`
	ComodinReason      *string    `bun:"comodin_reason"`
	ComodinAt          *time.Time `bun:"comodin_at"`
	SubstitutePlayerID *uuid.UUID `bun:"substitute_player_id,type:uuid"`
	Locked             bool       `bun:"locked,notnull,default:false"`
}

// Match is one set played inside a group.
type Match struct {
	bun.BaseModel `bun:"table:ladder_matches,alias:m"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	GroupID      uuid.UUID `bun:"group_id,notnull,type:uuid"`
	SetNumber    int       `bun:"set_number,notnull"`
	Team1Player1 uuid.UUID `bun:"team1_player1,notnull,type:uuid"`
	Team1Player2 uuid.UUID `bun:"team1_player2,notnull,type:uuid"`
	Team2Player1 uuid.UUID `bun:"team2_player1,notnull,type:uuid"`
	Team2Player2 uuid.UUID `bun:"team2_player2,notnull,type:uuid"`

	Team1Games  *int       `bun:"team1_games"`
	Team2Games  *int       `bun:"team2_games"`
	Tiebreak    *string    `bun:"tiebreak"`
	Winner      *int       `bun:"winner"`
	Confirmed   bool       `bun:"confirmed,notnull,default:false"`
	ReportedBy  *uuid.UUID `bun:"reported_by,type:uuid"`
	ReportedAt  *time.Time `bun:"reported_at"`
	ConfirmedBy *uuid.UUID `bun:"confirmed_by,type:uuid"`
	ConfirmedAt *time.Time `bun:"confirmed_at"`

	ScheduleStatus string     `bun:"schedule_status,notnull,default:'PENDING'"`
	ProposedBy     *uuid.UUID `bun:"proposed_by,type:uuid"`
	ProposedFor    *time.Time `bun:"proposed_for"`
	AcceptedBy     []string   `bun:"accepted_by,type:text[],array"`
	ScheduledAt    *time.Time `bun:"scheduled_at"`
}

// RoundMatch is a match joined with the round it belongs to.
type RoundMatch struct {
	Match
	RoundNumber int `bun:"round_number"`
}

// StreakEntry is an append-only continuity ledger row.
type StreakEntry struct {
	bun.BaseModel `bun:"table:ladder_streak_history,alias:sh"`

	ID           int64     `bun:"id,pk,autoincrement"`
	TournamentID uuid.UUID `bun:"tournament_id,notnull,type:uuid"`
	PlayerID     uuid.UUID `bun:"player_id,notnull,type:uuid"`
	RoundID      uuid.UUID `bun:"round_id,notnull,type:uuid"`
	GroupID      uuid.UUID `bun:"group_id,notnull,type:uuid"`
	ClosingID    uuid.UUID `bun:"closing_id,notnull,type:uuid"`
	Kind         string    `bun:"kind,notnull"`
	Streak       int       `bun:"streak,notnull"`
	BonusPoints  float64   `bun:"bonus_points,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// RoundClosing records one committed close of a round.
type RoundClosing struct {
	bun.BaseModel `bun:"table:ladder_round_closings,alias:rc"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid"`
	RoundID        uuid.UUID  `bun:"round_id,notnull,type:uuid"`
	ProcessingHash string     `bun:"processing_hash,notnull"`
	ClosedAt       time.Time  `bun:"closed_at,notnull"`
	ReopenedAt     *time.Time `bun:"reopened_at"`
}

// RankingSnapshot caches a standings line for a closed round.
type RankingSnapshot struct {
	bun.BaseModel `bun:"table:ladder_ranking_snapshots,alias:rs"`

	TournamentID  uuid.UUID `bun:"tournament_id,pk,type:uuid"`
	RoundNumber   int       `bun:"round_number,pk"`
	View          string    `bun:"view,pk"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	Position      int       `bun:"position,notnull"`
	AveragePoints float64   `bun:"average_points,notnull"`
	TotalPoints   float64   `bun:"total_points,notnull"`
	RoundsPlayed  int       `bun:"rounds_played,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PlayerRoundRecord is a player's seat in a round, flattened for history walks.
type PlayerRoundRecord struct {
	PlayerID    uuid.UUID `bun:"player_id"`
	RoundID     uuid.UUID `bun:"round_id"`
	RoundNumber int       `bun:"round_number"`
	RoundClosed bool      `bun:"round_closed"`
	GroupID     uuid.UUID `bun:"group_id"`
	GroupLevel  int       `bun:"group_level"`
	GroupStatus string    `bun:"group_status"`
	Position    int       `bun:"position"`
	Points      float64   `bun:"points"`
	Bonus       float64   `bun:"continuity_bonus"`
	Streak      int       `bun:"streak"`
	Movement    int       `bun:"movement"`
	UsedComodin bool      `bun:"used_comodin"`
	ComodinMode *string   `bun:"comodin_mode"`
}

// PositionUpdate is one row of a bulk position write.
type PositionUpdate struct {
	ID       uuid.UUID `bun:"id,type:uuid"`
	Position int       `bun:"position"`
}

// SeatResult is one row of a bulk result write.
type SeatResult struct {
	ID              uuid.UUID `bun:"id,type:uuid"`
	Points          float64   `bun:"points"`
	ContinuityBonus float64   `bun:"continuity_bonus"`
	Streak          int       `bun:"streak"`
	Movement        int       `bun:"movement"`
	Locked          bool      `bun:"locked"`
}
