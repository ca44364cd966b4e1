package ladderservice

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Ladder Repo
// ------------------------

type playerKey struct {
	tournament uuid.UUID
	player     uuid.UUID
}

type snapshotKey struct {
	tournament uuid.UUID
	round      int
}

// FakeRepo is an in-memory ladderdb.Repository. Every call is traced; the Func hooks
// override the in-memory behaviour and Fail injects an error for a method by name.
type FakeRepo struct {
	trace []string

	AcquireRoundLockFunc func(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
	UpdatePositionsFunc  func(ctx context.Context, db bun.IDB, groupID uuid.UUID, updates []ladderdb.PositionUpdate) error
	Fail                 map[string]error

	tournaments map[uuid.UUID]ladderdb.Tournament
	players     map[playerKey]ladderdb.TournamentPlayer
	rounds      map[uuid.UUID]ladderdb.Round
	groups      map[uuid.UUID]ladderdb.Group
	seats       map[uuid.UUID]ladderdb.GroupPlayer
	matches     map[uuid.UUID]ladderdb.Match
	closings    map[uuid.UUID]ladderdb.RoundClosing
	streak      []ladderdb.StreakEntry
	snapshots   map[snapshotKey][]ladderdb.RankingSnapshot
	nextEntryID int64
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		trace:       []string{},
		Fail:        map[string]error{},
		tournaments: map[uuid.UUID]ladderdb.Tournament{},
		players:     map[playerKey]ladderdb.TournamentPlayer{},
		rounds:      map[uuid.UUID]ladderdb.Round{},
		groups:      map[uuid.UUID]ladderdb.Group{},
		seats:       map[uuid.UUID]ladderdb.GroupPlayer{},
		matches:     map[uuid.UUID]ladderdb.Match{},
		closings:    map[uuid.UUID]ladderdb.RoundClosing{},
		snapshots:   map[snapshotKey][]ladderdb.RankingSnapshot{},
	}
}

var _ ladderdb.Repository = (*FakeRepo)(nil)

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Called reports whether the method appears in the trace.
func (f *FakeRepo) Called(step string) bool {
	return slices.Contains(f.trace, step)
}

func (f *FakeRepo) record(step string) error {
	f.trace = append(f.trace, step)
	return f.Fail[step]
}

func compareUUID(a, b uuid.UUID) int {
	return cmp.Compare(a.String(), b.String())
}

// --- seeding helpers ---

func (f *FakeRepo) PutTournament(t ladderdb.Tournament)             { f.tournaments[t.ID] = t }
func (f *FakeRepo) PutPlayer(tp ladderdb.TournamentPlayer)          { f.players[playerKey{tp.TournamentID, tp.PlayerID}] = tp }
func (f *FakeRepo) PutRound(r ladderdb.Round)                       { f.rounds[r.ID] = r }
func (f *FakeRepo) PutGroup(g ladderdb.Group)                       { f.groups[g.ID] = g }
func (f *FakeRepo) PutSeat(s ladderdb.GroupPlayer)                  { f.seats[s.ID] = s }
func (f *FakeRepo) PutMatch(m ladderdb.Match)                       { f.matches[m.ID] = cloneMatch(m) }
func (f *FakeRepo) Player(tournamentID, playerID uuid.UUID) ladderdb.TournamentPlayer {
	return f.players[playerKey{tournamentID, playerID}]
}
func (f *FakeRepo) Round(id uuid.UUID) ladderdb.Round        { return f.rounds[id] }
func (f *FakeRepo) Group(id uuid.UUID) ladderdb.Group        { return f.groups[id] }
func (f *FakeRepo) Match(id uuid.UUID) ladderdb.Match        { return cloneMatch(f.matches[id]) }
func (f *FakeRepo) StreakLedger() []ladderdb.StreakEntry     { return slices.Clone(f.streak) }
func (f *FakeRepo) Closings() map[uuid.UUID]ladderdb.RoundClosing { return f.closings }

func cloneMatch(m ladderdb.Match) ladderdb.Match {
	m.AcceptedBy = slices.Clone(m.AcceptedBy)
	return m
}

// --- Repository Interface Implementation ---

func (f *FakeRepo) AcquireRoundLock(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	if err := f.record("AcquireRoundLock"); err != nil {
		return err
	}
	if f.AcquireRoundLockFunc != nil {
		return f.AcquireRoundLockFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeRepo) GetTournament(_ context.Context, _ bun.IDB, id uuid.UUID) (*ladderdb.Tournament, error) {
	if err := f.record("GetTournament"); err != nil {
		return nil, err
	}
	t, ok := f.tournaments[id]
	if !ok {
		return nil, ladderdb.ErrNotFound
	}
	return &t, nil
}

func (f *FakeRepo) GetActiveTournament(_ context.Context, _ bun.IDB) (*ladderdb.Tournament, error) {
	if err := f.record("GetActiveTournament"); err != nil {
		return nil, err
	}
	for _, t := range f.tournaments {
		if t.IsActive {
			return &t, nil
		}
	}
	return nil, ladderdb.ErrNotFound
}

func (f *FakeRepo) ListTournamentPlayers(_ context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]ladderdb.TournamentPlayer, error) {
	if err := f.record("ListTournamentPlayers"); err != nil {
		return nil, err
	}
	var out []ladderdb.TournamentPlayer
	for _, tp := range f.players {
		if tp.TournamentID == tournamentID {
			out = append(out, tp)
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.TournamentPlayer) int { return compareUUID(a.PlayerID, b.PlayerID) })
	return out, nil
}

func (f *FakeRepo) GetTournamentPlayer(_ context.Context, _ bun.IDB, tournamentID, playerID uuid.UUID) (*ladderdb.TournamentPlayer, error) {
	if err := f.record("GetTournamentPlayer"); err != nil {
		return nil, err
	}
	tp, ok := f.players[playerKey{tournamentID, playerID}]
	if !ok {
		return nil, ladderdb.ErrNotFound
	}
	return &tp, nil
}

func (f *FakeRepo) AdjustComodinesUsed(_ context.Context, _ bun.IDB, tournamentID, playerID uuid.UUID, delta int) error {
	if err := f.record("AdjustComodinesUsed"); err != nil {
		return err
	}
	k := playerKey{tournamentID, playerID}
	tp, ok := f.players[k]
	if !ok {
		return ladderdb.ErrNoRowsAffected
	}
	tp.ComodinesUsed = max(tp.ComodinesUsed+delta, 0)
	f.players[k] = tp
	return nil
}

func (f *FakeRepo) AdjustSubstituteAppearances(_ context.Context, _ bun.IDB, tournamentID, playerID uuid.UUID, delta int) error {
	if err := f.record("AdjustSubstituteAppearances"); err != nil {
		return err
	}
	k := playerKey{tournamentID, playerID}
	tp, ok := f.players[k]
	if !ok {
		return ladderdb.ErrNoRowsAffected
	}
	tp.SubstituteAppearances = max(tp.SubstituteAppearances+delta, 0)
	f.players[k] = tp
	return nil
}

func (f *FakeRepo) GetRound(_ context.Context, _ bun.IDB, id uuid.UUID) (*ladderdb.Round, error) {
	if err := f.record("GetRound"); err != nil {
		return nil, err
	}
	r, ok := f.rounds[id]
	if !ok {
		return nil, ladderdb.ErrNotFound
	}
	return &r, nil
}

func (f *FakeRepo) GetRoundByNumber(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, number int) (*ladderdb.Round, error) {
	if err := f.record("GetRoundByNumber"); err != nil {
		return nil, err
	}
	for _, r := range f.rounds {
		if r.TournamentID == tournamentID && r.Number == number {
			return &r, nil
		}
	}
	return nil, ladderdb.ErrNotFound
}

func (f *FakeRepo) ListRounds(_ context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]ladderdb.Round, error) {
	if err := f.record("ListRounds"); err != nil {
		return nil, err
	}
	var out []ladderdb.Round
	for _, r := range f.rounds {
		if r.TournamentID == tournamentID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.Round) int { return cmp.Compare(a.Number, b.Number) })
	return out, nil
}

func (f *FakeRepo) SetRoundClosed(_ context.Context, _ bun.IDB, roundID uuid.UUID, closedAt *time.Time) error {
	if err := f.record("SetRoundClosed"); err != nil {
		return err
	}
	r, ok := f.rounds[roundID]
	if !ok {
		return ladderdb.ErrNoRowsAffected
	}
	r.ClosedAt = closedAt
	r.IsClosed = closedAt != nil
	f.rounds[roundID] = r
	return nil
}

func (f *FakeRepo) GetGroup(_ context.Context, _ bun.IDB, id uuid.UUID) (*ladderdb.Group, error) {
	if err := f.record("GetGroup"); err != nil {
		return nil, err
	}
	g, ok := f.groups[id]
	if !ok {
		return nil, ladderdb.ErrNotFound
	}
	return &g, nil
}

func (f *FakeRepo) groupsOf(roundID uuid.UUID) []ladderdb.Group {
	var out []ladderdb.Group
	for _, g := range f.groups {
		if g.RoundID == roundID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.Group) int {
		return cmp.Or(cmp.Compare(a.Level, b.Level), cmp.Compare(a.Number, b.Number))
	})
	return out
}

func (f *FakeRepo) ListGroups(_ context.Context, _ bun.IDB, roundID uuid.UUID) ([]ladderdb.Group, error) {
	if err := f.record("ListGroups"); err != nil {
		return nil, err
	}
	return f.groupsOf(roundID), nil
}

func (f *FakeRepo) InsertGroups(_ context.Context, _ bun.IDB, groups []ladderdb.Group, seats []ladderdb.GroupPlayer) error {
	if err := f.record("InsertGroups"); err != nil {
		return err
	}
	for _, g := range groups {
		f.groups[g.ID] = g
	}
	for _, s := range seats {
		f.seats[s.ID] = s
	}
	return nil
}

func (f *FakeRepo) DeleteRoundGroups(_ context.Context, _ bun.IDB, roundID uuid.UUID) error {
	if err := f.record("DeleteRoundGroups"); err != nil {
		return err
	}
	for _, g := range f.groupsOf(roundID) {
		for id, m := range f.matches {
			if m.GroupID == g.ID {
				delete(f.matches, id)
			}
		}
		for id, s := range f.seats {
			if s.GroupID == g.ID {
				delete(f.seats, id)
			}
		}
		delete(f.groups, g.ID)
	}
	return nil
}

func (f *FakeRepo) UpdateGroupStatus(_ context.Context, _ bun.IDB, groupID uuid.UUID, status string, reason *string) error {
	if err := f.record("UpdateGroupStatus"); err != nil {
		return err
	}
	g, ok := f.groups[groupID]
	if !ok {
		return ladderdb.ErrNoRowsAffected
	}
	g.Status = status
	g.SkipReason = reason
	f.groups[groupID] = g
	return nil
}

func (f *FakeRepo) seatsOf(groupID uuid.UUID) []ladderdb.GroupPlayer {
	var out []ladderdb.GroupPlayer
	for _, s := range f.seats {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.GroupPlayer) int { return cmp.Compare(a.Position, b.Position) })
	return out
}

func (f *FakeRepo) ListSeatsByRound(_ context.Context, _ bun.IDB, roundID uuid.UUID) ([]ladderdb.GroupPlayer, error) {
	if err := f.record("ListSeatsByRound"); err != nil {
		return nil, err
	}
	var out []ladderdb.GroupPlayer
	for _, g := range f.groupsOf(roundID) {
		out = append(out, f.seatsOf(g.ID)...)
	}
	return out, nil
}

func (f *FakeRepo) ListSeatsByGroup(_ context.Context, _ bun.IDB, groupID uuid.UUID) ([]ladderdb.GroupPlayer, error) {
	if err := f.record("ListSeatsByGroup"); err != nil {
		return nil, err
	}
	return f.seatsOf(groupID), nil
}

// UpdatePositions enforces the unique (group, position) constraint on the final state.
func (f *FakeRepo) UpdatePositions(ctx context.Context, db bun.IDB, groupID uuid.UUID, updates []ladderdb.PositionUpdate) error {
	if err := f.record("UpdatePositions"); err != nil {
		return err
	}
	if f.UpdatePositionsFunc != nil {
		return f.UpdatePositionsFunc(ctx, db, groupID, updates)
	}
	next := make(map[uuid.UUID]ladderdb.GroupPlayer)
	for _, u := range updates {
		s, ok := f.seats[u.ID]
		if !ok || s.GroupID != groupID {
			return ladderdb.ErrNoRowsAffected
		}
		s.Position = u.Position
		next[s.ID] = s
	}
	used := map[int]bool{}
	for _, s := range f.seatsOf(groupID) {
		if n, ok := next[s.ID]; ok {
			s = n
		}
		if used[s.Position] {
			return fmt.Errorf("duplicate position %d in group %s", s.Position, groupID)
		}
		used[s.Position] = true
	}
	for id, s := range next {
		f.seats[id] = s
	}
	return nil
}

func (f *FakeRepo) UpdateSeatResults(_ context.Context, _ bun.IDB, results []ladderdb.SeatResult) error {
	if err := f.record("UpdateSeatResults"); err != nil {
		return err
	}
	for _, r := range results {
		s, ok := f.seats[r.ID]
		if !ok {
			return ladderdb.ErrNoRowsAffected
		}
		s.Points = r.Points
		s.ContinuityBonus = r.ContinuityBonus
		s.Streak = r.Streak
		s.Movement = r.Movement
		s.Locked = r.Locked
		f.seats[r.ID] = s
	}
	return nil
}

func (f *FakeRepo) UpdateSeatWildcard(_ context.Context, _ bun.IDB, seat *ladderdb.GroupPlayer) error {
	if err := f.record("UpdateSeatWildcard"); err != nil {
		return err
	}
	s, ok := f.seats[seat.ID]
	if !ok {
		return ladderdb.ErrNoRowsAffected
	}
	s.UsedComodin = seat.UsedComodin
	s.ComodinMode = seat.ComodinMode
	s.ComodinReason = seat.ComodinReason
	s.ComodinAt = seat.ComodinAt
	s.SubstitutePlayerID = seat.SubstitutePlayerID
	f.seats[seat.ID] = s
	return nil
}

func (f *FakeRepo) ResetRoundResults(_ context.Context, _ bun.IDB, roundID uuid.UUID) error {
	if err := f.record("ResetRoundResults"); err != nil {
		return err
	}
	for _, g := range f.groupsOf(roundID) {
		for _, s := range f.seatsOf(g.ID) {
			s.Points, s.ContinuityBonus, s.Streak, s.Movement, s.Locked = 0, 0, 0, 0, false
			f.seats[s.ID] = s
		}
		if g.Status == string(ladderdomain.GroupPlayed) {
			g.Status = string(ladderdomain.GroupPending)
			f.groups[g.ID] = g
		}
	}
	return nil
}

func (f *FakeRepo) history(tournamentID uuid.UUID, keep func(r ladderdb.Round, s ladderdb.GroupPlayer) bool) []ladderdb.PlayerRoundRecord {
	var out []ladderdb.PlayerRoundRecord
	for _, r := range f.rounds {
		if r.TournamentID != tournamentID {
			continue
		}
		for _, g := range f.groupsOf(r.ID) {
			for _, s := range f.seatsOf(g.ID) {
				if !keep(r, s) {
					continue
				}
				out = append(out, ladderdb.PlayerRoundRecord{
					PlayerID:    s.PlayerID,
					RoundID:     r.ID,
					RoundNumber: r.Number,
					RoundClosed: r.IsClosed,
					GroupID:     g.ID,
					GroupLevel:  g.Level,
					GroupStatus: g.Status,
					Position:    s.Position,
					Points:      s.Points,
					Bonus:       s.ContinuityBonus,
					Streak:      s.Streak,
					Movement:    s.Movement,
					UsedComodin: s.UsedComodin,
					ComodinMode: s.ComodinMode,
				})
			}
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.PlayerRoundRecord) int {
		return cmp.Or(cmp.Compare(a.RoundNumber, b.RoundNumber), compareUUID(a.PlayerID, b.PlayerID))
	})
	return out
}

func (f *FakeRepo) ListTournamentHistory(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, beforeRound int) ([]ladderdb.PlayerRoundRecord, error) {
	if err := f.record("ListTournamentHistory"); err != nil {
		return nil, err
	}
	return f.history(tournamentID, func(r ladderdb.Round, _ ladderdb.GroupPlayer) bool { return r.Number < beforeRound }), nil
}

func (f *FakeRepo) ListPlayerHistory(_ context.Context, _ bun.IDB, tournamentID, playerID uuid.UUID) ([]ladderdb.PlayerRoundRecord, error) {
	if err := f.record("ListPlayerHistory"); err != nil {
		return nil, err
	}
	return f.history(tournamentID, func(_ ladderdb.Round, s ladderdb.GroupPlayer) bool { return s.PlayerID == playerID }), nil
}

func (f *FakeRepo) GetMatch(_ context.Context, _ bun.IDB, id uuid.UUID) (*ladderdb.Match, error) {
	if err := f.record("GetMatch"); err != nil {
		return nil, err
	}
	m, ok := f.matches[id]
	if !ok {
		return nil, ladderdb.ErrNotFound
	}
	m = cloneMatch(m)
	return &m, nil
}

func (f *FakeRepo) matchesOf(groupID uuid.UUID) []ladderdb.Match {
	var out []ladderdb.Match
	for _, m := range f.matches {
		if m.GroupID == groupID {
			out = append(out, cloneMatch(m))
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.Match) int { return cmp.Compare(a.SetNumber, b.SetNumber) })
	return out
}

func (f *FakeRepo) ListMatchesByGroup(_ context.Context, _ bun.IDB, groupID uuid.UUID) ([]ladderdb.Match, error) {
	if err := f.record("ListMatchesByGroup"); err != nil {
		return nil, err
	}
	return f.matchesOf(groupID), nil
}

func (f *FakeRepo) ListMatchesByRound(_ context.Context, _ bun.IDB, roundID uuid.UUID) ([]ladderdb.Match, error) {
	if err := f.record("ListMatchesByRound"); err != nil {
		return nil, err
	}
	var out []ladderdb.Match
	for _, g := range f.groupsOf(roundID) {
		out = append(out, f.matchesOf(g.ID)...)
	}
	return out, nil
}

func (f *FakeRepo) ListConfirmedMatches(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, upToRound int) ([]ladderdb.RoundMatch, error) {
	if err := f.record("ListConfirmedMatches"); err != nil {
		return nil, err
	}
	var rounds []ladderdb.Round
	for _, r := range f.rounds {
		if r.TournamentID == tournamentID && r.Number <= upToRound {
			rounds = append(rounds, r)
		}
	}
	slices.SortFunc(rounds, func(a, b ladderdb.Round) int { return cmp.Compare(a.Number, b.Number) })
	var out []ladderdb.RoundMatch
	for _, r := range rounds {
		for _, g := range f.groupsOf(r.ID) {
			if g.Status == "SKIPPED" {
				continue
			}
			for _, m := range f.matchesOf(g.ID) {
				if m.Confirmed {
					out = append(out, ladderdb.RoundMatch{Match: m, RoundNumber: r.Number})
				}
			}
		}
	}
	return out, nil
}

func (f *FakeRepo) InsertMatches(_ context.Context, _ bun.IDB, matches []ladderdb.Match) error {
	if err := f.record("InsertMatches"); err != nil {
		return err
	}
	for _, m := range matches {
		f.matches[m.ID] = cloneMatch(m)
	}
	return nil
}

func (f *FakeRepo) DeleteGroupMatches(_ context.Context, _ bun.IDB, groupID uuid.UUID) error {
	if err := f.record("DeleteGroupMatches"); err != nil {
		return err
	}
	for id, m := range f.matches {
		if m.GroupID == groupID {
			delete(f.matches, id)
		}
	}
	return nil
}

func (f *FakeRepo) UpdateMatch(_ context.Context, _ bun.IDB, match *ladderdb.Match) error {
	if err := f.record("UpdateMatch"); err != nil {
		return err
	}
	if _, ok := f.matches[match.ID]; !ok {
		return ladderdb.ErrNoRowsAffected
	}
	f.matches[match.ID] = cloneMatch(*match)
	return nil
}

func (f *FakeRepo) InsertStreakEntries(_ context.Context, _ bun.IDB, entries []ladderdb.StreakEntry) error {
	if err := f.record("InsertStreakEntries"); err != nil {
		return err
	}
	for _, e := range entries {
		f.nextEntryID++
		e.ID = f.nextEntryID
		f.streak = append(f.streak, e)
	}
	return nil
}

func (f *FakeRepo) ListStreakEntries(_ context.Context, _ bun.IDB, tournamentID, playerID uuid.UUID) ([]ladderdb.StreakEntry, error) {
	if err := f.record("ListStreakEntries"); err != nil {
		return nil, err
	}
	var out []ladderdb.StreakEntry
	for _, e := range f.streak {
		if e.TournamentID != tournamentID || e.PlayerID != playerID {
			continue
		}
		if c, ok := f.closings[e.ClosingID]; ok && c.ReopenedAt != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *FakeRepo) closingsOf(roundID uuid.UUID) []ladderdb.RoundClosing {
	var out []ladderdb.RoundClosing
	for _, c := range f.closings {
		if c.RoundID == roundID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b ladderdb.RoundClosing) int { return b.ClosedAt.Compare(a.ClosedAt) })
	return out
}

func (f *FakeRepo) GetActiveClosing(_ context.Context, _ bun.IDB, roundID uuid.UUID) (*ladderdb.RoundClosing, error) {
	if err := f.record("GetActiveClosing"); err != nil {
		return nil, err
	}
	for _, c := range f.closingsOf(roundID) {
		if c.ReopenedAt == nil {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *FakeRepo) GetLatestClosing(_ context.Context, _ bun.IDB, roundID uuid.UUID) (*ladderdb.RoundClosing, error) {
	if err := f.record("GetLatestClosing"); err != nil {
		return nil, err
	}
	all := f.closingsOf(roundID)
	if len(all) == 0 {
		return nil, nil
	}
	return &all[0], nil
}

func (f *FakeRepo) InsertClosing(_ context.Context, _ bun.IDB, closing *ladderdb.RoundClosing) error {
	if err := f.record("InsertClosing"); err != nil {
		return err
	}
	for _, c := range f.closingsOf(closing.RoundID) {
		if c.ReopenedAt == nil {
			return fmt.Errorf("round %s already has an active closing", closing.RoundID)
		}
	}
	f.closings[closing.ID] = *closing
	return nil
}

func (f *FakeRepo) MarkClosingReopened(_ context.Context, _ bun.IDB, closingID uuid.UUID, at time.Time) error {
	if err := f.record("MarkClosingReopened"); err != nil {
		return err
	}
	c, ok := f.closings[closingID]
	if !ok || c.ReopenedAt != nil {
		return ladderdb.ErrNoRowsAffected
	}
	c.ReopenedAt = &at
	f.closings[closingID] = c
	return nil
}

func (f *FakeRepo) ReplaceRankingSnapshot(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, roundNumber int, rows []ladderdb.RankingSnapshot) error {
	if err := f.record("ReplaceRankingSnapshot"); err != nil {
		return err
	}
	f.snapshots[snapshotKey{tournamentID, roundNumber}] = slices.Clone(rows)
	return nil
}

func (f *FakeRepo) GetRankingSnapshot(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, roundNumber int) ([]ladderdb.RankingSnapshot, error) {
	if err := f.record("GetRankingSnapshot"); err != nil {
		return nil, err
	}
	return slices.Clone(f.snapshots[snapshotKey{tournamentID, roundNumber}]), nil
}

func (f *FakeRepo) DeleteRankingSnapshotsFrom(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, fromRound int) error {
	if err := f.record("DeleteRankingSnapshotsFrom"); err != nil {
		return err
	}
	for k := range f.snapshots {
		if k.tournament == tournamentID && k.round >= fromRound {
			delete(f.snapshots, k)
		}
	}
	return nil
}

// ------------------------
// Fake Notifier
// ------------------------

type FakeNotifier struct {
	Schedules []ladderdomain.ScheduleNotice
	Closed    []ladderdomain.RoundClosedNotice
	Err       error
}

func (n *FakeNotifier) NotifySchedule(_ context.Context, notice ladderdomain.ScheduleNotice) error {
	n.Schedules = append(n.Schedules, notice)
	return n.Err
}

func (n *FakeNotifier) NotifyRoundClosed(_ context.Context, notice ladderdomain.RoundClosedNotice) error {
	n.Closed = append(n.Closed, notice)
	return n.Err
}
