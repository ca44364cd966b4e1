package ladderservice

import (
	"context"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderdb "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/repositories"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/attr"
	"github.com/Black-And-White-Club/padel-ladder/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// setsPerGroup is the length of the rotation every scored group must complete.
const setsPerGroup = 3

// CloseRound scores every played group, commits positions, movement and continuity bonuses,
// and flips the round closed in the same transaction.
func (s *LadderService) CloseRound(ctx context.Context, roundID uuid.UUID) (*CloseSummary, error) {
	var closed *closeOutcome
	result, err := withTelemetry(s, ctx, "CloseRound", roundID.String(), func(ctx context.Context) (results.OperationResult[*CloseSummary, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*CloseSummary, error], error) {
			out, res, err := s.closeRound(ctx, db, roundID)
			closed = out
			return res, err
		})
	})
	summary, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordRoundClosed(ctx, closed.played, closed.skipped)
	}
	if nerr := s.notifier.NotifyRoundClosed(ctx, closed.notice); nerr != nil {
		s.logger.WarnContext(ctx, "Failed to enqueue round closed notice",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("round_id", roundID),
			attr.Error(nerr),
		)
	}
	return summary, nil
}

type closeOutcome struct {
	played  int
	skipped int
	notice  ladderdomain.RoundClosedNotice
}

// priorRounds is what earlier rounds tell the close about each player.
type priorRounds struct {
	participated map[uuid.UUID]map[int]bool
	meanHistory  map[uuid.UUID][]float64
	lastStreak   map[uuid.UUID]int
}

func buildPriorRounds(history []ladderdb.PlayerRoundRecord, roundNumber int) priorRounds {
	p := priorRounds{
		participated: make(map[uuid.UUID]map[int]bool),
		meanHistory:  make(map[uuid.UUID][]float64),
		lastStreak:   make(map[uuid.UUID]int),
	}
	for _, rec := range history {
		if rec.RoundNumber == roundNumber-1 && rec.RoundClosed {
			p.lastStreak[rec.PlayerID] = rec.Streak
		}
		if !rec.RoundClosed || rec.UsedComodin || rec.GroupStatus == string(ladderdomain.GroupSkipped) {
			continue
		}
		if p.participated[rec.PlayerID] == nil {
			p.participated[rec.PlayerID] = make(map[int]bool)
		}
		p.participated[rec.PlayerID][rec.RoundNumber] = true
		p.meanHistory[rec.PlayerID] = append(p.meanHistory[rec.PlayerID], rec.Points)
	}
	return p
}

// input describes the prior rounds of one player for the processing hash.
func (p priorRounds) input(playerID uuid.UUID) ladderdomain.ClosingInput {
	rounds := make([]int, 0, len(p.participated[playerID]))
	for r := range p.participated[playerID] {
		rounds = append(rounds, r)
	}
	return ladderdomain.HistoryInput(playerID, rounds, p.meanHistory[playerID], p.lastStreak[playerID])
}

func (s *LadderService) closeRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*closeOutcome, results.OperationResult[*CloseSummary, error], error) {
	failWith := func(err error) (*closeOutcome, results.OperationResult[*CloseSummary, error], error) {
		res, ferr := fail[*CloseSummary](err)
		return nil, res, ferr
	}
	repoErr := func(err error, what string) (*closeOutcome, results.OperationResult[*CloseSummary, error], error) {
		res, rerr := fromRepo[*CloseSummary](err, what)
		return nil, res, rerr
	}

	if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
		return repoErr(err, "round")
	}
	scope, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return repoErr(err, "round")
	}
	round := scope.round
	if round.IsClosed {
		return failWith(ladderdomain.NewStateConflict(ladderdomain.CodeRoundClosed, "round is already closed"))
	}

	groups, err := s.repo.ListGroups(ctx, db, round.ID)
	if err != nil {
		return repoErr(err, "groups")
	}
	if len(groups) == 0 {
		return failWith(ladderdomain.NewStateConflict(ladderdomain.CodeIncompleteRound, "round has no groups"))
	}
	seats, err := s.repo.ListSeatsByRound(ctx, db, round.ID)
	if err != nil {
		return repoErr(err, "seats")
	}
	matches, err := s.repo.ListMatchesByRound(ctx, db, round.ID)
	if err != nil {
		return repoErr(err, "matches")
	}
	bySeat := seatsByGroup(seats)
	byMatch := matchesByGroup(matches)

	if missing := unfinishedMatches(groups, byMatch); missing > 0 {
		return failWith(ladderdomain.IncompleteRound(missing))
	}

	history, err := s.repo.ListTournamentHistory(ctx, db, round.TournamentID, round.Number)
	if err != nil {
		return repoErr(err, "history")
	}
	prior := buildPriorRounds(history, round.Number)

	now := s.clock.Now()
	closingID := uuid.New()
	levels := len(groups)
	var (
		seatResults []ladderdb.SeatResult
		entries     []ladderdb.StreakEntry
		inputs      []ladderdomain.ClosingInput
		outcome     = &closeOutcome{}
	)
	entry := func(seat ladderdb.GroupPlayer, kind ladderdomain.StreakEventKind, streak int, bonus float64) ladderdb.StreakEntry {
		return ladderdb.StreakEntry{
			TournamentID: round.TournamentID,
			PlayerID:     seat.PlayerID,
			RoundID:      round.ID,
			GroupID:      seat.GroupID,
			ClosingID:    closingID,
			Kind:         string(kind),
			Streak:       streak,
			BonusPoints:  bonus,
		}
	}

	for i := range groups {
		g := &groups[i]
		groupSeats := bySeat[g.ID]

		if g.Status == string(ladderdomain.GroupSkipped) {
			outcome.skipped++
			inputs = append(inputs, ladderdomain.GroupStatusInput(g.ID, ladderdomain.GroupSkipped))
			for _, seat := range groupSeats {
				inputs = append(inputs, prior.input(seat.PlayerID))
				seatResults = append(seatResults, ladderdb.SeatResult{ID: seat.ID, Locked: true})
				if prior.lastStreak[seat.PlayerID] > 0 {
					entries = append(entries, entry(seat, ladderdomain.StreakBroken, 0, 0))
				}
			}
			continue
		}

		outcome.played++
		inputs = append(inputs, ladderdomain.GroupStatusInput(g.ID, ladderdomain.GroupPlayed))
		in := ladderdomain.GroupInput{Level: g.Level}
		for _, seat := range groupSeats {
			si := ladderdomain.SeatInput{PlayerID: seat.PlayerID, History: prior.meanHistory[seat.PlayerID]}
			inputs = append(inputs, prior.input(seat.PlayerID))
			if use := wildcardOf(seat); use != nil {
				si.Wildcard = use
				inputs = append(inputs, ladderdomain.WildcardInput(seat.PlayerID, *use))
			}
			in.Seats = append(in.Seats, si)
		}
		for _, m := range byMatch[g.ID] {
			score, _ := scoreOf(m)
			res, err := ladderdomain.MustDecide(score)
			if err != nil {
				return failWith(ladderdomain.NewIntegrityFailure(ladderdomain.CodeIncompleteRound, "confirmed match has an undecided score", err))
			}
			in.Sets = append(in.Sets, ladderdomain.PlayedSet{Pairing: pairingOf(m), RoundNumber: round.Number, Result: res})
			inputs = append(inputs, ladderdomain.MatchInput(m.ID, score))
		}

		scored := ladderdomain.ScoreGroup(in, round.Number, levels, scope.policy)
		assignments := make([]ladderdomain.PositionAssignment, len(scored))
		ids := make([]uuid.UUID, len(groupSeats))
		for j, o := range scored {
			assignments[j] = ladderdomain.PositionAssignment{PlayerID: o.PlayerID, Position: o.Position}
		}
		for j, seat := range groupSeats {
			ids[j] = seat.PlayerID
		}
		if err := ladderdomain.ValidatePermutation(ids, assignments); err != nil {
			return failWith(err)
		}
		if err := s.repo.UpdatePositions(ctx, db, g.ID, positionUpdates(groupSeats, assignments)); err != nil {
			return repoErr(err, "positions")
		}

		seatOf := make(map[uuid.UUID]ladderdb.GroupPlayer, len(groupSeats))
		for _, seat := range groupSeats {
			seatOf[seat.PlayerID] = seat
		}
		for _, o := range scored {
			seat := seatOf[o.PlayerID]
			sr := ladderdb.SeatResult{ID: seat.ID, Points: o.Points, Movement: o.Movement}
			if !o.Wildcard {
				sr.Streak = ladderdomain.StreakLength(round.Number, prior.participated[o.PlayerID])
				sr.ContinuityBonus = ladderdomain.ContinuityBonus(sr.Streak, scope.policy.Continuity)
				if sr.ContinuityBonus > 0 {
					entries = append(entries, entry(seat, ladderdomain.StreakBonus, sr.Streak, sr.ContinuityBonus))
				}
			}
			seatResults = append(seatResults, sr)
		}

		if err := s.repo.UpdateGroupStatus(ctx, db, g.ID, string(ladderdomain.GroupPlayed), nil); err != nil {
			return repoErr(err, "group")
		}
		g.Status = string(ladderdomain.GroupPlayed)
	}

	if err := s.repo.UpdateSeatResults(ctx, db, seatResults); err != nil {
		return repoErr(err, "seat results")
	}

	hash := ladderdomain.ComputeProcessingHash(inputs)
	if previous, err := s.repo.GetLatestClosing(ctx, db, round.ID); err != nil {
		return repoErr(err, "closing")
	} else if previous != nil && previous.ProcessingHash == hash {
		s.logger.InfoContext(ctx, "Round reclosed from unchanged inputs",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("round_id", round.ID),
			attr.String("processing_hash", hash),
		)
	}
	closing := &ladderdb.RoundClosing{ID: closingID, RoundID: round.ID, ProcessingHash: hash, ClosedAt: now}
	if err := s.repo.InsertClosing(ctx, db, closing); err != nil {
		return repoErr(err, "closing")
	}
	if err := s.repo.InsertStreakEntries(ctx, db, entries); err != nil {
		return repoErr(err, "streak history")
	}
	if err := s.repo.SetRoundClosed(ctx, db, round.ID, &now); err != nil {
		return repoErr(err, "round")
	}

	rankings, err := s.computeRankings(ctx, db, scope.tournament, scope.policy, round.Number)
	if err != nil {
		return repoErr(err, "rankings")
	}
	if err := s.repo.ReplaceRankingSnapshot(ctx, db, round.TournamentID, round.Number, snapshotRows(rankings)); err != nil {
		return repoErr(err, "ranking snapshot")
	}

	final, err := s.repo.ListSeatsByRound(ctx, db, round.ID)
	if err != nil {
		return repoErr(err, "seats")
	}
	finalSeats := seatsByGroup(final)
	summary := &CloseSummary{
		RoundID:        round.ID,
		RoundNumber:    round.Number,
		ClosedAt:       now,
		ProcessingHash: hash,
		Groups:         make([]GroupView, 0, len(groups)),
	}
	for _, g := range groups {
		summary.Groups = append(summary.Groups, groupView(g, finalSeats[g.ID], byMatch[g.ID]))
	}

	outcome.notice = ladderdomain.RoundClosedNotice{
		TournamentID: round.TournamentID,
		RoundID:      round.ID,
		RoundNumber:  round.Number,
		ClosedAt:     now,
	}
	res, err := ok(summary)
	return outcome, res, err
}

// unfinishedMatches counts the sets that keep a round from closing: missing rotation sets plus
// sets without a confirmed result, over every group that was not skipped.
func unfinishedMatches(groups []ladderdb.Group, byMatch map[uuid.UUID][]ladderdb.Match) int {
	missing := 0
	for _, g := range groups {
		if g.Status == string(ladderdomain.GroupSkipped) {
			continue
		}
		ms := byMatch[g.ID]
		missing += max(0, setsPerGroup-len(ms))
		for _, m := range ms {
			if _, reported := scoreOf(m); !m.Confirmed || !reported {
				missing++
			}
		}
	}
	return missing
}

func wildcardOf(seat ladderdb.GroupPlayer) *ladderdomain.WildcardUse {
	if !seat.UsedComodin {
		return nil
	}
	use := &ladderdomain.WildcardUse{Mode: ladderdomain.WildcardMean}
	if seat.ComodinMode != nil && *seat.ComodinMode == string(ladderdomain.WildcardSubstitute) {
		use.Mode = ladderdomain.WildcardSubstitute
	}
	if seat.SubstitutePlayerID != nil {
		use.SubstituteID = *seat.SubstitutePlayerID
	}
	return use
}

// ReopenRound invalidates everything a close derived so the round can be edited and closed again.
func (s *LadderService) ReopenRound(ctx context.Context, roundID uuid.UUID) (*ReopenSummary, error) {
	result, err := withTelemetry(s, ctx, "ReopenRound", roundID.String(), func(ctx context.Context) (results.OperationResult[*ReopenSummary, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ReopenSummary, error], error) {
			if err := s.repo.AcquireRoundLock(ctx, db, roundID); err != nil {
				return fromRepo[*ReopenSummary](err, "round")
			}
			round, err := s.repo.GetRound(ctx, db, roundID)
			if err != nil {
				return fromRepo[*ReopenSummary](err, "round")
			}
			if !round.IsClosed {
				return fail[*ReopenSummary](ladderdomain.NewStateConflict(ladderdomain.CodeRoundNotClosed, "round is not closed"))
			}
			rounds, err := s.repo.ListRounds(ctx, db, round.TournamentID)
			if err != nil {
				return fromRepo[*ReopenSummary](err, "rounds")
			}
			for _, r := range rounds {
				if r.Number > round.Number && r.IsClosed {
					return fail[*ReopenSummary](ladderdomain.NewStateConflict(ladderdomain.CodeLaterRoundClosed, "a later round is already closed"))
				}
			}

			now := s.clock.Now()
			closing, err := s.repo.GetActiveClosing(ctx, db, round.ID)
			if err != nil {
				return fromRepo[*ReopenSummary](err, "closing")
			}
			if closing != nil {
				if err := s.repo.MarkClosingReopened(ctx, db, closing.ID, now); err != nil {
					return fromRepo[*ReopenSummary](err, "closing")
				}
			}
			if err := s.repo.ResetRoundResults(ctx, db, round.ID); err != nil {
				return fromRepo[*ReopenSummary](err, "round results")
			}
			if err := s.repo.DeleteRankingSnapshotsFrom(ctx, db, round.TournamentID, round.Number); err != nil {
				return fromRepo[*ReopenSummary](err, "ranking snapshot")
			}
			if err := s.repo.SetRoundClosed(ctx, db, round.ID, nil); err != nil {
				return fromRepo[*ReopenSummary](err, "round")
			}
			return ok(&ReopenSummary{RoundID: round.ID, ReopenedAt: now})
		})
	})
	return unwrap(result, err)
}
