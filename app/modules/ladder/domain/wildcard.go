package ladderdomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultRevokeWindow is how far ahead a scheduled match freezes self-service revocation.
const DefaultRevokeWindow = 24 * time.Hour

// SubstituteCandidate describes the proposed stand-in as seen from the round being played.
type SubstituteCandidate struct {
	PlayerID          uuid.UUID
	Enrolled          bool
	JoinedRound       int
	SameGroup         bool
	AlreadySubstitute bool
	Appearances       int
}

// ApplyRequest gathers the state an apply decision depends on.
type ApplyRequest struct {
	PlayerID      uuid.UUID
	RoundNumber   int
	RoundClosed   bool
	HasSeat       bool
	GroupSkipped  bool
	AlreadyUsed   bool
	ComodinesUsed int
	Mode          WildcardMode
	Substitute    *SubstituteCandidate
}

// CheckApply enforces wildcard caps and substitute eligibility.
func CheckApply(p WildcardPolicy, r ApplyRequest) error {
	if r.RoundClosed {
		return NewStateConflict(CodeRoundClosed, "round is closed")
	}
	if !r.HasSeat {
		return NewPolicyViolation(CodePlayerNotEligible, "player has no seat in this round")
	}
	if r.GroupSkipped {
		return NewPolicyViolation(CodeGroupSkipped, "player's group was skipped this round")
	}
	if r.AlreadyUsed {
		return NewPolicyViolation(CodeWildcardAlreadyUsed, "a wildcard is already active for this round")
	}
	if r.ComodinesUsed >= p.MaxPerPlayer {
		return NewPolicyViolation(CodeWildcardCapReached,
			fmt.Sprintf("wildcard limit reached (%d per tournament)", p.MaxPerPlayer))
	}

	switch r.Mode {
	case WildcardMean:
		if !p.MeanEnabled {
			return NewPolicyViolation(CodeWildcardModeDisabled, "mean wildcards are disabled in this tournament")
		}
		if r.Substitute != nil {
			return NewValidationError("substitutePlayerId", CodeInvalidMode, "mean wildcards take no substitute")
		}
		return nil
	case WildcardSubstitute:
		if !p.SubstituteEnabled {
			return NewPolicyViolation(CodeWildcardModeDisabled, "substitute wildcards are disabled in this tournament")
		}
		return checkSubstitute(p, r)
	}
	return NewValidationError("mode", CodeInvalidMode, "mode must be MEAN or SUBSTITUTE")
}

func checkSubstitute(p WildcardPolicy, r ApplyRequest) error {
	sub := r.Substitute
	if sub == nil || sub.PlayerID == uuid.Nil {
		return NewValidationError("substitutePlayerId", CodeMissingField, "substitute player is required")
	}
	if sub.PlayerID == r.PlayerID {
		return NewPolicyViolation(CodeSubstituteSelf, "a player cannot substitute themselves")
	}
	if !sub.Enrolled || sub.JoinedRound > r.RoundNumber {
		return NewPolicyViolation(CodeSubstituteIneligible, "substitute is not an eligible tournament player")
	}
	if sub.SameGroup {
		return NewPolicyViolation(CodeSubstituteSameGroup, "substitute plays in the same group")
	}
	if sub.AlreadySubstitute {
		return NewPolicyViolation(CodeSubstituteAlreadyUsed, "substitute is already standing in elsewhere this round")
	}
	if sub.Appearances >= p.SubstituteMaxAppearances {
		return NewPolicyViolation(CodeSubstituteCapReached,
			fmt.Sprintf("substitute reached the limit of %d appearances", p.SubstituteMaxAppearances))
	}
	return nil
}

// RevokeRequest gathers the state a revoke decision depends on.
type RevokeRequest struct {
	RoundClosed      bool
	UsedComodin      bool
	ConfirmedMatches int
	// ScheduledDates are the accepted dates of SCHEDULED matches involving the player.
	ScheduledDates     []time.Time
	Now                time.Time
	BypassFreezeWindow bool
}

// CheckRevoke applies the freeze rules; BypassFreezeWindow skips everything but the open-round check.
func CheckRevoke(r RevokeRequest, window time.Duration) error {
	if r.RoundClosed {
		return NewPolicyViolation(CodeRevokeRoundClosed, "cannot revoke: the round is closed")
	}
	if !r.UsedComodin {
		return NewStateConflict(CodeNoWildcard, "no wildcard to revoke in this round")
	}
	if r.BypassFreezeWindow {
		return nil
	}
	if r.ConfirmedMatches > 0 {
		return NewPolicyViolation(CodeRevokeConfirmed, "cannot revoke: you already have confirmed matches this round")
	}
	limit := r.Now.Add(window)
	for _, at := range r.ScheduledDates {
		if !at.Before(r.Now) && !at.After(limit) {
			return NewPolicyViolation(CodeRevokeWithin24h,
				"cannot revoke: you have a match scheduled within the next 24 hours")
		}
	}
	return nil
}
