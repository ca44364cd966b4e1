package ladderdomain

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every Error unwraps to exactly one of these so callers can branch with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrPolicyViolation  = errors.New("policy violation")
	ErrStateConflict    = errors.New("state conflict")
	ErrIntegrityFailure = errors.New("integrity failure")
	ErrNotFound         = errors.New("not found")
)

// Code identifies the specific rule that rejected an operation.
type Code string

const (
	CodeInvalidPartition Code = "invalid_partition"
	CodeScoreOutOfRange  Code = "score_out_of_range"
	CodeInvalidTiebreak  Code = "invalid_tiebreak"
	CodeUnresolvedTie    Code = "unresolved_tie"
	CodeMissingField     Code = "missing_field"
	CodeInvalidGroupSize Code = "invalid_group_size"
	CodeInvalidStrategy  Code = "invalid_strategy"
	CodeInvalidMode      Code = "invalid_mode"
	CodeInvalidDate      Code = "invalid_date"

	CodeWildcardCapReached    Code = "wildcard_cap_reached"
	CodeWildcardAlreadyUsed   Code = "wildcard_already_used"
	CodeWildcardModeDisabled  Code = "wildcard_mode_disabled"
	CodeNoWildcard            Code = "no_wildcard"
	CodeRevokeRoundClosed     Code = "revoke_round_closed"
	CodeRevokeConfirmed       Code = "revoke_confirmed_matches"
	CodeRevokeWithin24h       Code = "revoke_match_within_24h"
	CodeSubstituteSelf        Code = "substitute_self"
	CodeSubstituteSameGroup   Code = "substitute_same_group"
	CodeSubstituteAlreadyUsed Code = "substitute_already_used"
	CodeSubstituteCapReached  Code = "substitute_cap_reached"
	CodeSubstituteIneligible  Code = "substitute_not_eligible"
	CodeDuplicatePlayer       Code = "duplicate_player"
	CodePlayerNotEligible     Code = "player_not_eligible"
	CodeGroupSkipped          Code = "group_skipped"
	CodeNotMatchPlayer        Code = "not_match_player"
	CodeNotOpponent           Code = "not_opponent"
	CodeAdminRequired         Code = "admin_required"

	CodeRoundClosed      Code = "round_closed"
	CodeRoundNotClosed   Code = "round_not_closed"
	CodeLaterRoundClosed Code = "later_round_closed"
	CodeGroupsExist      Code = "groups_exist"
	CodeMatchesExist     Code = "matches_exist"
	CodeIncompleteRound  Code = "incomplete_round"
	CodeAlreadyConfirmed Code = "already_confirmed"
	CodeNotReported      Code = "not_reported"
	CodePositionMissing  Code = "position_target_missing"
	CodeScheduleState    Code = "schedule_state"

	CodeLockTimeout Code = "lock_timeout"
	CodeRollback    Code = "transaction_rollback"

	CodeNotFound Code = "not_found"
)

// Error is the single error type surfaced by the ladder core.
type Error struct {
	Kind   error
	Code   Code
	Reason string
	Field  string
	// Count is set for incomplete_round: the number of unconfirmed or missing matches.
	Count int
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func NewValidationError(field string, code Code, reason string) *Error {
	return &Error{Kind: ErrValidation, Code: code, Field: field, Reason: reason}
}

func NewPolicyViolation(code Code, reason string) *Error {
	return &Error{Kind: ErrPolicyViolation, Code: code, Reason: reason}
}

func NewStateConflict(code Code, reason string) *Error {
	return &Error{Kind: ErrStateConflict, Code: code, Reason: reason}
}

func NewIntegrityFailure(code Code, reason string, cause error) *Error {
	return &Error{Kind: ErrIntegrityFailure, Code: code, Reason: reason, Cause: cause}
}

func NewNotFound(what string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeNotFound, Reason: what + " not found"}
}

// IncompleteRound reports how many matches still block a round from closing.
func IncompleteRound(count int) *Error {
	return &Error{
		Kind:   ErrStateConflict,
		Code:   CodeIncompleteRound,
		Reason: fmt.Sprintf("%d match(es) are unconfirmed or missing", count),
		Count:  count,
	}
}

// CodeOf returns the rule code of a ladder error, or "" for any other error.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
