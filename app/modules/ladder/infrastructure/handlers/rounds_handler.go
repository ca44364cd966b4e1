package ladderhandlers

import (
	"net/http"

	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	"github.com/google/uuid"
)

func (h *LadderHandlers) HandleCloseRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleCloseRound")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "CloseRound", err)
		return
	}
	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "CloseRound", err)
		return
	}

	summary, err := h.service.CloseRound(ctx, roundID)
	if err != nil {
		h.fail(w, r, "CloseRound", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LadderHandlers) HandleReopenRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleReopenRound")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "ReopenRound", err)
		return
	}
	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "ReopenRound", err)
		return
	}

	summary, err := h.service.ReopenRound(ctx, roundID)
	if err != nil {
		h.fail(w, r, "ReopenRound", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LadderHandlers) HandleGetMovements(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleGetMovements")
	defer span.End()
	r = r.WithContext(ctx)

	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "GetMovements", err)
		return
	}

	movements, err := h.service.GetMovements(ctx, roundID)
	if err != nil {
		h.fail(w, r, "GetMovements", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "movements": movements})
}

type wildcardRequest struct {
	Mode               string     `json:"mode"`
	SubstitutePlayerID *uuid.UUID `json:"substitutePlayerId"`
	Reason             string     `json:"reason"`
}

// HandleApplyWildcard spends one of the caller's wildcards on the round.
func (h *LadderHandlers) HandleApplyWildcard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleApplyWildcard")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "ApplyWildcard", err)
		return
	}
	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "ApplyWildcard", err)
		return
	}
	var body wildcardRequest
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "ApplyWildcard", err)
		return
	}

	seat, err := h.service.ApplyWildcard(ctx, ladderservice.ApplyWildcardRequest{
		PlayerID:           a.PlayerID,
		RoundID:            roundID,
		Mode:               body.Mode,
		SubstitutePlayerID: body.SubstitutePlayerID,
		Reason:             body.Reason,
	})
	if err != nil {
		h.fail(w, r, "ApplyWildcard", err)
		return
	}
	writeJSON(w, http.StatusCreated, seat)
}

// HandleRevokeWildcard withdraws a wildcard. Players revoke their own; admins may revoke any and skip the freeze window.
func (h *LadderHandlers) HandleRevokeWildcard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleRevokeWildcard")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "RevokeWildcard", err)
		return
	}
	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "RevokeWildcard", err)
		return
	}
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		h.fail(w, r, "RevokeWildcard", err)
		return
	}
	if playerID != a.PlayerID {
		if _, err := requireAdmin(r); err != nil {
			h.fail(w, r, "RevokeWildcard", err)
			return
		}
	}

	seat, err := h.service.RevokeWildcard(ctx, playerID, roundID, a.IsAdmin)
	if err != nil {
		h.fail(w, r, "RevokeWildcard", err)
		return
	}
	writeJSON(w, http.StatusOK, seat)
}
