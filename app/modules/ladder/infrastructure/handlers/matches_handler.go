package ladderhandlers

import (
	"net/http"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
)

type resultRequest struct {
	Team1Games *int   `json:"team1Games"`
	Team2Games *int   `json:"team2Games"`
	Tiebreak   string `json:"tiebreak"`
}

// HandleReportResult records a set score for the caller.
func (h *LadderHandlers) HandleReportResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleReportResult")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "ReportResult", err)
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		h.fail(w, r, "ReportResult", err)
		return
	}
	var body resultRequest
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "ReportResult", err)
		return
	}
	if body.Team1Games == nil || body.Team2Games == nil {
		h.fail(w, r, "ReportResult", ladderdomain.NewValidationError("team1Games", ladderdomain.CodeMissingField, "both game counts are required"))
		return
	}

	view, err := h.service.ReportResult(ctx, a, matchID, ladderdomain.SetScore{
		Team1Games: *body.Team1Games,
		Team2Games: *body.Team2Games,
		Tiebreak:   body.Tiebreak,
	})
	if err != nil {
		h.fail(w, r, "ReportResult", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *LadderHandlers) HandleConfirmResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleConfirmResult")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "ConfirmResult", err)
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		h.fail(w, r, "ConfirmResult", err)
		return
	}

	view, err := h.service.ConfirmResult(ctx, a, matchID)
	if err != nil {
		h.fail(w, r, "ConfirmResult", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleProposeDate accepts RFC 3339 or natural language such as "friday 7pm".
func (h *LadderHandlers) HandleProposeDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleProposeDate")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "ProposeDate", err)
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		h.fail(w, r, "ProposeDate", err)
		return
	}
	var body struct {
		When string `json:"when"`
	}
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "ProposeDate", err)
		return
	}

	view, err := h.service.ProposeDate(ctx, a, matchID, body.When)
	if err != nil {
		h.fail(w, r, "ProposeDate", err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *LadderHandlers) HandleAcceptDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleAcceptDate")
	defer span.End()
	r = r.WithContext(ctx)

	a, err := actor(r)
	if err != nil {
		h.fail(w, r, "AcceptDate", err)
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		h.fail(w, r, "AcceptDate", err)
		return
	}

	view, err := h.service.AcceptDate(ctx, a, matchID)
	if err != nil {
		h.fail(w, r, "AcceptDate", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
