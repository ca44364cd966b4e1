package ladderhandlers

import (
	"net/http"

	ladderservice "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/application"
	"github.com/google/uuid"
)

type structureRequest struct {
	Strategy  string        `json:"strategy"`
	GroupSize int           `json:"groupSize"`
	Force     bool          `json:"force"`
	Seed      *uint64       `json:"seed"`
	Groups    [][]uuid.UUID `json:"groups"`
}

// HandleStructureGroups generates the groups of a round.
func (h *LadderHandlers) HandleStructureGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleStructureGroups")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "StructureGroups", err)
		return
	}
	roundID, err := pathUUID(r, "roundID")
	if err != nil {
		h.fail(w, r, "StructureGroups", err)
		return
	}
	var body structureRequest
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "StructureGroups", err)
		return
	}

	res, err := h.service.StructureGroups(ctx, ladderservice.StructureRequest{
		RoundID:   roundID,
		Strategy:  body.Strategy,
		GroupSize: body.GroupSize,
		Force:     body.Force,
		Manual:    body.Groups,
		Seed:      body.Seed,
	})
	if err != nil {
		h.fail(w, r, "StructureGroups", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGenerateRotation (re)creates a group's three sets.
func (h *LadderHandlers) HandleGenerateRotation(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleGenerateRotation")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "GenerateRotation", err)
		return
	}
	groupID, err := pathUUID(r, "groupID")
	if err != nil {
		h.fail(w, r, "GenerateRotation", err)
		return
	}
	var body struct {
		Overwrite bool `json:"overwrite"`
	}
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "GenerateRotation", err)
		return
	}

	matches, err := h.service.GenerateRotation(ctx, groupID, body.Overwrite)
	if err != nil {
		h.fail(w, r, "GenerateRotation", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"groupId": groupID, "matches": matches})
}

func (h *LadderHandlers) HandleSkipGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleSkipGroup")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "SkipGroup", err)
		return
	}
	groupID, err := pathUUID(r, "groupID")
	if err != nil {
		h.fail(w, r, "SkipGroup", err)
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "SkipGroup", err)
		return
	}

	view, err := h.service.SkipGroup(ctx, groupID, body.Reason)
	if err != nil {
		h.fail(w, r, "SkipGroup", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *LadderHandlers) HandleSwapPositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleSwapPositions")
	defer span.End()
	r = r.WithContext(ctx)

	if _, err := requireAdmin(r); err != nil {
		h.fail(w, r, "SwapPositions", err)
		return
	}
	groupID, err := pathUUID(r, "groupID")
	if err != nil {
		h.fail(w, r, "SwapPositions", err)
		return
	}
	var body struct {
		PlayerA uuid.UUID `json:"playerA"`
		PlayerB uuid.UUID `json:"playerB"`
	}
	if err := readJSON(w, r, &body); err != nil {
		h.fail(w, r, "SwapPositions", err)
		return
	}
	if body.PlayerA == uuid.Nil || body.PlayerB == uuid.Nil {
		h.fail(w, r, "SwapPositions", badRequest("playerA", "playerA and playerB are required"))
		return
	}

	view, err := h.service.SwapPositions(ctx, groupID, body.PlayerA, body.PlayerB)
	if err != nil {
		h.fail(w, r, "SwapPositions", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
