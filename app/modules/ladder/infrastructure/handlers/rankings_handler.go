package ladderhandlers

import (
	"fmt"
	"net/http"

	ladderexports "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/exports"
)

func (h *LadderHandlers) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleGetRankings")
	defer span.End()
	r = r.WithContext(ctx)

	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		h.fail(w, r, "GetRankings", err)
		return
	}
	ref, err := roundQuery(r)
	if err != nil {
		h.fail(w, r, "GetRankings", err)
		return
	}

	rankings, err := h.service.GetRankings(ctx, tournamentID, ref)
	if err != nil {
		h.fail(w, r, "GetRankings", err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

// HandleExportRankings serves the rankings as an XLSX workbook.
func (h *LadderHandlers) HandleExportRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleExportRankings")
	defer span.End()
	r = r.WithContext(ctx)

	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		h.fail(w, r, "ExportRankings", err)
		return
	}
	ref, err := roundQuery(r)
	if err != nil {
		h.fail(w, r, "ExportRankings", err)
		return
	}

	rankings, err := h.service.GetRankings(ctx, tournamentID, ref)
	if err != nil {
		h.fail(w, r, "ExportRankings", err)
		return
	}
	data, err := ladderexports.RankingsWorkbook(rankings)
	if err != nil {
		h.fail(w, r, "ExportRankings", err)
		return
	}
	filename := fmt.Sprintf("rankings-round-%d.xlsx", rankings.ReferenceRound)
	writeBlob(w, ladderexports.ContentTypeXLSX, filename, data)
}

func (h *LadderHandlers) HandleGetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleGetPlayerHistory")
	defer span.End()
	r = r.WithContext(ctx)

	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		h.fail(w, r, "GetPlayerHistory", err)
		return
	}
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		h.fail(w, r, "GetPlayerHistory", err)
		return
	}

	history, err := h.service.GetPlayerHistory(ctx, tournamentID, playerID)
	if err != nil {
		h.fail(w, r, "GetPlayerHistory", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *LadderHandlers) HandleGetPlayerStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandleGetPlayerStreak")
	defer span.End()
	r = r.WithContext(ctx)

	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		h.fail(w, r, "GetPlayerStreak", err)
		return
	}
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		h.fail(w, r, "GetPlayerStreak", err)
		return
	}

	stats, err := h.service.GetPlayerStreak(ctx, tournamentID, playerID)
	if err != nil {
		h.fail(w, r, "GetPlayerStreak", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandlePointsChart renders the player's points per closed round as a PNG.
func (h *LadderHandlers) HandlePointsChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.start(r.Context(), "HandlePointsChart")
	defer span.End()
	r = r.WithContext(ctx)

	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		h.fail(w, r, "PointsChart", err)
		return
	}
	playerID, err := pathUUID(r, "playerID")
	if err != nil {
		h.fail(w, r, "PointsChart", err)
		return
	}

	history, err := h.service.GetPlayerHistory(ctx, tournamentID, playerID)
	if err != nil {
		h.fail(w, r, "PointsChart", err)
		return
	}
	data, err := ladderexports.PointsChart(history, h.palette)
	if err != nil {
		h.fail(w, r, "PointsChart", err)
		return
	}
	writeBlob(w, ladderexports.ContentTypePNG, "", data)
}
