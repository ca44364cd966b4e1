package ladderhandlers

import "github.com/go-chi/chi/v5"

// Routes registers the ladder API. Callers mount it behind authentication.
func (h *LadderHandlers) Routes(r chi.Router) {
	r.Route("/rounds/{roundID}", func(r chi.Router) {
		r.Post("/groups", h.HandleStructureGroups)
		r.Post("/close", h.HandleCloseRound)
		r.Post("/reopen", h.HandleReopenRound)
		r.Get("/movements", h.HandleGetMovements)
		r.Post("/wildcards", h.HandleApplyWildcard)
		r.Delete("/wildcards/{playerID}", h.HandleRevokeWildcard)
	})
	r.Route("/groups/{groupID}", func(r chi.Router) {
		r.Post("/rotation", h.HandleGenerateRotation)
		r.Post("/skip", h.HandleSkipGroup)
		r.Post("/swap", h.HandleSwapPositions)
	})
	r.Route("/matches/{matchID}", func(r chi.Router) {
		r.Post("/result", h.HandleReportResult)
		r.Post("/confirm", h.HandleConfirmResult)
		r.Post("/proposals", h.HandleProposeDate)
		r.Post("/proposals/accept", h.HandleAcceptDate)
	})
	r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/rankings", h.HandleGetRankings)
		r.Get("/rankings.xlsx", h.HandleExportRankings)
		r.Get("/players/{playerID}/history", h.HandleGetPlayerHistory)
		r.Get("/players/{playerID}/streak", h.HandleGetPlayerStreak)
		r.Get("/players/{playerID}/chart.png", h.HandlePointsChart)
	})
}
