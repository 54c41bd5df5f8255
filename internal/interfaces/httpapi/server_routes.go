package httpapi

import (
	"net/http"

	"github.com/watter46/footics-sub000/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, recorder *metrics.Recorder) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if recorder != nil {
		mux.Handle("GET /metrics", recorder.Handler())
	}
}

func registerFormationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)
	mux.HandleFunc("GET /v1/formations/{shape}", handler.GetFormation)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.CreateMatch)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}/subject-team", handler.ChangeSubjectTeam)
	mux.HandleFunc("PUT /v1/matches/{matchID}/formation", handler.ChangeFormation)
	mux.HandleFunc("GET /v1/matches/{matchID}/bench", handler.GetBench)
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/slots/{slotID}", handler.GetSlot)
	mux.HandleFunc("PUT /v1/matches/{matchID}/slots/{slotID}", handler.AssignSlot)
	mux.HandleFunc("DELETE /v1/matches/{matchID}/slots/{slotID}", handler.ClearSlot)
	mux.HandleFunc("POST /v1/matches/{matchID}/slots/swap", handler.SwapSlots)
}

func registerEventRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListEvents)
	mux.HandleFunc("POST /v1/matches/{matchID}/events", handler.RecordEvent)
	mux.HandleFunc("PUT /v1/matches/{matchID}/events/{eventID}/player", handler.ReassignEvent)
	mux.HandleFunc("POST /v1/matches/{matchID}/ghosts/{token}/resolve", handler.ResolveGhost)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListRoster)
	mux.HandleFunc("PUT /v1/teams/{teamID}/players", handler.ReplaceRoster)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/internal/reconcile", handler.RunReconcile)
}
