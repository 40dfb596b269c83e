package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/status", handler.GetStatus)
	mux.HandleFunc("GET /v1/config", handler.GetConfig)
}

func registerDataRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/data/update", handler.UpdateData)
	mux.HandleFunc("GET /v1/data/stats", handler.GetDatabaseStats)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/stats/{statsID}", handler.GetStatsSnapshot)
}
