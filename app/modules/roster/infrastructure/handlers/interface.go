package rosterhandlers

import "net/http"

// Handlers defines the HTTP endpoints of the roster module.
type Handlers interface {
	HandleListPlayers(w http.ResponseWriter, r *http.Request)
	HandleGetPlayer(w http.ResponseWriter, r *http.Request)
	HandleAddPlayer(w http.ResponseWriter, r *http.Request)
	HandleUpdatePlayer(w http.ResponseWriter, r *http.Request)
	HandleComputeScores(w http.ResponseWriter, r *http.Request)
	HandleApplyAwards(w http.ResponseWriter, r *http.Request)
	HandleBreakdown(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
	HandleChart(w http.ResponseWriter, r *http.Request)
	HandlePenalties(w http.ResponseWriter, r *http.Request)
}
