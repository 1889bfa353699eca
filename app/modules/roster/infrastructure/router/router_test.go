package rosterrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	rosterhandlers "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

// fakeHandlers answers every endpoint with the handler name and the {name} parameter.
type fakeHandlers struct{}

func reply(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(name + ":" + chi.URLParam(r, "name")))
	}
}

func (fakeHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	reply("list")(w, r)
}
func (fakeHandlers) HandleGetPlayer(w http.ResponseWriter, r *http.Request) { reply("get")(w, r) }
func (fakeHandlers) HandleAddPlayer(w http.ResponseWriter, r *http.Request) { reply("add")(w, r) }
func (fakeHandlers) HandleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	reply("update")(w, r)
}
func (fakeHandlers) HandleComputeScores(w http.ResponseWriter, r *http.Request) {
	reply("compute")(w, r)
}
func (fakeHandlers) HandleApplyAwards(w http.ResponseWriter, r *http.Request) {
	reply("awards")(w, r)
}
func (fakeHandlers) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	reply("breakdown")(w, r)
}
func (fakeHandlers) HandleExport(w http.ResponseWriter, r *http.Request) { reply("export")(w, r) }
func (fakeHandlers) HandleChart(w http.ResponseWriter, r *http.Request)  { reply("chart")(w, r) }
func (fakeHandlers) HandlePenalties(w http.ResponseWriter, r *http.Request) {
	reply("penalties")(w, r)
}

var _ rosterhandlers.Handlers = fakeHandlers{}

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter(fakeHandlers{}, prometheus.NewRegistry(), Config{})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/players", "list:"},
		{http.MethodPost, "/api/players", "add:"},
		{http.MethodGet, "/api/players/Bob", "get:Bob"},
		{http.MethodGet, "/api/players/Player%20One", "get:Player One"},
		{http.MethodPatch, "/api/players/Bob", "update:Bob"},
		{http.MethodPost, "/api/scores/compute", "compute:"},
		{http.MethodPost, "/api/scores/awards", "awards:"},
		{http.MethodGet, "/api/scores/breakdown", "breakdown:"},
		{http.MethodGet, "/api/export.xlsx", "export:"},
		{http.MethodGet, "/api/chart.png", "chart:"},
		{http.MethodGet, "/api/penalties", "penalties:"},
		{http.MethodGet, "/healthz", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get(rosterhandlers.RequestIDHeader))
		})
	}
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	router := NewRouter(fakeHandlers{}, nil, Config{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/scores/compute", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNewRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "scorekeeper_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rr := httptest.NewRecorder()
	NewRouter(fakeHandlers{}, reg, Config{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "scorekeeper_test_total 1")
}

func TestNewRouter_RateLimit(t *testing.T) {
	router := NewRouter(fakeHandlers{}, nil, Config{RateLimit: 1, Burst: 1})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/players", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/players", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}
