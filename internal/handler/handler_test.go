package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/clock"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/handler"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/match"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/model"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository/file"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type api struct {
	router *gin.Engine
	clock  *fakeClock
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := file.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	fc := &fakeClock{t: time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)}
	timer := clock.New(blobs.TimerStates(), zerolog.Nop(), clock.WithNow(fc.Now))
	t.Cleanup(timer.Close)

	store := match.NewStore(blobs.MatchStates(), timer, match.Defaults{PeriodDuration: 25, TotalPeriods: 2}, zerolog.Nop())
	matchSvc := service.NewMatchService(store, zerolog.Nop())
	tournamentSvc := service.NewTournamentService(blobs.Tournaments(), zerolog.Nop())

	router := gin.New()
	handler.Register(router, nil, matchSvc, tournamentSvc)
	return &api{router: router, clock: fc}
}

func (a *api) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, handler.APIV1Prefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) state(t *testing.T) model.MatchState {
	t.Helper()
	w := a.do(t, http.MethodGet, "/match", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state model.MatchState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

// setupMatch runs the pre-match flow over HTTP and returns the home scorer's
// id.
func (a *api) setupMatch(t *testing.T) string {
	t.Helper()
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPut, "/match/teams/home", gin.H{"name": "Aurora"}).Code)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPut, "/match/teams/away", gin.H{"name": "Rivals"}).Code)

	w := a.do(t, http.MethodPost, "/match/teams/home/players", gin.H{"name": "Rossi", "number": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	var home model.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &home))

	w = a.do(t, http.MethodPost, "/match/teams/away/players", gin.H{"name": "Verdi", "kind": "opponent"})
	require.Equal(t, http.StatusCreated, w.Code)
	var away model.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &away))

	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPut, "/match/teams/home/starters", gin.H{"playerIds": []string{home.ID}}).Code)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPut, "/match/teams/away/starters", gin.H{"playerIds": []string{away.ID}}).Code)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, "/match/starters/confirm", nil).Code)
	return home.ID
}

func TestHealthEndpoints(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// guest mode: no external dependency, readiness degrades to liveness
	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadiness_FailingPinger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ready", handler.NewHealthHandler(pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})).Readiness)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestMatchFlowOverHTTP(t *testing.T) {
	a := newAPI(t)
	scorer := a.setupMatch(t)

	w := a.do(t, http.MethodPost, "/match/period/start", gin.H{"durationMinutes": 20})
	require.Equal(t, http.StatusOK, w.Code)

	a.clock.Advance(300 * time.Second)
	w = a.do(t, http.MethodPost, "/match/goals", gin.H{"team": "home", "playerId": scorer})
	require.Equal(t, http.StatusOK, w.Code)

	state := a.state(t)
	assert.Equal(t, 1, state.HomeTeam.Score)
	assert.Equal(t, 300, state.ElapsedTime)
	require.NotEmpty(t, state.Events)
	assert.Equal(t, model.EventGoal, state.Events[0].Type)
	assert.Equal(t, 300, state.Events[0].Timestamp)

	w = a.do(t, http.MethodPost, "/match/period/end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = a.state(t)
	require.Len(t, state.PeriodScores, 1)
	assert.True(t, state.NeedsStarterSelection)
}

func TestMatchEndpointErrors(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "bad side", method: http.MethodPut, path: "/match/teams/middle", body: gin.H{"name": "X"}, want: http.StatusBadRequest},
		{name: "empty team name", method: http.MethodPut, path: "/match/teams/home", body: gin.H{"name": ""}, want: http.StatusBadRequest},
		{name: "pause before start", method: http.MethodPost, path: "/match/pause", body: nil, want: http.StatusConflict},
		{name: "end period before start", method: http.MethodPost, path: "/match/period/end", body: nil, want: http.StatusConflict},
		{name: "start without starters", method: http.MethodPost, path: "/match/period/start", body: nil, want: http.StatusConflict},
		{name: "undo with empty ledger", method: http.MethodPost, path: "/match/undo", body: nil, want: http.StatusConflict},
		{name: "goal for unknown player", method: http.MethodPost, path: "/match/goals", body: gin.H{"team": "home", "playerId": ""}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGoalForUnknownPlayerIs404(t *testing.T) {
	a := newAPI(t)
	a.setupMatch(t)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/match/period/start", nil).Code)

	w := a.do(t, http.MethodPost, "/match/goals", gin.H{"team": "home", "playerId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTournamentFlowOverHTTP(t *testing.T) {
	a := newAPI(t)
	scorer := a.setupMatch(t)

	w := a.do(t, http.MethodPost, "/tournaments", gin.H{"name": "Spring Cup", "teamName": "Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tr model.Tournament
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))

	// the match is not over yet: folding is rejected
	w = a.do(t, http.MethodPost, "/tournaments/"+tr.ID+"/matches", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/match/period/start", nil).Code)
	a.clock.Advance(600 * time.Second)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, "/match/goals", gin.H{"team": "home", "playerId": scorer}).Code)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/match/end", nil).Code)

	w = a.do(t, http.MethodPost, "/tournaments/"+tr.ID+"/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	require.Len(t, tr.Matches, 1)
	require.Len(t, tr.Players, 1)
	assert.Equal(t, "Rossi", tr.Players[0].Name)
	assert.Equal(t, 1, tr.Players[0].Goals)

	w = a.do(t, http.MethodPost, "/tournaments/"+tr.ID+"/deactivate", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// a closed tournament rejects further matches
	w = a.do(t, http.MethodPost, "/tournaments/"+tr.ID+"/matches", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodGet, "/tournaments/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMinutesAndSummaryEndpoints(t *testing.T) {
	a := newAPI(t)
	scorer := a.setupMatch(t)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/match/period/start", nil).Code)
	a.clock.Advance(600 * time.Second)
	require.Equal(t, http.StatusOK,
		a.do(t, http.MethodPost, "/match/goals", gin.H{"team": "home", "playerId": scorer}).Code)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/match/end", nil).Code)

	w := a.do(t, http.MethodGet, "/match/minutes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var minutesResp struct {
		Players []struct {
			Name  string `json:"Name"`
			Total int    `json:"Total"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &minutesResp))
	require.Len(t, minutesResp.Players, 2)
	assert.Equal(t, 10, minutesResp.Players[0].Total)

	w = a.do(t, http.MethodGet, "/match/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aurora")
}
