package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rps-game/api/datastore"
	"github.com/rps-game/api/game"
	"github.com/rps-game/api/models"
	"github.com/rps-game/api/ranking"
	"github.com/rps-game/api/scheduler"
)

type fixedSource struct{ choice models.Choice }

func (f fixedSource) Choose() models.Choice { return f.choice }

type testServer struct {
	app     *Application
	handler http.Handler
	clock   *scheduler.Manual
	slot    *datastore.MemorySlot
}

func newTestServer(t *testing.T, computer models.Choice) *testServer {
	t.Helper()
	clock := scheduler.NewManual()
	slot := datastore.NewMemorySlot()
	repo, err := datastore.NewRankingDatabase(slot, "")
	if err != nil {
		t.Fatalf("ranking repo: %v", err)
	}
	app := &Application{
		Config: Config{
			AllowedOrigins: []string{"https://rps.example.com"},
		},
		Game: game.NewSession(
			game.WithScheduler(clock),
			game.WithChoiceSource(fixedSource{computer}),
		),
		Ranking:  ranking.NewStore(repo),
		Location: time.UTC,
	}
	return &testServer{
		app:     app,
		handler: app.BuildRoutes(http.NewServeMux()),
		clock:   clock,
		slot:    slot,
	}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// playGame starts a game of n rounds and plays rock every round.
func (ts *testServer) playGame(t *testing.T, n int) {
	t.Helper()
	if rec := ts.do(t, http.MethodPost, "/v1/game/start", `{"roundCount":`+itoa(n)+`}`); rec.Code != http.StatusOK {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	for i := 0; i < n; i++ {
		if rec := ts.do(t, http.MethodPost, "/v1/game/choice", `{"choice":"rock"}`); rec.Code != http.StatusAccepted {
			t.Fatalf("choice %d: %d %s", i, rec.Code, rec.Body)
		}
		ts.clock.Advance(game.DefaultResolveDelay)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
	return v
}

func TestHome(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	rec := ts.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Rock Paper Scissors") {
		t.Fatalf("unexpected home: %d %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestGameOptions(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	rec := ts.do(t, http.MethodGet, "/v1/game/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("options: %d", rec.Code)
	}
	opts := decode[optionsView](t, rec)
	if len(opts.RoundCounts) != 3 || opts.RoundCounts[2].RoundCount != 10 || opts.RoundCounts[2].MaxPoints != 30 {
		t.Fatalf("unexpected round options %+v", opts.RoundCounts)
	}
	if !opts.RoundCounts[1].Default {
		t.Fatal("expected 5 rounds to be the default")
	}
	if len(opts.Choices) != 3 || opts.Choices[0].Value != models.Scissors {
		t.Fatalf("unexpected choice order %+v", opts.Choices)
	}
	if len(opts.Grades) != 5 || opts.Grades[0].Threshold != 90 {
		t.Fatalf("unexpected grade guide %+v", opts.Grades)
	}
}

func TestStartRejectsBadRoundCount(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	rec := ts.do(t, http.MethodPost, "/v1/game/start", `{"roundCount":4}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	herr := decode[HandlerError](t, rec)
	if herr.ErrorName != "Bad Request" || herr.CallerInfo == "" {
		t.Fatalf("unexpected error body %+v", herr)
	}

	if rec := ts.do(t, http.MethodPost, "/v1/game/start", `{bad`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/v1/game/start", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestStartDefaultsRoundCount(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	rec := ts.do(t, http.MethodPost, "/v1/game/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	view := decode[gameView](t, rec)
	if view.RoundCount != models.DefaultRoundCount || view.Phase != models.PhasePlaying || view.CurrentRoundNumber != 1 {
		t.Fatalf("unexpected game %+v", view)
	}
}

func TestChoiceFlow(t *testing.T) {
	ts := newTestServer(t, models.Scissors)
	ts.do(t, http.MethodPost, "/v1/game/start", `{"roundCount":3}`)

	rec := ts.do(t, http.MethodPost, "/v1/game/choice", `{"choice":"rock"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	resp := decode[choiceResponse](t, rec)
	if !resp.Accepted || !resp.Game.IsAnimating || resp.Game.CurrentRound != nil {
		t.Fatalf("unexpected pending response %+v", resp)
	}

	rec = ts.do(t, http.MethodPost, "/v1/game/choice", `{"choice":"paper"}`)
	if rec.Code != http.StatusOK || decode[choiceResponse](t, rec).Accepted {
		t.Fatalf("expected ignored submission, got %d %s", rec.Code, rec.Body)
	}

	ts.clock.Advance(game.DefaultResolveDelay)
	view := decode[gameView](t, ts.do(t, http.MethodGet, "/v1/game", ""))
	if view.CurrentRound == nil || view.CurrentRound.Result != models.Win || view.CurrentRound.Message == "" {
		t.Fatalf("unexpected round view %+v", view.CurrentRound)
	}
	if view.TotalPoints != 3 || view.CurrentRoundNumber != 2 || view.IsAnimating {
		t.Fatalf("unexpected game view %+v", view)
	}
	if view.CurrentRound.ComputerChoice.Label != models.Scissors.Label() {
		t.Fatalf("expected labelled computer choice, got %+v", view.CurrentRound.ComputerChoice)
	}
}

func TestChoiceRejectsUnknownValue(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	ts.do(t, http.MethodPost, "/v1/game/start", `{"roundCount":3}`)
	if rec := ts.do(t, http.MethodPost, "/v1/game/choice", `{"choice":"lizard"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFinishedGameShowsGrade(t *testing.T) {
	ts := newTestServer(t, models.Scissors)
	ts.playGame(t, 3)

	view := decode[gameView](t, ts.do(t, http.MethodGet, "/v1/game", ""))
	if view.Phase != models.PhaseFinished || view.Result == nil {
		t.Fatalf("expected finished game with result, got %+v", view)
	}
	if view.Result.AchievementRate != 100 || view.Result.Label != "전설" || view.Result.Breakdown.Win != 9 {
		t.Fatalf("unexpected result %+v", view.Result)
	}
	if view.TotalPointsLabel != "9점" {
		t.Fatalf("unexpected points label %q", view.TotalPointsLabel)
	}
}

func TestResetGame(t *testing.T) {
	ts := newTestServer(t, models.Scissors)
	ts.playGame(t, 3)
	rec := ts.do(t, http.MethodPost, "/v1/game/reset", "")
	view := decode[gameView](t, rec)
	if view.Phase != models.PhaseSetup || view.TotalPoints != 0 || view.Result != nil {
		t.Fatalf("unexpected state after reset %+v", view)
	}
}

func TestSubmitRankingOncePerGame(t *testing.T) {
	ts := newTestServer(t, models.Scissors)

	if rec := ts.do(t, http.MethodPost, "/v1/rankings", `{"playerName":"lee"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before any game, got %d", rec.Code)
	}

	ts.playGame(t, 3)
	rec := ts.do(t, http.MethodPost, "/v1/rankings", `{"playerName":"  lee  "}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	resp := decode[submitRankingResponse](t, rec)
	if resp.Rank != 1 || !resp.Ranked || resp.ID == "" {
		t.Fatalf("unexpected submit response %+v", resp)
	}

	if rec := ts.do(t, http.MethodPost, "/v1/rankings", `{"playerName":"lee"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second submission, got %d", rec.Code)
	}
	if view := decode[gameView](t, ts.do(t, http.MethodGet, "/v1/game", "")); !view.Submitted {
		t.Fatal("expected game to be marked submitted")
	}

	if _, err := ts.slot.Get(datastore.DefaultRankingKey); err != nil {
		t.Fatalf("expected ranking persisted: %v", err)
	}

	entries := decode[[]rankingView](t, ts.do(t, http.MethodGet, "/v1/rankings?highlight="+resp.ID, ""))
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.PlayerName != "lee" || e.Rank != 1 || e.Medal != "🥇" || !e.Highlight || e.TotalPoints != 9 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Date != e.CreatedAt.UTC().Format(dateLayout) {
		t.Fatalf("unexpected date %q", e.Date)
	}
}

func TestSubmitRankingPlaceholderName(t *testing.T) {
	ts := newTestServer(t, models.Rock)
	ts.playGame(t, 3)
	rec := ts.do(t, http.MethodPost, "/v1/rankings", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	entries := decode[[]rankingView](t, ts.do(t, http.MethodGet, "/v1/rankings", ""))
	if entries[0].PlayerName != models.AnonymousName || entries[0].Highlight {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestRankLookupAndClear(t *testing.T) {
	ts := newTestServer(t, models.Scissors)
	ts.playGame(t, 3)
	resp := decode[submitRankingResponse](t, ts.do(t, http.MethodPost, "/v1/rankings", `{"playerName":"kim"}`))

	rec := ts.do(t, http.MethodGet, "/v1/rankings/rank?id="+resp.ID, "")
	if rec.Code != http.StatusOK || decode[rankResponse](t, rec).Rank != 1 {
		t.Fatalf("rank lookup: %d %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodGet, "/v1/rankings/rank", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", rec.Code)
	}

	if rec := ts.do(t, http.MethodDelete, "/v1/rankings", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear: %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/v1/rankings/rank?id="+resp.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after clear, got %d", rec.Code)
	}
	if entries := decode[[]rankingView](t, ts.do(t, http.MethodGet, "/v1/rankings", "")); len(entries) != 0 {
		t.Fatalf("expected empty board, got %d", len(entries))
	}
	if rec := ts.do(t, http.MethodPut, "/v1/rankings", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestMedals(t *testing.T) {
	tests := map[int]string{0: "", 1: "🥇", 2: "🥈", 3: "🥉", 4: ""}
	for rank, want := range tests {
		if got := medalFor(rank); got != want {
			t.Errorf("medalFor(%d) = %q, want %q", rank, got, want)
		}
	}
}

func TestPointsLabelGroupsDigits(t *testing.T) {
	if got := pointsLabel(1234); got != "1,234점" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestOriginPolicy(t *testing.T) {
	ts := newTestServer(t, models.Rock)

	req := httptest.NewRequest(http.MethodGet, "/v1/game", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/v1/game", nil)
	req.Header.Set("Origin", "https://rps.example.com")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "https://rps.example.com" {
		t.Fatalf("unexpected preflight: %d %v", rec.Code, rec.Header())
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"https://rps.example.com"}
	if !isAllowedOrigin("https://rps.example.com/play", allowed, false) {
		t.Fatal("expected configured origin allowed")
	}
	if isAllowedOrigin("http://localhost:5173", allowed, false) {
		t.Fatal("localhost should need dev mode")
	}
	if !isAllowedOrigin("http://localhost:5173", allowed, true) {
		t.Fatal("expected localhost allowed in dev mode")
	}
}

func TestParseConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("RESOLVE_DELAY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.HTTPPort != ":9090" || cfg.StorageBackend != StorageFile || cfg.ResolveDelay != 250*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.RankingKey != datastore.DefaultRankingKey {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("STORAGE_BACKEND", "postgres")
	if _, err := ParseConfig(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}
