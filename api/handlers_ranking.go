package api

import (
	"net/http"
	"strings"

	"github.com/rps-game/api/models"
)

type submitRankingRequest struct {
	PlayerName string `json:"playerName"`
}

type submitRankingResponse struct {
	ID string `json:"id"`
	// Rank is 0 when the entry did not make the board
	Rank   int  `json:"rank"`
	Ranked bool `json:"ranked"`
}

type rankResponse struct {
	ID   string `json:"id"`
	Rank int    `json:"rank"`
}

// /v1/rankings
func (app *Application) rankings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		app.getRankings(w, r)
	case http.MethodPost:
		app.submitRanking(w, r)
	case http.MethodDelete:
		app.clearRankings(w, r)
	default:
		app.methodNotAllowed(w, r, "GET, POST, DELETE")
	}
}

// GET /v1/rankings?highlight={id}
func (app *Application) getRankings(w http.ResponseWriter, r *http.Request) {
	highlight := strings.TrimSpace(r.URL.Query().Get("highlight"))
	entries := app.Ranking.Query()
	writeJSON(w, http.StatusOK, newRankingViews(entries, highlight, app.location()))
}

// POST /v1/rankings
//
// Submits the finished game under the given name. Each game can be submitted once.
func (app *Application) submitRanking(w http.ResponseWriter, r *http.Request) {
	var req submitRankingRequest
	if err := decodeBody(r, &req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	state := app.Game.State()
	if state.Phase != models.PhaseFinished {
		app.conflict(w, r, ErrGameNotFinished)
		return
	}
	if !app.claimSubmission(state.Game) {
		app.conflict(w, r, ErrAlreadySubmitted)
		return
	}

	id := app.Ranking.Add(req.PlayerName, state.TotalPoints, state.RoundCount, state.Score)
	rank, ok := app.Ranking.RankOf(id)

	writeJSON(w, http.StatusCreated, submitRankingResponse{
		ID:     id,
		Rank:   rank,
		Ranked: ok,
	})
}

// DELETE /v1/rankings
func (app *Application) clearRankings(w http.ResponseWriter, r *http.Request) {
	app.Ranking.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/rankings/rank?id={id}
func (app *Application) getRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		app.badRequest(w, r, errMissingID)
		return
	}

	rank, ok := app.Ranking.RankOf(id)
	if !ok {
		app.notFound(w, r, ErrRankingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{ID: id, Rank: rank})
}
