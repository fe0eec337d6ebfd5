package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/rps-game/api/models"
)

type startGameRequest struct {
	RoundCount *int `json:"roundCount"`
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

type choiceResponse struct {
	Accepted bool     `json:"accepted"`
	Game     gameView `json:"game"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// decodeBody decodes an optional JSON body; an empty body leaves dst untouched
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (app *Application) currentGameView() gameView {
	state := app.Game.State()
	return newGameView(state, app.isSubmitted(state.Game))
}

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Rock Paper Scissors API")
}

// GET /v1/game/options
func (app *Application) getGameOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	writeJSON(w, http.StatusOK, newOptionsView())
}

// GET /v1/game
func (app *Application) getGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	writeJSON(w, http.StatusOK, app.currentGameView())
}

// POST /v1/game/start
func (app *Application) startGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	var req startGameRequest
	if err := decodeBody(r, &req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	roundCount := models.DefaultRoundCount
	if req.RoundCount != nil {
		roundCount = *req.RoundCount
	}

	if err := app.Game.Start(roundCount); err != nil {
		app.badRequest(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, app.currentGameView())
}

// POST /v1/game/choice
//
// Accepted choices resolve after the session delay; poll GET /v1/game for the
// result. A choice made while a round is resolving, or outside a game, is
// ignored and reported with accepted=false.
func (app *Application) submitChoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	choice, err := models.ParseChoice(req.Choice)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	accepted := app.Game.SubmitChoice(r.Context(), choice)
	status := http.StatusOK
	if accepted {
		status = http.StatusAccepted
	}
	writeJSON(w, status, choiceResponse{
		Accepted: accepted,
		Game:     app.currentGameView(),
	})
}

// POST /v1/game/reset
func (app *Application) resetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	app.Game.Reset()
	writeJSON(w, http.StatusOK, app.currentGameView())
}
