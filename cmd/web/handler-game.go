package main

import (
	"context"
	"github.com/mkeskinen/mimicry/internal/director"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/random"
	"github.com/mkeskinen/mimicry/internal/repositories"
	"log/slog"
	"net/http"
	"time"
)

type tallyRow struct {
	ID    game.ID
	Votes int
}

type gameTemplateData struct {
	BaseTemplateData

	You           game.ID
	Turns         []game.Turn
	Targets       []game.ID
	Suspects      []game.ID
	Pending       game.Turn
	AwaitQuestion bool
	AwaitAnswer   bool
	AwaitVerdict  bool
	Finished      bool
	Result        game.Result
	Tally         []tallyRow
}

// createGame starts a fresh game for the session, replacing any previous one.
func (app *application) createGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if previous := app.sessionManager.GetString(ctx, gameIDSessionKey); previous != "" {
		app.games.Delete(previous)
	}

	roster, err := game.NewRoster(game.DefaultColors, game.DefaultHuman)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "build roster"))
		return
	}
	d, err := director.New(roster, app.responder, app.logger)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "start game"))
		return
	}

	var idLength uint = 12
	id, err := random.Letters(idLength)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "generate game ID"))
		return
	}

	app.games.Put(id, d)
	app.sessionManager.Put(ctx, gameIDSessionKey, id)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentGame resolves the session's live game. It writes a 404 response and
// returns false when the session has none.
func (app *application) currentGame(w http.ResponseWriter, r *http.Request) (string, *director.Director, bool) {
	id := app.sessionManager.GetString(r.Context(), gameIDSessionKey)
	if id == "" {
		app.notFound(w, r)
		return "", nil, false
	}
	d, ok := app.games.Get(id)
	if !ok {
		app.notFound(w, r)
		return "", nil, false
	}
	return id, d, true
}

func (app *application) humanQuestion(w http.ResponseWriter, r *http.Request) {
	_, d, ok := app.currentGame(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	target := game.ID(r.PostForm.Get("target"))
	question := r.PostForm.Get("question")
	if question == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}

	if err := d.HumanQuestion(target, question); err != nil {
		if errors.Is(err, game.ErrNotAskersTurn) || errors.Is(err, game.ErrInvalidTarget) {
			app.clientError(w, r, http.StatusUnprocessableEntity)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "human question"))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) humanAnswer(w http.ResponseWriter, r *http.Request) {
	_, d, ok := app.currentGame(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	answer := r.PostForm.Get("answer")
	if answer == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}

	if err := d.HumanAnswer(answer); err != nil {
		if errors.Is(err, game.ErrNoPendingTurn) {
			app.clientError(w, r, http.StatusUnprocessableEntity)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "human answer"))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) humanVerdict(w http.ResponseWriter, r *http.Request) {
	_, d, ok := app.currentGame(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	suspect := game.ID(r.PostForm.Get("suspect"))
	justification := r.PostForm.Get("justification")

	if err := d.HumanVerdict(suspect, justification); err != nil {
		if errors.Is(err, game.ErrRoundNotComplete) ||
			errors.Is(err, game.ErrInvalidTarget) ||
			errors.Is(err, game.ErrDuplicateVerdict) {
			app.clientError(w, r, http.StatusUnprocessableEntity)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "human verdict"))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderGame advances the agents as far as possible and renders the game in
// whatever state it lands in. Since agent turns run on page load, reloading
// the page retries them after a provider failure.
func (app *application) renderGame(w http.ResponseWriter, r *http.Request, id string, d *director.Director) {
	ctx := r.Context()
	if d.Awaiting() == director.AwaitAgents {
		if err := d.Advance(ctx); err != nil {
			app.serverError(w, r, errors.Wrap(err, "advance game"))
			return
		}
	}
	if err := app.maybeArchive(ctx, id, d); err != nil {
		app.serverError(w, r, err)
		return
	}

	data := gameTemplateData{ //nolint:exhaustruct // the awaited state fills in the rest.
		BaseTemplateData: newBaseTemplateData(r),
		You:              d.Roster().Human(),
		Turns:            d.Turns(),
	}

	switch d.Awaiting() {
	case director.AwaitHumanQuestion:
		data.AwaitQuestion = true
		data.Targets = d.AvailableTargets()
	case director.AwaitHumanAnswer:
		data.AwaitAnswer = true
		data.Pending, _ = d.PendingQuestion()
	case director.AwaitHumanVerdict:
		data.AwaitVerdict = true
		data.Suspects = d.Roster().IDs()
	case director.AwaitNothing:
		result, err := d.Result()
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "game result"))
			return
		}
		data.Finished = true
		data.Result = result
		for _, pid := range d.Roster().IDs() {
			data.Tally = append(data.Tally, tallyRow{ID: pid, Votes: result.Tally[pid]})
		}
	case director.AwaitAgents:
		// Unreachable after Advance.
	}

	app.render(w, r, http.StatusOK, "game", data)
}

// maybeArchive writes a finished game to the archive exactly once.
func (app *application) maybeArchive(ctx context.Context, id string, d *director.Director) error {
	if !d.Finished() || d.Archived() {
		return nil
	}
	result, err := d.Result()
	if err != nil {
		return errors.Wrap(err, "game result")
	}
	record := repositories.GameRecord{
		ID:         id,
		FinishedAt: time.Now().UTC().Truncate(time.Second),
		Human:      result.Human,
		HumanWon:   result.HumanWon,
		Turns:      d.Turns(),
		Verdicts:   result.Verdicts,
	}
	if err = app.archive.Save(ctx, record); err != nil {
		return errors.Wrap(err, "archive game", slog.String("id", id))
	}
	d.MarkArchived()
	app.logger.LogAttrs(ctx, slog.LevelInfo, "game archived", slog.String("id", id))
	return nil
}
