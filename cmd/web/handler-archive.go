package main

import (
	"database/sql"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/repositories"
	"log/slog"
	"net/http"
)

type archiveTemplateData struct {
	BaseTemplateData

	Games []repositories.GameSummary
}

func (app *application) archiveList(w http.ResponseWriter, r *http.Request) {
	games, err := app.archive.List(r.Context())
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list archived games"))
		return
	}
	data := archiveTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Games:            games,
	}
	app.render(w, r, http.StatusOK, "archive", data)
}

type archiveGameTemplateData struct {
	BaseTemplateData

	Game repositories.GameRecord
}

func (app *application) archiveGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	record, err := app.archive.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "get archived game", slog.String("id", id)))
		return
	}
	data := archiveGameTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Game:             *record,
	}
	app.render(w, r, http.StatusOK, "archivegame", data)
}
