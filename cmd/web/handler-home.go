package main

import (
	"net/http"
)

type homeTemplateData struct {
	BaseTemplateData
}

// home shows the session's live game, or the start page when there is none.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	id := app.sessionManager.GetString(r.Context(), gameIDSessionKey)
	if id != "" {
		if d, ok := app.games.Get(id); ok {
			app.renderGame(w, r, id, d)
			return
		}
	}

	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
	}

	app.render(w, r, http.StatusOK, "home", data)
}
