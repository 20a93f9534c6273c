package main

import (
	"github.com/justinas/alice"
	"github.com/mkeskinen/mimicry/ui"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServerFS(ui.Files)
	mux.Handle("GET /static/", cacheForeverHeaders(fileServer))

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /games", session.ThenFunc(app.createGame))
	mux.Handle("POST /games/question", session.ThenFunc(app.humanQuestion))
	mux.Handle("POST /games/answer", session.ThenFunc(app.humanAnswer))
	mux.Handle("POST /games/verdict", session.ThenFunc(app.humanVerdict))
	mux.Handle("GET /archive", session.ThenFunc(app.archiveList))
	mux.Handle("GET /archive/{id}", session.ThenFunc(app.archiveGame))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	standard := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders)

	return standard.Then(mux)
}
