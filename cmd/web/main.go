package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/mkeskinen/mimicry/internal/agent"
	"github.com/mkeskinen/mimicry/internal/envstruct"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/logging"
	"github.com/mkeskinen/mimicry/internal/pprofserver"
	"github.com/mkeskinen/mimicry/internal/repositories"
	"github.com/mkeskinen/mimicry/internal/sqlite"
	"github.com/mkeskinen/mimicry/internal/store"
	"log/slog"
	"os"
	"time"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	responder      agent.Responder
	games          *store.GameStore
	archive        *repositories.ArchiveRepository
}

type configuration struct {
	// Addr is the address the server listens on, e.g. "localhost:4000". Port 0 picks a free port.
	Addr string `env:"MIMICRY_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the localhost pprof port, e.g. ":6060". Empty disables the pprof server.
	PprofPort string `env:"MIMICRY_PPROF_PORT" envDefault:""`
	// SqliteURL is the path to the SQLite database file or ":memory:" for an in-memory database.
	SqliteURL string `env:"MIMICRY_SQLITE_URL" envDefault:"./mimicry.sqlite"`
	// AgentModel is the completion model the machine players run on.
	AgentModel string `env:"MIMICRY_AGENT_MODEL" envDefault:"gpt-4o-mini"`
	// FakeAgents switches the machine players to canned responses, meant for tests and local development.
	FakeAgents string `env:"MIMICRY_FAKE_AGENTS" envDefault:"false"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg configuration
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate configuration")
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofserver.Launch(cfg.PprofPort, logger)

	var dbs *sqlite.Database
	if dbs, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to database", slog.String("url", cfg.SqliteURL))

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	var responder agent.Responder
	if cfg.FakeAgents == "true" {
		responder = agent.NewScripted(game.DefaultColors)
	} else {
		responder = agent.NewClient(cfg.AgentModel, logger)
	}

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		responder:      responder,
		games:          store.NewGameStore(),
		archive:        repositories.NewArchiveRepository(dbs, logger),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})
	logger := slog.New(logging.NewContextHandler(loggerHandler))

	// A missing .env file is fine, the environment can come from elsewhere.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err.Error())
	}

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
