package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/sqlite"
)

// GameRecord is a finished game as stored in the archive.
type GameRecord struct {
	ID         string
	FinishedAt time.Time
	Human      game.ID
	HumanWon   bool
	Turns      []game.Turn
	Verdicts   []game.Verdict
}

// GameSummary is the archive listing row for a finished game.
type GameSummary struct {
	ID         string
	FinishedAt time.Time
	Human      game.ID
	HumanWon   bool
	TurnCount  int
}

type ArchiveRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewArchiveRepository(dbs *sqlite.Database, logger *slog.Logger) *ArchiveRepository {
	return &ArchiveRepository{
		dbs:    dbs,
		logger: logger.With("source", "ArchiveRepository"),
	}
}

// Save writes a finished game with its turns and verdicts in one transaction.
func (r *ArchiveRepository) Save(ctx context.Context, record GameRecord) error {
	var (
		tx  *sql.Tx
		err error
	)
	if tx, err = r.dbs.ReadWrite.BeginTx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "could not rollback transaction",
				errors.SlogError(errors.Wrap(rollbackErr, "rollback transaction")))
		}
	}()

	stmt := `INSERT INTO games (id, finished_at, human_id, human_won)
VALUES (@id, @finished_at, @human_id, @human_won)`
	params := []any{
		sql.Named("id", record.ID),
		sql.Named("finished_at", record.FinishedAt.UTC().Format(time.RFC3339)),
		sql.Named("human_id", string(record.Human)),
		sql.Named("human_won", record.HumanWon),
	}
	if _, err = tx.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert game", slog.String("id", record.ID))
	}

	stmt = `INSERT INTO turns (game_id, "order", asker_id, target_id, question, answer)
VALUES (@game_id, @order, @asker_id, @target_id, @question, @answer)`
	for i, turn := range record.Turns {
		params = []any{
			sql.Named("game_id", record.ID),
			sql.Named("order", i),
			sql.Named("asker_id", string(turn.Asker)),
			sql.Named("target_id", string(turn.Target)),
			sql.Named("question", turn.Question),
			sql.Named("answer", turn.Answer),
		}
		if _, err = tx.ExecContext(ctx, stmt, params...); err != nil {
			return errors.Wrap(err, "insert turn", slog.String("id", record.ID), slog.Int("order", i))
		}
	}

	stmt = `INSERT INTO verdicts (game_id, voter_id, suspect_id, justification)
VALUES (@game_id, @voter_id, @suspect_id, @justification)`
	for _, verdict := range record.Verdicts {
		params = []any{
			sql.Named("game_id", record.ID),
			sql.Named("voter_id", string(verdict.Voter)),
			sql.Named("suspect_id", string(verdict.Suspect)),
			sql.Named("justification", verdict.Justification),
		}
		if _, err = tx.ExecContext(ctx, stmt, params...); err != nil {
			return errors.Wrap(err, "insert verdict",
				slog.String("id", record.ID),
				slog.String("voter", string(verdict.Voter)))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// List returns summaries of all archived games, newest first.
func (r *ArchiveRepository) List(ctx context.Context) ([]GameSummary, error) {
	var (
		summaries []GameSummary
		rows      *sql.Rows
		err       error
	)

	stmt := `SELECT g.id, g.finished_at, g.human_id, g.human_won, COUNT(t.game_id)
FROM games g
         LEFT JOIN turns t ON t.game_id = g.id
GROUP BY g.id
ORDER BY g.finished_at DESC, g.id`
	if rows, err = r.dbs.ReadOnly.QueryContext(ctx, stmt); err != nil {
		return nil, errors.Wrap(err, "query games")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			r.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var (
			summary    GameSummary
			finishedAt string
			humanID    string
		)
		if err = rows.Scan(&summary.ID, &finishedAt, &humanID, &summary.HumanWon, &summary.TurnCount); err != nil {
			return nil, errors.Wrap(err, "scan game")
		}
		if summary.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, errors.Wrap(err, "parse finished_at", slog.String("id", summary.ID))
		}
		summary.Human = game.ID(humanID)
		summaries = append(summaries, summary)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	return summaries, nil
}

// Get returns one archived game with its full transcript and verdicts.
// Fails with sql.ErrNoRows when the game is not in the archive.
func (r *ArchiveRepository) Get(ctx context.Context, id string) (*GameRecord, error) {
	var (
		record     GameRecord
		finishedAt string
		humanID    string
		rows       *sql.Rows
		err        error
	)

	stmt := `SELECT id, finished_at, human_id, human_won FROM games WHERE id = ?`
	if err = r.dbs.ReadOnly.QueryRowContext(ctx, stmt, id).Scan(
		&record.ID,
		&finishedAt,
		&humanID,
		&record.HumanWon,
	); err != nil {
		return nil, errors.Wrap(err, "read game", slog.String("id", id))
	}
	if record.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, errors.Wrap(err, "parse finished_at", slog.String("id", id))
	}
	record.Human = game.ID(humanID)

	stmt = `SELECT asker_id, target_id, question, answer
FROM turns
WHERE game_id = ?
ORDER BY "order"`
	if rows, err = r.dbs.ReadOnly.QueryContext(ctx, stmt, id); err != nil {
		return nil, errors.Wrap(err, "query turns")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			r.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var (
			turn   game.Turn
			asker  string
			target string
		)
		if err = rows.Scan(&asker, &target, &turn.Question, &turn.Answer); err != nil {
			return nil, errors.Wrap(err, "scan turn")
		}
		turn.Asker = game.ID(asker)
		turn.Target = game.ID(target)
		turn.Status = game.Answered
		record.Turns = append(record.Turns, turn)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	stmt = `SELECT voter_id, suspect_id, justification FROM verdicts WHERE game_id = ? ORDER BY rowid`
	var verdictRows *sql.Rows
	if verdictRows, err = r.dbs.ReadOnly.QueryContext(ctx, stmt, id); err != nil {
		return nil, errors.Wrap(err, "query verdicts")
	}
	defer func() {
		if err = verdictRows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			r.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for verdictRows.Next() {
		var (
			verdict game.Verdict
			voter   string
			suspect string
		)
		if err = verdictRows.Scan(&voter, &suspect, &verdict.Justification); err != nil {
			return nil, errors.Wrap(err, "scan verdict")
		}
		verdict.Voter = game.ID(voter)
		verdict.Suspect = game.ID(suspect)
		record.Verdicts = append(record.Verdicts, verdict)
	}
	if err = verdictRows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	return &record, nil
}
