// Package agent produces the questions, answers, and guesses of the
// LLM-controlled participants.
package agent

import (
	"context"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
)

// Provider errors. They propagate to the caller unchanged; the game core
// performs no retries, the pending turn stays in place so the same step can
// be attempted again.
var (
	ErrProviderUnavailable = errors.NewSentinel("provider unavailable")
	ErrProviderTimeout     = errors.NewSentinel("provider timeout")
)

// Responder is the capability an agent participant needs to play: ask a
// question, answer one, and guess who the human is. transcript is the
// formatted conversation so far, empty at the start of the game.
//
// Implementations may block on network I/O and should honor ctx deadlines.
// Failures are reported as ErrProviderUnavailable or ErrProviderTimeout.
type Responder interface {
	AskQuestion(ctx context.Context, asker game.ID, target game.ID, transcript string) (string, error)
	AnswerQuestion(ctx context.Context, answerer game.ID, transcript string, question string) (string, error)
	GuessHuman(ctx context.Context, guesser game.ID, transcript string) (string, error)
}
