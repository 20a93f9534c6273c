package agent

import (
	"context"
	"fmt"
	"github.com/mkeskinen/mimicry/internal/game"
)

// Scripted is a deterministic Responder with canned lines. It keeps tests and
// offline play independent of any provider.
type Scripted struct {
	roster []game.ID
}

// NewScripted creates a scripted responder for the given roster.
func NewScripted(roster []game.ID) *Scripted {
	return &Scripted{roster: append([]game.ID(nil), roster...)}
}

func (s *Scripted) AskQuestion(
	_ context.Context, _ game.ID, target game.ID, _ string) (string, error) {
	return fmt.Sprintf("Mr. %s, how many parameters do you have?", target), nil
}

func (s *Scripted) AnswerQuestion(
	_ context.Context, answerer game.ID, _ string, _ string) (string, error) {
	return fmt.Sprintf("As a language model, Mr. %s has no opinion either way.", answerer), nil
}

// GuessHuman accuses the first roster member other than the guesser, in the
// format the guessing prompt demands so that ParseGuess exercises the real
// extraction path.
func (s *Scripted) GuessHuman(_ context.Context, guesser game.ID, _ string) (string, error) {
	for _, id := range s.roster {
		if id != guesser {
			return fmt.Sprintf("I think Mr. %s is the human because they hesitated.", id), nil
		}
	}
	return fmt.Sprintf("I think Mr. %s is the human because nobody else is left.", guesser), nil
}
