// Package director runs a game end to end: it feeds agent turns to the
// round, collects agent verdicts, and pauses whenever the human has to act.
package director

import (
	"context"
	"fmt"
	"github.com/mkeskinen/mimicry/internal/agent"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

// Await tells what the game is blocked on.
type Await int

const (
	// AwaitAgents means the next action belongs to an agent; call Advance.
	AwaitAgents Await = iota
	AwaitHumanQuestion
	AwaitHumanAnswer
	AwaitHumanVerdict
	AwaitNothing // game finished
)

// Director owns one game session. It is driven synchronously: one call at a
// time, agent provider calls block until they return. Callers serialize
// access; the director itself holds no lock.
type Director struct {
	roster    *game.Roster
	round     *game.Round
	verdicts  *game.Verdicts
	responder agent.Responder
	rng       *rand.Rand
	logger    *slog.Logger
	archived  bool
}

// Option configures a Director.
type Option func(*config)

type config struct {
	seed       int64
	seeded     bool
	firstAsker game.ID
}

// WithSeed makes the first-asker pick and the agents' target picks
// deterministic.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithFirstAsker fixes the first asker, for tests.
func WithFirstAsker(id game.ID) Option {
	return func(cfg *config) {
		cfg.firstAsker = id
	}
}

// New starts a game for the roster.
func New(roster *game.Roster, responder agent.Responder, logger *slog.Logger, opts ...Option) (*Director, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	seed := cfg.seed
	if !cfg.seeded {
		seed = time.Now().UnixNano()
	}

	roundOpts := []game.Option{game.WithSeed(seed)}
	if cfg.firstAsker != "" {
		roundOpts = append(roundOpts, game.WithFirstAsker(cfg.firstAsker))
	}
	round, err := game.NewRound(roster, logger, roundOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "start round")
	}

	return &Director{
		roster:    roster,
		round:     round,
		verdicts:  game.NewVerdicts(round, logger),
		responder: responder,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // game randomness, not security sensitive.
		logger:    logger.With("source", "Director"),
		archived:  false,
	}, nil
}

// Awaiting reports what the game is blocked on.
func (d *Director) Awaiting() Await {
	if !d.round.IsComplete() {
		if pending, ok := d.round.PendingTurn(); ok {
			if d.roster.KindOf(pending.Target) == game.Human {
				return AwaitHumanAnswer
			}
			return AwaitAgents
		}
		asker, _ := d.round.CurrentAsker()
		if d.roster.KindOf(asker) == game.Human {
			return AwaitHumanQuestion
		}
		return AwaitAgents
	}
	voter, ok := d.nextVoter()
	if !ok {
		return AwaitNothing
	}
	if d.roster.KindOf(voter) == game.Human {
		return AwaitHumanVerdict
	}
	return AwaitAgents
}

// nextVoter returns the participant whose verdict is due: answer order first,
// then any roster member the round never got to.
func (d *Director) nextVoter() (game.ID, bool) {
	for _, id := range d.round.AnswerOrder() {
		if !d.verdicts.HasVoted(id) {
			return id, true
		}
	}
	for _, id := range d.roster.IDs() {
		if !d.verdicts.HasVoted(id) {
			return id, true
		}
	}
	return "", false
}

// Advance plays agent turns until the game needs the human or finishes.
//
// A provider failure is returned as-is and leaves the game state untouched;
// calling Advance again retries the same step.
func (d *Director) Advance(ctx context.Context) error {
	for d.Awaiting() == AwaitAgents {
		if err := d.stepAgent(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Director) stepAgent(ctx context.Context) error {
	if !d.round.IsComplete() {
		if pending, ok := d.round.PendingTurn(); ok {
			return d.agentAnswer(ctx, pending)
		}
		asker, _ := d.round.CurrentAsker()
		return d.agentAsk(ctx, asker)
	}
	voter, _ := d.nextVoter()
	return d.agentGuess(ctx, voter)
}

func (d *Director) agentAsk(ctx context.Context, asker game.ID) error {
	targets := d.round.AvailableTargets(asker)
	if len(targets) == 0 {
		// Unreachable: the round completes itself when no target is left.
		return errors.New("no available targets", slog.String("asker", string(asker)))
	}
	target := targets[d.rng.Intn(len(targets))]
	question, err := d.responder.AskQuestion(ctx, asker, target, d.transcript())
	if err != nil {
		return errors.Wrap(err, "agent ask", slog.String("asker", string(asker)))
	}
	if err = d.round.PoseQuestion(asker, target, strings.TrimSpace(question)); err != nil {
		return errors.Wrap(err, "record agent question", slog.String("asker", string(asker)))
	}
	return nil
}

func (d *Director) agentAnswer(ctx context.Context, pending game.Turn) error {
	answer, err := d.responder.AnswerQuestion(ctx, pending.Target, d.transcript(), pending.Question)
	if err != nil {
		return errors.Wrap(err, "agent answer", slog.String("target", string(pending.Target)))
	}
	if err = d.round.SubmitAnswer(pending.Target, strings.TrimSpace(answer)); err != nil {
		return errors.Wrap(err, "record agent answer", slog.String("target", string(pending.Target)))
	}
	return nil
}

func (d *Director) agentGuess(ctx context.Context, voter game.ID) error {
	response, err := d.responder.GuessHuman(ctx, voter, d.transcript())
	if err != nil {
		return errors.Wrap(err, "agent guess", slog.String("voter", string(voter)))
	}
	suspect, ok := agent.ParseGuess(response, d.roster.IDs())
	if !ok {
		// The original rule: an agent that breaks the guess format accuses itself.
		suspect = voter
	}
	if err = d.verdicts.Collect(voter, suspect, strings.TrimSpace(response)); err != nil {
		return errors.Wrap(err, "record agent verdict", slog.String("voter", string(voter)))
	}
	return nil
}

// HumanQuestion records the human's question. The round validates turn order
// and target eligibility.
func (d *Director) HumanQuestion(target game.ID, question string) error {
	return d.round.PoseQuestion(d.roster.Human(), target, strings.TrimSpace(question))
}

// HumanAnswer records the human's answer to the question directed at them.
func (d *Director) HumanAnswer(answer string) error {
	return d.round.SubmitAnswer(d.roster.Human(), strings.TrimSpace(answer))
}

// HumanVerdict records the human's guess.
func (d *Director) HumanVerdict(suspect game.ID, justification string) error {
	return d.verdicts.Collect(d.roster.Human(), suspect, strings.TrimSpace(justification))
}

// transcript formats the turn history for agent prompts, empty when no turn
// was played yet.
func (d *Director) transcript() string {
	var b strings.Builder
	for _, turn := range d.round.Turns() {
		fmt.Fprintf(&b, "Mr. %s asked Mr. %s: %s\n", turn.Asker, turn.Target, turn.Question)
		if turn.Status == game.Answered {
			fmt.Fprintf(&b, "Mr. %s answered: %s\n", turn.Target, turn.Answer)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Roster returns the participant roster.
func (d *Director) Roster() *game.Roster {
	return d.roster
}

// Turns returns the turn history.
func (d *Director) Turns() []game.Turn {
	return d.round.Turns()
}

// PendingQuestion returns the question awaiting the human's answer.
func (d *Director) PendingQuestion() (game.Turn, bool) {
	pending, ok := d.round.PendingTurn()
	if !ok || d.roster.KindOf(pending.Target) != game.Human {
		return game.Turn{}, false //nolint:exhaustruct // zero turn on the error path.
	}
	return pending, true
}

// AvailableTargets lists who the human may question.
func (d *Director) AvailableTargets() []game.ID {
	return d.round.AvailableTargets(d.roster.Human())
}

// Verdicts returns the verdicts submitted so far in submission order.
func (d *Director) Verdicts() []game.Verdict {
	return d.verdicts.All()
}

// Result returns the game outcome once every verdict is in.
func (d *Director) Result() (game.Result, error) {
	return d.verdicts.Result()
}

// Finished reports whether the game has ended, verdicts included.
func (d *Director) Finished() bool {
	return d.Awaiting() == AwaitNothing
}

// MarkArchived flags the game as written to the archive so it is stored once.
func (d *Director) MarkArchived() {
	d.archived = true
}

// Archived reports whether the game has been written to the archive.
func (d *Director) Archived() bool {
	return d.archived
}
