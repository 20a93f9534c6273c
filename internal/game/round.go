package game

import (
	"github.com/mkeskinen/mimicry/internal/errors"
	"log/slog"
	"math/rand"
	"time"
)

// TurnStatus is the lifecycle of a Turn: Pending until the target answers.
type TurnStatus int

const (
	Pending TurnStatus = iota
	Answered
)

// Turn is one question from Asker to Target with the eventual answer.
// Turns are append-only history; once Answered they never change.
type Turn struct {
	Asker    ID
	Target   ID
	Question string
	Answer   string
	Status   TurnStatus
}

// State of the round.
type State int

const (
	InProgress State = iota
	Complete
)

// Round drives the question/answer sequence of one game. Each participant asks
// exactly once and answers at most once. The round completes when nobody is
// left with an unused question.
//
// The round is single-owner state: it is mutated only through its own methods
// and never shared between goroutines without external synchronization.
type Round struct {
	roster       *Roster
	participants map[ID]*Participant
	turns        []Turn
	state        State
	// currentAsker is the participant eligible to pose the next question.
	// Empty once the round is complete.
	currentAsker ID
	// pendingTurn indexes into turns while a question awaits its answer, -1 otherwise.
	pendingTurn int
	// answerOrder records participants in the order they answered. The most
	// recent answerer who has not asked yet becomes the next asker.
	answerOrder []ID
	logger      *slog.Logger
}

// Option configures a Round.
type Option func(*roundConfig)

type roundConfig struct {
	seed       int64
	seeded     bool
	firstAsker ID
}

// WithSeed seeds the random pick of the first asker for deterministic games.
func WithSeed(seed int64) Option {
	return func(cfg *roundConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithFirstAsker skips the random pick and starts the round with the given
// participant. Mainly for tests that need a fully scripted game.
func WithFirstAsker(id ID) Option {
	return func(cfg *roundConfig) {
		cfg.firstAsker = id
	}
}

// NewRound starts a round for the given roster. The first asker is picked
// uniformly at random unless an option says otherwise.
func NewRound(roster *Roster, logger *slog.Logger, opts ...Option) (*Round, error) {
	var cfg roundConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	participants := make(map[ID]*Participant, roster.Len())
	for _, id := range roster.IDs() {
		participants[id] = &Participant{
			ID:          id,
			Kind:        roster.KindOf(id),
			HasAsked:    false,
			HasAnswered: false,
		}
	}

	firstAsker := cfg.firstAsker
	if firstAsker != "" {
		if !roster.Contains(firstAsker) {
			return nil, errors.Wrap(ErrInvalidSetup, "first asker not in roster",
				slog.String("id", string(firstAsker)))
		}
	} else {
		seed := cfg.seed
		if !cfg.seeded {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed)) //nolint:gosec // first-asker pick is not security sensitive.
		ids := roster.IDs()
		firstAsker = ids[rng.Intn(len(ids))]
	}

	round := Round{
		roster:       roster,
		participants: participants,
		turns:        nil,
		state:        InProgress,
		currentAsker: firstAsker,
		pendingTurn:  -1,
		answerOrder:  nil,
		logger:       logger.With("source", "Round"),
	}
	round.logger.Info("round started",
		slog.String("first_asker", string(firstAsker)),
		slog.Int("participants", roster.Len()))
	return &round, nil
}

// PoseQuestion appends a pending turn from asker to target.
//
// Fails with ErrNotAskersTurn unless asker is the participant currently
// eligible to ask, and with ErrInvalidTarget when target is the asker itself,
// unknown, or has already answered this round.
func (r *Round) PoseQuestion(asker ID, target ID, question string) error {
	if r.state == Complete || asker != r.currentAsker || r.pendingTurn != -1 {
		return errors.Wrap(ErrNotAskersTurn, "pose question",
			slog.String("asker", string(asker)),
			slog.String("current_asker", string(r.currentAsker)))
	}
	targetParticipant, known := r.participants[target]
	if !known || target == asker || targetParticipant.HasAnswered {
		return errors.Wrap(ErrInvalidTarget, "pose question",
			slog.String("asker", string(asker)),
			slog.String("target", string(target)))
	}

	r.turns = append(r.turns, Turn{
		Asker:    asker,
		Target:   target,
		Question: question,
		Answer:   "",
		Status:   Pending,
	})
	r.pendingTurn = len(r.turns) - 1
	r.participants[asker].HasAsked = true
	r.logger.Info("question posed",
		slog.String("asker", string(asker)),
		slog.String("target", string(target)))
	return nil
}

// SubmitAnswer resolves the pending turn addressed to target and determines
// the next eligible asker. Fails with ErrNoPendingTurn when no pending turn is
// addressed to target.
func (r *Round) SubmitAnswer(target ID, answer string) error {
	if r.pendingTurn == -1 || r.turns[r.pendingTurn].Target != target {
		return errors.Wrap(ErrNoPendingTurn, "submit answer", slog.String("target", string(target)))
	}

	r.turns[r.pendingTurn].Answer = answer
	r.turns[r.pendingTurn].Status = Answered
	r.pendingTurn = -1
	r.participants[target].HasAnswered = true
	r.answerOrder = append(r.answerOrder, target)
	r.logger.Info("answer submitted", slog.String("target", string(target)))

	r.currentAsker = r.nextAsker()
	// The round also ends when the next asker has nobody left to question,
	// i.e. every other participant has already answered. Terminal, not an
	// error: some asker/answer pairing was simply never exercised.
	if r.currentAsker != "" && len(r.AvailableTargets(r.currentAsker)) == 0 {
		r.currentAsker = ""
	}
	if r.currentAsker == "" {
		r.state = Complete
		r.logger.Info("round complete", slog.Int("turns", len(r.turns)))
	}
	return nil
}

// nextAsker picks the next participant with an unused question: the most
// recent answerer first, then earlier answerers, then roster order. Returns
// the empty ID when everybody has asked, which completes the round even if
// some participant never got to answer.
func (r *Round) nextAsker() ID {
	for i := len(r.answerOrder) - 1; i >= 0; i-- {
		if id := r.answerOrder[i]; !r.participants[id].HasAsked {
			return id
		}
	}
	for _, id := range r.roster.IDs() {
		if !r.participants[id].HasAsked {
			return id
		}
	}
	return ""
}

// IsComplete reports whether the round has ended.
func (r *Round) IsComplete() bool {
	return r.state == Complete
}

// CurrentAsker returns the participant eligible to pose the next question.
// The second return value is false while an answer is outstanding or after
// the round has completed.
func (r *Round) CurrentAsker() (ID, bool) {
	if r.state == Complete || r.pendingTurn != -1 {
		return "", false
	}
	return r.currentAsker, true
}

// PendingTurn returns the turn awaiting an answer, if any.
func (r *Round) PendingTurn() (Turn, bool) {
	if r.pendingTurn == -1 {
		return Turn{}, false //nolint:exhaustruct // zero turn on the error path.
	}
	return r.turns[r.pendingTurn], true
}

// Turns returns a copy of the turn history in chronological order.
func (r *Round) Turns() []Turn {
	return append([]Turn(nil), r.turns...)
}

// AnswerOrder returns the participants in the order they answered.
func (r *Round) AnswerOrder() []ID {
	return append([]ID(nil), r.answerOrder...)
}

// Participant returns a snapshot of the given participant's round state.
func (r *Round) Participant(id ID) (Participant, bool) {
	p, ok := r.participants[id]
	if !ok {
		return Participant{}, false //nolint:exhaustruct // zero participant on the error path.
	}
	return *p, true
}

// AvailableTargets lists who the asker may direct a question at: not
// themselves and nobody who already answered. Participants who already asked
// are kept for last so that the ask-answer chain reaches everybody before it
// runs out of fresh askers.
func (r *Round) AvailableTargets(asker ID) []ID {
	var fresh, asked []ID
	for _, id := range r.roster.IDs() {
		p := r.participants[id]
		if id == asker || p.HasAnswered {
			continue
		}
		if p.HasAsked {
			asked = append(asked, id)
			continue
		}
		fresh = append(fresh, id)
	}
	if len(fresh) > 0 {
		return fresh
	}
	return asked
}
