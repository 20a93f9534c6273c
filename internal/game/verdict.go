package game

import (
	"github.com/mkeskinen/mimicry/internal/errors"
	"log/slog"
)

// Verdict is one participant's guess at who the human is.
type Verdict struct {
	Voter         ID
	Suspect       ID
	Justification string
}

// Verdicts collects one verdict per participant once the round is complete.
type Verdicts struct {
	round   *Round
	byVoter map[ID]Verdict
	// order preserves submission order for display and archiving.
	order  []ID
	logger *slog.Logger
}

// NewVerdicts creates a collector bound to the given round.
func NewVerdicts(round *Round, logger *slog.Logger) *Verdicts {
	return &Verdicts{
		round:   round,
		byVoter: make(map[ID]Verdict, round.roster.Len()),
		order:   nil,
		logger:  logger.With("source", "Verdicts"),
	}
}

// Collect records the voter's verdict.
//
// Fails with ErrRoundNotComplete while the round is still in progress, with
// ErrDuplicateVerdict when the voter already submitted, and with
// ErrInvalidTarget when voter or suspect is not part of the roster. A
// participant may accuse themselves; agents that fail to commit to a guess
// do exactly that.
func (v *Verdicts) Collect(voter ID, suspect ID, justification string) error {
	if !v.round.IsComplete() {
		return errors.Wrap(ErrRoundNotComplete, "collect verdict", slog.String("voter", string(voter)))
	}
	if !v.round.roster.Contains(voter) || !v.round.roster.Contains(suspect) {
		return errors.Wrap(ErrInvalidTarget, "collect verdict",
			slog.String("voter", string(voter)),
			slog.String("suspect", string(suspect)))
	}
	if _, submitted := v.byVoter[voter]; submitted {
		return errors.Wrap(ErrDuplicateVerdict, "collect verdict", slog.String("voter", string(voter)))
	}

	v.byVoter[voter] = Verdict{
		Voter:         voter,
		Suspect:       suspect,
		Justification: justification,
	}
	v.order = append(v.order, voter)
	v.logger.Info("verdict collected",
		slog.String("voter", string(voter)),
		slog.String("suspect", string(suspect)))
	return nil
}

// AllSubmitted reports whether every participant has exactly one verdict.
func (v *Verdicts) AllSubmitted() bool {
	return len(v.byVoter) == v.round.roster.Len()
}

// HasVoted reports whether the given participant has submitted a verdict.
func (v *Verdicts) HasVoted(voter ID) bool {
	_, ok := v.byVoter[voter]
	return ok
}

// All returns the verdicts in submission order.
func (v *Verdicts) All() []Verdict {
	verdicts := make([]Verdict, 0, len(v.order))
	for _, voter := range v.order {
		verdicts = append(verdicts, v.byVoter[voter])
	}
	return verdicts
}

// Tally returns the number of verdicts naming each participant as the
// suspect. Every roster member is present in the map, zero counts included.
// Ties are reported as-is; the caller decides how to present them.
func (v *Verdicts) Tally() map[ID]int {
	tally := make(map[ID]int, v.round.roster.Len())
	for _, id := range v.round.roster.IDs() {
		tally[id] = 0
	}
	for _, verdict := range v.byVoter {
		tally[verdict.Suspect]++
	}
	return tally
}

// Result is the outcome of a finished game.
type Result struct {
	Human ID
	Tally map[ID]int
	// MostVoted holds every participant tied for the highest vote count,
	// in roster order.
	MostVoted []ID
	// HumanWon is true when the human is not among the most voted.
	HumanWon bool
	Verdicts []Verdict
}

// Result computes the outcome. Fails with ErrVerdictsOutstanding until every
// participant has voted.
func (v *Verdicts) Result() (Result, error) {
	if !v.AllSubmitted() {
		return Result{}, errors.Wrap(ErrVerdictsOutstanding, "compute result", //nolint:exhaustruct // zero result on the error path.
			slog.Int("submitted", len(v.byVoter)),
			slog.Int("expected", v.round.roster.Len()))
	}

	tally := v.Tally()
	maxVotes := 0
	for _, count := range tally {
		if count > maxVotes {
			maxVotes = count
		}
	}
	var mostVoted []ID
	for _, id := range v.round.roster.IDs() {
		if tally[id] == maxVotes {
			mostVoted = append(mostVoted, id)
		}
	}

	human := v.round.roster.Human()
	humanWon := true
	for _, id := range mostVoted {
		if id == human {
			humanWon = false
			break
		}
	}

	return Result{
		Human:     human,
		Tally:     tally,
		MostVoted: mostVoted,
		HumanWon:  humanWon,
		Verdicts:  v.All(),
	}, nil
}
