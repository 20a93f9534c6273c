package game

import (
	"github.com/mkeskinen/mimicry/internal/errors"
	"log/slog"
)

// ID identifies a participant. IDs are color names, e.g. "Orange".
type ID string

// Kind tells whether a participant is controlled by the human player or an LLM agent.
type Kind int

const (
	Agent Kind = iota
	Human
)

func (k Kind) String() string {
	if k == Human {
		return "human"
	}
	return "agent"
}

// Participant is one player in the round. The HasAsked and HasAnswered flags
// are owned by the Round and mutated only through its methods.
type Participant struct {
	ID          ID
	Kind        Kind
	HasAsked    bool
	HasAnswered bool
}

// DefaultColors is the roster used when the caller does not pick their own.
var DefaultColors = []ID{"Red", "Blue", "Green", "Orange", "Purple"}

// DefaultHuman is the color the human player hides behind by default.
const DefaultHuman = ID("Orange")

// Roster is the fixed participant list for one game. It is immutable after
// construction; per-round state lives in the Round.
type Roster struct {
	ids   []ID
	human ID
}

// NewRoster builds a roster out of ids with the human hiding behind humanID.
// It fails with ErrInvalidSetup unless there is exactly one human and at least
// two agents.
func NewRoster(ids []ID, humanID ID) (*Roster, error) {
	const minAgents = 2
	if len(ids)-1 < minAgents {
		return nil, errors.Wrap(ErrInvalidSetup, "need at least two agents",
			slog.Int("participants", len(ids)))
	}
	seen := make(map[ID]bool, len(ids))
	humanFound := false
	for _, id := range ids {
		if id == "" {
			return nil, errors.Wrap(ErrInvalidSetup, "empty participant id")
		}
		if seen[id] {
			return nil, errors.Wrap(ErrInvalidSetup, "duplicate participant id", slog.String("id", string(id)))
		}
		seen[id] = true
		if id == humanID {
			humanFound = true
		}
	}
	if !humanFound {
		return nil, errors.Wrap(ErrInvalidSetup, "human id not in roster", slog.String("id", string(humanID)))
	}
	roster := Roster{
		ids:   append([]ID(nil), ids...),
		human: humanID,
	}
	return &roster, nil
}

// IDs returns the participant IDs in roster order.
func (r *Roster) IDs() []ID {
	return append([]ID(nil), r.ids...)
}

// Human returns the ID of the human participant.
func (r *Roster) Human() ID {
	return r.human
}

// KindOf returns the kind of the given participant. Unknown IDs are agents as
// far as the roster is concerned; use Contains to validate membership.
func (r *Roster) KindOf(id ID) Kind {
	if id == r.human {
		return Human
	}
	return Agent
}

// Contains reports whether id is part of the roster.
func (r *Roster) Contains(id ID) bool {
	for _, known := range r.ids {
		if known == id {
			return true
		}
	}
	return false
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.ids)
}
