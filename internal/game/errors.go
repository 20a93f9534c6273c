package game

import "github.com/mkeskinen/mimicry/internal/errors"

// Validation failures of the round and verdict state machines. Every failed
// operation leaves the state untouched so that the caller can retry the same
// logical action.
var (
	ErrInvalidSetup        = errors.NewSentinel("invalid setup")
	ErrNotAskersTurn       = errors.NewSentinel("not asker's turn")
	ErrInvalidTarget       = errors.NewSentinel("invalid target")
	ErrNoPendingTurn       = errors.NewSentinel("no pending turn")
	ErrRoundNotComplete    = errors.NewSentinel("round not complete")
	ErrDuplicateVerdict    = errors.NewSentinel("duplicate verdict")
	ErrVerdictsOutstanding = errors.NewSentinel("verdicts outstanding")
)
