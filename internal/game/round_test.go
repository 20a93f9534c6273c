package game_test

import (
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func newTestRoster(t *testing.T) *game.Roster {
	t.Helper()
	roster, err := game.NewRoster([]game.ID{"A", "B", "H"}, "H")
	require.NoError(t, err)
	return roster
}

func TestNewRoster(t *testing.T) {
	tests := []struct {
		name  string
		ids   []game.ID
		human game.ID
		// wantErr nil means the setup is valid.
		wantErr error
	}{
		{
			name:    "one human two agents",
			ids:     []game.ID{"A", "B", "H"},
			human:   "H",
			wantErr: nil,
		},
		{
			name:    "default colors",
			ids:     game.DefaultColors,
			human:   game.DefaultHuman,
			wantErr: nil,
		},
		{
			name:    "human not in roster",
			ids:     []game.ID{"A", "B", "C"},
			human:   "H",
			wantErr: game.ErrInvalidSetup,
		},
		{
			name:    "only one agent",
			ids:     []game.ID{"A", "H"},
			human:   "H",
			wantErr: game.ErrInvalidSetup,
		},
		{
			name:    "duplicate ids",
			ids:     []game.ID{"A", "A", "H"},
			human:   "H",
			wantErr: game.ErrInvalidSetup,
		},
		{
			name:    "empty id",
			ids:     []game.ID{"A", "", "H"},
			human:   "H",
			wantErr: game.ErrInvalidSetup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster, err := game.NewRoster(tt.ids, tt.human)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.ids), roster.Len())
			require.Equal(t, tt.human, roster.Human())
			require.Equal(t, game.Human, roster.KindOf(tt.human))
		})
	}
}

// TestRound_happyPath plays the scenario from the design notes: A asks B,
// B answers and asks H, H answers and asks A, A answers. Exactly N turns for
// N participants, everybody asked and answered once.
func TestRound_happyPath(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	asker, ok := round.CurrentAsker()
	require.True(t, ok)
	require.Equal(t, game.ID("A"), asker)

	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	pending, ok := round.PendingTurn()
	require.True(t, ok)
	require.Equal(t, game.ID("B"), pending.Target)
	require.Equal(t, game.Pending, pending.Status)
	_, ok = round.CurrentAsker()
	require.False(t, ok, "nobody may ask while an answer is outstanding")

	require.NoError(t, round.SubmitAnswer("B", "Ans1"))
	asker, ok = round.CurrentAsker()
	require.True(t, ok)
	require.Equal(t, game.ID("B"), asker, "the answerer becomes the next asker")

	require.NoError(t, round.PoseQuestion("B", "H", "Q2"))
	require.NoError(t, round.SubmitAnswer("H", "Ans2"))
	asker, _ = round.CurrentAsker()
	require.Equal(t, game.ID("H"), asker)

	require.NoError(t, round.PoseQuestion("H", "A", "Q3"))
	require.False(t, round.IsComplete())
	require.NoError(t, round.SubmitAnswer("A", "Ans3"))
	require.True(t, round.IsComplete())

	turns := round.Turns()
	require.Len(t, turns, roster.Len(), "one turn per participant")
	for _, turn := range turns {
		require.Equal(t, game.Answered, turn.Status)
	}
	require.Equal(t, []game.ID{"B", "H", "A"}, round.AnswerOrder())
	for _, id := range roster.IDs() {
		p, ok := round.Participant(id)
		require.True(t, ok)
		require.True(t, p.HasAsked)
		require.True(t, p.HasAnswered)
	}
}

// Answered turn count must equal the number of participants with HasAnswered
// at every point of the game.
func TestRound_answeredInvariant(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	checkInvariant := func() {
		answeredTurns := 0
		for _, turn := range round.Turns() {
			if turn.Status == game.Answered {
				answeredTurns++
			}
		}
		answeredParticipants := 0
		for _, id := range roster.IDs() {
			p, _ := round.Participant(id)
			if p.HasAnswered {
				answeredParticipants++
			}
		}
		require.Equal(t, answeredTurns, answeredParticipants)
	}

	checkInvariant()
	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	checkInvariant()
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))
	checkInvariant()
	require.NoError(t, round.PoseQuestion("B", "H", "Q2"))
	checkInvariant()
	require.NoError(t, round.SubmitAnswer("H", "Ans2"))
	checkInvariant()
}

func TestRound_validation(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)

	tests := []struct {
		name string
		// play sets up the round and returns the error of the final move.
		play    func(t *testing.T, round *game.Round) error
		wantErr error
	}{
		{
			name: "pose question out of turn",
			play: func(t *testing.T, round *game.Round) error {
				return round.PoseQuestion("B", "A", "Q")
			},
			wantErr: game.ErrNotAskersTurn,
		},
		{
			name: "pose question while answer outstanding",
			play: func(t *testing.T, round *game.Round) error {
				require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
				return round.PoseQuestion("A", "H", "Q2")
			},
			wantErr: game.ErrNotAskersTurn,
		},
		{
			name: "second question from the same asker",
			play: func(t *testing.T, round *game.Round) error {
				require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
				require.NoError(t, round.SubmitAnswer("B", "Ans1"))
				return round.PoseQuestion("A", "H", "Q2")
			},
			wantErr: game.ErrNotAskersTurn,
		},
		{
			name: "unknown asker",
			play: func(t *testing.T, round *game.Round) error {
				return round.PoseQuestion("X", "B", "Q")
			},
			wantErr: game.ErrNotAskersTurn,
		},
		{
			name: "target is self",
			play: func(t *testing.T, round *game.Round) error {
				return round.PoseQuestion("A", "A", "Q")
			},
			wantErr: game.ErrInvalidTarget,
		},
		{
			name: "unknown target",
			play: func(t *testing.T, round *game.Round) error {
				return round.PoseQuestion("A", "X", "Q")
			},
			wantErr: game.ErrInvalidTarget,
		},
		{
			name: "target already answered",
			play: func(t *testing.T, round *game.Round) error {
				require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
				require.NoError(t, round.SubmitAnswer("B", "Ans1"))
				return round.PoseQuestion("B", "B", "Q2")
			},
			wantErr: game.ErrInvalidTarget,
		},
		{
			name: "answer without a question",
			play: func(t *testing.T, round *game.Round) error {
				return round.SubmitAnswer("B", "Ans")
			},
			wantErr: game.ErrNoPendingTurn,
		},
		{
			name: "answer from the wrong participant",
			play: func(t *testing.T, round *game.Round) error {
				require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
				return round.SubmitAnswer("H", "Ans")
			},
			wantErr: game.ErrNoPendingTurn,
		},
		{
			name: "second answer for the same turn",
			play: func(t *testing.T, round *game.Round) error {
				require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
				require.NoError(t, round.SubmitAnswer("B", "Ans1"))
				return round.SubmitAnswer("B", "Ans2")
			},
			wantErr: game.ErrNoPendingTurn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := newTestRoster(t)
			round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
			require.NoError(t, err)

			turnsBefore := round.Turns()
			err = tt.play(t, round)
			require.ErrorIs(t, err, tt.wantErr)

			// Failed operations must not grow the turn history beyond what
			// the setup moves added.
			require.GreaterOrEqual(t, len(round.Turns()), len(turnsBefore))
			require.False(t, round.IsComplete())
		})
	}
}

// A failed operation leaves the round exactly as it was.
func TestRound_failureDoesNotMutate(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)
	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))

	turnsBefore := round.Turns()
	orderBefore := round.AnswerOrder()

	require.ErrorIs(t, round.PoseQuestion("A", "H", "Q2"), game.ErrNotAskersTurn)
	require.ErrorIs(t, round.SubmitAnswer("B", "again"), game.ErrNoPendingTurn)

	require.Equal(t, turnsBefore, round.Turns())
	require.Equal(t, orderBefore, round.AnswerOrder())
	asker, ok := round.CurrentAsker()
	require.True(t, ok)
	require.Equal(t, game.ID("B"), asker)
}

// The last fresh asker is steered to the only participant who never answered,
// even when that participant already used their question.
func TestRound_lastAskerTargetsEarlyAsker(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster, err := game.NewRoster([]game.ID{"A", "B", "C", "H"}, "H")
	require.NoError(t, err)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	// A asks B, then B skips the fresh askers and questions H directly.
	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))
	require.NoError(t, round.PoseQuestion("B", "H", "Q2"))
	require.NoError(t, round.SubmitAnswer("H", "Ans2"))
	require.NoError(t, round.PoseQuestion("H", "C", "Q3"))
	require.NoError(t, round.SubmitAnswer("C", "Ans3"))

	// C is the last fresh asker and the only unanswered participant is A.
	asker, ok := round.CurrentAsker()
	require.True(t, ok)
	require.Equal(t, game.ID("C"), asker)
	require.Equal(t, []game.ID{"A"}, round.AvailableTargets("C"))
	require.NoError(t, round.PoseQuestion("C", "A", "Q4"))
	require.NoError(t, round.SubmitAnswer("A", "Ans4"))
	require.True(t, round.IsComplete())
}

// When the next asker has no legal target left, the round ends even though
// some participant never asked or answered. Terminal condition, not an error.
func TestRound_terminatesWithoutFullPairing(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	// B burns their question on A instead of the fresh asker H. After A
	// answers, H is the only unanswered participant and cannot question
	// themselves, so the round terminates.
	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))
	require.NoError(t, round.PoseQuestion("B", "A", "Q2"))
	require.NoError(t, round.SubmitAnswer("A", "Ans2"))

	require.True(t, round.IsComplete())
	_, ok := round.CurrentAsker()
	require.False(t, ok)
}

func TestRound_availableTargets(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster, err := game.NewRoster([]game.ID{"A", "B", "C", "H"}, "H")
	require.NoError(t, err)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	// Before any turn, everybody except the asker is available.
	require.ElementsMatch(t, []game.ID{"B", "C", "H"}, round.AvailableTargets("A"))

	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))

	// B already answered and A already asked, so B should steer towards the
	// fresh askers C and H.
	require.ElementsMatch(t, []game.ID{"C", "H"}, round.AvailableTargets("B"))
}

func TestRound_seededFirstAsker(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)

	// The same seed always picks the same first asker.
	first, err := game.NewRound(roster, logger, game.WithSeed(42))
	require.NoError(t, err)
	second, err := game.NewRound(roster, logger, game.WithSeed(42))
	require.NoError(t, err)

	firstAsker, ok := first.CurrentAsker()
	require.True(t, ok)
	secondAsker, ok := second.CurrentAsker()
	require.True(t, ok)
	require.Equal(t, firstAsker, secondAsker)
	require.True(t, roster.Contains(firstAsker))
}
