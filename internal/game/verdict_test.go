package game_test

import (
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

// playCompleteRound drives A-asks-B, B-asks-H, H-asks-A to completion.
func playCompleteRound(t *testing.T) (*game.Round, *game.Verdicts) {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)

	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.NoError(t, round.SubmitAnswer("B", "Ans1"))
	require.NoError(t, round.PoseQuestion("B", "H", "Q2"))
	require.NoError(t, round.SubmitAnswer("H", "Ans2"))
	require.NoError(t, round.PoseQuestion("H", "A", "Q3"))
	require.NoError(t, round.SubmitAnswer("A", "Ans3"))
	require.True(t, round.IsComplete())

	return round, game.NewVerdicts(round, logger)
}

func TestVerdicts_beforeRoundComplete(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	roster := newTestRoster(t)
	round, err := game.NewRound(roster, logger, game.WithFirstAsker("A"))
	require.NoError(t, err)
	verdicts := game.NewVerdicts(round, logger)

	require.ErrorIs(t, verdicts.Collect("A", "H", "sounds human"), game.ErrRoundNotComplete)
	require.Empty(t, verdicts.All(), "failed collect must not record a verdict")

	// Still rejected mid-round.
	require.NoError(t, round.PoseQuestion("A", "B", "Q1"))
	require.ErrorIs(t, verdicts.Collect("A", "H", "sounds human"), game.ErrRoundNotComplete)
	require.Empty(t, verdicts.All())
}

func TestVerdicts_collect(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	require.NoError(t, verdicts.Collect("A", "H", "typos"))
	require.False(t, verdicts.AllSubmitted())

	require.ErrorIs(t, verdicts.Collect("A", "B", "changed my mind"), game.ErrDuplicateVerdict)
	require.ErrorIs(t, verdicts.Collect("X", "H", "who am I"), game.ErrInvalidTarget)
	require.ErrorIs(t, verdicts.Collect("B", "X", "who is that"), game.ErrInvalidTarget)

	require.NoError(t, verdicts.Collect("B", "H", "too slow to answer"))
	require.NoError(t, verdicts.Collect("H", "A", "bluffing"))
	require.True(t, verdicts.AllSubmitted())
	require.True(t, verdicts.HasVoted("H"))

	all := verdicts.All()
	require.Len(t, all, 3)
	require.Equal(t, game.ID("A"), all[0].Voter, "verdicts keep submission order")
}

// Scenario from the design notes: A and B accuse H, H accuses A.
func TestVerdicts_tallyAndResult(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	require.NoError(t, verdicts.Collect("A", "H", "justification a"))
	require.NoError(t, verdicts.Collect("B", "H", "justification b"))
	require.NoError(t, verdicts.Collect("H", "A", "justification h"))

	tally := verdicts.Tally()
	require.Equal(t, map[game.ID]int{"H": 2, "A": 1, "B": 0}, tally)

	result, err := verdicts.Result()
	require.NoError(t, err)
	require.Equal(t, game.ID("H"), result.Human)
	require.Equal(t, []game.ID{"H"}, result.MostVoted)
	require.False(t, result.HumanWon, "the human was found out")
}

func TestVerdicts_threeWayTie(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	// One vote each. The tie is reported as-is, so the human is among the
	// most voted and loses.
	require.NoError(t, verdicts.Collect("A", "B", ""))
	require.NoError(t, verdicts.Collect("B", "H", ""))
	require.NoError(t, verdicts.Collect("H", "A", ""))

	result, err := verdicts.Result()
	require.NoError(t, err)
	require.ElementsMatch(t, []game.ID{"A", "B", "H"}, result.MostVoted)
	require.False(t, result.HumanWon)
}

func TestVerdicts_humanEscapes(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	require.NoError(t, verdicts.Collect("A", "B", ""))
	require.NoError(t, verdicts.Collect("B", "A", ""))
	require.NoError(t, verdicts.Collect("H", "B", ""))

	result, err := verdicts.Result()
	require.NoError(t, err)
	require.Equal(t, []game.ID{"B"}, result.MostVoted)
	require.True(t, result.HumanWon)
}

func TestVerdicts_resultBeforeAllSubmitted(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	require.NoError(t, verdicts.Collect("A", "H", ""))
	_, err := verdicts.Result()
	require.ErrorIs(t, err, game.ErrVerdictsOutstanding)
}

// Agents that cannot commit to a guess accuse themselves; that must be legal.
func TestVerdicts_selfAccusation(t *testing.T) {
	_, verdicts := playCompleteRound(t)

	require.NoError(t, verdicts.Collect("A", "A", "could not decide"))
	tally := verdicts.Tally()
	require.Equal(t, 1, tally["A"])
}
