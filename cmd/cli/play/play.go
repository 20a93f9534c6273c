// Package play implements the terminal version of the game.
package play

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mkeskinen/mimicry/internal/agent"
	"github.com/mkeskinen/mimicry/internal/director"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/mkeskinen/mimicry/internal/logging"
	"github.com/spf13/cobra"
	"log/slog"
)

var Group = &cobra.Group{
	ID:    "game",
	Title: "Game operations",
}

func init() {
	Play.Flags().Bool("fake", false, "play against canned agents instead of a completion provider")
	Play.Flags().String("model", "gpt-4o-mini", "completion model the machine players run on")
	Play.Flags().StringSlice("model-for", nil,
		"per-player model override as Player=model, e.g. Red=gpt-4o (repeatable)")
}

var Play = &cobra.Command{
	Use:     "play",
	GroupID: "game",
	Short:   "Play a game in the terminal",
	Long: `Starts a game where you hide among machine players. Each player asks one
question and answers one, then everyone names their suspect. Stay unnoticed to win.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fake, err := cmd.Flags().GetBool("fake")
		if err != nil {
			return errors.Wrap(err, "read fake flag")
		}
		model, err := cmd.Flags().GetString("model")
		if err != nil {
			return errors.Wrap(err, "read model flag")
		}

		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource:   false,
			Level:       slog.LevelWarn,
			ReplaceAttr: nil,
		})))

		var responder agent.Responder
		if fake {
			responder = agent.NewScripted(game.DefaultColors)
		} else {
			overrides, err := cmd.Flags().GetStringSlice("model-for")
			if err != nil {
				return errors.Wrap(err, "read model-for flag")
			}
			client := agent.NewClient(model, logger)
			for _, override := range overrides {
				player, playerModel, found := strings.Cut(override, "=")
				if !found {
					return errors.New("model-for expects Player=model", slog.String("got", override))
				}
				client.UseModel(game.ID(player), playerModel)
			}
			responder = client
		}

		return playGame(cmd.Context(), responder, logger)
	},
}

func playGame(ctx context.Context, responder agent.Responder, logger *slog.Logger) error {
	roster, err := game.NewRoster(game.DefaultColors, game.DefaultHuman)
	if err != nil {
		return errors.Wrap(err, "build roster")
	}
	d, err := director.New(roster, responder, logger)
	if err != nil {
		return errors.Wrap(err, "start game")
	}

	fmt.Printf("You are playing as Mr. %s. Blend in.\n\n", roster.Human())

	input := bufio.NewScanner(os.Stdin)
	shownTurns := 0
	for {
		if err = d.Advance(ctx); err != nil {
			// Provider hiccups leave the game intact, so ask before retrying the same step.
			fmt.Printf("The machine players hesitate: %v\n", err)
			if !confirm(input, "Try again?") {
				return errors.Wrap(err, "advance game")
			}
			continue
		}
		shownTurns = printNewTurns(d, shownTurns)

		switch d.Awaiting() {
		case director.AwaitHumanQuestion:
			if err = promptQuestion(input, d); err != nil {
				return err
			}
		case director.AwaitHumanAnswer:
			if err = promptAnswer(input, d); err != nil {
				return err
			}
		case director.AwaitHumanVerdict:
			if err = promptVerdict(input, d); err != nil {
				return err
			}
		case director.AwaitNothing:
			return printResult(d)
		case director.AwaitAgents:
			// Advance keeps going until the agents are done.
		}
	}
}

// printNewTurns prints the turns played since the last call and returns the
// new high-water mark.
func printNewTurns(d *director.Director, shown int) int {
	turns := d.Turns()
	for _, turn := range turns[shown:] {
		fmt.Printf("Mr. %s asked Mr. %s: %s\n", turn.Asker, turn.Target, turn.Question)
		if turn.Status == game.Answered {
			fmt.Printf("Mr. %s answered: %s\n\n", turn.Target, turn.Answer)
		}
	}
	return len(turns)
}

func promptQuestion(input *bufio.Scanner, d *director.Director) error {
	for {
		targets := d.AvailableTargets()
		names := make([]string, len(targets))
		for i, id := range targets {
			names[i] = string(id)
		}
		fmt.Printf("Your turn to ask. You may question: %s\n", strings.Join(names, ", "))

		target := game.ID(prompt(input, "Who do you ask?"))
		question := prompt(input, "Your question:")
		if err := d.HumanQuestion(target, question); err != nil {
			if errors.Is(err, game.ErrInvalidTarget) || errors.Is(err, game.ErrNotAskersTurn) {
				fmt.Println("That does not work, try again.")
				continue
			}
			return errors.Wrap(err, "human question")
		}
		fmt.Println()
		return nil
	}
}

func promptAnswer(input *bufio.Scanner, d *director.Director) error {
	pending, ok := d.PendingQuestion()
	if !ok {
		return errors.New("no pending question")
	}
	fmt.Printf("Mr. %s asks you: %s\n", pending.Asker, pending.Question)
	answer := prompt(input, "Your answer:")
	if err := d.HumanAnswer(answer); err != nil {
		return errors.Wrap(err, "human answer")
	}
	fmt.Println()
	return nil
}

func promptVerdict(input *bufio.Scanner, d *director.Director) error {
	for {
		names := make([]string, 0, d.Roster().Len())
		for _, id := range d.Roster().IDs() {
			names = append(names, string(id))
		}
		fmt.Printf("The questioning is over. The players are: %s\n", strings.Join(names, ", "))

		suspect := game.ID(prompt(input, "Who do you accuse of being the human?"))
		justification := prompt(input, "Why them?")
		if err := d.HumanVerdict(suspect, justification); err != nil {
			if errors.Is(err, game.ErrInvalidTarget) {
				fmt.Println("That is not one of the players, try again.")
				continue
			}
			return errors.Wrap(err, "human verdict")
		}
		fmt.Println()
		return nil
	}
}

func printResult(d *director.Director) error {
	result, err := d.Result()
	if err != nil {
		return errors.Wrap(err, "game result")
	}

	fmt.Println("The verdicts are in:")
	for _, verdict := range result.Verdicts {
		fmt.Printf("Mr. %s accused Mr. %s", verdict.Voter, verdict.Suspect)
		if verdict.Justification != "" {
			fmt.Printf(": %s", verdict.Justification)
		}
		fmt.Println()
	}

	fmt.Println("\nVotes:")
	for _, id := range d.Roster().IDs() {
		fmt.Printf("Mr. %s: %d\n", id, result.Tally[id])
	}

	if result.HumanWon {
		fmt.Println("\nNobody singled you out. You escaped!")
	} else {
		fmt.Println("\nThe machines saw through you. You were caught.")
	}
	return nil
}

func prompt(input *bufio.Scanner, label string) string {
	for {
		fmt.Printf("%s ", label)
		if !input.Scan() {
			return ""
		}
		text := strings.TrimSpace(input.Text())
		if text != "" {
			return text
		}
	}
}

func confirm(input *bufio.Scanner, label string) bool {
	fmt.Printf("%s [y/N] ", label)
	if !input.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(input.Text()), "y")
}
