package agent

import (
	"github.com/mkeskinen/mimicry/internal/game"
	"regexp"
)

// guessPattern matches the answer format the guessing prompt demands,
// e.g. "I think Mr. Blue is the human because ...".
var guessPattern = regexp.MustCompile(`(?i)I think Mr\.?\s+(\w+)\s+is the human`)

// ParseGuess extracts the accused participant from a guess response.
// The second return value is false when the response does not follow the
// format or names someone outside the roster; callers fall back to
// self-accusation in that case.
func ParseGuess(response string, roster []game.ID) (game.ID, bool) {
	match := guessPattern.FindStringSubmatch(response)
	if match == nil {
		return "", false
	}
	for _, id := range roster {
		if string(id) == match[1] {
			return id, true
		}
	}
	return "", false
}
