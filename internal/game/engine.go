// internal/game/engine.go
//
// Feedback evaluator for the CodeWordle engine.
// Responsibilities:
//   - Score a guess against the secret word using the classic two-pass
//     Wordle algorithm.
//   - Handle repeated letters correctly: each letter occurrence in the
//     secret word can be claimed at most once.
//
// Notes:
//   - Evaluate is a pure function; it is used both for live scoring and
//     for replaying the history of an in-progress session.
//   - Callers are expected to validate guess length beforehand; a
//     mismatched call returns ErrLengthMismatch instead of panicking.

package game

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned by Evaluate when guess and target have
// different lengths. Reaching it indicates a caller bug: the session
// manager validates guess length before evaluating.
var ErrLengthMismatch = errors.New("guess and target length differ")

// Evaluate scores guess against target and returns one LetterFeedback
// per guess position. Both inputs must be normalized to the same case
// and have equal length.
//
// Pass 1:
//   - Mark exact matches CORRECT_POSITION and claim that target position.
//
// Pass 2:
//   - For each unresolved guess letter, scan the target left-to-right
//     for an unclaimed occurrence; the first one wins and is claimed
//     (WRONG_POSITION). No unclaimed occurrence means INCORRECT.
//
// Pass 1 must fully complete before pass 2 runs: exact matches have
// priority when the target contains repeated letters, otherwise
// presence counts over-credit.
func Evaluate(guess, target string) ([]LetterFeedback, error) {
	guessRunes := []rune(guess)
	targetRunes := []rune(target)
	if len(guessRunes) != len(targetRunes) {
		return nil, fmt.Errorf("%w: guess %d, target %d", ErrLengthMismatch, len(guessRunes), len(targetRunes))
	}

	n := len(guessRunes)
	feedback := make([]LetterFeedback, n)
	claimed := make([]bool, n) // target positions already matched

	// First pass: exact matches claim their target position.
	for i := 0; i < n; i++ {
		if guessRunes[i] == targetRunes[i] {
			feedback[i] = LetterFeedback{Letter: string(guessRunes[i]), Status: CorrectPosition}
			claimed[i] = true
		}
	}

	// Second pass: presence matches against unclaimed target letters.
	for i := 0; i < n; i++ {
		if feedback[i].Status != "" {
			continue
		}
		status := Incorrect
		for j := 0; j < n; j++ {
			if !claimed[j] && guessRunes[i] == targetRunes[j] {
				status = WrongPosition
				claimed[j] = true
				break
			}
		}
		feedback[i] = LetterFeedback{Letter: string(guessRunes[i]), Status: status}
	}
	return feedback, nil
}
