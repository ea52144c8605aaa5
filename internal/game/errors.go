// internal/game/errors.go
//
// Typed failure modes of the session manager. The HTTP layer maps each
// of these to a response code; the manager only distinguishes the kind
// and carries a human-readable message. Sentinel errors are matched
// with errors.Is; FinishedError and WrongLengthError carry detail and
// are matched with errors.As.

package game

import (
	"errors"
	"fmt"
)

// Sentinel errors for the session manager.
var (
	// ErrActiveSessionExists: the user already has an IN_PROGRESS session (conflict).
	ErrActiveSessionExists = errors.New("user already has a game in progress")
	// ErrNoWordsForTopic: the requested topic has no candidate words (invalid input).
	ErrNoWordsForTopic = errors.New("no words found for topic")
	// ErrSessionNotFound: the referenced session id does not exist (not found).
	ErrSessionNotFound = errors.New("game not found")
	// ErrNotSessionOwner: the requesting user does not own the session (forbidden).
	ErrNotSessionOwner = errors.New("user is not authorized for this game")
)

// FinishedError reports a guess against a session that is already
// terminal (conflict). Status carries the terminal state the caller
// observed.
type FinishedError struct {
	Status SessionStatus
}

func (e *FinishedError) Error() string {
	return fmt.Sprintf("game is not in progress, its status is %s", e.Status)
}

// WrongLengthError reports a guess whose length does not match the
// secret word's length (invalid input).
type WrongLengthError struct {
	Expected int
	Actual   int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("guess has an incorrect length: expected %d but got %d", e.Expected, e.Actual)
}
