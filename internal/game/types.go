// internal/game/types.go
//
// Core type definitions for the CodeWordle game engine.
// Defines:
//   - SessionStatus: lifecycle of a game session (IN_PROGRESS/WON/LOST).
//   - Session: one play-through binding a user to a secret word.
//   - Guess: a single submitted attempt, ordered by submission time.
//   - FeedbackStatus / LetterFeedback: per-letter evaluation of a guess.

package game

import "time"

// MaxAttempts is the fixed guess budget per session.
const MaxAttempts = 6

// SessionStatus represents the lifecycle state of a session.
// IN_PROGRESS is the only non-terminal state; WON and LOST are
// terminal and immutable once set.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "IN_PROGRESS"
	StatusWon        SessionStatus = "WON"
	StatusLost       SessionStatus = "LOST"
)

// Terminal reports whether the status is WON or LOST.
func (s SessionStatus) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Session holds the state of a single game session.
// At most one Session per user may be IN_PROGRESS at a time.
type Session struct {
	ID        string        // Unique session identifier (UUID).
	UserID    string        // Owning user.
	Word      string        // The secret word (always uppercase). Never sent to clients mid-game.
	Status    SessionStatus // Current lifecycle state.
	StartedAt time.Time     // Set at creation.
	EndedAt   *time.Time    // nil until the session is terminal.
}

// Guess is one submitted attempt. Guesses are immutable after creation
// and totally ordered by SubmittedAt; that order is the attempt sequence.
type Guess struct {
	ID          string    // Unique guess identifier (UUID).
	SessionID   string    // Owning session.
	Word        string    // Normalized (uppercase) guessed word.
	SubmittedAt time.Time // Ordering key.
}

// FeedbackStatus classifies a single guessed letter against the secret word.
// Possible values:
//   - CORRECT_POSITION: letter is correct and in the correct position.
//   - WRONG_POSITION:   letter exists in the word but in a different position.
//   - INCORRECT:        letter does not exist in the word (or all its
//     occurrences are already claimed).
type FeedbackStatus string

const (
	CorrectPosition FeedbackStatus = "CORRECT_POSITION"
	WrongPosition   FeedbackStatus = "WRONG_POSITION"
	Incorrect       FeedbackStatus = "INCORRECT"
)

// LetterFeedback is the evaluation result for one letter position.
// It is derived, never persisted, and recomputed on demand.
type LetterFeedback struct {
	Letter string         `json:"letter"`
	Status FeedbackStatus `json:"status"`
}
