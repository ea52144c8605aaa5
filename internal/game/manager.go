// internal/game/manager.go
//
// Session manager for the CodeWordle engine.
// Responsibilities:
//   - Start sessions: enforce "one active session per user", pick a
//     random secret word for the requested topic, persist the session.
//   - Process guesses: validate (exists → owned → in progress → length),
//     persist the guess, score it, and derive the win/loss transition.
//   - Resume: look up a user's active session and replay its feedback
//     history from the persisted guesses.
//
// Notes:
//   - Store interfaces are declared here, on the consumer side; SQLite
//     and in-memory implementations live in internal/store.
//   - A keyed mutex serializes session starts per user and guess
//     handling per session; the check-then-act sequences below are not
//     atomic on their own.

package game

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionStore persists sessions. Lookups return (nil, nil) when no
// row matches; errors are reserved for storage failures.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	FindActiveByUser(ctx context.Context, userID string) (*Session, error)
	FindSessionByID(ctx context.Context, id string) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
}

// GuessStore persists guesses. ListBySession returns guesses ordered
// by submission time ascending; that order is the attempt sequence.
type GuessStore interface {
	CreateGuess(ctx context.Context, g *Guess) error
	CountBySession(ctx context.Context, sessionID string) (int, error)
	ListBySession(ctx context.Context, sessionID string) ([]*Guess, error)
}

// WordSource supplies candidate secret words for a topic. Words come
// back uppercase; an empty slice is a valid, expected outcome.
type WordSource interface {
	WordsForTopic(ctx context.Context, topic string) ([]string, error)
}

// StartedSession is the result of StartGame. The secret word itself is
// never part of it.
type StartedSession struct {
	SessionID   string
	WordLength  int
	MaxAttempts int
}

// GuessOutcome is the result of SubmitGuess. Word is the secret word,
// populated only once Status is terminal.
type GuessOutcome struct {
	Status            SessionStatus
	Feedback          []LetterFeedback
	RemainingAttempts int
	Word              string
}

// ActiveSession is the resumable state of an in-progress session:
// one feedback sequence per past guess, in submission order.
type ActiveSession struct {
	SessionID   string
	WordLength  int
	MaxAttempts int
	History     [][]LetterFeedback
}

// Manager owns the session lifecycle. Safe for concurrent use.
type Manager struct {
	sessions SessionStore
	guesses  GuessStore
	words    WordSource
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // key: "user:<id>" or "session:<id>"
}

// NewManager returns a Manager backed by the given stores.
func NewManager(sessions SessionStore, guesses GuessStore, words WordSource) *Manager {
	return &Manager{
		sessions: sessions,
		guesses:  guesses,
		words:    words,
		now:      time.Now,
		locks:    map[string]*sync.Mutex{},
	}
}

// lock acquires the mutex for key, creating it on first use, and
// returns the unlock func. Start is serialized per user and guess
// handling per session so that concurrent check-then-act sequences
// cannot both pass their checks.
func (m *Manager) lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// StartGame creates a new IN_PROGRESS session for the user with a
// random word from topic. Fails with ErrActiveSessionExists if the
// user already has one, or ErrNoWordsForTopic if the topic is empty.
func (m *Manager) StartGame(ctx context.Context, userID, topic string) (*StartedSession, error) {
	defer m.lock("user:" + userID)()

	if active, err := m.sessions.FindActiveByUser(ctx, userID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, ErrActiveSessionExists
	}

	candidates, err := m.words.WordsForTopic(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoWordsForTopic
	}

	// The only place randomness enters; the pick is fixed for the
	// session's lifetime.
	word := strings.ToUpper(pickRandom(candidates))

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Word:      word,
		Status:    StatusInProgress,
		StartedAt: m.now().UTC(),
	}
	if err := m.sessions.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	log.Info().Str("sessionId", s.ID).Str("topic", topic).Int("wordLength", len([]rune(word))).Msg("game started")

	return &StartedSession{
		SessionID:   s.ID,
		WordLength:  len([]rune(word)),
		MaxAttempts: MaxAttempts,
	}, nil
}

// SubmitGuess validates and scores one guess for the session, persists
// it, and applies the win/loss transition. The guess is normalized to
// uppercase before anything else. Each call creates a new guess record;
// the operation is not idempotent.
func (m *Manager) SubmitGuess(ctx context.Context, sessionID, guessedWord, userID string) (*GuessOutcome, error) {
	defer m.lock("session:" + sessionID)()

	s, err := m.sessions.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	if s.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	if s.Status != StatusInProgress {
		return nil, &FinishedError{Status: s.Status}
	}

	normalized := strings.ToUpper(strings.TrimSpace(guessedWord))
	wordLen := len([]rune(s.Word))
	if guessLen := len([]rune(normalized)); guessLen != wordLen {
		return nil, &WrongLengthError{Expected: wordLen, Actual: guessLen}
	}

	g := &Guess{
		ID:          uuid.NewString(),
		SessionID:   s.ID,
		Word:        normalized,
		SubmittedAt: m.now().UTC(),
	}
	if err := m.guesses.CreateGuess(ctx, g); err != nil {
		return nil, err
	}

	feedback, err := Evaluate(normalized, s.Word)
	if err != nil {
		return nil, err
	}

	attempts, err := m.guesses.CountBySession(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	// Win check first: the final attempt can still win.
	if normalized == s.Word {
		s.Status = StatusWon
		ended := m.now().UTC()
		s.EndedAt = &ended
	} else if attempts >= MaxAttempts {
		s.Status = StatusLost
		ended := m.now().UTC()
		s.EndedAt = &ended
	}
	if err := m.sessions.SaveSession(ctx, s); err != nil {
		return nil, err
	}

	if s.Status.Terminal() {
		log.Info().Str("sessionId", s.ID).Str("status", string(s.Status)).Int("attempts", attempts).Msg("game finished")
	}

	remaining := MaxAttempts - attempts
	if remaining < 0 {
		remaining = 0
	}
	out := &GuessOutcome{
		Status:            s.Status,
		Feedback:          feedback,
		RemainingAttempts: remaining,
	}
	// The secret word is revealed only once the game is over.
	if s.Status.Terminal() {
		out.Word = s.Word
	}
	return out, nil
}

// ActiveGame returns the user's IN_PROGRESS session with its replayed
// feedback history, or (nil, nil) when there is none. No active game
// is a normal outcome, not an error.
func (m *Manager) ActiveGame(ctx context.Context, userID string) (*ActiveSession, error) {
	s, err := m.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	guesses, err := m.guesses.ListBySession(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	history := make([][]LetterFeedback, 0, len(guesses))
	for _, g := range guesses {
		fb, err := Evaluate(g.Word, s.Word)
		if err != nil {
			return nil, err
		}
		history = append(history, fb)
	}

	return &ActiveSession{
		SessionID:   s.ID,
		WordLength:  len([]rune(s.Word)),
		MaxAttempts: MaxAttempts,
		History:     history,
	}, nil
}

// pickRandom selects one candidate uniformly using crypto/rand.
// Falls back to the first candidate if the random source fails.
func pickRandom(candidates []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		log.Warn().Err(err).Msg("random source failed, using first candidate")
		return candidates[0]
	}
	return candidates[n.Int64()]
}
