// internal/store/memory.go
//
// In-memory implementations of the game and user stores.
// Lightweight persistence used in development and tests, or when
// durability is not required.
//
// Characteristics:
//   - Values are stored by copy and returned by copy, so callers never
//     share mutable state with the store.
//   - Concurrency-safe via RWMutex.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/codewordle/go-server/internal/game"
)

// MemorySessions is a map-based game.SessionStore.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]game.Session // keyed by Session.ID
}

// NewMemorySessions constructs an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: map[string]game.Session{}}
}

func (m *MemorySessions) CreateSession(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemorySessions) FindActiveByUser(ctx context.Context, userID string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == game.StatusInProgress {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemorySessions) FindSessionByID(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

func (m *MemorySessions) SaveSession(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

// MemoryGuesses is a slice-based game.GuessStore.
type MemoryGuesses struct {
	mu      sync.RWMutex
	guesses []game.Guess
}

// NewMemoryGuesses constructs an empty in-memory guess store.
func NewMemoryGuesses() *MemoryGuesses {
	return &MemoryGuesses{}
}

func (m *MemoryGuesses) CreateGuess(ctx context.Context, g *game.Guess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guesses = append(m.guesses, *g)
	return nil
}

func (m *MemoryGuesses) CountBySession(ctx context.Context, sessionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.CountBy(m.guesses, func(g game.Guess) bool { return g.SessionID == sessionID }), nil
}

func (m *MemoryGuesses) ListBySession(ctx context.Context, sessionID string) ([]*game.Guess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := lo.Filter(m.guesses, func(g game.Guess, _ int) bool { return g.SessionID == sessionID })
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.Before(matched[j].SubmittedAt)
	})
	return lo.Map(matched, func(g game.Guess, _ int) *game.Guess {
		out := g
		return &out
	}), nil
}

// MemoryWords is a fixed topic→words map implementing game.WordSource.
type MemoryWords struct {
	topics map[string][]string // keyed by uppercase topic
}

// NewMemoryWords constructs a word source from the given corpus.
func NewMemoryWords(corpus map[string][]string) *MemoryWords {
	topics := map[string][]string{}
	for topic, words := range corpus {
		topics[strings.ToUpper(topic)] = lo.Map(words, func(w string, _ int) string {
			return strings.ToUpper(w)
		})
	}
	return &MemoryWords{topics: topics}
}

func (m *MemoryWords) WordsForTopic(ctx context.Context, topic string) ([]string, error) {
	return m.topics[strings.ToUpper(topic)], nil
}

// MemoryUsers is a map-based UserStore.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]User // keyed by User.ID
}

// NewMemoryUsers constructs an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[string]User{}}
}

func (m *MemoryUsers) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryUsers) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryUsers) FindUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}
