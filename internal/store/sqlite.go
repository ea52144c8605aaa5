// internal/store/sqlite.go
//
// SQLite-backed implementations of the game and user stores.
// Characteristics:
//   - Raw database/sql against the schema in ./sql (no ORM).
//   - Timestamps stored as RFC3339Nano TEXT; nanosecond resolution keeps
//     guess ordering stable, with rowid as the tie-break.
//   - Lookups return (nil, nil) for missing rows; errors mean the
//     database itself failed.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codewordle/go-server/internal/game"
)

// SQLiteSessions persists game sessions in the games table.
type SQLiteSessions struct {
	db *sql.DB
}

// NewSQLiteSessions returns a session store backed by db.
func NewSQLiteSessions(db *sql.DB) *SQLiteSessions {
	return &SQLiteSessions{db: db}
}

func (s *SQLiteSessions) CreateSession(ctx context.Context, g *game.Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (id, user_id, word, status, started_at, ended_at)
	                                 VALUES (?,?,?,?,?,?)`,
		g.ID, g.UserID, g.Word, string(g.Status), fmtTime(g.StartedAt), fmtNullTime(g.EndedAt))
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *SQLiteSessions) FindActiveByUser(ctx context.Context, userID string) (*game.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, word, status, started_at, ended_at
	                                  FROM games WHERE user_id=? AND status=?`,
		userID, string(game.StatusInProgress))
	return scanSession(row)
}

func (s *SQLiteSessions) FindSessionByID(ctx context.Context, id string) (*game.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id, word, status, started_at, ended_at
	                                  FROM games WHERE id=?`, id)
	return scanSession(row)
}

// SaveSession updates the mutable parts of a session (status and end
// time); identity, owner, word, and start time never change.
func (s *SQLiteSessions) SaveSession(ctx context.Context, g *game.Session) error {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET status=?, ended_at=? WHERE id=?`,
		string(g.Status), fmtNullTime(g.EndedAt), g.ID)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

// scanSession converts one games row; (nil, nil) when there is no row.
func scanSession(row *sql.Row) (*game.Session, error) {
	var (
		g       game.Session
		status  string
		started string
		ended   sql.NullString
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Word, &status, &started, &ended); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	g.Status = game.SessionStatus(status)
	g.StartedAt = parseTime(started)
	if ended.Valid {
		t := parseTime(ended.String)
		g.EndedAt = &t
	}
	return &g, nil
}

// SQLiteGuesses persists guesses in the guesses table.
type SQLiteGuesses struct {
	db *sql.DB
}

// NewSQLiteGuesses returns a guess store backed by db.
func NewSQLiteGuesses(db *sql.DB) *SQLiteGuesses {
	return &SQLiteGuesses{db: db}
}

func (s *SQLiteGuesses) CreateGuess(ctx context.Context, g *game.Guess) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO guesses (id, game_id, word, submitted_at)
	                                 VALUES (?,?,?,?)`,
		g.ID, g.SessionID, g.Word, fmtTime(g.SubmittedAt))
	if err != nil {
		return fmt.Errorf("insert guess: %w", err)
	}
	return nil
}

func (s *SQLiteGuesses) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM guesses WHERE game_id=?`, sessionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListBySession returns the session's guesses in submission order.
func (s *SQLiteGuesses) ListBySession(ctx context.Context, sessionID string) ([]*game.Guess, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, game_id, word, submitted_at
	                                     FROM guesses WHERE game_id=?
	                                     ORDER BY submitted_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*game.Guess
	for rows.Next() {
		var (
			g         game.Guess
			submitted string
		)
		if err := rows.Scan(&g.ID, &g.SessionID, &g.Word, &submitted); err != nil {
			return nil, err
		}
		g.SubmittedAt = parseTime(submitted)
		out = append(out, &g)
	}
	return out, rows.Err()
}

// SQLiteWords supplies candidate words from the words table.
type SQLiteWords struct {
	db *sql.DB
}

// NewSQLiteWords returns a word source backed by db.
func NewSQLiteWords(db *sql.DB) *SQLiteWords {
	return &SQLiteWords{db: db}
}

// WordsForTopic returns the uppercase words for a topic; topic match is
// case-insensitive. An empty result is valid.
func (s *SQLiteWords) WordsForTopic(ctx context.Context, topic string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM words WHERE topic=? COLLATE NOCASE ORDER BY id ASC`, topic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, strings.ToUpper(w))
	}
	return out, rows.Err()
}

// Seed inserts the given topic corpus, skipping rows that already
// exist. Used at startup to populate an empty database from the
// embedded corpus.
func (s *SQLiteWords) Seed(ctx context.Context, corpus map[string][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for topic, words := range corpus {
		for _, w := range words {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO words (topic, text) VALUES (?,?)`,
				strings.ToUpper(topic), strings.ToUpper(w)); err != nil {
				return fmt.Errorf("seed word %s/%s: %w", topic, w, err)
			}
		}
	}
	return tx.Commit()
}

// Count reports the number of word rows; used to decide whether the
// corpus needs seeding.
func (s *SQLiteWords) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM words`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SQLiteUsers persists accounts in the users table.
type SQLiteUsers struct {
	db *sql.DB
}

// NewSQLiteUsers returns a user store backed by db.
func NewSQLiteUsers(db *sql.DB) *SQLiteUsers {
	return &SQLiteUsers{db: db}
}

func (s *SQLiteUsers) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at)
	                                 VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, fmtTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteUsers) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *SQLiteUsers) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u       User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// ---------------------------- time helpers ---------------------------------

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

// parseTime parses RFC3339Nano timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
