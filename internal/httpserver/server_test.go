package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codewordle/go-server/internal/game"
	"github.com/codewordle/go-server/internal/store"
)

// newTestServer wires a server over in-memory stores with a
// deterministic one-word corpus (ANIMALS → TIGER).
func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_RPS", "1000")
	t.Setenv("RATE_LIMIT_BURST", "1000")

	words := store.NewMemoryWords(map[string][]string{"ANIMALS": {"TIGER"}})
	manager := game.NewManager(store.NewMemorySessions(), store.NewMemoryGuesses(), words)
	return New(store.NewMemoryUsers(), manager)
}

// doJSON performs a request against the server router, attaching any
// auth cookies, and returns the recorder.
func doJSON(t *testing.T, s *Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	return w
}

// signup registers a user and returns the auth cookies.
func signup(t *testing.T, s *Server, username string) []*http.Cookie {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/auth/signup",
		fmt.Sprintf(`{"username":%q,"password":"secret-pass"}`, username), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("signup set no auth cookie")
	}
	return cookies
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w := doJSON(t, s, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}

func TestGameEndpointsRequireAuth(t *testing.T) {
	s := newTestServer(t)
	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/games/start"},
		{http.MethodPost, "/games/some-id/guess"},
		{http.MethodGet, "/games/active"},
	} {
		if w := doJSON(t, s, req.method, req.path, `{}`, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", req.method, req.path, w.Code)
		}
	}
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	cookies := signup(t, s, "player_one")

	if w := doJSON(t, s, http.MethodGet, "/auth/me", "", cookies); w.Code != http.StatusOK {
		t.Errorf("me status = %d", w.Code)
	}

	// Duplicate username conflicts.
	w := doJSON(t, s, http.MethodPost, "/auth/signup", `{"username":"Player_One","password":"secret-pass"}`, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", w.Code)
	}

	// Login with correct and wrong passwords.
	if w := doJSON(t, s, http.MethodPost, "/auth/login", `{"username":"player_one","password":"secret-pass"}`, nil); w.Code != http.StatusOK {
		t.Errorf("login status = %d", w.Code)
	}
	if w := doJSON(t, s, http.MethodPost, "/auth/login", `{"username":"player_one","password":"wrong-pass"}`, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestFullGameFlow(t *testing.T) {
	s := newTestServer(t)
	cookies := signup(t, s, "player_one")

	// Start: dimensions only, never the word.
	w := doJSON(t, s, http.MethodPost, "/games/start", `{"topic":"animals"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}
	started := decode[struct {
		GameID      string `json:"gameId"`
		WordLength  int    `json:"wordLength"`
		MaxAttempts int    `json:"maxAttempts"`
	}](t, w)
	if started.WordLength != 5 || started.MaxAttempts != 6 {
		t.Errorf("start = %+v, want length 5 attempts 6", started)
	}
	if strings.Contains(w.Body.String(), "TIGER") {
		t.Error("start response leaked the secret word")
	}

	// Starting again conflicts.
	if w := doJSON(t, s, http.MethodPost, "/games/start", `{"topic":"animals"}`, cookies); w.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", w.Code)
	}

	guessPath := "/games/" + started.GameID + "/guess"

	// Wrong length guess.
	if w := doJSON(t, s, http.MethodPost, guessPath, `{"word":"TIGERS"}`, cookies); w.Code != http.StatusBadRequest {
		t.Errorf("long guess status = %d, want 400", w.Code)
	}

	// A non-winning guess: feedback, no secret word.
	w = doJSON(t, s, http.MethodPost, guessPath, `{"word":"right"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("guess status = %d, body %s", w.Code, w.Body.String())
	}
	guessed := decode[struct {
		GameStatus        string                `json:"gameStatus"`
		Feedback          []game.LetterFeedback `json:"feedback"`
		RemainingAttempts int                   `json:"remainingAttempts"`
		CorrectWord       string                `json:"correctWord"`
	}](t, w)
	if guessed.GameStatus != "IN_PROGRESS" || guessed.RemainingAttempts != 5 {
		t.Errorf("guess = %+v", guessed)
	}
	if guessed.CorrectWord != "" {
		t.Error("secret word leaked mid-game")
	}
	wantStatuses := []game.FeedbackStatus{game.WrongPosition, game.CorrectPosition, game.CorrectPosition, game.Incorrect, game.WrongPosition}
	for i, fb := range guessed.Feedback {
		if fb.Status != wantStatuses[i] {
			t.Errorf("feedback[%d] = %s, want %s", i, fb.Status, wantStatuses[i])
		}
	}

	// Resume: history of one replayed guess.
	w = doJSON(t, s, http.MethodGet, "/games/active", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("active status = %d", w.Code)
	}
	active := decode[struct {
		GameID          string                  `json:"gameId"`
		PreviousGuesses [][]game.LetterFeedback `json:"previousGuesses"`
	}](t, w)
	if active.GameID != started.GameID || len(active.PreviousGuesses) != 1 {
		t.Errorf("active = %+v", active)
	}
	if strings.Contains(w.Body.String(), "TIGER") {
		t.Error("active response leaked the secret word")
	}

	// Winning guess reveals the word.
	w = doJSON(t, s, http.MethodPost, guessPath, `{"word":"tiger"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("winning guess status = %d", w.Code)
	}
	won := decode[struct {
		GameStatus  string `json:"gameStatus"`
		CorrectWord string `json:"correctWord"`
	}](t, w)
	if won.GameStatus != "WON" || won.CorrectWord != "TIGER" {
		t.Errorf("won = %+v", won)
	}

	// No active game once terminal.
	if w := doJSON(t, s, http.MethodGet, "/games/active", "", cookies); w.Code != http.StatusNoContent {
		t.Errorf("active after win status = %d, want 204", w.Code)
	}

	// Guessing on a finished game conflicts.
	if w := doJSON(t, s, http.MethodPost, guessPath, `{"word":"tiger"}`, cookies); w.Code != http.StatusConflict {
		t.Errorf("guess after win status = %d, want 409", w.Code)
	}
}

func TestGuessAuthorization(t *testing.T) {
	s := newTestServer(t)
	owner := signup(t, s, "owner_user")
	intruder := signup(t, s, "other_user")

	w := doJSON(t, s, http.MethodPost, "/games/start", `{"topic":"ANIMALS"}`, owner)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d", w.Code)
	}
	started := decode[struct {
		GameID string `json:"gameId"`
	}](t, w)

	// Another user's guess is forbidden, not merely missing.
	if w := doJSON(t, s, http.MethodPost, "/games/"+started.GameID+"/guess", `{"word":"tiger"}`, intruder); w.Code != http.StatusForbidden {
		t.Errorf("foreign guess status = %d, want 403", w.Code)
	}
	// Unknown game id is a 404.
	if w := doJSON(t, s, http.MethodPost, "/games/no-such-id/guess", `{"word":"tiger"}`, owner); w.Code != http.StatusNotFound {
		t.Errorf("unknown game status = %d, want 404", w.Code)
	}
}

func TestStartUnknownTopic(t *testing.T) {
	s := newTestServer(t)
	cookies := signup(t, s, "player_one")
	if w := doJSON(t, s, http.MethodPost, "/games/start", `{"topic":"GEOGRAPHY"}`, cookies); w.Code != http.StatusBadRequest {
		t.Errorf("unknown topic status = %d, want 400", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "1")
	words := store.NewMemoryWords(map[string][]string{"ANIMALS": {"TIGER"}})
	manager := game.NewManager(store.NewMemorySessions(), store.NewMemoryGuesses(), words)
	s := New(store.NewMemoryUsers(), manager)

	cookies := signup(t, s, "player_one")

	first := doJSON(t, s, http.MethodGet, "/games/active", "", cookies)
	if first.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d", first.Code)
	}
	second := doJSON(t, s, http.MethodGet, "/games/active", "", cookies)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.Code)
	}
}
