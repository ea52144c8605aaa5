package game

import (
	"errors"
	"strings"
	"testing"
)

// TestEvaluate checks the two-pass evaluation algorithm.
func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   []FeedbackStatus
	}{
		{
			name:   "exact match is all correct",
			guess:  "TIGER",
			target: "TIGER",
			want:   []FeedbackStatus{CorrectPosition, CorrectPosition, CorrectPosition, CorrectPosition, CorrectPosition},
		},
		{
			name:   "mix of correct, present, absent",
			guess:  "RIGHT",
			target: "TIGER",
			want:   []FeedbackStatus{WrongPosition, CorrectPosition, CorrectPosition, Incorrect, WrongPosition},
		},
		{
			name:   "no letters shared",
			guess:  "JUMPY",
			target: "TIGER",
			want:   []FeedbackStatus{Incorrect, Incorrect, Incorrect, Incorrect, Incorrect},
		},
		{
			name:   "repeated letters consume target occurrences",
			guess:  "AABBC",
			target: "ABCAB",
			want:   []FeedbackStatus{CorrectPosition, WrongPosition, WrongPosition, WrongPosition, WrongPosition},
		},
		{
			name:   "presence capped by target letter count",
			guess:  "EEEEE",
			target: "LEVEL",
			want:   []FeedbackStatus{Incorrect, CorrectPosition, Incorrect, CorrectPosition, Incorrect},
		},
		{
			name:   "presence scan claims target letters left to right",
			guess:  "ERASE",
			target: "SPEED",
			want:   []FeedbackStatus{WrongPosition, Incorrect, Incorrect, WrongPosition, WrongPosition},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.guess, tc.target)
			if err != nil {
				t.Fatalf("Evaluate(%q, %q) returned error: %v", tc.guess, tc.target, err)
			}
			if len(got) != len(tc.guess) {
				t.Fatalf("feedback length = %d, want %d", len(got), len(tc.guess))
			}
			for i, fb := range got {
				if fb.Letter != string(tc.guess[i]) {
					t.Errorf("position %d: letter = %q, want %q", i, fb.Letter, string(tc.guess[i]))
				}
				if fb.Status != tc.want[i] {
					t.Errorf("position %d: status = %s, want %s", i, fb.Status, tc.want[i])
				}
			}
		})
	}
}

// TestEvaluateLengthMismatch checks the precondition error.
func TestEvaluateLengthMismatch(t *testing.T) {
	if _, err := Evaluate("ERASE", "LEVELS"); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := Evaluate("", "TIGER"); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for empty guess, got %v", err)
	}
}

// TestEvaluateNeverOverCredits checks that the number of non-INCORRECT
// classifications of a letter never exceeds that letter's count in the
// target, across a batch of guess/target pairs.
func TestEvaluateNeverOverCredits(t *testing.T) {
	pairs := []struct{ guess, target string }{
		{"AABBC", "ABCAB"},
		{"EEEEE", "LEVEL"},
		{"ERASE", "SPEED"},
		{"LLLAA", "LEVEL"},
		{"ABABA", "BABAB"},
	}
	for _, p := range pairs {
		fb, err := Evaluate(p.guess, p.target)
		if err != nil {
			t.Fatalf("Evaluate(%q, %q): %v", p.guess, p.target, err)
		}
		credited := map[string]int{}
		for _, f := range fb {
			switch f.Status {
			case CorrectPosition, WrongPosition:
				credited[f.Letter]++
			case Incorrect:
			default:
				t.Fatalf("Evaluate(%q, %q): unexpected status %q", p.guess, p.target, f.Status)
			}
		}
		for letter, n := range credited {
			if available := strings.Count(p.target, letter); n > available {
				t.Errorf("Evaluate(%q, %q): letter %q credited %d times but target has %d",
					p.guess, p.target, letter, n, available)
			}
		}
	}
}
