package models

import (
	"time"
)

// NotAnswered is recorded when a question is submitted (or skipped) without a
// selected option. It never matches any of the A-D labels, so an unanswered
// step can never score as correct.
const NotAnswered = "Not Answered"

// OptionCount is the number of options every question carries; option position
// implies a letter label A-D.
const OptionCount = 4

// Question represents a single parsed quiz question
type Question struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`      // correct option label, one of A-D
	Explanation string   `json:"explanation"` // shown during review
}

// OptionLabel returns the letter label for an option position (0 -> "A").
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// SessionState represents the lifecycle state of a quiz session
type SessionState string

const (
	StateInProgress SessionState = "in_progress" // answering questions
	StateCompleted  SessionState = "completed"   // quiz ended, summary available
)

// QuizSession is one client's quiz attempt. It is created by the controller's
// Start, mutated only by the controller, and carried between requests by the
// session store.
type QuizSession struct {
	// Selected holds indices into the question bank, already shuffled and
	// truncated to the configured count.
	Selected []int `json:"selected"`
	// CurrentStep is the 0-based cursor into Selected. It only ever moves
	// forward.
	CurrentStep int `json:"current_step"`
	// Answers maps a step index to the submitted label, or NotAnswered.
	Answers map[int]string `json:"answers"`
	// StartedAt is set when the quiz starts and cleared once the summary has
	// been computed.
	StartedAt time.Time    `json:"started_at"`
	State     SessionState `json:"state"`
	// Incorrect caches the summary's wrong-answer entries for the review page.
	// Nil until Summarize runs; empty but non-nil after a perfect run.
	Incorrect []IncorrectAnswer `json:"incorrect,omitempty"`
	// Summarized marks that Incorrect has been computed, so an empty list is
	// distinguishable from "summary never ran".
	Summarized bool `json:"summarized"`
}

// QuestionView is what the question page renders: the current record plus
// presentation context.
type QuestionView struct {
	Number   int       `json:"number"` // 1-based display index
	Total    int       `json:"total"`
	Question Question  `json:"question"`
	Deadline time.Time `json:"deadline"` // for the client-side countdown
}

// IncorrectAnswer captures one wrong answer for the review page
type IncorrectAnswer struct {
	Index       int      `json:"index"` // 1-based display index
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Given       string   `json:"given"`
	Explanation string   `json:"explanation"`
}

// Summary is the result of a completed quiz
type Summary struct {
	Correct   int               `json:"correct"`
	Wrong     int               `json:"wrong"`
	Total     int               `json:"total"`
	Percent   float64           `json:"percent"`
	Incorrect []IncorrectAnswer `json:"incorrect"`
}

// TimerUpdate is pushed over the countdown websocket once per second
type TimerUpdate struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Expired          bool `json:"expired"`
}
