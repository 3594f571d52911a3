package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/docquiz/docquiz/internal/models"
)

var (
	// ErrNoSession means an operation was invoked without an in-progress
	// session. Callers redirect to the entry page.
	ErrNoSession = errors.New("no active quiz session")
	// ErrQuizComplete means the cursor has moved past the last question and
	// the caller should compute the summary instead of rendering a question.
	ErrQuizComplete = errors.New("quiz complete")
	// ErrNotCompleted means Summarize was called before the quiz ended.
	ErrNotCompleted = errors.New("quiz not completed")
	// ErrNotSummarized means Review was called before Summarize has run.
	ErrNotSummarized = errors.New("quiz not summarized")
)

// Controller drives the quiz lifecycle over typed sessions. It owns no
// session storage itself; callers load a session, invoke an operation, and
// persist the result.
type Controller struct {
	bank          *Bank
	questionCount int
	duration      time.Duration

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
	now func() time.Time
}

// NewController creates a controller that selects up to questionCount
// questions per quiz and allows duration per attempt.
func NewController(bank *Bank, questionCount int, duration time.Duration) *Controller {
	return &Controller{
		bank:          bank,
		questionCount: questionCount,
		duration:      duration,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
	}
}

// Start builds a fresh session: an unbiased permutation of bank indices
// truncated to the configured count, cursor at zero, clock started. Calling
// it over an existing session discards that session entirely. Fails without
// touching any session state when the bank is empty or unavailable.
func (c *Controller) Start(ctx context.Context) (*models.QuizSession, error) {
	questions, err := c.bank.Questions(ctx)
	if err != nil {
		return nil, err
	}

	count := c.questionCount
	if count > len(questions) {
		count = len(questions)
	}

	c.mu.Lock()
	perm := c.rng.Perm(len(questions))
	c.mu.Unlock()

	return &models.QuizSession{
		Selected:    perm[:count],
		CurrentStep: 0,
		Answers:     make(map[int]string),
		StartedAt:   c.now(),
		State:       models.StateInProgress,
	}, nil
}

// CurrentQuestion returns the record at the cursor plus the deadline for the
// client-side countdown. Returns ErrQuizComplete once the cursor has passed
// the last question.
func (c *Controller) CurrentQuestion(ctx context.Context, s *models.QuizSession) (*models.QuestionView, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if s.State == models.StateCompleted || s.CurrentStep >= len(s.Selected) {
		return nil, ErrQuizComplete
	}
	if s.State != models.StateInProgress {
		return nil, ErrNoSession
	}

	questions, err := c.bank.Questions(ctx)
	if err != nil {
		return nil, err
	}
	if !selectionValid(s.Selected, len(questions)) {
		return nil, ErrNoSession
	}

	return &models.QuestionView{
		Number:   s.CurrentStep + 1,
		Total:    len(s.Selected),
		Question: questions[s.Selected[s.CurrentStep]],
		Deadline: s.StartedAt.Add(c.duration),
	}, nil
}

// selectionValid reports whether every selected index points into the bank.
// A cookie minted before a restart can carry a selection drawn from a larger
// document than the one currently loaded.
func selectionValid(selected []int, bankSize int) bool {
	for _, idx := range selected {
		if idx < 0 || idx >= bankSize {
			return false
		}
	}
	return true
}

// SubmitAnswer records the submitted label (or the NotAnswered sentinel) at
// the current step. With end set, the session completes immediately;
// otherwise the cursor advances and the session completes when it reaches the
// end of the selection.
//
// Late submissions are not rejected here: the deadline is enforced by the
// presentation layer, which force-ends the quiz when the countdown expires.
func (c *Controller) SubmitAnswer(s *models.QuizSession, label string, end bool) error {
	if s == nil || s.State != models.StateInProgress {
		return ErrNoSession
	}

	if label == "" {
		label = models.NotAnswered
	}
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[s.CurrentStep] = label

	if end {
		s.State = models.StateCompleted
		return nil
	}

	s.CurrentStep++
	if s.CurrentStep >= len(s.Selected) {
		s.State = models.StateCompleted
	}
	return nil
}

// Summarize scores a completed session: one pass over the selection comparing
// recorded answers (missing steps count as NotAnswered) against the correct
// labels. The incorrect list is cached on the session for Review, and the
// quiz clock is cleared.
func (c *Controller) Summarize(ctx context.Context, s *models.QuizSession) (*models.Summary, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if s.State != models.StateCompleted {
		return nil, ErrNotCompleted
	}

	questions, err := c.bank.Questions(ctx)
	if err != nil {
		return nil, err
	}
	if !selectionValid(s.Selected, len(questions)) {
		return nil, ErrNoSession
	}

	s.StartedAt = time.Time{}

	correct := 0
	incorrect := make([]models.IncorrectAnswer, 0)
	for step, bankIndex := range s.Selected {
		given, ok := s.Answers[step]
		if !ok {
			given = models.NotAnswered
		}
		q := questions[bankIndex]
		if given == q.Answer {
			correct++
			continue
		}
		incorrect = append(incorrect, models.IncorrectAnswer{
			Index:       step + 1,
			Text:        q.Text,
			Options:     q.Options,
			Correct:     q.Answer,
			Given:       given,
			Explanation: q.Explanation,
		})
	}

	total := len(s.Selected)
	percent := 0.0
	if total > 0 {
		percent = float64(correct) / float64(total) * 100
	}

	s.Incorrect = incorrect
	s.Summarized = true

	return &models.Summary{
		Correct:   correct,
		Wrong:     total - correct,
		Total:     total,
		Percent:   percent,
		Incorrect: incorrect,
	}, nil
}

// Review returns the incorrect list cached by Summarize. An empty list is a
// perfect score, not an error.
func (c *Controller) Review(s *models.QuizSession) ([]models.IncorrectAnswer, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if !s.Summarized {
		return nil, ErrNotSummarized
	}
	return s.Incorrect, nil
}

// Deadline reports when an in-progress session's time runs out.
func (c *Controller) Deadline(s *models.QuizSession) (time.Time, error) {
	if s == nil || s.State != models.StateInProgress {
		return time.Time{}, ErrNoSession
	}
	return s.StartedAt.Add(c.duration), nil
}
