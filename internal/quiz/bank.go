package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/docquiz/docquiz/internal/docs"
	"github.com/docquiz/docquiz/internal/models"
	"github.com/docquiz/docquiz/internal/parser"
)

// ErrNoQuestions means the bank could not produce any questions, either
// because the document provider failed or because parsing yielded nothing.
// Fatal for starting a quiz; existing sessions are unaffected.
var ErrNoQuestions = errors.New("no questions available")

// Bank is the process-wide question cache. It loads the document once on
// first use and serves the same immutable slice for the process lifetime;
// there is no hot reload.
type Bank struct {
	provider docs.Provider
	docID    string

	once      sync.Once
	questions []models.Question
	err       error
}

// NewBank creates a bank over a document provider. Nothing is fetched until
// Questions is first called.
func NewBank(provider docs.Provider, docID string) *Bank {
	return &Bank{
		provider: provider,
		docID:    docID,
	}
}

// Questions returns the parsed question bank, loading it on first call. The
// load outcome, success or failure, sticks for the process lifetime.
func (b *Bank) Questions(ctx context.Context) ([]models.Question, error) {
	b.once.Do(func() {
		// The outcome is cached for every future caller, so the load must
		// not inherit the first request's cancellation: a client navigating
		// away mid-fetch would otherwise brick the bank for the whole
		// process.
		b.load(context.WithoutCancel(ctx))
	})
	return b.questions, b.err
}

func (b *Bank) load(ctx context.Context) {
	slog.Info("Loading question bank", "doc_id", b.docID)

	text, err := b.provider.DocumentText(ctx, b.docID)
	if err != nil {
		slog.Error("Failed to fetch question document", "doc_id", b.docID, "error", err)
		b.err = fmt.Errorf("%w: %v", ErrNoQuestions, err)
		return
	}

	questions, skipped := parser.Parse(text)
	for _, s := range skipped {
		slog.Warn("Skipping malformed question block", "block", s.Block, "reason", s.Reason)
	}

	if len(questions) == 0 {
		slog.Error("Question document contained no valid questions", "doc_id", b.docID)
		b.err = ErrNoQuestions
		return
	}

	slog.Info("Question bank loaded", "questions", len(questions), "skipped", len(skipped))
	b.questions = questions
}
