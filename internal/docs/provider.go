package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// ErrUnavailable wraps any provider failure (not found, permission denied,
// network). Callers treat all of them as "no text available" and do not retry.
var ErrUnavailable = errors.New("question document unavailable")

// Provider fetches the raw question document text
type Provider interface {
	DocumentText(ctx context.Context, docID string) (string, error)
}

// GoogleDocsProvider reads the question document through the Google Docs API
// using a service account. The document must be shared with the service
// account's email.
type GoogleDocsProvider struct {
	svc *gdocs.Service
}

// NewGoogleDocsProvider builds a read-only Docs client from a service account
// credentials file.
func NewGoogleDocsProvider(ctx context.Context, credentialsFile string) (*GoogleDocsProvider, error) {
	svc, err := gdocs.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdocs.DocumentsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs client: %w", err)
	}
	return &GoogleDocsProvider{svc: svc}, nil
}

// DocumentText fetches a document and flattens its paragraphs' text runs into
// plain text, in document order. Tables and other structural elements carry no
// question content and are skipped.
func (p *GoogleDocsProvider) DocumentText(ctx context.Context, docID string) (string, error) {
	doc, err := p.svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var text strings.Builder
	if doc.Body != nil {
		for _, element := range doc.Body.Content {
			if element.Paragraph == nil {
				continue
			}
			for _, pe := range element.Paragraph.Elements {
				if pe.TextRun != nil {
					text.WriteString(pe.TextRun.Content)
				}
			}
		}
	}

	return text.String(), nil
}
