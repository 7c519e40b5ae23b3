// Package ai contains the entity extraction and profile summarization collaborators.
package ai

import (
	"context"
	"errors"

	"github.com/emrgen/notes/internal/profile"
)

var (
	// ErrUnusableResponse is returned when a model answer doesn't have the expected shape.
	ErrUnusableResponse = errors.New("unusable model response")
)

// Extractor returns the candidate entity names mentioned in a text, in order of appearance.
// Names may repeat and are not normalized.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Summarizer describes an entity from the texts of every note that mentions it.
// A nil record without error means there is nothing to update.
type Summarizer interface {
	Summarize(ctx context.Context, name string, texts []string) (*profile.Record, error)
}

// NopSummarizer never produces a record, profiles keep their current content.
type NopSummarizer struct{}

func (NopSummarizer) Summarize(ctx context.Context, name string, texts []string) (*profile.Record, error) {
	return nil, nil
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, text string) ([]string, error)

func (f ExtractorFunc) Extract(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, name string, texts []string) (*profile.Record, error)

func (f SummarizerFunc) Summarize(ctx context.Context, name string, texts []string) (*profile.Record, error) {
	return f(ctx, name, texts)
}
