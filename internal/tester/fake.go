package tester

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/emrgen/notes/internal/profile"
)

// ErrFake is returned by the fake collaborators when told to fail.
var ErrFake = errors.New("fake collaborator failure")

// Extractor returns the names registered for a text. Texts without an entry yield no names.
type Extractor struct {
	mu    sync.Mutex
	names map[string][]string
	fail  bool
	calls int
}

func NewExtractor() *Extractor {
	return &Extractor{names: make(map[string][]string)}
}

// On registers the names extracted from text.
func (e *Extractor) On(text string, names ...string) *Extractor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names[text] = names
	return e
}

// Fail makes every following call fail.
func (e *Extractor) Fail(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail = fail
}

func (e *Extractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.fail {
		return nil, ErrFake
	}
	return e.names[text], nil
}

// SummaryCall is one recorded Summarize invocation.
type SummaryCall struct {
	Name  string
	Texts []string
}

// Summarizer describes an entity by echoing the texts it was given.
// The record's occupation holds the texts joined with " | " and the record
// carries no name unless one was set with Rename.
type Summarizer struct {
	mu      sync.Mutex
	failFor map[string]bool
	rename  map[string]string
	empty   bool
	calls   []SummaryCall
}

func NewSummarizer() *Summarizer {
	return &Summarizer{
		failFor: make(map[string]bool),
		rename:  make(map[string]string),
	}
}

// FailFor makes calls for name fail, matched case-insensitively.
func (s *Summarizer) FailFor(name string) *Summarizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFor[strings.ToLower(name)] = true
	return s
}

// Rename makes the record for name carry another display name.
func (s *Summarizer) Rename(name, to string) *Summarizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rename[strings.ToLower(name)] = to
	return s
}

// ReturnNothing makes every call return a nil record.
func (s *Summarizer) ReturnNothing(empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.empty = empty
}

func (s *Summarizer) Calls() []SummaryCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]SummaryCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}

func (s *Summarizer) Summarize(ctx context.Context, name string, texts []string) (*profile.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, SummaryCall{Name: name, Texts: append([]string(nil), texts...)})

	key := strings.ToLower(name)
	if s.failFor[key] {
		return nil, ErrFake
	}
	if s.empty {
		return nil, nil
	}

	record := &profile.Record{
		Occupation: profile.Text(strings.Join(texts, " | ")),
	}
	if to, ok := s.rename[key]; ok {
		record.Name = profile.Text(to)
	}
	return record, nil
}
