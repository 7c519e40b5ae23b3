package service

import (
	"context"
	"testing"

	"github.com/emrgen/notes/internal/cache"
	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/queue"
	"github.com/emrgen/notes/internal/store"
	"github.com/emrgen/notes/internal/tester"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *store.GormStore
	extractor  *tester.Extractor
	summarizer *tester.Summarizer
	events     *queue.Recorder
	cache      *cache.MemoryProfileCache
	sync       *Synchronizer
	notes      *NoteService
	profiles   *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      tester.Store(t),
		extractor:  tester.NewExtractor(),
		summarizer: tester.NewSummarizer(),
		events:     queue.NewRecorder(),
		cache:      cache.NewMemoryProfileCache(cache.DefaultTTL),
	}
	f.sync = NewSynchronizer(f.store, f.extractor, f.summarizer, WithCache(f.cache), WithPublisher(f.events))
	f.notes = NewNoteService(f.store, f.sync)
	f.profiles = NewProfileService(f.store, f.sync, f.cache)

	return f
}

func (f *fixture) createNote(t *testing.T, content string, names ...string) *Note {
	t.Helper()
	f.extractor.On(content, names...)
	note, err := f.notes.CreateNote(context.TODO(), CreateNoteRequest{UserID: "u1", Title: "note", Content: content})
	require.NoError(t, err)
	return note
}

func (f *fixture) profileByTitle(t *testing.T, title string) *model.Profile {
	t.Helper()
	p, err := f.store.FindProfileByTitle(context.TODO(), "u1", title)
	require.NoError(t, err)
	return p
}

func (f *fixture) linkedNoteIDs(t *testing.T, profileID string) []string {
	t.Helper()
	ids, err := f.sync.Associations().NoteIDsForProfile(context.TODO(), profileID)
	require.NoError(t, err)
	return ids
}
