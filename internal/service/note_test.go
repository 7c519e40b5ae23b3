package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateNoteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateNoteRequest
	}{
		{"missing title", CreateNoteRequest{Content: "x"}},
		{"blank title", CreateNoteRequest{Title: "  ", Content: "x"}},
		{"missing content", CreateNoteRequest{Title: "t"}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := f.notes.CreateNote(context.TODO(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, note)
		})
	}

	assert.Equal(t, 0, f.extractor.Calls())
}

func TestNoteService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()

	note := f.createNote(t, "planning the trip with Alice", "Alice")
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "u1", note.UserID)
	assert.Equal(t, []string{"Alice"}, note.Tags)

	got, err := f.notes.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Content, got.Content)

	f.extractor.On("trip is booked, Bob is coming", "Bob")
	updated, err := f.notes.UpdateNote(ctx, UpdateNoteRequest{ID: note.ID, Title: "trip", Content: "trip is booked, Bob is coming"})
	require.NoError(t, err)
	assert.Equal(t, "trip", updated.Title)
	assert.Equal(t, []string{"Bob"}, updated.Tags)
	assert.False(t, updated.UpdatedAt.Before(note.UpdatedAt))

	profiles, err := f.notes.ListNoteProfiles(ctx, note.ID)
	require.NoError(t, err)
	titles := make([]string, 0, len(profiles))
	for _, p := range profiles {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, titles)

	notes, err := f.notes.ListNotes(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	found, err := f.notes.SearchNotes(ctx, "u1", "booked")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.notes.SearchNotes(ctx, "u1", " ")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.notes.DeleteNote(ctx, note.ID))
	_, err = f.notes.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	profiles, err = f.profiles.ListProfiles(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestNoteService_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.TODO()
	id := uuid.New().String()

	_, err := f.notes.UpdateNote(ctx, UpdateNoteRequest{ID: id, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.notes.DeleteNote(ctx, id), ErrNotFound)

	_, err = f.notes.ListNoteProfiles(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTags(t *testing.T) {
	encoded, err := encodeTags(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	encoded, err = encodeTags([]string{"Alice", "Bob"})
	require.NoError(t, err)
	assert.Equal(t, `["Alice","Bob"]`, encoded)
	assert.Equal(t, []string{"Alice", "Bob"}, decodeTags(encoded))

	assert.Equal(t, []string{}, decodeTags(""))
	assert.Equal(t, []string{}, decodeTags("{corrupted"))
}
