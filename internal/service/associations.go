package service

import (
	"context"
	"errors"

	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/store"
	"github.com/google/uuid"
)

// Associations maintains the note to profile links.
// It is the only code that creates or removes note_profiles rows.
type Associations struct {
	store store.Store
}

func NewAssociations(store store.Store) *Associations {
	return &Associations{store: store}
}

// Link links a note to a profile unless the link already exists.
// It reports whether a row was inserted.
func (a *Associations) Link(ctx context.Context, noteID, profileID string) (bool, error) {
	_, err := a.store.GetNoteProfile(ctx, noteID, profileID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	err = a.store.CreateNoteProfile(ctx, &model.NoteProfile{
		ID:        uuid.New().String(),
		NoteID:    noteID,
		ProfileID: profileID,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (a *Associations) UnlinkAllForNote(ctx context.Context, noteID string) error {
	return a.store.DeleteNoteProfilesByNote(ctx, noteID)
}

func (a *Associations) UnlinkAllForProfile(ctx context.Context, profileID string) error {
	return a.store.DeleteNoteProfilesByProfile(ctx, profileID)
}

func (a *Associations) ProfileIDsForNote(ctx context.Context, noteID string) ([]string, error) {
	links, err := a.store.ListNoteProfilesByNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ProfileID)
	}
	return ids, nil
}

func (a *Associations) NoteIDsForProfile(ctx context.Context, profileID string) ([]string, error) {
	links, err := a.store.ListNoteProfilesByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.NoteID)
	}
	return ids, nil
}

func (a *Associations) ListProfilesForNote(ctx context.Context, noteID string) ([]*model.Profile, error) {
	ids, err := a.ProfileIDsForNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return a.store.ListProfilesFromIDs(ctx, ids)
}

func (a *Associations) ListNotesForProfile(ctx context.Context, profileID string) ([]*model.Note, error) {
	ids, err := a.NoteIDsForProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return a.store.ListNotesFromIDs(ctx, ids)
}
