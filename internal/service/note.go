package service

import (
	"context"
	"strings"

	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewNoteService creates a new NoteService.
func NewNoteService(store store.Store, sync *Synchronizer) *NoteService {
	return &NoteService{
		store: store,
		sync:  sync,
	}
}

// NoteService manages notes and triggers a synchronization on every mutation.
// Mutations block on the extraction and summarization calls of the run.
type NoteService struct {
	store store.Store
	sync  *Synchronizer
}

// CreateNote creates a note and returns it as it is after synchronization.
func (n *NoteService) CreateNote(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	if err := validateNote(req.Title, req.Content); err != nil {
		return nil, err
	}

	note := &model.Note{
		ID:      uuid.New().String(),
		UserID:  req.UserID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    "[]",
	}
	if err := n.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	if err := n.sync.Sync(ctx, OpCreate, note); err != nil {
		return nil, err
	}

	return n.GetNote(ctx, note.ID)
}

// UpdateNote replaces the title and content of a note. Tags are reset and
// derived again by the synchronization.
func (n *NoteService) UpdateNote(ctx context.Context, req UpdateNoteRequest) (*Note, error) {
	if err := validateNote(req.Title, req.Content); err != nil {
		return nil, err
	}

	tags := "[]"
	err := n.store.UpdateNote(ctx, req.ID, store.NoteFields{
		Title:   &req.Title,
		Content: &req.Content,
		Tags:    &tags,
	})
	if err != nil {
		return nil, err
	}

	note, err := n.store.GetNote(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "note", req.ID)
	}

	if err := n.sync.Sync(ctx, OpUpdate, note); err != nil {
		return nil, err
	}

	return n.GetNote(ctx, note.ID)
}

// DeleteNote deletes a note and settles the profiles it was linked to.
func (n *NoteService) DeleteNote(ctx context.Context, id string) error {
	note, err := n.store.GetNote(ctx, id)
	if err != nil {
		return storeError(err, "note", id)
	}

	associations := n.sync.Associations()
	profileIDs, err := associations.ProfileIDsForNote(ctx, id)
	if err != nil {
		return err
	}
	if err := associations.UnlinkAllForNote(ctx, id); err != nil {
		return err
	}
	if err := n.store.DeleteNote(ctx, id); err != nil {
		return err
	}

	logrus.Infof("deleted note %s linked to %d profiles", id, len(profileIDs))
	return n.sync.SyncDeleted(ctx, note, profileIDs)
}

func (n *NoteService) GetNote(ctx context.Context, id string) (*Note, error) {
	note, err := n.store.GetNote(ctx, id)
	if err != nil {
		return nil, storeError(err, "note", id)
	}
	return noteFromModel(note), nil
}

func (n *NoteService) ListNotes(ctx context.Context, userID string) ([]*Note, error) {
	notes, err := n.store.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notesFromModel(notes), nil
}

// SearchNotes returns the user's notes whose title or content contains query.
func (n *NoteService) SearchNotes(ctx context.Context, userID, query string) ([]*Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("query is required")
	}

	notes, err := n.store.SearchNotes(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return notesFromModel(notes), nil
}

// ListNoteProfiles returns the profiles a note is linked to.
func (n *NoteService) ListNoteProfiles(ctx context.Context, id string) ([]*Profile, error) {
	if _, err := n.store.GetNote(ctx, id); err != nil {
		return nil, storeError(err, "note", id)
	}

	profiles, err := n.sync.Associations().ListProfilesForNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return profilesFromModel(profiles), nil
}

func validateNote(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return validationError("title is required")
	}
	if content == "" {
		return validationError("content is required")
	}
	return nil
}
