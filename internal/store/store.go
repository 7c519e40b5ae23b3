package store

import (
	"context"
	"time"

	"github.com/emrgen/notes/internal/model"
)

type Store interface {
	NoteStore
	ProfileStore
	NoteProfileStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type NoteStore interface {
	// CreateNote creates a new note.
	CreateNote(ctx context.Context, note *model.Note) error
	// GetNote retrieves a note by ID.
	GetNote(ctx context.Context, id string) (*model.Note, error)
	// ListNotes retrieves the notes owned by a user.
	ListNotes(ctx context.Context, userID string) ([]*model.Note, error)
	// ListNotesFromIDs retrieves a list of notes by IDs.
	ListNotesFromIDs(ctx context.Context, ids []string) ([]*model.Note, error)
	// SearchNotes retrieves the notes whose title or content contains the query.
	SearchNotes(ctx context.Context, userID, query string) ([]*model.Note, error)
	// UpdateNote updates the given fields of a note.
	UpdateNote(ctx context.Context, id string, fields NoteFields) error
	// DeleteNote deletes a note by ID.
	DeleteNote(ctx context.Context, id string) error
}

type ProfileStore interface {
	// CreateProfile creates a new profile.
	CreateProfile(ctx context.Context, profile *model.Profile) error
	// GetProfile retrieves a profile by ID.
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// ListProfilesFromIDs retrieves a list of profiles by IDs.
	ListProfilesFromIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	// FindProfileByTitle retrieves a user's profile by case-insensitive title.
	FindProfileByTitle(ctx context.Context, userID, title string) (*model.Profile, error)
	// ListProfiles retrieves the profiles owned by a user.
	ListProfiles(ctx context.Context, userID string) ([]*model.Profile, error)
	// ListProfileTitles retrieves the distinct titles of every profile.
	ListProfileTitles(ctx context.Context) ([]string, error)
	// SearchProfiles retrieves the profiles whose title or content contains the query.
	SearchProfiles(ctx context.Context, userID, query string) ([]*model.Profile, error)
	// ListOrphanProfiles retrieves profiles without any linked note, last updated before olderThan.
	ListOrphanProfiles(ctx context.Context, olderThan time.Time) ([]*model.Profile, error)
	// ListStaleProfiles retrieves linked profiles whose content was never generated.
	ListStaleProfiles(ctx context.Context, olderThan time.Time) ([]*model.Profile, error)
	// UpdateProfile updates the given fields of a profile.
	UpdateProfile(ctx context.Context, id string, fields ProfileFields) error
	// DeleteProfile deletes a profile by ID.
	DeleteProfile(ctx context.Context, id string) error
}

type NoteProfileStore interface {
	// GetNoteProfile retrieves the link between a note and a profile.
	GetNoteProfile(ctx context.Context, noteID, profileID string) (*model.NoteProfile, error)
	// CreateNoteProfile creates a new link.
	CreateNoteProfile(ctx context.Context, link *model.NoteProfile) error
	// ListNoteProfilesByNote retrieves the links of a note.
	ListNoteProfilesByNote(ctx context.Context, noteID string) ([]*model.NoteProfile, error)
	// ListNoteProfilesByProfile retrieves the links of a profile.
	ListNoteProfilesByProfile(ctx context.Context, profileID string) ([]*model.NoteProfile, error)
	// DeleteNoteProfilesByNote deletes every link of a note.
	DeleteNoteProfilesByNote(ctx context.Context, noteID string) error
	// DeleteNoteProfilesByProfile deletes every link of a profile.
	DeleteNoteProfilesByProfile(ctx context.Context, profileID string) error
}

// NoteFields is a partial note update, nil fields are left untouched.
type NoteFields struct {
	Title   *string
	Content *string
	Tags    *string
}

// ProfileFields is a partial profile update, nil fields are left untouched.
type ProfileFields struct {
	Title   *string
	Content *string
}
