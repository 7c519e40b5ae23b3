package service

import (
	"time"

	"github.com/emrgen/notes/internal/model"
)

// Note is the API representation of a note.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the API representation of a profile.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileWithNotes is a profile with the notes linked to it.
type ProfileWithNotes struct {
	Profile
	Notes []*Note `json:"notes"`
}

type CreateNoteRequest struct {
	UserID  string
	Title   string
	Content string
}

type UpdateNoteRequest struct {
	ID      string
	Title   string
	Content string
}

type CreateProfileRequest struct {
	UserID  string
	Title   string
	Content string
	NoteIDs []string
}

// UpdateProfileRequest is a partial update, nil fields are left untouched.
// A non-nil NoteIDs replaces every link of the profile.
type UpdateProfileRequest struct {
	ID      string
	Title   *string
	Content *string
	NoteIDs *[]string
}

func noteFromModel(n *model.Note) *Note {
	return &Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      decodeTags(n.Tags),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func notesFromModel(notes []*model.Note) []*Note {
	res := make([]*Note, 0, len(notes))
	for _, n := range notes {
		res = append(res, noteFromModel(n))
	}
	return res
}

func profileFromModel(p *model.Profile) *Profile {
	return &Profile{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func profilesFromModel(profiles []*model.Profile) []*Profile {
	res := make([]*Profile, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, profileFromModel(p))
	}
	return res
}
