package service

import (
	"context"
	"errors"
	"strings"

	"github.com/emrgen/notes/internal/cache"
	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewProfileService creates a new ProfileService.
func NewProfileService(store store.Store, sync *Synchronizer, cache cache.ProfileCache) *ProfileService {
	return &ProfileService{
		store: store,
		sync:  sync,
		cache: cache,
	}
}

// ProfileService manages profiles edited by hand.
type ProfileService struct {
	store store.Store
	sync  *Synchronizer
	cache cache.ProfileCache
}

func (p *ProfileService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*Profile, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, validationError("title is required")
	}
	if req.Content == "" {
		return nil, validationError("content is required")
	}

	if err := p.checkNotes(ctx, req.UserID, req.NoteIDs); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:      uuid.New().String(),
		UserID:  req.UserID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}
	if err := p.store.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if err := p.linkNotes(ctx, profile.ID, req.NoteIDs); err != nil {
		return nil, err
	}
	if err := p.resummarize(ctx, profile.ID, req.NoteIDs); err != nil {
		return nil, err
	}

	return p.GetProfile(ctx, profile.ID)
}

func (p *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	existing, err := p.store.GetProfile(ctx, req.ID)
	if err != nil {
		return nil, storeError(err, "profile", req.ID)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, validationError("title must not be empty")
	}
	if req.NoteIDs != nil {
		if err := p.checkNotes(ctx, existing.UserID, *req.NoteIDs); err != nil {
			return nil, err
		}
	}

	fields := store.ProfileFields{Content: req.Content}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		fields.Title = &title
	}
	if err := p.store.UpdateProfile(ctx, req.ID, fields); err != nil {
		return nil, err
	}

	if req.NoteIDs != nil {
		if err := p.sync.Associations().UnlinkAllForProfile(ctx, req.ID); err != nil {
			return nil, err
		}
		if err := p.linkNotes(ctx, req.ID, *req.NoteIDs); err != nil {
			return nil, err
		}
		if err := p.resummarize(ctx, req.ID, *req.NoteIDs); err != nil {
			return nil, err
		}
	}

	p.evict(ctx, req.ID)
	return p.GetProfile(ctx, req.ID)
}

func (p *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	if _, err := p.store.GetProfile(ctx, id); err != nil {
		return storeError(err, "profile", id)
	}

	if err := p.sync.Associations().UnlinkAllForProfile(ctx, id); err != nil {
		return err
	}
	if err := p.store.DeleteProfile(ctx, id); err != nil {
		return err
	}

	p.evict(ctx, id)
	return nil
}

// GetProfile reads a profile through the cache.
func (p *ProfileService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	cached, err := p.cache.GetProfile(ctx, id)
	if err != nil {
		logrus.Warnf("failed to read profile %s from cache: %v", id, err)
	}
	if cached != nil {
		return profileFromModel(cached), nil
	}

	profile, err := p.store.GetProfile(ctx, id)
	if err != nil {
		return nil, storeError(err, "profile", id)
	}

	if err := p.cache.SetProfile(ctx, profile); err != nil {
		logrus.Warnf("failed to cache profile %s: %v", id, err)
	}

	return profileFromModel(profile), nil
}

func (p *ProfileService) GetProfileWithNotes(ctx context.Context, id string) (*ProfileWithNotes, error) {
	profile, err := p.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	notes, err := p.sync.Associations().ListNotesForProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProfileWithNotes{Profile: *profile, Notes: notesFromModel(notes)}, nil
}

func (p *ProfileService) ListProfiles(ctx context.Context, userID string) ([]*Profile, error) {
	profiles, err := p.store.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profilesFromModel(profiles), nil
}

// SearchProfiles returns the user's profiles whose title or content contains query.
func (p *ProfileService) SearchProfiles(ctx context.Context, userID, query string) ([]*Profile, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("query is required")
	}

	profiles, err := p.store.SearchProfiles(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return profilesFromModel(profiles), nil
}

// RefreshProfile regenerates a profile from its linked notes.
func (p *ProfileService) RefreshProfile(ctx context.Context, id string) (*Profile, error) {
	if err := p.sync.Refresh(ctx, id); err != nil {
		return nil, err
	}

	p.evict(ctx, id)
	return p.GetProfile(ctx, id)
}

// checkNotes makes sure every note exists and belongs to userID.
func (p *ProfileService) checkNotes(ctx context.Context, userID string, ids []string) error {
	for _, noteID := range ids {
		note, err := p.store.GetNote(ctx, noteID)
		if err != nil {
			return storeError(err, "note", noteID)
		}
		if note.UserID != userID {
			return validationError("note %s belongs to another user", noteID)
		}
	}
	return nil
}

func (p *ProfileService) linkNotes(ctx context.Context, profileID string, ids []string) error {
	for _, noteID := range ids {
		if _, err := p.sync.Associations().Link(ctx, noteID, profileID); err != nil {
			return err
		}
	}
	return nil
}

// resummarize regenerates a profile whose links were set by hand. A failing
// summarizer leaves the content as it was.
func (p *ProfileService) resummarize(ctx context.Context, profileID string, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}

	err := p.sync.Refresh(ctx, profileID)
	if errors.Is(err, ErrCollaborator) {
		logrus.WithField("profile", profileID).Warnf("failed to summarize relinked profile: %v", err)
		return nil
	}
	return err
}

func (p *ProfileService) evict(ctx context.Context, id string) {
	if err := p.cache.DeleteProfile(ctx, id); err != nil {
		logrus.Warnf("failed to evict profile %s from cache: %v", id, err)
	}
}
