package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/notes/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateNote(ctx context.Context, note *model.Note) error {
	return g.db.WithContext(ctx).Create(note).Error
}

func (g *GormStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&note).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &note, nil
}

func (g *GormStore) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	var notes []*model.Note
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&notes).Error
	return notes, err
}

func (g *GormStore) ListNotesFromIDs(ctx context.Context, ids []string) ([]*model.Note, error) {
	notes := make([]*model.Note, 0)
	if len(ids) == 0 {
		return notes, nil
	}
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Order("created_at asc").Find(&notes).Error
	return notes, err
}

// SearchNotes matches the query as a substring of the title or the content.
func (g *GormStore) SearchNotes(ctx context.Context, userID, query string) ([]*model.Note, error) {
	var notes []*model.Note
	pattern := "%" + query + "%"
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(g.db.Where("title LIKE ?", pattern).Or("content LIKE ?", pattern)).
		Order("created_at asc").
		Find(&notes).Error
	return notes, err
}

func (g *GormStore) UpdateNote(ctx context.Context, id string, fields NoteFields) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Content != nil {
		updates["content"] = *fields.Content
	}
	if fields.Tags != nil {
		updates["tags"] = *fields.Tags
	}

	return g.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(updates).Error
}

func (g *GormStore) DeleteNote(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{}).Error
}

func (g *GormStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	return g.db.WithContext(ctx).Create(profile).Error
}

func (g *GormStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (g *GormStore) ListProfilesFromIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	profiles := make([]*model.Profile, 0)
	if len(ids) == 0 {
		return profiles, nil
	}
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Order("created_at asc").Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) FindProfileByTitle(ctx context.Context, userID, title string) (*model.Profile, error) {
	var profile model.Profile
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND title_key = ?", userID, model.TitleKey(title)).
		Order("created_at asc").
		First(&profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (g *GormStore) ListProfiles(ctx context.Context, userID string) ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) ListProfileTitles(ctx context.Context) ([]string, error) {
	var titles []string
	err := g.db.WithContext(ctx).Model(&model.Profile{}).Distinct().Order("title asc").Pluck("title", &titles).Error
	return titles, err
}

func (g *GormStore) SearchProfiles(ctx context.Context, userID, query string) ([]*model.Profile, error) {
	var profiles []*model.Profile
	pattern := "%" + query + "%"
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(g.db.Where("title LIKE ?", pattern).Or("content LIKE ?", pattern)).
		Order("created_at asc").
		Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) ListOrphanProfiles(ctx context.Context, olderThan time.Time) ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := g.db.WithContext(ctx).
		Where("updated_at < ?", olderThan).
		Where("id NOT IN (?)", g.db.Model(&model.NoteProfile{}).Select("profile_id")).
		Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) ListStaleProfiles(ctx context.Context, olderThan time.Time) ([]*model.Profile, error) {
	var profiles []*model.Profile
	err := g.db.WithContext(ctx).
		Where("content = ? AND updated_at < ?", "", olderThan).
		Where("id IN (?)", g.db.Model(&model.NoteProfile{}).Select("profile_id")).
		Order("updated_at asc").
		Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) UpdateProfile(ctx context.Context, id string, fields ProfileFields) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if fields.Title != nil {
		updates["title"] = *fields.Title
		updates["title_key"] = model.TitleKey(*fields.Title)
	}
	if fields.Content != nil {
		updates["content"] = *fields.Content
	}

	return g.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(updates).Error
}

func (g *GormStore) DeleteProfile(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Profile{}).Error
}

func (g *GormStore) GetNoteProfile(ctx context.Context, noteID, profileID string) (*model.NoteProfile, error) {
	var link model.NoteProfile
	err := g.db.WithContext(ctx).Where("note_id = ? AND profile_id = ?", noteID, profileID).First(&link).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func (g *GormStore) CreateNoteProfile(ctx context.Context, link *model.NoteProfile) error {
	return g.db.WithContext(ctx).Create(link).Error
}

func (g *GormStore) ListNoteProfilesByNote(ctx context.Context, noteID string) ([]*model.NoteProfile, error) {
	var links []*model.NoteProfile
	err := g.db.WithContext(ctx).Where("note_id = ?", noteID).Find(&links).Error
	return links, err
}

func (g *GormStore) ListNoteProfilesByProfile(ctx context.Context, profileID string) ([]*model.NoteProfile, error) {
	var links []*model.NoteProfile
	err := g.db.WithContext(ctx).Where("profile_id = ?", profileID).Find(&links).Error
	return links, err
}

func (g *GormStore) DeleteNoteProfilesByNote(ctx context.Context, noteID string) error {
	return g.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&model.NoteProfile{}).Error
}

func (g *GormStore) DeleteNoteProfilesByProfile(ctx context.Context, profileID string) error {
	return g.db.WithContext(ctx).Where("profile_id = ?", profileID).Delete(&model.NoteProfile{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	logrus.Errorf("store query failed: %v", err)
	return err
}
