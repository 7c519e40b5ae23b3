package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/notes/internal/ai"
	"github.com/emrgen/notes/internal/cache"
	"github.com/emrgen/notes/internal/metrics"
	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/profile"
	"github.com/emrgen/notes/internal/queue"
	"github.com/emrgen/notes/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type SyncOption func(*Synchronizer)

func WithCache(c cache.ProfileCache) SyncOption {
	return func(s *Synchronizer) {
		s.cache = c
	}
}

func WithPublisher(p queue.Publisher) SyncOption {
	return func(s *Synchronizer) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.SyncMetrics) SyncOption {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// Synchronizer keeps profiles in step with the notes that mention them.
//
// A run is sequential: the note is tagged and re-read before any profile is
// resolved, and every profile is linked before it is summarized. Failures of
// one profile are logged and never stop the others.
type Synchronizer struct {
	store        store.Store
	associations *Associations
	extractor    ai.Extractor
	summarizer   ai.Summarizer
	cache        cache.ProfileCache
	publisher    queue.Publisher
	metrics      *metrics.SyncMetrics
}

func NewSynchronizer(store store.Store, extractor ai.Extractor, summarizer ai.Summarizer, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		store:        store,
		associations: NewAssociations(store),
		extractor:    extractor,
		summarizer:   summarizer,
		cache:        cache.NewNop(),
		publisher:    queue.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Synchronizer) Associations() *Associations {
	return s.associations
}

// Sync runs one synchronization for a note mutation.
// For OpDelete the note's remaining links are removed first, callers that
// already removed them use SyncDeleted.
func (s *Synchronizer) Sync(ctx context.Context, op Operation, note *model.Note) error {
	switch op {
	case OpCreate, OpUpdate:
		start := time.Now()
		defer func() { s.metrics.ObserveRun(string(op), time.Since(start)) }()
		return s.reconcile(ctx, op, note)
	case OpDelete:
		profileIDs, err := s.associations.ProfileIDsForNote(ctx, note.ID)
		if err != nil {
			return err
		}
		if err := s.associations.UnlinkAllForNote(ctx, note.ID); err != nil {
			return err
		}
		return s.SyncDeleted(ctx, note, profileIDs)
	default:
		return validationError("unknown sync operation %q", op)
	}
}

// SyncDeleted settles the profiles a deleted note was linked to.
// Profiles left without links are deleted, the others are regenerated.
func (s *Synchronizer) SyncDeleted(ctx context.Context, note *model.Note, profileIDs []string) error {
	start := time.Now()
	defer func() { s.metrics.ObserveRun(string(OpDelete), time.Since(start)) }()

	log := logrus.WithFields(logrus.Fields{"op": OpDelete, "note": note.ID})
	for _, id := range profileIDs {
		if err := s.settle(ctx, note.UserID, id); err != nil {
			log.WithField("profile", id).Warnf("failed to settle profile: %v", err)
		}
	}

	return nil
}

// Refresh regenerates a profile from the notes currently linked to it.
func (s *Synchronizer) Refresh(ctx context.Context, profileID string) error {
	if _, err := s.store.GetProfile(ctx, profileID); err != nil {
		return storeError(err, "profile", profileID)
	}
	return s.regenerate(ctx, profileID, "")
}

func (s *Synchronizer) reconcile(ctx context.Context, op Operation, note *model.Note) error {
	log := logrus.WithFields(logrus.Fields{"op": op, "note": note.ID})

	tags := normalizeNames(s.extract(ctx, log, note.Content))

	// links made before this run are regenerated too, an update never retracts them
	var prior []string
	if op == OpUpdate {
		ids, err := s.associations.ProfileIDsForNote(ctx, note.ID)
		if err != nil {
			return err
		}
		prior = ids
	}

	encoded, err := encodeTags(tags)
	if err != nil {
		return err
	}
	if err := s.store.UpdateNote(ctx, note.ID, store.NoteFields{Tags: &encoded}); err != nil {
		return err
	}

	current, err := s.store.GetNote(ctx, note.ID)
	if err != nil {
		return storeError(err, "note", note.ID)
	}
	s.publish(ctx, &queue.ProfileEvent{Type: queue.EventNoteTagged, UserID: current.UserID, NoteID: current.ID, Tags: tags})

	touched := mapset.NewThreadUnsafeSet[string]()
	for _, name := range tags {
		profileID, err := s.resolve(ctx, current, name)
		if err != nil {
			s.metrics.IncrementFailures(metrics.FailureLink)
			log.WithField("name", name).Errorf("failed to link profile: %v", err)
			continue
		}
		touched.Add(profileID)

		if err := s.regenerate(ctx, profileID, name); err != nil {
			log.WithField("name", name).Warnf("profile not regenerated: %v", err)
		}
	}

	for _, id := range prior {
		if touched.Contains(id) {
			continue
		}
		if err := s.regenerate(ctx, id, ""); err != nil {
			log.WithField("profile", id).Warnf("profile not regenerated: %v", err)
		}
	}

	log.Infof("synchronized %d names", len(tags))
	return nil
}

// extract never fails, an unusable answer counts as no names.
func (s *Synchronizer) extract(ctx context.Context, log *logrus.Entry, text string) []string {
	names, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.metrics.IncrementFailures(metrics.FailureExtract)
		log.Warnf("%v: extract: %v", ErrCollaborator, err)
		return nil
	}
	return names
}

// normalizeNames trims the names and drops the ones already seen, ignoring case.
// The first spelling of a name wins.
func normalizeNames(names []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	tags := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := model.TitleKey(name)
		if key == "" || seen.Contains(key) {
			continue
		}
		seen.Add(key)
		tags = append(tags, name)
	}
	return tags
}

// resolve finds or creates the user's profile for name and links the note to it.
func (s *Synchronizer) resolve(ctx context.Context, note *model.Note, name string) (string, error) {
	p, err := s.store.FindProfileByTitle(ctx, note.UserID, name)
	if errors.Is(err, store.ErrNotFound) {
		p = &model.Profile{
			ID:      uuid.New().String(),
			UserID:  note.UserID,
			Title:   name,
			Content: "",
		}
		if err := s.store.CreateProfile(ctx, p); err != nil {
			return "", err
		}
		s.metrics.IncrementProfilesCreated()
		s.publish(ctx, &queue.ProfileEvent{Type: queue.EventProfileCreated, UserID: p.UserID, ProfileID: p.ID, NoteID: note.ID, Title: p.Title})
	} else if err != nil {
		return "", err
	}

	if _, err := s.associations.Link(ctx, note.ID, p.ID); err != nil {
		return "", err
	}

	return p.ID, nil
}

// regenerate rebuilds a profile from every linked note. The profile is left
// untouched when the summarizer fails or has nothing to say.
func (s *Synchronizer) regenerate(ctx context.Context, profileID, name string) error {
	p, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return storeError(err, "profile", profileID)
	}
	if name == "" {
		name = p.Title
	}

	notes, err := s.associations.ListNotesForProfile(ctx, profileID)
	if err != nil {
		return err
	}
	texts := make([]string, 0, len(notes))
	for _, n := range notes {
		texts = append(texts, n.Content)
	}

	record, err := s.summarizer.Summarize(ctx, name, texts)
	if err != nil {
		s.metrics.IncrementFailures(metrics.FailureSummarize)
		return fmt.Errorf("%w: summarize %q: %v", ErrCollaborator, name, err)
	}
	if record == nil {
		return nil
	}

	title := p.Title
	if n := record.DisplayName(); n != "" {
		title = n
	}
	content := profile.Format(record)
	if err := s.store.UpdateProfile(ctx, p.ID, store.ProfileFields{Title: &title, Content: &content}); err != nil {
		return err
	}

	s.metrics.IncrementProfilesRegenerated()
	s.invalidate(ctx, p.ID)
	s.publish(ctx, &queue.ProfileEvent{Type: queue.EventProfileUpdated, UserID: p.UserID, ProfileID: p.ID, Title: title})
	return nil
}

// settle deletes a profile without links or regenerates it from the remaining notes.
func (s *Synchronizer) settle(ctx context.Context, userID, profileID string) error {
	remaining, err := s.associations.NoteIDsForProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return s.regenerate(ctx, profileID, "")
	}

	return s.deleteOrphan(ctx, userID, profileID)
}

func (s *Synchronizer) deleteOrphan(ctx context.Context, userID, profileID string) error {
	if err := s.associations.UnlinkAllForProfile(ctx, profileID); err != nil {
		return err
	}
	if err := s.store.DeleteProfile(ctx, profileID); err != nil {
		return err
	}

	s.metrics.IncrementProfilesDeleted()
	s.invalidate(ctx, profileID)
	s.publish(ctx, &queue.ProfileEvent{Type: queue.EventProfileDeleted, UserID: userID, ProfileID: profileID})
	return nil
}

// SweepOrphans deletes the profiles left without links that were last
// updated before olderThan.
func (s *Synchronizer) SweepOrphans(ctx context.Context, olderThan time.Time) (int, error) {
	orphans, err := s.store.ListOrphanProfiles(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, p := range orphans {
		if err := s.deleteOrphan(ctx, p.UserID, p.ID); err != nil {
			logrus.WithField("profile", p.ID).Errorf("failed to sweep orphan profile: %v", err)
			continue
		}
		swept++
	}

	s.metrics.AddOrphansSwept(swept)
	return swept, nil
}

func (s *Synchronizer) invalidate(ctx context.Context, profileID string) {
	if err := s.cache.DeleteProfile(ctx, profileID); err != nil {
		s.metrics.IncrementFailures(metrics.FailureCache)
		logrus.Warnf("failed to evict profile %s from cache: %v", profileID, err)
	}
}

func (s *Synchronizer) publish(ctx context.Context, event *queue.ProfileEvent) {
	event.At = time.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncrementFailures(metrics.FailurePublish)
		logrus.Warnf("failed to publish %s event: %v", event.Type, err)
	}
}
