package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/emrgen/notes/internal/service"
	"github.com/sirupsen/logrus"
)

// DefaultPattern matches every markdown file below the vault root.
const DefaultPattern = "**/*.md"

// Outcome is what an import did with a single file.
type Outcome string

const (
	Created   Outcome = "created"
	Updated   Outcome = "updated"
	Unchanged Outcome = "unchanged"
)

// ImportResult counts the outcomes of a vault import.
type ImportResult struct {
	Created   int
	Updated   int
	Unchanged int
	Failed    int
}

// Vault mirrors the notes of one user scope as a directory of markdown files.
type Vault struct {
	notes   *service.NoteService
	dir     string
	pattern string
	userID  string
}

// New creates a vault rooted at dir. Files are selected with the doublestar
// pattern, relative to dir.
func New(notes *service.NoteService, dir, pattern, userID string) (*Vault, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid vault pattern %q", pattern)
	}

	return &Vault{
		notes:   notes,
		dir:     dir,
		pattern: pattern,
		userID:  userID,
	}, nil
}

func (v *Vault) Dir() string {
	return v.dir
}

// Export writes every note of the scope as <id>.md and returns how many
// files were written.
func (v *Vault) Export(ctx context.Context) (int, error) {
	if err := os.MkdirAll(v.dir, 0o755); err != nil {
		return 0, err
	}

	notes, err := v.notes.ListNotes(ctx, v.userID)
	if err != nil {
		return 0, err
	}

	for _, note := range notes {
		doc := &Document{
			Frontmatter: Frontmatter{
				ID:      note.ID,
				Title:   note.Title,
				Tags:    note.Tags,
				Created: note.CreatedAt,
				Updated: note.UpdatedAt,
			},
			Body: note.Content,
		}
		if err := v.write(filepath.Join(v.dir, note.ID+".md"), doc); err != nil {
			return 0, err
		}
	}

	logrus.Infof("exported %d notes to %s", len(notes), v.dir)
	return len(notes), nil
}

// Import imports every file matching the pattern. A file that fails is
// logged and counted, the rest are still imported.
func (v *Vault) Import(ctx context.Context) (*ImportResult, error) {
	matches, err := doublestar.Glob(os.DirFS(v.dir), v.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", v.pattern, err)
	}

	result := &ImportResult{}
	for _, match := range matches {
		outcome, _, err := v.ImportFile(ctx, filepath.Join(v.dir, filepath.FromSlash(match)))
		if err != nil {
			logrus.Warnf("failed to import %s: %v", match, err)
			result.Failed++
			continue
		}

		switch outcome {
		case Created:
			result.Created++
		case Updated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	logrus.Infof("imported %s: %d created, %d updated, %d unchanged, %d failed",
		v.dir, result.Created, result.Updated, result.Unchanged, result.Failed)
	return result, nil
}

// ImportFile creates or updates the note stored in path. The frontmatter id
// selects the note to update; a file without a known id creates a note and
// gets the new id written back, so importing it again is an update.
func (v *Vault) ImportFile(ctx context.Context, path string) (Outcome, *service.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return "", nil, err
	}

	title := strings.TrimSpace(doc.Frontmatter.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if id := doc.Frontmatter.ID; id != "" {
		existing, err := v.notes.GetNote(ctx, id)
		switch {
		case err == nil:
			if existing.Title == title && existing.Content == doc.Body {
				return Unchanged, existing, nil
			}
			note, err := v.notes.UpdateNote(ctx, service.UpdateNoteRequest{
				ID:      id,
				Title:   title,
				Content: doc.Body,
			})
			if err != nil {
				return "", nil, err
			}
			return Updated, note, nil
		case !errors.Is(err, service.ErrNotFound):
			return "", nil, err
		}
	}

	note, err := v.notes.CreateNote(ctx, service.CreateNoteRequest{
		UserID:  v.userID,
		Title:   title,
		Content: doc.Body,
	})
	if err != nil {
		return "", nil, err
	}

	doc.Frontmatter.ID = note.ID
	doc.Frontmatter.Title = note.Title
	doc.Frontmatter.Tags = note.Tags
	doc.Frontmatter.Created = note.CreatedAt
	doc.Frontmatter.Updated = note.UpdatedAt
	if err := v.write(path, doc); err != nil {
		return "", nil, fmt.Errorf("failed to write id back to %s: %w", path, err)
	}

	return Created, note, nil
}

// matches reports whether path, absolute or relative to the vault root,
// is selected by the pattern.
func (v *Vault) matches(path string) bool {
	rel, err := filepath.Rel(v.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, err := doublestar.Match(v.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (v *Vault) write(path string, doc *Document) error {
	data, err := doc.Render()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o644))
}
