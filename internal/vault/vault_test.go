package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emrgen/notes/internal/service"
	"github.com/emrgen/notes/internal/tester"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logrus.SetLevel(logrus.WarnLevel)
}

func newNotes(t *testing.T) (*service.NoteService, *tester.Extractor) {
	t.Helper()
	st := tester.Store(t)
	extractor := tester.NewExtractor()
	sync := service.NewSynchronizer(st, extractor, tester.NewSummarizer())
	return service.NewNoteService(st, sync), extractor
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		title string
		id    string
		body  string
		err   error
	}{
		{"plain markdown", "just text\n", "", "", "just text\n", nil},
		{"frontmatter", "---\nid: n1\ntitle: Gym\n---\nmet Dana\n", "Gym", "n1", "met Dana\n", nil},
		{"crlf", "---\r\ntitle: Gym\r\n---\r\nbody", "Gym", "", "body", nil},
		{"fence inside body", "---\ntitle: a\n---\nx\n---\ny", "a", "", "x\n---\ny", nil},
		{"empty body", "---\ntitle: a\n---", "a", "", "", nil},
		{"unterminated", "---\ntitle: a\nbody", "", "", "", ErrUnterminatedFrontmatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, doc.Frontmatter.Title)
			assert.Equal(t, tt.id, doc.Frontmatter.ID)
			assert.Equal(t, tt.body, doc.Body)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody"))
	assert.Error(t, err)
}

func TestRender_RoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := &Document{
		Frontmatter: Frontmatter{ID: "n1", Title: "Gym", Tags: []string{"Dana"}, Created: created},
		Body:        "met Dana\n",
	}

	data, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, string(data), "- Dana")
	assert.NotContains(t, string(data), "updated:")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Frontmatter.ID, parsed.Frontmatter.ID)
	assert.True(t, created.Equal(parsed.Frontmatter.Created))
	assert.Equal(t, doc.Body, parsed.Body)
}

func TestNew_InvalidPattern(t *testing.T) {
	notes, _ := newNotes(t)
	_, err := New(notes, t.TempDir(), "[", "")
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	notes, extractor := newNotes(t)
	extractor.On("met Dana at the gym\n", "Dana")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gym.md"), "met Dana at the gym\n")
	writeFile(t, filepath.Join(dir, "journal", "2024-03-01.md"), "---\ntitle: Friday\n---\nquiet day\n")
	writeFile(t, filepath.Join(dir, "todo.txt"), "not a note")
	writeFile(t, filepath.Join(dir, "empty.md"), "---\ntitle: nothing\n---\n")

	v, err := New(notes, dir, "", "u1")
	require.NoError(t, err)

	result, err := v.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Created: 2, Failed: 1}, result)

	list, err := notes.ListNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	titles := []string{list[0].Title, list[1].Title}
	assert.ElementsMatch(t, []string{"gym", "Friday"}, titles)

	// the new id is written back, so a second import changes nothing
	data, err := os.ReadFile(filepath.Join(dir, "gym.md"))
	require.NoError(t, err)
	doc, err := Parse(data)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Frontmatter.ID)
	assert.Equal(t, []string{"Dana"}, doc.Frontmatter.Tags)

	result, err = v.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Unchanged: 2, Failed: 1}, result)
}

func TestImportFile_Update(t *testing.T) {
	ctx := context.Background()
	notes, extractor := newNotes(t)
	extractor.On("lunch with Eve", "Eve")

	note, err := notes.CreateNote(ctx, service.CreateNoteRequest{UserID: "u1", Title: "lunch", Content: "lunch"})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "lunch.md")
	writeFile(t, path, "---\nid: "+note.ID+"\ntitle: lunch\n---\nlunch with Eve")

	v, err := New(notes, dir, "*.md", "u1")
	require.NoError(t, err)

	outcome, updated, err := v.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, note.ID, updated.ID)
	assert.Equal(t, []string{"Eve"}, updated.Tags)
}

func TestImportFile_UnknownIDCreates(t *testing.T) {
	ctx := context.Background()
	notes, _ := newNotes(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "moved.md")
	writeFile(t, path, "---\nid: gone\n---\nfrom another machine")

	v, err := New(notes, dir, "", "")
	require.NoError(t, err)

	outcome, note, err := v.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.NotEqual(t, "gone", note.ID)
	assert.Equal(t, "moved", note.Title)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	notes, extractor := newNotes(t)
	extractor.On("met Dana", "Dana")

	note, err := notes.CreateNote(ctx, service.CreateNoteRequest{UserID: "u1", Title: "gym", Content: "met Dana"})
	require.NoError(t, err)
	_, err = notes.CreateNote(ctx, service.CreateNoteRequest{UserID: "u2", Title: "other", Content: "other user"})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "vault")
	v, err := New(notes, dir, "", "u1")
	require.NoError(t, err)

	n, err := v.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dir, note.ID+".md"))
	require.NoError(t, err)
	doc, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, note.ID, doc.Frontmatter.ID)
	assert.Equal(t, "gym", doc.Frontmatter.Title)
	assert.Equal(t, []string{"Dana"}, doc.Frontmatter.Tags)
	assert.Equal(t, "met Dana", doc.Body)

	// an exported vault imports without changes
	result, err := v.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Unchanged: 1}, result)
}

func TestWatcher(t *testing.T) {
	notes, extractor := newNotes(t)
	extractor.On("coffee with Frank", "Frank")

	dir := t.TempDir()
	v, err := New(notes, dir, "", "u1")
	require.NoError(t, err)

	w, err := NewWatcher(v)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, filepath.Join(dir, "coffee.md"), "coffee with Frank")
	writeFile(t, filepath.Join(dir, "ignored.txt"), "coffee with Frank")

	assert.Eventually(t, func() bool {
		list, err := notes.ListNotes(context.Background(), "u1")
		return err == nil && len(list) == 1 && len(list[0].Tags) == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	list, err := notes.ListNotes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
