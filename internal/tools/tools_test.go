package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/emrgen/notes/internal/cache"
	"github.com/emrgen/notes/internal/service"
	"github.com/emrgen/notes/internal/tester"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logrus.SetLevel(logrus.WarnLevel)
}

type fixture struct {
	notes     *service.NoteService
	profiles  *service.ProfileService
	extractor *tester.Extractor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := tester.Store(t)
	extractor := tester.NewExtractor()
	sync := service.NewSynchronizer(st, extractor, tester.NewSummarizer())

	return &fixture{
		notes:     service.NewNoteService(st, sync),
		profiles:  service.NewProfileService(st, sync, cache.NewNop()),
		extractor: extractor,
	}
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, tool Tool, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := tool.Handle(context.Background(), makeReq(args))
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(res))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &v))
	return v
}

func TestAll_Definitions(t *testing.T) {
	f := newFixture(t)

	want := map[string][]string{
		"note_create":     {"title", "content"},
		"note_update":     {"id", "title", "content"},
		"note_delete":     {"id"},
		"note_get":        {"id"},
		"note_search":     {"query"},
		"profile_get":     {"id"},
		"profile_search":  {"query"},
		"profile_refresh": {"id"},
	}

	tools := All(f.notes, f.profiles)
	require.Len(t, tools, len(want))
	for _, tool := range tools {
		def := tool.Definition()
		required, ok := want[def.Name]
		require.True(t, ok, "unexpected tool %s", def.Name)
		assert.ElementsMatch(t, required, def.InputSchema.Required, def.Name)
		assert.NotEmpty(t, def.Description, def.Name)
	}

	assert.NotNil(t, NewMCPServer(f.notes, f.profiles))
}

func TestNoteTools(t *testing.T) {
	f := newFixture(t)
	f.extractor.On("Dana fixed my bike", "Dana")

	created := decodeResult[service.Note](t, call(t, NewNoteCreateTool(f.notes), map[string]any{
		"title":   "bike",
		"content": "Dana fixed my bike",
		"user_id": "u1",
	}))
	assert.Equal(t, []string{"Dana"}, created.Tags)
	assert.Equal(t, "u1", created.UserID)

	got := decodeResult[noteWithProfilesView](t, call(t, NewNoteGetTool(f.notes), map[string]any{"id": created.ID}))
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Profiles, 1)
	assert.Equal(t, "Dana", got.Profiles[0].Title)

	found := decodeResult[[]service.Note](t, call(t, NewNoteSearchTool(f.notes), map[string]any{
		"query":   "bike",
		"user_id": "u1",
	}))
	assert.Len(t, found, 1)

	updated := decodeResult[service.Note](t, call(t, NewNoteUpdateTool(f.notes), map[string]any{
		"id":      created.ID,
		"title":   "bike",
		"content": "bike is fine now",
	}))
	assert.Empty(t, updated.Tags)

	res := call(t, NewNoteDeleteTool(f.notes), map[string]any{"id": created.ID})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(res), created.ID)

	res = call(t, NewNoteGetTool(f.notes), map[string]any{"id": created.ID})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "not found")
}

// noteWithProfilesView mirrors the note_get output for decoding.
type noteWithProfilesView struct {
	service.Note
	Profiles []service.Profile `json:"profiles"`
}

func TestProfileTools(t *testing.T) {
	f := newFixture(t)
	f.extractor.On("lunch with Eve", "Eve")

	_, err := f.notes.CreateNote(context.Background(), service.CreateNoteRequest{Title: "lunch", Content: "lunch with Eve"})
	require.NoError(t, err)

	found := decodeResult[[]service.Profile](t, call(t, NewProfileSearchTool(f.profiles), map[string]any{"query": "Eve"}))
	require.Len(t, found, 1)
	eve := found[0]

	got := decodeResult[service.ProfileWithNotes](t, call(t, NewProfileGetTool(f.profiles), map[string]any{"id": eve.ID}))
	assert.Equal(t, "Eve", got.Title)
	require.Len(t, got.Notes, 1)

	refreshed := decodeResult[service.Profile](t, call(t, NewProfileRefreshTool(f.profiles), map[string]any{"id": eve.ID}))
	assert.Contains(t, refreshed.Content, "Occupation: lunch with Eve")
}

func TestToolErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		tool Tool
		args map[string]any
		want string
	}{
		{"create without title", NewNoteCreateTool(f.notes), map[string]any{"content": "x"}, "validation failed"},
		{"update without id", NewNoteUpdateTool(f.notes), map[string]any{"title": "t", "content": "c"}, "'id' is required"},
		{"delete unknown", NewNoteDeleteTool(f.notes), map[string]any{"id": "missing"}, "not found"},
		{"search without query", NewNoteSearchTool(f.notes), map[string]any{}, "validation failed"},
		{"profile get unknown", NewProfileGetTool(f.profiles), map[string]any{"id": "missing"}, "not found"},
		{"refresh without id", NewProfileRefreshTool(f.profiles), map[string]any{}, "'id' is required"},
		{"refresh unknown", NewProfileRefreshTool(f.profiles), map[string]any{"id": "missing"}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}
