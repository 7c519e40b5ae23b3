package tools

import (
	"context"

	"github.com/emrgen/notes/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// NoteCreateTool handles the note_create tool.
type NoteCreateTool struct {
	notes *service.NoteService
}

func NewNoteCreateTool(notes *service.NoteService) *NoteCreateTool {
	return &NoteCreateTool{notes: notes}
}

func (t *NoteCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("note_create",
		mcp.WithDescription(
			"Create a note. The people mentioned in the content are tagged on the note "+
				"and get a profile that is summarized from every note mentioning them.",
		),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body")),
		mcp.WithString("user_id", mcp.Description("Owner of the note, empty for the single-user scope")),
	)
}

func (t *NoteCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := t.notes.CreateNote(ctx, service.CreateNoteRequest{
		UserID:  req.GetString("user_id", ""),
		Title:   req.GetString("title", ""),
		Content: req.GetString("content", ""),
	})
	if err != nil {
		return errorResult("create note", err), nil
	}
	return jsonResult(note)
}

// NoteUpdateTool handles the note_update tool.
type NoteUpdateTool struct {
	notes *service.NoteService
}

func NewNoteUpdateTool(notes *service.NoteService) *NoteUpdateTool {
	return &NoteUpdateTool{notes: notes}
}

func (t *NoteUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("note_update",
		mcp.WithDescription("Replace the title and content of a note. Tags and profiles are derived again."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New body")),
	)
}

func (t *NoteUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requiredString(req, "id")
	if errRes != nil {
		return errRes, nil
	}

	note, err := t.notes.UpdateNote(ctx, service.UpdateNoteRequest{
		ID:      id,
		Title:   req.GetString("title", ""),
		Content: req.GetString("content", ""),
	})
	if err != nil {
		return errorResult("update note", err), nil
	}
	return jsonResult(note)
}

// NoteDeleteTool handles the note_delete tool.
type NoteDeleteTool struct {
	notes *service.NoteService
}

func NewNoteDeleteTool(notes *service.NoteService) *NoteDeleteTool {
	return &NoteDeleteTool{notes: notes}
}

func (t *NoteDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("note_delete",
		mcp.WithDescription("Delete a note. Profiles left without notes are deleted too."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	)
}

func (t *NoteDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requiredString(req, "id")
	if errRes != nil {
		return errRes, nil
	}

	if err := t.notes.DeleteNote(ctx, id); err != nil {
		return errorResult("delete note", err), nil
	}
	return mcp.NewToolResultText("deleted note " + id), nil
}

// NoteGetTool handles the note_get tool.
type NoteGetTool struct {
	notes *service.NoteService
}

func NewNoteGetTool(notes *service.NoteService) *NoteGetTool {
	return &NoteGetTool{notes: notes}
}

func (t *NoteGetTool) Definition() mcp.Tool {
	return mcp.NewTool("note_get",
		mcp.WithDescription("Get a note with the profiles linked to it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	)
}

type noteWithProfiles struct {
	*service.Note
	Profiles []*service.Profile `json:"profiles"`
}

func (t *NoteGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requiredString(req, "id")
	if errRes != nil {
		return errRes, nil
	}

	note, err := t.notes.GetNote(ctx, id)
	if err != nil {
		return errorResult("get note", err), nil
	}
	profiles, err := t.notes.ListNoteProfiles(ctx, id)
	if err != nil {
		return errorResult("list note profiles", err), nil
	}

	return jsonResult(noteWithProfiles{Note: note, Profiles: profiles})
}

// NoteSearchTool handles the note_search tool.
type NoteSearchTool struct {
	notes *service.NoteService
}

func NewNoteSearchTool(notes *service.NoteService) *NoteSearchTool {
	return &NoteSearchTool{notes: notes}
}

func (t *NoteSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("note_search",
		mcp.WithDescription("Search notes whose title or content contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithString("user_id", mcp.Description("Owner scope, empty for the single-user scope")),
	)
}

func (t *NoteSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := t.notes.SearchNotes(ctx, req.GetString("user_id", ""), req.GetString("query", ""))
	if err != nil {
		return errorResult("search notes", err), nil
	}
	return jsonResult(notes)
}
