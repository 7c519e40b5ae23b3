package tools

import (
	"github.com/emrgen/notes/internal/service"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// All returns every tool in registration order.
func All(notes *service.NoteService, profiles *service.ProfileService) []Tool {
	return []Tool{
		NewNoteCreateTool(notes),
		NewNoteUpdateTool(notes),
		NewNoteDeleteTool(notes),
		NewNoteGetTool(notes),
		NewNoteSearchTool(notes),
		NewProfileGetTool(profiles),
		NewProfileSearchTool(profiles),
		NewProfileRefreshTool(profiles),
	}
}

// NewMCPServer creates an mcp server exposing the note and profile tools.
func NewMCPServer(notes *service.NoteService, profiles *service.ProfileService) *server.MCPServer {
	s := server.NewMCPServer(
		"notes",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, tool := range All(notes, profiles) {
		s.AddTool(tool.Definition(), tool.Handle)
	}

	return s
}

// ServeStdio serves the tools over stdin and stdout until the input closes.
func ServeStdio(notes *service.NoteService, profiles *service.ProfileService) error {
	return server.ServeStdio(NewMCPServer(notes, profiles))
}
