package tools

import (
	"context"

	"github.com/emrgen/notes/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// ProfileGetTool handles the profile_get tool.
type ProfileGetTool struct {
	profiles *service.ProfileService
}

func NewProfileGetTool(profiles *service.ProfileService) *ProfileGetTool {
	return &ProfileGetTool{profiles: profiles}
}

func (t *ProfileGetTool) Definition() mcp.Tool {
	return mcp.NewTool("profile_get",
		mcp.WithDescription("Get a profile and the notes it was summarized from."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Profile id")),
	)
}

func (t *ProfileGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requiredString(req, "id")
	if errRes != nil {
		return errRes, nil
	}

	profile, err := t.profiles.GetProfileWithNotes(ctx, id)
	if err != nil {
		return errorResult("get profile", err), nil
	}
	return jsonResult(profile)
}

// ProfileSearchTool handles the profile_search tool.
type ProfileSearchTool struct {
	profiles *service.ProfileService
}

func NewProfileSearchTool(profiles *service.ProfileService) *ProfileSearchTool {
	return &ProfileSearchTool{profiles: profiles}
}

func (t *ProfileSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("profile_search",
		mcp.WithDescription("Search profiles whose name or summary contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithString("user_id", mcp.Description("Owner scope, empty for the single-user scope")),
	)
}

func (t *ProfileSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles, err := t.profiles.SearchProfiles(ctx, req.GetString("user_id", ""), req.GetString("query", ""))
	if err != nil {
		return errorResult("search profiles", err), nil
	}
	return jsonResult(profiles)
}

// ProfileRefreshTool handles the profile_refresh tool.
type ProfileRefreshTool struct {
	profiles *service.ProfileService
}

func NewProfileRefreshTool(profiles *service.ProfileService) *ProfileRefreshTool {
	return &ProfileRefreshTool{profiles: profiles}
}

func (t *ProfileRefreshTool) Definition() mcp.Tool {
	return mcp.NewTool("profile_refresh",
		mcp.WithDescription("Summarize a profile again from the current text of its linked notes."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Profile id")),
	)
}

func (t *ProfileRefreshTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errRes := requiredString(req, "id")
	if errRes != nil {
		return errRes, nil
	}

	profile, err := t.profiles.RefreshProfile(ctx, id)
	if err != nil {
		return errorResult("refresh profile", err), nil
	}
	return jsonResult(profile)
}
