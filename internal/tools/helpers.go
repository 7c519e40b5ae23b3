package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emrgen/notes/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// Tool is an mcp tool backed by the note and profile services.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// jsonResult renders v as indented json text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult reports a service error to the caller as a tool error.
// Only unexpected failures are logged.
func errorResult(action string, err error) *mcp.CallToolResult {
	if !errors.Is(err, service.ErrValidation) && !errors.Is(err, service.ErrNotFound) {
		logrus.Errorf("%s failed: %v", action, err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
}

func requiredString(req mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value := req.GetString(name, "")
	if value == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("'%s' is required", name))
	}
	return value, nil
}
