package cmd

import (
	"context"

	"github.com/emrgen/notes/internal/server"
	"github.com/emrgen/notes/internal/tools"
	"github.com/spf13/cobra"
)

func mcpCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "mcp",
		Short: "serve the note and profile tools over mcp stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				stop := app.RunDictionaryRefresher()
				defer stop()

				return tools.ServeStdio(app.Notes, app.Profiles)
			})
		},
	}

	return command
}
