package cmd

import (
	"context"
	"os/signal"

	"github.com/emrgen/notes/internal/server"
	"github.com/emrgen/notes/internal/vault"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "sync notes with a directory of markdown files",
}

var (
	vaultDir     string
	vaultPattern string
	vaultUser    string
)

func init() {
	vaultCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	vaultCmd.PersistentFlags().StringVarP(&vaultDir, "dir", "d", "", "vault directory (default vault.dir)")
	vaultCmd.PersistentFlags().StringVarP(&vaultPattern, "pattern", "p", "", "glob of the files to import (default vault.pattern)")
	vaultCmd.PersistentFlags().StringVarP(&vaultUser, "user-id", "u", "", "owner of the notes (default vault.user_id)")

	vaultCmd.AddCommand(importVaultCmd())
	vaultCmd.AddCommand(exportVaultCmd())
	vaultCmd.AddCommand(watchVaultCmd())
}

// openVault applies the flags over the configured vault settings.
func openVault(cmd *cobra.Command, app *server.App) (*vault.Vault, error) {
	cfg := app.Config.Vault
	if cmd.Flag("dir").Changed {
		cfg.Dir = vaultDir
	}
	if cmd.Flag("pattern").Changed {
		cfg.Pattern = vaultPattern
	}
	if cmd.Flag("user-id").Changed {
		cfg.UserID = vaultUser
	}

	return vault.New(app.Notes, cfg.Dir, cfg.Pattern, cfg.UserID)
}

func importVaultCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "import",
		Short:   "import markdown files as notes",
		Example: "notes vault import -d ~/notes -p '**/*.md'",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				v, err := openVault(cmd, app)
				if err != nil {
					return err
				}

				result, err := v.Import(ctx)
				if err != nil {
					return err
				}

				color.Green("created %d, updated %d, unchanged %d", result.Created, result.Updated, result.Unchanged)
				if result.Failed > 0 {
					color.Red("failed %d", result.Failed)
				}
				return nil
			})
		},
	}

	return command
}

func exportVaultCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "export",
		Short:   "export notes as markdown files",
		Example: "notes vault export -d ~/notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				v, err := openVault(cmd, app)
				if err != nil {
					return err
				}

				n, err := v.Export(ctx)
				if err != nil {
					return err
				}

				color.Green("exported %d notes to %s", n, v.Dir())
				return nil
			})
		},
	}

	return command
}

func watchVaultCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "watch",
		Short:   "import the vault, then re-import files as they change",
		Example: "notes vault watch -d ~/notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				v, err := openVault(cmd, app)
				if err != nil {
					return err
				}

				if _, err := v.Import(ctx); err != nil {
					return err
				}

				watcher, err := vault.NewWatcher(v)
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(ctx, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
				defer stop()

				stopRefresher := app.RunDictionaryRefresher()
				defer stopRefresher()

				color.Green("Press Ctrl+C to stop watching %s", v.Dir())
				return watcher.Run(ctx)
			})
		},
	}

	return command
}
