package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/emrgen/notes/internal/config"
	"github.com/emrgen/notes/internal/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "notes with auto-maintained people profiles",
	Example: `notes serve
notes db migrate
notes note create -t <title> -c <content>
notes note list
notes profile get -i <profile-id>
notes profile refresh -i <profile-id>
notes vault import -d <dir>
notes mcp`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./notes.yml or ~/.config/notes/notes.yml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(mcpCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogging(cfg)
	return cfg, nil
}

// openApp builds the services over the configured database. The cron jobs
// are not started, commands run a single operation and exit.
func openApp() (*server.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return server.NewApp(cfg)
}

func serveCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "start the http server and the maintenance jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return server.Start(cfg)
		},
	}

	return command
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")
		_ = cmd.Usage()

		return true
	}

	return false
}
