package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/emrgen/notes/internal/server"
	"github.com/emrgen/notes/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "profile commands",
}

func init() {
	profileCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	profileCmd.AddCommand(createProfileCmd())
	profileCmd.AddCommand(getProfileCmd())
	profileCmd.AddCommand(listProfileCmd())
	profileCmd.AddCommand(searchProfileCmd())
	profileCmd.AddCommand(updateProfileCmd())
	profileCmd.AddCommand(deleteProfileCmd())
	profileCmd.AddCommand(refreshProfileCmd())
	profileCmd.AddCommand(sweepProfileCmd())
}

func createProfileCmd() *cobra.Command {
	var userID string
	var title string
	var content string
	var noteIDs []string

	var required = []string{"title", "content"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a profile by hand",
		Example: "notes profile create -t <name> -c <content> -n <note-id>,<note-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				profile, err := app.Profiles.CreateProfile(ctx, service.CreateProfileRequest{
					UserID:  userID,
					Title:   title,
					Content: content,
					NoteIDs: noteIDs,
				})
				if err != nil {
					return err
				}

				color.Green("profile created with id: %s", profile.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "name of the person (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "profile content (required)")
	command.Flags().StringSliceVarP(&noteIDs, "note-ids", "n", nil, "notes to link")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the profile")

	command.Flags().SortFlags = false

	return command
}

func getProfileCmd() *cobra.Command {
	var profileID string

	var required = []string{"profile-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a profile and its notes",
		Example: "notes profile get -i <profile-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				profile, err := app.Profiles.GetProfileWithNotes(ctx, profileID)
				if err != nil {
					return err
				}

				color.Cyan("%s", profile.Title)
				fmt.Println(profile.Content)
				if len(profile.Notes) > 0 {
					fmt.Println()
					printNotes(profile.Notes)
				}
				return nil
			})
		},
	}

	command.Flags().StringVarP(&profileID, "profile-id", "i", "", "profile id (required)")

	return command
}

func listProfileCmd() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the profiles of a user",
		Example: "notes profile list -u <user-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				profiles, err := app.Profiles.ListProfiles(ctx, userID)
				if err != nil {
					return err
				}

				printProfiles(profiles)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the profiles")

	return command
}

func searchProfileCmd() *cobra.Command {
	var userID string
	var query string

	var required = []string{"query"}

	command := &cobra.Command{
		Use:     "search",
		Short:   "search profiles by name or content",
		Example: "notes profile search -q <text>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				profiles, err := app.Profiles.SearchProfiles(ctx, userID, query)
				if err != nil {
					return err
				}

				printProfiles(profiles)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "text to search for (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the profiles")

	command.Flags().SortFlags = false

	return command
}

func updateProfileCmd() *cobra.Command {
	var profileID string
	var title string
	var content string
	var noteIDs []string

	var required = []string{"profile-id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a profile",
		Long: `Update the profile with the given id.

Only the provided flags are changed. --note-ids replaces every link of the profile.
`,
		Example: "notes profile update -i <profile-id> -t <name> -c <content> -n <note-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			req := service.UpdateProfileRequest{ID: profileID}
			if cmd.Flag("title").Changed {
				req.Title = &title
			}
			if cmd.Flag("content").Changed {
				req.Content = &content
			}
			if cmd.Flag("note-ids").Changed {
				req.NoteIDs = &noteIDs
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				profile, err := app.Profiles.UpdateProfile(ctx, req)
				if err != nil {
					return err
				}

				color.Green("profile updated")
				printProfiles([]*service.Profile{profile})
				return nil
			})
		},
	}

	command.Flags().StringVarP(&profileID, "profile-id", "i", "", "profile id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "new name")
	command.Flags().StringVarP(&content, "content", "c", "", "new content")
	command.Flags().StringSliceVarP(&noteIDs, "note-ids", "n", nil, "notes to link, replacing the current links")

	command.Flags().SortFlags = false

	return command
}

func deleteProfileCmd() *cobra.Command {
	var profileID string

	var required = []string{"profile-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a profile",
		Example: "notes profile delete -i <profile-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				if err := app.Profiles.DeleteProfile(ctx, profileID); err != nil {
					return err
				}

				color.Green("profile deleted")
				return nil
			})
		},
	}

	command.Flags().StringVarP(&profileID, "profile-id", "i", "", "profile id (required)")

	return command
}

func refreshProfileCmd() *cobra.Command {
	var profileID string

	var required = []string{"profile-id"}

	command := &cobra.Command{
		Use:     "refresh",
		Short:   "summarize a profile again from its notes",
		Example: "notes profile refresh -i <profile-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				profile, err := app.Profiles.RefreshProfile(ctx, profileID)
				if err != nil {
					return err
				}

				color.Cyan("%s", profile.Title)
				fmt.Println(profile.Content)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&profileID, "profile-id", "i", "", "profile id (required)")

	return command
}

func sweepProfileCmd() *cobra.Command {
	var grace time.Duration

	command := &cobra.Command{
		Use:     "sweep",
		Short:   "delete profiles no note links to",
		Long:    `delete the profiles without linked notes that were not touched within the grace period`,
		Example: "notes profile sweep -g 24h",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				n, err := app.Sync.SweepOrphans(ctx, time.Now().Add(-grace))
				if err != nil {
					return err
				}

				color.Green("deleted %d orphan profiles", n)
				return nil
			})
		},
	}

	command.Flags().DurationVarP(&grace, "grace", "g", 24*time.Hour, "keep orphans younger than this")

	return command
}

func printProfiles(profiles []*service.Profile) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Content", "Updated At"})
	for _, profile := range profiles {
		table.Append([]string{profile.ID, profile.Title, strconv.Itoa(len(profile.Content)) + " chars", profile.UpdatedAt.Format("2006-01-02 15:04")})
	}

	table.Render()
}
