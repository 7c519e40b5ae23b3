package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/emrgen/notes/internal/server"
	"github.com/emrgen/notes/internal/service"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "note commands",
}

func init() {
	noteCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	noteCmd.AddCommand(createNoteCmd())
	noteCmd.AddCommand(getNoteCmd())
	noteCmd.AddCommand(listNoteCmd())
	noteCmd.AddCommand(searchNoteCmd())
	noteCmd.AddCommand(updateNoteCmd())
	noteCmd.AddCommand(deleteNoteCmd())
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func withApp(fn func(ctx context.Context, app *server.App) error) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(context.Background(), app)
}

func createNoteCmd() *cobra.Command {
	var userID string
	var title string
	var content string

	var required = []string{"title", "content"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a note",
		Long:    `create a note, the people it mentions are tagged and their profiles updated`,
		Example: "notes note create -t <title> -c <content> -u <user-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				note, err := app.Notes.CreateNote(ctx, service.CreateNoteRequest{
					UserID:  userID,
					Title:   title,
					Content: content,
				})
				if err != nil {
					return err
				}

				color.Green("note created with id: %s", note.ID)
				printNotes([]*service.Note{note})
				return nil
			})
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "title of the note (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "content of the note (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the note")

	command.Flags().SortFlags = false

	return command
}

func getNoteCmd() *cobra.Command {
	var noteID string

	var required = []string{"note-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a note and its profiles",
		Example: "notes note get -i <note-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				note, err := app.Notes.GetNote(ctx, noteID)
				if err != nil {
					return err
				}
				profiles, err := app.Notes.ListNoteProfiles(ctx, noteID)
				if err != nil {
					return err
				}

				printNotes([]*service.Note{note})
				fmt.Println(note.Content)
				if len(profiles) > 0 {
					fmt.Println()
					printProfiles(profiles)
				}
				return nil
			})
		},
	}

	command.Flags().StringVarP(&noteID, "note-id", "i", "", "note id (required)")

	return command
}

func listNoteCmd() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the notes of a user",
		Example: "notes note list -u <user-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *server.App) error {
				notes, err := app.Notes.ListNotes(ctx, userID)
				if err != nil {
					return err
				}

				printNotes(notes)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the notes")

	return command
}

func searchNoteCmd() *cobra.Command {
	var userID string
	var query string

	var required = []string{"query"}

	command := &cobra.Command{
		Use:     "search",
		Short:   "search notes by title or content",
		Example: "notes note search -q <text>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				notes, err := app.Notes.SearchNotes(ctx, userID, query)
				if err != nil {
					return err
				}

				printNotes(notes)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "text to search for (required)")
	command.Flags().StringVarP(&userID, "user-id", "u", "", "owner of the notes")

	command.Flags().SortFlags = false

	return command
}

func updateNoteCmd() *cobra.Command {
	var noteID string
	var title string
	var content string

	var required = []string{"note-id", "content"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a note",
		Long: `Update the note with the given id.

The title is kept when it is not provided. The tags are derived again from the new
content; profiles linked before stay linked and are summarized again.
`,
		Example: "notes note update -i <note-id> -c <content> -t <title>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				if title == "" {
					current, err := app.Notes.GetNote(ctx, noteID)
					if err != nil {
						return err
					}
					title = current.Title
				}

				note, err := app.Notes.UpdateNote(ctx, service.UpdateNoteRequest{
					ID:      noteID,
					Title:   title,
					Content: content,
				})
				if err != nil {
					return err
				}

				color.Green("note updated")
				printNotes([]*service.Note{note})
				return nil
			})
		},
	}

	command.Flags().StringVarP(&noteID, "note-id", "i", "", "note id (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "new content (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "new title")

	command.Flags().SortFlags = false

	return command
}

func deleteNoteCmd() *cobra.Command {
	var noteID string

	var required = []string{"note-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a note",
		Long:    `delete a note, profiles left without notes are deleted with it`,
		Example: "notes note delete -i <note-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissingFlags(cmd, required) {
				return nil
			}

			return withApp(func(ctx context.Context, app *server.App) error {
				if err := app.Notes.DeleteNote(ctx, noteID); err != nil {
					return err
				}

				color.Green("note deleted")
				return nil
			})
		},
	}

	command.Flags().StringVarP(&noteID, "note-id", "i", "", "note id (required)")

	return command
}

func printNotes(notes []*service.Note) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Tags", "Updated At"})
	for _, note := range notes {
		table.Append([]string{note.ID, note.Title, strings.Join(note.Tags, ", "), note.UpdatedAt.Format("2006-01-02 15:04")})
	}

	table.Render()
}
