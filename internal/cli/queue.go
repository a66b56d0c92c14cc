package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"qasentinel/internal/story"
)

func newQueueCommand(app *App) *cobra.Command {
	var doExport bool

	cmd := &cobra.Command{
		Use:   "queue <batch-file>",
		Short: "Run the QA pipeline for a batch of stories",
		Long: `Run the full QA pipeline for every story in a batch file, in order.
Each story gets its own session. The queue stops on the first failure.

Example:
  qasentinel queue stories.yaml --export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stories, err := story.LoadBatch(args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			app.Printer.Header("Queue")
			app.Printer.Info("  %d stories", len(stories))

			for i := range stories {
				s := &stories[i]
				app.Printer.Info("[%d/%d] %s", i+1, len(stories), s.Title)

				id := s.ID
				if id == "" {
					id = uuid.NewString()
				}
				if _, err := runStory(cmd, app, s, id, doExport); err != nil {
					app.Printer.Error("queue stopped at story %d of %d", i+1, len(stories))
					return err
				}
			}

			app.Printer.Success("queue complete: %d stories", len(stories))
			return nil
		},
	}

	cmd.Flags().BoolVar(&doExport, "export", false, "export each run report to the export directory")

	return cmd
}
