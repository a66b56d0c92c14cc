package cli

import (
	"github.com/spf13/cobra"
)

func newSessionsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded pipeline sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Printer.Sessions(app.Store.ListSessions())
			return nil
		},
	}
}
