package cli

import (
	"fmt"

	"github.com/alexanderramin/trackscope/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse TRACK",
		Short: "Browse a track's scope tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return fmt.Errorf("browse needs a terminal; use 'scope tree' instead")
			}
			t, err := app.Tracks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Services{Scope: app.Scope, Progress: app.Progress}, t)
		},
	}
}
