package cli

import (
	"fmt"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	var mode modeFlag
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "progress TRACK",
		Short: "Show a track's progress roll-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tp, err := app.Progress.TrackProgress(cmd.Context(), args[0], mode.mode)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, tp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTrackProgress(tp))
			return nil
		},
	}

	cmd.Flags().Var(&mode, "mode", "Scoring mode: average or completion (default $TRACKSCOPE_PROGRESS_MODE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var mode modeFlag
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the cross-track summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Progress.Summary(cmd.Context(), mode.mode)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, s)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSummary(s))
			return nil
		},
	}

	cmd.Flags().Var(&mode, "mode", "Scoring mode: average or completion (default $TRACKSCOPE_PROGRESS_MODE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
