package cli

import (
	"fmt"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/importer"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/spf13/cobra"
)

func newRebuildCmd(app *App) *cobra.Command {
	var source, mappingPath string
	var apply, yes, asJSON bool
	var workers int

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Replace every mapped track's scope tree from a workbook or CSV directory",
		Long: `Reads each mapped sheet of the source, parses its scope column (and the
extended scope column, if mapped) into a tree and replaces the track's
scope nodes, KPIs, penalties and records with the result.

Without --apply nothing is written; the command prints what each track
would receive. Each track is replaced in its own transaction, so one
failing track leaves the others untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mappingPath == "" {
				mappingPath = app.Config.MappingPath
			}
			if mappingPath == "" {
				return fmt.Errorf("no mapping file: pass --mapping or set TRACKSCOPE_MAPPING")
			}
			mapping, err := config.LoadMapping(mappingPath)
			if err != nil {
				return err
			}
			src, err := importer.OpenSource(source)
			if err != nil {
				return err
			}
			defer src.Close()

			if apply {
				if err := confirm(app, yes, fmt.Sprintf("Replace the scope trees of %d mapped tracks?", len(mapping.Sheets))); err != nil {
					return err
				}
			}

			stop := func() {}
			if app.IsInteractive != nil && app.IsInteractive() && !asJSON {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "rebuilding scope trees")
			}
			report, err := app.Rebuild.Rebuild(cmd.Context(), src, mapping, service.RebuildOptions{
				Apply:   apply,
				Workers: workers,
			})
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				if err := printJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRebuildReport(report))
			}
			if n := report.Failures(); n > 0 {
				return fmt.Errorf("%d of %d tracks failed to rebuild", n, len(report.Owners))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Workbook (.xlsx) or directory of CSV files, one per sheet")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "Sheet-to-track mapping YAML (default $TRACKSCOPE_MAPPING)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the rebuilt trees; without it the run is a dry run")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&workers, "workers", 0, "Tracks replaced concurrently (default $TRACKSCOPE_REBUILD_WORKERS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("source")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("workers") {
			workers = app.Config.RebuildWorkers
		}
	}

	return cmd
}
