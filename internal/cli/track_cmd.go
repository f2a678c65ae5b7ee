package cli

import (
	"fmt"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Manage tracks",
	}

	cmd.AddCommand(
		newTrackCreateCmd(app),
		newTrackListCmd(app),
		newTrackShowCmd(app),
		newTrackDeleteCmd(app),
		newTrackSeedCmd(app),
	)

	return cmd
}

func newTrackCreateCmd(app *App) *cobra.Command {
	var req service.CreateTrackRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a track",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tracks.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created track %s [%s]\n", t.Name, t.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Key, "key", "", "Stable key referenced by import mappings (e.g. alpha)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.NameAlt, "name-alt", "", "Name in the secondary language")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&req.Color, "color", "", "Display color (e.g. #83a598)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTrackListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := app.Tracks.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, tracks)
			}
			if len(tracks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracks found.")
				return nil
			}

			rows := make([][]string, 0, len(tracks))
			for _, t := range tracks {
				rows = append(rows, []string{t.Key, t.Name, formatter.TruncID(t.ID), formatter.HumanTimestamp(t.UpdatedAt)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"KEY", "NAME", "ID", "UPDATED"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newTrackShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TRACK",
		Short: "Show a track with its scope stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := app.Tracks.Get(ctx, args[0])
			if err != nil {
				return err
			}
			stats, err := app.Scope.Stats(ctx, t.ID)
			if err != nil {
				return err
			}

			body := fmt.Sprintf("%s %s\n%s %s\n%s %s",
				formatter.Dim("Key:"), t.Key,
				formatter.Dim("ID: "), t.ID,
				formatter.Dim("Alt:"), t.NameAlt,
			)
			if t.Description != "" {
				body += "\n\n" + t.Description
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.RenderBox(t.Name, body))
			fmt.Fprint(out, formatter.RenderStats(stats))
			return nil
		},
	}
}

func newTrackDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete TRACK",
		Short: "Delete a track and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := app.Tracks.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := confirm(app, yes, fmt.Sprintf("Delete track %q and all of its scope nodes?", t.Key)); err != nil {
				return err
			}
			if err := app.Tracks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted track %s\n", t.Key)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newTrackSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE.json",
		Short: "Create tracks with their tasks, reports, KPIs and scope text from a JSON seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportSeed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range res.Tracks {
				fmt.Fprintf(out, "Created track %s [%s]\n", t.Name, t.Key)
			}
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d tasks · %d reports · %d KPIs · %d scope nodes",
				res.TaskCount, res.ReportCount, res.KPICount, res.ScopeCount)))
			return nil
		},
	}
}
