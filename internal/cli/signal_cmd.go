package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage a track's tasks",
	}

	var progress float64
	add := &cobra.Command{
		Use:   "add TRACK TITLE",
		Short: "Add a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Signals.AddTask(cmd.Context(), args[0], args[1], progress)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s %s\n", t.Title, formatter.TruncID(t.ID))
			return nil
		},
	}
	add.Flags().Float64Var(&progress, "progress", 0, "Initial progress (0-100)")

	set := &cobra.Command{
		Use:   "progress TASK_ID PERCENT",
		Short: "Set a task's progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}
			t, err := app.Signals.SetTaskProgress(cmd.Context(), args[0], pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", t.Title, formatter.RenderProgress(t.Progress, 20), formatter.StatusPill(t.Status))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list TRACK",
		Short: "List a track's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Signals.ListTasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{formatter.TruncID(t.ID), t.Title, formatter.FormatPercent(t.Progress), formatter.StatusPill(t.Status)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "TITLE", "PROGRESS", "STATUS"}, rows))
			return nil
		},
	}

	cmd.AddCommand(add, set, list)
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Record submitted reports",
	}

	var date string
	add := &cobra.Command{
		Use:   "add TRACK TITLE",
		Short: "Record a submitted report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var submitted *time.Time
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				submitted = &d
			}
			r, err := app.Signals.AddReport(cmd.Context(), args[0], args[1], submitted)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded report %s (%s)\n", r.Title, r.SubmittedAt.Format("2006-01-02"))
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Submission date (YYYY-MM-DD, default today)")

	list := &cobra.Command{
		Use:   "list TRACK",
		Short: "List a track's reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := app.Signals.ListReports(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports.")
				return nil
			}
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				rows = append(rows, []string{r.SubmittedAt.Format("2006-01-02"), r.Title})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"SUBMITTED", "TITLE"}, rows))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newKPICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Record measured KPI values",
	}

	var actual, target float64
	record := &cobra.Command{
		Use:   "record TRACK NAME",
		Short: "Record a KPI measurement against its target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := app.Signals.RecordKPI(cmd.Context(), args[0], args[1], actual, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %g / %g (%s)\n", k.Name, k.Actual, k.Target, formatter.FormatPercent(k.Attainment()))
			return nil
		},
	}
	record.Flags().Float64Var(&actual, "actual", 0, "Measured value")
	record.Flags().Float64Var(&target, "target", 0, "Target value")
	_ = record.MarkFlagRequired("actual")
	_ = record.MarkFlagRequired("target")

	list := &cobra.Command{
		Use:   "list TRACK",
		Short: "List a track's KPI measurements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Signals.ListKPIs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No KPI entries.")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, k := range entries {
				rows = append(rows, []string{
					k.Name, strconv.FormatFloat(k.Actual, 'g', -1, 64), strconv.FormatFloat(k.Target, 'g', -1, 64),
					formatter.RenderCompactBar(k.Attainment(), 10, false) + " " + formatter.FormatPercent(k.Attainment()),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NAME", "ACTUAL", "TARGET", "ATTAINMENT"}, rows))
			return nil
		},
	}

	cmd.AddCommand(record, list)
	return cmd
}
