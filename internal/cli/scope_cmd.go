package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/alexanderramin/trackscope/internal/tree"
	"github.com/spf13/cobra"
)

func newScopeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Browse and edit a track's scope tree",
	}

	cmd.AddCommand(
		newScopeTreeCmd(app),
		newScopeStatsCmd(app),
		newScopeShowCmd(app),
		newScopeAddCmd(app),
		newScopeEditCmd(app),
		newScopeImportCmd(app),
		newScopeProgressCmd(app),
		newScopeReorderCmd(app),
	)

	return cmd
}

func newScopeTreeCmd(app *App) *cobra.Command {
	var query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree TRACK",
		Short: "Print the scope tree, optionally filtered by a search query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := app.Scope.Search(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, contract.NewScopeTree(roots))
			}
			if len(roots) == 0 {
				if query != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "No scope nodes match %q.\n", query)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No scope nodes.")
				}
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.TreeItems(tree.Flatten(roots, nil))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Keep only nodes matching the query and their ancestors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the nested tree as JSON")

	return cmd
}

func newScopeStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats TRACK",
		Short: "Show node counts and average progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Scope.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderStats(stats))
			return nil
		},
	}
}

func newScopeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NODE_ID",
		Short: "Show one scope node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Scope.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			body := fmt.Sprintf("%s %s\n%s %s\n%s %s",
				formatter.Dim("Code:    "), n.Code,
				formatter.Dim("Status:  "), formatter.StatusPill(n.Status),
				formatter.Dim("Progress:"), formatter.RenderProgress(n.Progress, 20),
			)
			if n.Body != "" {
				body += "\n\n" + n.Body
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(n.Title, body))
			return nil
		},
	}
}

func newScopeAddCmd(app *App) *cobra.Command {
	var parent string
	var order int
	req := service.CreateNodeRequest{}

	cmd := &cobra.Command{
		Use:   "add TRACK",
		Short: "Add a scope node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.TrackID = args[0]
			if parent != "" {
				req.ParentID = &parent
			}
			if cmd.Flags().Changed("order") {
				req.OrderIndex = &order
			}
			n, err := app.Scope.CreateNode(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n", n.Code, n.Title, formatter.TruncID(n.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Node title")
	cmd.Flags().StringVar(&req.Code, "code", "", "Hierarchical code; generated under the parent when omitted")
	cmd.Flags().StringVar(&req.Body, "body", "", "Node body")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent node ID")
	cmd.Flags().IntVar(&order, "order", 0, "Explicit order index; appended after the last node when omitted")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newScopeEditCmd(app *App) *cobra.Command {
	var title, titleAlt, body, bodyAlt string

	cmd := &cobra.Command{
		Use:   "edit NODE_ID",
		Short: "Edit a node's text fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req service.UpdateNodeRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("title-alt") {
				req.TitleAlt = &titleAlt
			}
			if cmd.Flags().Changed("body") {
				req.Body = &body
			}
			if cmd.Flags().Changed("body-alt") {
				req.BodyAlt = &bodyAlt
			}
			n, err := app.Scope.UpdateNode(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", n.Code, n.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&titleAlt, "title-alt", "", "Title in the secondary language")
	cmd.Flags().StringVar(&body, "body", "", "Body")
	cmd.Flags().StringVar(&bodyAlt, "body-alt", "", "Body in the secondary language")

	return cmd
}

func newScopeImportCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import TRACK [FILE|-]",
		Short: "Append an outline of numbered headings to a track",
		Long: `Reads free text and appends it to the track's tree. Lines that start
with a numbered heading such as "1.2 Title" or "- 1.2 Title" become nodes;
other lines are appended to the preceding node's body. Codes already used
by the track are renumbered instead of overwritten. Reads stdin when FILE
is omitted or "-".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args, 1)
			if err != nil {
				return err
			}
			res, err := app.Scope.ImportText(cmd.Context(), args[0], text)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scope nodes\n", len(res.Created))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the created nodes as JSON")

	return cmd
}

func newScopeProgressCmd(app *App) *cobra.Command {
	var status statusFlag

	cmd := &cobra.Command{
		Use:   "progress NODE_ID PERCENT",
		Short: "Set a node's progress; the status follows unless --status is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}
			n, err := app.Scope.SetProgress(cmd.Context(), args[0], service.SetProgressRequest{
				Progress: pct,
				Status:   status.status,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				n.Code, n.Title, formatter.RenderProgress(n.Progress, 20), formatter.StatusPill(n.Status))
			return nil
		},
	}

	cmd.Flags().Var(&status, "status", "Status override: pending, in_progress or completed")

	return cmd
}

func newScopeReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder TRACK NODE_ID=INDEX...",
		Short: "Assign new order indexes in one transaction",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]contract.OrderItem, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, raw, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q: expected NODE_ID=INDEX", arg)
				}
				idx, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid index in %q: %w", arg, err)
				}
				items = append(items, contract.OrderItem{ID: id, OrderIndex: idx})
			}
			if err := app.Scope.Reorder(cmd.Context(), args[0], items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d nodes\n", len(items))
			return nil
		},
	}
}
