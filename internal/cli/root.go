package cli

import (
	"log/slog"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tracks   service.TrackService
	Scope    service.ScopeService
	Rebuild  service.RebuildService
	Progress service.ProgressService
	Signals  service.SignalService
	Import   service.ImportService

	Config *config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Destructive
	// commands only prompt when it returns true.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "trackscope" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trackscope",
		Short:         "Hierarchical scope tracking and progress roll-up",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTrackCmd(app),
		newScopeCmd(app),
		newRebuildCmd(app),
		newProgressCmd(app),
		newSummaryCmd(app),
		newTaskCmd(app),
		newReportCmd(app),
		newKPICmd(app),
		newServeCmd(app),
		newBrowseCmd(app),
	)

	return root
}
