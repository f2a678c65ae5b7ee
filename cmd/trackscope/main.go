package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/trackscope/internal/cli"
	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load()

	cfg := config.Load()

	// Logs go to stderr so command output on stdout stays pipeable.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repos := service.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Tracks:   service.NewTrackService(repos.Tracks),
		Scope:    service.NewScopeService(repos.Tracks, repos.ScopeNodes, uow, observer),
		Rebuild:  service.NewRebuildService(repos.Tracks, uow, logger, observer),
		Progress: service.NewProgressService(repos, cfg.ProgressMode),
		Signals:  service.NewSignalService(repos.Tracks, repos.Tasks, repos.Reports, repos.KPIEntries),
		Import:   service.NewImportService(uow, observer),
		Config:   cfg,
		Logger:   logger,
	}

	// Detect interactive terminal for confirmation prompts and the browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
