package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/db"
	mcpadapter "github.com/alexanderramin/trackscope/internal/mcp"
	"github.com/alexanderramin/trackscope/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// stdout carries the protocol; logs must stay on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("trackscope-mcp: %v", err)
	}
	defer database.Close()

	repos := service.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	svcs := mcpadapter.Services{
		Tracks:   service.NewTrackService(repos.Tracks),
		Scope:    service.NewScopeService(repos.Tracks, repos.ScopeNodes, uow, observer),
		Progress: service.NewProgressService(repos, cfg.ProgressMode),
	}

	mcpServer := server.NewMCPServer(
		"trackscope-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, svcs)
	mcpadapter.RegisterWriteTools(mcpServer, svcs)

	logger.Info("mcp server starting", "db", cfg.DBPath)
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("trackscope-mcp: %v", err)
	}
}
