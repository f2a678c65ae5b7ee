// Package mcp exposes tracks, scope trees and progress roll-ups as Model
// Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/alexanderramin/trackscope/internal/tree"
)

// Services are the use cases the tools call.
type Services struct {
	Tracks   service.TrackService
	Scope    service.ScopeService
	Progress service.ProgressService
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, svcs Services) {
	s.AddTool(listTracksTool(), listTracksHandler(svcs))
	s.AddTool(scopeTreeTool(), scopeTreeHandler(svcs))
	s.AddTool(scopeSearchTool(), scopeSearchHandler(svcs))
	s.AddTool(scopeStatsTool(), scopeStatsHandler(svcs))
	s.AddTool(trackProgressTool(), trackProgressHandler(svcs))
	s.AddTool(progressSummaryTool(), progressSummaryHandler(svcs))
}

// --- list_tracks ---

func listTracksTool() mcp.Tool {
	return mcp.NewTool("list_tracks",
		mcp.WithDescription("List all tracks with their keys. Every other tool accepts a track key or ID."),
	)
}

func listTracksHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tracks, err := svcs.Tracks.List(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(tracks) == 0 {
			return mcp.NewToolResultText("No tracks."), nil
		}
		var sb strings.Builder
		for _, t := range tracks {
			fmt.Fprintf(&sb, "%s  %s  %s\n", t.Key, t.Name, t.ID)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- scope_tree ---

func scopeTreeTool() mcp.Tool {
	return mcp.NewTool("scope_tree",
		mcp.WithDescription("Show a track's full scope tree: one line per node with its code, title, progress and ID."),
		mcp.WithString("track",
			mcp.Description("Track key or ID"),
			mcp.Required(),
		),
	)
}

func scopeTreeHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		track := req.GetString("track", "")
		if track == "" {
			return toolError(fmt.Errorf("track is required"))
		}
		roots, err := svcs.Scope.Tree(ctx, track)
		if err != nil {
			return toolError(err)
		}
		if len(roots) == 0 {
			return mcp.NewToolResultText("No scope nodes."), nil
		}
		return mcp.NewToolResultText(renderTree(roots)), nil
	}
}

// --- scope_search ---

func scopeSearchTool() mcp.Tool {
	return mcp.NewTool("scope_search",
		mcp.WithDescription("Search a track's scope tree by code, title or body text. Matches are shown with their ancestors."),
		mcp.WithString("track",
			mcp.Description("Track key or ID"),
			mcp.Required(),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text to look for"),
			mcp.Required(),
		),
	)
}

func scopeSearchHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		track := req.GetString("track", "")
		query := strings.TrimSpace(req.GetString("query", ""))
		if track == "" || query == "" {
			return toolError(fmt.Errorf("track and query are required"))
		}
		roots, err := svcs.Scope.Search(ctx, track, query)
		if err != nil {
			return toolError(err)
		}
		if len(roots) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(renderTree(roots)), nil
	}
}

// --- scope_stats ---

func scopeStatsTool() mcp.Tool {
	return mcp.NewTool("scope_stats",
		mcp.WithDescription("Count a track's scope nodes per status and report their average progress."),
		mcp.WithString("track",
			mcp.Description("Track key or ID"),
			mcp.Required(),
		),
	)
}

func scopeStatsHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		track := req.GetString("track", "")
		if track == "" {
			return toolError(fmt.Errorf("track is required"))
		}
		stats, err := svcs.Scope.Stats(ctx, track)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(stats)
	}
}

// --- track_progress ---

func trackProgressTool() mcp.Tool {
	return mcp.NewTool("track_progress",
		mcp.WithDescription("Roll up one track's progress from its tasks, reports, scope nodes and KPIs."),
		mcp.WithString("track",
			mcp.Description("Track key or ID"),
			mcp.Required(),
		),
		modeParam(),
	)
}

func trackProgressHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		track := req.GetString("track", "")
		if track == "" {
			return toolError(fmt.Errorf("track is required"))
		}
		tp, err := svcs.Progress.TrackProgress(ctx, track, domain.ProgressMode(req.GetString("mode", "")))
		if err != nil {
			return toolError(err)
		}
		return jsonResult(tp)
	}
}

// --- progress_summary ---

func progressSummaryTool() mcp.Tool {
	return mcp.NewTool("progress_summary",
		mcp.WithDescription("Cross-track summary: every track's roll-up, the unweighted overall and entity totals."),
		modeParam(),
	)
}

func progressSummaryHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := svcs.Progress.Summary(ctx, domain.ProgressMode(req.GetString("mode", "")))
		if err != nil {
			return toolError(err)
		}
		return jsonResult(s)
	}
}

// --- helpers ---

func modeParam() mcp.ToolOption {
	return mcp.WithString("mode",
		mcp.Description("Scoring mode; omit for the configured default"),
		mcp.Enum(string(domain.ModeAverage), string(domain.ModeCompletion)),
	)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("encoding result: %w", err))
	}
	return mcp.NewToolResultText(string(data)), nil
}

func renderTree(roots []*tree.Node) string {
	var sb strings.Builder
	tree.Walk(roots, func(n *tree.Node, depth int) {
		s := n.Scope
		fmt.Fprintf(&sb, "%s%s %s [%s %.0f%%] (%s)\n",
			strings.Repeat("  ", depth), s.Code, s.Title, s.Status, s.Progress, s.ID)
	})
	return sb.String()
}
