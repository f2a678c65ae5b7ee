package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/service"
)

// RegisterWriteTools adds the tools that modify scope trees.
func RegisterWriteTools(s *server.MCPServer, svcs Services) {
	s.AddTool(importScopeTextTool(), importScopeTextHandler(svcs))
	s.AddTool(setScopeProgressTool(), setScopeProgressHandler(svcs))
}

// --- import_scope_text ---

func importScopeTextTool() mcp.Tool {
	return mcp.NewTool("import_scope_text",
		mcp.WithDescription("Append an outline to a track's scope tree. Lines such as \"1.2 Title\" open nodes nested by their dotted code; "+
			"other lines extend the previous node's body. Codes the track already uses are renumbered, never overwritten."),
		mcp.WithString("track",
			mcp.Description("Track key or ID"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("Outline text"),
			mcp.Required(),
		),
	)
}

func importScopeTextHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		track := req.GetString("track", "")
		if track == "" {
			return toolError(fmt.Errorf("track is required"))
		}
		res, err := svcs.Scope.ImportText(ctx, track, req.GetString("text", ""))
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Imported %d scope nodes.\n", len(res.Created))
		for _, n := range res.Created {
			fmt.Fprintf(&sb, "%s  %s  %s\n", n.Code, n.Title, n.ID)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- set_scope_progress ---

func setScopeProgressTool() mcp.Tool {
	return mcp.NewTool("set_scope_progress",
		mcp.WithDescription("Set a scope node's progress. The status follows the value (0 pending, 100 completed, in_progress between) unless status is given."),
		mcp.WithString("node_id",
			mcp.Description("Scope node ID"),
			mcp.Required(),
		),
		mcp.WithNumber("progress",
			mcp.Description("Progress from 0 to 100"),
			mcp.Required(),
			mcp.Min(0),
			mcp.Max(100),
		),
		mcp.WithString("status",
			mcp.Description("Optional status override"),
			mcp.Enum(string(domain.StatusPending), string(domain.StatusInProgress), string(domain.StatusCompleted)),
		),
	)
}

func setScopeProgressHandler(svcs Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("node_id", "")
		if id == "" {
			return toolError(fmt.Errorf("node_id is required"))
		}
		progress, err := req.RequireFloat("progress")
		if err != nil {
			return toolError(err)
		}

		spr := service.SetProgressRequest{Progress: progress}
		if raw := req.GetString("status", ""); raw != "" {
			st := domain.NodeStatus(raw)
			spr.Status = &st
		}
		n, err := svcs.Scope.SetProgress(ctx, id, spr)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s %s: %.0f%% (%s)", n.Code, n.Title, n.Progress, n.Status)), nil
	}
}
