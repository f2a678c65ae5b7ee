package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// RenderStats renders a track's node counts per status.
func RenderStats(st *contract.ScopeStats) string {
	var b strings.Builder
	b.WriteString(Header("Scope stats") + "\n")
	b.WriteString(fmt.Sprintf("Nodes     %d\n", st.Total))
	b.WriteString(fmt.Sprintf("Average   %s\n\n", RenderProgress(st.AvgProgress, 24)))
	for _, s := range []domain.NodeStatus{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted} {
		b.WriteString(fmt.Sprintf("  %-24s %d\n", StatusPill(s), st.ByStatus[s]))
	}
	return b.String()
}

// RenderRebuildReport renders the per-track outcome of a bulk rebuild.
func RenderRebuildReport(r *contract.RebuildReport) string {
	var b strings.Builder
	if r.Applied {
		b.WriteString(Header("Rebuild applied") + "\n")
	} else {
		b.WriteString(Header("Rebuild dry run") + "\n")
	}

	if len(r.Owners) > 0 {
		rows := make([][]string, 0, len(r.Owners))
		for _, o := range r.Owners {
			result := StyleGreen.Render("ok")
			switch {
			case o.Failed():
				result = StyleRed.Render(o.Error)
			case o.Nodes == 0:
				result = StyleYellow.Render("no scope nodes")
			}
			rows = append(rows, []string{
				o.Sheet, o.TrackKey,
				fmt.Sprint(o.Nodes), fmt.Sprint(o.KPIs), fmt.Sprint(o.Penalties), fmt.Sprint(o.Records),
				result,
			})
		}
		b.WriteString(RenderTable([]string{"SHEET", "TRACK", "NODES", "KPIS", "PENALTIES", "RECORDS", "RESULT"}, rows))
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\n" + Bold("Skipped") + "\n")
		for _, s := range r.Skipped {
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleYellow.Render(s.Sheet), Dim(s.Reason)))
		}
	}

	if !r.Applied {
		b.WriteString("\n" + Dim("Nothing was written. Re-run with --apply to replace the listed tracks.") + "\n")
	}
	return b.String()
}

// RenderNodeList renders scope nodes as a flat table.
func RenderNodeList(nodes []*domain.ScopeNode) string {
	if len(nodes) == 0 {
		return Dim("No scope nodes.") + "\n"
	}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			TruncID(n.ID), n.Code, Truncate(n.Title, 60), FormatPercent(n.Progress), StatusPill(n.Status),
		})
	}
	return RenderTable([]string{"ID", "CODE", "TITLE", "PROGRESS", "STATUS"}, rows)
}
