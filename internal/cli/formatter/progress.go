package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// progressStyle colors by percentage: green from 66, yellow from 33, red below.
func progressStyle(pct float64) lipgloss.Style {
	switch {
	case pct < 33:
		return StyleRed
	case pct < 66:
		return StyleYellow
	default:
		return StyleGreen
	}
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(clampPercent(pct) / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders a 0..100 value as a bar like [████░░░░]  45%.
func RenderProgress(pct float64, width int) string {
	pct = clampPercent(pct)
	return fmt.Sprintf("[%s] %3.0f%%", progressStyle(pct).Render(bar(pct, width)), pct)
}

// RenderCompactBar renders only the blocks, for tree rows and list cells.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct = clampPercent(pct)
	style := progressStyle(pct)
	if dim {
		style = StyleDim
	}
	return style.Render(bar(pct, width))
}

// RenderTrackProgress renders one track's roll-up with its four families.
func RenderTrackProgress(tp *contract.TrackProgress) string {
	var b strings.Builder
	title := tp.TrackName
	if title == "" {
		title = tp.TrackKey
	}
	b.WriteString(Bold(title) + "  " + Dim(fmt.Sprintf("(%s, %s mode)", tp.TrackKey, tp.Mode)) + "\n\n")
	b.WriteString(fmt.Sprintf("  %-8s %s  %s\n", "Overall", RenderProgress(tp.Overall, 24), Dim(FormatPercent(tp.Overall))))
	b.WriteString("\n")

	rows := [][]string{
		{"Tasks", RenderCompactBar(tp.Breakdown.Tasks, 16, false), FormatPercent(tp.Breakdown.Tasks)},
		{"Reports", Dim("count"), fmt.Sprintf("%.0f", tp.Breakdown.Reports)},
		{"Scope", RenderCompactBar(tp.Breakdown.ScopeBlocks, 16, false), FormatPercent(tp.Breakdown.ScopeBlocks)},
		{"KPIs", RenderCompactBar(tp.Breakdown.KPIs, 16, false), FormatPercent(tp.Breakdown.KPIs)},
	}
	b.WriteString(RenderTable([]string{"FAMILY", "", "SCORE"}, rows))
	return b.String()
}

// RenderSummary renders the cross-track summary with its totals.
func RenderSummary(s *contract.ExecutiveSummary) string {
	var b strings.Builder
	b.WriteString(Header("Summary") + "\n")
	b.WriteString(fmt.Sprintf("Overall %s  %s\n\n", RenderProgress(float64(s.Overall), 24), Dim(string(s.Mode)+" mode")))

	if len(s.Tracks) == 0 {
		b.WriteString(Dim("No tracks.") + "\n")
	} else {
		rows := make([][]string, 0, len(s.Tracks))
		for _, tp := range s.Tracks {
			rows = append(rows, []string{
				tp.TrackKey,
				RenderCompactBar(tp.Overall, 16, false),
				FormatPercent(tp.Overall),
				FormatPercent(tp.Breakdown.Tasks),
				fmt.Sprintf("%.0f", tp.Breakdown.Reports),
				FormatPercent(tp.Breakdown.ScopeBlocks),
				FormatPercent(tp.Breakdown.KPIs),
			})
		}
		b.WriteString(RenderTable([]string{"TRACK", "", "OVERALL", "TASKS", "REPORTS", "SCOPE", "KPIS"}, rows))
	}

	t := s.Totals
	b.WriteString("\n" + Dim(fmt.Sprintf(
		"%d tracks · %d tasks · %d reports · %d KPIs (%d entries) · %d records · %d penalties (%d unresolved)",
		t.Tracks, t.Tasks, t.Reports, t.KPIs, t.KPIEntries, t.Records, t.Penalties, t.UnresolvedPenalties,
	)) + "\n")
	return b.String()
}
