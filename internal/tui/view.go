package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trackscope/internal/cli/formatter"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(formatter.ColorHeader)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#504945")).
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorFg).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorRed)
)

// chromeLines is the header, search, detail and footer height around the tree.
const chromeLines = 8

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.track.Name))
	if m.progress != nil {
		b.WriteString("  " + formatter.RenderProgress(m.progress.Overall, 20))
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("scope %s", formatter.FormatPercent(m.progress.Breakdown.ScopeBlocks))))
	}
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.search.View())
	case m.query != "":
		b.WriteString(formatter.Dim(fmt.Sprintf("filter: %q (esc to clear)", m.query)))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(formatter.Dim("Loading scope tree..."))
	case len(m.rows) == 0 && m.query != "":
		b.WriteString(formatter.Dim("No nodes match."))
	case len(m.rows) == 0:
		b.WriteString(formatter.Dim("No scope nodes. Import an outline with 'trackscope scope import'."))
	default:
		b.WriteString(m.renderRows())
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n")
	if m.message != "" {
		if m.messageErr {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(statusStyle.Render(m.message))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(Keys))
	return b.String()
}

func (m *Model) renderRows() string {
	lines := strings.Split(strings.TrimRight(formatter.RenderTree(formatter.TreeItems(m.rows)), "\n"), "\n")

	visible := m.height - chromeLines
	if visible < 3 {
		visible = 3
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	end := m.offset + visible
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		line := lines[i]
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if end < len(lines) {
		b.WriteString(formatter.Dim(fmt.Sprintf("  … %d more", len(lines)-end)) + "\n")
	}
	return b.String()
}

// renderDetail shows the selected node's body under the tree.
func (m *Model) renderDetail() string {
	row, ok := m.current()
	if !ok {
		return ""
	}
	n := row.Node.Scope
	body := n.Body
	if body == "" {
		body = n.Title
	}
	return "\n" + bodyStyle.Render(formatter.Truncate(strings.ReplaceAll(body, "\n", " "), 200)) + "\n"
}
