package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/tree"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Code      string
	Title     string
	Level     int
	IsLast    bool
	Collapsed bool
	Status    domain.NodeStatus
	Progress  float64
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeItems converts flattened rows into display items.
func TreeItems(rows []tree.Row) []TreeItem {
	items := make([]TreeItem, 0, len(rows))
	for _, r := range rows {
		n := r.Node.Scope
		items = append(items, TreeItem{
			Code:      n.Code,
			Title:     n.Title,
			Level:     r.Depth,
			IsLast:    r.IsLast,
			Collapsed: r.HasChildren() && !r.Expanded,
			Status:    n.Status,
			Progress:  n.Progress,
		})
	}
	return items
}

// RenderTree renders items in depth-first order as an indented tree using
// box-drawing connectors. Completed items get a green ✔ prefix, in-progress
// items an amber ▶ prefix, and progress badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0
	// lastAt[d] records whether the most recent item at depth d closed its
	// sibling list, which decides between a pipe and blank indent below it.
	var lastAt []bool

	for idx, item := range items {
		for len(lastAt) <= item.Level {
			lastAt = append(lastAt, false)
		}
		lastAt[item.Level] = item.IsLast

		var prefix strings.Builder
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if lastAt[i] {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}

		title := item.Title
		if item.Collapsed {
			title += Dim(" …")
		}
		statusPrefix := ""
		switch item.Status {
		case domain.StatusCompleted:
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusInProgress:
			statusPrefix = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}
		code := ""
		if item.Code != "" {
			code = StyleDim.Render(item.Code) + " "
		}

		content := prefix.String() + statusPrefix + code + title
		lines[idx].content = content
		if item.Progress > 0 {
			lines[idx].badge = StatusStyle(item.Status).Render(fmt.Sprintf("[ %s ]", FormatPercent(item.Progress)))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
