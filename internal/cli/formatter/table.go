package formatter

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// numericCell matches counts and scores as the formatters print them:
// "12", "32.75", "40%".
var numericCell = regexp.MustCompile(`^-?\d+(\.\d+)?%?$`)

// RenderTable lays out a listing under a header and a rule. Widths are
// measured on visible text, so styled cells and bars line up. A column whose
// non-empty cells are all numbers is right-aligned, header included. Lines
// carry no trailing padding.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := columnWidths(headers, rows)
	right := numericColumns(len(headers), rows)

	var b strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = StyleHeader.Render(h)
	}
	writeRow(&b, cells, widths, right)

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	writeRow(&b, rule, widths, nil)

	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		writeRow(&b, cells, widths, right)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

func numericColumns(cols int, rows [][]string) []bool {
	right := make([]bool, cols)
	for i := range right {
		seen := false
		right[i] = true
		for _, row := range rows {
			if i >= len(row) || row[i] == "" {
				continue
			}
			seen = true
			if !numericCell.MatchString(row[i]) {
				right[i] = false
				break
			}
		}
		right[i] = right[i] && seen
	}
	return right
}

func writeRow(b *strings.Builder, cells []string, widths []int, right []bool) {
	var line strings.Builder
	for i, cell := range cells {
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		if i > 0 {
			line.WriteString(strings.Repeat(" ", colGap))
		}
		if right != nil && right[i] {
			line.WriteString(strings.Repeat(" ", pad))
			line.WriteString(cell)
			continue
		}
		line.WriteString(cell)
		line.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}
