package importer

import (
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/scope"
)

// dedupePrefixRunes is how much of a KPI or penalty cell identifies it when
// the same block is repeated down a sheet.
const dedupePrefixRunes = 50

// minDeliverableRunes is the shortest deliverable name kept.
const minDeliverableRunes = 3

// SheetResult is everything one track sheet contributes to a bulk rebuild.
// Derived entities carry no TrackID; the caller assigns it.
type SheetResult struct {
	Description         string
	DescriptionExtended string
	Scope               *scope.Tree
	KPIs                []*domain.TrackKPI
	Penalties           []*domain.Penalty
	Records             []*domain.Record
}

// ParseSheet runs the scope pipeline over one sheet: the scope column and the
// extended scope column are built into separate candidate trees, then merged
// so every code is unique. KPI and penalty cells go through the flat splitter.
func ParseSheet(rows [][]string, headerRows int, cols config.Columns) *SheetResult {
	res := &SheetResult{}
	if headerRows < len(rows) {
		rows = rows[headerRows:]
	} else {
		rows = nil
	}

	if len(rows) > 0 {
		res.Description = cell(rows[0], cols.Main)
		res.DescriptionExtended = cell(rows[0], cols.Description)
	}

	primary, resolver := scope.BuildRows(column(rows, cols.Scope))
	extended, _ := scope.BuildRows(column(rows, cols.ExtendedScope))
	res.Scope = scope.Merge(primary, extended, resolver)

	res.KPIs = kpis(splitColumn(rows, cols.KPI))
	res.Penalties = penalties(splitColumn(rows, cols.Penalty))
	res.Records = records(rows, cols)
	return res
}

// cell returns the cleaned cell at col, or "" when the row is short or the
// column is disabled.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return scope.Clean(row[col])
}

func column(rows [][]string, col int) []string {
	if col < 0 {
		return nil
	}
	cells := make([]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, cell(r, col))
	}
	return cells
}

// splitColumn splits every distinct cell of col into items, skipping cells
// whose leading text was already seen, then drops repeated items.
func splitColumn(rows [][]string, col int) []string {
	seenCells := make(map[string]bool)
	seenItems := make(map[string]bool)
	var items []string
	for _, text := range column(rows, col) {
		if text == "" {
			continue
		}
		key := prefixRunes(text, dedupePrefixRunes)
		if seenCells[key] {
			continue
		}
		seenCells[key] = true
		for _, item := range scope.SplitNumbered(text) {
			if !seenItems[item] {
				seenItems[item] = true
				items = append(items, item)
			}
		}
	}
	return items
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func kpis(items []string) []*domain.TrackKPI {
	out := make([]*domain.TrackKPI, 0, len(items))
	for i, item := range items {
		out = append(out, &domain.TrackKPI{Name: item, NameAlt: item, SortOrder: i})
	}
	return out
}

func penalties(items []string) []*domain.Penalty {
	out := make([]*domain.Penalty, 0, len(items))
	for i, item := range items {
		out = append(out, &domain.Penalty{
			Violation:    item,
			ViolationAlt: item,
			Severity:     domain.ClassifySeverity(item),
			SortOrder:    i,
		})
	}
	return out
}

func records(rows [][]string, cols config.Columns) []*domain.Record {
	var out []*domain.Record
	for _, r := range rows {
		name := cell(r, cols.Deliverable)
		if utf8.RuneCountInString(name) < minDeliverableRunes {
			continue
		}
		var notes []string
		if o := cell(r, cols.Outputs); o != "" {
			notes = append(notes, o)
		}
		if ind := cell(r, cols.Indicators); ind != "" {
			notes = append(notes, ind)
		}
		out = append(out, &domain.Record{
			Title:    name,
			TitleAlt: name,
			Status:   domain.StatusPending,
			Notes:    strings.Join(notes, "\n\n"),
		})
	}
	return out
}
