package importer

import (
	"testing"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a 15-column row with the given cells set.
func row(cells map[int]string) []string {
	r := make([]string, 15)
	for i, v := range cells {
		r[i] = v
	}
	return r
}

func trackSheet() [][]string {
	return [][]string{
		{"title row"},
		{"header row"},
		row(map[int]string{
			1:  "Consulting services",
			7:  "Advise the operator",
			8:  "1. Response time under 2 hours\n2. Monthly report delivered",
			9:  "Monthly report",
			10: "PDF report",
			11: "Signed by lead",
			12: "1. Late report, 2% deduction\n2. Missing signature, 1% deduction",
			13: "1.1 Advisory",
			14: "1.1 Extended advisory",
		}),
		row(map[int]string{
			8:  "1. Response time under 2 hours\n2. Monthly report delivered",
			9:  "ab",
			13: "Weekly meetings with the operator",
			14: "Quarterly strategy review",
		}),
		row(map[int]string{
			9:  "Risk register",
			12: "• Unapproved subcontracting",
			13: "1.2 Training",
		}),
		row(map[int]string{13: "Onboarding sessions"}),
	}
}

func codesOf(t *scope.Tree) []string {
	return t.Codes()
}

func TestParseSheet_ScopeMergesExtendedColumn(t *testing.T) {
	res := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)

	assert.Equal(t, []string{"1.1", "1.1.1", "1.2", "1.2.1", "S1.1", "S1.1.1"}, codesOf(res.Scope))

	seen := make(map[string]bool)
	for _, c := range codesOf(res.Scope) {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}

	var orders []int
	res.Scope.Walk(func(n, _ *scope.Node, _ int) { orders = append(orders, n.OrderIndex) })
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, orders)
}

func TestParseSheet_DescriptionFromFirstDataRow(t *testing.T) {
	res := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)
	assert.Equal(t, "Consulting services", res.Description)
	assert.Equal(t, "Advise the operator", res.DescriptionExtended)
}

func TestParseSheet_FlatListsAreSplitAndDeduplicated(t *testing.T) {
	res := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)

	require.Len(t, res.KPIs, 2)
	assert.Equal(t, "Response time under 2 hours", res.KPIs[0].Name)
	assert.Equal(t, 1, res.KPIs[1].SortOrder)

	require.Len(t, res.Penalties, 3)
	assert.Equal(t, domain.SeverityHigh, res.Penalties[0].Severity)
	assert.Equal(t, domain.SeverityMedium, res.Penalties[1].Severity)
	assert.Equal(t, domain.SeverityLow, res.Penalties[2].Severity)
	assert.Equal(t, "Unapproved subcontracting", res.Penalties[2].Violation)
}

func TestParseSheet_Records(t *testing.T) {
	res := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "Monthly report", res.Records[0].Title)
	assert.Equal(t, "PDF report\n\nSigned by lead", res.Records[0].Notes)
	assert.Equal(t, domain.StatusPending, res.Records[0].Status)
	assert.Equal(t, "Risk register", res.Records[1].Title)
}

func TestParseSheet_HeaderOnlySheetIsEmpty(t *testing.T) {
	res := ParseSheet([][]string{{"a"}, {"b"}}, config.DefaultHeaderRows, config.DefaultColumns)
	assert.Zero(t, res.Scope.Len())
	assert.Empty(t, res.Description)
	assert.Empty(t, res.KPIs)
}

func TestParseSheet_DisabledAndShortColumns(t *testing.T) {
	cols := config.DefaultColumns
	cols.ExtendedScope = -1
	cols.KPI = -1

	res := ParseSheet(trackSheet(), config.DefaultHeaderRows, cols)
	assert.Equal(t, []string{"1.1", "1.1.1", "1.2", "1.2.1"}, codesOf(res.Scope))
	assert.Empty(t, res.KPIs)

	ragged := [][]string{{"h"}, {"h"}, {"only", "two"}}
	res = ParseSheet(ragged, config.DefaultHeaderRows, config.DefaultColumns)
	assert.Equal(t, "two", res.Description)
	assert.Zero(t, res.Scope.Len())
}

func TestParseSheet_StandalonesBeforeFirstSection(t *testing.T) {
	rows := [][]string{
		{}, {},
		row(map[int]string{13: "General obligations"}),
		row(map[int]string{13: "1 Scope"}),
		row(map[int]string{13: "First item"}),
	}
	res := ParseSheet(rows, 2, config.DefaultColumns)
	assert.Equal(t, []string{"R1", "1", "1.1"}, codesOf(res.Scope))
}

func TestParseSheet_Deterministic(t *testing.T) {
	a := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)
	b := ParseSheet(trackSheet(), config.DefaultHeaderRows, config.DefaultColumns)
	assert.Equal(t, codesOf(a.Scope), codesOf(b.Scope))
}
