package scope

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRows_SectionsChildrenAndStandalones(t *testing.T) {
	tree, _ := BuildRows([]string{
		"Preamble row before any section",
		"1.1 Site Survey",
		"Walk the perimeter",
		"",
		"Photograph all gates",
		"1.2 Staffing",
		"Second preamble-like row",
	})

	require.Len(t, tree.Roots, 3)

	r1 := tree.Roots[0]
	assert.Equal(t, "R1", r1.Code)
	assert.Equal(t, "Preamble row before any section", r1.Title)

	survey := tree.Roots[1]
	assert.Equal(t, "1.1", survey.Code)
	assert.Equal(t, "Site Survey", survey.Title)
	require.Len(t, survey.Children, 2)
	assert.Equal(t, "1.1.1", survey.Children[0].Code)
	assert.Equal(t, "Walk the perimeter", survey.Children[0].Title)
	assert.Equal(t, "Walk the perimeter", survey.Children[0].Body)
	assert.Equal(t, "1.1.2", survey.Children[1].Code)

	staffing := tree.Roots[2]
	assert.Equal(t, "1.2", staffing.Code)
	require.Len(t, staffing.Children, 1)
	assert.Equal(t, "1.2.1", staffing.Children[0].Code)
}

func TestBuildRows_OrderIndexFollowsDiscovery(t *testing.T) {
	tree, _ := BuildRows([]string{
		"Standalone first",
		"2 Section two",
		"child a",
		"child b",
		"3 Section three",
		"child c",
	})

	type entry struct {
		order int
		code  string
	}
	var got []entry
	tree.Walk(func(n, _ *Node, _ int) { got = append(got, entry{n.OrderIndex, n.Code}) })
	sort.Slice(got, func(i, j int) bool { return got[i].order < got[j].order })

	var codes []string
	for i, e := range got {
		assert.Equal(t, i, e.order, "orderIndex is a dense shared counter")
		codes = append(codes, e.code)
	}
	assert.Equal(t, []string{"R1", "2", "2.1", "2.2", "3", "3.1"}, codes)
}

func TestBuildRows_LongChildTitleIsTruncated(t *testing.T) {
	long := strings.Repeat("x", 260)
	tree, _ := BuildRows([]string{"1 Section", long})

	child := tree.Roots[0].Children[0]
	assert.Len(t, child.Title, MaxTitleRunes)
	assert.Equal(t, long, child.Body)
}

func TestBuildRows_SectionCellKeepsTrailingLinesAsBody(t *testing.T) {
	tree, _ := BuildRows([]string{"1.4 Reporting\nWeekly summary\nMonthly review"})
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "Reporting", tree.Roots[0].Title)
	assert.Equal(t, "Weekly summary\nMonthly review", tree.Roots[0].Body)
}

func TestBuildRows_DuplicateSectionsGetSuffixes(t *testing.T) {
	tree, _ := BuildRows([]string{
		"1.1 First",
		"1.1 Again",
		"1.1 Third time",
		"child of third",
	})
	assert.Equal(t, []string{"1.1", "1.1_1", "1.1_2", "1.1_2.1"}, tree.Codes())
}

func TestBuildRows_UnparseableRowsCreateNothing(t *testing.T) {
	tree, r := BuildRows([]string{"", "   ", "\n\n"})
	assert.Empty(t, tree.Roots)
	assert.Zero(t, r.Len())
}

func TestParseOutline_NumberedChildNestsUnderSection(t *testing.T) {
	tree := ParseOutline("1.7 Access Control\nDetails.\n1.7.1 Entry Permits\nMore details.", NewResolver(), 0)

	require.Len(t, tree.Roots, 1)
	root := tree.Roots[0]
	assert.Equal(t, "1.7", root.Code)
	assert.Equal(t, "Access Control", root.Title)
	assert.Equal(t, "Details.", root.Body)

	require.Len(t, root.Children, 1)
	child := root.Children[0]
	assert.Equal(t, "1.7.1", child.Code)
	assert.Equal(t, "Entry Permits", child.Title)
	assert.Equal(t, "More details.", child.Body)
	assert.Equal(t, 2, tree.Len())
}

func TestParseOutline_SkipsMissingIntermediateLevels(t *testing.T) {
	tree := ParseOutline("2 Operations\n2.1.3 Night shift\n3 Logistics", NewResolver(), 0)

	require.Len(t, tree.Roots, 2)
	require.Len(t, tree.Roots[0].Children, 1)
	assert.Equal(t, "2.1.3", tree.Roots[0].Children[0].Code)
	assert.Equal(t, "3", tree.Roots[1].Code)
}

func TestParseOutline_ResolvesAgainstExistingCodes(t *testing.T) {
	r := NewResolver("1.7", "1.7.1")
	tree := ParseOutline("1.7 Access Control\n1.7.1 Entry Permits", r, 10)

	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "1.7_1", tree.Roots[0].Code)
	assert.Equal(t, 10, tree.Roots[0].OrderIndex)
	require.Len(t, tree.Roots[0].Children, 1, "parenting uses the proposed code")
	assert.Equal(t, "1.7.1_1", tree.Roots[0].Children[0].Code)
	assert.Equal(t, 11, tree.Roots[0].Children[0].OrderIndex)
}

func TestParseOutline_LeadingTextBecomesStandalone(t *testing.T) {
	tree := ParseOutline("Scope notes\nsecond line\n1 Intro", NewResolver(), 0)

	require.Len(t, tree.Roots, 2)
	assert.Equal(t, "R1", tree.Roots[0].Code)
	assert.Equal(t, "Scope notes", tree.Roots[0].Title)
	assert.Equal(t, "Scope notes\nsecond line", tree.Roots[0].Body)
	assert.Equal(t, "1", tree.Roots[1].Code)
}
