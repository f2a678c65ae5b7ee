// Package scope turns numbered free text into candidate work-breakdown trees
// and assigns owner-unique codes to their nodes. It has no storage
// dependencies; persistence happens through the depth-ordered Plan.
package scope

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinItemRunes is the shortest segment SplitNumbered keeps.
const MinItemRunes = 4

var (
	markerPattern  = regexp.MustCompile(`^(\d+[.)]\s|•\s)`)
	headingPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+)$`)

	invisibles = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\u200e", "",
		"\u200f", "",
		"\ufeff", "",
	)
)

// Clean normalizes line endings and strips zero-width marks that spreadsheet
// exports leave around numbering.
func Clean(text string) string {
	return strings.TrimSpace(invisibles.Replace(text))
}

// Lines returns the trimmed, non-empty lines of text in order.
func Lines(text string) []string {
	raw := strings.Split(Clean(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Heading reports whether line opens a numbered section such as
// "1.7 Access Control", returning the numeric prefix and the remaining text.
func Heading(line string) (code, title string, ok bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// stripMarker removes a leading "1. ", "1) " or "• " marker.
func stripMarker(line string) (string, bool) {
	loc := markerPattern.FindStringIndex(line)
	if loc == nil {
		return line, false
	}
	return strings.TrimSpace(line[loc[1]:]), true
}

// SplitNumbered splits a flat list (KPI text, penalty clauses) into items.
// Each marker-prefixed line starts a new item; unmarked lines continue the
// current one. Text before the first marker is dropped, so a block without
// markers yields no items. Items shorter than MinItemRunes are discarded.
func SplitNumbered(text string) []string {
	var items []string
	var current []string
	flush := func() {
		if current == nil {
			return
		}
		item := strings.TrimSpace(strings.Join(current, "\n"))
		if utf8.RuneCountInString(item) >= MinItemRunes {
			items = append(items, item)
		}
		current = nil
	}

	for _, line := range Lines(text) {
		rest, marked := stripMarker(line)
		if marked {
			flush()
			current = []string{rest}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	flush()
	return items
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
