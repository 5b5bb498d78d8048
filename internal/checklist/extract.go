// Package checklist turns loosely structured markdown reports into ordered
// to-do items and tracks which of them the user has ticked off.
//
// Extraction is best effort. Odd formatting yields fewer or spurious items,
// never an error or a panic.
package checklist

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxDescription is the rune budget for a description, ellipsis included.
	MaxDescription = 200
	// LookAhead is how many lines after a heading are searched for a description.
	LookAhead = 7

	ellipsis = "…"
)

// Item is one actionable entry. An empty Description means none was found.
type Item struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done"`
}

// Checklist groups the items extracted from one report.
type Checklist struct {
	CaseID    string    `json:"case_id"`
	Title     string    `json:"title,omitempty"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress counts completed items.
func (c Checklist) Progress() (done, total int) {
	for _, it := range c.Items {
		if it.Done {
			done++
		}
	}
	return done, len(c.Items)
}

var (
	markdownHeadingRe = regexp.MustCompile(`^\s{0,3}(#{1,6})(?:\s+(.*))?$`)
	numberedLineRe    = regexp.MustCompile(`^\s*\d+[.:]\s+\S`)
	leadingNumeralRe  = regexp.MustCompile(`^\d+(?:\.\d+)*[.:)]?\s*`)
	bulletRe          = regexp.MustCompile(`^(?:[-*+•](?:\s+|$)|>\s*)+`)
	citationRe        = regexp.MustCompile(`\[[^\]]*\]`)
	emphasisReplacer  = strings.NewReplacer("*", "", "_", "")
)

// Section titles that reports use to introduce the list rather than items.
var boilerplate = map[string]struct{}{
	"procedural checklist": {},
	"strategic to-do list": {},
	"strategic todo list":  {},
	"to-do list":           {},
	"todo list":            {},
	"checklist":            {},
	"action items":         {},
	"next steps":           {},
	"summary":              {},
	"overview":             {},
	"introduction":         {},
	"conclusion":           {},
	"notes":                {},
	"sources":              {},
	"references":           {},
	"disclaimer":           {},
}

type lineKind int

const (
	plainLine lineKind = iota
	candidateLine
	otherHeadingLine
)

// classify reports whether a line is a candidate heading (levels 2 to 4 or a
// bare numbered line), another markdown heading, or ordinary text. For
// candidates it also returns the text after the heading markers.
func classify(line string) (lineKind, string) {
	if m := markdownHeadingRe.FindStringSubmatch(line); m != nil {
		level := len(m[1])
		if level >= 2 && level <= 4 {
			return candidateLine, m[2]
		}
		return otherHeadingLine, ""
	}
	if numberedLineRe.MatchString(line) {
		return candidateLine, strings.TrimSpace(line)
	}
	return plainLine, ""
}

func cleanLabel(rest string) string {
	rest = strings.TrimSpace(rest)
	// Trailing closing hashes are valid ATX heading syntax.
	rest = strings.TrimSpace(strings.TrimRight(rest, "#"))
	rest = emphasisReplacer.Replace(rest)
	rest = strings.TrimSpace(rest)
	rest = leadingNumeralRe.ReplaceAllString(rest, "")
	return collapseSpace(rest)
}

func isBoilerplate(label string) bool {
	key := strings.ToLower(strings.TrimRight(label, ":. "))
	_, ok := boilerplate[key]
	return ok
}

func cleanDescription(line string) string {
	line = strings.TrimSpace(line)
	line = bulletRe.ReplaceAllString(line, "")
	line = citationRe.ReplaceAllString(line, "")
	line = emphasisReplacer.Replace(line)
	return truncate(collapseSpace(line), MaxDescription)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit-1]), " ") + ellipsis
}

// Extract parses report and returns its to-do items in source order. Item ids
// are "{caseID}-{n}" with n counting accepted items from 1.
func Extract(report, caseID string) []Item {
	if report == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(report, "\r\n", "\n"), "\n")

	var items []Item
	for i, line := range lines {
		kind, rest := classify(line)
		if kind != candidateLine {
			continue
		}
		label := cleanLabel(rest)
		if label == "" || isBoilerplate(label) {
			continue
		}
		items = append(items, Item{
			ID:          fmt.Sprintf("%s-%d", caseID, len(items)+1),
			Label:       label,
			Description: describe(lines, i),
		})
	}
	return items
}

// describe looks at the lines following a heading for the first text line.
// It stops at the next heading of any kind.
func describe(lines []string, heading int) string {
	end := min(heading+LookAhead, len(lines)-1)
	for j := heading + 1; j <= end; j++ {
		line := lines[j]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if kind, _ := classify(line); kind != plainLine {
			return ""
		}
		if desc := cleanDescription(line); desc != "" {
			return desc
		}
	}
	return ""
}
