package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"saul/internal/api"
	"saul/internal/timeutil"
)

const caseRowFormat = "%-6s %-24s %-6s %-14s %s\n"

// PrintCases writes the case table, most recently updated first as the
// backend returns them.
func PrintCases(out io.Writer, cases []api.Case, now time.Time) {
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases yet")
		return
	}

	header := strings.TrimSuffix(fmt.Sprintf(caseRowFormat, "ID", "CLIENT", "FILES", "UPDATED", "DESCRIPTION"), "\n")
	fmt.Fprintln(out, labelStyle.Render(header))
	fmt.Fprintf(out, caseRowFormat, "--", "------", "-----", "-------", "-----------")

	for _, c := range cases {
		updated := c.UpdatedAt.Time
		if updated.IsZero() {
			updated = c.CreatedAt.Time
		}
		desc := "-"
		if c.Description != nil && strings.TrimSpace(*c.Description) != "" {
			desc = strings.TrimSpace(*c.Description)
		}
		fmt.Fprintf(out, caseRowFormat,
			strconv.FormatInt(c.CaseID, 10),
			orDash(truncate(c.ClientName, 24)),
			strconv.Itoa(c.FileCount),
			orDash(timeutil.FormatRelative(updated, now)),
			desc,
		)
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
