package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"saul/internal/doctor"
)

func Doctor(ctx context.Context, out io.Writer, probe doctor.Prober) (int, error) {
	report := doctor.GenerateReport(ctx, probe)

	fmt.Fprintln(out, labelStyle.Render("Saul Doctor Report"))
	fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("-", 18)))

	for _, check := range report.Checks {
		fmt.Fprintf(out, "%s %s - %s\n", formatStatus(check.Status), check.Name, check.Summary)
		for _, detail := range check.Details {
			fmt.Fprintf(out, "    %s\n", mutedStyle.Render(detail))
		}
		for _, action := range check.Actions {
			fmt.Fprintf(out, "    -> %s\n", action)
		}
		fmt.Fprintln(out)
	}

	exitCode := report.ExitCode()
	if exitCode == 0 {
		fmt.Fprintln(out, "All checks completed")
	} else {
		fmt.Fprintln(out, errorStyle.Render("One or more checks failed"))
	}
	return exitCode, nil
}

func formatStatus(status doctor.Status) string {
	switch status {
	case doctor.StatusOK:
		return successStyle.Render("[OK  ]")
	case doctor.StatusWarn:
		return warnStyle.Render("[WARN]")
	case doctor.StatusFail:
		return errorStyle.Render("[FAIL]")
	default:
		return "[    ]"
	}
}
