package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"saul/internal/api"
	"saul/internal/checklist"
)

// AnalyticsSource fetches generated reports.
type AnalyticsSource interface {
	Analytics(ctx context.Context, caseID int64, analyticType string) (api.Analytic, error)
}

type ChecklistOptions struct {
	Toggle []string
	Reset  bool
	JSON   bool
}

// Checklist fetches the procedural checklist report of a case, applies the
// locally stored completion, performs the requested edits and prints the
// result.
func Checklist(ctx context.Context, src AnalyticsSource, tracker *checklist.Tracker, caseID int64, opts ChecklistOptions, out io.Writer) error {
	typ, _ := api.AnalyticType(api.ChecklistHeading)
	report, err := src.Analytics(ctx, caseID, typ)
	if err != nil {
		return fmt.Errorf("fetch checklist: %w", err)
	}

	key := strconv.FormatInt(caseID, 10)
	if opts.Reset {
		tracker.Reset(ctx, key)
	}
	cl := tracker.Build(ctx, report.Report, key)
	cl.Title = api.ChecklistHeading

	for _, id := range opts.Toggle {
		if !hasItem(cl, id) {
			return fmt.Errorf("case %d has no checklist item %q", caseID, id)
		}
		tracker.Toggle(ctx, key, id)
	}
	if len(opts.Toggle) > 0 {
		cl.Items = checklist.Apply(cl.Items, tracker.Load(ctx, key))
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cl)
	}
	printChecklist(out, caseID, cl)
	return nil
}

func hasItem(cl checklist.Checklist, id string) bool {
	for _, it := range cl.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func printChecklist(out io.Writer, caseID int64, cl checklist.Checklist) {
	done, total := cl.Progress()
	fmt.Fprintf(out, "%s %s  %s\n",
		labelStyle.Render(cl.Title),
		valueStyle.Render(fmt.Sprintf("case %d", caseID)),
		mutedStyle.Render(fmt.Sprintf("%d/%d done", done, total)),
	)
	if total == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  no actionable items found in the report"))
		return
	}
	for _, it := range cl.Items {
		box, label := "[ ]", it.Label
		if it.Done {
			box, label = successStyle.Render("[✓]"), doneStyle.Render(it.Label)
		}
		fmt.Fprintf(out, "  %s %s %s\n", box, mutedStyle.Render(it.ID), label)
		if it.Description != "" {
			fmt.Fprintf(out, "        %s\n", mutedStyle.Render(it.Description))
		}
	}
}
