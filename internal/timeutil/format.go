// Package timeutil formats timestamps for list views.
package timeutil

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Week is the horizon after which relative times give way to a date.
const Week = 7 * 24 * time.Hour

// FormatRelative renders t relative to now: "Just now" under a minute,
// "5 minutes ago" style within a week, and a calendar date after that.
// Times in the future are treated as now.
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < Week:
		return humanize.RelTime(t, now, "ago", "from now")
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FormatDuration formats a duration in a compact way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
