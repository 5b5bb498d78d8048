package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

var (
	scrollMu            sync.Mutex
	lastScrollEventTime time.Time
)

// scrollEventFilter drops wheel events that arrive faster than ~120 per
// second so a fast trackpad cannot flood the queue.
func scrollEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseWheelMsg); !ok {
		return msg
	}
	scrollMu.Lock()
	defer scrollMu.Unlock()
	now := time.Now()
	if !lastScrollEventTime.IsZero() && now.Sub(lastScrollEventTime) < 8*time.Millisecond {
		return nil
	}
	lastScrollEventTime = now
	return msg
}

// Start runs the notebook until the user quits or ctx is cancelled.
func Start(ctx context.Context, opts Options) error {
	model := New(ctx, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithFilter(scrollEventFilter),
	)
	_, err := p.Run()
	return err
}
