package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"hier/internal/hierarchy"
	"hier/internal/ui"
	"hier/internal/warm"
)

type warmOutcome struct {
	results []warm.Result
	err     error
}

// runWarmWithUI prefetches ids while a progress view renders to out.
func runWarmWithUI(ctx context.Context, out io.Writer, r *hierarchy.Resolver, ids []string, opts warm.Options) ([]warm.Result, error) {
	// Buffer queued events for every id so Prefetch never blocks before the
	// program starts reading.
	events := make(chan warm.Event, len(ids)+256)
	outcomeCh := make(chan warmOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = warm.ChannelSink{Ch: events}
		res, err := warm.Prefetch(ctx, r, ids, optsCopy)
		outcomeCh <- warmOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("warming class pool", ids, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
