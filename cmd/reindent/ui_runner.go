package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"reindent/internal/driver"
	"reindent/internal/ui"
)

type formatOutcome struct {
	results []driver.FormatResult
	err     error
}

func runFormatWithUI(ctx context.Context, files []string, opts driver.FormatOptions) ([]driver.FormatResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		opts.Events = events
		res, err := driver.FormatPaths(ctx, files, opts)
		outcomeCh <- formatOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel("reindent fmt", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
