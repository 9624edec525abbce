package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"ytd/internal/model"
	"ytd/internal/progress"
)

// Interactive reports whether fd is a terminal the progress view can draw on.
func Interactive(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Run shows a progress view titled title while exec runs, and returns exec's
// report and error. Quitting the view cancels the context passed to exec and
// waits for it to return.
func Run(ctx context.Context, title string, exec func(context.Context, progress.Reporter) (model.Report, error)) (model.Report, error) {
	c, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(c, cancel, title)
	prog := tea.NewProgram(m, tea.WithContext(ctx))

	type outcome struct {
		report model.Report
		err    error
	}
	doneCh := make(chan outcome, 1)
	go func() {
		report, err := exec(c, m.Reporter())
		doneCh <- outcome{report: report, err: err}
		select {
		case m.eventCh <- finishedMsg{Report: report, Err: err}:
		case <-c.Done():
		}
	}()

	_, runErr := prog.Run()
	cancel()
	res := <-doneCh
	if res.err == nil && runErr != nil && ctx.Err() == nil {
		return res.report, runErr
	}
	return res.report, res.err
}
