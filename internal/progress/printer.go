package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"ytd/internal/util/format"
)

// Printer is a line-oriented Reporter for non-interactive output. Byte
// progress is printed in steps of StepPercent per job.
type Printer struct {
	StepPercent int

	mu      sync.Mutex
	w       io.Writer
	last    map[string]int
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	faint   lipgloss.Style
}

// NewPrinter writes events to w. Colors are used only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		StepPercent: 25,
		w:           w,
		last:        make(map[string]int),
		success:     r.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		warn:        r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		fail:        r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		faint:       r.NewStyle().Faint(true),
	}
}

func (p *Printer) Update(u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch u.Stage {
	case StageDownloading:
		if u.Percent < 0 || p.StepPercent <= 0 {
			return
		}
		step := int(u.Percent) / p.StepPercent
		if prev, ok := p.last[u.JobID]; ok && step <= prev {
			return
		}
		p.last[u.JobID] = step
		line := fmt.Sprintf("%s: %3.0f%%", u.JobID, u.Percent)
		if u.Bytes != nil && u.Total != nil {
			line += fmt.Sprintf(" (%s of %s)", format.HumanizeBytes(*u.Bytes), format.HumanizeBytes(*u.Total))
		}
		fmt.Fprintln(p.w, p.faint.Render(line))
	case StageSkipped:
		fmt.Fprintln(p.w, p.warn.Render(u.Message))
	case StageQueued, StageResolving:
		if u.Message != "" {
			fmt.Fprintln(p.w, p.faint.Render(u.Message))
		}
	}
}

func (p *Printer) Log(l Log) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l.Stream == StreamWarn {
		fmt.Fprintln(p.w, p.warn.Render(l.Line))
		return
	}
	fmt.Fprintln(p.w, l.Line)
}

func (p *Printer) Result(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.last, r.JobID)
	if r.Err != nil {
		fmt.Fprintln(p.w, p.fail.Render(fmt.Sprintf("Failed: %v", r.Err)))
		return
	}
	fmt.Fprintln(p.w, p.success.Render("Downloaded successfully and saved to: "+r.OutputPath))
}
