package ui

import (
	"fmt"
	"strings"

	"ytd/internal/util/format"
)

func (m Model) viewHeader() string {
	done, failed, total := 0, 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done {
			done++
			if js.err != nil {
				failed++
			}
		}
	}
	title := m.styles.Title.Render("ytd · " + m.title)
	status := fmt.Sprintf("Downloads: %d/%d done", done, total)
	if failed > 0 {
		status += fmt.Sprintf(", %d failed", failed)
	}
	sub := m.styles.Subtitle.Render(status + " • q: quit")
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState) string {
	left := m.styles.JobTitle.Render(truncate(js.id, 48))
	stage := m.styles.stage(js.stage).Render(string(js.stage))

	var right string
	switch {
	case js.done && js.err == nil:
		right = m.styles.Success.Render("✓ done")
	case js.err != nil:
		right = m.styles.Error.Render("✗ error")
	case js.percent >= 0 && js.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
		if js.total > 0 {
			right += " " + m.styles.Faint.Render(format.HumanizeBytes(js.bytes)+" / "+format.HumanizeBytes(js.total))
		}
	default:
		right = m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Faint.Render("waiting")
	}

	line1 := fmt.Sprintf("%s  %s", left, stage)
	line2 := m.styles.JobInfo.Render(js.status)
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

func (m Model) viewNotes() string {
	if len(m.notes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range m.notes {
		b.WriteString(m.styles.Warning.Render("! " + n))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	var completed []string
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done && js.err == nil && js.outputPath != "" {
			completed = append(completed, js.outputPath)
		}
	}
	if len(completed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("✓ Completed Files:"))
	b.WriteString("\n")
	for _, path := range completed {
		b.WriteString(m.styles.Success.Render("  • " + path))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
