package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ytd/internal/model"
	"ytd/internal/progress"
	"ytd/internal/util/format"
)

const maxNotes = 5

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	title string

	// Jobs appear as the first event for them arrives.
	jobOrder []string
	jobs     map[string]*jobState
	notes    []string

	finished bool
	quitting bool
	report   model.Report
	err      error

	// UI
	width, height int
	styles        Styles
	spinner       spinner.Model

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

// NewModel returns a model that cancels cancel when the user quits.
func NewModel(ctx context.Context, cancel context.CancelFunc, title string) Model {
	sty := defaultStyles()
	sp := spinner.New()
	sp.Style = sty.Spinner
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		title:   title,
		jobs:    make(map[string]*jobState),
		styles:  sty,
		spinner: sp,
		eventCh: make(chan tea.Msg, 256),
	}
}

// Reporter returns a progress.Reporter that feeds this model.
func (m Model) Reporter() progress.Reporter {
	return teaReporter{ctx: m.ctx, ch: m.eventCh}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEventsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobUpdateMsg:
		u := msg.U
		js := m.job(u.JobID)
		js.stage = u.Stage
		js.percent = u.Percent
		if u.Message != "" {
			js.status = u.Message
		} else if u.Stage == progress.StageDownloading {
			js.status = "Downloading"
		}
		if u.Bytes != nil {
			js.bytes = *u.Bytes
		}
		if u.Total != nil {
			js.total = *u.Total
		}
	case jobLogMsg:
		line := strings.TrimRight(msg.L.Line, "\r\n")
		if msg.L.Stream == progress.StreamWarn && line != "" {
			m.notes = append(m.notes, line)
			if len(m.notes) > maxNotes {
				m.notes = m.notes[len(m.notes)-maxNotes:]
			}
		}
	case jobResultMsg:
		r := msg.R
		js := m.job(r.JobID)
		js.done = true
		js.err = r.Err
		if r.Err == nil {
			js.stage = progress.StageCompleted
			js.percent = 100
			js.outputPath = r.OutputPath
			js.bytes = r.Bytes
			js.status = fmt.Sprintf("Saved: %s (%s)", filepath.Base(r.OutputPath), format.HumanizeBytes(r.Bytes))
		} else {
			js.stage = progress.StageError
			js.status = r.Err.Error()
			js.percent = -1
		}
	case finishedMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	case allDoneMsg:
		return m, tea.Quit
	}

	// Keep listening for events
	return m, m.listenEventsCmd()
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + m.viewNotes() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs() + m.viewNotes()
}

// job returns the state for id, creating it on first sight. The map holds
// pointers so the copy-on-update Model still shares job state.
func (m *Model) job(id string) *jobState {
	if js, ok := m.jobs[id]; ok {
		return js
	}
	js := newJobState(id)
	m.jobs[id] = js
	m.jobOrder = append(m.jobOrder, id)
	return js
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// teaReporter forwards pipeline events into the program. Progress updates are
// dropped when the program lags; results are always delivered unless the
// context ends.
type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}
