package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"

	"ytd/internal/progress"
)

type jobState struct {
	id     string
	stage  progress.Stage
	status string
	err    error
	done   bool

	outputPath string
	bytes      int64
	total      int64
	percent    float64 // -1 means unknown

	bar bubblesprogress.Model
}

func newJobState(id string) *jobState {
	return &jobState{
		id:      id,
		stage:   progress.StageQueued,
		status:  "Queued",
		percent: -1,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}
