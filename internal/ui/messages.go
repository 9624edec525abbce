package ui

import (
	"ytd/internal/model"
	"ytd/internal/progress"
)

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// finishedMsg is sent once the executed work has returned.
type finishedMsg struct {
	Report model.Report
	Err    error
}

type allDoneMsg struct{}
