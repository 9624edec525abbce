package model

import "time"

// SkippedItem records a playlist entry that produced no DownloadUnit.
type SkippedItem struct {
	Index  int
	Title  string
	Reason string
	Err    error // nil when skipped because the file already exists
}

// UnitFailure records a unit whose materialization failed.
type UnitFailure struct {
	Unit DownloadUnit
	Err  error
}

// Report summarizes one orchestrator run.
type Report struct {
	Title     string
	Path      string // target path for single-item runs
	Planned   int
	Completed int
	Cancelled int // units never finished: context cancelled, or abandoned after a sequential failure
	Skipped   []SkippedItem
	Failed    []UnitFailure
	Elapsed   time.Duration
	Aborted   bool // the user declined before anything was downloaded
}

// OK reports whether every planned unit completed.
func (r Report) OK() bool {
	return !r.Aborted && len(r.Failed) == 0 && r.Cancelled == 0 && r.Completed == r.Planned
}
