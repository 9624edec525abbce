package progress

// Stage identifies a high-level step of a download.
type Stage string

const (
	StageResolving   Stage = "resolving"
	StageSkipped     Stage = "skipped"
	StageQueued      Stage = "queued"
	StageDownloading Stage = "downloading"
	StageCompleted   Stage = "completed"
	StageError       Stage = "error"
)

// LogStream indicates whether a log line is informational or a warning.
type LogStream int

const (
	StreamInfo LogStream = iota
	StreamWarn
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; set to a negative value (e.g., -1) to mean unknown.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64 // 0..100, or <0 if unknown
	Bytes   *int64  // optional cumulative bytes
	Total   *int64  // optional expected bytes
	Message string  // short human-friendly status line
}

// Log is a line associated with a job. JobID may be empty for run-level notes.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID      string
	OutputPath string
	Bytes      int64
	Err        error // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Update(Update) {}
func (Nop) Log(Log)       {}
func (Nop) Result(Result) {}

// Percent computes done/total as 0..100, or -1 when total is unknown.
func Percent(done, total int64) float64 {
	if total <= 0 {
		return -1
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}
