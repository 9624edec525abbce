// Package pipeline orchestrates playlist and single-video downloads:
// resolution, quality selection, existence filtering, dispatch and reporting.
package pipeline

import (
	"time"

	"ytd/internal/download"
	"ytd/internal/model"
	"ytd/internal/progress"
	"ytd/internal/resolver"
	"ytd/internal/storage"
)

const (
	// DefaultJobs is the parallel pool size when none is configured.
	DefaultJobs = 4
	// MaxJobs caps the parallel pool size.
	MaxJobs = 16
)

// ClampJobs bounds n to 1..MaxJobs; zero or negative means DefaultJobs.
func ClampJobs(n int) int {
	switch {
	case n <= 0:
		return DefaultJobs
	case n > MaxJobs:
		return MaxJobs
	default:
		return n
	}
}

// deps holds the collaborators shared by both orchestrators.
type deps struct {
	resolver resolver.Resolver
	store    *storage.Store
	reporter progress.Reporter
	root     string
	jobs     int
	tier     model.QualityTier
	now      func() time.Time
}

// Option configures a PlaylistService or SingleService.
type Option func(*deps)

// WithResolver sets the stream resolver.
func WithResolver(r resolver.Resolver) Option {
	return func(d *deps) {
		d.resolver = r
	}
}

// WithStore sets the output filesystem.
func WithStore(s *storage.Store) Option {
	return func(d *deps) {
		d.store = s
	}
}

// WithReporter attaches a progress reporter (used by TUI and text output).
func WithReporter(rp progress.Reporter) Option {
	return func(d *deps) {
		d.reporter = rp
	}
}

// WithDownloadRoot sets the directory downloads are written under.
func WithDownloadRoot(dir string) Option {
	return func(d *deps) {
		d.root = dir
	}
}

// WithJobs sets the parallel pool size, clamped by ClampJobs.
func WithJobs(n int) Option {
	return func(d *deps) {
		d.jobs = ClampJobs(n)
	}
}

// WithTier sets the quality preference list used for playlists.
func WithTier(t model.QualityTier) Option {
	return func(d *deps) {
		d.tier = t
	}
}

// WithClock overrides time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		d.now = now
	}
}

func newDeps(opts []Option) deps {
	var d deps
	for _, o := range opts {
		o(&d)
	}
	if d.resolver == nil {
		d.resolver = resolver.NewYouTube(nil)
	}
	if d.store == nil {
		d.store = storage.NewOS()
	}
	if d.reporter == nil {
		d.reporter = progress.Nop{}
	}
	if d.jobs == 0 {
		d.jobs = DefaultJobs
	}
	if len(d.tier) == 0 {
		d.tier = model.DefaultTier
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

func (d deps) materializer() *download.Materializer {
	return download.New(d.store, d.reporter)
}
