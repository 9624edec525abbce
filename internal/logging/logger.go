// Package logging builds the logrus logger used for diagnostics and carries it,
// together with the run id, through a context.Context.
package logging

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	runIDKey  contextKey = "run_id"
)

// Fields is re-exported so callers don't import logrus for structured fields.
type Fields = logrus.Fields

// Options configures New.
type Options struct {
	Level  string // panic..trace; empty means warn
	Format string // "text" or "json"
	Out    io.Writer
}

// New returns a logger configured from opts. Unknown levels fall back to warn
// and are reported once at that level.
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	if opts.Out != nil {
		l.SetOutput(opts.Out)
	}

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: false,
			FullTimestamp:    true,
			TimestampFormat:  "15:04:05",
		})
	}

	levelName := opts.Level
	if levelName == "" {
		levelName = "warn"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		l.SetLevel(logrus.WarnLevel)
		l.Warnf("Invalid log level %s, defaulting to warn", levelName)
		return l
	}
	l.SetLevel(level)
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithRunID tags ctx with a run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run identifier carried by ctx, if any.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns an entry from the context's logger, tagged with the run id.
// Without a logger in ctx the entry discards its output.
func FromContext(ctx context.Context) *logrus.Entry {
	l, ok := ctx.Value(loggerKey).(*logrus.Logger)
	if !ok || l == nil {
		l = discard
	}
	entry := logrus.NewEntry(l)
	if id := RunID(ctx); id != "" {
		entry = entry.WithField("run_id", id)
	}
	return entry
}

var discard = Discard()
