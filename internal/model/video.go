package model

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// VideoRef identifies one remote video and carries its resolved metadata.
type VideoRef struct {
	ID          string
	URL         string
	Title       string
	Author      string
	PublishDate time.Time // zero if unknown
	Duration    time.Duration
}

// StreamSource produces the bytes of one encoded stream.
// The returned size is the expected length in bytes, or 0 if unknown.
type StreamSource interface {
	Open(ctx context.Context) (io.ReadCloser, int64, error)
}

// StreamVariant is one downloadable encoding of a video.
type StreamVariant struct {
	Quality         string // e.g. "720p"
	FPS             int
	MimeType        string
	Size            int64 // 0 if unknown
	DefaultFilename string
	Source          StreamSource
}

// PlaylistRef identifies a playlist and its ordered entries.
// Entries carry at least ID and Title; the rest is filled on per-item resolution.
type PlaylistRef struct {
	ID      string
	URL     string
	Title   string
	Author  string
	Entries []VideoRef
}

// DirName returns the playlist title as a single directory name under the
// download root: `|`, `?`, path separators and control characters are
// removed. A title left empty, "." or ".." falls back to the playlist id,
// then to "untitled".
func (p PlaylistRef) DirName() string {
	for _, s := range []string{p.Title, p.ID} {
		if name := dirComponent(s); name != "" {
			return name
		}
	}
	return "untitled"
}

func dirComponent(s string) string {
	name := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '|', r == '?', r == '/', r == '\\', unicode.IsControl(r):
			return -1
		}
		return r
	}, s))
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// DownloadUnit is a fully specified download job. It is consumed exactly once.
type DownloadUnit struct {
	Index     int // position in the source playlist; 0 for single items
	Title     string
	Variant   StreamVariant
	OutputDir string
	Filename  string
	Prefix    string
}

// Name returns the final file name including the prefix.
func (u DownloadUnit) Name() string {
	return u.Prefix + u.Filename
}

// Path returns the absolute target path of the unit.
func (u DownloadUnit) Path() string {
	return filepath.Join(u.OutputDir, u.Name())
}
