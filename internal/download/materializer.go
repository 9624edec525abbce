// Package download executes DownloadUnits: it streams a variant's bytes into
// the unit's target path.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ytd/internal/model"
	"ytd/internal/progress"
	"ytd/internal/storage"
)

// PartSuffix marks files that are still being written.
const PartSuffix = ".part"

const (
	chunkSize = 32 * 1024
	// unknownSizeStep is how often progress is reported when the size is unknown.
	unknownSizeStep = 1 << 20
)

// Materializer writes units to a Store. It is safe for concurrent use on
// distinct units, including units sharing a directory.
type Materializer struct {
	store    *storage.Store
	reporter progress.Reporter
}

// New returns a Materializer writing through store. A nil reporter discards events.
func New(store *storage.Store, reporter progress.Reporter) *Materializer {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Materializer{store: store, reporter: reporter}
}

// Materialize downloads unit into unit.Path(). Bytes go to a ".part" file that
// is renamed on success and removed on failure. The output directory must
// already exist. Errors are *model.DownloadError.
func (m *Materializer) Materialize(ctx context.Context, unit model.DownloadUnit) error {
	name := unit.Name()
	err := m.materialize(ctx, unit)
	if err != nil {
		err = &model.DownloadError{Name: name, Err: err}
		m.reporter.Update(progress.Update{JobID: name, Stage: progress.StageError, Percent: -1, Message: err.Error()})
		m.reporter.Result(progress.Result{JobID: name, OutputPath: unit.Path(), Err: err})
		return err
	}
	return nil
}

func (m *Materializer) materialize(ctx context.Context, unit model.DownloadUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src := unit.Variant.Source
	if src == nil {
		return errors.New("variant has no stream source")
	}

	name := unit.Name()
	m.reporter.Update(progress.Update{JobID: name, Stage: progress.StageDownloading, Percent: -1, Message: "Connecting"})

	rc, size, err := src.Open(ctx)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer rc.Close()
	if size <= 0 {
		size = unit.Variant.Size
	}

	final := unit.Path()
	part := final + PartSuffix
	f, err := m.store.Create(part)
	if err != nil {
		return fmt.Errorf("create %s: %w", part, err)
	}

	pw := &progressWriter{reporter: m.reporter, jobID: name, total: size}
	written, copyErr := copyWithContext(ctx, io.MultiWriter(f, pw), rc)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = m.store.Remove(part)
		return copyErr
	}

	if err := m.store.Rename(part, final); err != nil {
		_ = m.store.Remove(part)
		return fmt.Errorf("rename %s: %w", part, err)
	}

	m.reporter.Update(progress.Update{
		JobID:   name,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Bytes:   &written,
		Message: "Saved",
	})
	m.reporter.Result(progress.Result{JobID: name, OutputPath: final, Bytes: written})
	return nil
}

// copyWithContext copies src to dst, checking ctx between chunks.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// progressWriter turns written byte counts into throttled progress updates.
type progressWriter struct {
	reporter progress.Reporter
	jobID    string
	total    int64
	done     int64
	lastPct  int
	lastSent int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))

	pct := progress.Percent(p.done, p.total)
	if pct >= 0 {
		if int(pct) <= p.lastPct && p.done != p.total {
			return len(b), nil
		}
		p.lastPct = int(pct)
	} else {
		if p.done-p.lastSent < unknownSizeStep {
			return len(b), nil
		}
		p.lastSent = p.done
	}

	done, total := p.done, p.total
	u := progress.Update{JobID: p.jobID, Stage: progress.StageDownloading, Percent: pct, Bytes: &done}
	if total > 0 {
		u.Total = &total
	}
	p.reporter.Update(u)
	return len(b), nil
}
