package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"ytd/internal/logging"
	"ytd/internal/model"
	"ytd/internal/progress"
)

// Action is the answer to a filename conflict.
type Action int

const (
	Overwrite Action = iota + 1
	Rename
	Abort
)

func (a Action) String() string {
	switch a {
	case Overwrite:
		return "overwrite"
	case Rename:
		return "rename"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Resolution carries a conflict decision. Filename is used with Rename.
type Resolution struct {
	Action   Action
	Filename string
}

// Decider supplies the choices a single download needs. Variant choices are
// 1-based; len(variants)+1 means exit.
type Decider interface {
	ConfirmVideo(v model.VideoRef) (bool, error)
	ChooseVariant(v model.VideoRef, variants []model.StreamVariant) (int, error)
	ResolveConflict(path string) (Resolution, error)
}

// SingleService downloads one video into the download root.
type SingleService struct {
	deps
}

// NewSingleService constructs a SingleService with the provided options.
func NewSingleService(opts ...Option) *SingleService {
	return &SingleService{deps: newDeps(opts)}
}

// Run resolves url, asks d for confirmation, a variant and, when the target
// exists, a conflict decision, then downloads one unit. Declining at any
// step returns an aborted report and a nil error.
func (s *SingleService) Run(ctx context.Context, url string, d Decider) (model.Report, error) {
	log := logging.FromContext(ctx).WithField("url", url)

	log.Debug("resolving video")
	s.reporter.Update(progress.Update{JobID: url, Stage: progress.StageResolving, Percent: -1})
	ref, variants, err := s.resolver.ResolveVideo(ctx, url)
	if err != nil {
		return model.Report{}, fmt.Errorf("resolve video: %w", err)
	}
	report := model.Report{Title: ref.Title}
	aborted := func() (model.Report, error) {
		report.Aborted = true
		return report, nil
	}

	ok, err := d.ConfirmVideo(ref)
	if err != nil {
		return report, err
	}
	if !ok {
		return aborted()
	}
	if len(variants) == 0 {
		return report, fmt.Errorf("%w: %s has no downloadable streams", model.ErrNoMatchingVariant, ref.Title)
	}

	choice, err := d.ChooseVariant(ref, variants)
	if err != nil {
		return report, err
	}
	switch {
	case choice == len(variants)+1:
		return aborted()
	case choice < 1 || choice > len(variants):
		return report, fmt.Errorf("%w: %d is not between 1 and %d", model.ErrInvalidSelection, choice, len(variants)+1)
	}
	variant := variants[choice-1]

	filename := variant.DefaultFilename
	for s.store.Exists(s.root, filename) {
		path := filepath.Join(s.root, filename)
		res, err := d.ResolveConflict(path)
		if err != nil {
			return report, err
		}
		switch res.Action {
		case Overwrite:
			if err := s.store.Remove(path); err != nil {
				return report, fmt.Errorf("remove %s: %w", path, err)
			}
		case Rename:
			if res.Filename == "" || filepath.Base(res.Filename) != res.Filename {
				return report, fmt.Errorf("%w: %q is not a file name", model.ErrInvalidSelection, res.Filename)
			}
			filename = res.Filename
		case Abort:
			return aborted()
		default:
			return report, fmt.Errorf("%w: conflict action %v", model.ErrInvalidSelection, res.Action)
		}
	}

	unit := model.DownloadUnit{
		Title:     ref.Title,
		Variant:   variant,
		OutputDir: s.root,
		Filename:  filename,
	}
	report.Planned = 1
	report.Path = unit.Path()
	log.WithFields(logging.Fields{"quality": variant.Quality, "path": report.Path}).Debug("downloading")

	start := s.now()
	err = s.materializer().Materialize(ctx, unit)
	report.Elapsed = s.now().Sub(start)
	if err != nil {
		if cancelled(ctx, err) {
			report.Cancelled = 1
			return report, ctx.Err()
		}
		report.Failed = append(report.Failed, model.UnitFailure{Unit: unit, Err: err})
		return report, err
	}
	report.Completed = 1
	return report, nil
}
