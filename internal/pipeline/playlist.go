package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"ytd/internal/logging"
	"ytd/internal/model"
	"ytd/internal/progress"
	"ytd/internal/quality"
	"ytd/internal/util"
	"ytd/internal/util/media"
)

// PlaylistService downloads every entry of a playlist into its own directory.
type PlaylistService struct {
	deps
}

// NewPlaylistService constructs a PlaylistService with the provided options.
func NewPlaylistService(opts ...Option) *PlaylistService {
	return &PlaylistService{deps: newDeps(opts)}
}

// Tier returns the quality preference list in use.
func (s *PlaylistService) Tier() model.QualityTier { return s.tier }

// Jobs returns the parallel pool size.
func (s *PlaylistService) Jobs() int { return s.jobs }

// Plan is the outcome of enumerating and filtering a playlist.
type Plan struct {
	Playlist model.PlaylistRef
	Dir      string
	Tier     string // requested quality label
	Units    []model.DownloadUnit
	Skipped  []model.SkippedItem
}

// Resolve fetches the playlist. URLs without a playlist id fail with
// model.ErrInvalidReference before the resolver is consulted.
func (s *PlaylistService) Resolve(ctx context.Context, url string) (model.PlaylistRef, error) {
	log := logging.FromContext(ctx).WithField("url", url)
	if _, err := util.PlaylistID(url); err != nil {
		return model.PlaylistRef{}, err
	}

	log.Debug("resolving playlist")
	pl, err := s.resolver.ResolvePlaylist(ctx, url)
	if err != nil {
		return model.PlaylistRef{}, fmt.Errorf("resolve playlist: %w", err)
	}
	log.WithFields(logging.Fields{"title": pl.Title, "entries": len(pl.Entries)}).Debug("playlist resolved")
	return pl, nil
}

// Plan resolves each entry in order, selects its quality and drops entries
// whose prefixed file already exists. Entries that cannot be resolved or have
// no matching quality are recorded as skipped; they never abort the plan.
func (s *PlaylistService) Plan(ctx context.Context, pl model.PlaylistRef, tierIndex int) (Plan, error) {
	requested := s.tier.Label(tierIndex)
	if requested == "" {
		return Plan{}, fmt.Errorf("%w: quality %d is not one of %v", model.ErrInvalidSelection, tierIndex+1, []string(s.tier))
	}

	plan := Plan{
		Playlist: pl,
		Dir:      filepath.Join(s.root, pl.DirName()),
		Tier:     requested,
	}
	log := logging.FromContext(ctx).WithFields(logging.Fields{"playlist": pl.Title, "dir": plan.Dir})

	total := len(pl.Entries)
	for i, entry := range pl.Entries {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		prefix := media.ItemPrefix(i)
		label := prefix + entry.Title
		s.reporter.Update(progress.Update{JobID: label, Stage: progress.StageResolving, Percent: -1})

		target := entry.URL
		if target == "" {
			target = entry.ID
		}
		ref, variants, err := s.resolver.ResolveVideo(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return plan, ctx.Err()
			}
			s.skip(&plan, model.SkippedItem{Index: i, Title: entry.Title, Reason: "could not resolve", Err: err}, label)
			log.WithError(err).WithField("index", i).Warn("entry unavailable")
			continue
		}
		if ref.Title == "" {
			ref.Title = entry.Title
		}
		s.reporter.Log(progress.Log{JobID: label, Line: fmt.Sprintf("%d/%d %s", i+1, total, media.Summary(ref))})

		sel := &quality.Selector{
			Tier: s.tier,
			OnFallback: func(req, chosen string) {
				s.reporter.Log(progress.Log{
					JobID:  label,
					Stream: progress.StreamWarn,
					Line:   fmt.Sprintf("%s: %s not available, downloading %s", ref.Title, req, chosen),
				})
				log.WithFields(logging.Fields{"index": i, "requested": req, "chosen": chosen}).Warn("quality fallback")
			},
		}
		variant, err := sel.Select(variants, tierIndex)
		if err != nil {
			s.skip(&plan, model.SkippedItem{Index: i, Title: ref.Title, Reason: err.Error(), Err: err}, label)
			log.WithError(err).WithField("index", i).Warn("no matching quality")
			continue
		}

		unit := model.DownloadUnit{
			Index:     i,
			Title:     ref.Title,
			Variant:   variant,
			OutputDir: plan.Dir,
			Filename:  variant.DefaultFilename,
			Prefix:    prefix,
		}
		if s.store.Exists(plan.Dir, unit.Name()) {
			s.skip(&plan, model.SkippedItem{Index: i, Title: ref.Title, Reason: "already exists"}, unit.Name())
			log.WithField("file", unit.Name()).Debug("already downloaded")
			continue
		}

		plan.Units = append(plan.Units, unit)
		s.reporter.Update(progress.Update{JobID: unit.Name(), Stage: progress.StageQueued, Percent: 0})
	}
	return plan, nil
}

func (s *PlaylistService) skip(plan *Plan, item model.SkippedItem, jobID string) {
	plan.Skipped = append(plan.Skipped, item)
	msg := fmt.Sprintf("%s already exists, skipping", jobID)
	if item.Err != nil {
		msg = fmt.Sprintf("Skipping %s: %s", jobID, item.Reason)
	}
	s.reporter.Update(progress.Update{JobID: jobID, Stage: progress.StageSkipped, Percent: -1, Message: msg})
}

// Execute creates the playlist directory once and materializes the plan's
// units, one after another or on a pool of Jobs workers.
//
// Sequential runs stop at the first failure. Parallel runs isolate failures:
// every failed unit is reported and the returned error aggregates them.
// Units not finished because ctx was cancelled are counted as cancelled.
func (s *PlaylistService) Execute(ctx context.Context, plan Plan, parallel bool) (model.Report, error) {
	report := model.Report{
		Title:   plan.Playlist.Title,
		Path:    plan.Dir,
		Planned: len(plan.Units),
		Skipped: plan.Skipped,
	}
	log := logging.FromContext(ctx).WithFields(logging.Fields{
		"playlist": plan.Playlist.Title,
		"units":    len(plan.Units),
		"parallel": parallel,
	})

	if err := s.store.EnsureDir(plan.Dir); err != nil {
		return report, fmt.Errorf("create %s: %w", plan.Dir, err)
	}

	log.Debug("dispatching")
	start := s.now()
	var err error
	if parallel {
		err = s.executeParallel(ctx, plan.Units, &report)
	} else {
		err = s.executeSequential(ctx, plan.Units, &report)
	}
	report.Elapsed = s.now().Sub(start)

	log.WithFields(logging.Fields{
		"completed": report.Completed,
		"failed":    len(report.Failed),
		"cancelled": report.Cancelled,
		"elapsed":   report.Elapsed,
	}).Debug("dispatch finished")
	return report, err
}

// Run resolves, plans and executes a playlist in one call.
func (s *PlaylistService) Run(ctx context.Context, url string, tierIndex int, parallel bool) (model.Report, error) {
	pl, err := s.Resolve(ctx, url)
	if err != nil {
		return model.Report{}, err
	}
	plan, err := s.Plan(ctx, pl, tierIndex)
	if err != nil {
		return model.Report{Title: pl.Title, Skipped: plan.Skipped}, err
	}
	return s.Execute(ctx, plan, parallel)
}

func (s *PlaylistService) executeSequential(ctx context.Context, units []model.DownloadUnit, report *model.Report) error {
	m := s.materializer()
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			report.Cancelled += len(units) - i
			return err
		}
		if err := m.Materialize(ctx, u); err != nil {
			if cancelled(ctx, err) {
				report.Cancelled += len(units) - i
				return ctx.Err()
			}
			report.Failed = append(report.Failed, model.UnitFailure{Unit: u, Err: err})
			// remaining units are abandoned
			report.Cancelled += len(units) - i - 1
			return err
		}
		report.Completed++
	}
	return nil
}

func (s *PlaylistService) executeParallel(ctx context.Context, units []model.DownloadUnit, report *model.Report) error {
	m := s.materializer()
	results := make([]error, len(units))
	started := make([]bool, len(units))

	p := pool.New().WithMaxGoroutines(s.jobs)
	for i, u := range units {
		if ctx.Err() != nil {
			break
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			started[i] = true
			results[i] = m.Materialize(ctx, u)
		})
	}
	p.Wait()

	var errs error
	for i, u := range units {
		err := results[i]
		switch {
		case !started[i] || cancelled(ctx, err):
			report.Cancelled++
		case err != nil:
			report.Failed = append(report.Failed, model.UnitFailure{Unit: u, Err: err})
			errs = multierr.Append(errs, err)
		default:
			report.Completed++
		}
	}
	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func cancelled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}
