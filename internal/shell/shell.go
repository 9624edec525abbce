// Package shell implements the interactive menu: it gathers URLs and
// decisions at the terminal and hands them to the pipeline.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ytd/internal/config"
	"ytd/internal/dirs"
	"ytd/internal/logging"
	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/prompt"
)

const (
	bannerInit  = "<----------==========Init==========---------->"
	bannerStart = "<----------==========Start==========---------->"
	bannerEnd   = "<----------==========End==========---------->"
	bannerLine  = "<-------------=========================------------->"
)

// Config is the subset of config.Store the shell needs.
type Config interface {
	Settings() config.Settings
	ValidateDownloadRoot() error
	SetDownloadRoot(dir string) error
}

// Dispatcher runs exec, typically behind a progress view, and returns its report.
type Dispatcher func(ctx context.Context, title string, exec func(context.Context, progress.Reporter) (model.Report, error)) (model.Report, error)

// Shell is the interactive menu loop.
type Shell struct {
	p        *prompt.Prompter
	out      io.Writer
	cfg      Config
	base     []pipeline.Option
	dispatch Dispatcher
	printer  *progress.Printer
}

// Option configures a Shell.
type Option func(*Shell)

// WithPipelineOptions sets options applied to every service the shell builds
// (resolver, store, jobs, tier). The download root and reporter are added by
// the shell itself.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(s *Shell) {
		s.base = append(s.base, opts...)
	}
}

// WithDispatcher sets how playlist downloads are executed and displayed.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Shell) {
		s.dispatch = d
	}
}

// New returns a Shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, cfg Config, opts ...Option) *Shell {
	s := &Shell{
		p:       prompt.New(in, out),
		out:     out,
		cfg:     cfg,
		printer: progress.NewPrinter(out),
	}
	for _, o := range opts {
		o(s)
	}
	if s.dispatch == nil {
		s.dispatch = func(ctx context.Context, _ string, exec func(context.Context, progress.Reporter) (model.Report, error)) (model.Report, error) {
			return exec(ctx, s.printer)
		}
	}
	return s
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Failures of individual downloads are printed and the menu is shown again;
// only an unwritable configuration ends the session with an error.
func (s *Shell) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if s.cfg.Settings().DownloadRoot == "" {
			s.println(bannerInit)
			if _, err := s.setPath(); err != nil {
				return ignoreEOF(err)
			}
			continue
		}

		s.println(bannerStart)
		s.println("Choose your options:\n1. Download Video\n2. Download Playlist\n" +
			"3. Download Playlist Parallel\n4. Change Download Path\n5. Exit")
		choice, err := s.p.Line("Your Choice: ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.withRoot(func(root string) error { return s.downloadVideo(ctx, root) })
		case "2":
			err = s.withRoot(func(root string) error { return s.downloadPlaylist(ctx, root, false) })
		case "3":
			err = s.withRoot(func(root string) error { return s.downloadPlaylist(ctx, root, true) })
		case "4":
			_, err = s.setPath()
		case "5":
			s.closing()
			return nil
		default:
			s.println("Not a Valid Option")
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var fatal *fatalError
			if errors.As(err, &fatal) {
				return fatal.err
			}
			log.WithError(err).WithField("code", model.Code(err)).Debug("action failed")
			s.printError(err)
		}
	}
}

// withRoot re-validates the download root before an action and asks for a
// new one when it went stale.
func (s *Shell) withRoot(action func(root string) error) error {
	if err := s.cfg.ValidateDownloadRoot(); err != nil {
		s.println("Download Path might have been modified or changed")
		ok, err := s.setPath()
		if err != nil || !ok {
			return err
		}
	}
	return action(s.cfg.Settings().DownloadRoot)
}

// setPath asks for a download root and persists it. Invalid paths are
// reported and leave the configuration unchanged.
func (s *Shell) setPath() (bool, error) {
	suggested := dirs.SuggestedDownloadDir()
	dir, err := s.p.Line(fmt.Sprintf("Set Download Path [%s]: ", suggested))
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(dir) == "" {
		dir = suggested
	}
	if err := s.cfg.SetDownloadRoot(dir); err != nil {
		if errors.Is(err, model.ErrInvalidConfig) {
			s.println("Not a Valid Path!")
			return false, nil
		}
		return false, &fatalError{err: err}
	}
	s.println("Download path updated successfully")
	return true, nil
}

func (s *Shell) downloadVideo(ctx context.Context, root string) error {
	url, err := s.p.Line("Enter the Video URL: ")
	if err != nil {
		return err
	}
	svc := pipeline.NewSingleService(s.services(root, s.printer)...)
	report, err := svc.Run(ctx, strings.TrimSpace(url), &PromptDecider{p: s.p})
	if err != nil {
		return err
	}
	if report.Aborted {
		s.closing()
		return nil
	}
	WriteSummary(s.out, report)
	s.println(bannerEnd + "\n")
	return nil
}

func (s *Shell) downloadPlaylist(ctx context.Context, root string, parallel bool) error {
	url, err := s.p.Line("Enter the Playlist URL: ")
	if err != nil {
		return err
	}
	svc := pipeline.NewPlaylistService(s.services(root, s.printer)...)
	pl, err := svc.Resolve(ctx, strings.TrimSpace(url))
	if err != nil {
		return err
	}

	s.println("<----------==========PLAYLIST FOUND==========---------->")
	s.println(fmt.Sprintf("%s\nNumber of Videos: %d", pl.Title, len(pl.Entries)))
	s.println(bannerLine)
	ok, err := s.p.YesNo("Is this the playlist you are looking for? (y/n)\nYour Choice: ")
	if err != nil {
		return err
	}
	if !ok {
		s.closing()
		return nil
	}

	tier := svc.Tier()
	s.println("Choose a Video Quality:")
	for i, label := range tier {
		s.println(fmt.Sprintf("%d. %s", i+1, label))
	}
	s.println(fmt.Sprintf("%d. Exit", len(tier)+1))
	choice, err := s.p.Int("Your Choice: ")
	if err != nil {
		if errors.Is(err, prompt.ErrNotANumber) {
			return fmt.Errorf("%w: %v", model.ErrInvalidSelection, err)
		}
		return err
	}
	if choice == len(tier)+1 {
		s.closing()
		return nil
	}

	s.println("Fetching Downloads...")
	plan, err := svc.Plan(ctx, pl, choice-1)
	if err != nil {
		return err
	}

	report, err := s.dispatch(ctx, pl.Title, func(ctx context.Context, rep progress.Reporter) (model.Report, error) {
		return pipeline.NewPlaylistService(s.services(root, rep)...).Execute(ctx, plan, parallel)
	})
	WriteSummary(s.out, report)
	if err != nil {
		return err
	}
	s.println(bannerEnd + "\n")
	return nil
}

func (s *Shell) services(root string, rep progress.Reporter) []pipeline.Option {
	opts := append([]pipeline.Option(nil), s.base...)
	return append(opts, pipeline.WithDownloadRoot(root), pipeline.WithReporter(rep))
}

func (s *Shell) printError(err error) {
	switch {
	case errors.Is(err, model.ErrInvalidReference):
		s.println("Not a Valid URL!")
	case errors.Is(err, model.ErrInvalidSelection):
		s.println("Invalid Option!")
	}
	s.println("Error: " + err.Error())
	s.closing()
}

func (s *Shell) closing() {
	s.println("Closing")
	s.println(bannerEnd + "\n")
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

// fatalError marks failures that end the session.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	var fatal *fatalError
	if errors.As(err, &fatal) {
		return fatal.err
	}
	return err
}
