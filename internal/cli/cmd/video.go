package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/prompt"
	"ytd/internal/quality"
	"ytd/internal/shell"
	"ytd/internal/util"
	"ytd/internal/util/media"
)

type videoFlags struct {
	format     int
	onConflict string
	renameTo   string
	yes        bool
}

func (f videoFlags) validate() error {
	switch f.onConflict {
	case "", "overwrite", "abort":
	case "rename":
		if f.renameTo == "" {
			return fmt.Errorf("--on-conflict rename requires --rename-to")
		}
	default:
		return fmt.Errorf("invalid --on-conflict %q (want overwrite, rename or abort)", f.onConflict)
	}
	if f.format < 0 {
		return fmt.Errorf("invalid --format %d", f.format)
	}
	return nil
}

func newVideoCmd(e *env) *cobra.Command {
	var f videoFlags
	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Download a single video",
		Long: "Download one video into the download root. Without --format the stream is picked " +
			"from the --quality list, or from a menu when running on a terminal.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			// bare video ids fail to classify and are left to the resolver
			if kind, err := util.Classify(args[0]); err == nil && kind == util.KindPlaylist {
				return &ExitError{Code: ExitInvalidReference, Err: fmt.Errorf("%w: %s is a playlist, use 'ytd playlist'", model.ErrInvalidReference, args[0])}
			}
			root, err := e.downloadRoot()
			if err != nil {
				return err
			}
			opts, tier, err := e.pipelineOptions()
			if err != nil {
				return exitError(err)
			}

			out := cmd.OutOrStdout()
			d := &flagDecider{flags: f, out: out, selector: quality.New(tier)}
			if !f.yes && e.interactive() {
				d.prompt = shell.NewPromptDecider(prompt.New(cmd.InOrStdin(), out))
			}

			opts = append(opts, pipeline.WithDownloadRoot(root), pipeline.WithReporter(progress.NewPrinter(out)))
			report, err := pipeline.NewSingleService(opts...).Run(cmd.Context(), args[0], d)
			if err != nil {
				return exitError(err)
			}
			if report.Aborted {
				fmt.Fprintln(out, "Nothing downloaded")
				return nil
			}
			shell.WriteSummary(out, report)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.format, "format", 0, "Pick the N-th listed stream (1-based)")
	fl.StringVar(&f.onConflict, "on-conflict", "", "When the file exists: overwrite, rename or abort")
	fl.StringVar(&f.renameTo, "rename-to", "", "File name used with --on-conflict rename")
	fl.BoolVarP(&f.yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// flagDecider answers from flags, deferring to prompt for anything the
// flags leave open when a terminal is attached.
type flagDecider struct {
	flags    videoFlags
	out      io.Writer
	selector *quality.Selector
	prompt   *shell.PromptDecider // nil when not interactive
}

var _ pipeline.Decider = (*flagDecider)(nil)

func (d *flagDecider) ConfirmVideo(v model.VideoRef) (bool, error) {
	if d.prompt != nil {
		return d.prompt.ConfirmVideo(v)
	}
	fmt.Fprintln(d.out, media.Summary(v))
	return true, nil
}

func (d *flagDecider) ChooseVariant(v model.VideoRef, variants []model.StreamVariant) (int, error) {
	if d.flags.format > 0 {
		return d.flags.format, nil
	}
	if d.prompt != nil {
		return d.prompt.ChooseVariant(v, variants)
	}
	d.selector.OnFallback = func(requested, used string) {
		fmt.Fprintf(d.out, "%s not available, downloading %s\n", requested, used)
	}
	chosen, err := d.selector.Select(variants, 0)
	if err != nil {
		return 0, err
	}
	for i, sv := range variants {
		if sv.Quality == chosen.Quality {
			fmt.Fprintf(d.out, "Downloading: %s at %s resolution\n", v.Title, sv.Quality)
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", model.ErrNoMatchingVariant, chosen.Quality)
}

func (d *flagDecider) ResolveConflict(path string) (pipeline.Resolution, error) {
	switch d.flags.onConflict {
	case "overwrite":
		return pipeline.Resolution{Action: pipeline.Overwrite}, nil
	case "rename":
		if d.flags.renameTo != "" {
			r := pipeline.Resolution{Action: pipeline.Rename, Filename: d.flags.renameTo}
			// a second conflict on the new name falls through to abort
			d.flags.renameTo = ""
			return r, nil
		}
	case "abort":
		return pipeline.Resolution{Action: pipeline.Abort}, nil
	}
	if d.prompt != nil {
		return d.prompt.ResolveConflict(path)
	}
	fmt.Fprintf(d.out, "File already exists at %s (use --on-conflict to replace it)\n", path)
	return pipeline.Resolution{Action: pipeline.Abort}, nil
}
