package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/prompt"
	"ytd/internal/shell"
)

func newPlaylistCmd(e *env) *cobra.Command {
	var (
		parallel   bool
		resolution string
		yes        bool
	)
	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "Download every video of a playlist",
		Long: "Download a playlist into a folder named after it under the download root. " +
			"Files are numbered by playlist position and existing ones are skipped, so an " +
			"interrupted run can simply be repeated.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := e.downloadRoot()
			if err != nil {
				return err
			}
			opts, _, err := e.pipelineOptions()
			if err != nil {
				return exitError(err)
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			opts = append(opts, pipeline.WithDownloadRoot(root))

			svc := pipeline.NewPlaylistService(append(opts, pipeline.WithReporter(progress.NewPrinter(out)))...)
			index, err := tierIndex(svc.Tier(), resolution)
			if err != nil {
				return exitError(err)
			}
			pl, err := svc.Resolve(ctx, args[0])
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintf(out, "%s\nNumber of Videos: %d\n", pl.Title, len(pl.Entries))
			if !yes && e.interactive() {
				ok, err := prompt.New(cmd.InOrStdin(), out).YesNo("Download this playlist? (y/n): ")
				if err != nil {
					return exitError(err)
				}
				if !ok {
					fmt.Fprintln(out, "Nothing downloaded")
					return nil
				}
			}

			plan, err := svc.Plan(ctx, pl, index)
			if err != nil {
				return exitError(err)
			}
			if parallel {
				fmt.Fprintf(out, "Parallel downloads: %d\n", svc.Jobs())
			}
			report, err := e.dispatcher(out)(ctx, pl.Title, func(ctx context.Context, rep progress.Reporter) (model.Report, error) {
				return pipeline.NewPlaylistService(append(opts, pipeline.WithReporter(rep))...).Execute(ctx, plan, parallel)
			})
			shell.WriteSummary(out, report)
			return exitError(err)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&parallel, "parallel", false, "Download up to --jobs videos at once")
	fl.StringVar(&resolution, "resolution", "", "Requested quality label (defaults to the first of --quality)")
	fl.BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// tierIndex finds label in tier; empty means the first entry.
func tierIndex(tier model.QualityTier, label string) (int, error) {
	if label == "" {
		return 0, nil
	}
	i := tier.IndexOf(label)
	if i < 0 {
		return 0, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%w: resolution %q is not in %v", model.ErrInvalidSelection, label, []string(tier))}
	}
	return i, nil
}
