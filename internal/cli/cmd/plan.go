package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/util/format"
)

func newPlanCmd(e *env) *cobra.Command {
	var resolution string
	cmd := &cobra.Command{
		Use:   "plan <url>",
		Short: "Show what a playlist download would fetch, without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := e.downloadRoot()
			if err != nil {
				return err
			}
			opts, _, err := e.pipelineOptions()
			if err != nil {
				return exitError(err)
			}
			svc := pipeline.NewPlaylistService(append(opts,
				pipeline.WithDownloadRoot(root),
				pipeline.WithReporter(progress.Nop{}),
			)...)
			index, err := tierIndex(svc.Tier(), resolution)
			if err != nil {
				return err
			}
			pl, err := svc.Resolve(cmd.Context(), args[0])
			if err != nil {
				return exitError(err)
			}
			plan, err := svc.Plan(cmd.Context(), pl, index)
			if err != nil {
				return exitError(err)
			}
			printPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	cmd.Flags().StringVar(&resolution, "resolution", "", "Requested quality label (defaults to the first of --quality)")
	return cmd
}

func printPlan(w io.Writer, plan pipeline.Plan) {
	fmt.Fprintf(w, "Playlist: %s (%d videos)\n", plan.Playlist.Title, len(plan.Playlist.Entries))
	fmt.Fprintf(w, "Directory: %s\n", plan.Dir)
	fmt.Fprintf(w, "Quality: %s\n", plan.Tier)
	fmt.Fprintf(w, "To download (%d):\n", len(plan.Units))
	for _, u := range plan.Units {
		size := "unknown size"
		if u.Variant.Size > 0 {
			size = format.HumanizeBytes(u.Variant.Size)
		}
		fmt.Fprintf(w, "  %s  [%s, %s]\n", u.Name(), u.Variant.Quality, size)
	}
	if len(plan.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped (%d):\n", len(plan.Skipped))
		for _, sk := range plan.Skipped {
			fmt.Fprintf(w, "  %d. %s: %s\n", sk.Index, sk.Title, sk.Reason)
		}
	}
}
