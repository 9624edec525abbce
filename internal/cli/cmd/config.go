package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the stored configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := e.cfg.Settings()
			out := cmd.OutOrStdout()
			root := s.DownloadRoot
			if root == "" {
				root = "(not set)"
			} else if err := e.cfg.ValidateDownloadRoot(); err != nil {
				root += " (missing)"
			}
			fmt.Fprintf(out, "config file:   %s\n", e.cfg.Path())
			fmt.Fprintf(out, "download root: %s\n", root)
			fmt.Fprintf(out, "jobs:          %d\n", s.Jobs)
			fmt.Fprintf(out, "quality:       %s\n", s.Quality)
			fmt.Fprintf(out, "log level:     %s\n", s.LogLevel)
			fmt.Fprintf(out, "log format:    %s\n", s.LogFormat)
			return nil
		},
	}

	setPath := &cobra.Command{
		Use:   "set-path <dir>",
		Short: "Set the download root (must be an existing directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.cfg.SetDownloadRoot(args[0]); err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Download path updated successfully: %s\n", e.cfg.Settings().DownloadRoot)
			return nil
		},
	}

	cmd.AddCommand(show, setPath)
	return cmd
}
