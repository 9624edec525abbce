package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ytd/internal/config"
	"ytd/internal/logging"
	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/progress"
	"ytd/internal/quality"
	"ytd/internal/resolver"
	"ytd/internal/shell"
	"ytd/internal/storage"
	"ytd/internal/ui"
)

const (
	ExitOK               = 0
	ExitCLIError         = 1
	ExitConfigError      = 2
	ExitDownloadError    = 3
	ExitInvalidReference = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitError maps err to an ExitError by its error class.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return err
	}
	code := ExitCLIError
	switch model.Code(err) {
	case model.CodeInvalidReference:
		code = ExitInvalidReference
	case model.CodeInvalidConfig:
		code = ExitConfigError
	case model.CodeDownloadFailed, model.CodeNotFound, model.CodeNoMatchingVariant:
		code = ExitDownloadError
	}
	return &ExitError{Code: code, Err: err}
}

// env carries the collaborators commands are built from. Tests replace them.
type env struct {
	cfg         *config.Store
	resolver    resolver.Resolver
	store       *storage.Store
	interactive func() bool

	logger *logrus.Logger
}

func defaultEnv() *env {
	return &env{
		cfg:      config.New(),
		resolver: resolver.NewYouTube(nil),
		store:    storage.NewOS(),
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && ui.Interactive(os.Stdout.Fd())
		},
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "ytd",
		Short: "Download YouTube videos and playlists",
		Long: "ytd downloads a single YouTube video or a whole playlist at a chosen quality. " +
			"Files already present are skipped, and playlists can be fetched in parallel. " +
			"Run without arguments for the interactive menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, _, err := e.pipelineOptions()
			if err != nil {
				return exitError(err)
			}
			sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), e.cfg,
				shell.WithPipelineOptions(opts...),
				shell.WithDispatcher(e.dispatcher(cmd.OutOrStdout())),
			)
			if err := sh.Run(cmd.Context()); err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}
			return nil
		},
	}

	// Persistent flags available to all subcommands
	pf := root.PersistentFlags()
	pf.StringP("out-dir", "o", "", "Download root (overrides the configured path)")
	pf.Int("jobs", pipeline.DefaultJobs, "Parallel downloads for playlists (1-16)")
	pf.String("quality", "", "Quality preference list, best first (e.g. \"720p,360p\")")
	pf.BoolP("verbose", "v", false, "Debug logging")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("no-ui", false, "Disable the progress view; use plain textual output")
	_ = e.cfg.BindFlags(pf)

	root.AddCommand(newVideoCmd(e))
	root.AddCommand(newPlaylistCmd(e))
	root.AddCommand(newPlanCmd(e))
	root.AddCommand(newConfigCmd(e))
	root.AddCommand(newCompletionCmd())

	return root
}

// load reads configuration and attaches a logger and run id to the command context.
func (e *env) load(cmd *cobra.Command) error {
	if err := e.cfg.Load(); err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}
	s := e.cfg.Settings()
	level := s.LogLevel
	if s.Verbose {
		level = "debug"
	}
	e.logger = logging.New(logging.Options{Level: level, Format: s.LogFormat, Out: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := logging.NewRunID()
	ctx = logging.WithRunID(logging.WithLogger(ctx, e.logger), runID)
	cmd.SetContext(ctx)
	logging.FromContext(ctx).WithField("command", cmd.CommandPath()).Debug("starting")
	return nil
}

// tier parses the configured quality preference list.
func (e *env) tier() (model.QualityTier, error) {
	return quality.ParseTier(e.cfg.Settings().Quality)
}

// pipelineOptions builds the service options shared by all commands, along
// with the quality tier they carry.
func (e *env) pipelineOptions() ([]pipeline.Option, model.QualityTier, error) {
	tier, err := e.tier()
	if err != nil {
		return nil, nil, err
	}
	return []pipeline.Option{
		pipeline.WithResolver(e.resolver),
		pipeline.WithStore(e.store),
		pipeline.WithJobs(e.cfg.Settings().Jobs),
		pipeline.WithTier(tier),
	}, tier, nil
}

// downloadRoot returns the validated download root.
func (e *env) downloadRoot() (string, error) {
	if err := e.cfg.ValidateDownloadRoot(); err != nil {
		return "", &ExitError{Code: ExitConfigError, Err: withHint(err)}
	}
	return e.cfg.Settings().DownloadRoot, nil
}

type hintError struct{ err error }

func (h hintError) Error() string {
	return h.err.Error() + " (set one with 'ytd config set-path <dir>' or pass --out-dir)"
}
func (h hintError) Unwrap() error { return h.err }

func withHint(err error) error { return hintError{err: err} }

// dispatcher picks the progress view for playlist execution.
func (e *env) dispatcher(out io.Writer) shell.Dispatcher {
	if !e.cfg.Settings().NoUI && e.interactive() {
		return ui.Run
	}
	printer := progress.NewPrinter(out)
	return func(ctx context.Context, _ string, exec func(context.Context, progress.Reporter) (model.Report, error)) (model.Report, error) {
		return exec(ctx, printer)
	}
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd(defaultEnv())
	return root.ExecuteContext(ctx)
}
