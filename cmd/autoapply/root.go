package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/entrhq/autoapply/pkg/browser/playwright"
	"github.com/entrhq/autoapply/pkg/config"
	"github.com/entrhq/autoapply/pkg/cookiecache"
	"github.com/entrhq/autoapply/pkg/logging"
)

// errAttemptsFailed is returned when at least one application aborted. The
// summary already explains why, so main only sets the exit code.
var errAttemptsFailed = errors.New("one or more applications did not complete")

// app holds the global flags and what is built from them.
type app struct {
	configPath string
	envFile    string
	engine     string
	headless   bool
	submit     bool
	verbose    bool

	cfg    *config.Config
	logger *logging.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "autoapply",
		Short: "Fill and submit job applications in a real browser",
		Long: `autoapply signs in to LinkedIn, opens each job posting and walks the
Easy Apply form: contact info, resume upload and additional questions.

The final submit button is only pressed with --submit (or AUTOAPPLY_SUBMIT=true).
Without it every run is a dry run that stops at the review page.

Example usage:
  autoapply login                                         # Sign in and cache the session
  autoapply apply https://www.linkedin.com/jobs/view/123/ # Dry run one posting
  autoapply apply --submit URL URL                        # Apply for real
  autoapply cache status                                  # Show the cached session
  autoapply rehearse --pages ./snapshots URL              # Replay saved pages offline`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.bindFlags(root.PersistentFlags())
	root.AddCommand(
		newApplyCmd(a),
		newLoginCmd(a),
		newCacheCmd(a),
		newRehearseCmd(a),
	)
	return root
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", "", "env file with credentials (default .env when present)")
	flags.StringVar(&a.engine, "engine", "", "browser engine: chromium, firefox or webkit")
	flags.BoolVar(&a.headless, "headless", false, "run the browser without a window")
	flags.BoolVar(&a.submit, "submit", false, "press the final submit button")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log every step to stderr")
}

// setup loads the configuration, applies flag overrides and opens the log.
// Credentials are only required when validate is set.
func (a *app) setup(cmd *cobra.Command, validate bool) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Browser.Engine = a.engine
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = a.headless
	}
	if flags.Changed("submit") {
		cfg.SubmitEnabled = a.submit
	}
	if a.verbose {
		cfg.Logging.Verbosity = "debug"
	}

	if validate {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Verbosity)
	if err != nil {
		return err
	}
	// NewLogger falls back to stderr on error, which is good enough here
	logger, _ := logging.NewLogger("autoapply")
	logger.SetLevel(level)
	if a.verbose {
		logger.Mirror(os.Stderr)
	}
	a.logger = logger
	return nil
}

func (a *app) store() (*cookiecache.FileStore, error) {
	return cookiecache.NewFileStore(a.cfg.CachePath, a.logger.Named("cookiecache"))
}

func (a *app) launch() (*playwright.Session, error) {
	a.logger.Infof("Launching %s (headless=%t)", a.cfg.Browser.Engine, a.cfg.Browser.Headless)
	return playwright.Launch(playwright.Options{
		Engine:   a.cfg.Browser.Engine,
		Headless: a.cfg.Browser.Headless,
		Timeout:  a.cfg.Browser.TimeoutMS,
	})
}
