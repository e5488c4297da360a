// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/overpack/overpack/internal/config"
	"github.com/overpack/overpack/internal/issue"
	"github.com/overpack/overpack/pkg/vpk"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared state. Every Cobra handler receives an
	// App reference and reads configuration and the engine logger from it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		flags  rootFlagValues
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags of the root command.
	rootFlagValues struct {
		verbose    bool
		configPath string
	}
)

// NewApp builds an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.cfg = config.DefaultConfig()
	app.logger = newLogger(app.stderr, false)
	return app
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// loadOptions returns the config lookup inputs for this invocation.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}

// configure loads configuration and builds the logger. A broken config file
// is reported and defaults are used, so every command stays usable.
func (a *App) configure(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, a.verbose())
	if cfg.Source != "" {
		a.logger.Debug("loaded configuration", "file", cfg.Source)
	}
}

func (a *App) verbose() bool {
	return a.flags.verbose || a.cfg.UI.Verbose
}

// engineOptions returns the package engine options derived from configuration,
// followed by extra.
func (a *App) engineOptions(extra ...vpk.Option) []vpk.Option {
	opts := append(a.cfg.VpkOptions(), vpk.WithLogger(a.logger))
	return append(opts, extra...)
}

// fail reports err on stderr with its suggestions and returns an ExitError
// so fang does not print it again.
func (a *App) fail(cmd *cobra.Command, err error, operation, resource string) error {
	explained := issue.Explain(err, operation, resource)
	fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("✗ ")+formatErrorForDisplay(explained, a.verbose()))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (a *App) glamourStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	}
	if !isTerminal(a.stdout) {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
