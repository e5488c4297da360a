// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/overpack/overpack/internal/watch"
	"github.com/overpack/overpack/pkg/vpk"
)

func newValidateCommand(app *App) *cobra.Command {
	var watchMode bool

	validateCmd := &cobra.Command{
		Use:   "validate <source>",
		Short: "Check that a package loads and can be written back",
		Long: `Load a package, parse every dataset and check component identities,
checksums and data manifests.

With --watch, the source is validated again after every change until
interrupted. A container file is watched through its directory.

Examples:
  overpack validate orders.vpk
  overpack validate ./orders --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return runWatchMode(cmd, app, args[0])
			}
			return app.validatePackage(cmd, args[0])
		},
	}

	validateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-validate whenever the source changes")
	return validateCmd
}

// validatePackage loads and checks target, reporting the outcome.
func (a *App) validatePackage(cmd *cobra.Command, target string) error {
	v, err := vpk.Load(target, a.engineOptions()...)
	if err == nil {
		err = v.Validate()
	}
	var summary vpk.Summary
	if err == nil {
		summary, err = v.Summary()
	}
	if err != nil {
		return a.fail(cmd, err, "validate package", target)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid (%d component(s), %d code file(s))\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(target), len(summary.Components), len(summary.Codes))
	return nil
}

// runWatchMode validates target once, then again after every debounced
// change until the command context is cancelled.
func runWatchMode(cmd *cobra.Command, app *App, target string) error {
	debounce, err := app.cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Target:   target,
		Ignore:   app.cfg.Code.Ignore,
		Debounce: debounce,
		Logger:   app.logger,
		OnChange: func(_ context.Context, changed []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("changed: "+strings.Join(changed, ", ")))
			// Failures are already reported; keep watching.
			_ = app.validatePackage(cmd, target)
			return nil
		},
	})
	if err != nil {
		return app.fail(cmd, err, "watch package", target)
	}

	_ = app.validatePackage(cmd, target)
	fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render(fmt.Sprintf("watching %s for changes (Ctrl+C to stop)", w.Root())))

	return w.Run(cmd.Context())
}
