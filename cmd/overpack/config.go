// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overpack/overpack/internal/config"
	"github.com/overpack/overpack/internal/issue"
)

// newConfigCommand creates the `overpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage overpack configuration",
		Long: `Manage overpack configuration.

Configuration is stored in:
  - Linux: ~/.config/overpack/config.cue
  - macOS: ~/Library/Application Support/overpack/config.cue
  - Windows: %APPDATA%\overpack\config.cue

Any key can be overridden with an OVERPACK_* environment variable,
e.g. OVERPACK_DUMP_FORMAT=directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(app.loadOptions())
			if err != nil {
				return err
			}
			if path == "" {
				if path, err = config.DefaultPath(app.loadOptions()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(app.loadOptions())
			if err != nil {
				return app.fail(cmd, err, "create configuration", path)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s already exists\n", WarningStyle.Render("!"), CmdStyle.Render(path))
			}
			return nil
		},
	})

	return cfgCmd
}

// showConfig reloads the configuration strictly: unlike other commands it
// fails instead of falling back to defaults.
func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(app.glamourStyle()); renderErr == nil {
			fmt.Fprint(cmd.ErrOrStderr(), rendered)
		}
		return app.fail(cmd, err, "load configuration", app.flags.configPath)
	}

	source := cfg.Source
	if source == "" {
		source = "(using defaults)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), "// source: "+source)
	fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
	return nil
}
