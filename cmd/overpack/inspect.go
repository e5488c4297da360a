// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/overpack/overpack/pkg/vpk"
)

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputYAML outputFormat = "yaml"
	outputTOML outputFormat = "toml"
)

// outputFormat selects how inspect renders a package summary.
type outputFormat string

var outputFormats = []outputFormat{outputText, outputJSON, outputYAML, outputTOML}

// IsValid returns whether the format is known.
func (f outputFormat) IsValid() bool {
	return slices.Contains(outputFormats, f)
}

func newInspectCommand(app *App) *cobra.Command {
	var output string

	inspectCmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Report the components and code files of a package",
		Long: `Load a package and report its components and Java SDK code files.

The source may be a .vpk container or an extracted package directory.

Examples:
  overpack inspect orders.vpk
  overpack inspect ./orders -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(strings.ToLower(output))
			if !format.IsValid() {
				return fmt.Errorf("unknown output format %q (valid: text, json, yaml, toml)", output)
			}

			v, err := vpk.Load(args[0], app.engineOptions()...)
			if err != nil {
				return app.fail(cmd, err, "load package", args[0])
			}
			summary, err := v.Summary()
			if err != nil {
				return app.fail(cmd, err, "summarize package", args[0])
			}
			return writeSummary(cmd.OutOrStdout(), summary, format)
		},
	}

	inspectCmd.Flags().StringVarP(&output, "output", "o", string(outputText), "output format (text, json, yaml, toml)")
	return inspectCmd
}

func writeSummary(w io.Writer, s vpk.Summary, format outputFormat) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case outputTOML:
		return toml.NewEncoder(w).Encode(s)
	default:
		renderSummary(w, s)
		return nil
	}
}

// renderSummary prints the human-readable report. Columns are padded before
// styling so ANSI sequences do not skew alignment.
func renderSummary(w io.Writer, s vpk.Summary) {
	fmt.Fprintln(w, TitleStyle.Render("Package")+" "+CmdStyle.Render(s.Location))
	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d data, %d configuration component(s)", s.DataComponents, s.ConfigurationComponents)))
	fmt.Fprintln(w)

	identityWidth := len("IDENTITY")
	for _, c := range s.Components {
		identityWidth = max(identityWidth, len(c.Identity))
	}

	fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("  %-8s %-14s %-*s %s", "NUMBER", "KIND", identityWidth, "IDENTITY", "DETAILS")))
	for _, c := range s.Components {
		kind := fmt.Sprintf("%-14s", c.Kind)
		if style, ok := kindStyles[string(c.Kind)]; ok {
			kind = style.Render(kind)
		}
		fmt.Fprintf(w, "  %-8s %s %s %s\n",
			c.Number,
			kind,
			CmdStyle.Render(fmt.Sprintf("%-*s", identityWidth, c.Identity)),
			componentDetails(c),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Code files (%d)", len(s.Codes))))
	for _, code := range s.Codes {
		fmt.Fprintln(w, "  "+code)
	}
}

func componentDetails(c vpk.ComponentSummary) string {
	var parts []string
	switch c.Kind {
	case vpk.KindData:
		parts = append(parts, fmt.Sprintf("%d record(s)", c.Records))
		if c.HasManifest {
			parts = append(parts, "manifest")
		} else {
			parts = append(parts, WarningStyle.Render("no manifest"))
		}
	case vpk.KindConfiguration:
		parts = append(parts, c.Definition)
		if c.Checksum != "" {
			parts = append(parts, "md5 "+c.Checksum)
		} else {
			parts = append(parts, WarningStyle.Render("no checksum"))
		}
		if c.HasDep {
			parts = append(parts, "dep")
		}
	}
	return strings.Join(parts, ", ")
}
