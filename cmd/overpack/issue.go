// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/overpack/overpack/internal/issue"
)

func newIssueCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issue [kind]",
		Short: "Explain an error kind",
		Long: `Render the help page for an error kind.

Without arguments, lists every known kind.

Examples:
  overpack issue
  overpack issue identity-mismatch`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var slugs []string
			for _, i := range issue.Values() {
				slugs = append(slugs, i.Slug())
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, i := range issue.Values() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", CmdStyle.Render(fmt.Sprintf("%-24s", i.Slug())), issueTitle(i))
				}
				return nil
			}

			i := issue.Lookup(args[0])
			if i == nil {
				return fmt.Errorf("unknown issue %q (run 'overpack issue' to list them)", args[0])
			}
			rendered, err := i.Render(app.glamourStyle())
			if err != nil {
				return fmt.Errorf("render issue %q: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

// issueTitle returns the first Markdown heading of an issue page.
func issueTitle(i *issue.Issue) string {
	for line := range strings.Lines(string(i.MarkdownMsg())) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}
