// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overpack/overpack/pkg/vpk"
	"github.com/overpack/overpack/pkg/vpkfs"
)

// repackFlagValues holds the flags of `overpack repack`.
type repackFlagValues struct {
	dir      bool
	regenMd5 bool
	level    int
	manifest vpk.ManifestParams
	idParam  string
}

func newRepackCommand(app *App) *cobra.Command {
	var flags repackFlagValues

	repackCmd := &cobra.Command{
		Use:   "repack <source> <destination>",
		Short: "Rewrite a package in canonical layout",
		Long: `Load a package and write it to a new container or directory.

Checksums of configuration components can be regenerated from their
definitions with --regen-md5. Passing --object generates a fresh manifest for
every data component from the given parameters.

Examples:
  overpack repack in.vpk out.vpk
  overpack repack --dir in.vpk ./out
  overpack repack --object product__v --action Upsert --id-param id in.vpk out.vpk`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("id-param") {
				flags.manifest.IDParam = &flags.idParam
			}
			return runRepack(cmd, app, &flags, args[0], args[1])
		},
	}

	f := repackCmd.Flags()
	f.BoolVar(&flags.dir, "dir", false, "write an extracted directory instead of a container")
	f.BoolVar(&flags.regenMd5, "regen-md5", false, "regenerate configuration component checksums")
	f.IntVar(&flags.level, "level", vpkfs.DefaultCompressionLevel, "deflate compression level (-2..9), overrides dump.compression_level")
	f.StringVar(&flags.manifest.ObjectName, "object", "", "generate data manifests for this object")
	f.StringVar(&flags.manifest.DataType, "data-type", "", "data type recorded in generated manifests")
	f.StringVar(&flags.manifest.Action, "action", "", "manifest action: "+vpk.ActionCreate+" or "+vpk.ActionUpsert)
	f.StringVar(&flags.idParam, "id-param", "", "id column for "+vpk.ActionUpsert)
	f.BoolVar(&flags.manifest.StepRequired, "step-required", false, "mark generated steps as required")
	f.BoolVar(&flags.manifest.RecordMigrationMode, "record-migration-mode", false, "enable record migration mode in generated manifests")
	return repackCmd
}

func runRepack(cmd *cobra.Command, app *App, flags *repackFlagValues, source, destination string) error {
	v, err := vpk.Load(source, app.engineOptions()...)
	if err != nil {
		return app.fail(cmd, err, "load package", source)
	}

	if flags.regenMd5 {
		for _, c := range v.Components {
			cc, ok := c.(*vpk.ConfigurationComponent)
			if !ok {
				continue
			}
			md5, genErr := cc.GenerateMd5()
			if genErr != nil {
				return app.fail(cmd, genErr, "regenerate checksum", cc.Identity())
			}
			app.logger.Debug("regenerated checksum", "component", cc.Number(), "hash", md5.Hash)
			cc.Md5 = md5
		}
	}

	if flags.manifest.ObjectName != "" {
		for _, c := range v.Components {
			dc, ok := c.(*vpk.DataComponent)
			if !ok {
				continue
			}
			manifest, genErr := dc.GenerateManifest(flags.manifest)
			if genErr != nil {
				return app.fail(cmd, genErr, "generate manifest", dc.Label)
			}
			app.logger.Debug("generated manifest", "component", dc.Number(), "label", dc.Label)
			dc.Manifest = manifest
		}
	}

	var opts []vpk.Option
	if flags.dir {
		opts = append(opts, vpk.WithFormat(vpk.FormatDirectory))
	}
	if cmd.Flags().Changed("level") {
		if !vpkfs.ValidCompressionLevel(flags.level) {
			return fmt.Errorf("invalid --level %d (valid: -2..9)", flags.level)
		}
		opts = append(opts, vpk.WithCompressionLevel(flags.level))
	}

	written, err := v.Dump(destination, app.engineOptions(opts...)...)
	if err != nil {
		return app.fail(cmd, err, "write package", destination)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (%d component(s), %d code file(s))\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(written), len(v.Components), len(v.Codes))
	return nil
}
