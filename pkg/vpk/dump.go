// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"fmt"

	"github.com/overpack/overpack/pkg/vpkfs"
)

// Dump writes the package in canonical layout to destination and returns it.
// The layout is materialized in a private staging area that is removed on
// every exit path, then packaged as a ZIP container (FormatArchive, the
// default) or copied as a directory tree (FormatDirectory).
func (v *Vpk) Dump(destination string, opts ...Option) (_ string, err error) {
	o := applyOptions(opts)
	logger := o.logger.With("destination", destination)

	if !o.format.IsValid() {
		return "", fmt.Errorf("unknown dump format %q", o.format)
	}
	if err = v.Validate(); err != nil {
		return "", err
	}

	stage, err := vpkfs.NewStage(o.fs, o.stagingDir)
	if err != nil {
		return "", err
	}
	logger.Debug("created staging area", "dir", stage.Dir())
	defer func() {
		if closeErr := stage.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		logger.Debug("removed staging area", "dir", stage.Dir())
	}()

	if err = v.stage(stage); err != nil {
		return "", err
	}

	switch o.format {
	case FormatDirectory:
		err = vpkfs.CopyTree(stage, o.fs, destination)
	default:
		err = vpkfs.WriteArchive(stage, o.fs, destination, o.compressionLevel)
	}
	if err != nil {
		return "", err
	}
	logger.Debug("wrote package", "format", o.format, "components", len(v.Components), "codes", len(v.Codes))
	return destination, nil
}

// Validate reports the first problem Dump would fail on, without touching
// the filesystem.
func (v *Vpk) Validate() error {
	if v.Manifest == nil {
		return newError(ErrMissingManifest, ManifestName, "", "package has no root manifest")
	}

	seen := make(map[string]struct{}, len(v.Components))
	for _, c := range v.Components {
		if _, dup := seen[c.Number()]; dup {
			return newError(ErrDuplicateComponent, ComponentsDir, c.Number(), "component numbers must be unique")
		}
		seen[c.Number()] = struct{}{}

		switch c := c.(type) {
		case *DataComponent:
			if c.Data == nil {
				return newError(ErrMissingFile, ComponentsDir+"/"+c.Number(), c.Label, "no %s dataset", extCsv)
			}
			if c.Manifest == nil {
				return newError(ErrMissingManifest, ComponentsDir+"/"+c.Number(), c.Label, "generate a manifest before dumping")
			}
		case *ConfigurationComponent:
			if err := c.Validate(); err != nil {
				return withPath(err, ComponentsDir+"/"+c.Number())
			}
		}
	}
	return nil
}

func (v *Vpk) stage(stage *vpkfs.Stage) error {
	fs := stage.Fs()

	if err := stage.WriteFile(ManifestName, []byte(v.Manifest.Raw())); err != nil {
		return err
	}

	for _, c := range v.Components {
		var err error
		switch c := c.(type) {
		case *DataComponent:
			_, err = c.Dump(fs, ComponentsDir)
		case *ConfigurationComponent:
			_, err = c.Dump(fs, ComponentsDir)
		}
		if err != nil {
			return err
		}
	}

	for _, code := range v.Codes {
		if _, err := code.Dump(fs, ""); err != nil {
			return err
		}
	}
	return nil
}
