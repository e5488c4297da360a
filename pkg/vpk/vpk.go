// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"fmt"

	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	// ManifestName is the root manifest member.
	ManifestName = "vaultpackage.xml"
	// ComponentsDir holds one subdirectory per component.
	ComponentsDir = "components"
)

// Vpk is a loaded vault package.
type Vpk struct {
	Manifest   *Manifest
	Components []Component
	Codes      []JavaSdkCode

	// Location is where the package was loaded from; empty for packages
	// built in memory.
	Location string
}

// Load opens location (a ZIP container or a directory) and loads the package.
func Load(location string, opts ...Option) (_ *Vpk, err error) {
	o := applyOptions(opts)

	src, err := vpkfs.Open(location, vpkfs.WithFs(o.fs))
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", location, closeErr)
		}
	}()

	return LoadFS(src, opts...)
}

// LoadFS loads a package from an open source. Every member is read before
// LoadFS returns, so src may be closed afterwards.
func LoadFS(src *vpkfs.Source, opts ...Option) (*Vpk, error) {
	o := applyOptions(opts)
	logger := o.logger.With("source", src.Location())
	logger.Debug("opened package", "kind", src.Kind())

	root := src.Root()
	manifestText, err := root.Join(ManifestName).ReadText()
	if err != nil {
		return nil, err
	}

	components, err := loadComponents(root.Join(ComponentsDir), o)
	if err != nil {
		return nil, err
	}

	codes, err := CollectCodes(root, CodeOptions{LitterDirs: o.litterDirs, Ignore: o.ignore, logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded package", "components", len(components), "codes", len(codes))

	return &Vpk{
		Manifest:   NewManifest(manifestText),
		Components: components,
		Codes:      codes,
		Location:   src.Location(),
	}, nil
}

func loadComponents(dir vpkfs.Path, o options) ([]Component, error) {
	if !dir.IsDir() {
		o.logger.Debug("package has no components directory")
		return nil, nil
	}

	children, err := dir.Children()
	if err != nil {
		return nil, err
	}

	components := make([]Component, 0, len(children))
	for _, child := range children {
		if !child.IsDir() {
			o.logger.Debug("skipping stray entry", "path", child.Rel())
			continue
		}

		kind, err := Classify(child)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("classified component", "number", child.Name(), "kind", kind)

		var c Component
		switch kind {
		case KindData:
			c, err = LoadDataComponent(child)
		case KindConfiguration:
			c, err = LoadConfigurationComponent(child, o.parser)
		default:
			err = newError(ErrUnrecognizedComponent, child.String(), child.Name(),
				"neither a data nor a configuration component")
		}
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, nil
}
