// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/overpack/overpack/pkg/vpkfs"
)

// WorkflowTypeName is the component type of every workflow-backed component.
const WorkflowTypeName = "Workflow"

type (
	// ConfigurationComponent is a typed, named configuration object backed by
	// exactly one of a definition document (Mdl) or a workflow document.
	ConfigurationComponent struct {
		number string

		ComponentTypeName string
		ComponentName     string
		Md5               *Md5
		Mdl               *Mdl
		Workflow          *Workflow
		Dep               *Data
	}

	// ConfigurationFields are the parts of a configuration component supplied
	// to NewConfigurationComponent.
	ConfigurationFields struct {
		ComponentTypeName string
		ComponentName     string
		Md5               *Md5
		Mdl               *Mdl
		Workflow          *Workflow
		Dep               *Data
	}

	// ConfigurationPaths are the files written by ConfigurationComponent.Dump.
	// A path is empty when the component has no such file.
	ConfigurationPaths struct {
		Md5      string
		Mdl      string
		Workflow string
		Dep      string
	}
)

// NewConfigurationComponent builds a configuration component and checks its
// identity invariants.
func NewConfigurationComponent(number string, f ConfigurationFields) (*ConfigurationComponent, error) {
	c := &ConfigurationComponent{
		number:            number,
		ComponentTypeName: f.ComponentTypeName,
		ComponentName:     f.ComponentName,
		Md5:               f.Md5,
		Mdl:               f.Mdl,
		Workflow:          f.Workflow,
		Dep:               f.Dep,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfigurationComponent reads the checksum, the definition or workflow
// document and the optional dependency dataset under p.
func LoadConfigurationComponent(p vpkfs.Path, parser MdlParser) (*ConfigurationComponent, error) {
	children, err := p.Children()
	if err != nil {
		return nil, err
	}

	md5Path, ok := firstChildWithExt(children, extMd5)
	if !ok {
		return nil, newError(ErrMissingFile, p.String(), p.Name(), "expected a %s checksum", extMd5)
	}
	mdlPath, hasMdl := firstChildWithExt(children, extMdl)
	jsonPath, hasJSON := firstChildWithExt(children, extJSON)
	if hasMdl == hasJSON {
		return nil, newError(ErrAmbiguousDefinition, p.String(), p.Name(),
			"expected exactly one %s or %s document", extMdl, extJSON)
	}

	defPath := mdlPath
	if hasJSON {
		defPath = jsonPath
	}
	typeName, name, ok := strings.Cut(defPath.Stem(), ".")
	if !ok || typeName == "" || name == "" {
		return nil, newError(ErrIdentityMismatch, p.String(), defPath.Stem(),
			"file name must be <type>.<name>")
	}
	identity := typeName + "." + name
	if md5Path.Stem() != identity {
		return nil, newError(ErrIdentityMismatch, p.String(), md5Path.Stem(),
			"checksum file name does not match %q", identity)
	}

	f := ConfigurationFields{ComponentTypeName: typeName, ComponentName: name}

	md5Text, err := md5Path.ReadText()
	if err != nil {
		return nil, err
	}
	if f.Md5, err = ParseMd5(md5Text); err != nil {
		return nil, withPath(err, md5Path.String())
	}

	defText, err := defPath.ReadText()
	if err != nil {
		return nil, err
	}
	if hasMdl {
		if f.Mdl, err = ParseMdl(defText, parser); err != nil {
			return nil, withPath(err, defPath.String())
		}
	} else {
		if f.Workflow, err = ParseWorkflow(defText, defPath.Name()); err != nil {
			return nil, withPath(err, defPath.String())
		}
	}

	if depPath, ok := firstChildWithExt(children, extDep); ok {
		depText, err := depPath.ReadText()
		if err != nil {
			return nil, err
		}
		f.Dep = NewData(depText)
	}

	c, err := NewConfigurationComponent(p.Name(), f)
	if err != nil {
		return nil, withPath(err, p.String())
	}
	return c, nil
}

// Number implements Component.
func (c *ConfigurationComponent) Number() string { return c.number }

// Kind implements Component.
func (c *ConfigurationComponent) Kind() Kind { return KindConfiguration }

func (c *ConfigurationComponent) isComponent() {}

// Identity returns "<type>.<name>".
func (c *ConfigurationComponent) Identity() string {
	return c.ComponentTypeName + "." + c.ComponentName
}

// Validate checks the identity invariants: exactly one of Mdl and Workflow is
// set, the document agrees with (ComponentTypeName, ComponentName), and a
// present checksum names the same identity.
func (c *ConfigurationComponent) Validate() error {
	if err := c.validateDefinition(); err != nil {
		return err
	}
	if c.Md5 != nil && c.Md5.ComponentInfo != c.Identity() {
		return newError(ErrIdentityMismatch, "", c.Identity(), "checksum names %q", c.Md5.ComponentInfo)
	}
	return nil
}

// validateDefinition is Validate without the checksum check, so a stale
// checksum can still be regenerated.
func (c *ConfigurationComponent) validateDefinition() error {
	identity := c.Identity()

	if (c.Mdl == nil) == (c.Workflow == nil) {
		return newError(ErrAmbiguousDefinition, "", identity, "exactly one of definition and workflow must be set")
	}

	if c.Mdl != nil {
		if got := c.Mdl.Identity(); got.ComponentTypeName != c.ComponentTypeName || got.ComponentName != c.ComponentName {
			return newError(ErrIdentityMismatch, "", identity, "definition declares %q", got.String())
		}
	}

	if c.Workflow != nil {
		if c.ComponentTypeName != WorkflowTypeName {
			return newError(ErrIdentityMismatch, "", identity, "workflow components must have type %q", WorkflowTypeName)
		}
		if c.ComponentName != c.Workflow.Name() {
			return newError(ErrIdentityMismatch, "", identity, "workflow document declares %q", c.Workflow.Name())
		}
	}
	return nil
}

// GenerateMd5 derives the checksum: the MD5 of the definition text, or the
// checksum embedded in the workflow document. The component is not modified.
func (c *ConfigurationComponent) GenerateMd5() (*Md5, error) {
	if err := c.validateDefinition(); err != nil {
		return nil, err
	}
	switch {
	case c.Mdl != nil:
		return NewMd5(md5Hex(c.Mdl.Raw()), c.Identity()), nil
	case c.Workflow != nil:
		return NewMd5(c.Workflow.Checksum(), c.Identity()), nil
	default:
		panic(fmt.Sprintf("configuration component %s has no definition", c.Identity()))
	}
}

// Dump writes root/<number>/<type>.<name>.md5 (the existing checksum, or a
// generated one when absent) plus the definition or workflow document and the
// dependency dataset when present.
func (c *ConfigurationComponent) Dump(fs afero.Fs, root string) (ConfigurationPaths, error) {
	if err := c.Validate(); err != nil {
		return ConfigurationPaths{}, err
	}

	md5 := c.Md5
	if md5 == nil {
		generated, err := c.GenerateMd5()
		if err != nil {
			return ConfigurationPaths{}, err
		}
		md5 = generated
	}

	base := path.Join(root, c.number, c.Identity())
	paths := ConfigurationPaths{Md5: base + extMd5}
	if err := vpkfs.WriteFile(fs, paths.Md5, []byte(md5.Text())); err != nil {
		return ConfigurationPaths{}, err
	}

	switch {
	case c.Mdl != nil:
		paths.Mdl = base + extMdl
		if err := vpkfs.WriteFile(fs, paths.Mdl, []byte(c.Mdl.Raw())); err != nil {
			return ConfigurationPaths{}, err
		}
	case c.Workflow != nil:
		paths.Workflow = base + extJSON
		if err := vpkfs.WriteFile(fs, paths.Workflow, []byte(c.Workflow.Raw())); err != nil {
			return ConfigurationPaths{}, err
		}
	}

	if c.Dep != nil {
		paths.Dep = base + extDep
		if err := vpkfs.WriteFile(fs, paths.Dep, []byte(c.Dep.Raw())); err != nil {
			return ConfigurationPaths{}, err
		}
	}
	return paths, nil
}

// withPath fills in the location of a ComponentError raised without one.
func withPath(err error, location string) error {
	var ce *ComponentError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = location
	}
	return err
}
