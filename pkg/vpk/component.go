// SPDX-License-Identifier: MPL-2.0

package vpk

// Component is a package sub-unit stored under components/<number>/. The set
// of implementations is closed: *DataComponent and *ConfigurationComponent.
type Component interface {
	// Number returns the component's directory name, unique within a package.
	Number() string
	// Kind returns KindData or KindConfiguration.
	Kind() Kind

	isComponent()
}

var (
	_ Component = (*DataComponent)(nil)
	_ Component = (*ConfigurationComponent)(nil)
)
