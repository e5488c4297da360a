// SPDX-License-Identifier: MPL-2.0

package vpk

type (
	// Summary is a serializable overview of a package.
	Summary struct {
		Location                string             `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
		DataComponents          int                `json:"data_components" yaml:"data_components" toml:"data_components"`
		ConfigurationComponents int                `json:"configuration_components" yaml:"configuration_components" toml:"configuration_components"`
		Components              []ComponentSummary `json:"components" yaml:"components" toml:"components"`
		Codes                   []string           `json:"codes" yaml:"codes" toml:"codes"`
	}

	// ComponentSummary describes one component.
	ComponentSummary struct {
		Number string `json:"number" yaml:"number" toml:"number"`
		Kind   Kind   `json:"kind" yaml:"kind" toml:"kind"`
		// Identity is the label of a data component or "<type>.<name>" of a
		// configuration component.
		Identity    string `json:"identity" yaml:"identity" toml:"identity"`
		Records     int    `json:"records,omitempty" yaml:"records,omitempty" toml:"records,omitempty"`
		HasManifest bool   `json:"has_manifest,omitempty" yaml:"has_manifest,omitempty" toml:"has_manifest,omitempty"`
		Definition  string `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
		Checksum    string `json:"checksum,omitempty" yaml:"checksum,omitempty" toml:"checksum,omitempty"`
		HasDep      bool   `json:"has_dep,omitempty" yaml:"has_dep,omitempty" toml:"has_dep,omitempty"`
	}
)

// Summary reports the package's components and code files. It parses every
// dataset to count rows.
func (v *Vpk) Summary() (Summary, error) {
	s := Summary{
		Location:   v.Location,
		Components: make([]ComponentSummary, 0, len(v.Components)),
		Codes:      make([]string, 0, len(v.Codes)),
	}

	for _, c := range v.Components {
		cs := ComponentSummary{Number: c.Number(), Kind: c.Kind()}
		switch c := c.(type) {
		case *DataComponent:
			s.DataComponents++
			if c.Data != nil {
				records, err := c.Data.Records()
				if err != nil {
					return Summary{}, withPath(err, ComponentsDir+"/"+c.Number())
				}
				cs.Records = len(records)
			}
			cs.Identity = c.Label
			cs.HasManifest = c.Manifest != nil
		case *ConfigurationComponent:
			s.ConfigurationComponents++
			cs.Identity = c.Identity()
			cs.HasDep = c.Dep != nil
			if c.Md5 != nil {
				cs.Checksum = c.Md5.Hash
			}
			switch {
			case c.Mdl != nil:
				cs.Definition = "mdl"
			case c.Workflow != nil:
				cs.Definition = "workflow"
			}
		}
		s.Components = append(s.Components, cs)
	}

	for _, code := range v.Codes {
		s.Codes = append(s.Codes, code.Path)
	}
	return s, nil
}
