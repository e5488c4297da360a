// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"cmp"
	"encoding/xml"
	"path"
	"slices"

	"github.com/spf13/afero"

	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	// ActionCreate inserts every dataset row as a new record.
	ActionCreate = "Create"
	// ActionUpsert updates records matched by the id parameter column, inserting the rest.
	ActionUpsert = "Upsert"
)

type (
	// DataComponent is a dataset with its step descriptor.
	DataComponent struct {
		number string
		// extension spelling of the loaded files; empty means lowercase
		csvExt, xmlExt string

		// Label is the stem shared by the dataset and descriptor files.
		Label    string
		Data     *Data
		Manifest *Manifest
	}

	// ManifestParams are the caller-supplied fields of a generated step descriptor.
	ManifestParams struct {
		ObjectName          string
		DataType            string
		Action              string
		IDParam             *string
		StepRequired        bool
		RecordMigrationMode bool
	}

	// DataPaths are the files written by DataComponent.Dump.
	DataPaths struct {
		Csv string
		XML string
	}

	dataStepXML struct {
		XMLName      xml.Name   `xml:"datastep"`
		Label        string     `xml:"label"`
		StepRequired bool       `xml:"steprequired"`
		Checksum     string     `xml:"checksum"`
		Dataset      datasetXML `xml:"dataset"`
	}

	datasetXML struct {
		Object              string  `xml:"object"`
		IDParam             *string `xml:"idparam,omitempty"`
		DataType            string  `xml:"datatype"`
		Action              string  `xml:"action"`
		RecordMigrationMode bool    `xml:"recordmigrationmode"`
		RecordCount         int     `xml:"recordcount"`
	}
)

// NewDataComponent builds a data component. manifest may be nil until one is
// generated; data is required by GenerateManifest and Dump.
func NewDataComponent(number, label string, data *Data, manifest *Manifest) *DataComponent {
	return &DataComponent{number: number, Label: label, Data: data, Manifest: manifest}
}

// LoadDataComponent reads the first .csv and .xml children of p. Both must
// exist and share a stem.
func LoadDataComponent(p vpkfs.Path) (*DataComponent, error) {
	children, err := p.Children()
	if err != nil {
		return nil, err
	}

	csvPath, ok := firstChildWithExt(children, extCsv)
	if !ok {
		return nil, newError(ErrMissingFile, p.String(), p.Name(), "expected a %s dataset", extCsv)
	}
	xmlPath, ok := firstChildWithExt(children, extXML)
	if !ok {
		return nil, newError(ErrMissingFile, p.String(), p.Name(), "expected a %s descriptor", extXML)
	}
	if csvPath.Stem() != xmlPath.Stem() {
		return nil, newError(ErrNameMismatch, p.String(), csvPath.Stem(),
			"dataset %s and descriptor %s must share a name", csvPath.Name(), xmlPath.Name())
	}

	csvText, err := csvPath.ReadText()
	if err != nil {
		return nil, err
	}
	xmlText, err := xmlPath.ReadText()
	if err != nil {
		return nil, err
	}

	c := NewDataComponent(p.Name(), csvPath.Stem(), NewData(csvText), NewManifest(xmlText))
	c.csvExt, c.xmlExt = csvPath.Ext(), xmlPath.Ext()
	return c, nil
}

// Number implements Component.
func (c *DataComponent) Number() string { return c.number }

// Kind implements Component.
func (c *DataComponent) Kind() Kind { return KindData }

func (c *DataComponent) isComponent() {}

// GenerateManifest builds a step descriptor for the current dataset. The
// component is not modified; assign the result to Manifest to adopt it.
func (c *DataComponent) GenerateManifest(params ManifestParams) (*Manifest, error) {
	subject := path.Join(c.number, c.Label)
	if c.Data == nil {
		return nil, newError(ErrMissingFile, "", subject, "no %s dataset", extCsv)
	}

	if params.Action == ActionCreate && params.IDParam != nil {
		return nil, newError(ErrPreconditionViolation, "", subject, "action %s does not take an id parameter", ActionCreate)
	}
	if params.Action == ActionUpsert && params.IDParam == nil {
		return nil, newError(ErrPreconditionViolation, "", subject, "action %s requires an id parameter", ActionUpsert)
	}

	records, err := c.Data.Records()
	if err != nil {
		return nil, err
	}

	if params.Action == ActionUpsert {
		columns, _ := c.Data.Columns()
		idParam := *params.IDParam
		if !slices.Contains(columns, idParam) {
			return nil, newError(ErrPreconditionViolation, "", subject, "id parameter %q is not a dataset column", idParam)
		}
		for i, rec := range records {
			if _, ok := rec[idParam]; !ok {
				return nil, newError(ErrPreconditionViolation, "", subject, "row %d has no %q column", i+1, idParam)
			}
		}
	}

	doc := dataStepXML{
		Label:        c.Label,
		StepRequired: params.StepRequired,
		Checksum:     c.Data.Checksum(),
		Dataset: datasetXML{
			Object:              params.ObjectName,
			IDParam:             params.IDParam,
			DataType:            params.DataType,
			Action:              params.Action,
			RecordMigrationMode: params.RecordMigrationMode,
			RecordCount:         len(records),
		},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return NewManifest(xml.Header + string(out) + "\n"), nil
}

// Dump writes root/<number>/<label>.csv and .xml on fs. Files loaded from a
// package keep the extension spelling they were loaded with.
func (c *DataComponent) Dump(fs afero.Fs, root string) (DataPaths, error) {
	dir := path.Join(root, c.number)
	if c.Data == nil {
		return DataPaths{}, newError(ErrMissingFile, dir, c.Label, "no %s dataset", extCsv)
	}
	if c.Manifest == nil {
		return DataPaths{}, newError(ErrMissingManifest, dir, c.Label, "generate a manifest before dumping")
	}

	paths := DataPaths{
		Csv: path.Join(dir, c.Label+cmp.Or(c.csvExt, extCsv)),
		XML: path.Join(dir, c.Label+cmp.Or(c.xmlExt, extXML)),
	}
	if err := vpkfs.WriteFile(fs, paths.Csv, []byte(c.Data.Raw())); err != nil {
		return DataPaths{}, err
	}
	if err := vpkfs.WriteFile(fs, paths.XML, []byte(c.Manifest.Raw())); err != nil {
		return DataPaths{}, err
	}
	return paths, nil
}
