// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"strings"

	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	// KindData is a dataset plus its descriptor.
	KindData Kind = "data"
	// KindConfiguration is a checksum plus a definition or workflow document.
	KindConfiguration Kind = "configuration"
	// KindUnrecognized matches neither signature.
	KindUnrecognized Kind = "unrecognized"
)

const (
	extCsv      = ".csv"
	extXML      = ".xml"
	extMdl      = ".mdl"
	extJSON     = ".json"
	extMd5      = ".md5"
	extDep      = ".dep"
	extJavaCode = ".java"
)

// Kind is the classification of a component directory.
type Kind string

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Classify inspects the extensions of p's children. A directory is data when it
// holds a .csv and a .xml file, and configuration when it holds a .md5 file and
// a .mdl or .json file. Data is checked first, so a data directory with an
// extra .json sidecar stays data. Extensions compare case-insensitively.
func Classify(p vpkfs.Path) (Kind, error) {
	children, err := p.Children()
	if err != nil {
		return KindUnrecognized, err
	}
	return classifyChildren(children), nil
}

func classifyChildren(children []vpkfs.Path) Kind {
	has := func(ext string) bool {
		_, ok := firstChildWithExt(children, ext)
		return ok
	}

	switch {
	case has(extCsv) && has(extXML):
		return KindData
	case (has(extMdl) || has(extJSON)) && has(extMd5):
		return KindConfiguration
	default:
		return KindUnrecognized
	}
}

// firstChildWithExt returns the first file child, in name order, whose
// extension matches ext case-insensitively.
func firstChildWithExt(children []vpkfs.Path, ext string) (vpkfs.Path, bool) {
	for _, child := range children {
		if strings.EqualFold(child.Ext(), ext) && !child.IsDir() {
			return child, true
		}
	}
	return vpkfs.Path{}, false
}
