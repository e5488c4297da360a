// SPDX-License-Identifier: MPL-2.0

// Package vpk loads, validates and writes vault packages (VPK).
//
// A package is a ZIP container, or an equivalent unpacked directory, with a
// fixed layout:
//
//	vaultpackage.xml                          root manifest (required)
//	components/<number>/<label>.csv|.xml      data component
//	components/<number>/<type>.<name>.md5     configuration checksum
//	components/<number>/<type>.<name>.mdl     definition document, or
//	components/<number>/<type>.<name>.json    workflow document (exactly one)
//	components/<number>/<type>.<name>.dep     optional dependency dataset
//	**/*.java                                 SDK source files
//
// [Load] resolves a location through [vpkfs.Open] and builds a [Vpk]. Every
// subdirectory of components/ is classified once ([Classify]) into a
// [*DataComponent] or a [*ConfigurationComponent]; callers traverse the
// [Component] list and switch on the concrete type. Derived artifacts are
// regenerated explicitly with [DataComponent.GenerateManifest] and
// [ConfigurationComponent.GenerateMd5], and [Vpk.Dump] writes the canonical
// layout through a private staging area.
//
// All failures are fail-fast and wrap one of the sentinel errors declared in
// errors.go, so callers can branch with errors.Is.
package vpk
