// SPDX-License-Identifier: MPL-2.0

// Package vpkfs provides a uniform, read-only view over a vault package source
// and the staging/packaging primitives used to emit one.
//
// A package source is either a compressed container (a ZIP file, usually with a
// ".vpk" extension) or an unpacked directory tree. Both are exposed through
// [io/fs.FS] and wrapped by [Source] and [Path], so code above this package never
// branches on the source kind:
//   - [Open]: resolve a location to a [Source] (container or directory)
//   - [OpenFS]: wrap an already available [io/fs.FS]
//   - [Path]: list children, test directory-ness, read text, access stem/extension
//
// The write side materializes a layout in a private staging area and packages it:
//   - [NewStage]: scoped temporary directory on an afero filesystem
//   - [WriteArchive]: deterministic ZIP container of a staged tree
//   - [CopyTree]: plain directory copy of a staged tree
package vpkfs
