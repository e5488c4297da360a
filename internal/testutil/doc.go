// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build package trees on disk
// or in memory and fail fast on setup errors.
//
// Tree describes a package layout; MustWriteTree and MustWriteZip materialise it
// as an extracted directory or a container, and MustReadZip reads one back.
package testutil
