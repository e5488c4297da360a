// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of the package engine:
//   - Container and directory loading
//   - Definition, workflow and dataset parsing
//   - Checksum generation
//   - Canonical dump to a container or a directory
//
// To generate a PGO profile, run:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
