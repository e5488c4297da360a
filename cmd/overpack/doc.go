// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the overpack command tree: inspect, validate, repack,
// config and issue. Handlers receive an *App that carries configuration, the
// engine logger and output writers.
package cmd
