// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It pairs each engine error kind with a Markdown page (rendered with glamour) and
// one-line suggestions, and wraps failures in ActionableError for CLI output.
package issue
