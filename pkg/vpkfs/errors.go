// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource is returned when a location is neither a readable
	// container nor a directory.
	ErrInvalidSource = errors.New("invalid source")

	// ErrNotFound is returned when a required package member is absent.
	ErrNotFound = errors.New("not found")
)

type (
	// InvalidSourceError describes why a location could not be opened.
	// It wraps ErrInvalidSource for errors.Is() compatibility.
	InvalidSourceError struct {
		Location string
		Reason   error
	}

	// NotFoundError names the missing member. It wraps ErrNotFound.
	NotFoundError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *InvalidSourceError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("invalid source %q: %v", e.Location, e.Reason)
	}
	return fmt.Sprintf("invalid source %q", e.Location)
}

// Unwrap returns ErrInvalidSource for errors.Is() compatibility.
func (e *InvalidSourceError) Unwrap() error { return ErrInvalidSource }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }
