// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/overpack/overpack/pkg/vpkfs"
)

var (
	// ErrInvalidSource is returned when a location is neither a container nor a directory.
	ErrInvalidSource = vpkfs.ErrInvalidSource

	// ErrNotFound is returned when a required package member is absent.
	ErrNotFound = vpkfs.ErrNotFound

	// ErrMissingFile is returned when a component lacks a required file.
	ErrMissingFile = errors.New("missing file")

	// ErrNameMismatch is returned when a dataset and its manifest have different stems.
	ErrNameMismatch = errors.New("name mismatch")

	// ErrAmbiguousDefinition is returned when a configuration component has both
	// or neither of a definition document and a workflow document.
	ErrAmbiguousDefinition = errors.New("ambiguous definition")

	// ErrIdentityMismatch is returned when the identities recorded by a
	// configuration component's files disagree.
	ErrIdentityMismatch = errors.New("identity mismatch")

	// ErrUnrecognizedComponent is returned when a component directory is neither
	// a data nor a configuration component.
	ErrUnrecognizedComponent = errors.New("unrecognized component")

	// ErrPreconditionViolation is returned when manifest generation arguments
	// are inconsistent with each other or with the dataset.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrMissingManifest is returned when dumping a data component (or a
	// package) that has no manifest.
	ErrMissingManifest = errors.New("missing manifest")

	// ErrMalformedChecksum is returned when a checksum file does not hold
	// exactly two whitespace-separated tokens.
	ErrMalformedChecksum = errors.New("malformed checksum")

	// ErrInvalidDocument is returned when a definition, workflow or dataset
	// document cannot be parsed.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDuplicateComponent is returned when two components share a number.
	ErrDuplicateComponent = errors.New("duplicate component")
)

// ComponentError carries the offending subtree, identity or stem of a
// failure. Unwrap returns Kind, one of the sentinel errors above.
type ComponentError struct {
	Kind    error
	Path    string
	Subject string
	Detail  string
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Subject != "" {
		fmt.Fprintf(&sb, " %q", e.Subject)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// Unwrap returns the sentinel kind for errors.Is() compatibility.
func (e *ComponentError) Unwrap() error { return e.Kind }

func newError(kind error, path, subject, format string, args ...any) *ComponentError {
	return &ComponentError{Kind: kind, Path: path, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}
