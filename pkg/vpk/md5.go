// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"fmt"
	"strings"
)

// Md5 is a configuration checksum file: a content hash paired with the
// "<type>.<name>" identity of the component it belongs to.
type Md5 struct {
	Hash          string
	ComponentInfo string

	// raw is the file text as loaded; empty for generated values.
	raw string
}

// NewMd5 builds a checksum value.
func NewMd5(hash, componentInfo string) *Md5 {
	return &Md5{Hash: hash, ComponentInfo: componentInfo}
}

// ParseMd5 reads checksum file text, which must hold exactly two
// whitespace-separated tokens.
func ParseMd5(text string) (*Md5, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return nil, &ComponentError{
			Kind:   ErrMalformedChecksum,
			Detail: fmt.Sprintf("expected 2 tokens, found %d", len(fields)),
		}
	}
	return &Md5{Hash: fields[0], ComponentInfo: fields[1], raw: text}, nil
}

// Text returns the file content: the loaded text when the value came from a
// file and its fields are unchanged, otherwise "<hash> <identity>".
func (m *Md5) Text() string {
	if m.raw != "" {
		if fields := strings.Fields(m.raw); len(fields) == 2 && fields[0] == m.Hash && fields[1] == m.ComponentInfo {
			return m.raw
		}
	}
	return m.Hash + " " + m.ComponentInfo
}
