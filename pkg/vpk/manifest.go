// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
)

type (
	// Manifest is an immutable XML descriptor: the package root manifest or a
	// data component's step descriptor. The element tree is parsed on first
	// access and cached.
	Manifest struct {
		raw string

		once   sync.Once
		parsed *Node
		err    error
	}

	// Node is a generic XML element.
	Node struct {
		XMLName  xml.Name
		Attrs    []xml.Attr `xml:",any,attr"`
		Text     string     `xml:",chardata"`
		Children []*Node    `xml:",any"`
	}
)

// NewManifest wraps raw XML text.
func NewManifest(raw string) *Manifest {
	return &Manifest{raw: raw}
}

// Raw returns the descriptor text exactly as loaded or generated.
func (m *Manifest) Raw() string { return m.raw }

// Parsed returns the root element of the descriptor.
func (m *Manifest) Parsed() (*Node, error) {
	m.once.Do(func() {
		var root Node
		if err := xml.Unmarshal([]byte(m.raw), &root); err != nil {
			m.err = &ComponentError{Kind: ErrInvalidDocument, Detail: fmt.Sprintf("manifest: %v", err)}
			return
		}
		m.parsed = &root
	})
	return m.parsed, m.err
}

// Name returns the local name of the element.
func (n *Node) Name() string { return n.XMLName.Local }

// Child returns the first direct child with the given local name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first direct child with the given
// local name. The boolean is false when there is no such child.
func (n *Node) ChildText(name string) (string, bool) {
	c := n.Child(name)
	if c == nil {
		return "", false
	}
	return strings.TrimSpace(c.Text), true
}

// Attr returns the value of the attribute with the given local name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
