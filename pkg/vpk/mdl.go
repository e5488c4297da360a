// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type (
	// MdlIdentity is the typed name a definition document declares.
	MdlIdentity struct {
		ComponentTypeName string
		ComponentName     string
	}

	// MdlParser extracts the identity from definition-language text. The full
	// grammar lives outside this package; only the identity is consumed.
	MdlParser interface {
		Parse(text string) (MdlIdentity, error)
	}

	// HeaderParser is the default MdlParser. It reads the leading command
	// keyword, the component type and the component name, e.g.
	// "RECREATE Picklist color__c (".
	HeaderParser struct{}

	// Mdl is a definition document together with its parsed identity.
	Mdl struct {
		raw      string
		identity MdlIdentity
	}
)

var (
	errNoMdlHeader = errors.New("no definition command found")

	mdlHeader       = regexp.MustCompile(`(?is)^(?:RECREATE|CREATE|ALTER|DROP|RENAME)\s+([A-Za-z_]\w*)\s+([\w.]+)`)
	mdlLeadingNoise = regexp.MustCompile(`(?s)^(?:\s+|//[^\n]*\n?|/\*.*?\*/)+`)
)

// String returns "<type>.<name>".
func (id MdlIdentity) String() string {
	return id.ComponentTypeName + "." + id.ComponentName
}

// Parse implements MdlParser.
func (HeaderParser) Parse(text string) (MdlIdentity, error) {
	body := mdlLeadingNoise.ReplaceAllString(strings.TrimPrefix(text, utf8BOM), "")
	m := mdlHeader.FindStringSubmatch(body)
	if m == nil {
		return MdlIdentity{}, errNoMdlHeader
	}
	return MdlIdentity{ComponentTypeName: m[1], ComponentName: m[2]}, nil
}

// ParseMdl parses a definition document with parser.
func ParseMdl(text string, parser MdlParser) (*Mdl, error) {
	id, err := parser.Parse(text)
	if err != nil {
		return nil, &ComponentError{Kind: ErrInvalidDocument, Detail: fmt.Sprintf("definition: %v", err)}
	}
	if strings.TrimSpace(id.ComponentTypeName) == "" || strings.TrimSpace(id.ComponentName) == "" {
		return nil, &ComponentError{Kind: ErrInvalidDocument, Detail: "definition: empty identity"}
	}
	return &Mdl{raw: text, identity: id}, nil
}

// NewMdl pairs definition text with an already known identity.
func NewMdl(raw string, identity MdlIdentity) *Mdl {
	return &Mdl{raw: raw, identity: identity}
}

// Raw returns the definition text exactly as loaded.
func (m *Mdl) Raw() string { return m.raw }

// Identity returns the declared type and name.
func (m *Mdl) Identity() MdlIdentity { return m.identity }
