// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/overpack/overpack/pkg/cueutil"
)

// maxWorkflowSize bounds workflow documents, which can be much larger than
// configuration files.
const maxWorkflowSize int64 = 64 * 1024 * 1024

//go:embed workflow_schema.cue
var workflowSchema string

type (
	workflowHeader struct {
		Checksum string `json:"checksum"`
		ProcDef  struct {
			LifecyclePublicKey string `json:"lifecyclePublicKey"`
			PublicKey          string `json:"publicKey"`
		} `json:"procDef"`
	}

	// Workflow is a JSON workflow definition document. Only the identity
	// header is interpreted; the document itself is kept verbatim.
	Workflow struct {
		raw    string
		header workflowHeader
		value  cue.Value
	}
)

// ParseWorkflow validates the identity header of a workflow document. name is
// used in error messages.
func ParseWorkflow(text, name string) (*Workflow, error) {
	result, err := cueutil.ParseAndDecodeString[workflowHeader](
		workflowSchema,
		[]byte(text),
		"#Workflow",
		cueutil.WithJSON(),
		cueutil.WithFilename(name),
		cueutil.WithMaxFileSize(maxWorkflowSize),
	)
	if err != nil {
		return nil, &ComponentError{Kind: ErrInvalidDocument, Detail: fmt.Sprintf("workflow: %v", err)}
	}
	return &Workflow{raw: text, header: *result.Value, value: result.Unified}, nil
}

// Raw returns the document text exactly as loaded.
func (w *Workflow) Raw() string { return w.raw }

// Checksum returns the checksum embedded in the document.
func (w *Workflow) Checksum() string { return w.header.Checksum }

// LifecyclePublicKey returns procDef.lifecyclePublicKey.
func (w *Workflow) LifecyclePublicKey() string { return w.header.ProcDef.LifecyclePublicKey }

// PublicKey returns procDef.publicKey.
func (w *Workflow) PublicKey() string { return w.header.ProcDef.PublicKey }

// Name returns the component name the document implies:
// "<lifecyclePublicKey>.<publicKey>".
func (w *Workflow) Name() string {
	return w.header.ProcDef.LifecyclePublicKey + "." + w.header.ProcDef.PublicKey
}

// Document decodes the whole document.
func (w *Workflow) Document() (map[string]any, error) {
	var doc map[string]any
	if err := w.value.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}
	return doc, nil
}
