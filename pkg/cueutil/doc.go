// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas and decodes
// them into Go values.
//
// Both the CLI configuration file (CUE) and workflow definition documents
// (JSON) go through the same flow:
//
//  1. Compile the embedded schema
//  2. Compile the document (CUE source, or JSON through cue/encoding/json)
//     and unify it with the schema's root definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed workflow_schema.cue
//	var workflowSchema string
//
//	result, err := cueutil.ParseAndDecodeString[workflowHeader](
//	    workflowSchema,
//	    data,
//	    "#Workflow",
//	    cueutil.WithJSON(),
//	    cueutil.WithFilename("Workflow.lc.pk.json"),
//	)
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending field
//	}
//	return result.Value, nil
package cueutil
