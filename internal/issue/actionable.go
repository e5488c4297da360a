// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a failure report for the terminal: what overpack was
	// doing, on which package or file, and how to get past it.
	//
	// Build one with ErrorContext:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load package").
	//		WithResource("./orders.vpk").
	//		Wrap(loadErr).
	//		BuildError()
	//
	// When no issue is set explicitly, Build attaches the issue page whose
	// engine error kind the cause matches.
	ActionableError struct {
		// Operation is a verb phrase such as "load package" or "write package".
		Operation string

		// Resource is the package location, destination or config file (optional).
		Resource string

		// Issue is the page explaining the failure, or nil.
		Issue *Issue

		// Suggestions are hints specific to this failure. The issue's own
		// hints are added by Format.
		Suggestions []string

		// Cause is the underlying error.
		Cause error
	}

	// ErrorContext accumulates the context of an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		issue       *Issue
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns the one-line form: failed to <operation>: <resource>: <cause>.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Hints returns the failure's own suggestions followed by those of its
// issue and a pointer to the issue page.
func (e *ActionableError) Hints() []string {
	hints := append([]string(nil), e.Suggestions...)
	if e.Issue != nil {
		hints = append(hints, e.Issue.suggestions...)
		hints = append(hints, "Run 'overpack issue "+e.Issue.slug+"' for details")
	}
	return hints
}

// Format returns the message shown by the CLI:
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <hint>
//	  • Run 'overpack issue <slug>' for details
//
// In verbose mode the unwrapped error chain follows, one cause per line.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if hints := e.Hints(); len(hints) > 0 {
		msg.WriteString("\n")
		for _, hint := range hints {
			msg.WriteString("\n  • ")
			msg.WriteString(hint)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the package, destination or file involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithIssue links the failure to a catalogued issue page. It is needed only
// for failures that carry no engine error kind, such as configuration errors.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = Get(id)
	return c
}

// WithSuggestion adds a hint. Can be called multiple times.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap sets the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError, or nil when no operation is set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	i := c.issue
	if i == nil {
		i = ForError(c.cause)
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Issue:       i,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returned as an error; nil when no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
