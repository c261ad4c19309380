package ssi

import (
	"fmt"
	"strings"
)

// SchemaError reports a required column role that could not be matched to any
// column in the source table. It is fatal to the run: callers must surface
// the message verbatim and halt report generation.
type SchemaError struct {
	Role       Role     `json:"role"`
	Candidates []string `json:"candidates"` // patterns that were tried, in priority order
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("no column matched required role %q (tried: %s)",
		e.Role, strings.Join(e.Candidates, ", "))
}

// InsufficientDataError reports a statistical test that cannot run because a
// group has no observations. It is an explicit undefined result, not a crash.
type InsufficientDataError struct {
	Group string `json:"group"`
}

// Error implements the error interface
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: group %q has no observations", e.Group)
}
