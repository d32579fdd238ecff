// Package validate rejects illegal chart configurations before they reach
// the state model.
package validate

import (
	"fmt"
	"strings"
)

// ============================================================================
// VALIDATION TYPES
// ============================================================================

// Field names the part of the configuration panel an issue belongs to.
type Field string

const (
	FieldGeneral Field = "general"
	FieldX       Field = "x"
	FieldY       Field = "y"
)

// Code identifies the kind of issue.
type Code string

const (
	CodeNoDataLoaded     Code = "NoDataLoaded"
	CodeUnknownChartType Code = "UnknownChartType"
	CodeMissingAxis      Code = "MissingAxis"
	CodeDuplicateAxis    Code = "DuplicateAxis"
	CodeUnknownColumn    Code = "UnknownColumn"
	CodeNoValidYColumns  Code = "NoValidYColumns"
)

// Issue is one validation error or warning.
type Issue struct {
	Field   Field  `json:"field"`
	Code    Code   `json:"code"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Result is the outcome of validating one request. Errors block the change;
// warnings describe Y columns that were dropped.
type Result struct {
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`

	// YColumns are the requested Y columns that survived validation.
	YColumns []string `json:"yColumns,omitempty"`
}

// Valid reports whether the request has no errors.
func (r *Result) Valid() bool {
	return r != nil && len(r.Errors) == 0
}

// HasWarnings reports whether any Y columns were dropped.
func (r *Result) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

// Has reports whether an error with the given field and code was recorded.
func (r *Result) Has(f Field, c Code) bool {
	if r == nil {
		return false
	}
	for _, e := range r.Errors {
		if e.Field == f && e.Code == c {
			return true
		}
	}
	return false
}

// ErrorsFor returns the errors recorded against one field.
func (r *Result) ErrorsFor(f Field) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, e := range r.Errors {
		if e.Field == f {
			out = append(out, e)
		}
	}
	return out
}

// Error joins all error messages into one line.
func (r *Result) Error() string {
	if r == nil || len(r.Errors) == 0 {
		return ""
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

func (r *Result) addError(f Field, c Code, column, msg string) {
	r.Errors = append(r.Errors, Issue{Field: f, Code: c, Column: column, Message: msg})
}

func (r *Result) addWarning(f Field, c Code, column, msg string) {
	r.Warnings = append(r.Warnings, Issue{Field: f, Code: c, Column: column, Message: msg})
}
