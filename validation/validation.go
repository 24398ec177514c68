// Package validation holds the shared failure types for coordinate values:
// hard shape errors that abort parsing and soft violations collected by an
// explicit validation pass.
package validation

import (
	"errors"
	"strings"
)

// ErrMalformedShape is matched by every *ShapeError through errors.Is.
var ErrMalformedShape = errors.New("malformed shape")

// ShapeError reports raw input that cannot be mapped onto a value,
// e.g. a position with fewer than 2 elements. No partial value exists.
type ShapeError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Malformed returns a ShapeError without a path.
func Malformed(message string) *ShapeError {
	return &ShapeError{Message: message}
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return e.Path + ": " + e.Message
}

// Unwrap returns ErrMalformedShape.
func (e *ShapeError) Unwrap() error {
	return ErrMalformedShape
}

// At returns a copy of e located under prefix.
func (e *ShapeError) At(prefix string) *ShapeError {
	return &ShapeError{Path: join(prefix, e.Path), Message: e.Message}
}

// Violation is a single soft constraint breach.
type Violation struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}

	return v.Field + ": " + v.Message
}

// Violations is the result of a validation pass, in evaluation order.
// An empty set means the value is valid.
type Violations []Violation

// Add records a violation for field.
func (vs *Violations) Add(field, message string) {
	*vs = append(*vs, Violation{Field: field, Message: message})
}

// Check records a violation for field unless ok holds.
func (vs *Violations) Check(ok bool, field, message string) {
	if !ok {
		vs.Add(field, message)
	}
}

// Merge appends other, each field located under prefix.
func (vs *Violations) Merge(prefix string, other Violations) {
	*vs = append(*vs, other.Prefix(prefix)...)
}

// Prefix returns a copy with every field located under prefix.
func (vs Violations) Prefix(prefix string) Violations {
	if len(vs) == 0 {
		return nil
	}

	out := make(Violations, len(vs))
	for i, v := range vs {
		out[i] = Violation{Field: join(prefix, v.Field), Message: v.Message}
	}

	return out
}

// Fields lists the offending fields in order.
func (vs Violations) Fields() []string {
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}

	return fields
}

// Err converts the set into an error, nil when there are no violations.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}

	return &Error{Violations: vs}
}

// Error wraps a non-empty set of violations for callers that treat them as
// a failure.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}

	return "validation failed:\n  - " + strings.Join(lines, "\n  - ")
}

// Between reports whether lo <= value <= hi. NaN is never in range.
func Between(value, lo, hi float64) bool {
	return value >= lo && value <= hi
}

func join(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}
