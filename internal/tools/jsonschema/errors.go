package jsonschema

import "fmt"

// Code defines a machine-readable code for the type of schema error.
type Code string

const (
	// CodeUnresolvedReference indicates that a reference path segment was
	// not found in the document's definitions.
	CodeUnresolvedReference Code = "UnresolvedReference"
	// CodeResolutionLimit indicates that following references and allOf
	// compositions exceeded the recursion guard limits.
	CodeResolutionLimit Code = "ResolutionLimit"
)

// UnresolvedReferenceError is the fatal error for a reference whose lookup
// path cannot be followed. Ref is the full reference string, Segment the
// path element that failed.
type UnresolvedReferenceError struct {
	Ref     string
	Segment string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q: no definition for segment %q", e.Ref, e.Segment)
}

// Code returns the machine-readable error code.
func (e *UnresolvedReferenceError) Code() Code { return CodeUnresolvedReference }
