package generator

import "fmt"

// Code defines a machine-readable code for the type of generation error.
type Code string

const (
	// CodeMissingRootName indicates a "#" reference with no root type name
	// supplied by the caller.
	CodeMissingRootName Code = "MissingRootName"
	// CodeNonStringEnum indicates an enum literal that is not a string.
	CodeNonStringEnum Code = "NonStringEnum"
	// CodeFormatFailed indicates the final formatting pass rejected the
	// generated source.
	CodeFormatFailed Code = "FormatFailed"
)

// MissingRootNameError is the fatal error for a root self-reference ("#")
// encountered while no root type name was supplied.
type MissingRootNameError struct {
	Ref string
}

func (e *MissingRootNameError) Error() string {
	return fmt.Sprintf("reference %q targets the document root, but no root type name was supplied", e.Ref)
}

// Code returns the machine-readable error code.
func (e *MissingRootNameError) Code() Code { return CodeMissingRootName }

// NonStringEnumError is the fatal error for an enumeration literal that is
// not a string; only string-valued enumerations are supported.
type NonStringEnumError struct {
	TypeName string
	Value    any
}

func (e *NonStringEnumError) Error() string {
	return fmt.Sprintf("enum %s: only string literals are supported, got %T (%v)", e.TypeName, e.Value, e.Value)
}

// Code returns the machine-readable error code.
func (e *NonStringEnumError) Code() Code { return CodeNonStringEnum }
