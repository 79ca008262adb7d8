package casm

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrMalformedWireFormat indicates a class could not be decoded from its wire form.
	ErrMalformedWireFormat = errors.New("casm: malformed wire format")

	// ErrUnsupportedSegmentDepth indicates a segment tree nested deeper than the cost model supports.
	ErrUnsupportedSegmentDepth = errors.New("casm: hash cost estimation supports segmentation depth at most 1")

	// ErrInvalidSegmentStructure indicates a visited PC set inconsistent with the declared segmentation.
	ErrInvalidSegmentStructure = errors.New("casm: invalid segment structure")

	// ErrUnrecognizedBuiltin indicates a builtin name that could not be parsed.
	ErrUnrecognizedBuiltin = errors.New("casm: unrecognized builtin")

	// ErrEntryPointNotFound indicates no entry point matched the requested selector.
	ErrEntryPointNotFound = errors.New("casm: entry point not found")

	// ErrDuplicatedEntryPointSelector indicates more than one entry point matched a selector.
	ErrDuplicatedEntryPointSelector = errors.New("casm: duplicated entry point selector")

	// ErrUnsupportedOperation indicates an operation the class variant does not implement.
	ErrUnsupportedOperation = errors.New("casm: operation not supported for class variant")
)

// InvalidSegmentStructureError reports a PC visited inside a segment whose
// start was never visited.
type InvalidSegmentStructureError struct {
	FoundPC              int
	ExpectedSegmentStart int
}

func (e *InvalidSegmentStructureError) Error() string {
	return fmt.Sprintf("casm: invalid segment structure: PC %d was visited, but the beginning of the segment (%d) was not",
		e.FoundPC, e.ExpectedSegmentStart)
}

func (e *InvalidSegmentStructureError) Unwrap() error {
	return ErrInvalidSegmentStructure
}

// EntryPointNotFoundError indicates the selector is absent from its kind's entry points.
type EntryPointNotFoundError struct {
	Selector EntryPointSelector
}

func (e *EntryPointNotFoundError) Error() string {
	return fmt.Sprintf("casm: entry point %s not found in contract", e.Selector)
}

func (e *EntryPointNotFoundError) Unwrap() error {
	return ErrEntryPointNotFound
}

// DuplicatedEntryPointSelectorError indicates a selector shared by several
// entry points of the same kind.
type DuplicatedEntryPointSelectorError struct {
	Selector EntryPointSelector
	Kind     EntryPointType
}

func (e *DuplicatedEntryPointSelectorError) Error() string {
	return fmt.Sprintf("casm: entry point %s of type %s is not unique", e.Selector, e.Kind)
}

func (e *DuplicatedEntryPointSelectorError) Unwrap() error {
	return ErrDuplicatedEntryPointSelector
}

// UnrecognizedBuiltinError indicates a builtin name unknown under both the
// exact and the suffixed spelling.
type UnrecognizedBuiltinError struct {
	Name string
}

func (e *UnrecognizedBuiltinError) Error() string {
	return fmt.Sprintf("casm: unrecognized builtin %q", e.Name)
}

func (e *UnrecognizedBuiltinError) Unwrap() error {
	return ErrUnrecognizedBuiltin
}

// UnsupportedOperationError indicates an operation invoked on a variant that
// does not implement it.
type UnsupportedOperationError struct {
	Operation string
	Variant   ClassVariant
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("casm: %s is not supported for %s classes", e.Operation, e.Variant)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupportedOperation
}

// WireFormatError wraps a decode or encode failure for a specific field.
type WireFormatError struct {
	Field string
	Err   error
}

func (e *WireFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("casm: malformed wire format: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("casm: malformed wire format: %v", e.Err)
}

func (e *WireFormatError) Unwrap() []error {
	return []error{ErrMalformedWireFormat, e.Err}
}

// InvalidVersionError indicates a compiler version that is not a full semantic version.
type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("casm: invalid compiler version %q", e.Version)
}

// HintNotFoundError indicates a program hint whose code is missing from the
// class hint lookaside.
type HintNotFoundError struct {
	Offset int
	Code   string
}

func (e *HintNotFoundError) Error() string {
	return fmt.Sprintf("casm: hint at offset %d not found: %s", e.Offset, e.Code)
}

// wireError wraps err as a WireFormatError for field.
func wireError(field string, err error) error {
	return &WireFormatError{Field: field, Err: err}
}
