package casm

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrMalformedWireFormat", ErrMalformedWireFormat, "casm: malformed wire format"},
		{"ErrUnsupportedSegmentDepth", ErrUnsupportedSegmentDepth, "casm: hash cost estimation supports segmentation depth at most 1"},
		{"ErrInvalidSegmentStructure", ErrInvalidSegmentStructure, "casm: invalid segment structure"},
		{"ErrUnrecognizedBuiltin", ErrUnrecognizedBuiltin, "casm: unrecognized builtin"},
		{"ErrEntryPointNotFound", ErrEntryPointNotFound, "casm: entry point not found"},
		{"ErrDuplicatedEntryPointSelector", ErrDuplicatedEntryPointSelector, "casm: duplicated entry point selector"},
		{"ErrUnsupportedOperation", ErrUnsupportedOperation, "casm: operation not supported for class variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Expected error message %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestInvalidSegmentStructureError(t *testing.T) {
	err := &InvalidSegmentStructureError{FoundPC: 907, ExpectedSegmentStart: 807}

	expected := "casm: invalid segment structure: PC 907 was visited, but the beginning of the segment (807) was not"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrInvalidSegmentStructure) {
		t.Error("Expected error to wrap ErrInvalidSegmentStructure")
	}
}

func TestEntryPointErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := &EntryPointNotFoundError{Selector: SelectorFromUint64(0xabc)}

		expected := "casm: entry point 0xabc not found in contract"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if !errors.Is(err, ErrEntryPointNotFound) {
			t.Error("Expected error to wrap ErrEntryPointNotFound")
		}
	})

	t.Run("duplicated", func(t *testing.T) {
		err := &DuplicatedEntryPointSelectorError{Selector: SelectorFromUint64(0x1), Kind: L1Handler}

		expected := "casm: entry point 0x1 of type L1_HANDLER is not unique"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if !errors.Is(err, ErrDuplicatedEntryPointSelector) {
			t.Error("Expected error to wrap ErrDuplicatedEntryPointSelector")
		}
	})
}

func TestUnsupportedOperationError(t *testing.T) {
	err := &UnsupportedOperationError{Operation: "visited segments", Variant: VariantV0}

	expected := "casm: visited segments is not supported for V0 classes"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Error("Expected error to wrap ErrUnsupportedOperation")
	}
}

func TestWireFormatError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		inner := &InvalidVersionError{Version: "x"}
		err := wireError("compiler_version", inner)

		expected := `casm: malformed wire format: compiler_version: casm: invalid compiler version "x"`
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
		if !errors.Is(err, ErrMalformedWireFormat) {
			t.Error("Expected error to wrap ErrMalformedWireFormat")
		}
		var versionErr *InvalidVersionError
		if !errors.As(err, &versionErr) || versionErr.Version != "x" {
			t.Error("Expected errors.As to find the wrapped *InvalidVersionError")
		}
	})

	t.Run("without field", func(t *testing.T) {
		err := wireError("", errors.New("unexpected end of JSON input"))

		expected := "casm: malformed wire format: unexpected end of JSON input"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("wraps typed cause", func(t *testing.T) {
		err := wireError("program.builtins", &UnrecognizedBuiltinError{Name: "x"})
		if !errors.Is(err, ErrUnrecognizedBuiltin) || !errors.Is(err, ErrMalformedWireFormat) {
			t.Errorf("Expected error to wrap both sentinels, got %v", err)
		}
	})
}

func TestHintNotFoundError(t *testing.T) {
	err := &HintNotFoundError{Offset: 4, Code: `{"A":1}`}

	expected := `casm: hint at offset 4 not found: {"A":1}`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}
