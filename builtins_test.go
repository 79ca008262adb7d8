package casm

import (
	"errors"
	"testing"
)

func TestParseBuiltin(t *testing.T) {
	tests := []struct {
		name string
		want Builtin
	}{
		{"output", BuiltinOutput},
		{"pedersen", BuiltinPedersen},
		{"range_check", BuiltinRangeCheck},
		{"range_check96", BuiltinRangeCheck96},
		{"segment_arena", BuiltinSegmentArena},
		{"poseidon_builtin", BuiltinPoseidon},
		{"range_check_builtin", BuiltinRangeCheck},
		{"add_mod_builtin", BuiltinAddMod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBuiltin(tt.name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseBuiltinUnrecognized(t *testing.T) {
	for _, name := range []string{"", "sha256", "builtin", "_builtin", "poseidon_builtin_builtin", "Poseidon"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBuiltin(name)
			if !errors.Is(err, ErrUnrecognizedBuiltin) {
				t.Fatalf("Expected ErrUnrecognizedBuiltin, got %v", err)
			}
			var builtinErr *UnrecognizedBuiltinError
			if !errors.As(err, &builtinErr) || builtinErr.Name != name {
				t.Errorf("Expected error naming %q, got %v", name, err)
			}
		})
	}
}

func TestBuiltinNames(t *testing.T) {
	for b := BuiltinOutput; b <= BuiltinSegmentArena; b++ {
		parsed, err := ParseBuiltin(b.String())
		if err != nil || parsed != b {
			t.Errorf("Builtin %d: name %q does not parse back (%v)", b, b.String(), err)
		}
		parsed, err = ParseBuiltin(b.SuffixedName())
		if err != nil || parsed != b {
			t.Errorf("Builtin %d: suffixed name %q does not parse back (%v)", b, b.SuffixedName(), err)
		}
	}
	if got := Builtin(200).String(); got != "unknown" {
		t.Errorf("Expected unknown, got %q", got)
	}
}

func TestBuiltinText(t *testing.T) {
	var b Builtin
	if err := b.UnmarshalText([]byte("ec_op_builtin")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b != BuiltinECOp {
		t.Errorf("Expected ec_op, got %v", b)
	}
	text, _ := b.MarshalText()
	if string(text) != "ec_op" {
		t.Errorf("Expected ec_op, got %s", text)
	}
	if err := b.UnmarshalText([]byte("nope")); err == nil {
		t.Error("Expected error for unknown builtin")
	}
}
