package casm

import (
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

// Builtin identifies a VM builtin whose usage is tracked apart from plain steps.
type Builtin uint8

const (
	BuiltinOutput Builtin = iota
	BuiltinPedersen
	BuiltinRangeCheck
	BuiltinECDSA
	BuiltinBitwise
	BuiltinECOp
	BuiltinKeccak
	BuiltinPoseidon
	BuiltinRangeCheck96
	BuiltinAddMod
	BuiltinMulMod
	BuiltinSegmentArena
)

// builtinSuffix is appended to builtin names by newer compilers.
const builtinSuffix = "_builtin"

var builtinNames = [...]string{
	BuiltinOutput:       "output",
	BuiltinPedersen:     "pedersen",
	BuiltinRangeCheck:   "range_check",
	BuiltinECDSA:        "ecdsa",
	BuiltinBitwise:      "bitwise",
	BuiltinECOp:         "ec_op",
	BuiltinKeccak:       "keccak",
	BuiltinPoseidon:     "poseidon",
	BuiltinRangeCheck96: "range_check96",
	BuiltinAddMod:       "add_mod",
	BuiltinMulMod:       "mul_mod",
	BuiltinSegmentArena: "segment_arena",
}

var builtinsByName = func() map[string]Builtin {
	m := make(map[string]Builtin, len(builtinNames))
	for b, name := range builtinNames {
		m[name] = Builtin(b)
	}
	return m
}()

// String returns the plain builtin name, e.g. "range_check".
func (b Builtin) String() string {
	if int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return "unknown"
}

// SuffixedName returns the builtin name with the "_builtin" suffix.
func (b Builtin) SuffixedName() string {
	return b.String() + builtinSuffix
}

// ParseBuiltin resolves a builtin name. The exact name is tried first; if
// that fails the "_builtin"-suffixed spelling is accepted, so classes emitted
// by compilers that use the suffixed form still load.
func ParseBuiltin(name string) (Builtin, error) {
	if b, ok := builtinsByName[name]; ok {
		return b, nil
	}
	if trimmed, ok := strings.CutSuffix(name, builtinSuffix); ok {
		if b, ok := builtinsByName[trimmed]; ok {
			log.Warn("Builtin resolved through suffixed name", "name", name, "builtin", b)
			return b, nil
		}
	}
	return 0, &UnrecognizedBuiltinError{Name: name}
}

// MarshalText implements encoding.TextMarshaler.
func (b Builtin) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Builtin) UnmarshalText(text []byte) error {
	parsed, err := ParseBuiltin(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// parseBuiltins resolves a list of builtin names, failing on the first unknown one.
func parseBuiltins(names []string) ([]Builtin, error) {
	builtins := make([]Builtin, 0, len(names))
	for _, name := range names {
		b, err := ParseBuiltin(name)
		if err != nil {
			return nil, err
		}
		builtins = append(builtins, b)
	}
	return builtins, nil
}

func builtinNamesOf(builtins []Builtin) []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.String()
	}
	return names
}
