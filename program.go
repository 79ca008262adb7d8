package casm

import (
	"maps"
	"math/big"
	"slices"
)

// Program is the flat, VM-runnable form of a class's code: the data array of
// field elements together with the metadata the VM needs to run it.
// A Program is immutable once built; accessors return copies.
type Program struct {
	prime    *big.Int
	data     []Felt
	builtins []Builtin
	hints    map[int][]HintParams
	main     int

	// legacy carries the Cairo 0 program fields that play no part in
	// execution, so a legacy class can be written back out.
	legacy *legacyMetadata
}

// NewProgram returns a program over data. A nil prime selects the Stark prime.
func NewProgram(prime *big.Int, data []Felt, builtins []Builtin, hints map[int][]HintParams) *Program {
	if prime == nil {
		prime = FieldPrime()
	}
	p := &Program{
		prime:    new(big.Int).Set(prime),
		data:     slices.Clone(data),
		builtins: slices.Clone(builtins),
		hints:    make(map[int][]HintParams, len(hints)),
	}
	for offset, params := range hints {
		p.hints[offset] = cloneHintParams(params)
	}
	return p
}

// Prime returns the modulus of the field the program is written over.
func (p *Program) Prime() *big.Int {
	return new(big.Int).Set(p.prime)
}

// PrimeHex returns the prime as a 0x-prefixed hex string.
func (p *Program) PrimeHex() string {
	return "0x" + p.prime.Text(16)
}

// DataLen returns the number of words in the program data.
func (p *Program) DataLen() int {
	return len(p.data)
}

// DataAt returns the i-th program word.
func (p *Program) DataAt(i int) Felt {
	return p.data[i]
}

// Data returns a copy of the program data.
func (p *Program) Data() []Felt {
	return slices.Clone(p.data)
}

// Builtins returns the builtins the program declares.
func (p *Program) Builtins() []Builtin {
	return slices.Clone(p.builtins)
}

// BuiltinsLen returns the number of declared builtins.
func (p *Program) BuiltinsLen() int {
	return len(p.builtins)
}

// HintsAt returns a copy of the hints attached to offset.
func (p *Program) HintsAt(offset int) []HintParams {
	return cloneHintParams(p.hints[offset])
}

// HintOffsets returns the offsets that carry hints, in ascending order.
func (p *Program) HintOffsets() []int {
	return slices.Sorted(maps.Keys(p.hints))
}

// Main returns the entry offset of the program.
func (p *Program) Main() int {
	return p.main
}
