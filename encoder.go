package casm

import (
	"encoding/json"
)

// ToCASM encodes the class in its CASM JSON form. The result decodes to a
// class equal to c, though it need not be byte-identical to the JSON c was
// decoded from: field order and optional fields may differ.
func (c *CompiledClassV1) ToCASM() ([]byte, error) {
	wire, err := c.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// MarshalJSON encodes c in its CASM JSON form.
func (c *CompiledClassV1) MarshalJSON() ([]byte, error) {
	return c.ToCASM()
}

// wire projects the class back to its CASM wire form.
func (c *CompiledClassV1) wire() (*casmContractClass, error) {
	// Hints are regrouped by offset by resolving each program hint's canonical
	// text in the lookaside built at decode time.
	table := &hintTable{byOffset: c.program.hints, byCode: c.hints}
	hints, err := table.wire()
	if err != nil {
		return nil, err
	}

	version := c.compilerVersion.String()
	return &casmContractClass{
		Prime:                  c.program.PrimeHex(),
		CompilerVersion:        &version,
		Bytecode:               wordsOf(c.program.data),
		BytecodeSegmentLengths: &segmentLengths{tree: c.segments},
		Hints:                  hints,
		EntryPointsByType:      wireEntryPointsV1(&c.entryPoints),
	}, nil
}
