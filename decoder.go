package casm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// casmContractClass is the CASM wire form of a Cairo 1 compiled class.
type casmContractClass struct {
	Prime                  string          `json:"prime"`
	CompilerVersion        *string         `json:"compiler_version"`
	Bytecode               []*bigWord      `json:"bytecode"`
	BytecodeSegmentLengths *segmentLengths `json:"bytecode_segment_lengths,omitempty"`
	Hints                  casmHints       `json:"hints"`
	PythonicHints          json.RawMessage `json:"pythonic_hints,omitempty"`
	EntryPointsByType      casmEntryPoints `json:"entry_points_by_type"`
}

// NewCompiledClassV1 decodes a class from its CASM JSON form. Decoding is all
// or nothing: any malformed field fails the whole class with an error
// matching ErrMalformedWireFormat.
func NewCompiledClassV1(data []byte, opts ...DecodeOption) (*CompiledClassV1, error) {
	cfg := newDecodeConfig(opts)

	var wire casmContractClass
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, wireError("", err)
	}
	return decodeCompiledClassV1(&wire, cfg)
}

func decodeCompiledClassV1(wire *casmContractClass, cfg *decodeConfig) (*CompiledClassV1, error) {
	prime, err := parsePrime(wire.Prime, cfg.strictPrime)
	if err != nil {
		return nil, err
	}

	data, err := feltWords(wire.Bytecode, "bytecode")
	if err != nil {
		return nil, err
	}

	hints, err := newHintTable(wire.Hints)
	if err != nil {
		return nil, wireError("hints", err)
	}
	for offset := range hints.byOffset {
		if offset >= len(data) {
			return nil, wireError("hints", fmt.Errorf("hint offset %d is outside the bytecode (length %d)", offset, len(data)))
		}
	}

	entryPoints, err := convertEntryPointsV1(wire.EntryPointsByType)
	if err != nil {
		return nil, err
	}

	var segments SegmentTree
	if wire.BytecodeSegmentLengths != nil && wire.BytecodeSegmentLengths.tree != nil {
		segments = wire.BytecodeSegmentLengths.tree
		if n := segments.Len(); n != len(data) {
			return nil, wireError("bytecode_segment_lengths", fmt.Errorf("segments cover %d words, bytecode has %d", n, len(data)))
		}
	} else {
		// Classes compiled before segmentation are hashed as a single chain.
		segments = Leaf{Length: len(data)}
		log.Trace("Defaulted bytecode segmentation to a single leaf", "length", len(data))
	}

	version, err := decodeCompilerVersion(wire.CompilerVersion, cfg)
	if err != nil {
		return nil, err
	}

	program := &Program{
		prime:    prime,
		data:     data,
		builtins: []Builtin{}, // Initialized by the runner per entry point.
		hints:    hints.byOffset,
		main:     0,
	}
	class := &CompiledClassV1{
		program:         program,
		entryPoints:     entryPoints,
		hints:           hints.byCode,
		compilerVersion: version,
		segments:        segments,
	}

	log.Debug("Decoded compiled class",
		"version", version,
		"bytecode", len(data),
		"hints", hints.count(),
		"constructors", len(entryPoints.Constructor),
		"externals", len(entryPoints.External),
		"l1handlers", len(entryPoints.L1Handler),
		"segmented", isSegmented(segments))
	return class, nil
}

func decodeCompilerVersion(raw *string, cfg *decodeConfig) (CompilerVersion, error) {
	s := cfg.defaultCompilerVersion
	if raw != nil {
		s = *raw
	} else if s == "" {
		return CompilerVersion{}, wireError("compiler_version", errors.New("missing compiler version"))
	}
	version, err := ParseCompilerVersion(s)
	if err != nil {
		return CompilerVersion{}, wireError("compiler_version", err)
	}
	return version, nil
}

func isSegmented(tree SegmentTree) bool {
	_, ok := tree.(Node)
	return ok
}

// UnmarshalJSON decodes c from its CASM JSON form.
func (c *CompiledClassV1) UnmarshalJSON(data []byte) error {
	decoded, err := NewCompiledClassV1(data)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
