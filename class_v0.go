package casm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
)

// CompiledClassV0 is a runnable legacy Cairo 0 class. It is always accounted
// in Cairo steps and has no bytecode segmentation. Like CompiledClassV1 it is
// immutable and safe to share.
type CompiledClassV0 struct {
	program     *Program
	entryPoints EntryPointsByType[EntryPointV0]
}

// NewCompiledClassV0FromProgram assembles a legacy class from its parts.
func NewCompiledClassV0FromProgram(program *Program, entryPoints EntryPointsByType[EntryPointV0]) *CompiledClassV0 {
	if program == nil {
		program = NewProgram(nil, nil, nil, nil)
	}
	return &CompiledClassV0{
		program: program,
		entryPoints: EntryPointsByType[EntryPointV0]{
			Constructor: slices.Clone(entryPoints.Constructor),
			External:    slices.Clone(entryPoints.External),
			L1Handler:   slices.Clone(entryPoints.L1Handler),
		},
	}
}

// Program returns the class program.
func (c *CompiledClassV0) Program() *Program {
	return c.program
}

// EntryPoints returns a copy of the class entry points.
func (c *CompiledClassV0) EntryPoints() EntryPointsByType[EntryPointV0] {
	return EntryPointsByType[EntryPointV0]{
		Constructor: slices.Clone(c.entryPoints.Constructor),
		External:    slices.Clone(c.entryPoints.External),
		L1Handler:   slices.Clone(c.entryPoints.L1Handler),
	}
}

// EntryPoint returns the entry point of the given kind and selector.
func (c *CompiledClassV0) EntryPoint(kind EntryPointType, selector EntryPointSelector) (EntryPointV0, error) {
	return c.entryPoints.Lookup(kind, selector)
}

// ConstructorSelector returns the selector of the first constructor, if any.
func (c *CompiledClassV0) ConstructorSelector() (EntryPointSelector, bool) {
	return c.entryPoints.ConstructorSelector()
}

// NEntryPoints returns the number of entry points across all kinds.
func (c *CompiledClassV0) NEntryPoints() int {
	return c.entryPoints.Len()
}

// NBuiltins returns the number of builtins the program declares.
func (c *CompiledClassV0) NBuiltins() int {
	return c.program.BuiltinsLen()
}

// BytecodeLength returns the number of words in the program data.
func (c *CompiledClassV0) BytecodeLength() int {
	return c.program.DataLen()
}

// TrackedResource is always CairoSteps for legacy classes.
func (c *CompiledClassV0) TrackedResource() TrackedResource {
	return CairoSteps
}

// EstimateCasmHashComputationResources returns the estimated VM resources of
// computing the class hash. Legacy classes are hashed with Pedersen hash
// chains, so the cost is proportional to the number of hashed words.
func (c *CompiledClassV0) EstimateCasmHashComputationResources() ExecutionResources {
	hashed := uint64(Cairo0EntryPointStructSize*c.NEntryPoints() + c.NBuiltins() + c.BytecodeLength() + 1) // +1 for the hinted class hash.
	return resources(StepsPerPedersen*hashed, 0, BuiltinPedersen, hashed)
}

// DeprecatedProgram is the legacy wire form of a Cairo 0 program.
type DeprecatedProgram struct {
	Attributes       json.RawMessage         `json:"attributes,omitempty"`
	Builtins         []string                `json:"builtins"`
	CompilerVersion  string                  `json:"compiler_version,omitempty"`
	Data             []string                `json:"data"`
	DebugInfo        json.RawMessage         `json:"debug_info"`
	Hints            map[string][]HintParams `json:"hints"`
	Identifiers      json.RawMessage         `json:"identifiers"`
	MainScope        string                  `json:"main_scope"`
	Prime            string                  `json:"prime"`
	ReferenceManager json.RawMessage         `json:"reference_manager"`
}

// legacyMetadata holds the legacy program fields that execution ignores.
type legacyMetadata struct {
	attributes       json.RawMessage
	compilerVersion  string
	debugInfo        json.RawMessage
	identifiers      json.RawMessage
	mainScope        string
	referenceManager json.RawMessage
}

// LegacyProgramConverter converts between the legacy program schema and the
// runnable Program. Interpreting legacy programs is out of scope for this
// package; a converter only re-shapes them.
type LegacyProgramConverter interface {
	ToProgram(DeprecatedProgram) (*Program, error)
	FromProgram(*Program) (DeprecatedProgram, error)
}

// DefaultLegacyConverter re-shapes a legacy program into a Program, keeping
// the execution-irrelevant fields aside so they can be written back.
type DefaultLegacyConverter struct {
	// AllowForeignPrime accepts programs declared over a prime other than the
	// Stark prime. WithStrictPrime(false) sets it on the default converter.
	AllowForeignPrime bool
}

// ToProgram implements LegacyProgramConverter.
func (c DefaultLegacyConverter) ToProgram(dp DeprecatedProgram) (*Program, error) {
	prime, err := parsePrime(dp.Prime, !c.AllowForeignPrime)
	if err != nil {
		return nil, err
	}
	data := make([]Felt, len(dp.Data))
	for i, word := range dp.Data {
		if data[i], err = FeltFromString(word); err != nil {
			return nil, wireError(fmt.Sprintf("program.data[%d]", i), err)
		}
	}
	builtins, err := parseBuiltins(dp.Builtins)
	if err != nil {
		return nil, wireError("program.builtins", err)
	}
	hints := make(map[int][]HintParams, len(dp.Hints))
	for key, params := range dp.Hints {
		offset, err := strconv.Atoi(key)
		if err != nil || offset < 0 {
			return nil, wireError("program.hints", fmt.Errorf("invalid offset %q", key))
		}
		hints[offset] = cloneHintParams(params)
	}
	return &Program{
		prime:    prime,
		data:     data,
		builtins: builtins,
		hints:    hints,
		legacy: &legacyMetadata{
			attributes:       dp.Attributes,
			compilerVersion:  dp.CompilerVersion,
			debugInfo:        dp.DebugInfo,
			identifiers:      dp.Identifiers,
			mainScope:        dp.MainScope,
			referenceManager: dp.ReferenceManager,
		},
	}, nil
}

// FromProgram implements LegacyProgramConverter.
func (DefaultLegacyConverter) FromProgram(p *Program) (DeprecatedProgram, error) {
	hints := make(map[string][]HintParams, len(p.hints))
	for _, offset := range slices.Sorted(maps.Keys(p.hints)) {
		hints[strconv.Itoa(offset)] = cloneHintParams(p.hints[offset])
	}
	dp := DeprecatedProgram{
		Builtins: builtinNamesOf(p.builtins),
		Data:     make([]string, len(p.data)),
		Hints:    hints,
		Prime:    p.PrimeHex(),
	}
	for i := range p.data {
		dp.Data[i] = FeltHex(&p.data[i])
	}
	if md := p.legacy; md != nil {
		dp.Attributes = md.attributes
		dp.CompilerVersion = md.compilerVersion
		dp.DebugInfo = md.debugInfo
		dp.Identifiers = md.identifiers
		dp.MainScope = md.mainScope
		dp.ReferenceManager = md.referenceManager
	}
	if dp.DebugInfo == nil {
		dp.DebugInfo = json.RawMessage("null")
	}
	if dp.Identifiers == nil {
		dp.Identifiers = json.RawMessage("{}")
	}
	if dp.ReferenceManager == nil {
		dp.ReferenceManager = json.RawMessage(`{"references":[]}`)
	}
	return dp, nil
}

// legacyOffset is a legacy entry point offset: a hex string or a bare number.
type legacyOffset int

func (o *legacyOffset) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("empty entry point offset")
	}
	v, ok := math.ParseUint64(s)
	if !ok || v > uint64(^uint(0)>>1) {
		return fmt.Errorf("invalid entry point offset %s", data)
	}
	*o = legacyOffset(v)
	return nil
}

func (o legacyOffset) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.EncodeUint64(uint64(o)))
}

type legacyEntryPoint struct {
	Selector *bigWord     `json:"selector"`
	Offset   legacyOffset `json:"offset"`
}

type legacyEntryPoints struct {
	Constructor []legacyEntryPoint `json:"CONSTRUCTOR"`
	External    []legacyEntryPoint `json:"EXTERNAL"`
	L1Handler   []legacyEntryPoint `json:"L1_HANDLER"`
}

func (w *legacyEntryPoints) of(kind EntryPointType) *[]legacyEntryPoint {
	switch kind {
	case Constructor:
		return &w.Constructor
	case External:
		return &w.External
	default:
		return &w.L1Handler
	}
}

// deprecatedContractClass is the legacy wire form of a Cairo 0 class. The abi
// field is not needed for execution and is dropped on decode.
type deprecatedContractClass struct {
	EntryPointsByType legacyEntryPoints `json:"entry_points_by_type"`
	Program           DeprecatedProgram `json:"program"`
}

// NewCompiledClassV0 decodes a class from the legacy contract class JSON.
// The program is converted by the configured LegacyProgramConverter.
func NewCompiledClassV0(data []byte, opts ...DecodeOption) (*CompiledClassV0, error) {
	cfg := newDecodeConfig(opts)

	var wire deprecatedContractClass
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, wireError("", err)
	}

	program, err := cfg.legacyConverter.ToProgram(wire.Program)
	if err != nil {
		return nil, wireError("program", err)
	}

	var entryPoints EntryPointsByType[EntryPointV0]
	for _, kind := range EntryPointTypes {
		src := *wire.EntryPointsByType.of(kind)
		dst := make([]EntryPointV0, 0, len(src))
		for i, w := range src {
			if w.Selector == nil || w.Selector.big().Sign() < 0 {
				return nil, wireError(fmt.Sprintf("entry_points_by_type.%s[%d]", kind, i), errors.New("missing or negative selector"))
			}
			selector, err := selectorFromWord(w.Selector.word())
			if err != nil {
				return nil, wireError(fmt.Sprintf("entry_points_by_type.%s[%d]", kind, i), err)
			}
			dst = append(dst, EntryPointV0{Selector: selector, Offset: int(w.Offset)})
		}
		*entryPoints.slot(kind) = dst
	}

	log.Debug("Decoded legacy class",
		"bytecode", program.DataLen(),
		"builtins", program.BuiltinsLen(),
		"entrypoints", entryPoints.Len())
	return &CompiledClassV0{program: program, entryPoints: entryPoints}, nil
}

// MarshalJSON encodes the class in the legacy contract class JSON, with an
// empty abi.
func (c *CompiledClassV0) MarshalJSON() ([]byte, error) {
	return c.marshal(DefaultLegacyConverter{})
}

// MarshalLegacyJSON is like MarshalJSON but converts the program with converter.
func (c *CompiledClassV0) MarshalLegacyJSON(converter LegacyProgramConverter) ([]byte, error) {
	return c.marshal(converter)
}

func (c *CompiledClassV0) marshal(converter LegacyProgramConverter) ([]byte, error) {
	program, err := converter.FromProgram(c.program)
	if err != nil {
		return nil, err
	}

	var entryPoints legacyEntryPoints
	for _, kind := range EntryPointTypes {
		src := c.entryPoints.Of(kind)
		dst := make([]legacyEntryPoint, len(src))
		for i, ep := range src {
			dst[i] = legacyEntryPoint{Selector: newBigWord(ep.Selector.Word()), Offset: legacyOffset(ep.Offset)}
		}
		*entryPoints.of(kind) = dst
	}

	return json.Marshal(struct {
		ABI               []json.RawMessage `json:"abi"`
		EntryPointsByType legacyEntryPoints `json:"entry_points_by_type"`
		Program           DeprecatedProgram `json:"program"`
	}{
		ABI:               []json.RawMessage{},
		EntryPointsByType: entryPoints,
		Program:           program,
	})
}

// Equal reports whether c and other describe the same class.
func (c *CompiledClassV0) Equal(other *CompiledClassV0) bool {
	if c == nil || other == nil {
		return c == other
	}
	if !programsEqual(c.program, other.program) {
		return false
	}
	for _, kind := range EntryPointTypes {
		if !slices.Equal(c.entryPoints.Of(kind), other.entryPoints.Of(kind)) {
			return false
		}
	}
	return true
}
