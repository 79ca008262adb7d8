package casm

import (
	"fmt"
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// CompiledClassV1 is a runnable Cairo 1 class: a CASM program, its entry
// points, the hint lookaside, the compiler version and the bytecode
// segmentation. A CompiledClassV1 is never mutated after construction, so a
// single instance may be shared by any number of concurrent executions.
type CompiledClassV1 struct {
	program         *Program
	entryPoints     EntryPointsByType[EntryPointV1]
	hints           map[string]Hint
	compilerVersion CompilerVersion
	segments        SegmentTree
}

// NewCompiledClassV1FromProgram assembles a class from already-decoded parts.
// Hints referenced by the program must be present in hints, keyed by their
// canonical text. A nil segments defaults to one leaf spanning the program;
// otherwise the segments must cover the program data exactly.
func NewCompiledClassV1FromProgram(
	program *Program,
	entryPoints EntryPointsByType[EntryPointV1],
	hints []Hint,
	compilerVersion CompilerVersion,
	segments SegmentTree,
) (*CompiledClassV1, error) {
	if program == nil {
		program = NewProgram(nil, nil, nil, nil)
	}
	if segments == nil {
		segments = Leaf{Length: program.DataLen()}
	}
	if n := segments.Len(); n != program.DataLen() {
		return nil, wireError("bytecode_segment_lengths", fmt.Errorf("segments cover %d words, bytecode has %d", n, program.DataLen()))
	}
	byCode := make(map[string]Hint, len(hints))
	for _, hint := range hints {
		byCode[hint.Code()] = hint
	}
	return &CompiledClassV1{
		program:         program,
		entryPoints:     cloneEntryPointsV1(&entryPoints),
		hints:           byCode,
		compilerVersion: compilerVersion,
		segments:        segments,
	}, nil
}

// Program returns the class program.
func (c *CompiledClassV1) Program() *Program {
	return c.program
}

// EntryPoints returns a copy of the class entry points.
func (c *CompiledClassV1) EntryPoints() EntryPointsByType[EntryPointV1] {
	return cloneEntryPointsV1(&c.entryPoints)
}

// EntryPoint returns the entry point of the given kind and selector.
func (c *CompiledClassV1) EntryPoint(kind EntryPointType, selector EntryPointSelector) (EntryPointV1, error) {
	ep, err := c.entryPoints.Lookup(kind, selector)
	if err != nil {
		return EntryPointV1{}, err
	}
	return ep.clone(), nil
}

// ConstructorSelector returns the selector of the first constructor, if any.
func (c *CompiledClassV1) ConstructorSelector() (EntryPointSelector, bool) {
	return c.entryPoints.ConstructorSelector()
}

// BytecodeLength returns the number of words in the program data.
func (c *CompiledClassV1) BytecodeLength() int {
	return c.program.DataLen()
}

// BytecodeSegmentLengths returns the bytecode segmentation. Callers must not
// modify the returned tree.
func (c *CompiledClassV1) BytecodeSegmentLengths() SegmentTree {
	return c.segments
}

// CompilerVersion returns the version of the compiler that produced the class.
func (c *CompiledClassV1) CompilerVersion() CompilerVersion {
	return c.compilerVersion
}

// HintByCode resolves a hint by its canonical text.
func (c *CompiledClassV1) HintByCode(code string) (Hint, bool) {
	hint, ok := c.hints[code]
	return hint, ok
}

// HintsLen returns the number of distinct hints in the class.
func (c *CompiledClassV1) HintsLen() int {
	return len(c.hints)
}

// TrackedResource returns SierraGas if the class was compiled by minVersion or
// later, and CairoSteps otherwise.
func (c *CompiledClassV1) TrackedResource(minVersion CompilerVersion) TrackedResource {
	if c.compilerVersion.AtLeast(minVersion) {
		return SierraGas
	}
	return CairoSteps
}

// EstimateCasmHashComputationResources returns the estimated VM resources of
// computing the class's compiled class hash. The bytecode length is the
// dominant factor.
func (c *CompiledClassV1) EstimateCasmHashComputationResources(opts ...EstimateOption) (ExecutionResources, error) {
	return EstimateCasmHashResources(c.segments, opts...)
}

// VisitedSegments returns the start offsets of the segments visited according
// to visitedPCs. Each visited segment must have its starting PC visited, and
// is represented by it.
func (c *CompiledClassV1) VisitedSegments(visitedPCs mapset.Set[int]) ([]int, error) {
	return VisitedSegments(c.segments, visitedPCs)
}

// Equal reports whether c and other describe the same class.
func (c *CompiledClassV1) Equal(other *CompiledClassV1) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.compilerVersion == other.compilerVersion &&
		programsEqual(c.program, other.program) &&
		entryPointsV1Equal(&c.entryPoints, &other.entryPoints) &&
		maps.EqualFunc(c.hints, other.hints, func(a, b Hint) bool { return a.Code() == b.Code() }) &&
		SegmentTreesEqual(c.segments, other.segments)
}

func programsEqual(a, b *Program) bool {
	if a.prime.Cmp(b.prime) != 0 || a.main != b.main {
		return false
	}
	if !slices.Equal(a.data, b.data) || !slices.Equal(a.builtins, b.builtins) {
		return false
	}
	return maps.EqualFunc(a.hints, b.hints, func(x, y []HintParams) bool {
		return slices.EqualFunc(x, y, func(p, q HintParams) bool {
			return p.Code == q.Code && slices.Equal(p.AccessibleScopes, q.AccessibleScopes) &&
				p.FlowTrackingData.APTracking == q.FlowTrackingData.APTracking &&
				maps.Equal(p.FlowTrackingData.ReferenceIDs, q.FlowTrackingData.ReferenceIDs)
		})
	})
}

func entryPointsV1Equal(a, b *EntryPointsByType[EntryPointV1]) bool {
	for _, kind := range EntryPointTypes {
		if !slices.EqualFunc(a.Of(kind), b.Of(kind), func(x, y EntryPointV1) bool {
			return x.Selector == y.Selector && x.Offset == y.Offset && slices.Equal(x.Builtins, y.Builtins)
		}) {
			return false
		}
	}
	return true
}

func cloneEntryPointsV1(e *EntryPointsByType[EntryPointV1]) EntryPointsByType[EntryPointV1] {
	var out EntryPointsByType[EntryPointV1]
	for _, kind := range EntryPointTypes {
		src := e.Of(kind)
		dst := make([]EntryPointV1, len(src))
		for i, ep := range src {
			dst[i] = ep.clone()
		}
		*out.slot(kind) = dst
	}
	return out
}
