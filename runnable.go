package casm

import (
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// TrackedResource is the unit a contract function's execution is billed in.
type TrackedResource uint8

const (
	// CairoSteps accounts VM steps and builtins (VM mode).
	CairoSteps TrackedResource = iota

	// SierraGas accounts gas as metered by the Sierra compiler (Sierra mode).
	SierraGas
)

// String returns the resource name.
func (r TrackedResource) String() string {
	switch r {
	case CairoSteps:
		return "CairoSteps"
	case SierraGas:
		return "SierraGas"
	default:
		return fmt.Sprintf("TrackedResource(%d)", uint8(r))
	}
}

// MarshalJSON encodes the resource by name.
func (r TrackedResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// GasVectorComputationMode selects which gas dimensions a transaction is charged for.
type GasVectorComputationMode uint8

const (
	// GasModeAll charges every dimension, including L2 gas.
	GasModeAll GasVectorComputationMode = iota

	// GasModeNoL2Gas charges L1 gas and L1 data gas only.
	GasModeNoL2Gas
)

// String returns the mode name.
func (m GasVectorComputationMode) String() string {
	if m == GasModeNoL2Gas {
		return "no-l2-gas"
	}
	return "all"
}

// ParseGasMode parses "all" or "no-l2-gas".
func ParseGasMode(s string) (GasVectorComputationMode, error) {
	switch s {
	case "all", "All":
		return GasModeAll, nil
	case "no-l2-gas", "NoL2Gas":
		return GasModeNoL2Gas, nil
	default:
		return 0, fmt.Errorf("casm: unknown gas computation mode %q", s)
	}
}

// ClassVariant identifies the variant held by a RunnableCompiledClass.
type ClassVariant uint8

const (
	// VariantV0 is a legacy Cairo 0 class.
	VariantV0 ClassVariant = iota

	// VariantV1 is a Cairo 1 class run by the VM.
	VariantV1

	// VariantNativeV1 is a Cairo 1 class run natively.
	VariantNativeV1
)

// String returns the variant name.
func (v ClassVariant) String() string {
	switch v {
	case VariantV0:
		return "V0"
	case VariantV1:
		return "V1"
	case VariantNativeV1:
		return "V1Native"
	default:
		return fmt.Sprintf("ClassVariant(%d)", uint8(v))
	}
}

// NativeExecutor runs a natively compiled Cairo 1 class. Implementations live
// outside this package.
type NativeExecutor interface {
	// ExecutorID identifies the compiled artifact, for equality and logging.
	ExecutorID() string
}

// NativeCompiledClassV1 is a Cairo 1 class compiled to native code. It keeps
// the CASM class it was compiled from, which answers the questions about
// bytecode the native artifact cannot.
type NativeCompiledClassV1 struct {
	executor NativeExecutor
	casm     *CompiledClassV1
}

// NewNativeCompiledClassV1 wraps a native executor together with its CASM class.
func NewNativeCompiledClassV1(executor NativeExecutor, casm *CompiledClassV1) *NativeCompiledClassV1 {
	return &NativeCompiledClassV1{executor: executor, casm: casm}
}

// Executor returns the native executor.
func (c *NativeCompiledClassV1) Executor() NativeExecutor {
	return c.executor
}

// CASM returns the CASM class the native class was compiled from.
func (c *NativeCompiledClassV1) CASM() *CompiledClassV1 {
	return c.casm
}

// RunnableCompiledClass is a class that can be run, either by the VM (V0, V1)
// or natively (NativeV1). It dispatches the class operations by variant; the
// wrapped class is shared, not copied.
//
// The zero value holds no class and is not usable.
type RunnableCompiledClass struct {
	variant ClassVariant
	v0      *CompiledClassV0
	v1      *CompiledClassV1
	native  *NativeCompiledClassV1
}

// RunnableV0 wraps a legacy class.
func RunnableV0(class *CompiledClassV0) RunnableCompiledClass {
	return RunnableCompiledClass{variant: VariantV0, v0: class}
}

// RunnableV1 wraps a Cairo 1 class.
func RunnableV1(class *CompiledClassV1) RunnableCompiledClass {
	return RunnableCompiledClass{variant: VariantV1, v1: class}
}

// RunnableNativeV1 wraps a natively compiled class.
func RunnableNativeV1(class *NativeCompiledClassV1) RunnableCompiledClass {
	return RunnableCompiledClass{variant: VariantNativeV1, native: class}
}

// Variant returns the variant held.
func (r RunnableCompiledClass) Variant() ClassVariant {
	return r.variant
}

// V0 returns the legacy class, if held.
func (r RunnableCompiledClass) V0() (*CompiledClassV0, bool) {
	return r.v0, r.variant == VariantV0 && r.v0 != nil
}

// V1 returns the Cairo 1 class, if held.
func (r RunnableCompiledClass) V1() (*CompiledClassV1, bool) {
	return r.v1, r.variant == VariantV1 && r.v1 != nil
}

// NativeV1 returns the native class, if held.
func (r RunnableCompiledClass) NativeV1() (*NativeCompiledClassV1, bool) {
	return r.native, r.variant == VariantNativeV1 && r.native != nil
}

// embeddedV1 returns the CASM class behind a V1 or NativeV1 variant.
func (r RunnableCompiledClass) embeddedV1() (*CompiledClassV1, bool) {
	switch r.variant {
	case VariantV1:
		return r.v1, r.v1 != nil
	case VariantNativeV1:
		if r.native != nil && r.native.casm != nil {
			return r.native.casm, true
		}
	}
	return nil, false
}

func (r RunnableCompiledClass) unsupported(op string) error {
	return &UnsupportedOperationError{Operation: op, Variant: r.variant}
}

// ConstructorSelector returns the selector of the first constructor, if any.
func (r RunnableCompiledClass) ConstructorSelector() (EntryPointSelector, bool) {
	if r.variant == VariantV0 && r.v0 != nil {
		return r.v0.ConstructorSelector()
	}
	if class, ok := r.embeddedV1(); ok {
		return class.ConstructorSelector()
	}
	return EntryPointSelector{}, false
}

// EntryPointPC returns the program counter of the entry point of the given
// kind and selector.
func (r RunnableCompiledClass) EntryPointPC(kind EntryPointType, selector EntryPointSelector) (int, error) {
	if r.variant == VariantV0 && r.v0 != nil {
		ep, err := r.v0.EntryPoint(kind, selector)
		return ep.Offset, err
	}
	if class, ok := r.embeddedV1(); ok {
		ep, err := class.EntryPoint(kind, selector)
		return ep.PC(), err
	}
	return 0, r.unsupported("entry point lookup")
}

// EstimateCasmHashComputationResources returns the estimated VM resources of
// computing the class hash. NativeV1 classes are estimated through their
// CASM class.
func (r RunnableCompiledClass) EstimateCasmHashComputationResources(opts ...EstimateOption) (ExecutionResources, error) {
	if r.variant == VariantV0 && r.v0 != nil {
		return r.v0.EstimateCasmHashComputationResources(), nil
	}
	if class, ok := r.embeddedV1(); ok {
		return class.EstimateCasmHashComputationResources(opts...)
	}
	return ExecutionResources{}, r.unsupported("casm hash cost estimation")
}

// VisitedSegments returns the start offsets of the segments visited according
// to visitedPCs. Only V1 classes carry a segmentation; other variants fail
// with ErrUnsupportedOperation.
func (r RunnableCompiledClass) VisitedSegments(visitedPCs mapset.Set[int]) ([]int, error) {
	if r.variant == VariantV1 && r.v1 != nil {
		return r.v1.VisitedSegments(visitedPCs)
	}
	return nil, r.unsupported("visited segments")
}

// BytecodeLength returns the number of words in the program data. It is not
// defined for NativeV1 classes.
func (r RunnableCompiledClass) BytecodeLength() (int, error) {
	switch {
	case r.variant == VariantV0 && r.v0 != nil:
		return r.v0.BytecodeLength(), nil
	case r.variant == VariantV1 && r.v1 != nil:
		return r.v1.BytecodeLength(), nil
	default:
		return 0, r.unsupported("bytecode length")
	}
}

// TrackedResource returns the resource a call into this class is billed in.
// Without L2 gas everything is billed in Cairo steps. Otherwise legacy classes
// use Cairo steps and Cairo 1 classes use Sierra gas if compiled by minVersion
// or later.
func (r RunnableCompiledClass) TrackedResource(minVersion CompilerVersion, mode GasVectorComputationMode) TrackedResource {
	if mode == GasModeNoL2Gas {
		return CairoSteps
	}
	if class, ok := r.embeddedV1(); ok {
		return class.TrackedResource(minVersion)
	}
	return CairoSteps
}

// ContractClass is a raw, not yet decoded class: legacy JSON for V0 or CASM
// JSON for V1.
type ContractClass struct {
	Variant ClassVariant
	Raw     json.RawMessage
}

// NewRunnableCompiledClass decodes a raw class into a runnable one.
func NewRunnableCompiledClass(class ContractClass, opts ...DecodeOption) (RunnableCompiledClass, error) {
	switch class.Variant {
	case VariantV0:
		v0, err := NewCompiledClassV0(class.Raw, opts...)
		if err != nil {
			return RunnableCompiledClass{}, err
		}
		return RunnableV0(v0), nil
	case VariantV1:
		v1, err := NewCompiledClassV1(class.Raw, opts...)
		if err != nil {
			return RunnableCompiledClass{}, err
		}
		return RunnableV1(v1), nil
	default:
		return RunnableCompiledClass{}, &UnsupportedOperationError{Operation: "decoding", Variant: class.Variant}
	}
}
