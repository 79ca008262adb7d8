package casm

import "fmt"

// Constants of the Cairo 0 (Pedersen) class hash cost model.
const (
	// Cairo0EntryPointStructSize is the number of felts hashed per legacy entry point.
	Cairo0EntryPointStructSize = 2

	// StepsPerPedersen is the number of VM steps per Pedersen hash invocation.
	StepsPerPedersen = 8
)

// Measured costs of the Cairo 1 (Poseidon) class hash computation. These were
// obtained by running the hashing code over several segmentations.
var (
	leafBaseCost   = resources(463, 0, BuiltinPoseidon, 10)
	nodeBaseCost   = resources(480, 0, BuiltinPoseidon, 11)
	perSegmentCost = resources(24, 1, BuiltinPoseidon, 1)
)

// PoseidonHashManyCost returns the VM resources required to hash length field
// elements with poseidon_hash_many.
func PoseidonHashManyCost(length int) ExecutionResources {
	n := uint64(max(length, 0))
	return resources((n/10)*288+36, 0, BuiltinPoseidon, n/2+1)
}

// EstimateCasmHashResources returns the estimated VM resources of computing
// the compiled class hash for a bytecode with the given segmentation. Only
// the bytecode is accounted for; entry points are ignored as they are not the
// dominant factor.
//
// A single leaf is hashed as one chain. A node is hashed per segment, and each
// of its children must be a leaf: deeper segmentation fails with
// ErrUnsupportedSegmentDepth.
func EstimateCasmHashResources(tree SegmentTree, opts ...EstimateOption) (ExecutionResources, error) {
	cfg := newEstimateConfig(opts)

	switch seg := tree.(type) {
	case Leaf:
		return leafBaseCost.Add(cfg.poseidonCost(seg.Length)), nil

	case Node:
		total := nodeBaseCost.Add(ExecutionResources{})
		for i, child := range seg.Children {
			leaf, ok := child.(Leaf)
			if !ok {
				return ExecutionResources{}, fmt.Errorf("%w: child %d is a %T", ErrUnsupportedSegmentDepth, i, child)
			}
			total.AddInPlace(cfg.poseidonCost(leaf.Length))
			total.AddInPlace(perSegmentCost)
		}
		return total, nil

	default:
		return ExecutionResources{}, fmt.Errorf("casm: unknown segment type %T", tree)
	}
}
