package casm

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ExecutionResources estimates the VM resources of a computation. Values only
// accumulate: the zero value is the identity and Add is pointwise.
type ExecutionResources struct {
	Steps       uint64             `json:"n_steps"`
	MemoryHoles uint64             `json:"n_memory_holes"`
	Builtins    map[Builtin]uint64 `json:"builtin_instance_counter"`
}

// Add returns the pointwise sum of r and other. Neither operand is modified.
func (r ExecutionResources) Add(other ExecutionResources) ExecutionResources {
	sum := ExecutionResources{
		Steps:       r.Steps + other.Steps,
		MemoryHoles: r.MemoryHoles + other.MemoryHoles,
		Builtins:    make(map[Builtin]uint64, len(r.Builtins)+len(other.Builtins)),
	}
	for b, n := range r.Builtins {
		sum.Builtins[b] += n
	}
	for b, n := range other.Builtins {
		sum.Builtins[b] += n
	}
	return sum
}

// AddInPlace accumulates other into r.
func (r *ExecutionResources) AddInPlace(other ExecutionResources) {
	r.Steps += other.Steps
	r.MemoryHoles += other.MemoryHoles
	if len(other.Builtins) == 0 {
		return
	}
	if r.Builtins == nil {
		r.Builtins = make(map[Builtin]uint64, len(other.Builtins))
	}
	for b, n := range other.Builtins {
		r.Builtins[b] += n
	}
}

// Equal reports whether r and other describe the same usage. Builtins with a
// zero count are treated as absent.
func (r ExecutionResources) Equal(other ExecutionResources) bool {
	if r.Steps != other.Steps || r.MemoryHoles != other.MemoryHoles {
		return false
	}
	for b, n := range r.Builtins {
		if other.Builtins[b] != n {
			return false
		}
	}
	for b, n := range other.Builtins {
		if r.Builtins[b] != n {
			return false
		}
	}
	return true
}

// String returns a compact, deterministic description.
func (r ExecutionResources) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "steps=%d holes=%d", r.Steps, r.MemoryHoles)
	for _, b := range slices.Sorted(maps.Keys(r.Builtins)) {
		fmt.Fprintf(&sb, " %s=%d", b, r.Builtins[b])
	}
	return sb.String()
}

func resources(steps, holes uint64, builtin Builtin, count uint64) ExecutionResources {
	return ExecutionResources{
		Steps:       steps,
		MemoryHoles: holes,
		Builtins:    map[Builtin]uint64{builtin: count},
	}
}
