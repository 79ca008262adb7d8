package casm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionResourcesAdd(t *testing.T) {
	a := ExecutionResources{Steps: 10, MemoryHoles: 1, Builtins: map[Builtin]uint64{BuiltinPoseidon: 2}}
	b := ExecutionResources{Steps: 5, Builtins: map[Builtin]uint64{BuiltinPoseidon: 1, BuiltinPedersen: 4}}

	sum := a.Add(b)
	assert.Equal(t, uint64(15), sum.Steps)
	assert.Equal(t, uint64(1), sum.MemoryHoles)
	assert.Equal(t, map[Builtin]uint64{BuiltinPoseidon: 3, BuiltinPedersen: 4}, sum.Builtins)

	// Operands are left untouched.
	assert.Equal(t, uint64(2), a.Builtins[BuiltinPoseidon])
	assert.Len(t, b.Builtins, 2)
}

func TestExecutionResourcesIdentity(t *testing.T) {
	r := resources(7, 3, BuiltinBitwise, 9)
	var zero ExecutionResources

	assert.True(t, r.Add(zero).Equal(r))
	assert.True(t, zero.Add(r).Equal(r))
	assert.True(t, zero.Add(zero).Equal(zero))
}

func TestExecutionResourcesAssociative(t *testing.T) {
	a := resources(1, 2, BuiltinPoseidon, 3)
	b := resources(4, 0, BuiltinPedersen, 5)
	c := resources(6, 7, BuiltinPoseidon, 8)

	assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))
	assert.True(t, a.Add(b).Equal(b.Add(a)))
}

func TestExecutionResourcesAddInPlace(t *testing.T) {
	var r ExecutionResources
	r.AddInPlace(resources(3, 1, BuiltinPoseidon, 2))
	r.AddInPlace(resources(3, 1, BuiltinPoseidon, 2))
	r.AddInPlace(ExecutionResources{Steps: 1})

	assert.True(t, r.Equal(resources(7, 2, BuiltinPoseidon, 4)), "got %v", r)
}

func TestExecutionResourcesEqualIgnoresZeroCounts(t *testing.T) {
	a := ExecutionResources{Steps: 1, Builtins: map[Builtin]uint64{BuiltinKeccak: 0}}
	b := ExecutionResources{Steps: 1}

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(ExecutionResources{Steps: 2}))
}

func TestExecutionResourcesString(t *testing.T) {
	r := ExecutionResources{Steps: 8, MemoryHoles: 1, Builtins: map[Builtin]uint64{BuiltinPoseidon: 2, BuiltinPedersen: 3}}
	assert.Equal(t, "steps=8 holes=1 pedersen=3 poseidon=2", r.String())
}
