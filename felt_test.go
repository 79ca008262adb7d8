package casm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const starkPrimeHex = "0x800000000000011000000000000000000000000000000000000000000000001"

func TestFieldPrime(t *testing.T) {
	want, ok := new(big.Int).SetString(starkPrimeHex[2:], 16)
	require.True(t, ok)
	assert.Equal(t, 0, FieldPrime().Cmp(want))
}

func TestFeltFromString(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0x0", 0},
		{"0x1f", 31},
		{"31", 31},
		{"0X1F", 31},
	}
	for _, tt := range tests {
		f, err := FeltFromString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, FeltFromUint64(tt.want), f, tt.in)
	}

	for _, in := range []string{"", "0xzz", "-1", starkPrimeHex} {
		_, err := FeltFromString(in)
		assert.Error(t, err, in)
	}
}

func TestFeltHex(t *testing.T) {
	f := FeltFromUint64(0xdead)
	assert.Equal(t, "0xdead", FeltHex(&f))

	var zero Felt
	assert.Equal(t, "0x0", FeltHex(&zero))
}

func TestSelectorWord(t *testing.T) {
	sel, err := SelectorFromHex("0x15d40a3d6ca2ac30f4031e42be28da9b056fef9bb7357ac5e85627ee876e5ad")
	require.NoError(t, err)

	back, err := selectorFromWord(sel.Word())
	require.NoError(t, err)
	assert.Equal(t, sel, back)
	assert.Equal(t, "0x15d40a3d6ca2ac30f4031e42be28da9b056fef9bb7357ac5e85627ee876e5ad", sel.String())
}

func TestSelectorFromWordRejectsPrime(t *testing.T) {
	prime := newBigWordFromBig(FieldPrime())
	_, err := selectorFromWord(prime.word())
	assert.Error(t, err)
}
