package casm

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// Felt is an element of the Stark prime field, the VM's word type.
type Felt = fp.Element

// FieldPrime returns the modulus of the Stark prime field.
func FieldPrime() *big.Int {
	return fp.Modulus()
}

// FeltFromBig reduces b into the field.
func FeltFromBig(b *big.Int) Felt {
	var f Felt
	f.SetBigInt(b)
	return f
}

// FeltFromUint64 returns v as a field element.
func FeltFromUint64(v uint64) Felt {
	var f Felt
	f.SetUint64(v)
	return f
}

// FeltFromString parses a 0x-prefixed hex or a decimal string into a field
// element. Values at or above the field prime are rejected.
func FeltFromString(s string) (Felt, error) {
	b, ok := math.ParseBig256(s)
	if !ok || s == "" || b.Sign() < 0 {
		return Felt{}, fmt.Errorf("invalid field element %q", s)
	}
	if b.Cmp(fp.Modulus()) >= 0 {
		return Felt{}, fmt.Errorf("field element %q exceeds the field prime", s)
	}
	return FeltFromBig(b), nil
}

// FeltHex returns f as a 0x-prefixed hex string.
func FeltHex(f *Felt) string {
	return "0x" + f.Text(16)
}

// feltToBig returns the canonical integer value of f.
func feltToBig(f *Felt) *big.Int {
	return f.BigInt(new(big.Int))
}

// EntryPointSelector identifies a function within a class.
type EntryPointSelector Felt

// SelectorFromUint64 returns v as an entry point selector.
func SelectorFromUint64(v uint64) EntryPointSelector {
	return EntryPointSelector(FeltFromUint64(v))
}

// SelectorFromHex parses a hex selector such as "0x1a2b".
func SelectorFromHex(s string) (EntryPointSelector, error) {
	f, err := FeltFromString(s)
	if err != nil {
		return EntryPointSelector{}, err
	}
	return EntryPointSelector(f), nil
}

// selectorFromWord converts a 256-bit big-endian word into a selector.
func selectorFromWord(w *uint256.Int) (EntryPointSelector, error) {
	if w.ToBig().Cmp(fp.Modulus()) >= 0 {
		return EntryPointSelector{}, fmt.Errorf("selector %s exceeds the field prime", w.Hex())
	}
	b := w.Bytes32()
	var f Felt
	f.SetBytes(b[:])
	return EntryPointSelector(f), nil
}

// Word returns the selector as a 256-bit big-endian word.
func (s EntryPointSelector) Word() *uint256.Int {
	f := Felt(s)
	b := f.Bytes()
	return new(uint256.Int).SetBytes32(b[:])
}

// String returns the selector in 0x-prefixed hex.
func (s EntryPointSelector) String() string {
	f := Felt(s)
	return FeltHex(&f)
}
