package casm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// bigWord is an unsigned integer of at most 256 bits on the wire. It decodes
// from a 0x-prefixed hex string, a decimal string or a bare JSON number, and
// always encodes as a 0x-prefixed hex string.
type bigWord struct {
	math.HexOrDecimal256
}

func newBigWord(w *uint256.Int) *bigWord {
	return newBigWordFromBig(w.ToBig())
}

func newBigWordFromBig(b *big.Int) *bigWord {
	return &bigWord{math.HexOrDecimal256(*b)}
}

func (w *bigWord) big() *big.Int {
	return (*big.Int)(&w.HexOrDecimal256)
}

func (w *bigWord) word() *uint256.Int {
	u, _ := uint256.FromBig(w.big())
	return u
}

func (w *bigWord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		// Bare numbers are decimal.
		return w.UnmarshalText(data)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return errors.New("empty integer")
	}
	return w.UnmarshalText([]byte(s))
}

func (w bigWord) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.EncodeBig(w.big()))
}

// feltWords converts wire words to field elements, rejecting any word at or
// above the field prime.
func feltWords(words []*bigWord, field string) ([]Felt, error) {
	prime := FieldPrime()
	felts := make([]Felt, len(words))
	for i, w := range words {
		if w == nil {
			return nil, wireError(fmt.Sprintf("%s[%d]", field, i), errors.New("missing value"))
		}
		if w.big().Sign() < 0 || w.big().Cmp(prime) >= 0 {
			return nil, wireError(fmt.Sprintf("%s[%d]", field, i), fmt.Errorf("value %s is not a field element", hexutil.EncodeBig(w.big())))
		}
		felts[i] = FeltFromBig(w.big())
	}
	return felts, nil
}

// wordsOf converts field elements back to wire words.
func wordsOf(felts []Felt) []*bigWord {
	words := make([]*bigWord, len(felts))
	for i := range felts {
		words[i] = newBigWordFromBig(feltToBig(&felts[i]))
	}
	return words
}

// parsePrime parses the wire prime and, if strict, checks it is the Stark prime.
func parsePrime(s string, strict bool) (*big.Int, error) {
	prime, ok := math.ParseBig256(s)
	if !ok || prime.Sign() <= 0 {
		return nil, wireError("prime", fmt.Errorf("invalid prime %q", s))
	}
	if strict && prime.Cmp(FieldPrime()) != 0 {
		return nil, wireError("prime", fmt.Errorf("prime %s is not the Stark field prime", hexutil.EncodeBig(prime)))
	}
	return prime, nil
}
