package casm

import (
	"errors"
	"fmt"
)

// EntryPointType is the kind of an entry point.
type EntryPointType uint8

const (
	// Constructor entry points run once, when a contract is deployed.
	Constructor EntryPointType = iota

	// External entry points are invoked by transactions and other contracts.
	External

	// L1Handler entry points consume messages sent from L1.
	L1Handler
)

// EntryPointTypes lists every entry point kind in wire order.
var EntryPointTypes = [...]EntryPointType{Constructor, External, L1Handler}

// String returns the wire name of the kind, e.g. "CONSTRUCTOR".
func (t EntryPointType) String() string {
	switch t {
	case Constructor:
		return "CONSTRUCTOR"
	case External:
		return "EXTERNAL"
	case L1Handler:
		return "L1_HANDLER"
	default:
		return fmt.Sprintf("EntryPointType(%d)", uint8(t))
	}
}

// HasSelector is implemented by entry point types of every class generation.
type HasSelector interface {
	EntryPointSelector() EntryPointSelector
}

// EntryPointV1 is an entry point of a Cairo 1 class.
type EntryPointV1 struct {
	Selector EntryPointSelector
	Offset   int
	Builtins []Builtin
}

// EntryPointSelector returns the entry point's selector.
func (ep EntryPointV1) EntryPointSelector() EntryPointSelector {
	return ep.Selector
}

// PC returns the program counter the entry point starts at.
func (ep EntryPointV1) PC() int {
	return ep.Offset
}

func (ep EntryPointV1) clone() EntryPointV1 {
	ep.Builtins = append([]Builtin(nil), ep.Builtins...)
	return ep
}

// EntryPointV0 is an entry point of a legacy Cairo 0 class.
type EntryPointV0 struct {
	Selector EntryPointSelector
	Offset   int
}

// EntryPointSelector returns the entry point's selector.
func (ep EntryPointV0) EntryPointSelector() EntryPointSelector {
	return ep.Selector
}

// EntryPointsByType holds a class's entry points, grouped by kind. Within one
// kind selectors are expected to be unique.
type EntryPointsByType[EP HasSelector] struct {
	Constructor []EP
	External    []EP
	L1Handler   []EP
}

// Of returns the entry points of the given kind.
func (e *EntryPointsByType[EP]) Of(kind EntryPointType) []EP {
	switch kind {
	case Constructor:
		return e.Constructor
	case External:
		return e.External
	case L1Handler:
		return e.L1Handler
	default:
		return nil
	}
}

// Len returns the total number of entry points across all kinds.
func (e *EntryPointsByType[EP]) Len() int {
	return len(e.Constructor) + len(e.External) + len(e.L1Handler)
}

// ConstructorSelector returns the selector of the first constructor, if any.
func (e *EntryPointsByType[EP]) ConstructorSelector() (EntryPointSelector, bool) {
	if len(e.Constructor) == 0 {
		return EntryPointSelector{}, false
	}
	return e.Constructor[0].EntryPointSelector(), true
}

// Lookup returns the single entry point of the given kind with the given
// selector. It fails with *EntryPointNotFoundError if there is none and with
// *DuplicatedEntryPointSelectorError if there are several; no tie-break is
// attempted.
func (e *EntryPointsByType[EP]) Lookup(kind EntryPointType, selector EntryPointSelector) (EP, error) {
	var (
		found EP
		n     int
	)
	for _, ep := range e.Of(kind) {
		if ep.EntryPointSelector() == selector {
			found = ep
			n++
		}
	}

	switch n {
	case 0:
		var zero EP
		return zero, &EntryPointNotFoundError{Selector: selector}
	case 1:
		return found, nil
	default:
		var zero EP
		return zero, &DuplicatedEntryPointSelectorError{Selector: selector, Kind: kind}
	}
}

// casmEntryPoint is the wire form of a Cairo 1 entry point.
type casmEntryPoint struct {
	Selector *bigWord `json:"selector"`
	Offset   int      `json:"offset"`
	Builtins []string `json:"builtins"`
}

// casmEntryPoints is the wire form of a Cairo 1 entry point table.
type casmEntryPoints struct {
	Constructor []casmEntryPoint `json:"CONSTRUCTOR"`
	External    []casmEntryPoint `json:"EXTERNAL"`
	L1Handler   []casmEntryPoint `json:"L1_HANDLER"`
}

func (w *casmEntryPoints) of(kind EntryPointType) *[]casmEntryPoint {
	switch kind {
	case Constructor:
		return &w.Constructor
	case External:
		return &w.External
	default:
		return &w.L1Handler
	}
}

func (e *EntryPointsByType[EP]) slot(kind EntryPointType) *[]EP {
	switch kind {
	case Constructor:
		return &e.Constructor
	case External:
		return &e.External
	default:
		return &e.L1Handler
	}
}

// convertEntryPointsV1 converts the wire entry points of every kind.
func convertEntryPointsV1(wire casmEntryPoints) (EntryPointsByType[EntryPointV1], error) {
	var out EntryPointsByType[EntryPointV1]
	for _, kind := range EntryPointTypes {
		src := *wire.of(kind)
		dst := make([]EntryPointV1, 0, len(src))
		for i, w := range src {
			ep, err := w.entryPoint()
			if err != nil {
				return out, wireError(fmt.Sprintf("entry_points_by_type.%s[%d]", kind, i), err)
			}
			dst = append(dst, ep)
		}
		*out.slot(kind) = dst
	}
	return out, nil
}

func (w casmEntryPoint) entryPoint() (EntryPointV1, error) {
	if w.Selector == nil {
		return EntryPointV1{}, errors.New("missing selector")
	}
	if w.Selector.big().Sign() < 0 {
		return EntryPointV1{}, errors.New("negative selector")
	}
	if w.Offset < 0 {
		return EntryPointV1{}, fmt.Errorf("negative offset %d", w.Offset)
	}
	selector, err := selectorFromWord(w.Selector.word())
	if err != nil {
		return EntryPointV1{}, err
	}
	builtins, err := parseBuiltins(w.Builtins)
	if err != nil {
		return EntryPointV1{}, err
	}
	return EntryPointV1{Selector: selector, Offset: w.Offset, Builtins: builtins}, nil
}

// wireEntryPointsV1 projects an entry point table back to its wire form.
func wireEntryPointsV1(e *EntryPointsByType[EntryPointV1]) casmEntryPoints {
	var out casmEntryPoints
	for _, kind := range EntryPointTypes {
		src := e.Of(kind)
		dst := make([]casmEntryPoint, len(src))
		for i, ep := range src {
			dst[i] = casmEntryPoint{
				Selector: newBigWord(ep.Selector.Word()),
				Offset:   ep.Offset,
				Builtins: builtinNamesOf(ep.Builtins),
			}
		}
		*out.of(kind) = dst
	}
	return out
}
