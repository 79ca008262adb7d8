package casm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
)

// SegmentTree describes how a class's flat bytecode is partitioned into
// (possibly nested) contiguous segments.
// This is a sealed interface - only Leaf and Node implement it.
type SegmentTree interface {
	// isSegment is unexported to seal the interface.
	isSegment()

	// Len returns the number of bytecode words the segment spans.
	Len() int
}

// Leaf is a single contiguous run of bytecode.
type Leaf struct {
	Length int
}

func (Leaf) isSegment() {}

// Len returns the leaf length.
func (l Leaf) Len() int {
	return l.Length
}

// MarshalJSON encodes a leaf as a bare integer.
func (l Leaf) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(l.Length)), nil
}

// Node is an ordered sequence of child segments whose ranges, concatenated,
// form the node's range.
type Node struct {
	Children []SegmentTree
}

func (Node) isSegment() {}

// Len returns the sum of the children's lengths.
func (n Node) Len() int {
	total := 0
	for _, child := range n.Children {
		total += child.Len()
	}
	return total
}

// MarshalJSON encodes a node as an array of its children.
func (n Node) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []SegmentTree{}
	}
	return json.Marshal(children)
}

// NewNode returns a node over the given children.
func NewNode(children ...SegmentTree) Node {
	return Node{Children: children}
}

// LeavesOf returns a node with one leaf child per length.
func LeavesOf(lengths ...int) Node {
	children := make([]SegmentTree, len(lengths))
	for i, length := range lengths {
		children[i] = Leaf{Length: length}
	}
	return Node{Children: children}
}

// ParseSegmentTree decodes the nested-list encoding of a segment tree: an
// integer is a leaf and an array is a node.
func ParseSegmentTree(data []byte) (SegmentTree, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty segment tree")
	}
	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		node := Node{Children: make([]SegmentTree, 0, len(raw))}
		for _, item := range raw {
			child, err := ParseSegmentTree(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	}
	var length int
	if err := json.Unmarshal(data, &length); err != nil {
		return nil, fmt.Errorf("segment length: %w", err)
	}
	if length < 0 {
		return nil, fmt.Errorf("negative segment length %d", length)
	}
	return Leaf{Length: length}, nil
}

// segmentLengths adapts a SegmentTree to encoding/json.
type segmentLengths struct {
	tree SegmentTree
}

func (s segmentLengths) MarshalJSON() ([]byte, error) {
	if s.tree == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.tree)
}

func (s *segmentLengths) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		s.tree = nil
		return nil
	}
	tree, err := ParseSegmentTree(data)
	if err != nil {
		return err
	}
	s.tree = tree
	return nil
}

// SegmentTreesEqual reports whether a and b have the same shape and lengths.
func SegmentTreesEqual(a, b SegmentTree) bool {
	switch a := a.(type) {
	case Leaf:
		b, ok := b.(Leaf)
		return ok && a.Length == b.Length
	case Node:
		b, ok := b.(Node)
		if !ok || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !SegmentTreesEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// VisitedSegments returns the start offsets of the outermost segments touched
// by visitedPCs, in bytecode order. Every visited segment must have its own
// start visited; a PC inside a segment whose start was not visited yields an
// *InvalidSegmentStructureError. PCs beyond the end of the tree are ignored;
// negative PCs are rejected as lying before the first segment.
func VisitedSegments(tree SegmentTree, visitedPCs mapset.Set[int]) ([]int, error) {
	var pcs []int
	if visitedPCs != nil {
		pcs = visitedPCs.ToSlice()
	}
	// Sorted descending so the lowest PC sits at the top of the stack.
	slices.Sort(pcs)
	slices.Reverse(pcs)
	if n := len(pcs); n > 0 && pcs[n-1] < 0 {
		return nil, &InvalidSegmentStructureError{FoundPC: pcs[n-1], ExpectedSegmentStart: 0}
	}

	w := &segmentWalker{pcs: pcs}
	segments, err := w.visit(tree)
	if err != nil {
		return nil, err
	}
	if segments == nil {
		segments = []int{}
	}
	return segments, nil
}

// segmentWalker consumes a descending PC stack while traversing a segment tree.
type segmentWalker struct {
	pcs    []int
	offset int
}

func (w *segmentWalker) peek() (int, bool) {
	if len(w.pcs) == 0 {
		return 0, false
	}
	return w.pcs[len(w.pcs)-1], true
}

func (w *segmentWalker) visit(tree SegmentTree) ([]int, error) {
	switch seg := tree.(type) {
	case Leaf:
		start, end := w.offset, w.offset+seg.Length
		inRange := func() bool {
			pc, ok := w.peek()
			return ok && pc >= start && pc < end
		}

		var visited []int
		if inRange() {
			visited = append(visited, start)
		}
		for inRange() {
			w.pcs = w.pcs[:len(w.pcs)-1]
		}
		w.offset = end
		return visited, nil

	case Node:
		var visited []int
		for _, child := range seg.Children {
			childStart := w.offset
			nextPC, hasNext := w.peek()

			inner, err := w.visit(child)
			if err != nil {
				return nil, err
			}
			if hasNext && nextPC != childStart && len(inner) > 0 {
				return nil, &InvalidSegmentStructureError{
					FoundPC:              nextPC,
					ExpectedSegmentStart: childStart,
				}
			}
			visited = append(visited, inner...)
		}
		return visited, nil

	default:
		return nil, fmt.Errorf("casm: unknown segment type %T", tree)
	}
}
