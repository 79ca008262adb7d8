package casm

import (
	"encoding/json"
	"errors"
	"math/rand"
	"slices"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

// exampleSegmentTree spans 1390 words with mixed nesting.
func exampleSegmentTree() SegmentTree {
	return NewNode(
		Leaf{Length: 151},
		Leaf{Length: 104},
		LeavesOf(170, 225),
		Leaf{Length: 157},
		NewNode(NewNode(NewNode(Leaf{Length: 101}), Leaf{Length: 195}, Leaf{Length: 125})),
		Leaf{Length: 162},
	)
}

func TestVisitedSegments(t *testing.T) {
	tests := []struct {
		name string
		tree SegmentTree
		pcs  []int
		want []int
	}{
		{
			name: "nested tree",
			tree: exampleSegmentTree(),
			pcs:  []int{807, 907, 0, 1, 255, 425, 431, 1103},
			want: []int{0, 255, 425, 807, 1103},
		},
		{
			name: "no visited pcs",
			tree: exampleSegmentTree(),
			pcs:  nil,
			want: []int{},
		},
		{
			name: "single leaf",
			tree: Leaf{Length: 10},
			pcs:  []int{0, 3, 9},
			want: []int{0},
		},
		{
			name: "pcs past the end are ignored",
			tree: LeavesOf(5, 5),
			pcs:  []int{0, 10, 42},
			want: []int{0},
		},
		{
			name: "flat leaves",
			tree: LeavesOf(4, 4, 4),
			pcs:  []int{8, 0, 9, 11},
			want: []int{0, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VisitedSegments(tt.tree, mapset.NewSet(tt.pcs...))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("Expected non-nil result")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestVisitedSegmentsNilSet(t *testing.T) {
	got, err := VisitedSegments(LeavesOf(1, 2), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no segments, got %v", got)
	}
}

func TestVisitedSegmentsInvalidStructure(t *testing.T) {
	tests := []struct {
		name      string
		tree      SegmentTree
		pcs       []int
		wantFound int
		wantStart int
	}{
		{
			name:      "nested segment entered past its start",
			tree:      exampleSegmentTree(),
			pcs:       []int{907, 0, 1, 255, 425, 431, 1103},
			wantFound: 907,
			wantStart: 807,
		},
		{
			name:      "leaf entered past its start",
			tree:      LeavesOf(10, 10),
			pcs:       []int{15},
			wantFound: 15,
			wantStart: 10,
		},
		{
			name:      "negative PC",
			tree:      LeavesOf(5, 5),
			pcs:       []int{-1, 0, 5},
			wantFound: -1,
			wantStart: 0,
		},
		{
			name:      "negative PC under a single leaf",
			tree:      Leaf{Length: 4},
			pcs:       []int{-7, -2, 1},
			wantFound: -7,
			wantStart: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VisitedSegments(tt.tree, mapset.NewSet(tt.pcs...))
			if !errors.Is(err, ErrInvalidSegmentStructure) {
				t.Fatalf("Expected ErrInvalidSegmentStructure, got %v", err)
			}
			var structErr *InvalidSegmentStructureError
			if !errors.As(err, &structErr) {
				t.Fatalf("Expected *InvalidSegmentStructureError, got %T", err)
			}
			if structErr.FoundPC != tt.wantFound || structErr.ExpectedSegmentStart != tt.wantStart {
				t.Errorf("Expected (%d, %d), got (%d, %d)",
					tt.wantFound, tt.wantStart, structErr.FoundPC, structErr.ExpectedSegmentStart)
			}
		})
	}
}

// leafInfo describes a leaf of a generated tree. requires holds the indices of
// the first leaf of every enclosing node: a run reaching the leaf must have
// entered each enclosing node at its start.
type leafInfo struct {
	start    int
	length   int
	requires []int
}

func randomSegmentTree(rng *rand.Rand, depth int) SegmentTree {
	if depth == 0 || rng.Intn(3) == 0 {
		return Leaf{Length: 1 + rng.Intn(50)}
	}
	children := make([]SegmentTree, 1+rng.Intn(4))
	for i := range children {
		children[i] = randomSegmentTree(rng, depth-1)
	}
	return Node{Children: children}
}

func collectLeaves(tree SegmentTree, offset *int, enclosing []int, out *[]leafInfo) {
	switch seg := tree.(type) {
	case Leaf:
		*out = append(*out, leafInfo{start: *offset, length: seg.Length, requires: slices.Clone(enclosing)})
		*offset += seg.Length
	case Node:
		first := len(*out)
		for _, child := range seg.Children {
			collectLeaves(child, offset, append(slices.Clone(enclosing), first), out)
		}
	}
}

func TestVisitedSegmentsRandomConsistentRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		tree := randomSegmentTree(rng, 4)
		var (
			leaves []leafInfo
			offset int
		)
		collectLeaves(tree, &offset, nil, &leaves)

		visited := make(map[int]bool)
		for j := range leaves {
			if rng.Intn(3) == 0 {
				visited[j] = true
			}
		}
		for changed := true; changed; {
			changed = false
			for j := range visited {
				for _, k := range leaves[j].requires {
					if !visited[k] {
						visited[k] = true
						changed = true
					}
				}
			}
		}

		pcs := mapset.NewSet[int]()
		var want []int
		for j, leaf := range leaves {
			if !visited[j] {
				continue
			}
			want = append(want, leaf.start)
			pcs.Add(leaf.start)
			for n := rng.Intn(3); n > 0; n-- {
				pcs.Add(leaf.start + rng.Intn(leaf.length))
			}
		}
		if rng.Intn(4) == 0 {
			pcs.Add(offset + rng.Intn(10))
		}
		if want == nil {
			want = []int{}
		}

		got, err := VisitedSegments(tree, pcs)
		if err != nil {
			t.Fatalf("Case %d: unexpected error: %v", i, err)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("Case %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestSegmentTreeLen(t *testing.T) {
	if got := exampleSegmentTree().Len(); got != 1390 {
		t.Errorf("Expected length 1390, got %d", got)
	}
	if got := NewNode().Len(); got != 0 {
		t.Errorf("Expected empty node length 0, got %d", got)
	}
}

func TestParseSegmentTree(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		tree, err := ParseSegmentTree([]byte(`[151, 104, [170, 225], 157]`))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := NewNode(Leaf{Length: 151}, Leaf{Length: 104}, LeavesOf(170, 225), Leaf{Length: 157})
		if !SegmentTreesEqual(tree, want) {
			t.Errorf("Expected %v, got %v", want, tree)
		}
	})

	t.Run("bare leaf", func(t *testing.T) {
		tree, err := ParseSegmentTree([]byte(` 42 `))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !SegmentTreesEqual(tree, Leaf{Length: 42}) {
			t.Errorf("Expected Leaf(42), got %v", tree)
		}
	})

	for _, input := range []string{``, `-1`, `[1, "a"]`, `[1, [2, -3]]`, `{}`, `1.5`} {
		t.Run("rejects "+input, func(t *testing.T) {
			if _, err := ParseSegmentTree([]byte(input)); err == nil {
				t.Errorf("Expected error for %q", input)
			}
		})
	}
}

func TestSegmentTreeJSON(t *testing.T) {
	data, err := json.Marshal(exampleSegmentTree())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := `[151,104,[170,225],157,[[[101],195,125]],162]`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	tree, err := ParseSegmentTree(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !SegmentTreesEqual(tree, exampleSegmentTree()) {
		t.Error("Expected parsed tree to equal the original")
	}

	if data, _ := json.Marshal(Node{}); string(data) != "[]" {
		t.Errorf("Expected empty node to encode as [], got %s", data)
	}
}

func TestSegmentTreesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b SegmentTree
		want bool
	}{
		{"equal leaves", Leaf{Length: 3}, Leaf{Length: 3}, true},
		{"different leaves", Leaf{Length: 3}, Leaf{Length: 4}, false},
		{"leaf and node", Leaf{Length: 3}, LeavesOf(3), false},
		{"different arity", LeavesOf(1, 2), LeavesOf(1, 2, 0), false},
		{"equal nested", NewNode(LeavesOf(1)), NewNode(LeavesOf(1)), true},
		{"both nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentTreesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
