package pattern_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gram-data/gram/pattern"
)

// edge is a throwaway edge annotation for tests that need one.
type edge struct {
	Label string
}

func leaf(v int) *pattern.Pattern[int, edge] {
	return pattern.New[int, edge](v)
}

// tree builds the fixture used across the algebra tests:
//
//	1
//	├── 2
//	│   └── 4
//	└── 3
func tree() *pattern.Pattern[int, edge] {
	return pattern.New(1,
		pattern.Member(pattern.New(2, pattern.Member(leaf(4)))),
		pattern.Member(leaf(3)),
	)
}

func TestMapIdentity(t *testing.T) {
	t.Parallel()

	got := pattern.Map(tree(), func(v int) int { return v })

	if diff := cmp.Diff(tree(), got); diff != "" {
		t.Errorf("Map(p, id) changed the tree (-want +got):\n%s", diff)
	}
}

func TestMapComposition(t *testing.T) {
	t.Parallel()

	double := func(v int) int { return v * 2 }
	stringify := func(v int) string { return strings.Repeat("x", v) }

	composed := pattern.Map(tree(), func(v int) string { return stringify(double(v)) })
	chained := pattern.Map(pattern.Map(tree(), double), stringify)

	if diff := cmp.Diff(composed, chained); diff != "" {
		t.Errorf("Map(Map(p,f),g) != Map(p, g∘f) (-composed +chained):\n%s", diff)
	}
}

func TestMapPreservesEdges(t *testing.T) {
	t.Parallel()

	p := pattern.New(1,
		pattern.Member(leaf(2)),
		pattern.Joined(edge{Label: "next"}, leaf(3)),
	)

	got := pattern.Map(p, func(v int) int { return v + 10 })

	if got.Elements[0].Edge != nil {
		t.Errorf("plain member grew an edge: %+v", got.Elements[0].Edge)
	}

	if got.Elements[1].Edge == nil || got.Elements[1].Edge.Label != "next" {
		t.Errorf("joined member lost its edge: %+v", got.Elements[1].Edge)
	}

	if got.Elements[1].Edge == p.Elements[1].Edge {
		t.Error("mapped tree shares edge storage with its source")
	}
}

func TestFoldSum(t *testing.T) {
	t.Parallel()

	sum := pattern.Fold(tree(), func(v int, children []int) int {
		for _, c := range children {
			v += c
		}

		return v
	})

	if sum != 10 {
		t.Errorf("Fold sum = %d, want 10", sum)
	}
}

func TestFoldParaConsistency(t *testing.T) {
	t.Parallel()

	combine := func(v int, children []int) int {
		n := v
		for _, c := range children {
			n += c * 2
		}

		return n
	}

	folded := pattern.Fold(tree(), combine)
	viaParaed := pattern.Para(tree(), func(node *pattern.Pattern[int, edge], children []int) int {
		return combine(node.Value, children)
	})

	if folded != viaParaed {
		t.Errorf("Fold = %d, Para-derived fold = %d", folded, viaParaed)
	}
}

func TestParaSeesOriginalSubtrees(t *testing.T) {
	t.Parallel()

	// Count nodes whose subtree is a leaf, using the original node handed
	// to the combining step.
	leaves := pattern.Para(tree(), func(node *pattern.Pattern[int, edge], children []int) int {
		n := 0
		if node.IsLeaf() {
			n = 1
		}

		for _, c := range children {
			n += c
		}

		return n
	})

	if leaves != 2 {
		t.Errorf("leaf count via Para = %d, want 2", leaves)
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	if got := pattern.Extract(tree()); got != 1 {
		t.Errorf("Extract = %d, want root value 1", got)
	}
}

func TestComonadLaws(t *testing.T) {
	t.Parallel()

	f := func(p *pattern.Pattern[int, edge]) int {
		return pattern.Size(p) * 100
	}

	// extract(extend(p, f)) == f(p)
	if got, want := pattern.Extract(pattern.Extend(tree(), f)), f(tree()); got != want {
		t.Errorf("Extract(Extend(p, f)) = %d, want f(p) = %d", got, want)
	}

	// extend(p, extract) == p
	rebuilt := pattern.Extend(tree(), pattern.Extract[int, edge])
	if diff := cmp.Diff(tree(), rebuilt); diff != "" {
		t.Errorf("Extend(p, Extract) changed the tree (-want +got):\n%s", diff)
	}
}

func TestExtendGivesEachNodeItsSubtree(t *testing.T) {
	t.Parallel()

	sizes := pattern.Extend(tree(), pattern.Size[int, edge])

	if sizes.Value != 4 {
		t.Errorf("root subtree size = %d, want 4", sizes.Value)
	}

	if got := sizes.Elements[0].Pattern.Value; got != 2 {
		t.Errorf("first child subtree size = %d, want 2", got)
	}

	if got := sizes.Elements[1].Pattern.Value; got != 1 {
		t.Errorf("second child subtree size = %d, want 1", got)
	}
}

func TestWalkPreOrder(t *testing.T) {
	t.Parallel()

	var order []int

	pattern.Walk(tree(), func(p *pattern.Pattern[int, edge]) bool {
		order = append(order, p.Value)

		return true
	})

	if diff := cmp.Diff([]int{1, 2, 4, 3}, order); diff != "" {
		t.Errorf("Walk order (-want +got):\n%s", diff)
	}
}

func TestWalkEarlyStop(t *testing.T) {
	t.Parallel()

	var order []int

	pattern.Walk(tree(), func(p *pattern.Pattern[int, edge]) bool {
		order = append(order, p.Value)

		return p.Value != 2
	})

	if diff := cmp.Diff([]int{1, 2}, order); diff != "" {
		t.Errorf("Walk stopped wrong (-want +got):\n%s", diff)
	}
}

func TestSizeAndDepth(t *testing.T) {
	t.Parallel()

	if got := pattern.Size(tree()); got != 4 {
		t.Errorf("Size = %d, want 4", got)
	}

	if got := pattern.Depth(tree()); got != 3 {
		t.Errorf("Depth = %d, want 3", got)
	}

	if got := pattern.Size[int, edge](nil); got != 0 {
		t.Errorf("Size(nil) = %d, want 0", got)
	}

	if got := pattern.Depth[int, edge](nil); got != 0 {
		t.Errorf("Depth(nil) = %d, want 0", got)
	}
}

// Deep left-leaning chains exercise the explicit work stacks; a recursive
// implementation would exhaust the native stack here.
func TestAlgebraOnDeepChain(t *testing.T) {
	t.Parallel()

	const depth = 200_000

	p := leaf(0)
	for i := 1; i <= depth; i++ {
		p = pattern.New(i, pattern.Member(p))
	}

	if got := pattern.Depth(p); got != depth+1 {
		t.Errorf("Depth = %d, want %d", got, depth+1)
	}

	mapped := pattern.Map(p, func(v int) int { return v + 1 })
	if mapped.Value != depth+1 {
		t.Errorf("Map root = %d, want %d", mapped.Value, depth+1)
	}

	sum := pattern.Fold(p, func(v int, children []int) int {
		for _, c := range children {
			v += c
		}

		return v
	})

	want := depth * (depth + 1) / 2
	if sum != want {
		t.Errorf("Fold sum = %d, want %d", sum, want)
	}
}
