package pattern

// Map returns a structurally identical tree with f applied to every node
// value. Edge annotations are copied unchanged.
//
// Map satisfies the functor laws: mapping the identity function yields an
// equal tree, and Map(Map(p, f), g) equals Map(p, g∘f).
func Map[V, W, E any](p *Pattern[V, E], f func(V) W) *Pattern[W, E] {
	if p == nil {
		return nil
	}

	type frame struct {
		src *Pattern[V, E]
		dst *Pattern[W, E]
	}

	out := &Pattern[W, E]{Value: f(p.Value)}
	stack := []frame{{src: p, dst: out}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(fr.src.Elements) == 0 {
			continue
		}

		fr.dst.Elements = make([]Element[W, E], len(fr.src.Elements))

		for i, el := range fr.src.Elements {
			child := &Pattern[W, E]{Value: f(el.Pattern.Value)}
			fr.dst.Elements[i] = Element[W, E]{Edge: cloneEdge(el.Edge), Pattern: child}
			stack = append(stack, frame{src: el.Pattern, dst: child})
		}
	}

	return out
}

// Fold reduces the tree bottom-up (catamorphism). Each node's result is
// combine(node value, child results in element order). Runs in O(n) with
// auxiliary space proportional to tree depth.
func Fold[V, E, R any](p *Pattern[V, E], combine func(V, []R) R) R {
	return Para(p, func(node *Pattern[V, E], results []R) R {
		return combine(node.Value, results)
	})
}

// Para is the paramorphism: like Fold, but combine receives the original
// node alongside the child results, so it can inspect untransformed
// structure (element count, edge annotations, raw subtrees) while
// aggregating. Fold is Para with the node reduced to its value.
func Para[V, E, R any](p *Pattern[V, E], combine func(*Pattern[V, E], []R) R) R {
	var result R
	if p == nil {
		return result
	}

	type frame struct {
		node    *Pattern[V, E]
		next    int
		results []R
	}

	stack := []*frame{{node: p, results: make([]R, 0, len(p.Elements))}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next < len(top.node.Elements) {
			child := top.node.Elements[top.next].Pattern
			top.next++
			stack = append(stack, &frame{node: child, results: make([]R, 0, len(child.Elements))})

			continue
		}

		r := combine(top.node, top.results)
		stack = stack[:len(stack)-1]

		if len(stack) == 0 {
			result = r
		} else {
			parent := stack[len(stack)-1]
			parent.results = append(parent.results, r)
		}
	}

	return result
}

// Extract returns the value at the root. O(1).
func Extract[V, E any](p *Pattern[V, E]) V {
	return p.Value
}

// Extend rewrites the tree comonadically: every position's new value is
// f applied to the subtree rooted at that position, so f sees the full
// downward context wherever it runs.
//
// Laws: Extract(Extend(p, f)) == f(p), and Extend(p, Extract) == p.
func Extend[V, E, W any](p *Pattern[V, E], f func(*Pattern[V, E]) W) *Pattern[W, E] {
	if p == nil {
		return nil
	}

	type frame struct {
		src *Pattern[V, E]
		dst *Pattern[W, E]
	}

	out := &Pattern[W, E]{Value: f(p)}
	stack := []frame{{src: p, dst: out}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(fr.src.Elements) == 0 {
			continue
		}

		fr.dst.Elements = make([]Element[W, E], len(fr.src.Elements))

		for i, el := range fr.src.Elements {
			child := &Pattern[W, E]{Value: f(el.Pattern)}
			fr.dst.Elements[i] = Element[W, E]{Edge: cloneEdge(el.Edge), Pattern: child}
			stack = append(stack, frame{src: el.Pattern, dst: child})
		}
	}

	return out
}

// Walk visits every node in pre-order (node before its elements, elements in
// order). Returning false from visit stops the traversal.
func Walk[V, E any](p *Pattern[V, E], visit func(*Pattern[V, E]) bool) {
	if p == nil {
		return
	}

	stack := []*Pattern[V, E]{p}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(node) {
			return
		}

		for i := len(node.Elements) - 1; i >= 0; i-- {
			stack = append(stack, node.Elements[i].Pattern)
		}
	}
}

// Size returns the number of nodes in the tree.
func Size[V, E any](p *Pattern[V, E]) int {
	if p == nil {
		return 0
	}

	return Fold(p, func(_ V, counts []int) int {
		n := 1
		for _, c := range counts {
			n += c
		}

		return n
	})
}

// Depth returns the length of the longest root-to-leaf chain. A leaf has
// depth 1.
func Depth[V, E any](p *Pattern[V, E]) int {
	if p == nil {
		return 0
	}

	return Fold(p, func(_ V, depths []int) int {
		deepest := 0
		for _, d := range depths {
			if d > deepest {
				deepest = d
			}
		}

		return deepest + 1
	})
}
