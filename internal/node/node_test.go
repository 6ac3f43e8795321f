package node

import "testing"

// TestBlockIdentity checks spec.md §3 invariant 1: two distinct Block values
// compare unequal even with identical contents.
func TestBlockIdentity(t *testing.T) {
	a := NewBlock([]Definition{{Name: "x", Expr: &IntLit{Value: 1}}})
	b := NewBlock([]Definition{{Name: "x", Expr: &IntLit{Value: 1}}})
	if Node(a) == Node(b) {
		t.Fatalf("two independently built blocks with identical contents must not compare equal")
	}
	if Node(a) != Node(a) {
		t.Fatalf("a block must compare equal to itself")
	}
}

// TestLazyCloneIsShallow checks that LazyClone does not eagerly walk
// children: the clone is a distinct Block, but its attribute values are
// still the original (unpropagated) nodes until PropagateClone runs.
func TestLazyCloneIsShallow(t *testing.T) {
	inner := &IntLit{Value: 42}
	base := NewBlock([]Definition{{Name: "x", Expr: inner}})

	clone := base.LazyClone(nil).(*Block)
	if clone == base {
		t.Fatalf("LazyClone must return a distinct node")
	}
	if clone.Defs["x"] != inner {
		t.Fatalf("LazyClone must not rewrite children before propagation")
	}
}

// TestPropagateClonePropagatesBackEdges verifies the central lineage
// invariant (spec.md §4.3): a back-edge reachable inside a cloned block
// points at the clone, not at the original, once propagated.
func TestPropagateClonePropagatesBackEdges(t *testing.T) {
	base := &Block{Attrs: NewAttrs()}
	base.Set("x", &IntLit{Value: 1})
	base.Set("y", &BackEdge{Base: base})

	clone := base.LazyClone(nil).(*Block)
	clone.PropagateClone()

	edge, ok := clone.Defs["y"].(*BackEdge)
	if !ok {
		t.Fatalf("expected y to still be a BackEdge, got %T", clone.Defs["y"])
	}
	edge.PropagateClone()
	if edge.Base != Scope(clone) {
		t.Fatalf("back-edge must retarget to the clone, got %v (want the clone itself)", edge.Base)
	}
	if edge.Base == Scope(base) {
		t.Fatalf("back-edge must not still point at the original base")
	}
}

// TestPropagateCloneOriginalUnaffected verifies override independence
// (spec.md §8 property 3) at the node level: cloning never mutates the
// source Block.
func TestPropagateCloneOriginalUnaffected(t *testing.T) {
	base := &Block{Attrs: NewAttrs()}
	base.Set("x", &IntLit{Value: 1})
	base.Set("self", &BackEdge{Base: base})

	_ = base.LazyClone(nil).(*Block)

	edge := base.Defs["self"].(*BackEdge)
	if edge.Base != Scope(base) {
		t.Fatalf("the original block's back-edge must still target itself")
	}
	if len(base.cloneOverrides) != 0 {
		t.Fatalf("LazyClone must not install a pending table on the original")
	}
}

// TestChainedClonesCollapse exercises spec.md §4.3's "collapses redundant
// chains" rule across two override generations: a node cloned twice must
// still resolve straight through to the final clone, not the intermediate.
func TestChainedClonesCollapse(t *testing.T) {
	gen0 := &Block{Attrs: NewAttrs()}
	gen0.Set("self", &BackEdge{Base: gen0})

	gen1 := gen0.LazyClone(nil).(*Block)
	gen1.PropagateClone()

	gen2 := gen1.LazyClone(nil).(*Block)
	gen2.PropagateClone()

	edge := gen2.Defs["self"].(*BackEdge)
	edge.PropagateClone()
	if edge.Base != Scope(gen2) {
		t.Fatalf("after two override generations, the back-edge must point at the final clone")
	}
}

// TestCallNeverReceivesBackEdge checks spec.md §4.3: "Calls never receive
// back-edges... Call's lazy-clone does not add itself to the table."
func TestCallNeverReceivesBackEdge(t *testing.T) {
	base := &Block{Attrs: NewAttrs()}
	call := NewCall(base, nil)

	clone := call.LazyClone(nil).(*Call)
	if _, ok := clone.cloneOverrides[call]; ok {
		t.Fatalf("Call.LazyClone must not add a call -> clone entry to its table")
	}
	// Lazily cloning an edge with a call -> clone table leaves the original
	// edge untouched.
	edge := &BackEdge{Base: base}
	edge.LazyClone(CloneTable{call: clone})
	if edge.Base != Scope(base) {
		t.Fatalf("cloning a Call must not retarget edges through it")
	}
}

// TestAtomicNodesReturnThemselves checks spec.md §4.3: "Atomic nodes
// (Identifier, IntLit, StringLit, CloneAttr) return themselves."
func TestAtomicNodesReturnThemselves(t *testing.T) {
	lit := &IntLit{Value: 7}
	if lit.LazyClone(CloneTable{}) != Node(lit) {
		t.Fatalf("IntLit.LazyClone must return itself")
	}
	str := &StringLit{Value: "hi"}
	if str.LazyClone(CloneTable{}) != Node(str) {
		t.Fatalf("StringLit.LazyClone must return itself")
	}
	ca := &CloneAttr{Attr: "x"}
	if ca.LazyClone(CloneTable{}) != Node(ca) {
		t.Fatalf("CloneAttr.LazyClone must return itself")
	}
}

// TestAttrsPreservesInsertionOrder checks that Override/Call extension
// appends new keys after existing ones (spec.md §4.2: an Override can both
// replace and extend attributes).
func TestAttrsPreservesInsertionOrder(t *testing.T) {
	a := NewAttrs()
	a.Set("x", &IntLit{Value: 1})
	a.Set("y", &IntLit{Value: 2})
	a.Set("x", &IntLit{Value: 3}) // overwrite, should not move in Keys
	want := []string{"x", "y"}
	if len(a.Keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, a.Keys)
	}
	for i, k := range want {
		if a.Keys[i] != k {
			t.Fatalf("expected keys %v, got %v", want, a.Keys)
		}
	}
}
