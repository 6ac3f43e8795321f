// Package eval is the non-recursive evaluator (spec.md §4.2/§4.6): it
// reduces a preprocessed node.Node graph to a value by walking an explicit
// continuation stack instead of the Go call stack, so reduction depth is
// bounded only by heap, not by goroutine stack size.
package eval

import (
	"github.com/blocklang/blocklang/internal/node"
)

// frame is one entry on the evaluator's continuation stack: given the fully
// reduced value of the subexpression it was pushed to wait for, it produces
// either a new expression to descend into (descend == true) or a value to
// keep ascending with (descend == false). Frames that need to push further
// frames of their own (the eager-definition loop) are given access to the
// stack itself.
type frame func(stack *[]frame, value node.Node) (next node.Node, descend bool, err error)

// Eval reduces expr to a final value: a Block with no pending eager
// definitions or clone-attr aliases left to resolve.
func Eval(expr node.Node) (node.Node, error) {
	var stack []frame
	cur := expr

	for {
		cur.PropagateClone()

		next, isValue, err := step(cur, &stack)
		if err != nil {
			return nil, err
		}
		if !isValue {
			cur = next
			continue
		}

		// Ascend: hand the value to frames until one wants to descend again
		// or the stack empties (the expression is fully reduced).
		value := next
		for {
			if len(stack) == 0 {
				// Every value about to be delivered upward gets its pending
				// clone table flushed (spec.md §4.3) -- including this
				// terminal delivery to Eval's own caller, so invariant 5
				// ("an observable Block has no pending clone table") holds
				// unconditionally instead of depending on every caller
				// remembering to call PropagateClone itself.
				value.PropagateClone()
				return value, nil
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			resumed, descend, err := f(&stack, value)
			if err != nil {
				return nil, err
			}
			if descend {
				cur = resumed
				break
			}
			value = resumed
		}
	}
}

// step inspects cur. If cur still needs reduction, it pushes whatever
// continuation is needed onto stack and returns (nextExpr, false, nil) for
// the caller to descend into. If cur is already a value, it returns
// (cur, true, nil).
func step(cur node.Node, stack *[]frame) (node.Node, bool, error) {
	switch n := cur.(type) {
	case *node.Access:
		attr := n.Attr
		push(stack, func(_ *[]frame, value node.Node) (node.Node, bool, error) {
			blk, ok := value.(*node.Block)
			if !ok {
				return nil, false, errTypef("cannot access %q on a %T, not a block", attr, value)
			}
			blk.PropagateClone()
			child, ok := blk.Get(attr)
			if !ok {
				return nil, false, errReff("no such attribute %q", attr)
			}
			return child, true, nil
		})
		return n.Base, false, nil

	case *node.Override:
		return stepOverrideOrCall(n, n.Attrs, n.Base, stack)

	case *node.Call:
		return stepOverrideOrCall(n, n.Attrs, n.Base, stack)

	case *node.BackEdge:
		return n.Base, false, nil

	case *node.Eager:
		return n.Inner, false, nil

	case *node.IntOp:
		return stepIntOp(n, stack)
	case *node.IntLogicalAnd:
		return stepIntLogical(n.Context, true, stack)
	case *node.IntLogicalOr:
		return stepIntLogical(n.Context, false, stack)
	case *node.Select:
		return stepSelect(n, stack)
	case *node.IntStr:
		return stepIntStr(n, stack)
	case *node.IntChr:
		return stepIntChr(n, stack)
	case *node.StrCat:
		return stepStrCat(n, stack)
	case *node.StrComparison:
		return stepStrComparison(n, stack)
	case *node.StrLen:
		return stepStrLen(n, stack)
	case *node.StrSubstr:
		return stepStrSubstr(n, stack)

	case *node.Block:
		return stepBlock(n, stack)

	case *node.Identifier, *node.SelfRef, *node.Parent, *node.AncestorLookup,
		*node.BinaryOp, *node.Conditional:
		return nil, false, errInvariantf("surface-only node %T survived preprocessing", cur)

	default:
		// Any other node (IntLit, StringLit, CloneAttr reached outside a
		// Block) is already its own value.
		return cur, true, nil
	}
}

func push(stack *[]frame, f frame) { *stack = append(*stack, f) }

// stepOverrideOrCall handles Override and Call identically: both reduce
// their base, then clone the resulting block and splice in their own defs
// (spec.md §4.2). origNode is the Override/Call node itself, used as the
// clone-table key so any back-edge inside defs that targets the
// construction under evaluation retargets to the freshly built clone.
func stepOverrideOrCall(origNode node.Node, defs node.Attrs, base node.Node, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(_ *[]frame, value node.Node) (node.Node, bool, error) {
		baseBlock, ok := value.(*node.Block)
		if !ok {
			return nil, false, errTypef("cannot override/call a %T, not a block", value)
		}
		clone := baseBlock.LazyClone(nil).(*node.Block)
		// Materialise the clone's own {base -> clone} table before splicing
		// in defs, so it retargets only the inherited attributes and not
		// back-edges inside defs that legitimately point at the base.
		clone.PropagateClone()
		overrides := node.CloneTable{origNode: clone}
		for _, k := range defs.Keys {
			clone.Set(k, defs.Defs[k].LazyClone(overrides))
		}
		// Re-enter as a fresh current expression so pending eager fields and
		// clone-attr aliases on the new block fire.
		return clone, true, nil
	})
	return base, false, nil
}

// stepBlock implements the two special Block rules (spec.md §4.2): resolve
// any CloneAttr aliases first, then fire any Eager definitions. A block with
// neither is already a value.
func stepBlock(n *node.Block, stack *[]frame) (node.Node, bool, error) {
	if hasCloneAttr(n) {
		clone := n.LazyClone(nil).(*node.Block)
		clone.PropagateClone()
		for _, k := range clone.Keys {
			ca, ok := clone.Defs[k].(*node.CloneAttr)
			if !ok {
				continue
			}
			aliased, ok := clone.Get(ca.Attr)
			if !ok {
				return nil, false, errReff("clone-attr %q: no such attribute %q", k, ca.Attr)
			}
			clone.Defs[k] = aliased
		}
		return clone, false, nil
	}

	if keys := eagerKeys(n); len(keys) > 0 {
		clone := n.LazyClone(nil).(*node.Block)
		clone.PropagateClone()
		idx := 0
		var resume frame
		resume = func(stack *[]frame, value node.Node) (node.Node, bool, error) {
			clone.Defs[keys[idx]] = value.LazyClone(nil)
			idx++
			if idx < len(keys) {
				push(stack, resume)
				return clone.Defs[keys[idx]], true, nil
			}
			return clone, false, nil
		}
		push(stack, resume)
		return clone.Defs[keys[0]], false, nil
	}

	return n, true, nil
}
