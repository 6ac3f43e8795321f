// Package builtin is the primitive library (spec.md §4.5/§4.6): it builds
// the integer and string blocks that every IntLit/StringLit is wrapped into,
// exposing their operations as ordinary accessible attributes.
package builtin

import "github.com/blocklang/blocklang/internal/node"

// selfBackEdge makes a BackEdge that will, once the scope it targets exists,
// point back at it. Blocks built here are self-referential graphs, so each
// is constructed in two steps: allocate, then wire backedges into itself.
func selfBackEdge(s node.Scope) *node.BackEdge { return &node.BackEdge{Base: s} }

// IntBlock wraps v as a full block exposing the integer operation set.
func IntBlock(v int64) *node.Block {
	b := &node.Block{Attrs: node.NewAttrs()}
	b.Set("_inner", &node.IntLit{Value: v})

	b.Set("add", intOpBlock(b, node.IntAdd))
	b.Set("sub", intOpBlock(b, node.IntSub))
	b.Set("mul", intOpBlock(b, node.IntMul))
	b.Set("div", intOpBlock(b, node.IntDiv))
	b.Set("mod", intOpBlock(b, node.IntMod))
	b.Set("eq", intOpBlock(b, node.IntEq))
	b.Set("ne", intOpBlock(b, node.IntNe))
	b.Set("lt", intOpBlock(b, node.IntLt))
	b.Set("gt", intOpBlock(b, node.IntGt))
	b.Set("le", intOpBlock(b, node.IntLe))
	b.Set("ge", intOpBlock(b, node.IntGe))

	b.Set("logical_and", intLogicalBlock(b, true))
	b.Set("logical_or", intLogicalBlock(b, false))

	b.Set("str", node.NewIntStr(selfBackEdge(b)))
	b.Set("chr", node.NewIntChr(selfBackEdge(b)))

	b.Set("select", selectBlock(b))

	return b
}

// intOpBlock builds `{ x: BackEdge(parent), result: IntOp(op, context=self) }`:
// x lets the built-in find the int it was called on, result is computed once
// `y` (and any other overrides) land via Override/Call.
func intOpBlock(parent *node.Block, op node.IntBinOp) *node.Block {
	opBlock := &node.Block{Attrs: node.NewAttrs()}
	opBlock.Set("x", selfBackEdge(parent))
	opBlock.Set("result", node.NewIntOp(selfBackEdge(opBlock), op))
	return opBlock
}

// intLogicalBlock builds the `logical_and`/`logical_or` method block; the
// built-in itself implements short-circuiting (spec.md §4.4).
func intLogicalBlock(parent *node.Block, and bool) *node.Block {
	opBlock := &node.Block{Attrs: node.NewAttrs()}
	opBlock.Set("x", selfBackEdge(parent))
	ctx := selfBackEdge(opBlock)
	if and {
		opBlock.Set("result", node.NewIntLogicalAnd(ctx))
	} else {
		opBlock.Set("result", node.NewIntLogicalOr(ctx))
	}
	return opBlock
}

// selectBlock builds `{ cond: BackEdge(parent), result: Select(context=self) }`.
func selectBlock(parent *node.Block) *node.Block {
	sb := &node.Block{Attrs: node.NewAttrs()}
	sb.Set("cond", selfBackEdge(parent))
	sb.Set("result", node.NewSelect(selfBackEdge(sb)))
	return sb
}

// StringBlock wraps s as a full block exposing the string operation set.
func StringBlock(s string) *node.Block {
	b := &node.Block{Attrs: node.NewAttrs()}
	b.Set("_inner", &node.StringLit{Value: s})

	b.Set("cat", strCatBlock(b))
	b.Set("add", b.Defs["cat"]) // add is a plain alias for cat
	b.Set("eq", strCompareBlock(b, node.StrEq))
	b.Set("ne", strCompareBlock(b, node.StrNe))
	b.Set("lt", strCompareBlock(b, node.StrLt))
	b.Set("gt", strCompareBlock(b, node.StrGt))
	b.Set("le", strCompareBlock(b, node.StrLe))
	b.Set("ge", strCompareBlock(b, node.StrGe))

	b.Set("len", strLenBlock(b))
	b.Set("substr", substrBlock(b))

	return b
}

// strLenBlock builds the `len` method block `{ x, result: StrLen(context=x's
// target) }`. StrLen reads its argument's `_inner` directly (spec.md §4.4),
// but len is still wrapped in a block the way `cat`/comparisons are so that
// `s.len.result` (spec.md §4.4, §8 property 6) is the accessor callers use.
func strLenBlock(parent *node.Block) *node.Block {
	lb := &node.Block{Attrs: node.NewAttrs()}
	lb.Set("x", selfBackEdge(parent))
	lb.Set("result", node.NewStrLen(selfBackEdge(parent)))
	return lb
}

func strCatBlock(parent *node.Block) *node.Block {
	opBlock := &node.Block{Attrs: node.NewAttrs()}
	opBlock.Set("x", selfBackEdge(parent))
	opBlock.Set("result", node.NewStrCat(selfBackEdge(opBlock)))
	return opBlock
}

func strCompareBlock(parent *node.Block, op node.StrCompareOp) *node.Block {
	opBlock := &node.Block{Attrs: node.NewAttrs()}
	opBlock.Set("x", selfBackEdge(parent))
	opBlock.Set("result", node.NewStrComparison(selfBackEdge(opBlock), op))
	return opBlock
}

// substrBlock builds the method block for `substr`, with defaults
// `start = 0` and `end = x.len.result` wired against the block's own `x` (spec.md
// §4.4: "start defaults to 0 and end defaults to x.len.result").
func substrBlock(parent *node.Block) *node.Block {
	sb := &node.Block{Attrs: node.NewAttrs()}
	sb.Set("x", selfBackEdge(parent))
	sb.Set("start", IntBlock(0))
	sb.Set("end", &node.Access{
		Base: &node.Access{
			Base: &node.Access{Base: selfBackEdge(sb), Attr: "x"},
			Attr: "len",
		},
		Attr: "result",
	})
	sb.Set("result", node.NewStrSubstr(selfBackEdge(sb)))
	return sb
}
