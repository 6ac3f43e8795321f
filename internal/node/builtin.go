package node

// IntBinOp names an integer binary built-in operation (spec.md §4.4,
// "replace closures in IntOp.fn with a tagged operator enum").
type IntBinOp int

const (
	IntAdd IntBinOp = iota
	IntSub
	IntMul
	IntDiv
	IntMod
	IntEq
	IntNe
	IntLt
	IntGt
	IntLe
	IntGe
)

// StrCompareOp names a string comparison built-in operation.
type StrCompareOp int

const (
	StrEq StrCompareOp = iota
	StrNe
	StrLt
	StrGt
	StrLe
	StrGe
)

// builtin factors the shape every primitive built-in shares: a context
// back-edge into the method-argument block that supplies x/y/start/etc, and
// the lazy-clone plumbing for that single child (spec.md §4.4).
type builtin struct {
	Context        *BackEdge
	cloneOverrides CloneTable
}

func (n *builtin) propagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	cloned := n.Context.LazyClone(overrides)
	n.Context = cloned.(*BackEdge)
	n.cloneOverrides = nil
}

func (n *builtin) lazyCloneOverrides(overrides CloneTable) CloneTable {
	return mergeOverrides(overrides, n.cloneOverrides)
}

// IntOp reduces x._inner and y._inner through Op and wraps the result back
// into an int block.
type IntOp struct {
	builtin
	Op IntBinOp
}

func NewIntOp(ctx *BackEdge, op IntBinOp) *IntOp { return &IntOp{builtin{Context: ctx}, op} }

func (n *IntOp) LazyClone(overrides CloneTable) Node {
	return &IntOp{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}, n.Op}
}
func (n *IntOp) PropagateClone() { n.propagateClone() }

// IntLogicalAnd/IntLogicalOr short-circuit: only one of x/y is ever reduced.
type IntLogicalAnd struct{ builtin }
type IntLogicalOr struct{ builtin }

func NewIntLogicalAnd(ctx *BackEdge) *IntLogicalAnd { return &IntLogicalAnd{builtin{Context: ctx}} }
func NewIntLogicalOr(ctx *BackEdge) *IntLogicalOr   { return &IntLogicalOr{builtin{Context: ctx}} }

func (n *IntLogicalAnd) LazyClone(overrides CloneTable) Node {
	return &IntLogicalAnd{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *IntLogicalAnd) PropagateClone() { n.propagateClone() }

func (n *IntLogicalOr) LazyClone(overrides CloneTable) Node {
	return &IntLogicalOr{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *IntLogicalOr) PropagateClone() { n.propagateClone() }

// Select reduces cond._inner and continues reduction into context.true or
// context.false.
type Select struct{ builtin }

func NewSelect(ctx *BackEdge) *Select { return &Select{builtin{Context: ctx}} }

func (n *Select) LazyClone(overrides CloneTable) Node {
	return &Select{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *Select) PropagateClone() { n.propagateClone() }

// IntStr wraps an int's decimal representation as a string block.
type IntStr struct{ builtin }

func NewIntStr(ctx *BackEdge) *IntStr { return &IntStr{builtin{Context: ctx}} }

func (n *IntStr) LazyClone(overrides CloneTable) Node {
	return &IntStr{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *IntStr) PropagateClone() { n.propagateClone() }

// IntChr wraps an int as a single-code-point string block.
type IntChr struct{ builtin }

func NewIntChr(ctx *BackEdge) *IntChr { return &IntChr{builtin{Context: ctx}} }

func (n *IntChr) LazyClone(overrides CloneTable) Node {
	return &IntChr{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *IntChr) PropagateClone() { n.propagateClone() }

// StrCat concatenates x._inner and y._inner.
type StrCat struct{ builtin }

func NewStrCat(ctx *BackEdge) *StrCat { return &StrCat{builtin{Context: ctx}} }

func (n *StrCat) LazyClone(overrides CloneTable) Node {
	return &StrCat{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *StrCat) PropagateClone() { n.propagateClone() }

// StrComparison lexicographically compares x._inner and y._inner.
type StrComparison struct {
	builtin
	Op StrCompareOp
}

func NewStrComparison(ctx *BackEdge, op StrCompareOp) *StrComparison {
	return &StrComparison{builtin{Context: ctx}, op}
}

func (n *StrComparison) LazyClone(overrides CloneTable) Node {
	return &StrComparison{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}, n.Op}
}
func (n *StrComparison) PropagateClone() { n.propagateClone() }

// StrLen is the code-point length of x._inner.
type StrLen struct{ builtin }

func NewStrLen(ctx *BackEdge) *StrLen { return &StrLen{builtin{Context: ctx}} }

func (n *StrLen) LazyClone(overrides CloneTable) Node {
	return &StrLen{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *StrLen) PropagateClone() { n.propagateClone() }

// StrSubstr slices x._inner[start._inner:end._inner] by code point.
type StrSubstr struct{ builtin }

func NewStrSubstr(ctx *BackEdge) *StrSubstr { return &StrSubstr{builtin{Context: ctx}} }

func (n *StrSubstr) LazyClone(overrides CloneTable) Node {
	return &StrSubstr{builtin{Context: n.Context, cloneOverrides: n.lazyCloneOverrides(overrides)}}
}
func (n *StrSubstr) PropagateClone() { n.propagateClone() }
