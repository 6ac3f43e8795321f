// Package node holds the unified graph that is simultaneously the parsed
// AST, the preprocessed program, and the runtime value graph the evaluator
// reduces. There is one Node interface and a fixed set of concrete node
// kinds (spec.md §3); dispatch on "what kind of node is this" is always a
// type switch over that fixed set, never open-ended virtual dispatch.
//
// Identity equality (spec.md §3 invariant 1, "two distinct Block values
// compare unequal even with identical contents") is free in Go: every
// stateful node kind below is used exclusively through a pointer, and Go
// compares pointers by identity. No id()/hash() shim is needed.
package node

// Node is implemented by every kind in the graph. LazyClone and
// PropagateClone implement the lazy-clone-with-override-propagation
// protocol of spec.md §4.3.
type Node interface {
	// LazyClone returns a shallow copy of the node with overrides merged
	// into its pending clone-overrides table. Atomic nodes (those with no
	// children and no back-edges to retarget) return themselves unchanged.
	LazyClone(overrides CloneTable) Node

	// PropagateClone consumes this node's pending clone-overrides table (if
	// any), replacing direct children with their lazily-cloned versions and
	// chasing back-edge targets through the table. It is a no-op when the
	// table is empty. Called just-in-time, before a node is inspected.
	PropagateClone()
}

// Scope is the subset of Node that a BackEdge may legally target: a Block or
// an Override. Call is deliberately excluded — spec.md §4.3 "Calls never
// receive back-edges (an argument's scope is the caller's, not the Call's)".
type Scope interface {
	Node
	isScope()
}

// --- Atomic leaves -----------------------------------------------------

// IntLit is a signed 64-bit integer literal.
type IntLit struct{ Value int64 }

func (n *IntLit) LazyClone(CloneTable) Node { return n }
func (n *IntLit) PropagateClone()           {}

// StringLit is a string literal.
type StringLit struct{ Value string }

func (n *StringLit) LazyClone(CloneTable) Node { return n }
func (n *StringLit) PropagateClone()           {}

// CloneAttr is an aliasing definition: "this attribute is the same node as
// attr in the same block". It is atomic at the graph level — it is expanded
// by the evaluator, not by cloning (spec.md §3).
type CloneAttr struct{ Attr string }

func (n *CloneAttr) LazyClone(CloneTable) Node { return n }
func (n *CloneAttr) PropagateClone()           {}

// --- Surface-only AST nodes ---------------------------------------------
//
// These exist only before preprocessing (spec.md §3 invariant 3) and are
// never cloned, since preprocessing erases them from every reachable graph.
// Their LazyClone panics loudly instead of silently misbehaving if that
// invariant is ever violated; their PropagateClone is a no-op, since they
// never carry a pending clone table.

// Identifier is a bare name: "self's attribute by that name" pre-desugar.
type Identifier struct{ Name string }

func (n *Identifier) LazyClone(CloneTable) Node { panic("node: Identifier must not survive preprocessing") }
func (n *Identifier) PropagateClone()           {}

// SelfRef is the surface `@` token.
type SelfRef struct{}

func (n *SelfRef) LazyClone(CloneTable) Node { panic("node: SelfRef must not survive preprocessing") }
func (n *SelfRef) PropagateClone()           {}

// Parent is the surface `^` (or `^.^...`) chain, counting enclosing scopes.
type Parent struct{ Depth int }

func (n *Parent) LazyClone(CloneTable) Node { panic("node: Parent must not survive preprocessing") }
func (n *Parent) PropagateClone()           {}

// AncestorLookup is the surface `^^.name` form.
type AncestorLookup struct{ Name string }

func (n *AncestorLookup) LazyClone(CloneTable) Node {
	panic("node: AncestorLookup must not survive preprocessing")
}
func (n *AncestorLookup) PropagateClone() {}

// BinOp names a surface binary operator token, desugared by the preprocessor
// per the fixed method_of table in spec.md §4.1.
type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpMod BinOp = "%"
	OpEq  BinOp = "=="
	OpNe  BinOp = "!="
	OpLt  BinOp = "<"
	OpGt  BinOp = ">"
	OpLe  BinOp = "<="
	OpGe  BinOp = ">="
	OpAnd BinOp = "&&"
	OpOr  BinOp = "||"
)

// MethodOf is the fixed desugaring table from spec.md §4.1.
var MethodOf = map[BinOp]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpGt: "gt", OpLe: "le", OpGe: "ge",
	OpAnd: "logical_and", OpOr: "logical_or",
}

// BinaryOp is the surface `x OP y` form.
type BinaryOp struct {
	X  Node
	Op BinOp
	Y  Node
}

func (n *BinaryOp) LazyClone(CloneTable) Node { panic("node: BinaryOp must not survive preprocessing") }
func (n *BinaryOp) PropagateClone()           {}

// Conditional is the surface `cond ? a : b` form.
type Conditional struct {
	Cond, Then, Else Node
}

func (n *Conditional) LazyClone(CloneTable) Node {
	panic("node: Conditional must not survive preprocessing")
}
func (n *Conditional) PropagateClone() {}

// Definition is a single `name = expr` pair inside a block's defs, used by
// the parser and preprocessor to build Attrs below.
type Definition struct {
	Name string
	Expr Node
	// Eager marks a `:=` definition; the preprocessor wraps Expr in *Eager.
	Eager bool
}
