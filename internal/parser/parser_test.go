package parser

import (
	"testing"

	"github.com/blocklang/blocklang/internal/node"
)

func TestParseSimpleAssign(t *testing.T) {
	m, err := Parse(`result = 5`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := m.Defs["result"].(*node.IntLit)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected IntLit(5), got %#v", m.Defs["result"])
	}
}

func TestParseBlockLiteral(t *testing.T) {
	m, err := Parse(`result = { x = 1, y = 2 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blk, ok := m.Defs["result"].(*node.Block)
	if !ok {
		t.Fatalf("expected a Block, got %T", m.Defs["result"])
	}
	if len(blk.Keys) != 2 || blk.Keys[0] != "x" || blk.Keys[1] != "y" {
		t.Fatalf("expected keys [x y], got %v", blk.Keys)
	}
}

func TestParseNewlineIsADelimiter(t *testing.T) {
	m, err := Parse("result = { x = 1\n y = 2 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blk := m.Defs["result"].(*node.Block)
	if len(blk.Keys) != 2 {
		t.Fatalf("expected newline to act as a delimiter, got keys %v", blk.Keys)
	}
}

func TestParseOverrideAndCall(t *testing.T) {
	m, err := Parse(`result = x[a=1](b=2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := m.Defs["result"].(*node.Call)
	if !ok {
		t.Fatalf("expected outer node to be a Call, got %T", m.Defs["result"])
	}
	if _, ok := call.Base.(*node.Override); !ok {
		t.Fatalf("expected call's base to be an Override, got %T", call.Base)
	}
}

func TestParseBangDesugarsToResult(t *testing.T) {
	m, err := Parse(`result = x!`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc, ok := m.Defs["result"].(*node.Access)
	if !ok || acc.Attr != "result" {
		t.Fatalf("expected Access(x, \"result\"), got %#v", m.Defs["result"])
	}
}

func TestParseEagerOnlyLegalInCall(t *testing.T) {
	if _, err := Parse(`result = x[a := 1]`); err == nil {
		t.Fatalf("expected an error: ':=' is illegal inside an Override")
	}
	m, err := Parse(`result = x(a := 1)`)
	if err != nil {
		t.Fatalf("unexpected error for ':=' inside a Call: %v", err)
	}
	call := m.Defs["result"].(*node.Call)
	if _, ok := call.Attrs.Defs["a"].(*node.Eager); !ok {
		t.Fatalf("expected 'a' to be wrapped in Eager")
	}
}

func TestParseCloneAttr(t *testing.T) {
	m, err := Parse(`result = { a = 1, b <- a }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blk := m.Defs["result"].(*node.Block)
	ca, ok := blk.Defs["b"].(*node.CloneAttr)
	if !ok || ca.Attr != "a" {
		t.Fatalf("expected CloneAttr(a), got %#v", blk.Defs["b"])
	}
}

func TestParseDuplicateKeyIsFatal(t *testing.T) {
	if _, err := Parse(`result = { x = 1, x = 2 }`); err == nil {
		t.Fatalf("expected a parse error for a duplicate key")
	}
}

func TestParseAncestorLookup(t *testing.T) {
	m, err := Parse(`result = ^^.name`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	al, ok := m.Defs["result"].(*node.AncestorLookup)
	if !ok || al.Name != "name" {
		t.Fatalf("expected AncestorLookup(name), got %#v", m.Defs["result"])
	}
}

func TestParseParentChain(t *testing.T) {
	m, err := Parse(`result = ^.^.x`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc := m.Defs["result"].(*node.Access)
	par, ok := acc.Base.(*node.Parent)
	if !ok || par.Depth != 2 {
		t.Fatalf("expected Parent(depth=2), got %#v", acc.Base)
	}
}

func TestParseParentCaretOutsideChainIsFatal(t *testing.T) {
	if _, err := Parse(`result = x.^`); err == nil {
		t.Fatalf("expected an error: '^' after a non-Parent expression")
	}
}

// TestParsePrecedence checks one entry of the fixed precedence table of
// spec.md §6: `*` binds tighter than `+`.
func TestParsePrecedence(t *testing.T) {
	m, err := Parse(`result = 1 + 2 * 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := m.Defs["result"].(*node.BinaryOp)
	if !ok || top.Op != node.OpAdd {
		t.Fatalf("expected the top-level operator to be '+', got %#v", m.Defs["result"])
	}
	rhs, ok := top.Y.(*node.BinaryOp)
	if !ok || rhs.Op != node.OpMul {
		t.Fatalf("expected '*' to bind tighter than '+', got rhs %#v", top.Y)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	m, err := Parse(`result = 1 - 2 - 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top := m.Defs["result"].(*node.BinaryOp)
	if top.Op != node.OpSub {
		t.Fatalf("expected top operator '-', got %v", top.Op)
	}
	lhs, ok := top.X.(*node.BinaryOp)
	if !ok || lhs.Op != node.OpSub {
		t.Fatalf("expected '-' to associate left: (1 - 2) - 3, got lhs %#v", top.X)
	}
	if _, ok := top.Y.(*node.IntLit); !ok {
		t.Fatalf("expected the outermost rhs to be the literal 3, got %#v", top.Y)
	}
}

func TestParseTernaryLooserThanBinary(t *testing.T) {
	m, err := Parse(`result = 1 == 1 ? 2 + 1 : 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond, ok := m.Defs["result"].(*node.Conditional)
	if !ok {
		t.Fatalf("expected a Conditional, got %T", m.Defs["result"])
	}
	if _, ok := cond.Cond.(*node.BinaryOp); !ok {
		t.Fatalf("expected the condition to be a binary comparison, got %T", cond.Cond)
	}
}

func TestParseStringLiteral(t *testing.T) {
	m, err := Parse(`result = "a\nb"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := m.Defs["result"].(*node.StringLit)
	if !ok || lit.Value != "a\nb" {
		t.Fatalf("expected StringLit(\"a\\nb\"), got %#v", m.Defs["result"])
	}
}

func TestParseCommaAndNewlineInterchangeable(t *testing.T) {
	m, err := Parse("result = { a = 1, b = 2\n c = 3 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blk := m.Defs["result"].(*node.Block)
	if len(blk.Keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", blk.Keys)
	}
}
