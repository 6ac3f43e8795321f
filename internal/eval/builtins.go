package eval

import (
	"strconv"
	"unicode/utf8"

	"github.com/blocklang/blocklang/internal/builtin"
	"github.com/blocklang/blocklang/internal/node"
)

// readInner builds `context.field._inner`: the two-level read a wrapped
// built-in (IntOp, StrCat, ...) uses to pull its argument's primitive value
// out through the method-argument block (spec.md §4.4).
func readInner(ctx node.Node, field string) node.Node {
	return &node.Access{Base: &node.Access{Base: ctx, Attr: field}, Attr: "_inner"}
}

// readInnerDirect builds `context._inner`: the single-level read a direct
// built-in (IntStr, IntChr, StrLen) uses, since its context points straight
// at the primitive block rather than at an argument-supplying wrapper.
func readInnerDirect(ctx node.Node) node.Node {
	return &node.Access{Base: ctx, Attr: "_inner"}
}

func asInt(value node.Node, what string) (int64, error) {
	lit, ok := value.(*node.IntLit)
	if !ok {
		return 0, errTypef("%s expects an integer, got %T", what, value)
	}
	return lit.Value, nil
}

func asString(value node.Node, what string) (string, error) {
	lit, ok := value.(*node.StringLit)
	if !ok {
		return "", errTypef("%s expects a string, got %T", what, value)
	}
	return lit.Value, nil
}

// --- IntOp ---------------------------------------------------------------

func stepIntOp(n *node.IntOp, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(stack *[]frame, xVal node.Node) (node.Node, bool, error) {
		x, err := asInt(xVal, "integer operation")
		if err != nil {
			return nil, false, err
		}
		push(stack, func(_ *[]frame, yVal node.Node) (node.Node, bool, error) {
			y, err := asInt(yVal, "integer operation")
			if err != nil {
				return nil, false, err
			}
			result, err := applyIntOp(n.Op, x, y)
			if err != nil {
				return nil, false, err
			}
			return result, false, nil
		})
		return readInner(n.Context, "y"), true, nil
	})
	return readInner(n.Context, "x"), false, nil
}

func applyIntOp(op node.IntBinOp, x, y int64) (*node.Block, error) {
	boolInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case node.IntAdd:
		return builtin.IntBlock(x + y), nil
	case node.IntSub:
		return builtin.IntBlock(x - y), nil
	case node.IntMul:
		return builtin.IntBlock(x * y), nil
	case node.IntDiv:
		if y == 0 {
			return nil, errTypef("integer division by zero")
		}
		return builtin.IntBlock(floorDiv(x, y)), nil
	case node.IntMod:
		if y == 0 {
			return nil, errTypef("integer division by zero")
		}
		return builtin.IntBlock(floorMod(x, y)), nil
	case node.IntEq:
		return builtin.IntBlock(boolInt(x == y)), nil
	case node.IntNe:
		return builtin.IntBlock(boolInt(x != y)), nil
	case node.IntLt:
		return builtin.IntBlock(boolInt(x < y)), nil
	case node.IntGt:
		return builtin.IntBlock(boolInt(x > y)), nil
	case node.IntLe:
		return builtin.IntBlock(boolInt(x <= y)), nil
	case node.IntGe:
		return builtin.IntBlock(boolInt(x >= y)), nil
	default:
		return nil, errInvariantf("unknown integer operator %d", op)
	}
}

// floorDiv/floorMod implement floor (not truncating) integer division: the
// quotient rounds toward negative infinity and the remainder takes the sign
// of the divisor (spec.md §4.4).
func floorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// --- IntLogicalAnd / IntLogicalOr -----------------------------------------

func stepIntLogical(ctx *node.BackEdge, and bool, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(stack *[]frame, xVal node.Node) (node.Node, bool, error) {
		x, err := asInt(xVal, "logical operation")
		if err != nil {
			return nil, false, err
		}
		decisive := (and && x == 0) || (!and && x != 0)
		if decisive {
			return builtin.IntBlock(x), false, nil
		}
		push(stack, func(_ *[]frame, yVal node.Node) (node.Node, bool, error) {
			y, err := asInt(yVal, "logical operation")
			if err != nil {
				return nil, false, err
			}
			return builtin.IntBlock(y), false, nil
		})
		return readInner(ctx, "y"), true, nil
	})
	return readInner(ctx, "x"), false, nil
}

// --- Select ----------------------------------------------------------------

func stepSelect(n *node.Select, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(_ *[]frame, condVal node.Node) (node.Node, bool, error) {
		cond, err := asInt(condVal, "select condition")
		if err != nil {
			return nil, false, err
		}
		branch := "false"
		if cond != 0 {
			branch = "true"
		}
		return &node.Access{Base: n.Context, Attr: branch}, true, nil
	})
	return readInner(n.Context, "cond"), false, nil
}

// --- IntStr / IntChr -------------------------------------------------------

func stepIntStr(n *node.IntStr, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(_ *[]frame, value node.Node) (node.Node, bool, error) {
		v, err := asInt(value, "str")
		if err != nil {
			return nil, false, err
		}
		return builtin.StringBlock(strconv.FormatInt(v, 10)), false, nil
	})
	return readInnerDirect(n.Context), false, nil
}

func stepIntChr(n *node.IntChr, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(_ *[]frame, value node.Node) (node.Node, bool, error) {
		v, err := asInt(value, "chr")
		if err != nil {
			return nil, false, err
		}
		if v < 0 || v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
			return nil, false, errTypef("chr: %d is not a valid code point", v)
		}
		return builtin.StringBlock(string(rune(v))), false, nil
	})
	return readInnerDirect(n.Context), false, nil
}

// --- StrCat ------------------------------------------------------------

func stepStrCat(n *node.StrCat, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(stack *[]frame, xVal node.Node) (node.Node, bool, error) {
		x, err := asString(xVal, "cat")
		if err != nil {
			return nil, false, err
		}
		push(stack, func(_ *[]frame, yVal node.Node) (node.Node, bool, error) {
			y, err := asString(yVal, "cat")
			if err != nil {
				return nil, false, err
			}
			return builtin.StringBlock(x + y), false, nil
		})
		return readInner(n.Context, "y"), true, nil
	})
	return readInner(n.Context, "x"), false, nil
}

// --- StrComparison -------------------------------------------------------

// stepStrComparison implements a plain lexicographic compare on raw Go
// strings (spec.md §4.4), matching the teacher's default CompareStr/
// AnsiCompareStr builtins rather than its locale-aware CompareLocaleStr:
// blocklang has no locale concept, and collation ordering (e.g. DUCET's
// case handling) diverges from code-point order for mixed-case strings.
func stepStrComparison(n *node.StrComparison, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(stack *[]frame, xVal node.Node) (node.Node, bool, error) {
		x, err := asString(xVal, "string comparison")
		if err != nil {
			return nil, false, err
		}
		push(stack, func(_ *[]frame, yVal node.Node) (node.Node, bool, error) {
			y, err := asString(yVal, "string comparison")
			if err != nil {
				return nil, false, err
			}
			return builtin.IntBlock(boolToInt(evalStrOp(n.Op, x, y))), false, nil
		})
		return readInner(n.Context, "y"), true, nil
	})
	return readInner(n.Context, "x"), false, nil
}

func evalStrOp(op node.StrCompareOp, x, y string) bool {
	switch op {
	case node.StrEq:
		return x == y
	case node.StrNe:
		return x != y
	case node.StrLt:
		return x < y
	case node.StrGt:
		return x > y
	case node.StrLe:
		return x <= y
	case node.StrGe:
		return x >= y
	default:
		return false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// --- StrLen --------------------------------------------------------------

func stepStrLen(n *node.StrLen, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(_ *[]frame, value node.Node) (node.Node, bool, error) {
		s, err := asString(value, "len")
		if err != nil {
			return nil, false, err
		}
		return builtin.IntBlock(int64(utf8.RuneCountInString(s))), false, nil
	})
	return readInnerDirect(n.Context), false, nil
}

// --- StrSubstr -------------------------------------------------------------

func stepStrSubstr(n *node.StrSubstr, stack *[]frame) (node.Node, bool, error) {
	push(stack, func(stack *[]frame, xVal node.Node) (node.Node, bool, error) {
		x, err := asString(xVal, "substr")
		if err != nil {
			return nil, false, err
		}
		runes := []rune(x)
		push(stack, func(stack *[]frame, startVal node.Node) (node.Node, bool, error) {
			start, err := asInt(startVal, "substr")
			if err != nil {
				return nil, false, err
			}
			push(stack, func(_ *[]frame, endVal node.Node) (node.Node, bool, error) {
				end, err := asInt(endVal, "substr")
				if err != nil {
					return nil, false, err
				}
				if start < 0 || end < start || end > int64(len(runes)) {
					return nil, false, errReff("substr: range [%d:%d) out of bounds for length %d", start, end, len(runes))
				}
				return builtin.StringBlock(string(runes[start:end])), false, nil
			})
			return readInner(n.Context, "end"), true, nil
		})
		return readInner(n.Context, "start"), true, nil
	})
	return readInner(n.Context, "x"), false, nil
}

// --- Block helpers ---------------------------------------------------------

func hasCloneAttr(n *node.Block) bool {
	for _, k := range n.Keys {
		if _, ok := n.Defs[k].(*node.CloneAttr); ok {
			return true
		}
	}
	return false
}

func eagerKeys(n *node.Block) []string {
	var keys []string
	for _, k := range n.Keys {
		if _, ok := n.Defs[k].(*node.Eager); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
