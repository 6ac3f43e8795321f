// Package preprocess resolves the surface-only references left by the
// parser (spec.md §4.1): self, parent-at-depth, and ancestor-by-name become
// direct back-edges into the enclosing construction, binary/ternary forms
// desugar into Access/Call chains over the primitive method tables, and
// integer/string literals are wrapped into full method-exposing blocks.
package preprocess

import (
	"fmt"

	"github.com/blocklang/blocklang/internal/builtin"
	"github.com/blocklang/blocklang/internal/node"
)

// Error is a preprocess-time failure: an undefined ancestor lookup or a
// parent-depth that exceeds the enclosing-scope stack.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Run preprocesses a freshly-parsed module (a top-level Block with no
// enclosing scopes) into a graph with every surface-only node erased.
func Run(module *node.Block) (*node.Block, error) {
	result, err := process(nil, module)
	if err != nil {
		return nil, err
	}
	return result.(*node.Block), nil
}

// process preprocesses expr against parents, the ancestor stack ordered
// outermost-first with the innermost entry standing for "self".
func process(parents []node.Scope, expr node.Node) (node.Node, error) {
	switch e := expr.(type) {
	case *node.SelfRef:
		if len(parents) == 0 {
			return nil, &Error{Message: "'@' used with no enclosing block"}
		}
		return &node.BackEdge{Base: parents[len(parents)-1]}, nil

	case *node.Parent:
		if e.Depth+1 > len(parents) {
			return nil, &Error{Message: fmt.Sprintf("'^' depth %d exceeds enclosing scope depth %d", e.Depth, len(parents))}
		}
		return &node.BackEdge{Base: parents[len(parents)-1-e.Depth]}, nil

	case *node.AncestorLookup:
		// Search from the nearest strict ancestor (skip self) outward.
		for i := len(parents) - 2; i >= 0; i-- {
			if has(parents[i], e.Name) {
				return &node.Access{Base: &node.BackEdge{Base: parents[i]}, Attr: e.Name}, nil
			}
		}
		return nil, &Error{Message: fmt.Sprintf("no ancestor defines %q", e.Name)}

	case *node.Identifier:
		return process(parents, &node.Access{Base: &node.SelfRef{}, Attr: e.Name})

	case *node.BinaryOp:
		method, ok := node.MethodOf[e.Op]
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("unknown binary operator %q", e.Op)}
		}
		desugared := &node.Access{
			Base: node.NewCall(
				&node.Access{Base: e.X, Attr: method},
				[]node.Definition{{Name: "y", Expr: e.Y}},
			),
			Attr: "result",
		}
		return process(parents, desugared)

	case *node.Conditional:
		desugared := &node.Access{
			Base: node.NewCall(
				&node.Access{Base: e.Cond, Attr: "select"},
				[]node.Definition{{Name: "true", Expr: e.Then}, {Name: "false", Expr: e.Else}},
			),
			Attr: "result",
		}
		return process(parents, desugared)

	case *node.IntLit:
		return builtin.IntBlock(e.Value), nil

	case *node.StringLit:
		return builtin.StringBlock(e.Value), nil

	case *node.Access:
		base, err := process(parents, e.Base)
		if err != nil {
			return nil, err
		}
		return &node.Access{Base: base, Attr: e.Attr}, nil

	case *node.Eager:
		inner, err := process(parents, e.Inner)
		if err != nil {
			return nil, err
		}
		return &node.Eager{Inner: inner}, nil

	case *node.CloneAttr:
		return e, nil

	case *node.Block:
		result := &node.Block{Attrs: preregister(e.Keys)}
		extended := append(append([]node.Scope{}, parents...), result)
		for _, k := range e.Keys {
			v, err := process(extended, e.Defs[k])
			if err != nil {
				return nil, err
			}
			result.Set(k, v)
		}
		return result, nil

	case *node.Override:
		base, err := process(parents, e.Base)
		if err != nil {
			return nil, err
		}
		result := &node.Override{}
		result.Base = base
		result.Attrs = preregister(e.Attrs.Keys)
		extended := append(append([]node.Scope{}, parents...), result)
		for _, k := range e.Attrs.Keys {
			v, err := process(extended, e.Attrs.Defs[k])
			if err != nil {
				return nil, err
			}
			result.Attrs.Set(k, v)
		}
		return result, nil

	case *node.Call:
		// Call's right-hand sides are arguments, preprocessed against the
		// original stack: a Call does not introduce a new lexical scope.
		base, err := process(parents, e.Base)
		if err != nil {
			return nil, err
		}
		var defs []node.Definition
		for _, k := range e.Attrs.Keys {
			v, err := process(parents, e.Attrs.Defs[k])
			if err != nil {
				return nil, err
			}
			defs = append(defs, node.Definition{Name: k, Expr: v})
		}
		return node.NewCall(base, defs), nil

	case *node.BackEdge:
		// Already preprocessed (e.g. reused builtin graphs); pass through.
		return e, nil

	case *node.IntOp, *node.IntLogicalAnd, *node.IntLogicalOr, *node.Select,
		*node.IntStr, *node.IntChr, *node.StrCat, *node.StrComparison,
		*node.StrLen, *node.StrSubstr:
		// Built-ins only appear inside already-wrapped primitive blocks.
		return e, nil

	default:
		return nil, &Error{Message: fmt.Sprintf("internal error: preprocess cannot handle %T", expr)}
	}
}

// preregister builds an Attrs whose key order is already fixed, with every
// value set to a nil placeholder. This is the two-phase pass spec.md §4.1
// calls for: ancestor-lookup inside a sibling definition must be able to
// see a not-yet-processed key, so every key is registered before any
// right-hand side is preprocessed.
func preregister(keys []string) node.Attrs {
	a := node.NewAttrs()
	for _, k := range keys {
		a.Set(k, nil)
	}
	return a
}

// has reports whether scope s defines attribute name, without triggering
// any clone propagation: preprocessing runs once, before any cloning, over
// a graph that is entirely owned by this pass.
func has(s node.Scope, name string) bool {
	switch b := s.(type) {
	case *node.Block:
		_, ok := b.Get(name)
		return ok
	case *node.Override:
		_, ok := b.Attrs.Get(name)
		return ok
	}
	return false
}
