// Package parser turns a token stream into the raw (pre-preprocess) graph
// of node.Node values described in spec.md §3. There is no separate AST
// package: source, runtime value, and back-edge graph are all node.Node, so
// the parser builds the same graph the evaluator will later reduce.
package parser

import (
	"fmt"

	"github.com/blocklang/blocklang/internal/lexer"
	"github.com/blocklang/blocklang/internal/node"
	"github.com/blocklang/blocklang/internal/token"
)

// Error is a parse-time failure: an unexpected token, a duplicate key
// within one block, an out-of-context `:=`, or a `^` used outside a chain.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// context tracks whether the defs currently being parsed belong to a Call
// (where eager `:=` definitions are legal) or not (spec.md §7: "eager
// definition in a non-call context" is a parse error).
type context int

const (
	ctxPlain context = iota
	ctxCall
)

// Parser is a simple recursive-descent / precedence-climbing parser with
// one token of lookahead, in the style of the teacher's hand-written
// parsers: no parser-generator, no backtracking.
type Parser struct {
	toks []token.Token
	k    int
}

// Parse lexes and parses a full module, returning the top-level Block.
func Parse(src string) (*node.Block, error) {
	toks, err := lexer.Tokens(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseModule()
}

func (p *Parser) peek() token.Token {
	if p.k < len(p.toks) {
		return p.toks[p.k]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) peekAt(n int) token.Token {
	k := p.k + n
	if k < len(p.toks) {
		return p.toks[k]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.k < len(p.toks)-1 {
		p.k++
	}
	return t
}

func (p *Parser) match(types ...token.Type) (token.Token, bool) {
	for _, t := range types {
		if p.peek().Type == t {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if tok, ok := p.match(t); ok {
		return tok, nil
	}
	got := p.peek()
	return token.Token{}, &Error{Pos: got.Pos, Message: fmt.Sprintf("expected %s, got %s", t, got.Type)}
}

func (p *Parser) consumeDelims() {
	for {
		if _, ok := p.match(token.COMMA, token.NEWLINE); !ok {
			return
		}
	}
}

func (p *Parser) parseModule() (*node.Block, error) {
	defs, err := p.parseDefsUntil(ctxPlain, token.EOF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return node.NewBlock(defs), nil
}

// parseDefsUntil parses `def (',' | NEWLINE)*` repeatedly until the next
// token's type is in stop.
func (p *Parser) parseDefsUntil(ctx context, stop ...token.Type) ([]node.Definition, error) {
	isStop := func(t token.Type) bool {
		for _, s := range stop {
			if s == t {
				return true
			}
		}
		return false
	}

	var defs []node.Definition
	seen := make(map[string]bool)
	p.consumeDelims()
	for !isStop(p.peek().Type) {
		startPos := p.peek().Pos
		d, err := p.parseDefinition(ctx)
		if err != nil {
			return nil, err
		}
		if seen[d.Name] {
			return nil, &Error{Pos: startPos, Message: fmt.Sprintf("redefinition of %q", d.Name)}
		}
		seen[d.Name] = true
		defs = append(defs, d)
		p.consumeDelims()
	}
	return defs, nil
}

func (p *Parser) parseDefinition(ctx context) (node.Definition, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return node.Definition{}, err
	}
	switch {
	case p.peek().Type == token.ASSIGN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return node.Definition{}, err
		}
		return node.Definition{Name: name.Literal, Expr: expr}, nil
	case p.peek().Type == token.DEFINE:
		eagerPos := p.peek().Pos
		p.advance()
		if ctx != ctxCall {
			return node.Definition{}, &Error{Pos: eagerPos, Message: "eager definition (:=) in a non-call context"}
		}
		expr, err := p.parseExpr()
		if err != nil {
			return node.Definition{}, err
		}
		return node.Definition{Name: name.Literal, Expr: &node.Eager{Inner: expr}}, nil
	case p.peek().Type == token.CLONE:
		p.advance()
		aliased, err := p.expect(token.IDENT)
		if err != nil {
			return node.Definition{}, err
		}
		return node.Definition{Name: name.Literal, Expr: &node.CloneAttr{Attr: aliased.Literal}}, nil
	default:
		got := p.peek()
		return node.Definition{}, &Error{Pos: got.Pos, Message: fmt.Sprintf("expected '=', ':=', or '<-', got %s", got.Type)}
	}
}

// parseExpr parses a full expression: ternary over binary over postfix.
func (p *Parser) parseExpr() (node.Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(token.QUESTION); !ok {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &node.Conditional{Cond: cond, Then: then, Else: els}, nil
}

// precedence is the fixed left-associative binding power table from
// spec.md §6.
var precedence = map[token.Type]int{
	token.OR:      3,
	token.AND:     4,
	token.EQ:      5,
	token.NE:      5,
	token.LT:      7,
	token.GT:      7,
	token.LE:      7,
	token.GE:      7,
	token.PLUS:    10,
	token.MINUS:   10,
	token.STAR:    20,
	token.SLASH:   20,
	token.PERCENT: 20,
}

var binOpFor = map[token.Type]node.BinOp{
	token.OR: node.OpOr, token.AND: node.OpAnd,
	token.EQ: node.OpEq, token.NE: node.OpNe,
	token.LT: node.OpLt, token.GT: node.OpGt, token.LE: node.OpLe, token.GE: node.OpGe,
	token.PLUS: node.OpAdd, token.MINUS: node.OpSub,
	token.STAR: node.OpMul, token.SLASH: node.OpDiv, token.PERCENT: node.OpMod,
}

// parseBinary implements precedence climbing for the left-associative
// binary operator table.
func (p *Parser) parseBinary(minPrec int) (node.Node, error) {
	lhs, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := precedence[p.peek().Type]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		opTok := p.advance()
		rhs, err := p.parseBinary(prec + 1) // +1: left-associative
		if err != nil {
			return nil, err
		}
		lhs = &node.BinaryOp{X: lhs, Op: binOpFor[opTok.Type], Y: rhs}
	}
}

func (p *Parser) parsePostfix() (node.Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case token.DOT:
			dotPos := p.peek().Pos
			p.advance()
			if _, ok := p.match(token.PARENT); ok {
				par, ok := n.(*node.Parent)
				if !ok {
					return nil, &Error{Pos: dotPos, Message: "'^' used outside a parent chain"}
				}
				n = &node.Parent{Depth: par.Depth + 1}
				continue
			}
			attr, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			n = &node.Access{Base: n, Attr: attr.Literal}
		case token.BANG:
			p.advance()
			n = &node.Access{Base: n, Attr: "result"}
		case token.LBRACK:
			p.advance()
			defs, err := p.parseDefsUntil(ctxPlain, token.RBRACK)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			n = node.NewOverride(n, defs)
		case token.LPAREN:
			p.advance()
			defs, err := p.parseDefsUntil(ctxCall, token.RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			n = node.NewCall(n, defs)
		default:
			return n, nil
		}
	}
}

func (p *Parser) parsePrimary() (node.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case token.LBRACE:
		p.advance()
		defs, err := p.parseDefsUntil(ctxPlain, token.RBRACE)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return node.NewBlock(defs), nil
	case token.INT:
		p.advance()
		var v int64
		if _, err := fmt.Sscanf(tok.Literal, "%d", &v); err != nil {
			return nil, &Error{Pos: tok.Pos, Message: fmt.Sprintf("malformed integer literal %q", tok.Literal)}
		}
		return &node.IntLit{Value: v}, nil
	case token.STRING:
		p.advance()
		return &node.StringLit{Value: tok.Literal}, nil
	case token.SELF:
		p.advance()
		return &node.SelfRef{}, nil
	case token.PARENT:
		p.advance()
		return &node.Parent{Depth: 1}, nil
	case token.ANCESTOR:
		p.advance()
		if _, err := p.expect(token.DOT); err != nil {
			return nil, err
		}
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &node.AncestorLookup{Name: name.Literal}, nil
	case token.IDENT:
		p.advance()
		return &node.Identifier{Name: tok.Literal}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, &Error{Pos: tok.Pos, Message: fmt.Sprintf("unexpected token %s", tok.Type)}
	}
}
