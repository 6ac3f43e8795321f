package node

// Attrs is the ordered name->Node mapping shared by Block, Override, and
// Call (spec.md §3: "an ordered mapping from attribute name (unique within
// the block) to child node").
type Attrs struct {
	Keys []string
	Defs map[string]Node
}

// NewAttrs builds an empty ordered attribute map.
func NewAttrs() Attrs {
	return Attrs{Defs: make(map[string]Node)}
}

// Get looks up an attribute by name.
func (a *Attrs) Get(name string) (Node, bool) {
	v, ok := a.Defs[name]
	return v, ok
}

// Set inserts a new attribute, or overwrites an existing one in place. New
// keys are appended to Keys, preserving the order attributes were first
// introduced — which is how an Override can both replace existing
// attributes and extend the block with new ones (spec.md §4.2).
func (a *Attrs) Set(name string, v Node) {
	if _, ok := a.Defs[name]; !ok {
		a.Keys = append(a.Keys, name)
	}
	a.Defs[name] = v
}

// clone makes a shallow copy: a fresh Keys slice and Defs map, pointing at
// the same child Node values (cloning children is propagate_clone's job,
// not lazy_clone's).
func (a Attrs) clone() Attrs {
	keys := make([]string, len(a.Keys))
	copy(keys, a.Keys)
	defs := make(map[string]Node, len(a.Defs))
	for k, v := range a.Defs {
		defs[k] = v
	}
	return Attrs{Keys: keys, Defs: defs}
}

// Block is a named-attribute record: both AST and runtime value.
type Block struct {
	Attrs
	cloneOverrides CloneTable
}

// NewBlock builds a Block from ordered definitions.
func NewBlock(defs []Definition) *Block {
	b := &Block{Attrs: NewAttrs()}
	for _, d := range defs {
		b.Set(d.Name, d.Expr)
	}
	return b
}

func (*Block) isScope() {}

func (n *Block) LazyClone(overrides CloneTable) Node {
	result := &Block{Attrs: n.Attrs.clone()}
	result.cloneOverrides = mergeOverrides(overrides, CloneTable{n: result}, n.cloneOverrides)
	return result
}

func (n *Block) PropagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	for _, k := range n.Keys {
		n.Defs[k] = n.Defs[k].LazyClone(overrides)
	}
	n.cloneOverrides = nil
}

// baseAndDefs factors the shared shape of Override and Call: "the block
// obtained by evaluating base and replacing/extending its attributes with
// defs" (spec.md §3).
type baseAndDefs struct {
	Base           Node
	Attrs          Attrs
	cloneOverrides CloneTable
}

func (n *baseAndDefs) propagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	n.Base = n.Base.LazyClone(overrides)
	for _, k := range n.Attrs.Keys {
		n.Attrs.Defs[k] = n.Attrs.Defs[k].LazyClone(overrides)
	}
	n.cloneOverrides = nil
}

// Override is `{ base, defs }`: base's value with defs replacing/extending
// its attributes. Back-edges may target an Override.
type Override struct{ baseAndDefs }

func NewOverride(base Node, defs []Definition) *Override {
	o := &Override{baseAndDefs{Base: base, Attrs: NewAttrs()}}
	for _, d := range defs {
		o.Attrs.Set(d.Name, d.Expr)
	}
	return o
}

func (*Override) isScope() {}

func (n *Override) LazyClone(overrides CloneTable) Node {
	result := &Override{baseAndDefs{Base: n.Base, Attrs: n.Attrs.clone()}}
	result.cloneOverrides = mergeOverrides(overrides, CloneTable{n: result}, n.cloneOverrides)
	return result
}

func (n *Override) PropagateClone() { n.baseAndDefs.propagateClone() }

// Call is structurally identical to Override and reduces identically, but a
// back-edge never targets one (spec.md §3, §4.3): its lazy-clone does not
// add itself to the override table.
type Call struct{ baseAndDefs }

func NewCall(base Node, defs []Definition) *Call {
	c := &Call{baseAndDefs{Base: base, Attrs: NewAttrs()}}
	for _, d := range defs {
		c.Attrs.Set(d.Name, d.Expr)
	}
	return c
}

func (n *Call) LazyClone(overrides CloneTable) Node {
	result := &Call{baseAndDefs{Base: n.Base, Attrs: n.Attrs.clone()}}
	result.cloneOverrides = mergeOverrides(overrides, n.cloneOverrides)
	return result
}

func (n *Call) PropagateClone() { n.baseAndDefs.propagateClone() }

// Access is `{ base, attr }`: attribute projection.
type Access struct {
	Base           Node
	Attr           string
	cloneOverrides CloneTable
}

func (n *Access) LazyClone(overrides CloneTable) Node {
	result := &Access{Base: n.Base, Attr: n.Attr}
	result.cloneOverrides = mergeOverrides(overrides, n.cloneOverrides)
	return result
}

func (n *Access) PropagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	n.Base = n.Base.LazyClone(overrides)
	n.cloneOverrides = nil
}

// Eager wraps a definition's expression to mark it as evaluated the moment
// its enclosing block is first observed as a value.
type Eager struct {
	Inner          Node
	cloneOverrides CloneTable
}

func (n *Eager) LazyClone(overrides CloneTable) Node {
	result := &Eager{Inner: n.Inner}
	result.cloneOverrides = mergeOverrides(overrides, n.cloneOverrides)
	return result
}

func (n *Eager) PropagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	n.Inner = n.Inner.LazyClone(overrides)
	n.cloneOverrides = nil
}

// BackEdge is an internal edge back into a containing Block or Override,
// installed only by the preprocessor (spec.md §3 invariant 2).
type BackEdge struct {
	Base           Scope
	cloneOverrides CloneTable
}

func (n *BackEdge) LazyClone(overrides CloneTable) Node {
	result := &BackEdge{Base: n.Base}
	result.cloneOverrides = mergeOverrides(overrides, n.cloneOverrides)
	return result
}

func (n *BackEdge) PropagateClone() {
	overrides := n.cloneOverrides
	if len(overrides) == 0 {
		n.cloneOverrides = nil
		return
	}
	// Chase the table: nested overrides may redirect the target more than
	// once before it lands on a still-live node (spec.md §4.3).
	for {
		next, ok := overrides[n.Base]
		if !ok {
			break
		}
		scope, ok := next.(Scope)
		if !ok {
			break
		}
		n.Base = scope
	}
	n.cloneOverrides = nil
}
