// Package ast defines OtterLang's abstract syntax tree (spec.md §3).
//
// Every node carries its own Span (for diagnostics) and a NodeID.
// Resolver and type-checker results are attached to nodes via id-keyed
// side-tables (spec.md §9 "Side-tables over node mutation") rather than by
// mutating the node itself, so the AST stays immutable after construction
// and the passes can be composed independently.
package ast

import "github.com/otterlang/otter/internal/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	Span() token.Span
	// ID is a process-unique identifier for this node, stable for its
	// lifetime, used as the key into resolver/type-checker side-tables.
	ID() NodeID
}

// NodeID identifies an AST node for side-table lookups.
type NodeID uint64

var nextID NodeID

func newID() NodeID {
	nextID++
	return nextID
}

// base is embedded by every concrete node to supply Span/ID plumbing.
type base struct {
	id   NodeID
	span token.Span
}

func newBase(span token.Span) base {
	return base{id: newID(), span: span}
}

func (b base) Span() token.Span { return b.span }
func (b base) ID() NodeID       { return b.id }

// Statement is a Node appearing in a statement position.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a Node appearing in an expression position.
type Expression interface {
	Node
	exprNode()
}

// Item is a Node allowed at module (top-level) scope: spec.md §4.B's
// top-level restriction permits only use/pub-use/type/struct/enum/fn/let
// and expression-statements there.
type Item interface {
	Node
	itemNode()
}

// Module is the root node of a parsed file (one compilation unit's AST).
type Module struct {
	base
	File  string
	Items []Item
}

func NewModule(span token.Span, file string, items []Item) *Module {
	return &Module{base: newBase(span), File: file, Items: items}
}
