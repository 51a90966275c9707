// Package symbols implements OtterLang's symbol table: a scope-chained
// store of Function/Struct/Enum/Variant/TypeAlias/Local/Param/GlobalLet/
// Module symbols, consulted by the resolver (spec.md §4.D) and the type
// checker (spec.md §4.E).
package symbols

import "github.com/otterlang/otter/internal/types"

// Kind classifies what a Symbol denotes.
type Kind int

const (
	FunctionSymbol Kind = iota
	StructSymbol
	EnumSymbol
	VariantSymbol
	TypeAliasSymbol
	LocalSymbol
	ParamSymbol
	GlobalLetSymbol
	ModuleSymbol
)

func (k Kind) String() string {
	switch k {
	case FunctionSymbol:
		return "function"
	case StructSymbol:
		return "struct"
	case EnumSymbol:
		return "enum"
	case VariantSymbol:
		return "variant"
	case TypeAliasSymbol:
		return "type alias"
	case LocalSymbol:
		return "local"
	case ParamSymbol:
		return "param"
	case GlobalLetSymbol:
		return "global let"
	case ModuleSymbol:
		return "module"
	default:
		return "symbol"
	}
}

// Visibility mirrors ast.Visibility without importing the ast package, so
// symbols stays a leaf dependency usable from both resolver and types.
type Visibility int

const (
	ModulePrivate Visibility = iota
	Public
)

// Symbol is one named entity bound in some scope.
type Symbol struct {
	Name    string
	Kind    Kind
	Vis     Visibility
	Type    types.Type // nil until the type checker fills it in
	Module  string     // defining module path, for visibility checks
	Poisoned bool      // true when bound after an unresolved reference (spec.md §4.D)
}

// Scope is one lexical level of the resolver's scope stack: function bodies,
// blocks, comprehensions, and match arms all push one.
type Scope struct {
	parent *Scope
	names  map[string]*Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]*Symbol)}
}

// Define binds name to sym in this scope, shadowing any outer binding.
func (s *Scope) Define(sym *Symbol) {
	s.names[sym.Name] = sym
}

// Lookup searches this scope and its ancestors.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only this scope, not its ancestors; used by the
// resolver's collect pass to detect illegal redefinition within one block.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.names[name]
	return sym, ok
}

// Table is the symbol table for one module: a module-level scope plus the
// stack of nested scopes currently being resolved.
type Table struct {
	Module string
	root   *Scope
	cur    *Scope
}

// NewTable creates an empty table for the module at path modulePath.
func NewTable(modulePath string) *Table {
	root := newScope(nil)
	return &Table{Module: modulePath, root: root, cur: root}
}

// Push opens a new nested scope (function body, block, comprehension).
func (t *Table) Push() { t.cur = newScope(t.cur) }

// Pop closes the innermost scope, restoring its parent as current.
func (t *Table) Pop() {
	if t.cur.parent != nil {
		t.cur = t.cur.parent
	}
}

// Define binds sym in the current scope.
func (t *Table) Define(sym *Symbol) { t.cur.Define(sym) }

// DefineModuleLevel binds sym in the module's root scope regardless of the
// current nesting, used for hoisted top-level declarations (spec.md §4.D's
// "collect pass" runs before bodies are visited).
func (t *Table) DefineModuleLevel(sym *Symbol) { t.root.Define(sym) }

// Lookup searches the current scope chain.
func (t *Table) Lookup(name string) (*Symbol, bool) { return t.cur.Lookup(name) }

// LookupModuleLevel searches only this module's top-level scope, used when
// resolving a qualified `module.Name` reference.
func (t *Table) LookupModuleLevel(name string) (*Symbol, bool) {
	return t.root.LookupLocal(name)
}

// InCurrentScope reports whether name is already bound in the innermost
// scope (not an ancestor), the condition the resolver treats as a
// Redefinition diagnostic.
func (t *Table) InCurrentScope(name string) bool {
	_, ok := t.cur.LookupLocal(name)
	return ok
}
