// Package prettyprinter renders an OtterLang AST back to source text. It
// exists to drive the round-trip testable property (spec.md §8 property 1:
// parse(print(parse(src))) == parse(src)) rather than as a user-facing
// formatter, which spec.md §1 places out of scope as an external
// collaborator.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/otterlang/otter/internal/ast"
)

// Printer writes an indented rendering of a *ast.Module, 4 spaces per
// nesting level.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

// Print renders mod as OtterLang source text.
func Print(mod *ast.Module) string {
	p := &Printer{}
	for _, item := range mod.Items {
		p.item(item)
	}
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func (p *Printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func vis(v ast.Visibility) string {
	if v == ast.Public {
		return "pub "
	}
	return ""
}

func generics(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func (p *Printer) item(it ast.Item) {
	switch n := it.(type) {
	case *ast.UseStmt:
		if n.Alias != "" {
			p.line("use %s as %s", n.Path, n.Alias)
		} else {
			p.line("use %s", n.Path)
		}
	case *ast.PubUseStmt:
		if n.Symbol == "" {
			p.line("pub use %s", n.Path)
		} else if n.Alias != "" {
			p.line("pub use %s.%s as %s", n.Path, n.Symbol, n.Alias)
		} else {
			p.line("pub use %s.%s", n.Path, n.Symbol)
		}
	case *ast.TypeAliasDecl:
		p.line("%stype %s%s = %s", vis(n.Vis), n.Name, generics(n.Generics), typeExprString(n.Underlying))
	case *ast.StructDecl:
		p.structDecl(n)
	case *ast.EnumDecl:
		p.enumDecl(n)
	case *ast.FunctionDecl:
		p.functionDecl(n)
	case *ast.LetStmt:
		p.letStmt(n)
	case *ast.ExprStmt:
		p.line("%s", exprString(n.X))
	}
}

func (p *Printer) structDecl(n *ast.StructDecl) {
	p.line("%sstruct %s%s:", vis(n.Vis), n.Name, generics(n.Generics))
	p.indent++
	for _, f := range n.Fields {
		p.line("%s: %s", f.Name, typeExprString(f.Type))
	}
	for _, m := range n.Methods {
		p.functionDecl(m)
	}
	p.indent--
}

func (p *Printer) enumDecl(n *ast.EnumDecl) {
	p.line("%senum %s%s:", vis(n.Vis), n.Name, generics(n.Generics))
	p.indent++
	for _, v := range n.Variants {
		if len(v.Payload) == 0 {
			p.line("%s", v.Name)
			continue
		}
		parts := make([]string, len(v.Payload))
		for i, t := range v.Payload {
			parts[i] = typeExprString(t)
		}
		p.line("%s(%s)", v.Name, strings.Join(parts, ", "))
	}
	p.indent--
}

func paramString(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		if prm.IsSelf {
			parts[i] = "self"
			continue
		}
		s := prm.Name
		if prm.Type != nil {
			s += ": " + typeExprString(prm.Type)
		}
		if prm.Default != nil {
			s += " = " + exprString(prm.Default)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) functionDecl(n *ast.FunctionDecl) {
	ret := ""
	if n.Ret != nil {
		ret = " -> " + typeExprString(n.Ret)
	}
	p.line("%sfn %s%s(%s)%s:", vis(n.Vis), n.Name, generics(n.Generics), paramString(n.Params), ret)
	p.indent++
	if len(n.Body) == 0 {
		p.line("pass")
	}
	for _, s := range n.Body {
		p.stmt(s)
	}
	p.indent--
}

func (p *Printer) letStmt(n *ast.LetStmt) {
	ann := ""
	if n.Annotation != nil {
		ann = ": " + typeExprString(n.Annotation)
	}
	p.line("let %s%s = %s", n.Name, ann, exprString(n.Value))
}

func (p *Printer) stmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.LetStmt:
		p.letStmt(n)
	case *ast.AssignStmt:
		p.line("%s = %s", exprString(n.Target), exprString(n.Value))
	case *ast.ReturnStmt:
		if n.Value != nil {
			p.line("return %s", exprString(n.Value))
		} else {
			p.line("return")
		}
	case *ast.BreakStmt:
		p.line("break")
	case *ast.ContinueStmt:
		p.line("continue")
	case *ast.PassStmt:
		p.line("pass")
	case *ast.RaiseStmt:
		if n.Value != nil {
			p.line("raise %s", exprString(n.Value))
		} else {
			p.line("raise")
		}
	case *ast.ExprStmt:
		if m, ok := n.X.(*ast.Match); ok {
			p.line("match %s:", exprString(m.Scrutinee))
			p.indent++
			for _, arm := range m.Arms {
				p.line("case %s:", patternString(arm.Pattern))
				p.block(arm.Body)
			}
			p.indent--
			return
		}
		p.line("%s", exprString(n.X))
	case *ast.IfStmt:
		p.line("if %s:", exprString(n.Cond))
		p.block(n.Body)
		for _, e := range n.Elifs {
			p.line("elif %s:", exprString(e.Cond))
			p.block(e.Body)
		}
		if n.Else != nil {
			p.line("else:")
			p.block(n.Else)
		}
	case *ast.WhileStmt:
		p.line("while %s:", exprString(n.Cond))
		p.block(n.Body)
	case *ast.ForStmt:
		p.line("for %s in %s:", patternString(n.Target), exprString(n.Iter))
		p.block(n.Body)
	case *ast.TryStmt:
		p.line("try:")
		p.block(n.Body)
		for _, h := range n.Handlers {
			if h.Pattern != nil {
				p.line("except %s:", patternString(h.Pattern))
			} else {
				p.line("except:")
			}
			p.block(h.Body)
		}
		if n.Else != nil {
			p.line("else:")
			p.block(n.Else)
		}
		if n.Finally != nil {
			p.line("finally:")
			p.block(n.Finally)
		}
	}
}

func (p *Printer) block(stmts []ast.Statement) {
	p.indent++
	if len(stmts) == 0 {
		p.line("pass")
	}
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
}
