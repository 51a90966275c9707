package prettyprinter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/otterlang/otter/internal/ast"
)

// exprString renders an expression inline; statements that need structured
// (indented, multi-line) layout are handled by Printer.stmt instead.
func exprString(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return strconv.Quote(n.Value)
	case *ast.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.UnitLiteral:
		return "()"
	case *ast.FString:
		var b strings.Builder
		b.WriteByte('f')
		b.WriteByte('"')
		for _, piece := range n.Pieces {
			if piece.Expr != nil {
				b.WriteByte('{')
				b.WriteString(exprString(piece.Expr))
				b.WriteByte('}')
			} else {
				b.WriteString(piece.Literal)
			}
		}
		b.WriteByte('"')
		return b.String()
	case *ast.MemberAccess:
		return exprString(n.Left) + "." + n.Name
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(n.Callee), strings.Join(args, ", "))
	case *ast.Index:
		return fmt.Sprintf("%s[%s]", exprString(n.Left), exprString(n.Idx))
	case *ast.UnaryOp:
		return n.Op + " " + exprString(n.Operand)
	case *ast.BinaryOp:
		return fmt.Sprintf("%s %s %s", exprString(n.Left), n.Op, exprString(n.Right))
	case *ast.LogicalOp:
		return fmt.Sprintf("%s %s %s", exprString(n.Left), n.Op, exprString(n.Right))
	case *ast.IsCheck:
		op := "is"
		if n.Negated {
			op = "is not"
		}
		return fmt.Sprintf("%s %s %s", exprString(n.Left), op, exprString(n.Right))
	case *ast.RangeExpr:
		return fmt.Sprintf("%s..%s", exprString(n.Lo), exprString(n.Hi))
	case *ast.ListLit:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = exprString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.DictLit:
		parts := make([]string, len(n.Entries))
		for i, e := range n.Entries {
			parts[i] = exprString(e.Key) + ": " + exprString(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.StructLit:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Name + ": " + exprString(f.Value)
		}
		return fmt.Sprintf("%s{%s}", n.Name, strings.Join(parts, ", "))
	case *ast.Lambda:
		names := make([]string, len(n.Params))
		for i, prm := range n.Params {
			names[i] = prm.Name
		}
		body := make([]string, len(n.Body))
		for i, s := range n.Body {
			body[i] = stmtString(s)
		}
		return fmt.Sprintf("lambda %s: %s", strings.Join(names, ", "), strings.Join(body, "; "))
	case *ast.Await:
		return "await " + exprString(n.Operand)
	case *ast.Spawn:
		return "spawn " + exprString(n.Operand)
	case *ast.Match:
		var b strings.Builder
		fmt.Fprintf(&b, "match %s: ", exprString(n.Scrutinee))
		for i, arm := range n.Arms {
			if i > 0 {
				b.WriteString("; ")
			}
			body := make([]string, len(arm.Body))
			for j, s := range arm.Body {
				body[j] = stmtString(s)
			}
			fmt.Fprintf(&b, "case %s: %s", patternString(arm.Pattern), strings.Join(body, "; "))
		}
		return b.String()
	case *ast.ListComprehension:
		s := fmt.Sprintf("[%s for %s in %s", exprString(n.Yield), patternString(n.Target), exprString(n.Iter))
		if n.Filter != nil {
			s += " if " + exprString(n.Filter)
		}
		return s + "]"
	case *ast.DictComprehension:
		s := fmt.Sprintf("{%s: %s for %s in %s", exprString(n.Key), exprString(n.Value), patternString(n.Target), exprString(n.Iter))
		if n.Filter != nil {
			s += " if " + exprString(n.Filter)
		}
		return s + "}"
	default:
		return "<?>"
	}
}

// stmtString renders a single statement inline, used for lambda/match-arm
// bodies that print on one line.
func stmtString(s ast.Statement) string {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return exprString(n.X)
	case *ast.LetStmt:
		ann := ""
		if n.Annotation != nil {
			ann = ": " + typeExprString(n.Annotation)
		}
		return fmt.Sprintf("let %s%s = %s", n.Name, ann, exprString(n.Value))
	case *ast.ReturnStmt:
		if n.Value != nil {
			return "return " + exprString(n.Value)
		}
		return "return"
	default:
		return "<stmt>"
	}
}

func patternString(p ast.Pattern) string {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.BindingPattern:
		return n.Name
	case *ast.LiteralPattern:
		return exprString(n.Value)
	case *ast.EnumVariantPattern:
		if len(n.Subpatterns) == 0 {
			return n.EnumName + "." + n.VariantName
		}
		parts := make([]string, len(n.Subpatterns))
		for i, sp := range n.Subpatterns {
			parts[i] = patternString(sp)
		}
		return fmt.Sprintf("%s.%s(%s)", n.EnumName, n.VariantName, strings.Join(parts, ", "))
	case *ast.StructDestructurePattern:
		parts := make([]string, 0, len(n.Fields))
		for name, sub := range n.Fields {
			parts = append(parts, name+": "+patternString(sub))
		}
		return fmt.Sprintf("%s{%s}", n.StructName, strings.Join(parts, ", "))
	case *ast.ListPattern:
		parts := make([]string, 0, len(n.Head)+len(n.Tail)+1)
		for _, h := range n.Head {
			parts = append(parts, patternString(h))
		}
		if n.Rest != nil {
			parts = append(parts, ".."+n.Rest.Name)
		}
		for _, t := range n.Tail {
			parts = append(parts, patternString(t))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "_"
	}
}

func typeExprString(t ast.TypeExpr) string {
	switch n := t.(type) {
	case nil:
		return "Unit"
	case *ast.UnitType:
		return "()"
	case *ast.NamedType:
		if len(n.Generics) == 0 {
			return n.Path
		}
		parts := make([]string, len(n.Generics))
		for i, g := range n.Generics {
			parts[i] = typeExprString(g)
		}
		return fmt.Sprintf("%s<%s>", n.Path, strings.Join(parts, ", "))
	case *ast.FunctionType:
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			parts[i] = typeExprString(p)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), typeExprString(n.Ret))
	case *ast.TupleType:
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			parts[i] = typeExprString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}
