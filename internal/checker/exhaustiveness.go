package checker

import (
	"sort"
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/types"
)

// checkExhaustiveness implements spec.md §4.E's match exhaustiveness and
// reachability analysis: for an enum scrutinee, every variant must be
// covered by some arm's pattern or by an earlier catch-all
// (wildcard/binding); an arm whose pattern is entirely dominated by an
// earlier catch-all is unreachable (both warnings by default, testable
// property S3 and spec.md §7's NonExhaustiveMatch/UnreachableArm codes).
func (c *Checker) checkExhaustiveness(m *ast.Match, scrutinee types.Type) {
	enumName := enumNameOf(scrutinee)
	if enumName == "" {
		return
	}
	info, ok := c.enums[enumName]
	if !ok {
		return
	}

	covered := make(map[string]bool)
	catchAllSeen := false
	for _, arm := range m.Arms {
		if catchAllSeen {
			c.sink.Report(diagnostics.PhaseTypes, diagnostics.UnreachableArm, arm.Pattern.Span(),
				"case is unreachable: an earlier case already matches everything")
			continue
		}
		switch p := arm.Pattern.(type) {
		case *ast.EnumVariantPattern:
			covered[p.VariantName] = true
		case *ast.WildcardPattern, *ast.BindingPattern:
			catchAllSeen = true
		}
	}
	if catchAllSeen {
		return
	}

	var missing []string
	for _, v := range info.VariantOrder {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.sink.Report(diagnostics.PhaseTypes, diagnostics.NonExhaustiveMatch, m.Span(),
			"match on %s is not exhaustive: missing case(s) for %s", enumName, strings.Join(missing, ", "))
	}
}

func enumNameOf(t types.Type) string {
	switch tt := t.(type) {
	case types.TApp:
		return tt.Name
	case types.TCon:
		return tt.Name
	default:
		return ""
	}
}
