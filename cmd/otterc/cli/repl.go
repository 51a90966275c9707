package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/resolver"
)

// newReplCmd is a type-checking preview loop, not the full interactive
// evaluator spec.md §1 names as an out-of-scope external collaborator
// (there is no tree-walking or bytecode evaluator in the compiler core to
// back a real REPL). Each line is parsed and checked independently -
// bindings do not persist across lines - and its elaborated type is
// echoed, which is as far as this package's contract goes.
func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively type-check one-line snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func runRepl(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "otterc repl - each line is type-checked standalone; Ctrl-D to exit")
	for {
		fmt.Fprint(out, "otter> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		replOne(out, line)
	}
}

func replOne(out io.Writer, line string) {
	const file = "<repl>"
	sink := diagnostics.NewSink()
	p := parser.New(file, line, sink)
	mod := p.ParseModule()
	if sink.HasErrors() {
		for _, d := range sink.Diagnostics {
			fmt.Fprintln(out, d.Render(line))
		}
		return
	}

	loader := modules.NewLoader(sink, nil)
	r := resolver.New(sink, loader, file, ".")
	r.Collect(mod)
	r.Bind(mod)

	c := checker.New(sink, r.Resolution(), file)
	result := c.Check(mod)

	for _, d := range sink.Diagnostics {
		fmt.Fprintln(out, d.Render(line))
	}
	for _, item := range mod.Items {
		if es, ok := item.(*ast.ExprStmt); ok {
			if ty, ok := result.TypeOf[es.X.ID()]; ok {
				fmt.Fprintf(out, "=> %s\n", ty)
			}
		}
	}
}
