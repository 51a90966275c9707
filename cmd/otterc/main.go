// Command otterc is the OtterLang compiler driver: a thin Cobra CLI over
// the compiler-core pipeline (lex -> parse -> load modules -> resolve ->
// typecheck -> lower) described in spec.md §6. It is not part of the
// compiler-core contract itself, but exercises it end to end, the way the
// teacher's cmd/funxy/main.go wires its own pipeline stages.
package main

import (
	"fmt"
	"os"

	"github.com/otterlang/otter/cmd/otterc/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ce, ok := err.(cli.ExitCoder); ok {
			os.Exit(ce.ExitCode())
		}
		os.Exit(1)
	}
}
