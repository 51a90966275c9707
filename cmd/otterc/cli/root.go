// Package cli wires OtterLang's Cobra command surface (spec.md §6:
// "run, build [--target <triple>] -o <out>, fmt, repl, profile memory")
// over the compiler-core pipeline in internal/pipeline.
package cli

import (
	"github.com/spf13/cobra"
)

// ExitCoder lets a command return an error carrying the specific process
// exit code spec.md §7 asks for: 1 for a compile-error diagnostic, 2 for
// an internal compiler error.
type ExitCoder interface {
	error
	ExitCode() int
}

// exitError wraps an error with the exit code the driver should use.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }

func compileFailure(err error) error { return &exitError{err: err, code: 1} }
func internalFailure(err error) error { return &exitError{err: err, code: 2} }

// Execute builds and runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "otterc",
		Short:         "OtterLang ahead-of-time compiler",
		Long:          "otterc drives OtterLang's compiler core: layout-sensitive lexing, parsing, module loading, name resolution, type checking, and IR lowering (spec.md §§4, 6).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRunCmd(),
		newBuildCmd(),
		newFmtCmd(),
		newReplCmd(),
		newProfileCmd(),
	)
	return root
}
