package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "run <file.ot>",
		Short: "Compile and execute a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runFrontend(args[0], noCache)
			if err != nil {
				return err
			}
			reportDiagnostics(ctx)
			if ctx.Sink.HasErrors() {
				errs, warns := checkedCounts(ctx.Sink)
				return compileFailure(fmt.Errorf("compilation failed: %d error(s), %d warning(s)", errs, warns))
			}
			mod, err := lowerEntry(ctx)
			if err != nil {
				return internalFailure(err)
			}
			// Handing the lowered module to the task runtime/backend driver
			// for execution is an external collaborator (spec.md §1); the
			// core's contract ends at producing this IR module.
			fmt.Fprintf(cmd.OutOrStdout(), "lowered %d function(s) in module %q; execution requires the external runtime driver\n", len(mod.Functions), mod.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the on-disk module diagnostic cache")
	return cmd
}
