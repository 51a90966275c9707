package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var target, out string
	var noCache bool
	cmd := &cobra.Command{
		Use:   "build <file.ot>",
		Short: "Compile a source file down to a backend-ready IR module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runFrontend(args[0], noCache)
			if err != nil {
				return err
			}
			reportDiagnostics(ctx)
			if ctx.Sink.HasErrors() {
				errs, warns := checkedCounts(ctx.Sink)
				return compileFailure(fmt.Errorf("build failed: %d error(s), %d warning(s)", errs, warns))
			}
			mod, err := lowerEntry(ctx)
			if err != nil {
				return internalFailure(err)
			}

			dump := mod.Dump()
			if target != "" {
				dump = fmt.Sprintf("; target = %s\n%s", target, dump)
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), dump)
				return nil
			}
			if err := os.WriteFile(out, []byte(dump), 0o644); err != nil {
				return internalFailure(fmt.Errorf("writing %s: %w", out, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "backend target triple (e.g. wasm32-unknown-unknown); passed through to the external backend driver")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the lowered IR module (stdout if omitted)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the on-disk module diagnostic cache")
	return cmd
}
