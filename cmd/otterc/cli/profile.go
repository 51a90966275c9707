package cli

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/ir"
	"github.com/otterlang/otter/internal/types"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Offline profiling utilities",
	}
	cmd.AddCommand(newProfileMemoryCmd())
	return cmd
}

// newProfileMemoryCmd reports the GC-root/arena sizing estimate the IR
// lowerer's struct/enum layout computations (internal/ir.SizeOf) produce
// for every struct and enum the entry module declares, in human units
// (SPEC_FULL.md DOMAIN STACK: dustin/go-humanize).
func newProfileMemoryCmd() *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "memory <file.ot>",
		Short: "Estimate struct/enum layout sizes from the type checker's registries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runFrontend(args[0], noCache)
			if err != nil {
				return err
			}
			reportDiagnostics(ctx)
			if ctx.Sink.HasErrors() {
				errs, warns := checkedCounts(ctx.Sink)
				return compileFailure(fmt.Errorf("profile failed: %d error(s), %d warning(s)", errs, warns))
			}
			if ctx.Entry == nil {
				return internalFailure(fmt.Errorf("entry module failed to load"))
			}
			res := ctx.Checked[ctx.Entry.Path]

			type row struct {
				name string
				size int
			}
			var rows []row
			var total uint64
			for name := range res.Structs {
				size := ir.SizeOf(types.TCon{Name: name}, res)
				rows = append(rows, row{name, size})
				total += uint64(size)
			}
			for name := range res.Enums {
				size := ir.SizeOf(types.TCon{Name: name}, res)
				rows = append(rows, row{name, size})
				total += uint64(size)
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

			out := cmd.OutOrStdout()
			for _, r := range rows {
				fmt.Fprintf(out, "%-24s %s\n", r.name, humanize.Bytes(uint64(r.size)))
			}
			fmt.Fprintf(out, "%-24s %s\n", "TOTAL (one of each)", humanize.Bytes(total))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the on-disk module diagnostic cache")
	return cmd
}
