package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/bsm/scf"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect INPUT.scf",
		Short: "Print the header of an SCF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, f, err := a.openReader(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			h := r.Header()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:     %d\n", h.Version)
			fmt.Fprintf(out, "compression: %s\n", h.Compression)
			fmt.Fprintf(out, "rows:        %d\n", h.NumRows)
			fmt.Fprintf(out, "columns:     %d\n\n", len(h.Columns))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tNAME\tTYPE\tSIZE\tCOMPRESSED\tOFFSET")
			for i, m := range h.Columns {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n", i, m.Name, m.Type, m.UncompressedSize, m.CompressedSize, m.Offset)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scf v%s (format version %d)\n", version, scf.Version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
