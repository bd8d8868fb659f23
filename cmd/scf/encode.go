package main

import (
	"fmt"
	"os"

	"github.com/bsm/scf"
	"github.com/bsm/scf/internal/csvio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEncodeCmd(a *app) *cobra.Command {
	var algorithm, level string

	cmd := &cobra.Command{
		Use:   "encode INPUT.csv OUTPUT.scf",
		Short: "Encode a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("compression") {
				a.cfg.Compression.Algorithm = algorithm
			}
			if cmd.Flags().Changed("level") {
				a.cfg.Compression.Level = level
			}
			return a.encode(cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&algorithm, "compression", "", "Compression codec (zlib, snappy, zstd, s2, lz4, none)")
	cmd.Flags().StringVar(&level, "level", "", "Compression level (default, fastest, best)")
	return cmd
}

func (a *app) encode(cmd *cobra.Command, input, output string) error {
	algo, level, err := a.cfg.Compression.Parse()
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	table, err := csvio.ReadTable(f)
	if err != nil {
		return err
	}

	a.log.Info("encoding",
		zap.String("input", input),
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", len(table.Columns)),
		zap.Stringer("compression", algo),
	)

	if err := writeAtomic(output, func(w *os.File) error {
		return scf.Encode(w, table, &scf.WriterOptions{
			Compression: algo,
			Level:       level,
			Logger:      a.log,
		})
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[OK] Wrote %s with %d rows and %d columns\n", output, table.NumRows(), len(table.Columns))
	return nil
}

// writeAtomic writes to a temporary file next to path and renames it on
// success.
func writeAtomic(path string, fn func(*os.File) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename output: %w", err)
	}
	return nil
}
