package main

import (
	"fmt"
	"os"

	"github.com/bsm/scf"
	"github.com/bsm/scf/internal/csvio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDecodeCmd(a *app) *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "decode INPUT.scf OUTPUT.csv",
		Short: "Decode an SCF file to CSV",
		Long: `Decode an SCF file to CSV. With --columns, only the selected columns are
decoded, in the given order. Selectors are column names or zero-based indices.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decode(cmd, args[0], args[1], columns)
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to decode (names or indices)")
	return cmd
}

func (a *app) decode(cmd *cobra.Command, input, output string, columns []string) error {
	r, closer, err := a.openReader(input)
	if err != nil {
		return err
	}
	defer closer.Close()

	var table *scf.Table
	if len(columns) == 0 {
		table, err = r.ReadTable()
	} else {
		table, err = r.ReadColumns(columns...)
	}
	if err != nil {
		return err
	}

	a.log.Info("decoded",
		zap.String("input", input),
		zap.Int("rows", table.NumRows()),
		zap.Strings("columns", table.Columns),
	)

	if err := writeAtomic(output, func(w *os.File) error {
		return csvio.WriteTable(w, table)
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[OK] Wrote CSV -> %s\n", output)
	return nil
}

// openReader opens an SCF file for reading.
func (a *app) openReader(path string) (*scf.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat input: %w", err)
	}

	r, err := scf.NewReader(f, fi.Size(), &scf.ReaderOptions{Logger: a.log})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return r, f, nil
}
