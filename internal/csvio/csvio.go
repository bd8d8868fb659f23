// Package csvio converts between CSV streams and scf tables.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bsm/scf"
)

// ReadTable reads all CSV records from r. The first record is the header,
// rows may have any number of fields. Blank lines between rows become rows
// of empty cells, blank lines before the header or after the last row are
// ignored.
func ReadTable(r io.Reader) (*scf.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Allow variable number of fields

	var records [][]string
	nextLine := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(records) != 0 {
			for ; nextLine < line; nextLine++ {
				records = append(records, []string{})
			}
		}
		records = append(records, rec)

		last := len(rec) - 1
		end, _ := cr.FieldPos(last)
		nextLine = end + strings.Count(rec[last], "\n") + 1
	}

	t, err := scf.NewTable(records)
	if err != nil {
		if errors.Is(err, scf.ErrInput) {
			return nil, fmt.Errorf("%w: empty CSV input", scf.ErrInput)
		}
		return nil, err
	}
	return t, nil
}

// WriteTable writes the header and all rows of t to w. A row consisting of
// a single empty cell is written as "" so it is not mistaken for a blank
// line.
func WriteTable(w io.Writer, t *scf.Table) error {
	cw := csv.NewWriter(w)
	for _, rec := range t.Records() {
		if len(rec) == 1 && rec[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			continue
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
