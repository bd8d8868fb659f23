package scf

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
)

// ReaderOptions define reader specific options.
type ReaderOptions struct {
	// Compressor replaces the built-in codec named by the file header.
	Compressor Compressor

	// Logger receives per-column debug output.
	// Default: no logging.
	Logger *zap.Logger
}

func (o *ReaderOptions) norm() *ReaderOptions {
	var oo ReaderOptions
	if o != nil {
		oo = *o
	}

	if oo.Logger == nil {
		oo.Logger = zap.NewNop()
	}

	return &oo
}

// Reader instances decode whole tables or individual columns of an SCF file.
type Reader struct {
	r io.ReaderAt
	o *ReaderOptions

	header *FileHeader
	comp   Compressor
	names  map[string]int
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64, o *ReaderOptions) (*Reader, error) {
	o = o.norm()

	header, err := ReadHeader(r, size)
	if err != nil {
		return nil, err
	}

	comp := o.Compressor
	if comp == nil {
		if !header.Compression.isValid() {
			return nil, fmt.Errorf("%w: unknown compression code %d", ErrFormat, byte(header.Compression))
		}
		if comp, err = NewCompressor(header.Compression, DefaultLevel); err != nil {
			return nil, err
		}
	}

	names := make(map[string]int, len(header.Columns))
	for i, m := range header.Columns {
		names[m.Name] = i
	}

	return &Reader{
		r: r,
		o: o,

		header: header,
		comp:   comp,
		names:  names,
	}, nil
}

// Header returns the parsed file header.
func (r *Reader) Header() *FileHeader { return r.header }

// NumRows returns the number of stored rows.
func (r *Reader) NumRows() int { return int(r.header.NumRows) }

// NumColumns returns the number of stored columns.
func (r *Reader) NumColumns() int { return len(r.header.Columns) }

// Lookup resolves a selector to a column position. Selectors made of
// ASCII digits only are zero-based positions, anything else is a
// column name. It may return an ErrLookup error.
func (r *Reader) Lookup(selector string) (int, error) {
	if isDigits(selector) {
		pos, err := strconv.Atoi(selector)
		if err != nil || pos >= len(r.header.Columns) {
			return -1, fmt.Errorf("%w: column index %s out of range [0,%d)", ErrLookup, selector, len(r.header.Columns))
		}
		return pos, nil
	}

	pos, ok := r.names[selector]
	if !ok {
		return -1, fmt.Errorf("%w: no column named %q", ErrLookup, selector)
	}
	return pos, nil
}

// ReadColumn reads and decodes the column at position pos. Only the body
// of that column is read and decompressed.
func (r *Reader) ReadColumn(pos int) (Column, error) {
	if pos < 0 || pos >= len(r.header.Columns) {
		return nil, fmt.Errorf("%w: column index %d out of range [0,%d)", ErrLookup, pos, len(r.header.Columns))
	}
	m := &r.header.Columns[pos]

	body := make([]byte, int(m.CompressedSize))
	if err := readAt(r.r, body, int64(m.Offset)); err != nil {
		return nil, err
	}

	plain, err := r.comp.Decompress(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decompress column %q: %w", ErrFormat, m.Name, err)
	}
	if uint64(len(plain)) != m.UncompressedSize {
		return nil, fmt.Errorf("%w: column %q decompressed to %d bytes, expected %d", ErrFormat, m.Name, len(plain), m.UncompressedSize)
	}

	col, err := emptyColumn(m.Name, m.Type)
	if err != nil {
		return nil, err
	}
	if err := col.UnmarshalBinary(plain); err != nil {
		return nil, fmt.Errorf("failed to decode column %q: %w", m.Name, err)
	}
	if uint64(col.Len()) != r.header.NumRows {
		return nil, fmt.Errorf("%w: column %q holds %d values, expected %d", ErrFormat, m.Name, col.Len(), r.header.NumRows)
	}

	r.o.Logger.Debug("decoded column",
		zap.String("column", m.Name),
		zap.Stringer("type", m.Type),
		zap.Uint64("offset", m.Offset),
		zap.Uint64("compressed_size", m.CompressedSize),
	)
	return col, nil
}

// ReadTable decodes all columns.
func (r *Reader) ReadTable() (*Table, error) {
	cols := make([]Column, len(r.header.Columns))
	for i := range cols {
		col, err := r.ReadColumn(i)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return tableFromColumns(cols, r.NumRows()), nil
}

// ReadColumns decodes the selected columns only, in selector order.
// Selectors may repeat or reorder columns, each column body is decoded
// at most once. Without selectors, all columns are decoded.
func (r *Reader) ReadColumns(selectors ...string) (*Table, error) {
	if len(selectors) == 0 {
		return r.ReadTable()
	}

	positions := make([]int, len(selectors))
	for i, sel := range selectors {
		pos, err := r.Lookup(sel)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}

	decoded := make(map[int]Column, len(positions))
	cols := make([]Column, len(positions))
	for i, pos := range positions {
		col, ok := decoded[pos]
		if !ok {
			var err error
			if col, err = r.ReadColumn(pos); err != nil {
				return nil, err
			}
			decoded[pos] = col
		}
		cols[i] = col
	}
	return tableFromColumns(cols, r.NumRows()), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
