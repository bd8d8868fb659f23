package scf

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// The compression codec to use.
	// Default: ZlibCompression.
	Compression Compression

	// The compression level, ignored by codecs without levels.
	// Default: DefaultLevel.
	Level CompressionLevel

	// Compressor replaces the built-in codec for Compression. The
	// Compression code is still recorded in the file, readers need the
	// same Compressor to decode it.
	Compressor Compressor

	// Logger receives per-column debug output.
	// Default: no logging.
	Logger *zap.Logger
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if !oo.Compression.isValid() {
		oo.Compression = ZlibCompression
	}
	if oo.Logger == nil {
		oo.Logger = zap.NewNop()
	}

	return &oo
}

// Writer instances buffer rows of a table and write them as an SCF
// file on Close.
type Writer struct {
	w io.Writer
	o *WriterOptions

	columns []string
	cells   [][]string // cells per column
	numRows int
	closed  bool

	offset int64 // bytes written
}

// NewWriter wraps a writer and returns a Writer for a table with the
// given column names.
func NewWriter(w io.Writer, columns []string, o *WriterOptions) *Writer {
	return &Writer{
		w:       w,
		o:       o.norm(),
		columns: append([]string{}, columns...),
		cells:   make([][]string, len(columns)),
	}
}

// Encode writes a complete table to w.
func Encode(w io.Writer, t *Table, o *WriterOptions) error {
	tw := NewWriter(w, t.Columns, o)
	for _, row := range t.Rows {
		if err := tw.Append(row); err != nil {
			return err
		}
	}
	return tw.Close()
}

// Append appends a row. Short rows are padded with empty cells, cells
// beyond the number of columns are ignored.
func (w *Writer) Append(row []string) error {
	if w.closed {
		return errClosed
	}

	for i := range w.cells {
		var s string
		if i < len(row) {
			s = row[i]
		}
		w.cells[i] = append(w.cells[i], s)
	}
	w.numRows++
	return nil
}

// Close encodes all buffered rows and writes the file. If the underlying
// writer is seekable, body offsets are patched in place after the bodies
// were written, otherwise the offsets are computed up front and the file
// is written forward-only. Pipes and terminals fail the initial seek and
// take the forward-only path.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true

	if w.numRows == 0 {
		return errEmptyTable
	}
	if len(w.columns) == 0 {
		return fmt.Errorf("%w: table has no columns", ErrInput)
	}
	if len(w.columns) > maxColumns {
		return fmt.Errorf("%w: %d columns exceed the limit of %d", ErrInput, len(w.columns), maxColumns)
	}

	header, bodies, err := w.encodeColumns()
	if err != nil {
		return err
	}

	if ws, ok := w.w.(io.WriteSeeker); ok {
		if base, err := ws.Seek(0, io.SeekCurrent); err == nil {
			return w.writePatched(ws, base, header, bodies)
		}
	}
	return w.writeBuffered(header, bodies)
}

func (w *Writer) encodeColumns() (*FileHeader, [][]byte, error) {
	comp := w.o.Compressor
	if comp == nil {
		var err error
		if comp, err = NewCompressor(w.o.Compression, w.o.Level); err != nil {
			return nil, nil, err
		}
	}

	header := &FileHeader{
		Version:     Version,
		Compression: w.o.Compression,
		NumRows:     uint64(w.numRows),
		Columns:     make([]ColumnMetadata, len(w.columns)),
	}
	bodies := make([][]byte, len(w.columns))

	for i, name := range w.columns {
		if len(name) > maxNameLen {
			return nil, nil, fmt.Errorf("%w: column name of %d bytes exceeds the limit of %d", ErrInput, len(name), maxNameLen)
		}

		typ := InferType(w.cells[i])
		col, err := NewColumn(name, typ, w.cells[i])
		if err != nil {
			return nil, nil, err
		}

		plain, err := col.MarshalBinary()
		if err != nil {
			return nil, nil, err
		}
		body, err := comp.Compress(plain)
		if err != nil {
			return nil, nil, fmt.Errorf("scf: failed to compress column %q: %w", name, err)
		}

		header.Columns[i] = ColumnMetadata{
			Name:             name,
			Type:             typ,
			UncompressedSize: uint64(len(plain)),
			CompressedSize:   uint64(len(body)),
		}
		bodies[i] = body

		w.o.Logger.Debug("encoded column",
			zap.String("column", name),
			zap.Stringer("type", typ),
			zap.Int("uncompressed_size", len(plain)),
			zap.Int("compressed_size", len(body)),
		)
	}
	w.cells = nil

	return header, bodies, nil
}

// writePatched writes the header with placeholder offsets, appends the
// bodies and seeks back to patch the offsets.
func (w *Writer) writePatched(ws io.WriteSeeker, base int64, header *FileHeader, bodies [][]byte) error {
	if err := w.writeRaw(header.appendPreamble(nil)); err != nil {
		return err
	}
	if err := w.writeRaw(header.appendBlock(nil)); err != nil {
		return err
	}

	offsets := make([]uint64, len(bodies))
	for i, body := range bodies {
		offsets[i] = uint64(w.offset)
		if err := w.writeRaw(body); err != nil {
			return err
		}
	}

	var tmp [8]byte
	for i, slot := range header.offsetSlots() {
		if _, err := ws.Seek(base+preambleSize+int64(slot), io.SeekStart); err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(tmp[:], offsets[i])
		if _, err := ws.Write(tmp[:]); err != nil {
			return err
		}
		header.Columns[i].Offset = offsets[i]
	}

	_, err := ws.Seek(base+w.offset, io.SeekStart)
	return err
}

// writeBuffered computes the offsets up front and writes forward-only.
func (w *Writer) writeBuffered(header *FileHeader, bodies [][]byte) error {
	offset := uint64(header.BodyOffset())
	for i, body := range bodies {
		header.Columns[i].Offset = offset
		offset += uint64(len(body))
	}

	buf := header.appendPreamble(nil)
	buf = header.appendBlock(buf)
	if err := w.writeRaw(buf); err != nil {
		return err
	}
	for _, body := range bodies {
		if err := w.writeRaw(body); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}
