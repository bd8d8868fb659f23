package scf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ColumnMetadata describes a single persisted column.
type ColumnMetadata struct {
	Name             string
	Type             Type
	UncompressedSize uint64
	CompressedSize   uint64
	Offset           uint64 // offset of the compressed body from the start of the stream
}

// recordSize returns the encoded size of the record.
func (m *ColumnMetadata) recordSize() int {
	return 2 + len(m.Name) + 1 + 8 + 8 + 8
}

// sizeMatches reports whether the uncompressed size can hold numRows values.
func (m *ColumnMetadata) sizeMatches(numRows uint64) bool {
	if numRows > math.MaxUint64/8-2 {
		return false
	}

	switch m.Type {
	case TypeInt32:
		return m.UncompressedSize == 4*numRows
	case TypeFloat64:
		return m.UncompressedSize == 8*numRows
	case TypeString:
		return m.UncompressedSize >= 8*(numRows+2)
	}
	return false
}

// FileHeader is the parsed file preamble and header block.
type FileHeader struct {
	Version     uint8
	Compression Compression
	NumRows     uint64
	Columns     []ColumnMetadata
}

// BodyOffset returns the offset of the first column body.
func (h *FileHeader) BodyOffset() int64 {
	return int64(preambleSize + h.blockSize())
}

func (h *FileHeader) blockSize() int {
	n := 8 + 2
	for i := range h.Columns {
		n += h.Columns[i].recordSize()
	}
	return n
}

// offsetSlots returns the position of each record's offset field,
// relative to the start of the header block.
func (h *FileHeader) offsetSlots() []int {
	slots := make([]int, len(h.Columns))
	pos := 8 + 2
	for i := range h.Columns {
		pos += h.Columns[i].recordSize()
		slots[i] = pos - 8
	}
	return slots
}

// appendPreamble appends magic, version, reserved bytes and the header length.
func (h *FileHeader) appendPreamble(dst []byte) []byte {
	var tmp [preambleSize]byte
	copy(tmp[0:], magic)
	tmp[8] = h.Version
	tmp[9] = byte(h.Compression)
	binary.LittleEndian.PutUint64(tmp[16:], uint64(h.blockSize()))
	return append(dst, tmp[:]...)
}

// appendBlock appends the header block, including current offsets.
func (h *FileHeader) appendBlock(dst []byte) []byte {
	var tmp [8]byte

	binary.LittleEndian.PutUint64(tmp[:], h.NumRows)
	dst = append(dst, tmp[:8]...)
	binary.LittleEndian.PutUint16(tmp[:], uint16(len(h.Columns)))
	dst = append(dst, tmp[:2]...)

	for _, m := range h.Columns {
		binary.LittleEndian.PutUint16(tmp[:], uint16(len(m.Name)))
		dst = append(dst, tmp[:2]...)
		dst = append(dst, m.Name...)
		dst = append(dst, byte(m.Type))
		binary.LittleEndian.PutUint64(tmp[:], m.UncompressedSize)
		dst = append(dst, tmp[:]...)
		binary.LittleEndian.PutUint64(tmp[:], m.CompressedSize)
		dst = append(dst, tmp[:]...)
		binary.LittleEndian.PutUint64(tmp[:], m.Offset)
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// --------------------------------------------------------------------

// ReadHeader reads and validates the header of an SCF stream of the
// given size.
func ReadHeader(r io.ReaderAt, size int64) (*FileHeader, error) {
	if size < preambleSize {
		return nil, errTruncated
	}

	var pre [preambleSize]byte
	if err := readAt(r, pre[:], 0); err != nil {
		return nil, err
	}
	if !bytes.Equal(pre[:8], magic) {
		return nil, errBadMagic
	}
	if pre[8] != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, pre[8])
	}

	blockLen := binary.LittleEndian.Uint64(pre[16:])
	if blockLen > uint64(size-preambleSize) {
		return nil, fmt.Errorf("%w: header length %d exceeds file size %d", ErrFormat, blockLen, size)
	}

	block := make([]byte, int(blockLen))
	if err := readAt(r, block, preambleSize); err != nil {
		return nil, err
	}

	h, err := parseBlock(block)
	if err != nil {
		return nil, err
	}
	h.Version = pre[8]
	h.Compression = Compression(pre[9])

	for _, m := range h.Columns {
		if m.Offset > uint64(size) || m.CompressedSize > uint64(size)-m.Offset {
			return nil, fmt.Errorf("%w: body of column %q exceeds file size %d", ErrFormat, m.Name, size)
		}
	}
	return h, nil
}

// parseBlock decodes the header block.
func parseBlock(block []byte) (*FileHeader, error) {
	if len(block) < 10 {
		return nil, errTruncated
	}

	h := &FileHeader{NumRows: binary.LittleEndian.Uint64(block)}
	numCols := int(binary.LittleEndian.Uint16(block[8:]))
	if h.NumRows > math.MaxInt {
		return nil, fmt.Errorf("%w: row count %d out of range", ErrFormat, h.NumRows)
	}
	if numCols == 0 && h.NumRows != 0 {
		return nil, fmt.Errorf("%w: %d rows without columns", ErrFormat, h.NumRows)
	}
	h.Columns = make([]ColumnMetadata, numCols)

	pos := 10
	for i := 0; i < numCols; i++ {
		if len(block)-pos < 2 {
			return nil, errTruncated
		}
		nameLen := int(binary.LittleEndian.Uint16(block[pos:]))
		pos += 2

		if len(block)-pos < nameLen+25 {
			return nil, errTruncated
		}

		m := &h.Columns[i]
		m.Name = string(block[pos : pos+nameLen])
		pos += nameLen
		m.Type = Type(block[pos])
		pos++
		m.UncompressedSize = binary.LittleEndian.Uint64(block[pos:])
		m.CompressedSize = binary.LittleEndian.Uint64(block[pos+8:])
		m.Offset = binary.LittleEndian.Uint64(block[pos+16:])
		pos += 24

		if !m.Type.isValid() {
			return nil, fmt.Errorf("%w: unknown type code %d for column %q", ErrFormat, uint8(m.Type), m.Name)
		}
		if !m.sizeMatches(h.NumRows) {
			return nil, fmt.Errorf("%w: %s column %q of %d bytes cannot hold %d rows", ErrFormat, m.Type, m.Name, m.UncompressedSize, h.NumRows)
		}
	}
	return h, nil
}

// readAt fills buf from off, a short read is a format error.
func readAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == io.EOF {
		return fmt.Errorf("%w: unexpected end of file at offset %d", ErrFormat, off+int64(n))
	}
	return err
}
