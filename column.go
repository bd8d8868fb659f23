package scf

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MissingInt32 is stored in place of empty Int32 cells. A genuine value
// equal to MissingInt32 is indistinguishable from a missing one.
const MissingInt32 int32 = math.MinInt32

// missingFloat64 is the canonical quiet NaN, stored in place of empty
// Float64 cells.
const missingFloat64 uint64 = 0x7FF8000000000000

// Column is a typed column which can be converted to and from its
// uncompressed body.
type Column interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// Name returns the column name.
	Name() string
	// Type returns the column type.
	Type() Type
	// Len returns the number of cells.
	Len() int
	// Strings renders all cells, missing cells are empty strings.
	Strings() []string
}

// NewColumn builds a column of the given type from raw cells.
// It returns an ErrEncoding error if a cell does not parse under typ.
func NewColumn(name string, typ Type, cells []string) (Column, error) {
	switch typ {
	case TypeInt32:
		return NewInt32Column(name, cells)
	case TypeFloat64:
		return NewFloat64Column(name, cells)
	case TypeString:
		return NewStringColumn(name, cells), nil
	}
	return nil, fmt.Errorf("%w: unknown type %s for column %q", ErrEncoding, typ, name)
}

func emptyColumn(name string, typ Type) (Column, error) {
	switch typ {
	case TypeInt32:
		return &Int32Column{name: name}, nil
	case TypeFloat64:
		return &Float64Column{name: name}, nil
	case TypeString:
		return &StringColumn{name: name}, nil
	}
	return nil, fmt.Errorf("%w: unknown type code %d for column %q", ErrFormat, uint8(typ), name)
}

// --------------------------------------------------------------------

// Int32Column holds 32-bit integers, MissingInt32 marks empty cells.
type Int32Column struct {
	name   string
	Values []int32
}

// NewInt32Column parses cells into an Int32Column.
func NewInt32Column(name string, cells []string) (*Int32Column, error) {
	values := make([]int32, len(cells))
	for i, s := range cells {
		if s == "" {
			values[i] = MissingInt32
			continue
		}

		n, ok := parseInt32(s)
		if !ok {
			return nil, fmt.Errorf("%w: column %q, row %d: %q is not an int32", ErrEncoding, name, i, s)
		}
		values[i] = n
	}
	return &Int32Column{name: name, Values: values}, nil
}

func (c *Int32Column) Name() string { return c.name }
func (c *Int32Column) Type() Type   { return TypeInt32 }
func (c *Int32Column) Len() int     { return len(c.Values) }

// Strings implements Column.
func (c *Int32Column) Strings() []string {
	cells := make([]string, len(c.Values))
	for i, v := range c.Values {
		if v != MissingInt32 {
			cells[i] = strconv.FormatInt(int64(v), 10)
		}
	}
	return cells
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Int32Column) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 4*len(c.Values))
	for i, v := range c.Values {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *Int32Column) UnmarshalBinary(data []byte) error {
	if len(data)%4 != 0 {
		return fmt.Errorf("%w: int32 body of %d bytes", ErrFormat, len(data))
	}

	c.Values = make([]int32, len(data)/4)
	for i := range c.Values {
		c.Values[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return nil
}

// --------------------------------------------------------------------

// Float64Column holds 64-bit floats, NaN marks empty cells.
type Float64Column struct {
	name   string
	Values []float64
}

// NewFloat64Column parses cells into a Float64Column.
func NewFloat64Column(name string, cells []string) (*Float64Column, error) {
	values := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			values[i] = math.Float64frombits(missingFloat64)
			continue
		}

		f, ok := parseFloat64(s)
		if !ok {
			return nil, fmt.Errorf("%w: column %q, row %d: %q is not a float64", ErrEncoding, name, i, s)
		}
		values[i] = f
	}
	return &Float64Column{name: name, Values: values}, nil
}

func (c *Float64Column) Name() string { return c.name }
func (c *Float64Column) Type() Type   { return TypeFloat64 }
func (c *Float64Column) Len() int     { return len(c.Values) }

// Strings implements Column.
func (c *Float64Column) Strings() []string {
	cells := make([]string, len(c.Values))
	for i, v := range c.Values {
		if !math.IsNaN(v) {
			cells[i] = formatFloat(v)
		}
	}
	return cells
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Float64Column) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8*len(c.Values))
	for i, v := range c.Values {
		bits := math.Float64bits(v)
		if math.IsNaN(v) {
			bits = missingFloat64
		}
		binary.LittleEndian.PutUint64(buf[8*i:], bits)
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *Float64Column) UnmarshalBinary(data []byte) error {
	if len(data)%8 != 0 {
		return fmt.Errorf("%w: float64 body of %d bytes", ErrFormat, len(data))
	}

	c.Values = make([]float64, len(data)/8)
	for i := range c.Values {
		c.Values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	return nil
}

// formatFloat renders the shortest representation which parses back to v.
// Integral values keep a trailing ".0", exponents outside [-4, 16) switch
// to scientific notation.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	if exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:]); exp < -4 || exp >= 16 {
		return s
	}

	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// --------------------------------------------------------------------

// StringColumn holds UTF-8 strings, empty strings are stored as-is.
type StringColumn struct {
	name   string
	Values []string
}

// NewStringColumn wraps cells into a StringColumn.
func NewStringColumn(name string, cells []string) *StringColumn {
	values := make([]string, len(cells))
	copy(values, cells)
	return &StringColumn{name: name, Values: values}
}

func (c *StringColumn) Name() string { return c.name }
func (c *StringColumn) Type() Type   { return TypeString }
func (c *StringColumn) Len() int     { return len(c.Values) }

// Strings implements Column.
func (c *StringColumn) Strings() []string {
	cells := make([]string, len(c.Values))
	copy(cells, c.Values)
	return cells
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *StringColumn) MarshalBinary() ([]byte, error) {
	n := len(c.Values)
	size := 0
	for _, s := range c.Values {
		size += len(s)
	}

	buf := make([]byte, 8*(n+2), 8*(n+2)+size)
	binary.LittleEndian.PutUint64(buf[0:], uint64(n))

	var off uint64
	for i, s := range c.Values {
		binary.LittleEndian.PutUint64(buf[8*(i+1):], off)
		off += uint64(len(s))
		buf = append(buf, s...)
	}
	binary.LittleEndian.PutUint64(buf[8*(n+1):], off)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *StringColumn) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return fmt.Errorf("%w: string body of %d bytes", ErrFormat, len(data))
	}

	count := binary.LittleEndian.Uint64(data)
	if count > uint64(len(data)-16)/8 {
		return fmt.Errorf("%w: string body too short for %d offsets", ErrFormat, count+1)
	}

	n := int(count)
	concat := data[8*(n+2):]
	offsets := data[8 : 8*(n+2)]

	if first := binary.LittleEndian.Uint64(offsets); first != 0 {
		return fmt.Errorf("%w: first string offset is %d", ErrFormat, first)
	}
	if last := binary.LittleEndian.Uint64(offsets[8*n:]); last != uint64(len(concat)) {
		return fmt.Errorf("%w: last string offset %d does not match data length %d", ErrFormat, last, len(concat))
	}

	c.Values = make([]string, n)
	for i := 0; i < n; i++ {
		min := binary.LittleEndian.Uint64(offsets[8*i:])
		max := binary.LittleEndian.Uint64(offsets[8*(i+1):])
		if min > max || max > uint64(len(concat)) {
			return fmt.Errorf("%w: invalid string offsets %d..%d at row %d", ErrFormat, min, max, i)
		}
		c.Values[i] = string(concat[min:max])
	}
	return nil
}
