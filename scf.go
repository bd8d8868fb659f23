package scf

import (
	"errors"
	"fmt"
)

var magic = []byte("SCOLFMT\x00")

const (
	// Version is the format version written by this package.
	Version = 1

	preambleSize = 8 + 1 + 7 + 8 // magic, version, reserved, header length
	maxColumns   = 1<<16 - 1
	maxNameLen   = 1<<16 - 1
)

var (
	// ErrFormat is returned when a stream is not a valid SCF file.
	ErrFormat = errors.New("scf: invalid format")
	// ErrInput is returned when a table cannot be encoded.
	ErrInput = errors.New("scf: invalid input")
	// ErrLookup is returned when a column selector does not resolve.
	ErrLookup = errors.New("scf: column not found")
	// ErrEncoding is returned when a cell does not parse under its column type.
	ErrEncoding = errors.New("scf: value does not match column type")
)

var (
	errClosed     = errors.New("scf: is closed")
	errBadMagic   = fmt.Errorf("%w: bad magic byte sequence", ErrFormat)
	errTruncated  = fmt.Errorf("%w: unexpected end of header", ErrFormat)
	errEmptyTable = fmt.Errorf("%w: table has no rows", ErrInput)
)

// --------------------------------------------------------------------

// Type is the persisted column type code.
type Type uint8

// Supported column types.
const (
	TypeInt32   Type = 1
	TypeFloat64 Type = 2
	TypeString  Type = 3
)

func (t Type) isValid() bool {
	return t >= TypeInt32 && t <= TypeString
}

func (t Type) String() string {
	switch t {
	case TypeInt32:
		return "int32"
	case TypeFloat64:
		return "float64"
	case TypeString:
		return "string"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}
