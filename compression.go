package scf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor is a reversible byte transform, applied to each column body
// independently. Decompress(Compress(b)) must return b for every b,
// including the empty buffer.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Compression is the compression codec, persisted in the file preamble.
type Compression byte

func (c Compression) isValid() bool {
	return c >= ZlibCompression && c < unknownCompression
}

// Supported compression codecs
const (
	ZlibCompression Compression = iota
	SnappyCompression
	ZstdCompression
	S2Compression
	LZ4Compression
	NoCompression
	unknownCompression
)

var compressionNames = [...]string{
	ZlibCompression:   "zlib",
	SnappyCompression: "snappy",
	ZstdCompression:   "zstd",
	S2Compression:     "s2",
	LZ4Compression:    "lz4",
	NoCompression:     "none",
}

func (c Compression) String() string {
	if c.isValid() {
		return compressionNames[c]
	}
	return fmt.Sprintf("compression(%d)", byte(c))
}

// ParseCompression resolves a codec by name.
func ParseCompression(name string) (Compression, error) {
	for c, s := range compressionNames {
		if strings.EqualFold(s, name) {
			return Compression(c), nil
		}
	}
	return unknownCompression, fmt.Errorf("scf: unknown compression %q", name)
}

// CompressionLevel trades speed for ratio on codecs which support it.
type CompressionLevel int

// Supported compression levels
const (
	DefaultLevel CompressionLevel = iota
	FastestLevel
	BestLevel
)

// ParseCompressionLevel resolves a level by name.
func ParseCompressionLevel(name string) (CompressionLevel, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return DefaultLevel, nil
	case "fastest":
		return FastestLevel, nil
	case "best":
		return BestLevel, nil
	}
	return DefaultLevel, fmt.Errorf("scf: unknown compression level %q", name)
}

func (l CompressionLevel) String() string {
	switch l {
	case FastestLevel:
		return "fastest"
	case BestLevel:
		return "best"
	}
	return "default"
}

// NewCompressor returns the built-in Compressor for a codec.
func NewCompressor(c Compression, level CompressionLevel) (Compressor, error) {
	switch c {
	case ZlibCompression:
		return newZlibCompressor(level), nil
	case SnappyCompression:
		return snappyCompressor{}, nil
	case ZstdCompression:
		return newZstdCompressor(level)
	case S2Compression:
		return s2Compressor{}, nil
	case LZ4Compression:
		return newLZ4Compressor(level), nil
	case NoCompression:
		return noCompressor{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported compression %s", ErrFormat, c)
}

// --------------------------------------------------------------------

type noCompressor struct{}

func (noCompressor) Compress(data []byte) ([]byte, error)   { return append([]byte{}, data...), nil }
func (noCompressor) Decompress(data []byte) ([]byte, error) { return append([]byte{}, data...), nil }

type snappyCompressor struct{}

func (snappyCompressor) Compress(data []byte) ([]byte, error)   { return snappy.Encode(nil, data), nil }
func (snappyCompressor) Decompress(data []byte) ([]byte, error) { return snappy.Decode(nil, data) }

type s2Compressor struct{}

func (s2Compressor) Compress(data []byte) ([]byte, error)   { return s2.Encode(nil, data), nil }
func (s2Compressor) Decompress(data []byte) ([]byte, error) { return s2.Decode(nil, data) }

// --------------------------------------------------------------------

type zlibCompressor struct {
	level int
}

func newZlibCompressor(level CompressionLevel) *zlibCompressor {
	zc := &zlibCompressor{level: zlib.DefaultCompression}
	switch level {
	case FastestLevel:
		zc.level = zlib.BestSpeed
	case BestLevel:
		zc.level = zlib.BestCompression
	}
	return zc
}

func (zc *zlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zc.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zc *zlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// --------------------------------------------------------------------

type zstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCompressor(level CompressionLevel) (*zstdCompressor, error) {
	el := zstd.SpeedDefault
	switch level {
	case FastestLevel:
		el = zstd.SpeedFastest
	case BestLevel:
		el = zstd.SpeedBestCompression
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(el), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &zstdCompressor{enc: enc, dec: dec}, nil
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return zc.enc.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := zc.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// --------------------------------------------------------------------

type lz4Compressor struct {
	level lz4.CompressionLevel
}

func newLZ4Compressor(level CompressionLevel) *lz4Compressor {
	lc := &lz4Compressor{level: lz4.Fast}
	switch level {
	case BestLevel:
		lc.level = lz4.Level9
	}
	return lc
}

func (lc *lz4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lc.level)); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lc *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
