package scf_test

import (
	"bytes"
	"strings"

	"github.com/bsm/scf"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compressor", func() {
	inputs := map[string][]byte{
		"empty": {},
		"small": []byte("hello"),
		"large": bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 2000),
	}

	for _, c := range []scf.Compression{
		scf.ZlibCompression,
		scf.SnappyCompression,
		scf.ZstdCompression,
		scf.S2Compression,
		scf.LZ4Compression,
		scf.NoCompression,
	} {
		c := c

		for _, level := range []scf.CompressionLevel{scf.DefaultLevel, scf.FastestLevel, scf.BestLevel} {
			level := level

			It("should round-trip with "+c.String()+"/"+level.String(), func() {
				comp, err := scf.NewCompressor(c, level)
				Expect(err).NotTo(HaveOccurred())

				for name, input := range inputs {
					packed, err := comp.Compress(input)
					Expect(err).NotTo(HaveOccurred(), "for %s", name)

					plain, err := comp.Decompress(packed)
					Expect(err).NotTo(HaveOccurred(), "for %s", name)
					Expect(plain).To(HaveLen(len(input)), "for %s", name)
					if len(input) != 0 {
						Expect(plain).To(Equal(input), "for %s", name)
					}
				}
			})
		}
	}

	It("should shrink repetitive data", func() {
		input := []byte(strings.Repeat("abcdefgh", 4096))
		for _, c := range []scf.Compression{
			scf.ZlibCompression,
			scf.SnappyCompression,
			scf.ZstdCompression,
			scf.S2Compression,
			scf.LZ4Compression,
		} {
			comp, err := scf.NewCompressor(c, scf.DefaultLevel)
			Expect(err).NotTo(HaveOccurred())

			packed, err := comp.Compress(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(packed)).To(BeNumerically("<", len(input)/10), "for %s", c)
		}
	})

	It("should fail on garbage", func() {
		for _, c := range []scf.Compression{
			scf.ZlibCompression,
			scf.SnappyCompression,
			scf.ZstdCompression,
			scf.LZ4Compression,
		} {
			comp, err := scf.NewCompressor(c, scf.DefaultLevel)
			Expect(err).NotTo(HaveOccurred())

			_, err = comp.Decompress([]byte("definitely not compressed"))
			Expect(err).To(HaveOccurred(), "for %s", c)
		}
	})

	It("should reject unknown codecs", func() {
		_, err := scf.NewCompressor(scf.Compression(42), scf.DefaultLevel)
		Expect(err).To(MatchError(scf.ErrFormat))
		Expect(err).To(MatchError("scf: invalid format: unsupported compression compression(42)"))
	})
})

var _ = Describe("ParseCompression", func() {
	It("should resolve names", func() {
		for name, expected := range map[string]scf.Compression{
			"zlib":   scf.ZlibCompression,
			"snappy": scf.SnappyCompression,
			"ZSTD":   scf.ZstdCompression,
			"s2":     scf.S2Compression,
			"lz4":    scf.LZ4Compression,
			"none":   scf.NoCompression,
		} {
			Expect(scf.ParseCompression(name)).To(Equal(expected))
		}
	})

	It("should reject unknown names", func() {
		_, err := scf.ParseCompression("brotli")
		Expect(err).To(MatchError(`scf: unknown compression "brotli"`))
	})

	It("should round-trip names", func() {
		for _, c := range []scf.Compression{scf.ZlibCompression, scf.LZ4Compression, scf.NoCompression} {
			Expect(scf.ParseCompression(c.String())).To(Equal(c))
		}
	})
})

var _ = Describe("ParseCompressionLevel", func() {
	It("should resolve names", func() {
		Expect(scf.ParseCompressionLevel("")).To(Equal(scf.DefaultLevel))
		Expect(scf.ParseCompressionLevel("default")).To(Equal(scf.DefaultLevel))
		Expect(scf.ParseCompressionLevel("Fastest")).To(Equal(scf.FastestLevel))
		Expect(scf.ParseCompressionLevel("best")).To(Equal(scf.BestLevel))

		_, err := scf.ParseCompressionLevel("turbo")
		Expect(err).To(MatchError(`scf: unknown compression level "turbo"`))
	})
})
