package scf_test

import (
	"encoding/binary"
	"math/rand"
	"strings"

	"github.com/bsm/scf"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Int32Column", func() {
	It("should encode values and sentinels", func() {
		col, err := scf.NewInt32Column("n", []string{"1", "", "-3"})
		Expect(err).NotTo(HaveOccurred())
		Expect(col.Name()).To(Equal("n"))
		Expect(col.Type()).To(Equal(scf.TypeInt32))
		Expect(col.Len()).To(Equal(3))

		data, err := col.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{
			1, 0, 0, 0,
			0, 0, 0, 0x80,
			0xfd, 0xff, 0xff, 0xff,
		}))
	})

	It("should decode", func() {
		col := new(scf.Int32Column)
		Expect(col.UnmarshalBinary([]byte{
			1, 0, 0, 0,
			0, 0, 0, 0x80,
			3, 0, 0, 0,
		})).To(Succeed())
		Expect(col.Values).To(Equal([]int32{1, scf.MissingInt32, 3}))
		Expect(col.Strings()).To(Equal([]string{"1", "", "3"}))
	})

	It("should reject bad input", func() {
		_, err := scf.NewInt32Column("n", []string{"1", "x"})
		Expect(err).To(MatchError(scf.ErrEncoding))
		Expect(err).To(MatchError(`scf: value does not match column type: column "n", row 1: "x" is not an int32`))

		Expect(new(scf.Int32Column).UnmarshalBinary([]byte{1, 2, 3})).To(MatchError(scf.ErrFormat))
	})

	It("should not distinguish the sentinel from missing values", func() {
		col, err := scf.NewInt32Column("n", []string{"-2147483648", "7"})
		Expect(err).NotTo(HaveOccurred())
		Expect(col.Strings()).To(Equal([]string{"", "7"}))
	})
})

var _ = Describe("Float64Column", func() {
	It("should encode values and sentinels", func() {
		col, err := scf.NewFloat64Column("f", []string{"1.5", ""})
		Expect(err).NotTo(HaveOccurred())
		Expect(col.Type()).To(Equal(scf.TypeFloat64))

		data, err := col.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(16))
		Expect(binary.LittleEndian.Uint64(data[0:])).To(Equal(uint64(0x3FF8000000000000)))
		Expect(binary.LittleEndian.Uint64(data[8:])).To(Equal(uint64(0x7FF8000000000000)))
	})

	It("should round-trip", func() {
		cells := []string{"1.5", "", "-0.25", "1e+100"}
		col, err := scf.NewFloat64Column("f", cells)
		Expect(err).NotTo(HaveOccurred())

		data, err := col.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		dec := new(scf.Float64Column)
		Expect(dec.UnmarshalBinary(data)).To(Succeed())
		Expect(dec.Strings()).To(Equal(cells))
	})

	It("should render floats", func() {
		col, err := scf.NewFloat64Column("f", []string{
			"2", "0.1", "0.0001", "0.00001", "1e15", "1e16", "123.456", "-0", "1e400", "-1e400",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(col.Strings()).To(Equal([]string{
			"2.0", "0.1", "0.0001", "1e-05", "1000000000000000.0", "1e+16", "123.456", "-0.0", "inf", "-inf",
		}))
	})

	It("should swallow NaN values", func() {
		col, err := scf.NewFloat64Column("f", []string{"NaN", "1.5"})
		Expect(err).NotTo(HaveOccurred())
		Expect(col.Strings()).To(Equal([]string{"", "1.5"}))
	})

	It("should reject bad input", func() {
		_, err := scf.NewFloat64Column("f", []string{"1.5", "abc"})
		Expect(err).To(MatchError(scf.ErrEncoding))
		Expect(new(scf.Float64Column).UnmarshalBinary(make([]byte, 12))).To(MatchError(scf.ErrFormat))
	})
})

var _ = Describe("StringColumn", func() {
	It("should encode", func() {
		col := scf.NewStringColumn("s", []string{"ab", "", "c"})
		Expect(col.Type()).To(Equal(scf.TypeString))

		data, err := col.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(8 + 4*8 + 3))

		u64 := func(pos int) uint64 { return binary.LittleEndian.Uint64(data[pos:]) }
		Expect(u64(0)).To(Equal(uint64(3)))
		Expect([]uint64{u64(8), u64(16), u64(24), u64(32)}).To(Equal([]uint64{0, 2, 2, 3}))
		Expect(string(data[40:])).To(Equal("abc"))
	})

	It("should round-trip", func() {
		cells := []string{"", "Zoë", "with,comma", "", "\"quoted\"", "multi\nline"}
		data, err := scf.NewStringColumn("s", cells).MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		dec := new(scf.StringColumn)
		Expect(dec.UnmarshalBinary(data)).To(Succeed())
		Expect(dec.Values).To(Equal(cells))
	})

	It("should maintain offset invariants", func() {
		rnd := rand.New(rand.NewSource(1))
		for n := 0; n < 50; n++ {
			cells := make([]string, n)
			for i := range cells {
				cells[i] = strings.Repeat("x", rnd.Intn(5))
			}

			data, err := scf.NewStringColumn("s", cells).MarshalBinary()
			Expect(err).NotTo(HaveOccurred())

			count := int(binary.LittleEndian.Uint64(data))
			Expect(count).To(Equal(n))

			concat := data[8*(count+2):]
			offsets := make([]uint64, count+1)
			for i := range offsets {
				offsets[i] = binary.LittleEndian.Uint64(data[8*(i+1):])
			}
			Expect(offsets[0]).To(BeZero())
			Expect(offsets[count]).To(Equal(uint64(len(concat))))
			for i := 0; i < count; i++ {
				Expect(offsets[i]).To(BeNumerically("<=", offsets[i+1]))
			}
		}
	})

	It("should reject corrupt bodies", func() {
		valid, err := scf.NewStringColumn("s", []string{"ab", "c"}).MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		corrupt := func(fn func([]byte)) []byte {
			data := append([]byte{}, valid...)
			fn(data)
			return data
		}

		Expect(new(scf.StringColumn).UnmarshalBinary(valid[:10])).To(MatchError(scf.ErrFormat))
		Expect(new(scf.StringColumn).UnmarshalBinary(corrupt(func(b []byte) {
			binary.LittleEndian.PutUint64(b[0:], 1000)
		}))).To(MatchError(scf.ErrFormat))
		Expect(new(scf.StringColumn).UnmarshalBinary(corrupt(func(b []byte) {
			binary.LittleEndian.PutUint64(b[8:], 1)
		}))).To(MatchError(scf.ErrFormat))
		Expect(new(scf.StringColumn).UnmarshalBinary(corrupt(func(b []byte) {
			binary.LittleEndian.PutUint64(b[24:], 4)
		}))).To(MatchError(scf.ErrFormat))
		Expect(new(scf.StringColumn).UnmarshalBinary(corrupt(func(b []byte) {
			binary.LittleEndian.PutUint64(b[16:], 5)
		}))).To(MatchError(scf.ErrFormat))
	})
})

var _ = Describe("NewColumn", func() {
	It("should dispatch by type", func() {
		for typ, expected := range map[scf.Type]scf.Column{
			scf.TypeInt32:   &scf.Int32Column{},
			scf.TypeFloat64: &scf.Float64Column{},
			scf.TypeString:  &scf.StringColumn{},
		} {
			col, err := scf.NewColumn("c", typ, []string{"1", ""})
			Expect(err).NotTo(HaveOccurred())
			Expect(col).To(BeAssignableToTypeOf(expected))
			Expect(col.Type()).To(Equal(typ))
		}
	})

	It("should reject unknown types", func() {
		_, err := scf.NewColumn("c", scf.Type(9), nil)
		Expect(err).To(MatchError(scf.ErrEncoding))
	})
})
