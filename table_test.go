package scf_test

import (
	"github.com/bsm/scf"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	It("should require a header", func() {
		_, err := scf.NewTable(nil)
		Expect(err).To(MatchError(`scf: invalid input: no header row`))
	})

	It("should normalise rows", func() {
		table, err := scf.NewTable([][]string{
			{"a", "b"},
			{"1"},
			{"2", "3", "4"},
			{},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(table.NumRows()).To(Equal(3))
		Expect(table.Rows).To(Equal([][]string{
			{"1", ""},
			{"2", "3"},
			{"", ""},
		}))
		Expect(table.Column(0)).To(Equal([]string{"1", "2", ""}))
		Expect(table.Column(1)).To(Equal([]string{"", "3", ""}))
	})

	It("should not alias input records", func() {
		records := [][]string{{"a"}, {"1"}}
		table, err := scf.NewTable(records)
		Expect(err).NotTo(HaveOccurred())

		records[0][0] = "x"
		records[1][0] = "9"
		Expect(table.Records()).To(Equal([][]string{{"a"}, {"1"}}))
	})

	It("should accept header-only input", func() {
		table, err := scf.NewTable([][]string{{"a", "b"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(table.NumRows()).To(BeZero())
		Expect(table.Records()).To(Equal([][]string{{"a", "b"}}))

		err = scf.Encode(new(seekBuffer), table, nil)
		Expect(err).To(MatchError(`scf: invalid input: table has no rows`))
	})
})
