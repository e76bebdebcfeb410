package invoice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeDate", func() {
	DescribeTable("raw dates",
		func(raw string, expected string) {
			Expect(NormalizeDate(&raw)).To(Equal(expected))
		},
		Entry("German dotted month", "01. März 2024", "01/03/2024"),
		Entry("German month with single-digit day", "5. Dezember 2023", "05/12/2023"),
		Entry("decomposed umlaut", "01. Ma\u0308rz 2024", "01/03/2024"),
		Entry("English dotted month", "17. May 2022", "17/05/2022"),
		Entry("short month", "Mar 01, 2024", "01/03/2024"),
		Entry("day first numeric", "01/03/2024", "01/03/2024"),
		Entry("single digits", "1/3/2024", "01/03/2024"),
		Entry("ISO", "2024-03-01", "01/03/2024"),
		Entry("month first when day first is impossible", "03/25/2024", "25/03/2024"),
		Entry("full month name", "January 25, 2016", "25/01/2016"),
		Entry("surrounding whitespace", "  2024-03-01 ", "01/03/2024"),
		Entry("German Mai", "3. Mai 2021", "03/05/2021"),
		Entry("lowercase German is not translated", "01. märz 2024", InvalidDate),
		Entry("unsupported dotted numeric", "01.03.2024", InvalidDate),
		Entry("missing comma", "Mar 01 2024", InvalidDate),
		Entry("garbage", "not a date", InvalidDate),
		Entry("empty", "", InvalidDate),
		Entry("impossible day", "31/02/2024", InvalidDate),
	)

	When("the date is absent", func() {
		It("returns the sentinel", func() {
			Expect(NormalizeDate(nil)).To(Equal(InvalidDate))
		})
	})

	When("the input is already canonical", func() {
		It("should not change it", func() {
			for _, d := range []string{"01/03/2024", "12/11/2020", "31/12/1999"} {
				once := NormalizeDate(&d)
				Expect(once).To(Equal(d))
				Expect(NormalizeDate(&once)).To(Equal(d))
			}
		})
	})
})
