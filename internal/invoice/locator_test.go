package invoice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-tracker/internal/document"
)

var _ = Describe("Locate", func() {
	var (
		table document.Table
		term  string
		value string
		found bool
	)

	JustBeforeEach(func() {
		value, found = Locate(table, term)
	})

	When("the term labels a row", func() {
		BeforeEach(func() {
			term = "gross amount"
			table = document.Table{
				{"Item", "Amount"},
				{"Net Amount", "100.00"},
				{"Gross Amount", "  119.00  "},
			}
		})

		It("should return the trimmed value to the right", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("119.00"))
		})
	})

	When("the term differs in case", func() {
		BeforeEach(func() {
			term = "TOTAL"
			table = document.Table{
				{"Label", "Value"},
				{"total due", "€50.00"},
			}
		})

		It("should match case-insensitively", func() {
			Expect(found).To(BeTrue())
			Expect(value).To(Equal("€50.00"))
		})
	})

	When("cells right of the match are null", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"Label", "A", "B", "C"},
				{"Total", "", "  ", "42.00"},
			}
		})

		It("should skip to the first non-null cell", func() {
			Expect(value).To(Equal("42.00"))
		})
	})

	When("the term appears in several columns", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"A", "B", "C", "D"},
				{"x", "x", "Total", "3"},
				{"Total", "1", "x", "x"},
			}
		})

		It("should prefer the lowest column", func() {
			Expect(value).To(Equal("1"))
		})
	})

	When("several rows match in the same column", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"Label", "Value"},
				{"Subtotal", "80.00"},
				{"Total", "95.20"},
			}
		})

		It("should use the first matching row", func() {
			Expect(value).To(Equal("80.00"))
		})
	})

	When("the first matching row has nothing to the right", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"A", "B", "C"},
				{"x", "Total", ""},
				{"x", "Total", "7.00"},
			}
		})

		It("should not look at later rows of that column", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the match is only in the header", func() {
		BeforeEach(func() {
			term = "gross amount"
			table = document.Table{
				{"Description", "Gross Amount"},
			}
		})

		It("should not search the header row", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the table has one column", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"Label"},
				{"Total"},
				{"100.00"},
			}
		})

		It("returns absent", func() {
			Expect(found).To(BeFalse())
			Expect(value).To(BeEmpty())
		})
	})

	When("the table is ragged", func() {
		BeforeEach(func() {
			term = "total"
			table = document.Table{
				{"Label", "Value"},
				{"Total"},
				{"Total", "5.00", "extra"},
			}
		})

		It("returns absent without panicking", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the table is empty", func() {
		BeforeEach(func() {
			term = "total"
			table = nil
		})

		It("returns absent", func() {
			Expect(found).To(BeFalse())
		})
	})
})

var _ = Describe("LocateColumn", func() {
	It("should read the value under a matching header", func() {
		v, ok := LocateColumn(document.Table{
			{"Description", "Gross Amount"},
			{"Service Fee", " $1,000.00 "},
		}, "gross amount")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("$1,000.00"))
	})

	It("should ignore tables with several data rows", func() {
		_, ok := LocateColumn(document.Table{
			{"Item", "Total"},
			{"Widget", "5.00"},
			{"Gadget", "7.00"},
		}, "total")
		Expect(ok).To(BeFalse())
	})

	It("should skip a null value", func() {
		_, ok := LocateColumn(document.Table{
			{"Item", "Total"},
			{"Widget", ""},
		}, "total")
		Expect(ok).To(BeFalse())
	})
})
