package export

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-tracker/internal/invoice"
)

var _ = Describe("Export", func() {
	var records []invoice.Record

	BeforeEach(func() {
		records = []invoice.Record{
			{FileName: "b.pdf", Date: "01/02/2024", Total: 10.5},
			{FileName: "a.pdf", Date: "01/02/2024", Total: 20.25},
			{FileName: "a.pdf", Date: invoice.InvalidDate, Total: 0},
		}
	})

	Describe("Pivot", func() {
		It("sums totals by date and file name with margins", func() {
			p := Pivot(records)
			Expect(p.Dates).To(Equal([]string{"01/02/2024", invoice.InvalidDate}))
			Expect(p.Files).To(Equal([]string{"a.pdf", "b.pdf"}))
			Expect(p.Values).To(Equal([][]float64{{20.25, 10.5}, {0, 0}}))
			Expect(p.RowTotals).To(Equal([]float64{30.75, 0}))
			Expect(p.ColTotals).To(Equal([]float64{20.25, 10.5}))
			Expect(p.Total).To(Equal(30.75))
		})

		It("adds repeated date and file pairs", func() {
			p := Pivot([]invoice.Record{
				{FileName: "a.pdf", Date: "01/02/2024", Total: 0.1},
				{FileName: "a.pdf", Date: "01/02/2024", Total: 0.2},
			})
			Expect(p.Values).To(Equal([][]float64{{0.3}}))
		})
	})

	Describe("WriteCSV", func() {
		It("writes semicolon separated rows", func() {
			var buf bytes.Buffer
			Expect(WriteCSV(&buf, records)).To(Succeed())
			Expect(buf.String()).To(Equal(
				"File Name;Date;Total (EUR)\n" +
					"b.pdf;01/02/2024;10.50\n" +
					"a.pdf;01/02/2024;20.25\n" +
					"a.pdf;Invalid date;0.00\n"))
		})

		It("refuses an empty batch", func() {
			var buf bytes.Buffer
			Expect(WriteCSV(&buf, nil)).To(MatchError(ErrNoRecords))
			Expect(buf.Len()).To(BeZero())
		})
	})

	Describe("WriteXLSX", func() {
		var f *excelize.File

		JustBeforeEach(func() {
			var buf bytes.Buffer
			Expect(WriteXLSX(&buf, records)).To(Succeed())
			var err error
			f, err = excelize.OpenReader(&buf)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(f.Close)
		})

		It("names both sheets", func() {
			Expect(f.GetSheetList()).To(Equal([]string{"Sheet 1", "Sheet 2"}))
		})

		It("writes one row per record in input order", func() {
			rows, err := f.GetRows("Sheet 1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal([][]string{
				{"File Name", "Date", "Total (EUR)"},
				{"b.pdf", "01/02/2024", "10.5"},
				{"a.pdf", "01/02/2024", "20.25"},
				{"a.pdf", "Invalid date", "0"},
			}))
		})

		It("writes the pivot with margins", func() {
			rows, err := f.GetRows("Sheet 2")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal([][]string{
				{"Date", "a.pdf", "b.pdf", "Total"},
				{"01/02/2024", "20.25", "10.5", "30.75"},
				{"Invalid date", "0", "0", "0"},
				{"Total", "20.25", "10.5", "30.75"},
			}))
		})

		It("refuses an empty batch", func() {
			var buf bytes.Buffer
			Expect(WriteXLSX(&buf, []invoice.Record{})).To(MatchError(ErrNoRecords))
		})
	})
})
