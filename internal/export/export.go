package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-tracker/internal/invoice"
)

// ErrNoRecords is returned when there is nothing to export
var ErrNoRecords = errors.New("no invoice records to export")

const (
	recordsSheet = "Sheet 1"
	pivotSheet   = "Sheet 2"
	marginsName  = "Total"
)

// Header is the column header row shared by the XLSX and CSV outputs
var Header = []string{"File Name", "Date", "Total (EUR)"}

// PivotTable sums totals by date (rows) and file name (columns)
type PivotTable struct {
	Dates     []string
	Files     []string
	Values    [][]float64 // [date][file]
	RowTotals []float64
	ColTotals []float64
	Total     float64
}

// Pivot builds the date by file name table with margins. Missing cells are 0.
func Pivot(records []invoice.Record) PivotTable {
	dateIdx := map[string]int{}
	fileIdx := map[string]int{}
	var p PivotTable
	for _, r := range records {
		if _, ok := dateIdx[r.Date]; !ok {
			dateIdx[r.Date] = 0
			p.Dates = append(p.Dates, r.Date)
		}
		if _, ok := fileIdx[r.FileName]; !ok {
			fileIdx[r.FileName] = 0
			p.Files = append(p.Files, r.FileName)
		}
	}
	sort.Strings(p.Dates)
	sort.Strings(p.Files)
	for i, d := range p.Dates {
		dateIdx[d] = i
	}
	for i, f := range p.Files {
		fileIdx[f] = i
	}

	sums := make([][]decimal.Decimal, len(p.Dates))
	for i := range sums {
		sums[i] = make([]decimal.Decimal, len(p.Files))
	}
	for _, r := range records {
		cell := &sums[dateIdx[r.Date]][fileIdx[r.FileName]]
		*cell = cell.Add(decimal.NewFromFloat(r.Total))
	}

	p.Values = make([][]float64, len(p.Dates))
	p.RowTotals = make([]float64, len(p.Dates))
	colSums := make([]decimal.Decimal, len(p.Files))
	var total decimal.Decimal
	for i := range sums {
		p.Values[i] = make([]float64, len(p.Files))
		var rowSum decimal.Decimal
		for j, v := range sums[i] {
			p.Values[i][j] = v.InexactFloat64()
			rowSum = rowSum.Add(v)
			colSums[j] = colSums[j].Add(v)
		}
		p.RowTotals[i] = rowSum.InexactFloat64()
		total = total.Add(rowSum)
	}
	p.ColTotals = make([]float64, len(p.Files))
	for j, v := range colSums {
		p.ColTotals[j] = v.InexactFloat64()
	}
	p.Total = total.InexactFloat64()
	return p
}

// WriteXLSX writes the records sheet and the pivot sheet as an XLSX workbook
func WriteXLSX(w io.Writer, records []invoice.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeRow(f, recordsSheet, 1, toRow(Header)); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, recordsSheet, i+2, []any{r.FileName, r.Date, r.Total}); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(recordsSheet, "A", "A", 40)
	_ = f.SetColWidth(recordsSheet, "B", "C", 14)

	if _, err := f.NewSheet(pivotSheet); err != nil {
		return fmt.Errorf("creating pivot sheet: %w", err)
	}
	p := Pivot(records)

	header := []any{"Date"}
	for _, file := range p.Files {
		header = append(header, file)
	}
	header = append(header, marginsName)
	if err := writeRow(f, pivotSheet, 1, header); err != nil {
		return err
	}
	for i, date := range p.Dates {
		row := []any{date}
		for _, v := range p.Values[i] {
			row = append(row, v)
		}
		row = append(row, p.RowTotals[i])
		if err := writeRow(f, pivotSheet, i+2, row); err != nil {
			return err
		}
	}
	margins := []any{marginsName}
	for _, v := range p.ColTotals {
		margins = append(margins, v)
	}
	margins = append(margins, p.Total)
	if err := writeRow(f, pivotSheet, len(p.Dates)+2, margins); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

// WriteCSV writes the records as semicolon separated values
func WriteCSV(w io.Writer, records []invoice.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.FileName, r.Date, strconv.FormatFloat(r.Total, 'f', 2, 64)}); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// Writer exposes WriteXLSX and WriteCSV as methods for callers that take an
// exporter interface
type Writer struct{}

// WriteXLSX calls the package-level WriteXLSX
func (Writer) WriteXLSX(w io.Writer, records []invoice.Record) error {
	return WriteXLSX(w, records)
}

// WriteCSV calls the package-level WriteCSV
func (Writer) WriteCSV(w io.Writer, records []invoice.Record) error {
	return WriteCSV(w, records)
}
