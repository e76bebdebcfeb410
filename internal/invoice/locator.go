package invoice

import (
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
)

// Locate finds the first data row whose cell in some column contains term
// (case-insensitive) and returns the first non-null cell to the right of it.
// Columns are tried left to right, so the lowest matching column wins.
// Tables with fewer than two columns or with ragged rows never match.
func Locate(t document.Table, term string) (string, bool) {
	width := t.Width()
	if width < 2 || t.Ragged() {
		return "", false
	}

	term = strings.ToLower(term)
	rows := t.Rows()
	for c := 0; c < width; c++ {
		for _, row := range rows {
			if !strings.Contains(strings.ToLower(row[c]), term) {
				continue
			}
			// Only the first matching row of a column is considered
			for _, cell := range row[c+1:] {
				if !document.IsNull(cell) {
					return strings.TrimSpace(cell), true
				}
			}
			break
		}
	}
	return "", false
}

// LocateColumn reads a summary table laid out horizontally: a header cell
// containing term labels its column, and the single data row holds the value.
// Tables with more than one data row are line items and never match.
func LocateColumn(t document.Table, term string) (string, bool) {
	if t.Width() < 2 || t.Ragged() || len(t.Rows()) != 1 {
		return "", false
	}

	term = strings.ToLower(term)
	row := t.Rows()[0]
	for c, h := range t.Header() {
		if strings.Contains(strings.ToLower(h), term) && !document.IsNull(row[c]) {
			return strings.TrimSpace(row[c]), true
		}
	}
	return "", false
}
