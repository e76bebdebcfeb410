package document

import (
	"context"
	"strings"
)

// Table is a rectangular grid of cells. Row 0 is the header.
type Table [][]string

// Header returns the header row, or nil for an empty table
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Width returns the header column count
func (t Table) Width() int {
	return len(t.Header())
}

// Rows returns the data rows below the header
func (t Table) Rows() [][]string {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Ragged reports whether any row differs in width from the header
func (t Table) Ragged() bool {
	w := t.Width()
	for _, row := range t {
		if len(row) != w {
			return true
		}
	}
	return false
}

// IsNull reports whether a cell carries no value
func IsNull(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// Page is one page of a parsed document
type Page struct {
	Number int
	Text   string
	Tables []Table
}

// Document is the parsed form of a single source file
type Document struct {
	Name  string
	Pages []Page
	// Source holds the original bytes for scanners that read the rendered page
	Source      []byte
	ContentType string
}

// Tables returns every table in document order, across all pages
func (d *Document) Tables() []Table {
	var tables []Table
	for _, p := range d.Pages {
		tables = append(tables, p.Tables...)
	}
	return tables
}

// FirstPageTables returns the tables found on the first page
func (d *Document) FirstPageTables() []Table {
	if len(d.Pages) == 0 {
		return nil
	}
	return d.Pages[0].Tables
}

// Texts returns the page texts in document order
func (d *Document) Texts() []string {
	texts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		texts = append(texts, p.Text)
	}
	return texts
}

// Parser turns raw file bytes into pages and tables
type Parser interface {
	Parse(ctx context.Context, name string, data []byte) (*Document, error)
}
