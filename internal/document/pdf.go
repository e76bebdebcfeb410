package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// PDFParser reads page text with MuPDF and rebuilds table regions from the
// glyph positions of each text line
type PDFParser struct {
	cellGap float64
}

// NewPDFParser creates a PDFParser. A non-positive cellGap selects DefaultCellGap.
func NewPDFParser(cellGap float64) *PDFParser {
	if cellGap <= 0 {
		cellGap = DefaultCellGap
	}
	return &PDFParser{cellGap: cellGap}
}

// Parse implements Parser
func (p *PDFParser) Parse(ctx context.Context, name string, data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]Page, doc.NumPage())
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages[i].Number = i + 1
		text, err := doc.Text(i)
		if err != nil {
			slog.Warn("Failed to extract page text", "file", name, "page", i+1, "error", err)
			continue
		}
		pages[i].Text = NormalizeText(text)
	}

	tables, err := p.pageTables(data)
	if err != nil {
		// Text fallbacks still work without tables
		slog.Warn("Failed to detect tables", "file", name, "error", err)
	}
	for i := range pages {
		if i < len(tables) {
			pages[i].Tables = tables[i]
		}
	}

	return &Document{
		Name:        name,
		Pages:       pages,
		Source:      data,
		ContentType: "application/pdf",
	}, nil
}

// pageTables returns the detected tables of every page, indexed by page
func (p *PDFParser) pageTables(data []byte) (tables [][]Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF glyphs: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	tables = make([][]Table, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if tables[i-1], err = DetectTables(glyphLines(page.Content().Text), p.cellGap); err != nil {
			return tables, fmt.Errorf("page %d: %w", i, err)
		}
	}
	return tables, nil
}

// glyphLines groups positioned glyphs into lines by baseline, top line first
func glyphLines(glyphs []pdf.Text) []Line {
	byBaseline := map[int64]Line{}
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		key := int64(math.Round(g.Y))
		byBaseline[key] = append(byBaseline[key], Word{X: g.X, Y: g.Y, W: g.W, FontSize: g.FontSize, S: g.S})
	}

	keys := make([]int64, 0, len(byBaseline))
	for k := range byBaseline {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, byBaseline[k])
	}
	return lines
}
