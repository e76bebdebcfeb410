package invoice

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/scanning"
)

// Extractor finds a raw field value in a parsed document
type Extractor func(ctx context.Context, doc *document.Document) (string, bool)

// SearchTerm is a table label searched for a field, lower Priority first
type SearchTerm struct {
	Term     string
	Priority int
}

// TotalTerms are the labels searched in tables for the invoice total.
// A gross amount is preferred over a plain total.
var TotalTerms = []SearchTerm{
	{Term: "gross amount", Priority: 1},
	{Term: "total", Priority: 2},
}

// totalTableLimit is how many leading tables are searched for the total;
// later tables hold line items
const totalTableLimit = 2

// dateColumn is the header that marks a date column in first-page tables
const dateColumn = "Date"

// Aggregator runs the date and total fallback chains over a document
type Aggregator struct {
	terms   []SearchTerm
	scanner scanning.Scanner
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithAssist appends a scanner as the last resort of both chains
func WithAssist(scanner scanning.Scanner) Option {
	return func(a *Aggregator) {
		a.scanner = scanner
	}
}

// WithTotalTerms replaces the table labels searched for the total
func WithTotalTerms(terms []SearchTerm) Option {
	return func(a *Aggregator) {
		a.terms = terms
	}
}

// NewAggregator creates an Aggregator
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{terms: TotalTerms}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TableTotal searches the rows of the leading tables for each term in
// priority order
func (a *Aggregator) TableTotal(_ context.Context, doc *document.Document) (string, bool) {
	return a.searchTables(doc, Locate)
}

// HeaderTotal searches the headers of single-row leading tables for each term
// in priority order
func (a *Aggregator) HeaderTotal(_ context.Context, doc *document.Document) (string, bool) {
	return a.searchTables(doc, LocateColumn)
}

func (a *Aggregator) searchTables(doc *document.Document, locate func(document.Table, string) (string, bool)) (string, bool) {
	tables := doc.Tables()
	if len(tables) > totalTableLimit {
		tables = tables[:totalTableLimit]
	}
	for _, term := range sortedTerms(a.terms) {
		for _, t := range tables {
			if v, ok := locate(t, term.Term); ok {
				return v, true
			}
		}
	}
	return "", false
}

// TableDate returns the first non-null value of a Date column in the tables
// of the first page
func TableDate(_ context.Context, doc *document.Document) (string, bool) {
	for _, t := range doc.FirstPageTables() {
		col := -1
		for i, h := range t.Header() {
			if strings.TrimSpace(h) == dateColumn {
				col = i
				break
			}
		}
		if col < 0 {
			continue
		}
		for _, row := range t.Rows() {
			if col < len(row) && !document.IsNull(row[col]) {
				return strings.TrimSpace(row[col]), true
			}
		}
	}
	return "", false
}

// TextDate is the page text fallback for the date
func TextDate(_ context.Context, doc *document.Document) (string, bool) {
	return DateFromText(doc.Texts())
}

// TextTotal is the page text fallback for the total
func TextTotal(_ context.Context, doc *document.Document) (string, bool) {
	return TotalFromText(doc.Texts())
}

// ExtractDate runs the date chain
func (a *Aggregator) ExtractDate(ctx context.Context, doc *document.Document) (string, bool) {
	return firstOf(ctx, doc, a.dateChain(nil))
}

// ExtractTotal runs the total chain
func (a *Aggregator) ExtractTotal(ctx context.Context, doc *document.Document) (string, bool) {
	return firstOf(ctx, doc, a.totalChain(nil))
}

// Extract builds the raw record of a document
func (a *Aggregator) Extract(ctx context.Context, doc *document.Document) RawRecord {
	var hint *assistHint
	if a.scanner != nil {
		hint = &assistHint{scanner: a.scanner}
	}

	rec := RawRecord{FileName: doc.Name}
	if v, ok := firstOf(ctx, doc, a.dateChain(hint)); ok {
		rec.Date = &v
	}
	if v, ok := firstOf(ctx, doc, a.totalChain(hint)); ok {
		rec.Total = &v
	}
	return rec
}

// Process extracts and normalizes a document into its canonical record
func (a *Aggregator) Process(ctx context.Context, doc *document.Document) Record {
	return a.Extract(ctx, doc).Normalize()
}

func (a *Aggregator) dateChain(hint *assistHint) []Extractor {
	chain := []Extractor{TableDate, TextDate}
	if hint != nil {
		chain = append(chain, hint.date)
	}
	return chain
}

func (a *Aggregator) totalChain(hint *assistHint) []Extractor {
	chain := []Extractor{a.TableTotal, TextTotal, a.HeaderTotal}
	if hint != nil {
		chain = append(chain, hint.total)
	}
	return chain
}

func firstOf(ctx context.Context, doc *document.Document, chain []Extractor) (string, bool) {
	for _, extract := range chain {
		if v, ok := extract(ctx, doc); ok {
			return v, true
		}
	}
	return "", false
}

func sortedTerms(terms []SearchTerm) []SearchTerm {
	sorted := make([]SearchTerm, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return sorted
}

// assistHint scans a document at most once and serves both chains
type assistHint struct {
	scanner scanning.Scanner
	once    sync.Once
	hint    *scanning.Hint
}

func (h *assistHint) get(ctx context.Context, doc *document.Document) *scanning.Hint {
	h.once.Do(func() {
		if len(doc.Source) == 0 {
			return
		}
		hint, err := h.scanner.ScanInvoice(ctx, doc.Source, doc.ContentType)
		if err != nil {
			slog.Warn("Assist scan failed", "file", doc.Name, "error", err)
			return
		}
		h.hint = hint
	})
	return h.hint
}

func (h *assistHint) date(ctx context.Context, doc *document.Document) (string, bool) {
	if hint := h.get(ctx, doc); hint != nil && hint.Date != "" {
		return hint.Date, true
	}
	return "", false
}

func (h *assistHint) total(ctx context.Context, doc *document.Document) (string, bool) {
	if hint := h.get(ctx, doc); hint != nil && hint.Total != "" {
		return hint.Total, true
	}
	return "", false
}
