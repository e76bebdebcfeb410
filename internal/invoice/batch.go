package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
)

// Batch extracts canonical records from every PDF in a directory
type Batch struct {
	parser     document.Parser
	aggregator *Aggregator
	failFast   bool
}

// NewBatch creates a Batch. With failFast set, the first unreadable document
// aborts the run; otherwise it is logged and skipped.
func NewBatch(parser document.Parser, aggregator *Aggregator, failFast bool) *Batch {
	return &Batch{parser: parser, aggregator: aggregator, failFast: failFast}
}

// ListPDFs returns the PDF files directly inside dir, sorted by name
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run processes the PDFs of dir one at a time, in listing order
func (b *Batch) Run(ctx context.Context, dir string) ([]Record, error) {
	files, err := ListPDFs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		slog.Warn("No PDF files found", "dir", dir)
		return []Record{}, nil
	}

	records := make([]Record, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := b.processFile(ctx, path)
		if err != nil {
			if b.failFast {
				return records, err
			}
			slog.Error("Skipping document", "file", filepath.Base(path), "error", err)
			continue
		}
		records = append(records, rec)
		slog.Info("Completed processing", "file", rec.FileName, "date", rec.Date, "total", rec.Total)
	}
	return records, nil
}

func (b *Batch) processFile(ctx context.Context, path string) (Record, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading %s: %w", name, err)
	}
	doc, err := b.parser.Parse(ctx, name, data)
	if err != nil {
		return Record{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	return b.aggregator.Process(ctx, doc), nil
}
