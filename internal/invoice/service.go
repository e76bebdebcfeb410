package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-tracker/internal/document"
)

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Service processes uploaded invoices and keeps their records
type Service struct {
	db          DB
	archive     Archive
	parser      document.Parser
	aggregator  *Aggregator
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID IDs and the system clock
func NewService(db DB, archive Archive, parser document.Parser, aggregator *Aggregator) *Service {
	return NewServiceWithDeps(db, archive, parser, aggregator, uuidGenerator{}, systemClock{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, archive Archive, parser document.Parser, aggregator *Aggregator, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		archive:     archive,
		parser:      parser,
		aggregator:  aggregator,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessInvoice stores an upload, extracts its date and total and saves the
// resulting record. Only PDFs are parsed; images rely on the assist scanner.
func (s *Service) ProcessInvoice(ctx context.Context, filename string, data []byte, contentType string) (*Invoice, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.archive.Put(id, filename, data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	doc := &document.Document{Name: filename, Source: data, ContentType: contentType}
	if contentType == "application/pdf" {
		doc, err = s.parser.Parse(ctx, filename, data)
		if err != nil {
			slog.Error("Failed to parse invoice",
				"filename", filename,
				"file_size", len(data),
				"error", err,
			)
			s.archive.Remove(savedPath)
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
	}

	raw := s.aggregator.Extract(ctx, doc)
	rec := raw.Normalize()

	inv := &Invoice{
		ID:          id,
		FileName:    filename,
		ContentType: contentType,
		StoredPath:  savedPath,
		Date:        rec.Date,
		Total:       rec.Total,
		RawDate:     deref(raw.Date),
		RawTotal:    deref(raw.Total),
		CreatedAt:   now,
	}

	if err := s.db.SaveInvoice(inv); err != nil {
		s.archive.Remove(savedPath)
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	slog.Info("Completed processing", "file", filename, "date", inv.Date, "total", inv.Total)
	return inv, nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns all invoices
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// Records returns the canonical records of all invoices in upload order
func (s *Service) Records() ([]Record, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(invoices))
	for _, inv := range invoices {
		records = append(records, inv.Record())
	}
	return records, nil
}

// DeleteInvoice removes an invoice and its file
func (s *Service) DeleteInvoice(id string) error {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("getting invoice for deletion: %w", err)
	}

	if err := s.archive.Remove(inv.StoredPath); err != nil {
		slog.Warn("Failed to delete file", "filename", inv.StoredPath, "error", err)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceFile retrieves the original document of an invoice
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}

	data, err := s.archive.Open(inv.StoredPath)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}
	return data, inv.ContentType, nil
}
