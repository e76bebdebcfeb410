package scanning

import "context"

// Hint holds the invoice fields read by a model, as printed on the document
type Hint struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// Scanner reads invoice fields directly from a rendered document
type Scanner interface {
	// ScanInvoice analyzes an invoice image/PDF and returns the raw date and total
	ScanInvoice(ctx context.Context, data []byte, contentType string) (*Hint, error)
	// Close closes the scanner and releases resources
	Close() error
}
