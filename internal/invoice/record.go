package invoice

import "time"

// InvalidDate stands in for a date that is absent or could not be parsed
const InvalidDate = "Invalid date"

// RawRecord holds the strings found for one document before normalization.
// A nil field means no extractor matched.
type RawRecord struct {
	FileName string
	Date     *string
	Total    *string
}

// Record is the canonical, always well-formed result for one document
type Record struct {
	FileName string  `json:"file_name"`
	Date     string  `json:"date"`  // DD/MM/YYYY or InvalidDate
	Total    float64 `json:"total"` // EUR, 2 decimals
}

// Normalize converts a raw record into its canonical form
func (r RawRecord) Normalize() Record {
	return Record{
		FileName: r.FileName,
		Date:     NormalizeDate(r.Date),
		Total:    NormalizeTotal(r.Total),
	}
}

// Invoice is a processed upload kept by the server
type Invoice struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	StoredPath  string    `json:"stored_path"`
	Date        string    `json:"date"`
	Total       float64   `json:"total"`
	RawDate     string    `json:"raw_date,omitempty"`
	RawTotal    string    `json:"raw_total,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record returns the canonical record of a stored invoice
func (i *Invoice) Record() Record {
	return Record{FileName: i.FileName, Date: i.Date, Total: i.Total}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
