package scanning

import "context"

// ExpenseData holds the expense fields read from a proof
type ExpenseData struct {
	Name   string  `json:"name"`
	Type   string  `json:"type,omitempty"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
	VAT    float64 `json:"vat"`
}

// Scanner reads expense fields from a proof image
type Scanner interface {
	// ScanProof analyzes a jpeg or png proof and extracts expense fields
	ScanProof(ctx context.Context, imageData []byte, contentType string) (*ExpenseData, error)
	// Close closes the scanner and releases resources
	Close() error
}
