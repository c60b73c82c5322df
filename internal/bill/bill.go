package bill

import "time"

// Status values a bill moves through
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// DefaultPct is used when the submitted VAT percentage is not an integer
const DefaultPct = 20

// Bill represents one submitted expense record
type Bill struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Amount       int       `json:"amount"`
	VAT          string    `json:"vat"`
	Pct          int       `json:"pct"`
	Commentary   string    `json:"commentary"`
	CommentAdmin string    `json:"commentAdmin,omitempty"`
	FileURL      string    `json:"fileUrl"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType,omitempty"`
	ProofPath    string    `json:"proofPath,omitempty"` // name in proof storage
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Display values filled by the list controller, never persisted
	DisplayDate   string `json:"-"`
	DisplayStatus string `json:"-"`
}

// IsDraft reports whether the bill only holds an uploaded proof and has not been submitted yet
func (b *Bill) IsDraft() bool {
	return b.Status == ""
}

// ExpenseTypes are the categories offered by the new bill form
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}
