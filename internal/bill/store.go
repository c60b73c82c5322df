package bill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zombor/billed/internal/scanning"
)

var validate = validator.New()

// ErrInvalidStatus is returned when a status change names an unknown status
var ErrInvalidStatus = errors.New("invalid status")

// ErrNotDraft is returned when a bill key does not name a draft of the current user
var ErrNotDraft = errors.New("not a draft of this user")

// ErrScannerDisabled is returned when proof scanning is requested without a scanner
var ErrScannerDisabled = errors.New("proof scanning is not configured")

// Upload is a proof file sent on behalf of a user
type Upload struct {
	Email       string `validate:"required,email"`
	FileName    string `validate:"required,max=255"`
	Data        []byte `validate:"gt=0"`
	ContentType string
}

// CreatedProof is what the store returns for an accepted upload
type CreatedProof struct {
	FileURL  string `json:"fileUrl"`
	Key      string `json:"key"`
	FileName string `json:"fileName"`
}

// statusChange is validated before a status update is applied
type statusChange struct {
	Status       string `validate:"required,oneof=pending accepted refused"`
	CommentAdmin string `validate:"max=1000"`
}

// Store is the bill persistence collaborator used by the controllers
type Store interface {
	// List returns the submitted bills of a user, in storage order
	List(ctx context.Context, email string) ([]*Bill, error)

	// Create stores a proof file and the draft bill referencing it
	Create(ctx context.Context, upload Upload) (*CreatedProof, error)

	// Update creates or replaces the bill keyed by selector. An empty selector creates a new bill.
	Update(ctx context.Context, selector string, bill Bill) (*Bill, error)
}

// IDGenerator generates unique IDs for bills
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service implements Store on top of a DB and a proof Storage
type Service struct {
	db          DB
	storage     Storage
	scanner     scanning.Scanner
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
// scanner may be nil when proof scanning is disabled.
func NewService(db DB, storage Storage, scanner scanning.Scanner) *Service {
	return NewServiceWithDeps(db, storage, scanner, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, scanner scanning.Scanner, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		scanner:     scanner,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProofURL is the address a stored proof is served from
func ProofURL(id string) string {
	return "/proofs/" + id
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates the base name
func sanitizeFilename(filename string) string {
	filename = baseName(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	base = unsafeChars.ReplaceAllString(base, "")
	base = spaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "proof"
	}
	return base + ext
}

// List returns the submitted bills belonging to email
func (s *Service) List(ctx context.Context, email string) ([]*Bill, error) {
	all, err := s.db.ListBills()
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	bills := make([]*Bill, 0, len(all))
	for _, b := range all {
		if b.IsDraft() || b.Email != email {
			continue
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// Create validates and stores a proof, then saves the draft bill that references it
func (s *Service) Create(ctx context.Context, upload Upload) (*CreatedProof, error) {
	if err := validate.Struct(upload); err != nil {
		return nil, fmt.Errorf("validating upload: %w", err)
	}
	if _, err := checkProofExtension(upload.FileName); err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()
	fileName := baseName(upload.FileName)

	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(fileName)), upload.Data)
	if err != nil {
		return nil, fmt.Errorf("saving proof: %w", err)
	}

	draft := &Bill{
		ID:          id,
		Email:       upload.Email,
		FileURL:     ProofURL(id),
		FileName:    fileName,
		ContentType: proofContentType(fileName, upload.ContentType),
		ProofPath:   savedName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.SaveBill(draft); err != nil {
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("saving draft bill: %w", err)
	}

	return &CreatedProof{
		FileURL:  draft.FileURL,
		Key:      id,
		FileName: fileName,
	}, nil
}

// Update creates or replaces the bill keyed by selector
func (s *Service) Update(ctx context.Context, selector string, bill Bill) (*Bill, error) {
	if bill.Status != "" {
		if err := validate.Var(bill.Status, "oneof=pending accepted refused"); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, bill.Status)
		}
	}

	now := s.timeSource.Now()
	if selector == "" {
		selector = s.idGenerator.Generate()
	}
	bill.ID = selector
	bill.CreatedAt = now

	existing, err := s.db.GetBill(selector)
	switch {
	case err == nil:
		bill.CreatedAt = existing.CreatedAt
		if bill.FileURL == "" {
			bill.FileURL = existing.FileURL
			bill.FileName = existing.FileName
		}
		if bill.ContentType == "" {
			bill.ContentType = existing.ContentType
		}
		if bill.ProofPath == "" {
			bill.ProofPath = existing.ProofPath
		}
		if bill.Email == "" {
			bill.Email = existing.Email
		}
	case errors.Is(err, ErrBillNotFound):
	default:
		return nil, fmt.Errorf("getting bill %s: %w", selector, err)
	}
	bill.UpdatedAt = now

	if err := s.db.SaveBill(&bill); err != nil {
		return nil, fmt.Errorf("saving bill: %w", err)
	}
	return &bill, nil
}

// Get retrieves a bill by ID
func (s *Service) Get(ctx context.Context, id string) (*Bill, error) {
	bill, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	return bill, nil
}

// OwnedDraft returns the bill id when it is a draft uploaded by email
func (s *Service) OwnedDraft(ctx context.Context, id, email string) (*Bill, error) {
	bill, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	if !bill.IsDraft() || email == "" || bill.Email != email {
		return nil, fmt.Errorf("%w: %s", ErrNotDraft, id)
	}
	return bill, nil
}

// SetStatus records an accept or refuse decision on a submitted bill
func (s *Service) SetStatus(ctx context.Context, id, status, commentAdmin string) (*Bill, error) {
	if err := validate.Struct(statusChange{Status: status, CommentAdmin: commentAdmin}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	bill, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	bill.Status = status
	bill.CommentAdmin = commentAdmin
	bill.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveBill(bill); err != nil {
		return nil, fmt.Errorf("saving bill: %w", err)
	}
	return bill, nil
}

// Delete removes a bill and its proof
func (s *Service) Delete(ctx context.Context, id string) error {
	bill, err := s.db.GetBill(id)
	if err != nil {
		return fmt.Errorf("getting bill for deletion: %w", err)
	}

	if bill.ProofPath != "" {
		if err := s.storage.Delete(bill.ProofPath); err != nil {
			slog.Warn("Failed to delete proof", "bill_id", id, "error", err)
		}
	}

	if err := s.db.DeleteBill(id); err != nil {
		return fmt.Errorf("deleting bill from database: %w", err)
	}
	return nil
}

// Proof returns the proof file data and content type of a bill
func (s *Service) Proof(ctx context.Context, id string) ([]byte, string, error) {
	bill, err := s.db.GetBill(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill: %w", err)
	}
	if bill.ProofPath == "" {
		return nil, "", fmt.Errorf("bill %s has no proof", id)
	}

	data, err := s.storage.Get(bill.ProofPath)
	if err != nil {
		return nil, "", fmt.Errorf("getting proof: %w", err)
	}
	return data, proofContentType(bill.ProofPath, bill.ContentType), nil
}

// ScanProof suggests expense fields read from a proof image
func (s *Service) ScanProof(ctx context.Context, fileName string, data []byte, contentType string) (*scanning.ExpenseData, error) {
	if s.scanner == nil {
		return nil, ErrScannerDisabled
	}
	if _, err := checkProofExtension(fileName); err != nil {
		return nil, err
	}

	expense, err := s.scanner.ScanProof(ctx, data, proofContentType(fileName, contentType))
	if err != nil {
		slog.Error("Failed to scan proof",
			"filename", fileName,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning proof: %w", err)
	}
	return expense, nil
}
