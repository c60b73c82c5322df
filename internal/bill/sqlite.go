package bill

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bills (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL DEFAULT '',
	name          TEXT NOT NULL DEFAULT '',
	date          TEXT NOT NULL DEFAULT '',
	amount        INTEGER NOT NULL DEFAULT 0,
	vat           TEXT NOT NULL DEFAULT '',
	pct           INTEGER NOT NULL DEFAULT 0,
	commentary    TEXT NOT NULL DEFAULT '',
	comment_admin TEXT NOT NULL DEFAULT '',
	file_url      TEXT NOT NULL DEFAULT '',
	file_name     TEXT NOT NULL DEFAULT '',
	content_type  TEXT NOT NULL DEFAULT '',
	proof_path    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS bills_email ON bills(email);
`

const billColumns = `id, email, type, name, date, amount, vat, pct, commentary, comment_admin,
	file_url, file_name, content_type, proof_path, status, created_at, updated_at`

// SQLiteDB implements the DB interface on a SQLite file
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the database file and applies the schema
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

// SaveBill inserts or replaces a bill
func (s *SQLiteDB) SaveBill(bill *Bill) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO bills (`+billColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Email, bill.Type, bill.Name, bill.Date, bill.Amount, bill.VAT, bill.Pct,
		bill.Commentary, bill.CommentAdmin, bill.FileURL, bill.FileName, bill.ContentType, bill.ProofPath, bill.Status,
		bill.CreatedAt.UTC().Format(time.RFC3339Nano), bill.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving bill %s: %w", bill.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*Bill, error) {
	var (
		bill               Bill
		created, updated string
	)
	err := row.Scan(&bill.ID, &bill.Email, &bill.Type, &bill.Name, &bill.Date, &bill.Amount,
		&bill.VAT, &bill.Pct, &bill.Commentary, &bill.CommentAdmin, &bill.FileURL, &bill.FileName,
		&bill.ContentType, &bill.ProofPath, &bill.Status, &created, &updated)
	if err != nil {
		return nil, err
	}
	bill.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	bill.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &bill, nil
}

// GetBill retrieves a bill by ID
func (s *SQLiteDB) GetBill(id string) (*Bill, error) {
	bill, err := scanBill(s.db.QueryRow(`SELECT `+billColumns+` FROM bills WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBillNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting bill %s: %w", id, err)
	}
	return bill, nil
}

// ListBills returns all bills
func (s *SQLiteDB) ListBills() ([]*Bill, error) {
	rows, err := s.db.Query(`SELECT ` + billColumns + ` FROM bills ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*Bill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return bills, nil
}

// DeleteBill removes a bill
func (s *SQLiteDB) DeleteBill(id string) error {
	if _, err := s.db.Exec(`DELETE FROM bills WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting bill %s: %w", id, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
