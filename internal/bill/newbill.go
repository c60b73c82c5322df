package bill

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ProofFile is a file picked in the proof field
type ProofFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// FormValues are the raw values of the new bill form
type FormValues struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	VAT        string
	Pct        string
	Commentary string
}

// Draft is the upload state carried from a proof upload to the form submission
type Draft struct {
	BillID   string
	FileURL  string
	FileName string
}

// NewBill drives the new bill form
type NewBill struct {
	store    Store
	navigate Navigator
	session  Session
	draft    Draft
}

// NewNewBill creates the form controller. store may be nil, in which case nothing is persisted.
func NewNewBill(store Store, nav Navigator, session Session) *NewBill {
	return &NewBill{
		store:    store,
		navigate: nav,
		session:  session,
	}
}

// Draft returns the current upload state
func (n *NewBill) Draft() Draft {
	return n.draft
}

// Restore sets the upload state of an earlier request
func (n *NewBill) Restore(d Draft) {
	n.draft = d
}

// OnFileChange validates and uploads a proof. Only an unaccepted extension is returned
// as an error (*InvalidFileError); upload failures are logged and keep the previous state.
func (n *NewBill) OnFileChange(ctx context.Context, file ProofFile) error {
	fileName := baseName(file.Name)
	if _, err := checkProofExtension(fileName); err != nil {
		slog.Info("Rejected proof", "filename", fileName, "email", n.session.Email)
		proofUploads.WithLabelValues("rejected").Inc()
		return err
	}
	if n.store == nil {
		return nil
	}

	created, err := n.store.Create(ctx, Upload{
		Email:       n.session.Email,
		FileName:    fileName,
		Data:        file.Data,
		ContentType: file.ContentType,
	})
	if err != nil {
		slog.Error("Error uploading proof", "filename", fileName, "error", err)
		proofUploads.WithLabelValues("failed").Inc()
		return nil
	}

	proofUploads.WithLabelValues("stored").Inc()
	n.draft = Draft{
		BillID:   created.Key,
		FileURL:  created.FileURL,
		FileName: fileName,
	}
	return nil
}

// OnSubmit assembles the bill from the form, waits for it to be persisted and
// then opens the bills list. The list is opened even when persisting fails.
func (n *NewBill) OnSubmit(ctx context.Context, form FormValues) error {
	bill := Bill{
		Email:      n.session.Email,
		Type:       form.Type,
		Name:       form.Name,
		Date:       form.Date,
		Amount:     parseIntOr(form.Amount, 0, "amount"),
		VAT:        form.VAT,
		Pct:        parseIntOr(form.Pct, DefaultPct, "pct"),
		Commentary: form.Commentary,
		FileURL:    n.draft.FileURL,
		FileName:   n.draft.FileName,
		Status:     StatusPending,
	}

	err := n.UpdateBill(ctx, bill)
	n.navigate.Navigate(RouteBills)
	return err
}

// UpdateBill persists the bill under the uploaded draft's key and opens the bills list
func (n *NewBill) UpdateBill(ctx context.Context, bill Bill) error {
	if n.store == nil {
		return nil
	}

	if _, err := n.store.Update(ctx, n.draft.BillID, bill); err != nil {
		slog.Error("Error updating bill", "bill_id", n.draft.BillID, "error", err)
		billsSubmitted.WithLabelValues("failed").Inc()
		return fmt.Errorf("updating bill: %w", err)
	}

	billsSubmitted.WithLabelValues("stored").Inc()
	n.navigate.Navigate(RouteBills)
	return nil
}

// parseIntOr reads the leading integer of s, like a browser form would, or returns def
func parseIntOr(s string, def int, field string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		if s != "" {
			slog.Warn("Using default for non-numeric field", "field", field, "value", s, "default", def)
		}
		return def
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		slog.Warn("Using default for out of range field", "field", field, "value", s, "default", def)
		return def
	}
	return v
}
