package bill

import (
	"context"
	"html/template"
	"log/slog"
)

// Bills drives the bills list page
type Bills struct {
	store    Store
	navigate Navigator
	session  Session
}

// NewBills creates the list controller. store may be nil, in which case nothing is fetched.
func NewBills(store Store, nav Navigator, session Session) *Bills {
	return &Bills{
		store:    store,
		navigate: nav,
		session:  session,
	}
}

// OnClickNewBill opens the new bill form
func (b *Bills) OnClickNewBill() {
	b.navigate.Navigate(RouteNewBill)
}

// OnClickIconEye builds the modal body showing the proof at half the modal width.
// It reports false when the clicked icon carries no proof URL.
func (b *Bills) OnClickIconEye(billURL string, modalWidth int) (template.HTML, bool) {
	if billURL == "" {
		slog.Warn("No proof URL found for this bill", "email", b.session.Email)
		return "", false
	}

	body, err := RenderProof(billURL, modalWidth/2)
	if err != nil {
		slog.Error("Error rendering proof", "url", billURL, "error", err)
		return "", false
	}
	return body, true
}

// FetchBills lists the session user's bills, most recent first, with display values filled.
// A bill whose date cannot be formatted keeps its raw date.
func (b *Bills) FetchBills(ctx context.Context) ([]*Bill, error) {
	if b.store == nil {
		return nil, nil
	}

	snapshot, err := b.store.List(ctx, b.session.Email)
	if err != nil {
		// shown to the user as is
		return nil, err
	}
	SortByDateDesc(snapshot)

	bills := make([]*Bill, 0, len(snapshot))
	for _, doc := range snapshot {
		formatted := *doc
		formatted.DisplayStatus = FormatStatus(doc.Status)

		date, err := FormatDate(doc.Date)
		if err != nil {
			slog.Error("Error formatting bill date", "bill_id", doc.ID, "date", doc.Date, "error", err)
			billFormatErrors.Inc()
			date = doc.Date
		}
		formatted.DisplayDate = date

		bills = append(bills, &formatted)
	}
	return bills, nil
}
