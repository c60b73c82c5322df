package bill

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("billed").Funcs(template.FuncMap{
	"displayDate": func(b *Bill) string {
		if b.DisplayDate != "" {
			return b.DisplayDate
		}
		return b.Date
	},
	"displayStatus": func(b *Bill) string {
		if b.DisplayStatus != "" {
			return b.DisplayStatus
		}
		return FormatStatus(b.Status)
	},
}).ParseFS(templatesFS, "templates/*.html"))

// Page is the state of the bills page
type Page struct {
	Data    []*Bill
	Loading bool
	Error   string
}

// NewBillPage is the state of the new bill form
type NewBillPage struct {
	Alert string
	Form  FormValues
	Draft Draft
}

type billsView struct {
	Active string
	Rows   []*Bill
	Error  string
}

type newBillView struct {
	NewBillPage
	Active       string
	ExpenseTypes []string
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Render returns the markup of the bills page. A loading page wins over an error,
// an error wins over the table. The caller's slice is not reordered.
func Render(page Page) (string, error) {
	view := billsView{Active: "bills"}
	switch {
	case page.Loading:
		return execute("loading", view)
	case page.Error != "":
		view.Error = page.Error
		return execute("error", view)
	}

	view.Rows = make([]*Bill, len(page.Data))
	copy(view.Rows, page.Data)
	SortByDateDesc(view.Rows)
	return execute("bills", view)
}

// RenderNewBill returns the markup of the new bill form
func RenderNewBill(page NewBillPage) (string, error) {
	return execute("newbill", newBillView{
		NewBillPage:  page,
		Active:       "new",
		ExpenseTypes: ExpenseTypes,
	})
}

// RenderProof returns the modal body showing a proof image
func RenderProof(url string, width int) (template.HTML, error) {
	out, err := execute("proof", struct {
		URL   string
		Width int
	}{URL: url, Width: width})
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}
