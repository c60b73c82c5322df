package bill

import (
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var rowDate = regexp.MustCompile(`<td>(\d{4}-\d{2}-\d{2})</td>`)

var _ = Describe("Render", func() {
	var bills []*Bill

	BeforeEach(func() {
		bills = []*Bill{
			{ID: "1", Type: "Hôtel et logement", Name: "encore", Date: "2004-04-04", Amount: 400, Status: StatusPending, FileURL: "/proofs/1"},
			{ID: "2", Type: "Transports", Name: "test1", Date: "2001-01-01", Amount: 100, Status: StatusRefused, FileURL: "/proofs/2"},
			{ID: "3", Type: "Services en ligne", Name: "test3", Date: "2003-03-03", Amount: 300, Status: StatusAccepted, FileURL: "/proofs/3"},
			{ID: "4", Type: "Restaurants et bars", Name: "test2", Date: "2002-02-02", Amount: 200, Status: StatusRefused, FileURL: "/proofs/4"},
		}
	})

	It("lists bills from latest to earliest", func() {
		markup, err := Render(Page{Data: bills})
		Expect(err).NotTo(HaveOccurred())

		var dates []string
		for _, m := range rowDate.FindAllStringSubmatch(markup, -1) {
			dates = append(dates, m[1])
		}
		Expect(dates).To(Equal([]string{"2004-04-04", "2003-03-03", "2002-02-02", "2001-01-01"}))
	})

	It("does not reorder the caller's slice", func() {
		_, err := Render(Page{Data: bills})
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(bills)).To(Equal([]string{"1", "2", "3", "4"}))
	})

	It("renders one row per bill with its proof URL", func() {
		markup, err := Render(Page{Data: bills})
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(markup, `data-testid="icon-eye"`)).To(Equal(4))
		Expect(markup).To(ContainSubstring(`data-bill-url="/proofs/3"`))
		Expect(markup).To(ContainSubstring("400 €"))
		Expect(markup).To(ContainSubstring("En attente"))
		Expect(markup).To(ContainSubstring(`data-testid="btn-new-bill"`))
	})

	It("prefers display values when they are set", func() {
		bills[0].DisplayDate = "4 Avr. 04"
		markup, err := Render(Page{Data: bills[:1]})
		Expect(err).NotTo(HaveOccurred())
		Expect(markup).To(ContainSubstring("<td>4 Avr. 04</td>"))
	})

	It("renders the vertical layout with the bills icon highlighted", func() {
		markup, err := Render(Page{})
		Expect(err).NotTo(HaveOccurred())
		Expect(markup).To(ContainSubstring(`data-testid="icon-window"`))
		Expect(markup).To(MatchRegexp(`id="layout-icon1"[^>]*active-icon`))
	})

	It("renders an empty table without data", func() {
		markup, err := Render(Page{Data: nil})
		Expect(err).NotTo(HaveOccurred())
		Expect(markup).To(ContainSubstring(`data-testid="tbody"`))
		Expect(markup).NotTo(ContainSubstring(`data-testid="icon-eye"`))
	})

	When("loading", func() {
		It("renders the loading page, even with an error", func() {
			markup, err := Render(Page{Loading: true, Error: "some error", Data: bills})
			Expect(err).NotTo(HaveOccurred())
			Expect(markup).To(ContainSubstring("Loading..."))
			Expect(markup).NotTo(ContainSubstring("some error"))
			Expect(markup).NotTo(ContainSubstring(`data-testid="tbody"`))
		})
	})

	When("an error is set", func() {
		It("renders the error message verbatim", func() {
			markup, err := Render(Page{Error: "Erreur 404", Data: bills})
			Expect(err).NotTo(HaveOccurred())
			Expect(markup).To(ContainSubstring(`<div data-testid="error-message">Erreur 404</div>`))
			Expect(markup).NotTo(ContainSubstring(`data-testid="tbody"`))
		})
	})
})

var _ = Describe("RenderNewBill", func() {
	It("renders the form with the expense types", func() {
		markup, err := RenderNewBill(NewBillPage{})
		Expect(err).NotTo(HaveOccurred())
		Expect(markup).To(ContainSubstring(`data-testid="form-new-bill"`))
		for _, t := range ExpenseTypes {
			Expect(markup).To(ContainSubstring(t))
		}
		Expect(markup).NotTo(ContainSubstring(`data-testid="alert"`))
	})

	It("keeps the entered values, the draft and the alert", func() {
		markup, err := RenderNewBill(NewBillPage{
			Alert: InvalidFileMessage,
			Form:  FormValues{Name: "Vol Paris Londres", Amount: "348"},
			Draft: Draft{BillID: "bill-1", FileURL: "/proofs/bill-1", FileName: "ticket.png"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(markup).To(ContainSubstring(`data-testid="alert"`))
		Expect(markup).To(ContainSubstring("Veuillez choisir un fichier au format jpg, jpeg ou png."))
		Expect(markup).To(ContainSubstring(`value="Vol Paris Londres"`))
		Expect(markup).To(ContainSubstring(`value="348"`))
		Expect(markup).To(ContainSubstring(`name="bill-key" value="bill-1"`))
	})
})

var _ = Describe("RenderProof", func() {
	It("renders the image at the requested width", func() {
		body, err := RenderProof("/proofs/bill-1", 400)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`<img width="400" src="/proofs/bill-1" alt="Bill" />`))
	})
})
