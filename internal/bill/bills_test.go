package bill

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// recordingNavigator remembers every navigation
type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

type updateCall struct {
	selector string
	bill     Bill
}

// mockStore is a mock implementation of Store
type mockStore struct {
	bills     []*Bill
	listErr   error
	listEmail string

	created   *CreatedProof
	createErr error
	uploads   []Upload

	updateErr error
	updates   []updateCall
}

func (m *mockStore) List(ctx context.Context, email string) ([]*Bill, error) {
	m.listEmail = email
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.bills, nil
}

func (m *mockStore) Create(ctx context.Context, upload Upload) (*CreatedProof, error) {
	m.uploads = append(m.uploads, upload)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *mockStore) Update(ctx context.Context, selector string, bill Bill) (*Bill, error) {
	m.updates = append(m.updates, updateCall{selector: selector, bill: bill})
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	bill.ID = selector
	return &bill, nil
}

var employee = Session{Type: "Employee", Email: "a@a"}

var _ = Describe("Bills", func() {
	var (
		store *mockStore
		nav   *recordingNavigator
		bills *Bills
		ctx   context.Context
	)

	BeforeEach(func() {
		store = &mockStore{}
		nav = &recordingNavigator{}
		bills = NewBills(store, nav, employee)
		ctx = context.Background()
	})

	Describe("OnClickNewBill", func() {
		It("opens the new bill form", func() {
			bills.OnClickNewBill()
			Expect(nav.paths).To(Equal([]string{RouteNewBill}))
		})
	})

	Describe("OnClickIconEye", func() {
		It("shows the proof at half the modal width", func() {
			body, ok := bills.OnClickIconEye("/proofs/bill-1", 800)
			Expect(ok).To(BeTrue())
			Expect(string(body)).To(ContainSubstring(`width="400"`))
			Expect(string(body)).To(ContainSubstring(`src="/proofs/bill-1"`))
		})

		It("does nothing without a proof URL", func() {
			body, ok := bills.OnClickIconEye("", 800)
			Expect(ok).To(BeFalse())
			Expect(body).To(BeEmpty())
		})
	})

	Describe("FetchBills", func() {
		BeforeEach(func() {
			store.bills = []*Bill{
				{ID: "1", Date: "2001-01-01", Status: StatusRefused},
				{ID: "2", Date: "2004-04-04", Status: StatusPending},
				{ID: "3", Date: "not a date", Status: "archived"},
				{ID: "4", Date: "2003-03-03", Status: StatusAccepted},
			}
		})

		It("lists the session user's bills, most recent first", func() {
			fetched, err := bills.FetchBills(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.listEmail).To(Equal("a@a"))
			Expect(ids(fetched)).To(Equal([]string{"2", "4", "1", "3"}))
		})

		It("fills the display values", func() {
			fetched, err := bills.FetchBills(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched[0].DisplayDate).To(Equal("4 Avr. 04"))
			Expect(fetched[0].DisplayStatus).To(Equal("En attente"))
			Expect(fetched[0].Date).To(Equal("2004-04-04"))
		})

		It("keeps the raw date when it cannot be formatted", func() {
			fetched, err := bills.FetchBills(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched[3].DisplayDate).To(Equal("not a date"))
			Expect(fetched[3].DisplayStatus).To(Equal("archived"))
		})

		It("leaves the store's documents untouched", func() {
			_, err := bills.FetchBills(ctx)
			Expect(err).NotTo(HaveOccurred())
			for _, b := range store.bills {
				Expect(b.DisplayDate).To(BeEmpty())
			}
		})

		When("the store fails", func() {
			BeforeEach(func() {
				store.listErr = errors.New("Erreur 404")
			})

			It("returns the store's error as is", func() {
				_, err := bills.FetchBills(ctx)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(Equal("Erreur 404"))
			})
		})

		When("there is no store", func() {
			BeforeEach(func() {
				bills = NewBills(nil, nav, employee)
			})

			It("returns nothing", func() {
				fetched, err := bills.FetchBills(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(fetched).To(BeNil())
			})
		})
	})
})
