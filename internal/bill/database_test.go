package bill

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// describeDB runs the same persistence contract against each DB implementation
func describeDB(name string, open func(path string) (DB, error)) bool {
	return Describe(name, func() {
		var db DB

		BeforeEach(func() {
			var err error
			db, err = open(filepath.Join(GinkgoT().TempDir(), "test.db"))
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			if db != nil {
				db.Close()
			}
		})

		newBill := func(id, date string) *Bill {
			created := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
			return &Bill{
				ID:          id,
				Email:       testEmail,
				Type:        "Transports",
				Name:        "Vol Paris Londres",
				Date:        date,
				Amount:      348,
				VAT:         "70",
				Pct:         20,
				Commentary:  "séminaire",
				FileURL:     ProofURL(id),
				FileName:    "ticket.jpg",
				ContentType: "image/jpeg",
				ProofPath:   id + "_ticket.jpg",
				Status:      StatusPending,
				CreatedAt:   created,
				UpdatedAt:   created,
			}
		}

		Describe("SaveBill", func() {
			It("stores every field", func() {
				Expect(db.SaveBill(newBill("b1", "2022-04-04"))).To(Succeed())

				saved, err := db.GetBill("b1")
				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Name).To(Equal("Vol Paris Londres"))
				Expect(saved.Amount).To(Equal(348))
				Expect(saved.VAT).To(Equal("70"))
				Expect(saved.Pct).To(Equal(20))
				Expect(saved.Commentary).To(Equal("séminaire"))
				Expect(saved.ProofPath).To(Equal("b1_ticket.jpg"))
				Expect(saved.Status).To(Equal(StatusPending))
				Expect(saved.CreatedAt).To(BeTemporally("==", time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)))
			})

			It("replaces a bill with the same ID", func() {
				Expect(db.SaveBill(newBill("b1", "2022-04-04"))).To(Succeed())
				updated := newBill("b1", "2022-04-04")
				updated.Status = StatusAccepted
				updated.CommentAdmin = "ok"
				Expect(db.SaveBill(updated)).To(Succeed())

				saved, err := db.GetBill("b1")
				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Status).To(Equal(StatusAccepted))
				Expect(saved.CommentAdmin).To(Equal("ok"))

				all, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(HaveLen(1))
			})
		})

		Describe("GetBill", func() {
			It("returns ErrBillNotFound for unknown IDs", func() {
				_, err := db.GetBill("missing")
				Expect(err).To(MatchError(ErrBillNotFound))
			})
		})

		Describe("ListBills", func() {
			It("returns an empty list on a new database", func() {
				all, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(all).To(BeEmpty())
			})

			It("returns drafts and submitted bills", func() {
				draft := newBill("draft", "")
				draft.Status = ""
				Expect(db.SaveBill(draft)).To(Succeed())
				Expect(db.SaveBill(newBill("b1", "2022-04-04"))).To(Succeed())

				all, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(ids(all)).To(ConsistOf("draft", "b1"))
			})
		})

		Describe("DeleteBill", func() {
			It("removes the bill", func() {
				Expect(db.SaveBill(newBill("b1", "2022-04-04"))).To(Succeed())
				Expect(db.DeleteBill("b1")).To(Succeed())

				_, err := db.GetBill("b1")
				Expect(err).To(MatchError(ErrBillNotFound))
			})

			It("ignores unknown IDs", func() {
				Expect(db.DeleteBill("missing")).To(Succeed())
			})
		})
	})
}

var _ = describeDB("BoltDB", func(path string) (DB, error) { return NewBoltDB(path) })

var _ = describeDB("SQLiteDB", func(path string) (DB, error) { return NewSQLiteDB(path) })
