package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Formatting", func() {
	DescribeTable("FormatDate",
		func(raw, expected string) {
			formatted, err := FormatDate(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(formatted).To(Equal(expected))
		},
		Entry("april", "2004-04-04", "4 Avr. 04"),
		Entry("january", "2001-01-01", "1 Jan. 01"),
		Entry("june", "2022-06-30", "30 Juin. 22"),
		Entry("july", "2022-07-14", "14 Juil. 22"),
		Entry("december", "1999-12-25", "25 Déc. 99"),
		Entry("timestamp", "2023-02-10T08:30:00Z", "10 Fév. 23"),
	)

	It("fails on dates it cannot parse", func() {
		_, err := FormatDate("yesterday")
		Expect(err).To(MatchError(ContainSubstring("parsing date")))
	})

	DescribeTable("FormatStatus",
		func(code, expected string) {
			Expect(FormatStatus(code)).To(Equal(expected))
		},
		Entry("pending", "pending", "En attente"),
		Entry("accepted", "accepted", "Accepté"),
		Entry("refused", "refused", "Refusé"),
		Entry("unknown", "archived", "archived"),
		Entry("empty", "", ""),
	)
})

var _ = Describe("SortByDateDesc", func() {
	It("orders bills most recent first", func() {
		bills := []*Bill{
			{ID: "a", Date: "2002-02-02"},
			{ID: "b", Date: "2004-04-04"},
			{ID: "c", Date: "2001-01-01"},
			{ID: "d", Date: "2003-03-03"},
		}
		SortByDateDesc(bills)
		Expect(ids(bills)).To(Equal([]string{"b", "d", "a", "c"}))
	})

	It("puts undated bills last and keeps their order", func() {
		bills := []*Bill{
			{ID: "x", Date: "not a date"},
			{ID: "a", Date: "2002-02-02"},
			{ID: "y", Date: ""},
			{ID: "b", Date: "2004-04-04"},
		}
		SortByDateDesc(bills)
		Expect(ids(bills)).To(Equal([]string{"b", "a", "x", "y"}))
	})

	It("handles an empty list", func() {
		SortByDateDesc(nil)
	})
})

func ids(bills []*Bill) []string {
	out := make([]string, 0, len(bills))
	for _, b := range bills {
		out = append(out, b.ID)
	}
	return out
}
