package bill

import (
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session", func() {
	var req *http.Request

	BeforeEach(func() {
		req = httptest.NewRequest(http.MethodGet, "/bills", nil)
	})

	It("reads the user cookie", func() {
		req.AddCookie(&http.Cookie{Name: "user", Value: url.QueryEscape(`{"type":"Employee","email":"a@a"}`)})
		Expect(sessionFromRequest(req)).To(Equal(Session{Type: "Employee", Email: "a@a"}))
	})

	It("defaults the user type", func() {
		req.AddCookie(&http.Cookie{Name: "user", Value: url.QueryEscape(`{"email":"a@a"}`)})
		Expect(sessionFromRequest(req).Type).To(Equal("Employee"))
	})

	It("falls back to the basic auth user", func() {
		req.AddCookie(&http.Cookie{Name: "user", Value: "garbage"})
		req.SetBasicAuth("b@b", "secret")
		Expect(sessionFromRequest(req)).To(Equal(Session{Type: "Employee", Email: "b@b"}))
	})

	It("returns an anonymous employee otherwise", func() {
		Expect(sessionFromRequest(req)).To(Equal(Session{Type: "Employee"}))
	})

	It("rejects sessions without email", func() {
		_, err := parseSession(`{"type":"Admin"}`)
		Expect(err).To(MatchError(ContainSubstring("no email")))
	})
})

var _ = Describe("Proof file names", func() {
	DescribeTable("proofExtension",
		func(name, expected string) {
			Expect(proofExtension(name)).To(Equal(expected))
		},
		Entry("simple", "a.jpg", "jpg"),
		Entry("upper case", "A.PNG", "png"),
		Entry("several dots", "scan.v2.jpeg", "jpeg"),
		Entry("browser path", `C:\fakepath\a.gif`, "gif"),
		Entry("no dot", "README", "readme"),
	)

	DescribeTable("proofContentType",
		func(name, declared, expected string) {
			Expect(proofContentType(name, declared)).To(Equal(expected))
		},
		Entry("declared matches", "a.png", "image/png", "image/png"),
		Entry("declared disagrees", "a.jpg", "image/png", "image/jpeg"),
		Entry("declared svg", "a.png", "image/svg+xml", "image/png"),
		Entry("declared html", "a.jpeg", "text/html", "image/jpeg"),
		Entry("from extension", "a.jpeg", "application/octet-stream", "image/jpeg"),
		Entry("unknown", "a.bin", "", "application/octet-stream"),
	)

	It("sanitizes stored names", func() {
		Expect(sanitizeFilename("Note de frais (mars)!.PNG")).To(Equal("Note de frais mars.png"))
		Expect(sanitizeFilename("!!!.jpg")).To(Equal("proof.jpg"))
	})
})
