package bill

import "net/http"

// Routes the controllers navigate between
const (
	RouteBills   = "/bills"
	RouteNewBill = "/bills/new"
)

// Navigator moves the user to another page
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(path string)

// Navigate calls f(path)
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// redirectNavigator answers the current request with a redirect.
// Only the first navigation of a request is written.
type redirectNavigator struct {
	w    http.ResponseWriter
	r    *http.Request
	path string
}

func newRedirectNavigator(w http.ResponseWriter, r *http.Request) *redirectNavigator {
	return &redirectNavigator{w: w, r: r}
}

func (n *redirectNavigator) Navigate(path string) {
	if n.path != "" {
		return
	}
	n.path = path
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

// navigated reports whether a redirect has been written
func (n *redirectNavigator) navigated() bool {
	return n.path != ""
}
