package bill

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	sessionCookieName = "user"
	userTypeEmployee  = "Employee"
)

// Session identifies the connected user
type Session struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// parseSession decodes the JSON document stored in the user cookie
func parseSession(raw string) (Session, error) {
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	if s.Email == "" {
		return Session{}, fmt.Errorf("session has no email")
	}
	if s.Type == "" {
		s.Type = userTypeEmployee
	}
	return s, nil
}

// sessionFromRequest reads the user cookie, falling back to the basic auth user name
func sessionFromRequest(r *http.Request) Session {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if s, err := parseSession(c.Value); err == nil {
			return s
		}
	}
	if user, _, ok := r.BasicAuth(); ok && user != "" {
		return Session{Type: userTypeEmployee, Email: user}
	}
	return Session{Type: userTypeEmployee}
}
