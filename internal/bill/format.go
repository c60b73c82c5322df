package bill

import (
	"fmt"
	"strings"
	"time"
)

var frenchMonths = [...]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// parseBillDate accepts the stored YYYY-MM-DD form and full RFC 3339 timestamps
func parseBillDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", raw, err)
	}
	return t, nil
}

// FormatDate turns a stored date into its display form, e.g. "2004-04-04" becomes "4 Avr. 04"
func FormatDate(raw string) (string, error) {
	t, err := parseBillDate(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100), nil
}

// FormatStatus maps a status code to its label. Unknown codes are returned as is.
func FormatStatus(code string) string {
	switch code {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refusé"
	default:
		return code
	}
}
