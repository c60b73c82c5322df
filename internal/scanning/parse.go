package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when the model does not answer in ISO form
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// parseExpenseJSON parses the JSON answer of a model
func parseExpenseJSON(text string, now time.Time) (*ExpenseData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var data ExpenseData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data.Date = normalizeDate(strings.TrimSpace(data.Date), now)

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		data.Name = "Dépense"
	}
	data.Type = strings.TrimSpace(data.Type)
	if data.Amount < 0 {
		data.Amount = 0
	}
	if data.VAT < 0 {
		data.VAT = 0
	}

	return &data, nil
}

// normalizeDate rewrites a date to YYYY-MM-DD, using today when it cannot be read
func normalizeDate(raw string, now time.Time) string {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}
