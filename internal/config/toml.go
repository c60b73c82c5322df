// Package config reads flag values from a TOML file for ff.
package config

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ParseTOML is an ff config file parser. Top-level keys name flags; keys of a
// table are joined to the table name with a dash, so
//
//	[db]
//	driver = "sqlite"
//
// sets --db-driver. Arrays set a repeatable flag once per element.
func ParseTOML(r io.Reader, set func(name, value string) error) error {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decoding toml: %w", err)
	}
	return walk("", doc, set)
}

func walk(prefix string, table map[string]any, set func(name, value string) error) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "-" + k
		}

		switch v := table[k].(type) {
		case map[string]any:
			if err := walk(name, v, set); err != nil {
				return err
			}
		case []any:
			for _, elem := range v {
				s, err := scalar(elem)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if err := set(name, s); err != nil {
					return fmt.Errorf("setting %s: %w", name, err)
				}
			}
		default:
			s, err := scalar(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := set(name, s); err != nil {
				return fmt.Errorf("setting %s: %w", name, err)
			}
		}
	}
	return nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Redact hides secrets in a flag value before it is logged
func Redact(name, value string) string {
	if value == "" {
		return value
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "key") || strings.Contains(lower, "pass") {
		return "********"
	}
	return value
}
