package seo

import (
	"encoding/json"
	"strings"
)

// ParseKeywords turns a stored keyword field into a list.  Both a JSON
// array and a comma-separated string are accepted.  Entries are trimmed,
// blanks dropped, and case-insensitive duplicates removed keeping the first.
// The result is never nil.
func ParseKeywords(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	} else {
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.Trim(strings.TrimSpace(it), `"`)
		if it == "" {
			continue
		}
		k := strings.ToLower(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
