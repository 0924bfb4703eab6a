package document

import (
	"sort"
	"strconv"
	"strings"
)

// CSS serializes s as "key: value; key: value;" with camelCase keys
// converted to kebab-case.  Keys are sorted.  Nil, empty, and non-scalar
// values are skipped, as are values that could terminate the declaration.
func (s Styles) CSS() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		prop := kebab(k)
		val, ok := cssValue(s[k])
		if prop == "" || !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(val)
		b.WriteByte(';')
	}
	return b.String()
}

// joinCSS concatenates declaration lists, skipping empties.
func joinCSS(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// kebab turns backgroundColor into background-color.  Keys holding
// anything other than letters, digits, and hyphens yield "".
func kebab(k string) string {
	var b strings.Builder
	for i, r := range k {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			return ""
		}
	}
	return b.String()
}

func cssValue(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	if s == "" || strings.ContainsAny(s, ";{}<>") {
		return "", false
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "expression(") || strings.Contains(low, "javascript:") {
		return "", false
	}
	return s, true
}

// percent renders a column span out of 12 as a CSS percentage.  Spans
// outside 1..12 are treated as full width.
func percent(span float64) string {
	if span <= 0 || span > 12 {
		span = 12
	}
	p := strconv.FormatFloat(span/12*100, 'f', 4, 64)
	p = strings.TrimRight(strings.TrimRight(p, "0"), ".")
	return p + "%"
}
