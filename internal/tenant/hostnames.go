// internal/tenant/hostnames.go
//
// Hostname canonicalisation for tenant lookup.
//
// Variants turns the raw Host header into the ordered candidate list
// queried against `custom_domains`:
//
//	"WWW.Shop.Example:443" → ["www.shop.example", "shop.example", "www.shop.example"]
//	                        → deduplicated: ["www.shop.example", "shop.example"]
//
// Pure functions, no I/O.
package tenant

import "strings"

// Normalize lower-cases h and strips any :port suffix and trailing dot.
func Normalize(h string) string {
	h = strings.TrimSpace(stripPort(h))
	h = strings.TrimSuffix(h, ".")
	return strings.ToLower(h)
}

// Apex returns h without a leading "www.".
func Apex(h string) string {
	return strings.TrimPrefix(Normalize(h), "www.")
}

// Variants returns [host, apex, www.apex] without duplicates, in that order.
func Variants(h string) []string {
	host := Normalize(h)
	if host == "" {
		return nil
	}
	apex := strings.TrimPrefix(host, "www.")

	out := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, v := range []string{host, apex, "www." + apex} {
		if v == "" || v == "www." {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// stripPort removes :port from the Host header when present.  IPv6
// literals keep their brackets.
func stripPort(h string) string {
	if strings.HasPrefix(h, "[") {
		if i := strings.Index(h, "]"); i != -1 {
			return h[:i+1]
		}
		return h
	}
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
