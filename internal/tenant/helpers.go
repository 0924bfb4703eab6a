// internal/tenant/helpers.go
//
// Host helpers shared by the resolver and the cache.
//
// Notes
// -----
//   - `resolveLookupHost` maps the literal host "localhost" to an alias
//     taken from `SITEGATE_LOCALHOST_ALIAS` or `database.localhost_alias`
//     so a dev instance can masquerade as any real tenant.
//   - No logging here; the caller decides what to log.
package tenant

import (
	"os"
	"strings"
)

// resolveLookupHost returns the host used for lookups.  The environment
// variable wins over the configured alias.
func resolveLookupHost(h, alias string) string {
	if h != "localhost" && h != "127.0.0.1" {
		return h
	}
	if env := os.Getenv("SITEGATE_LOCALHOST_ALIAS"); env != "" {
		return Normalize(env)
	}
	if alias != "" {
		return Normalize(alias)
	}
	return h
}

// platformSubdomain reports the single-label subdomain of host under one
// of systemDomains.  "www" and nested labels are not tenant subdomains.
func platformSubdomain(host string, systemDomains []string) (sub, domain string, ok bool) {
	for _, sd := range systemDomains {
		sd = Normalize(sd)
		if sd == "" || !strings.HasSuffix(host, "."+sd) {
			continue
		}
		sub = strings.TrimSuffix(host, "."+sd)
		if sub == "" || sub == "www" || strings.Contains(sub, ".") {
			return "", sd, false
		}
		return sub, sd, true
	}
	return "", "", false
}

// IsSystemHost reports whether host is a system domain or any name under
// one.  The crawler gate uses it for hosts that resolved to no tenant.
func IsSystemHost(host string, systemDomains []string) bool {
	host = Normalize(host)
	for _, sd := range systemDomains {
		sd = Normalize(sd)
		if sd != "" && (host == sd || strings.HasSuffix(host, "."+sd)) {
			return true
		}
	}
	return false
}
