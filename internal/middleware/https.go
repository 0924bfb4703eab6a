// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"context"
	"net/http"

	"github.com/yanizio/sitegate/internal/tenant"
)

// TenantLookup is the slice of tenant.Cache that ForceHTTPS needs.
type TenantLookup interface {
	Resolve(ctx context.Context, host string) (*tenant.Tenant, error)
}

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// "localhost", and the lookup confirms a tenant owns the host, the wrapper
// issues a 308 Permanent Redirect to the HTTPS version of the same URL.
// Otherwise it calls the next handler unchanged.  A proxy that terminates
// TLS must set X-Forwarded-Proto.
func ForceHTTPS(lookup TenantLookup, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or dev host → continue.
		host := tenant.Normalize(r.Host)
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || host == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect hosts that resolve to a tenant.
		if _, err := lookup.Resolve(r.Context(), host); err == nil {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (fallback document or 404 later).
		h.ServeHTTP(w, r)
	})
}
