// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits high in the chain, right after chi's RequestID and
RealIP, before tenant lookup and the prerender handler.  For every
request it:

  1. Parses the User-Agent header (uasurfer + crawler tokens) and the
     Accept-Language list.
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Performs a GeoLite2 lookup when a database is configured.
  4. Stores a `*RequestInfo` value in `request.Context` under an
     unexported key, so the crawler gate and the synthesiser read the bot
     verdict and language without reparsing.

Instrumentation
---------------
At DEBUG level each invocation logs client IP, country ISO, browser
family, device class, bot flag, and request path.

Notes
-----
  • All look-ups are read-only and pool-based, so the middleware is safe
    under heavy concurrency.
*/
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich wraps an http.Handler, attaches *RequestInfo, and forwards.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		info := &RequestInfo{
			UA:          ua.Parse(r.UserAgent()),
			Geo:         lookupGeo(ip),
			PrimaryLang: primaryLang(r.Header.Get("Accept-Language")),
			Timestamp:   time.Now().UTC(),
		}

		zap.S().Debugw("request info",
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"browser", info.UA.Browser,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP extracts the left-most public address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
