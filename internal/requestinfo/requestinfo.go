//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent verdict, IP + geolocation, primary language, and timestamp).
//  These structs are inert.  They contain no pointers to database
//  handles or large buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua                         (uasurfer + crawler tokens)
//  • github.com/oschwald/geoip2-golang   (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/sitegate/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.
// These are best-effort and may be empty if the DB has no match.
type Geo struct {
	IP         net.IP // Left-most client address
	CountryISO string // "US", "CA", "FR", ...
	City       string // "Chicago", "Paris", ...
}

// RequestInfo is what Enrich attaches to the request context.
type RequestInfo struct {
	UA          ua.Info
	Geo         Geo
	PrimaryLang string // First tag from Accept-Language ("en-us", "es", ...)
	Timestamp   time.Time
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a process-wide MaxMind handle.  It is safe for concurrent
// reads, which is all we ever perform.  Nil disables geo lookups.
var geoReader atomic.Pointer[geoip2.Reader]

// InitGeo opens the GeoLite2-City database.  An empty path is a no-op so
// deployments without a MaxMind licence run unchanged.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	if old := geoReader.Swap(r); old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the MaxMind handle.
func CloseGeo() {
	if r := geoReader.Swap(nil); r != nil {
		_ = r.Close()
	}
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// WithInfo stores info on ctx.  Tests use it to skip the middleware.
func WithInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// primaryLang extracts the first language tag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "*" {
		return ""
	}
	return tag
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	r := geoReader.Load()
	if r == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := r.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
