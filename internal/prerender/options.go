package prerender

import (
	"time"

	"github.com/yanizio/sitegate/internal/head"
	"github.com/yanizio/sitegate/internal/tenant"
)

// Pass-through modes for human visitors on system domains.
const (
	PassRedirect = "redirect"
	PassProxy    = "proxy"
)

// Policies for human visitors on verified custom domains.
const (
	VisitorsShell = "shell" // everyone gets the synthesized document
	VisitorsApp   = "app"   // humans are passed through like system domains
)

// Policies for hosts that resolve to no tenant.
const (
	UnknownFallback = "fallback" // domain-name fallback document
	UnknownNotFound = "not_found"
)

// DiagnosticQueryParam forces crawler treatment when Options.DiagnosticQuery
// is on.
const DiagnosticQueryParam = "_sitegate_bot"

// Options carries the `render.*` configuration.
type Options struct {
	SystemDomains        []string
	AppOrigin            string // live application origin, e.g. https://app.example
	PassThrough          string
	CustomDomainVisitors string
	UnknownDomain        string
	LookupTimeout        time.Duration
	CacheControl         string

	// Diagnostics.  DiagnosticHeader empty disables the header override.
	DiagnosticHeader string
	DiagnosticToken  string
	DiagnosticQuery  bool
	DebugHeaders     bool

	FullBody           bool
	DefaultDescription string
	DefaultLocale      string
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.PassThrough == "" {
		o.PassThrough = PassRedirect
	}
	if o.CustomDomainVisitors == "" {
		o.CustomDomainVisitors = VisitorsShell
	}
	if o.UnknownDomain == "" {
		o.UnknownDomain = UnknownFallback
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = tenant.DefaultLookupTimeout
	}
	if o.CacheControl == "" {
		o.CacheControl = head.DefaultCacheControl
	}
	return o
}
