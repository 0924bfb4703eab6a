// internal/prerender/gate.go
//
// Crawler Gate.
//
// Context
// -------
// The synthesized document exists for clients that cannot run the
// application: search indexers and link-preview fetchers.  The gate
// classifies the request and decides what it gets.
//
// Decision table
// --------------
//
//	agent   host                         result
//	bot     any                          serve (404 if confirmed unknown + not_found)
//	human   system domain                pass through (redirect | proxy)
//	human   custom domain, policy shell  serve
//	human   custom domain, policy app    pass through
//	human   unknown custom host          same as bot
//
// A failed tenant lookup is not an unknown host: it is always served.
//
// Diagnostics
// -----------
// The override header is only honoured when `render.diagnostic_header`
// names one; with `render.diagnostic_token` set the header value must
// match it.  The query flag additionally requires
// `render.diagnostic_query`.  Neither is reachable from default config.
package prerender

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/yanizio/sitegate/internal/requestinfo"
	"github.com/yanizio/sitegate/internal/tenant"
	"github.com/yanizio/sitegate/internal/ua"
)

// Action is what the handler does with a request.
type Action int

const (
	ActionServe Action = iota
	ActionPassThrough
	ActionNotFound
)

func (a Action) String() string {
	switch a {
	case ActionServe:
		return "serve"
	case ActionPassThrough:
		return "pass_through"
	case ActionNotFound:
		return "not_found"
	}
	return "unknown"
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Action Action
	Bot    bool
	Forced bool // diagnostic override applied
}

// Agent is the metrics label for the request's agent class.
func (d Decision) Agent() string {
	if d.Bot {
		return "bot"
	}
	return "human"
}

// IsAutomatedAgent classifies r.  The requestinfo verdict is preferred;
// without it the raw User-Agent is matched against the crawler tokens.
func IsAutomatedAgent(r *http.Request) bool {
	if info := requestinfo.FromContext(r.Context()); info != nil {
		return info.UA.IsBot
	}
	return ua.IsCrawler(r.UserAgent())
}

// Decide applies the decision table.  t is nil when the host is unknown
// or the lookup failed; tenantErr tells the two apart.  Only a confirmed
// unknown host may be answered with 404.
func (p *Pipeline) Decide(r *http.Request, t *tenant.Tenant, tenantErr error) Decision {
	d := Decision{Bot: IsAutomatedAgent(r)}
	if p.forced(r) {
		d.Bot, d.Forced = true, true
	}

	systemHost := t != nil && t.System
	if t == nil {
		systemHost = tenant.IsSystemHost(tenant.Normalize(r.Host), p.opts.SystemDomains)
	}

	switch {
	case !d.Bot && systemHost && p.opts.AppOrigin != "":
		d.Action = ActionPassThrough
	case !d.Bot && t != nil && p.opts.CustomDomainVisitors == VisitorsApp && p.opts.AppOrigin != "":
		d.Action = ActionPassThrough
	case t == nil && errors.Is(tenantErr, tenant.ErrNotFound) && p.opts.UnknownDomain == UnknownNotFound:
		d.Action = ActionNotFound
	default:
		d.Action = ActionServe
	}
	return d
}

// forced reports whether a diagnostic override is present and valid.
func (p *Pipeline) forced(r *http.Request) bool {
	if p.opts.DiagnosticHeader != "" {
		if v := r.Header.Get(p.opts.DiagnosticHeader); v != "" && p.tokenOK(v) {
			return true
		}
	}
	if p.opts.DiagnosticQuery {
		if v := r.URL.Query().Get(DiagnosticQueryParam); v != "" && p.tokenOK(v) {
			return true
		}
	}
	return false
}

func (p *Pipeline) tokenOK(v string) bool {
	if p.opts.DiagnosticToken == "" {
		return v == "1" || v == "true"
	}
	return subtle.ConstantTimeCompare([]byte(v), []byte(p.opts.DiagnosticToken)) == 1
}
