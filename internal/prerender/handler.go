// internal/prerender/handler.go
//
// HTTP surface.
//
// Routes
// ------
//
//	GET  /healthz      chi Heartbeat
//	GET  /metrics      Prometheus
//	GET  /robots.txt   per-tenant robots policy
//	GET  /sitemap.xml  per-tenant sitemap
//	GET|HEAD /*        crawler gate → document, pass-through, or 404
//
// Document requests never answer 5xx: every failure below the gate has
// already been folded into a fallback record by the pipeline.
package prerender

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/head"
	"github.com/yanizio/sitegate/internal/metrics"
	"github.com/yanizio/sitegate/internal/middleware"
	"github.com/yanizio/sitegate/internal/requestinfo"
	"github.com/yanizio/sitegate/internal/seo"
	"github.com/yanizio/sitegate/internal/tenant"
)

// Diagnostic response headers, set when Options.DebugHeaders is on.
const (
	HeaderSource = "X-Sitegate-Source"
	HeaderSite   = "X-Sitegate-Site"
	HeaderPath   = "X-Sitegate-Path"
)

// Handler serves document requests.
type Handler struct {
	p     *Pipeline
	proxy *httputil.ReverseProxy // nil unless PassThrough is proxy
}

// NewHandler builds the full router around p.  forceHTTPS enables the
// 308 redirect for known tenant hosts.
func NewHandler(p *Pipeline, forceHTTPS bool) http.Handler {
	h := &Handler{p: p}
	if p.opts.PassThrough == PassProxy {
		h.proxy = h.newProxy()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(withLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/healthz"))
	r.Use(requestinfo.Enrich)
	r.Use(middleware.Security)
	if forceHTTPS {
		r.Use(func(next http.Handler) http.Handler { return middleware.ForceHTTPS(p.tenants, next) })
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/robots.txt", h.robots)
	r.Get("/sitemap.xml", h.sitemap)
	r.Method(http.MethodGet, "/*", h)
	r.Method(http.MethodHead, "/*", h)
	return r
}

// ServeHTTP runs the gate and dispatches on its decision.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info := tenant.NewURLInfo(r)
	t, err := h.p.Tenant(r.Context(), info.Host)
	d := h.p.Decide(r, t, err)

	// Static files are never synthesized.
	if info.IsAsset() {
		if h.p.opts.AppOrigin != "" {
			h.passThrough(w, r, t, d)
			return
		}
		metrics.PrerenderRequestsTotal.WithLabelValues(d.Agent(), "not_found").Inc()
		http.NotFound(w, r)
		return
	}

	switch d.Action {
	case ActionNotFound:
		metrics.PrerenderRequestsTotal.WithLabelValues(d.Agent(), "not_found").Inc()
		http.NotFound(w, r)
	case ActionPassThrough:
		h.passThrough(w, r, t, d)
	default:
		outcome := "serve"
		if !d.Bot {
			outcome = "shell"
		}
		metrics.PrerenderRequestsTotal.WithLabelValues(d.Agent(), outcome).Inc()
		h.serveDocument(w, r, t, err, info)
	}
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, t *tenant.Tenant, tenantErr error, info tenant.URLInfo) {
	res := h.p.Build(r.Context(), t, tenantErr, info.Host, info.Path, localeHint(r))
	doc := head.Synthesize(res.Record, res.Body)

	hdr := w.Header()
	head.WriteHeaders(hdr, h.p.opts.CacheControl)
	hdr.Add("Vary", "Accept-Language")
	hdr.Set("Content-Length", strconv.Itoa(len(doc)))
	if h.p.opts.DebugHeaders {
		hdr.Set(HeaderSource, res.Record.Source)
		hdr.Set(HeaderSite, res.Record.SiteName)
		hdr.Set(HeaderPath, res.Path)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(doc)
	}
}

/*──────────────────────────── pass-through ────────────────────────────*/

func (h *Handler) passThrough(w http.ResponseWriter, r *http.Request, t *tenant.Tenant, d Decision) {
	if h.proxy != nil {
		metrics.PrerenderRequestsTotal.WithLabelValues(d.Agent(), PassProxy).Inc()
		middleware.ClearSecurity(w.Header())
		if t != nil {
			r = r.WithContext(tenant.WithTenant(r.Context(), t))
		}
		h.proxy.ServeHTTP(w, r)
		return
	}
	metrics.PrerenderRequestsTotal.WithLabelValues(d.Agent(), PassRedirect).Inc()
	http.Redirect(w, r, strings.TrimRight(h.p.opts.AppOrigin, "/")+r.URL.RequestURI(), http.StatusFound)
}

// newProxy relays to the app origin, keeping the visitor's Host so the
// application can resolve the tenant itself.  An unreachable origin
// degrades to the synthesized document.
func (h *Handler) newProxy() *httputil.ReverseProxy {
	target, err := url.Parse(h.p.opts.AppOrigin)
	if err != nil || target.Host == "" {
		zap.L().Warn("invalid app origin, falling back to redirects", zap.String("app_origin", h.p.opts.AppOrigin))
		return nil
	}
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			loggerFrom(r.Context()).Warn("app origin unreachable, serving document", zap.Error(err))
			info := tenant.NewURLInfo(r)
			t := tenant.FromContext(r.Context())
			var terr error
			if t == nil {
				t, terr = h.p.Tenant(r.Context(), info.Host)
			}
			h.serveDocument(w, r, t, terr, info)
		},
	}
}

// localeHint derives og:locale input from the visitor: Accept-Language,
// with the geo country filling in a missing region.
func localeHint(r *http.Request) string {
	info := requestinfo.FromContext(r.Context())
	if info == nil || info.PrimaryLang == "" {
		return ""
	}
	lang := info.PrimaryLang
	if !strings.ContainsAny(lang, "-_") && info.Geo.CountryISO != "" {
		lang += "_" + info.Geo.CountryISO
	}
	return seo.OGLocale(lang)
}
