// internal/prerender/pipeline.go
//
// Resolution pipeline: host + path → seo.Record (+ optional body).
//
// Workflow
// --------
//  1. Tenant       tenant.Cache (verified domain, then platform subdomain).
//  2. Connections  per domain, or derived from the store for System tenants.
//  3. Route        routing.Router rule chain.
//  4. Load         entity tiers and store fetched concurrently (loader.go).
//  5. Metadata     seo.Resolve cascade.
//  6. Body         document renderer output when full-body mode is on.
//
// Every failure is absorbed: the step logs at WARN, bumps
// backend_lookup_errors_total, and the cascade continues with less data.
// Resolve never returns an error.
package prerender

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/document"
	"github.com/yanizio/sitegate/internal/metrics"
	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/seo"
	"github.com/yanizio/sitegate/internal/site"
	"github.com/yanizio/sitegate/internal/tenant"
)

// Outcome tags for Result.
const (
	OutcomeResolved       = "resolved"
	OutcomeNoContent      = "no_content"
	OutcomeTenantNotFound = "tenant_not_found"
	OutcomeUnavailable    = "tenant_unavailable"
)

// TenantSource resolves hosts; tenant.Cache satisfies it.
type TenantSource interface {
	Resolve(ctx context.Context, host string) (*tenant.Tenant, error)
}

// Pipeline wires the resolution stages together.  It is safe for
// concurrent use.
type Pipeline struct {
	tenants TenantSource
	repo    site.Repository
	router  *routing.Router
	docs    *document.Cache // nil disables full-body rendering
	opts    Options
}

// Result is one resolved request.
type Result struct {
	Host    string
	Path    string
	Tenant  *tenant.Tenant // nil when the host is unknown
	Target  routing.Target // zero when no rule matched
	Record  seo.Record
	Body    string // rendered page body; "" selects the fallback body
	Outcome string
}

// NewPipeline returns a Pipeline.  docs may be nil.
func NewPipeline(tenants TenantSource, repo site.Repository, router *routing.Router, docs *document.Cache, opts Options) *Pipeline {
	return &Pipeline{
		tenants: tenants,
		repo:    repo,
		router:  router,
		docs:    docs,
		opts:    opts.withDefaults(),
	}
}

// Options returns the effective options.
func (p *Pipeline) Options() Options { return p.opts }

// Resolve runs every stage for host and path.  lang is the visitor's
// primary language and only feeds og:locale when the store has none.
func (p *Pipeline) Resolve(ctx context.Context, host, path, lang string) Result {
	t, err := p.Tenant(ctx, host)
	return p.Build(ctx, t, err, host, path, lang)
}

// Tenant resolves host through the tenant source.  Errors are returned
// so the gate can tell an unknown host from an outage; Build absorbs them.
func (p *Pipeline) Tenant(ctx context.Context, host string) (*tenant.Tenant, error) {
	return p.tenants.Resolve(ctx, tenant.Normalize(host))
}

// Build runs stages 2 to 6 for an already-resolved tenant.
func (p *Pipeline) Build(ctx context.Context, t *tenant.Tenant, tenantErr error, host, path, lang string) Result {
	start := time.Now()
	defer func() { metrics.PrerenderResolveSeconds.Observe(time.Since(start).Seconds()) }()

	log := loggerFrom(ctx)
	res := Result{Host: tenant.Normalize(host), Path: routing.BuildPath("", routing.Clean(path)), Tenant: t}
	in := seo.Input{
		Domain:             res.Host,
		Path:               res.Path,
		DefaultDescription: p.opts.DefaultDescription,
		Locale:             firstNonEmpty(lang, p.opts.DefaultLocale),
	}

	if t == nil {
		res.Outcome = OutcomeTenantNotFound
		if tenantErr != nil && !errors.Is(tenantErr, tenant.ErrNotFound) {
			res.Outcome = OutcomeUnavailable
			metrics.BackendLookupErrorsTotal.WithLabelValues("tenant").Inc()
			log.Warn("tenant lookup failed, using domain fallback",
				zap.String("path", res.Path), zap.String("tier", "tenant"), zap.Error(tenantErr))
		}
		res.Record = seo.Resolve(in)
		p.record(log, res)
		return res
	}

	conns := p.connections(ctx, log, t)

	target, err := p.router.Select(ctx, conns, res.Path)
	switch {
	case err == nil:
		res.Target = target
		res.Outcome = OutcomeResolved
	case errors.Is(err, routing.ErrNoContent):
		res.Outcome = OutcomeNoContent
	default:
		res.Outcome = OutcomeNoContent
		log.Warn("routing failed", zap.String("path", res.Path), zap.String("tier", "route"), zap.Error(err))
	}

	loaded := p.load(ctx, log, t.StoreID, res.Target, res.Outcome == OutcomeResolved)
	in.Entity = loaded.entity
	in.Store = loaded.store
	res.Record = seo.Resolve(in)

	if p.opts.FullBody && p.docs != nil {
		res.Body = p.renderBody(log, loaded.content)
	}
	p.record(log, res)
	return res
}

// connections lists the tenant's connections.  A failure yields none.
func (p *Pipeline) connections(ctx context.Context, log *zap.Logger, t *tenant.Tenant) []site.Connection {
	cctx, cancel := context.WithTimeout(ctx, p.opts.LookupTimeout)
	defer cancel()

	var (
		conns []site.Connection
		err   error
		op    = "connections"
	)
	if t.System {
		op = "store connections"
		conns, err = p.repo.StoreConnections(cctx, t.StoreID)
	} else {
		conns, err = p.repo.Connections(cctx, t.DomainID)
	}
	if err != nil {
		metrics.BackendLookupErrorsTotal.WithLabelValues(op).Inc()
		log.Warn("connection lookup failed", zap.String("tier", op), zap.Error(err))
		return nil
	}
	return conns
}

func (p *Pipeline) renderBody(log *zap.Logger, content string) string {
	if content == "" {
		return ""
	}
	body, err := p.docs.RenderJSON([]byte(content))
	if err != nil {
		if !errors.Is(err, document.ErrNotDocument) {
			log.Debug("page content is not a renderable document", zap.Error(err))
		}
		return ""
	}
	return body
}

func (p *Pipeline) record(log *zap.Logger, res Result) {
	metrics.PrerenderSourceTotal.WithLabelValues(res.Record.Source).Inc()
	log.Debug("resolved",
		zap.String("path", res.Path),
		zap.String("outcome", res.Outcome),
		zap.String("rule", res.Target.Rule),
		zap.String("source", res.Record.Source))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
