// internal/routing/router.go
//
// Content Router: one request path + a tenant's connections → one target.
//
// Context
// -------
// A tenant's domain carries several connections (one website, any number
// of funnels, an optional course area).  Select walks the rule chain below
// in order and stops at the first rule that yields a connection:
//
//	exact_path        non-root path equal to a connection's path
//	root              "" → homepage flag, website, course area, funnel
//	course_prefix     first segment in Rules.CoursePrefixes → course area
//	website_system    last segment in Rules.WebsiteSystem → website
//	general_system    last segment in Rules.GeneralSystem → funnel, else website
//	funnel_step       last segment is a published step slug of a funnel
//	website_fallback  → website
//
// A rule whose target type is not connected yields nothing and the chain
// continues.  When no rule yields, Select returns ErrNoContent.
//
// Notes
// -----
//   - Connections are consulted in the order given (insertion / id order).
//     funnel_step never reorders: the first funnel in that order with a
//     match wins, whether the check is batched or sequential.
//   - Every existence check carries the lookup timeout.  A failed or timed
//     out check counts as a miss.
package routing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/sitegate/internal/metrics"
	"github.com/yanizio/sitegate/internal/site"
)

// ErrNoContent is returned when no connection satisfies any rule.
var ErrNoContent = errors.New("routing: no content")

// DefaultTimeout bounds each existence check.
const DefaultTimeout = 250 * time.Millisecond

// Target is the selected content entity.
type Target struct {
	Type site.ContentType
	ID   uint64
	Rule string // name of the rule that selected it
	Slug string // page / step slug candidate; "" means the entity's default
}

// Router selects content for a path.  It is safe for concurrent use.
type Router struct {
	repo    site.Repository
	batch   site.StepBatcher // nil when the backend cannot batch
	timeout time.Duration

	coursePrefixes set
	websiteSystem  set
	generalSystem  set
}

// New returns a Router over repo.  Empty rule lists take their defaults.
func New(repo site.Repository, rules Rules, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rules = rules.WithDefaults()
	r := &Router{
		repo:           repo,
		timeout:        timeout,
		coursePrefixes: newSet(rules.CoursePrefixes),
		websiteSystem:  newSet(rules.WebsiteSystem),
		generalSystem:  newSet(rules.GeneralSystem),
	}
	if b, ok := repo.(site.StepBatcher); ok {
		r.batch = b
	}
	return r
}

/*──────────────────────────── rule chain ───────────────────────────────────*/

type request struct {
	route string // cleaned path, "" for root
	first string
	last  string
	conns []site.Connection
}

type rule struct {
	name string
	pick func(*Router, context.Context, request) (site.Connection, string, bool)
}

// chain is evaluated in order; first yield wins.
var chain = []rule{
	{"exact_path", (*Router).exactPath},
	{"root", (*Router).root},
	{"course_prefix", (*Router).coursePrefix},
	{"website_system", (*Router).websiteSystemRoute},
	{"general_system", (*Router).generalSystemRoute},
	{"funnel_step", (*Router).funnelStep},
	{"website_fallback", (*Router).websiteFallback},
}

// Select implements the rule chain in the file header.
func (r *Router) Select(ctx context.Context, conns []site.Connection, path string) (Target, error) {
	req := request{route: Clean(path), conns: conns}
	req.first = FirstSegment(req.route)
	req.last = LastSegment(req.route)

	for _, ru := range chain {
		c, slug, ok := ru.pick(r, ctx, req)
		if !ok {
			continue
		}
		metrics.RouteRuleTotal.WithLabelValues(ru.name).Inc()
		return Target{Type: c.ContentType, ID: c.ContentID, Rule: ru.name, Slug: slug}, nil
	}
	metrics.RouteRuleTotal.WithLabelValues("none").Inc()
	return Target{}, ErrNoContent
}

func (r *Router) exactPath(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" {
		return site.Connection{}, "", false
	}
	for _, c := range req.conns {
		if c.Path != "" && Clean(c.Path) == req.route {
			return c, "", true
		}
	}
	return site.Connection{}, "", false
}

func (r *Router) root(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route != "" {
		return site.Connection{}, "", false
	}
	for _, c := range req.conns {
		if c.IsHomepage {
			return c, "", true
		}
	}
	for _, t := range []site.ContentType{site.TypeWebsite, site.TypeCourseArea, site.TypeFunnel} {
		if c, ok := firstOf(req.conns, t); ok {
			return c, "", true
		}
	}
	return site.Connection{}, "", false
}

func (r *Router) coursePrefix(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" || !r.coursePrefixes.has(req.first) {
		return site.Connection{}, "", false
	}
	c, ok := firstOf(req.conns, site.TypeCourseArea)
	return c, "", ok
}

func (r *Router) websiteSystemRoute(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" || !r.websiteSystem.has(req.last) {
		return site.Connection{}, "", false
	}
	c, ok := firstOf(req.conns, site.TypeWebsite)
	return c, req.last, ok
}

func (r *Router) generalSystemRoute(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" || !r.generalSystem.has(req.last) {
		return site.Connection{}, "", false
	}
	if c, ok := firstOf(req.conns, site.TypeFunnel); ok {
		return c, req.last, true
	}
	c, ok := firstOf(req.conns, site.TypeWebsite)
	return c, req.last, ok
}

func (r *Router) funnelStep(ctx context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" {
		return site.Connection{}, "", false
	}
	var funnels []site.Connection
	for _, c := range req.conns {
		if c.ContentType == site.TypeFunnel {
			funnels = append(funnels, c)
		}
	}
	if len(funnels) == 0 {
		return site.Connection{}, "", false
	}
	c, ok := r.firstFunnelWithStep(ctx, funnels, req.last)
	return c, req.last, ok
}

func (r *Router) websiteFallback(_ context.Context, req request) (site.Connection, string, bool) {
	if req.route == "" {
		return site.Connection{}, "", false
	}
	c, ok := firstOf(req.conns, site.TypeWebsite)
	return c, req.last, ok
}

/*──────────────────────────── funnel steps ─────────────────────────────────*/

// firstFunnelWithStep returns the first funnel, in the given order, owning
// a published step with slug.  A batched query is tried first when the
// backend supports it; its failure falls back to sequential checks.
func (r *Router) firstFunnelWithStep(ctx context.Context, funnels []site.Connection, slug string) (site.Connection, bool) {
	if r.batch != nil {
		ids := make([]uint64, 0, len(funnels))
		seen := make(map[uint64]struct{}, len(funnels))
		for _, f := range funnels {
			if _, dup := seen[f.ContentID]; !dup {
				seen[f.ContentID] = struct{}{}
				ids = append(ids, f.ContentID)
			}
		}

		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		has, err := r.batch.FunnelsWithPublishedStep(cctx, ids, slug)
		cancel()
		if err == nil {
			for _, f := range funnels {
				if has[f.ContentID] {
					return f, true
				}
			}
			return site.Connection{}, false
		}
		metrics.BackendLookupErrorsTotal.WithLabelValues("funnels with published step").Inc()
		zap.S().Warnw("batched step check failed, checking sequentially",
			"tier", "funnel_step", "slug", slug, "err", err)
	}

	for _, f := range funnels {
		if ctx.Err() != nil {
			return site.Connection{}, false
		}
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		ok, err := r.repo.PublishedStepExists(cctx, f.ContentID, slug)
		cancel()
		if err != nil {
			metrics.BackendLookupErrorsTotal.WithLabelValues("published step exists").Inc()
			zap.S().Warnw("step check failed, treating as miss",
				"tier", "funnel_step", "funnel_id", f.ContentID, "slug", slug, "err", err)
			continue
		}
		if ok {
			return f, true
		}
	}
	return site.Connection{}, false
}

func firstOf(conns []site.Connection, t site.ContentType) (site.Connection, bool) {
	for _, c := range conns {
		if c.ContentType == t {
			return c, true
		}
	}
	return site.Connection{}, false
}
