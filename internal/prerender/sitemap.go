// internal/prerender/sitemap.go
//
// robots.txt and sitemap.xml per tenant.
//
// The sitemap lists published website pages (homepage as "/") and the
// published steps of every funnel connection, in connection order,
// duplicates removed.  Each connection's listing is fetched concurrently;
// a failed listing is logged and skipped.  An unknown host gets 404; a
// failed tenant lookup gets 503 with Retry-After.
package prerender

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/sitegate/internal/metrics"
	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/site"
	"github.com/yanizio/sitegate/internal/tenant"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// sitemapRetryAfter is the Retry-After seconds sent when the tenant
// backend is down.
const sitemapRetryAfter = "120"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// SitemapPaths returns the tenant's public paths.
func (p *Pipeline) SitemapPaths(ctx context.Context, t *tenant.Tenant) []string {
	log := loggerFrom(ctx)
	conns := p.connections(ctx, log, t)

	lists := make([][]string, len(conns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range conns {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, p.opts.LookupTimeout)
			defer cancel()

			var (
				op  string
				err error
			)
			switch c.ContentType {
			case site.TypeWebsite:
				op = "published pages"
				var pages []site.Page
				if pages, err = p.repo.PublishedPages(cctx, c.ContentID); err == nil {
					for _, pg := range pages {
						slug := pg.Slug
						if pg.IsHomepage {
							slug = ""
						}
						lists[i] = append(lists[i], routing.BuildPath(c.Path, slug))
					}
				}
			case site.TypeFunnel:
				op = "published steps"
				var steps []site.Step
				if steps, err = p.repo.PublishedSteps(cctx, c.ContentID); err == nil {
					for _, st := range steps {
						lists[i] = append(lists[i], routing.BuildPath(c.Path, st.Slug))
					}
				}
			}
			if err != nil {
				metrics.BackendLookupErrorsTotal.WithLabelValues(op).Inc()
				log.Warn("sitemap listing failed", zap.String("tier", op), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return lo.Uniq(lo.Flatten(lists))
}

func (h *Handler) robots(w http.ResponseWriter, r *http.Request) {
	host := tenant.Normalize(r.Host)
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if t, err := h.p.Tenant(r.Context(), host); err == nil && t != nil {
		b.WriteString("Allow: /\n")
		b.WriteString("Sitemap: https://" + host + "/sitemap.xml\n")
	} else {
		b.WriteString("Disallow:\n")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", h.p.opts.CacheControl)
	_, _ = w.Write([]byte(b.String()))
}

func (h *Handler) sitemap(w http.ResponseWriter, r *http.Request) {
	host := tenant.Normalize(r.Host)
	t, err := h.p.Tenant(r.Context(), host)
	switch {
	case errors.Is(err, tenant.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil || t == nil:
		// Lookup outage, not an unknown host.
		loggerFrom(r.Context()).Warn("sitemap tenant lookup failed", zap.Error(err))
		w.Header().Set("Retry-After", sitemapRetryAfter)
		http.Error(w, "sitemap temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	set := urlset{
		Xmlns: sitemapNS,
		URLs: lo.Map(h.p.SitemapPaths(r.Context(), t), func(path string, _ int) sitemapURL {
			return sitemapURL{Loc: "https://" + host + path}
		}),
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", h.p.opts.CacheControl)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
