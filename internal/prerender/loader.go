// internal/prerender/loader.go
//
// Entity loader.
//
// The selected target needs up to three independent reads: the parent
// (website / funnel / course area), the child (page / step), and the
// store.  They run concurrently under an errgroup; each carries its own
// lookup timeout and a failure only removes that tier from the cascade.
package prerender

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/sitegate/internal/metrics"
	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/site"
)

type loaded struct {
	entity  site.Entity // nil when nothing could be fetched
	store   *site.Store
	content string // child content, input to the document renderer
}

func (p *Pipeline) load(ctx context.Context, log *zap.Logger, storeID uint64, target routing.Target, routed bool) loaded {
	var (
		out     loaded
		website *site.Website
		page    *site.Page
		funnel  *site.Funnel
		step    *site.Step
		area    *site.CourseArea
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(op string, fn func(context.Context) error) {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, p.opts.LookupTimeout)
			defer cancel()
			if err := fn(cctx); err != nil && !errors.Is(err, site.ErrNotFound) {
				metrics.BackendLookupErrorsTotal.WithLabelValues(op).Inc()
				log.Warn("content lookup failed", zap.String("tier", op), zap.Error(err))
			}
			// Tiers degrade independently; never cancel siblings.
			return nil
		})
	}

	fetch("store", func(c context.Context) (err error) {
		out.store, err = p.repo.Store(c, storeID)
		return err
	})

	if routed {
		switch target.Type {
		case site.TypeWebsite:
			fetch("website", func(c context.Context) (err error) {
				website, err = p.repo.Website(c, target.ID)
				return err
			})
			fetch("website page", func(c context.Context) (err error) {
				page, err = p.repo.WebsitePage(c, target.ID, target.Slug)
				return err
			})
		case site.TypeFunnel:
			fetch("funnel", func(c context.Context) (err error) {
				funnel, err = p.repo.Funnel(c, target.ID)
				return err
			})
			fetch("funnel step", func(c context.Context) (err error) {
				step, err = p.repo.FunnelStep(c, target.ID, target.Slug)
				return err
			})
		case site.TypeCourseArea:
			fetch("course area", func(c context.Context) (err error) {
				area, err = p.repo.CourseArea(c, target.ID)
				return err
			})
		}
	}
	_ = g.Wait()

	switch {
	case website != nil || page != nil:
		out.entity = site.WebsiteContent{Website: website, Page: page}
		if page != nil {
			out.content = page.Content
		}
	case funnel != nil || step != nil:
		out.entity = site.FunnelContent{Funnel: funnel, Step: step}
		if step != nil {
			out.content = step.Content
		}
	case area != nil:
		out.entity = site.CourseContent{Area: area}
	}
	return out
}
