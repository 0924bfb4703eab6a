// internal/tenant/resolver.go
//
// Host → Tenant resolution against the content store.
//
// Workflow
// --------
//  1. Normalise the host and apply the localhost alias.
//  2. Query `custom_domains` for any of Variants(host) that is verified and
//     DNS-configured.  First variant in list order wins.
//  3. Otherwise, if the host is `<sub>.<system_domain>`, resolve the store
//     by subdomain and return a System tenant.
//  4. Otherwise fail fast with ErrNotFound.
//
// Every repository call carries the lookup timeout.  A backend failure on
// step 2 does not stop step 3; if nothing matches the failure is returned
// (wrapping site.ErrUnavailable) so callers can tell an outage from a miss.
package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/yanizio/sitegate/internal/site"
)

// DefaultLookupTimeout bounds a single repository call.
const DefaultLookupTimeout = 250 * time.Millisecond

// Options tunes a Resolver.
type Options struct {
	SystemDomains  []string
	LocalhostAlias string
	Timeout        time.Duration
}

// Resolver maps hosts to tenants.  It is safe for concurrent use.
type Resolver struct {
	repo site.Repository
	opts Options
}

// NewResolver returns a Resolver over repo.
func NewResolver(repo site.Repository, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLookupTimeout
	}
	return &Resolver{repo: repo, opts: opts}
}

// Resolve implements the workflow in the file header.
func (r *Resolver) Resolve(ctx context.Context, host string) (*Tenant, error) {
	host = resolveLookupHost(Normalize(host), r.opts.LocalhostAlias)
	if host == "" {
		return nil, ErrNotFound
	}

	var backendErr error

	cctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	dom, err := r.repo.VerifiedDomain(cctx, Variants(host))
	cancel()
	switch {
	case err == nil:
		return &Tenant{Host: host, DomainID: dom.ID, StoreID: dom.StoreID}, nil
	case !errors.Is(err, site.ErrNotFound):
		backendErr = err
	}

	if sub, _, ok := platformSubdomain(host, r.opts.SystemDomains); ok {
		cctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
		st, err := r.repo.StoreBySubdomain(cctx, sub)
		cancel()
		switch {
		case err == nil:
			return &Tenant{Host: host, StoreID: st.ID, Subdomain: sub, System: true}, nil
		case !errors.Is(err, site.ErrNotFound):
			backendErr = err
		}
	}

	if backendErr != nil {
		return nil, backendErr
	}
	return nil, ErrNotFound
}

// SystemHost reports whether host sits on a configured system domain.
func (r *Resolver) SystemHost(host string) bool {
	return IsSystemHost(host, r.opts.SystemDomains)
}
