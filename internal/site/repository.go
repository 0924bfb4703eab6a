// internal/site/repository.go
//
// Read-only query contract for the content store.
//
// Context
// -------
// Every lookup the pipeline performs is an equality (or IN) filter on an
// indexed column.  Two implementations satisfy Repository:
//
//   - SQLRepository: sqlx over the MySQL control-plane schema.
//   - MemoryRepository: maps, used by tests and the YAML fixture mode.
//
// Error contract
// --------------
//   - ErrNotFound: the row does not exist (or is unpublished).
//   - ErrUnavailable: the backend failed or the context expired.  Callers
//     treat it exactly like a miss and move to the next fallback tier.
package site

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a filtered read matches no row.
	ErrNotFound = errors.New("site: not found")

	// ErrUnavailable wraps backend failures and timeouts.
	ErrUnavailable = errors.New("site: backend unavailable")
)

// Repository is the backend query capability consumed by the pipeline.
type Repository interface {
	// VerifiedDomain returns the first verified, DNS-configured domain
	// whose name is in hosts.  Ties resolve by the order of hosts.
	VerifiedDomain(ctx context.Context, hosts []string) (*CustomDomain, error)

	// StoreBySubdomain resolves a platform subdomain to its store.
	StoreBySubdomain(ctx context.Context, subdomain string) (*Store, error)

	// Connections lists a domain's connections in insertion (id) order.
	Connections(ctx context.Context, domainID uint64) ([]Connection, error)

	// StoreConnections derives connections for a store reached through a
	// platform subdomain: its first website, every funnel, and its course
	// area, in that order.
	StoreConnections(ctx context.Context, storeID uint64) ([]Connection, error)

	// PublishedStepExists reports whether funnelID has a published step
	// with the given slug.
	PublishedStepExists(ctx context.Context, funnelID uint64, slug string) (bool, error)

	Store(ctx context.Context, id uint64) (*Store, error)
	Website(ctx context.Context, id uint64) (*Website, error)
	Funnel(ctx context.Context, id uint64) (*Funnel, error)
	CourseArea(ctx context.Context, id uint64) (*CourseArea, error)

	// WebsitePage returns the published page with slug.  An empty slug
	// selects the published homepage.
	WebsitePage(ctx context.Context, websiteID uint64, slug string) (*Page, error)

	// FunnelStep returns the published step with slug.  An empty slug
	// selects the first published step by step_order.
	FunnelStep(ctx context.Context, funnelID uint64, slug string) (*Step, error)

	// PublishedPages and PublishedSteps feed sitemap.xml.
	PublishedPages(ctx context.Context, websiteID uint64) ([]Page, error)
	PublishedSteps(ctx context.Context, funnelID uint64) ([]Step, error)
}

// StepBatcher is implemented by backends that can answer the funnel-step
// existence check for many funnels in one query.  The result is the set of
// funnel IDs that own a published step with slug; ordering is left to the
// caller.
type StepBatcher interface {
	FunnelsWithPublishedStep(ctx context.Context, funnelIDs []uint64, slug string) (map[uint64]bool, error)
}
