// internal/tenant/tenant.go
//
// Resolved tenant and cache entry.
//
// Context
// -------
// A Tenant is the outcome of mapping a request host to a store.  It is
// either a verified custom domain (DomainID set) or a platform subdomain
// under one of `render.system_domains` (System set, DomainID zero).  The
// value is immutable once cached; handlers copy nothing and mutate
// nothing.
package tenant

import "errors"

// ErrNotFound is returned when no verified custom domain or platform
// subdomain matches the host.
var ErrNotFound = errors.New("tenant: not found")

// Tenant identifies the store that owns a request host.
type Tenant struct {
	Host      string // normalised host the lookup matched on
	DomainID  uint64 // custom_domains.id; zero for system tenants
	StoreID   uint64
	Subdomain string // platform subdomain when System
	System    bool   // reached through a system domain, not a custom domain
}

//
// Cache entry
//

type entry struct {
	tenant   *Tenant
	loadedAt int64 // UnixNano, fixed at resolution
	lastSeen int64 // UnixNano
}
