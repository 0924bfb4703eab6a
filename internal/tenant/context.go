// context.go carries the resolved Tenant through a request.  Handlers read
// it with FromContext; nothing in the pipeline keeps a "current tenant" in
// package state.
package tenant

import "context"

type ctxKey struct{}

// WithTenant returns a copy of ctx carrying t.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the Tenant stored by WithTenant, or nil.
func FromContext(ctx context.Context) *Tenant {
	t, _ := ctx.Value(ctxKey{}).(*Tenant)
	return t
}
