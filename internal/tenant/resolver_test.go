package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/yanizio/sitegate/internal/site"
)

func fixture() *site.MemoryRepository {
	return &site.MemoryRepository{
		Domains: []site.CustomDomain{
			{ID: 1, Domain: "shop.example", StoreID: 10, IsVerified: true, DNSConfigured: true},
			{ID: 2, Domain: "pending.example", StoreID: 11, IsVerified: true, DNSConfigured: false},
			{ID: 3, Domain: "www.both.example", StoreID: 12, IsVerified: true, DNSConfigured: true},
			{ID: 4, Domain: "both.example", StoreID: 13, IsVerified: true, DNSConfigured: true},
		},
		Stores: []site.Store{
			{ID: 10, Name: "Shop"},
			{ID: 20, Name: "Acme", Subdomain: "acme"},
		},
	}
}

func TestResolve_WWWFallsBackToApex(t *testing.T) {
	r := NewResolver(fixture(), Options{})
	got, err := r.Resolve(context.Background(), "www.shop.example")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.DomainID != 1 || got.StoreID != 10 || got.System {
		t.Fatalf("tenant = %+v", got)
	}
}

func TestResolve_ExactHostWins(t *testing.T) {
	r := NewResolver(fixture(), Options{})
	got, err := r.Resolve(context.Background(), "www.both.example")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.DomainID != 3 {
		t.Fatalf("DomainID = %d, want 3", got.DomainID)
	}
}

func TestResolve_UnverifiedIsNotFound(t *testing.T) {
	r := NewResolver(fixture(), Options{})
	if _, err := r.Resolve(context.Background(), "pending.example"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolve_SystemSubdomain(t *testing.T) {
	r := NewResolver(fixture(), Options{SystemDomains: []string{"platform.example"}})
	got, err := r.Resolve(context.Background(), "acme.platform.example")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !got.System || got.StoreID != 20 || got.Subdomain != "acme" {
		t.Fatalf("tenant = %+v", got)
	}
}

func TestResolve_BackendFailureSurfaces(t *testing.T) {
	repo := fixture()
	repo.Fail = map[string]error{"verified domain": errors.New("timeout")}
	r := NewResolver(repo, Options{})
	_, err := r.Resolve(context.Background(), "shop.example")
	if !errors.Is(err, site.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestResolve_LocalhostAlias(t *testing.T) {
	t.Setenv("SITEGATE_LOCALHOST_ALIAS", "")
	r := NewResolver(fixture(), Options{LocalhostAlias: "shop.example"})
	got, err := r.Resolve(context.Background(), "localhost:8080")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Host != "shop.example" {
		t.Fatalf("Host = %q, want shop.example", got.Host)
	}
}
