// internal/prerender/pipeline_test.go
//
// End-to-end resolution against site.MemoryRepository.

package prerender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yanizio/sitegate/internal/document"
	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/seo"
	"github.com/yanizio/sitegate/internal/site"
	"github.com/yanizio/sitegate/internal/tenant"
)

const (
	googlebot = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	chrome    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

const offerDoc = `[{"id":"s1","rows":[{"id":"r1","columns":[{"id":"c1","width":12,"elements":[
	{"id":"h","type":"heading","content":{"text":"Big offer","level":1}}
]}]}]}]`

// shop builds the shop.example tenant: one website plus funnels F1 and F2,
// where only F2 publishes "offer-a".
func shop() *site.MemoryRepository {
	return &site.MemoryRepository{
		Domains: []site.CustomDomain{{ID: 1, Domain: "shop.example", StoreID: 10, IsVerified: true, DNSConfigured: true}},
		Stores:  []site.Store{{ID: 10, Name: "Shop Co", Description: "Store description.", Subdomain: "shopco"}},
		Websites: []site.Website{{ID: 20, StoreID: 10, Name: "Shop Example",
			Description: "Everything for the shop."}},
		Pages: []site.Page{
			{ID: 21, WebsiteID: 20, Slug: "home", IsHomepage: true, IsPublished: true},
			{ID: 22, WebsiteID: 20, Slug: "checkout", IsPublished: true, Title: "Checkout"},
		},
		Funnels: []site.Funnel{
			{ID: 30, StoreID: 10, Name: "F1"},
			{ID: 31, StoreID: 10, Name: "Launch Funnel"},
		},
		Steps: []site.Step{
			{ID: 40, FunnelID: 30, Slug: "intro", IsPublished: true, Title: "Intro"},
			{ID: 41, FunnelID: 31, Slug: "offer-a", IsPublished: true, Title: "Offer A",
				Content: offerDoc, SEOFields: site.SEOFields{SEOTitle: "Offer A | Deal"}},
		},
		Links: []site.Connection{
			{ID: 1, DomainID: 1, ContentType: site.TypeWebsite, ContentID: 20},
			{ID: 2, DomainID: 1, ContentType: site.TypeFunnel, ContentID: 30},
			{ID: 3, DomainID: 1, ContentType: site.TypeFunnel, ContentID: 31},
		},
	}
}

func newPipeline(repo *site.MemoryRepository, opts Options) *Pipeline {
	opts.SystemDomains = []string{"sitegate.app"}
	res := tenant.NewResolver(repo, tenant.Options{SystemDomains: opts.SystemDomains})
	docs := document.NewCache(document.NewRenderer(nil), 16)
	return NewPipeline(res, repo, routing.New(repo, routing.Rules{}, 0), docs, opts)
}

func TestResolve_RootUsesWebsiteName(t *testing.T) {
	res := newPipeline(shop(), Options{}).Resolve(context.Background(), "shop.example", "/", "")

	if res.Record.Title != "Shop Example" {
		t.Fatalf("title = %q, want %q", res.Record.Title, "Shop Example")
	}
	if res.Record.Canonical != "https://shop.example/" {
		t.Fatalf("canonical = %q, want %q", res.Record.Canonical, "https://shop.example/")
	}
	if res.Record.Source != seo.SourceWebsite || res.Outcome != OutcomeResolved {
		t.Fatalf("source = %q, outcome = %q", res.Record.Source, res.Outcome)
	}
	if res.Record.Description != "Everything for the shop." {
		t.Fatalf("description = %q", res.Record.Description)
	}
}

func TestResolve_CheckoutPrefersWebsite(t *testing.T) {
	res := newPipeline(shop(), Options{}).Resolve(context.Background(), "shop.example", "/checkout", "")

	if res.Target.Type != site.TypeWebsite || res.Target.Rule != "website_system" {
		t.Fatalf("target = %+v, want website via website_system", res.Target)
	}
	if res.Record.Title != "Checkout" || res.Record.Canonical != "https://shop.example/checkout" {
		t.Fatalf("record = %+v", res.Record)
	}
}

func TestResolve_OfferASelectsSecondFunnel(t *testing.T) {
	cases := []struct {
		name     string
		seoTitle string
		title    string
		want     string
	}{
		{"seo title", "Offer A | Deal", "Offer A", "Offer A | Deal"},
		{"step title", "", "Offer A", "Offer A"},
		{"funnel name", "", "", "Launch Funnel"},
	}
	for _, tc := range cases {
		repo := shop()
		repo.Steps[1].SEOTitle = tc.seoTitle
		repo.Steps[1].Title = tc.title

		res := newPipeline(repo, Options{}).Resolve(context.Background(), "shop.example", "/offer-a", "")
		if res.Target.Type != site.TypeFunnel || res.Target.ID != 31 {
			t.Fatalf("%s: target = %+v, want funnel 31", tc.name, res.Target)
		}
		if res.Record.Title != tc.want {
			t.Fatalf("%s: title = %q, want %q", tc.name, res.Record.Title, tc.want)
		}
	}
}

func TestResolve_UnknownDomainFallsBackToHost(t *testing.T) {
	res := newPipeline(shop(), Options{}).Resolve(context.Background(), "Nope.Example:8080", "/x", "")

	if res.Outcome != OutcomeTenantNotFound {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeTenantNotFound)
	}
	if res.Record.Title != "nope.example" || res.Record.Source != seo.SourceDomainFallback {
		t.Fatalf("record = %+v", res.Record)
	}
	if res.Record.Canonical != "https://nope.example/x" {
		t.Fatalf("canonical = %q", res.Record.Canonical)
	}
}

func TestResolve_BackendFailuresDegrade(t *testing.T) {
	repo := shop()
	repo.Fail = map[string]error{"connections": errors.New("connection reset")}
	res := newPipeline(repo, Options{}).Resolve(context.Background(), "shop.example", "/", "")
	if res.Outcome != OutcomeNoContent {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeNoContent)
	}
	if res.Record.Title != "Shop Co" || res.Record.Source != seo.SourceStore {
		t.Fatalf("record = %+v, want store tier", res.Record)
	}

	repo = shop()
	repo.Fail = map[string]error{"verified domain": errors.New("timeout")}
	res = newPipeline(repo, Options{DefaultDescription: "A shop."}).Resolve(context.Background(), "shop.example", "/", "")
	if res.Outcome != OutcomeUnavailable {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeUnavailable)
	}
	if res.Record.Title != "shop.example" || res.Record.Description != "A shop." {
		t.Fatalf("record = %+v", res.Record)
	}

	repo = shop()
	repo.Fail = map[string]error{"website page": errors.New("timeout"), "store": errors.New("timeout")}
	res = newPipeline(repo, Options{}).Resolve(context.Background(), "shop.example", "/checkout", "")
	if res.Record.Title != "Shop Example" {
		t.Fatalf("title = %q, want website tier after page failure", res.Record.Title)
	}
}

func TestResolve_FullBodyRendersDocument(t *testing.T) {
	p := newPipeline(shop(), Options{FullBody: true})
	res := p.Resolve(context.Background(), "shop.example", "/offer-a", "")
	if !strings.Contains(res.Body, `<h1 id="sg-h" class="sg-el sg-heading">Big offer</h1>`) {
		t.Fatalf("body = %q", res.Body)
	}

	// Plain-text content falls back to the minimal body.
	res = p.Resolve(context.Background(), "shop.example", "/checkout", "")
	if res.Body != "" {
		t.Fatalf("checkout body = %q, want empty", res.Body)
	}
}

func TestResolve_SystemSubdomain(t *testing.T) {
	res := newPipeline(shop(), Options{}).Resolve(context.Background(), "shopco.sitegate.app", "/", "")
	if res.Tenant == nil || !res.Tenant.System {
		t.Fatalf("tenant = %+v, want system tenant", res.Tenant)
	}
	if res.Record.Title != "Shop Example" {
		t.Fatalf("title = %q", res.Record.Title)
	}
}

func TestResolve_LocaleHintWhenStoreHasNone(t *testing.T) {
	res := newPipeline(shop(), Options{}).Resolve(context.Background(), "shop.example", "/", "fr_CA")
	if res.Record.Locale != "fr_CA" {
		t.Fatalf("locale = %q, want fr_CA", res.Record.Locale)
	}
}

func TestSitemapPaths(t *testing.T) {
	p := newPipeline(shop(), Options{})
	tn, err := p.Tenant(context.Background(), "shop.example")
	if err != nil {
		t.Fatalf("Tenant error: %v", err)
	}
	got := strings.Join(p.SitemapPaths(context.Background(), tn), " ")
	if want := "/ /checkout /intro /offer-a"; got != want {
		t.Fatalf("paths = %q, want %q", got, want)
	}
}
