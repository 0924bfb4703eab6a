package seo

import (
	"reflect"
	"testing"

	"github.com/yanizio/sitegate/internal/site"
)

func TestResolve_WebsiteRootUsesWebsiteName(t *testing.T) {
	rec := Resolve(Input{
		Domain: "shop.example",
		Path:   "/",
		Entity: site.WebsiteContent{Website: &site.Website{ID: 1, Name: "Shop Front"}},
		Store:  &site.Store{Name: "Shop Inc", Description: "We sell things."},
	})
	if rec.Title != "Shop Front" || rec.Source != SourceWebsite {
		t.Fatalf("title = %q (%s), want Shop Front (website)", rec.Title, rec.Source)
	}
	if rec.Canonical != "https://shop.example/" {
		t.Fatalf("canonical = %q", rec.Canonical)
	}
	if rec.Description != "We sell things." {
		t.Fatalf("description = %q", rec.Description)
	}
	if rec.Robots != DefaultRobots || rec.SiteName != "Shop Front" {
		t.Fatalf("robots/site = %q/%q", rec.Robots, rec.SiteName)
	}
	if rec.Keywords == nil || len(rec.Keywords) != 0 {
		t.Fatalf("keywords = %#v, want empty list", rec.Keywords)
	}
}

func TestResolve_PageTitleIsStableAgainstParentGarbage(t *testing.T) {
	page := &site.Page{SEOFields: site.SEOFields{SEOTitle: "Page SEO"}}
	parents := []*site.Website{
		nil,
		{},
		{Name: "   ", SEOFields: site.SEOFields{SEOTitle: "<b>garbage</b>"}},
		{Name: "Site", Settings: "{not json"},
	}
	stores := []*site.Store{nil, {}, {Name: "Store"}}
	for _, w := range parents {
		for _, s := range stores {
			rec := Resolve(Input{Domain: "d", Entity: site.WebsiteContent{Website: w, Page: page}, Store: s})
			if rec.Title != "Page SEO" || rec.Source != SourcePage {
				t.Fatalf("title = %q (%s) with parent %+v store %+v", rec.Title, rec.Source, w, s)
			}
		}
	}
}

func TestResolve_FunnelStepCascade(t *testing.T) {
	funnel := &site.Funnel{Name: "Launch", SEOFields: site.SEOFields{OGImage: "/f.png", SEOKeywords: "launch, offer"}}
	cases := []struct {
		step   *site.Step
		title  string
		source string
	}{
		{&site.Step{Title: "Offer A", SEOFields: site.SEOFields{SEOTitle: "Offer A | Save"}}, "Offer A | Save", SourceFunnelStep},
		{&site.Step{Title: "Offer A"}, "Offer A", SourceFunnelStep},
		{&site.Step{}, "Launch", SourceFunnel},
		{nil, "Launch", SourceFunnel},
	}
	for _, c := range cases {
		rec := Resolve(Input{Domain: "shop.example", Path: "/offer-a", Entity: site.FunnelContent{Funnel: funnel, Step: c.step}})
		if rec.Title != c.title || rec.Source != c.source {
			t.Errorf("title = %q (%s), want %q (%s)", rec.Title, rec.Source, c.title, c.source)
		}
		if rec.OGImage != "https://shop.example/f.png" {
			t.Errorf("og:image = %q", rec.OGImage)
		}
		if !reflect.DeepEqual(rec.Keywords, []string{"launch", "offer"}) {
			t.Errorf("keywords = %v", rec.Keywords)
		}
		if rec.Canonical != "https://shop.example/offer-a" {
			t.Errorf("canonical = %q", rec.Canonical)
		}
	}
}

func TestResolve_DescriptionExtractedBeforeParent(t *testing.T) {
	rec := Resolve(Input{
		Domain: "d",
		Entity: site.WebsiteContent{
			Website: &site.Website{Name: "W", SEOFields: site.SEOFields{SEODescription: "Parent desc."}},
			Page:    &site.Page{Title: "P", Content: "<p>Derived from content.</p>"},
		},
	})
	if rec.Description != "Derived from content." {
		t.Fatalf("description = %q", rec.Description)
	}
}

func TestResolve_BrokenChildImageFallsToParent(t *testing.T) {
	rec := Resolve(Input{
		Domain: "d",
		Entity: site.WebsiteContent{
			Website: &site.Website{SEOFields: site.SEOFields{OGImage: "https://cdn/w.png"}},
			Page:    &site.Page{SEOFields: site.SEOFields{OGImage: "not a url"}},
		},
	})
	if rec.OGImage != "https://cdn/w.png" {
		t.Fatalf("og:image = %q", rec.OGImage)
	}
}

func TestResolve_ExplicitCanonicalAndFavicon(t *testing.T) {
	rec := Resolve(Input{
		Domain: "shop.example",
		Path:   "/x",
		Entity: site.WebsiteContent{
			Website: &site.Website{Name: "W", Settings: `{"favicon":"/fav.ico"}`},
			Page:    &site.Page{Title: "X", SEOFields: site.SEOFields{CanonicalURL: "https://shop.example/canonical-x"}},
		},
		Store: &site.Store{FaviconURL: "https://cdn/store.ico", Locale: "de-de"},
	})
	if rec.Canonical != "https://shop.example/canonical-x" {
		t.Fatalf("canonical = %q", rec.Canonical)
	}
	if rec.Favicon != "https://shop.example/fav.ico" {
		t.Fatalf("favicon = %q", rec.Favicon)
	}
	if rec.Locale != "de_DE" {
		t.Fatalf("locale = %q", rec.Locale)
	}
}

func TestResolve_CourseAreaUsesStore(t *testing.T) {
	rec := Resolve(Input{
		Domain: "learn.example",
		Entity: site.CourseContent{Area: &site.CourseArea{ID: 3, StoreID: 1}},
		Store:  &site.Store{Name: "Academy", Description: "Learn things.", FaviconURL: "/a.ico"},
	})
	if rec.Title != "Academy" || rec.Source != SourceCourseArea || rec.SiteName != "Academy" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Favicon != "https://learn.example/a.ico" {
		t.Fatalf("favicon = %q", rec.Favicon)
	}
}

func TestResolve_NothingYieldsDefaults(t *testing.T) {
	rec := Resolve(Input{Path: "/", Entity: site.WebsiteContent{}})
	if rec.Title != DefaultTitle || rec.Source != SourceGeneric {
		t.Fatalf("title = %q (%s)", rec.Title, rec.Source)
	}
	if rec.Description != DefaultDescription || rec.SiteName == "" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestResolve_NamelessStoreFallsBackToDomain(t *testing.T) {
	// Tenant resolved, store lookup failed, nothing routed.
	rec := Resolve(Input{Domain: "shop.example", Path: "/"})
	if rec.Title != "shop.example" || rec.Source != SourceDomainFallback {
		t.Fatalf("title = %q (%s), want domain fallback", rec.Title, rec.Source)
	}

	rec = Resolve(Input{Domain: "shop.example", Path: "/", Entity: site.WebsiteContent{}, Store: &site.Store{ID: 1}})
	if rec.Title != "shop.example" || rec.Source != SourceDomainFallback {
		t.Fatalf("title = %q (%s), want domain fallback", rec.Title, rec.Source)
	}
}

func TestResolve_CanonicalCascadesToParent(t *testing.T) {
	rec := Resolve(Input{
		Domain: "shop.example",
		Path:   "/offer-a",
		Entity: site.FunnelContent{
			Funnel: &site.Funnel{Name: "F", SEOFields: site.SEOFields{CanonicalURL: "https://shop.example/launch"}},
			Step:   &site.Step{Slug: "offer-a", Title: "Offer A"},
		},
	})
	if rec.Canonical != "https://shop.example/launch" {
		t.Fatalf("canonical = %q, want funnel-level canonical", rec.Canonical)
	}
}

func TestFallback_UsesDomain(t *testing.T) {
	rec := Fallback("unknown.example", "/a", "Generic.")
	if rec.Title != "unknown.example" || rec.Source != SourceDomainFallback {
		t.Fatalf("title = %q (%s)", rec.Title, rec.Source)
	}
	if rec.Description != "Generic." || rec.Canonical != "https://unknown.example/a" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Source == "" || rec.Robots == "" || rec.SiteName == "" || rec.Locale == "" {
		t.Fatalf("empty field in %+v", rec)
	}
}

func TestOGLocale(t *testing.T) {
	for in, want := range map[string]string{"en-us": "en_US", "EN": "en", "pt_br": "pt_BR", "": DefaultLocale} {
		if got := OGLocale(in); got != want {
			t.Errorf("OGLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
