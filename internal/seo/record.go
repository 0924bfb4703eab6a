// internal/seo/record.go
//
// SEO Metadata Resolver.
//
// Context
// -------
// Resolve turns the selected entity into a Record by cascading every field
// independently from the most specific tier to the least:
//
//	child  (page / step)      seo_* columns, title, content
//	parent (website / funnel) seo_* columns, name, description, settings
//	store                     name, description, favicon_url, locale
//	literal defaults          domain (or "Welcome"), DefaultDescription,
//	                          "index, follow"
//
// A blank or whitespace-only value counts as absent.  Course areas carry no
// SEO columns, so they resolve from the store alone.
//
// Notes
// -----
//   - Source names the tier that produced the title; it is never empty.
//   - Resolve performs no I/O and never fails.  Missing tiers are nil.
package seo

import (
	"strings"

	"github.com/yanizio/sitegate/internal/routing"
	"github.com/yanizio/sitegate/internal/site"
)

// Literal defaults at the bottom of every cascade.
const (
	DefaultTitle       = "Welcome"
	DefaultDescription = "Welcome to our site."
	DefaultRobots      = "index, follow"
	DefaultLocale      = "en_US"
)

// Source tags.
const (
	SourcePage           = "page"
	SourceWebsite        = "website"
	SourceFunnelStep     = "funnel_step"
	SourceFunnel         = "funnel"
	SourceCourseArea     = "course_area"
	SourceStore          = "store"
	SourceDomainFallback = "domain_fallback"
	SourceGeneric        = "generic"
)

// Record is the resolved metadata handed to the synthesiser.
type Record struct {
	Title       string
	Description string
	OGImage     string   // absolute URL; "" when absent
	Keywords    []string // never nil
	Canonical   string
	Robots      string
	SiteName    string
	Source      string
	Favicon     string // absolute URL; "" when absent
	Locale      string // og:locale form, e.g. en_US
}

// Input is everything Resolve reads.
type Input struct {
	Domain string
	Path   string
	Entity site.Entity // nil when routing found nothing
	Store  *site.Store // nil when the store lookup failed

	// DefaultDescription replaces the literal description default when set.
	DefaultDescription string
	// Locale is used when the store has none (e.g. Accept-Language).
	Locale string
	// Budget is the description extraction budget; zero means default.
	Budget int
}

// tier is one level of the cascade, flattened from whatever entity type
// supplied it.
type tier struct {
	source      string
	seo         site.SEOFields
	title       string // page/step title, or website/funnel name
	description string // website/funnel description
	content     string // page/step content
	favicon     string // settings["favicon"]
}

// Resolve runs the cascade described in the file header.
func Resolve(in Input) Record {
	child, parent := tiers(in.Entity)

	var (
		store         site.Store
		storeSource   = SourceStore
		fallbackTitle = DefaultTitle
	)
	if in.Store != nil {
		store = *in.Store
	}
	_, isCourse := in.Entity.(site.CourseContent)
	if isCourse {
		storeSource = SourceCourseArea
	}
	if in.Domain != "" {
		fallbackTitle = in.Domain
	}

	rec := Record{Keywords: []string{}}

	// title
	rec.Title, rec.Source = firstSourced(
		sourced{child.seo.SEOTitle, child.source},
		sourced{child.title, child.source},
		sourced{parent.seo.SEOTitle, parent.source},
		sourced{parent.title, parent.source},
		sourced{store.Name, storeSource},
	)
	if rec.Title == "" {
		rec.Title = fallbackTitle
		rec.Source = SourceGeneric
		if fallbackTitle == in.Domain {
			rec.Source = SourceDomainFallback
		}
	}

	// description
	rec.Description = first(
		child.seo.SEODescription,
		ExtractDescription(child.content, in.Budget),
		parent.seo.SEODescription,
		parent.description,
		store.Description,
		in.DefaultDescription,
		DefaultDescription,
	)

	// og:image
	for _, raw := range []string{child.seo.OGImage, parent.seo.OGImage} {
		if u, ok := NormalizeImage(raw, in.Domain); ok {
			rec.OGImage = u
			break
		}
	}

	// keywords
	for _, raw := range []string{child.seo.SEOKeywords, parent.seo.SEOKeywords} {
		if kw := ParseKeywords(raw); len(kw) > 0 {
			rec.Keywords = kw
			break
		}
	}

	rec.Canonical = canonical(first(child.seo.CanonicalURL, parent.seo.CanonicalURL), in.Domain, in.Path)

	rec.Robots = first(child.seo.MetaRobots, parent.seo.MetaRobots, DefaultRobots)

	rec.SiteName = first(parent.title, store.Name, in.Domain, rec.Title)

	for _, raw := range []string{parent.favicon, store.FaviconURL} {
		if u, ok := NormalizeImage(raw, in.Domain); ok {
			rec.Favicon = u
			break
		}
	}

	rec.Locale = OGLocale(first(store.Locale, in.Locale, DefaultLocale))
	return rec
}

// Fallback is the record for a request whose tenant could not be resolved.
// The domain stands in for the title and site name.
func Fallback(domain, path, defaultDescription string) Record {
	return Resolve(Input{Domain: domain, Path: path, DefaultDescription: defaultDescription})
}

// tiers flattens an entity into its child and parent cascade levels.  The
// switch is exhaustive over site.Entity.
func tiers(e site.Entity) (child, parent tier) {
	switch v := e.(type) {
	case site.WebsiteContent:
		if v.Page != nil {
			child = tier{source: SourcePage, seo: v.Page.SEOFields, title: v.Page.Title, content: v.Page.Content}
		}
		if v.Website != nil {
			parent = tier{
				source:      SourceWebsite,
				seo:         v.Website.SEOFields,
				title:       v.Website.Name,
				description: v.Website.Description,
				favicon:     v.Website.Setting("favicon"),
			}
		}
	case site.FunnelContent:
		if v.Step != nil {
			child = tier{source: SourceFunnelStep, seo: v.Step.SEOFields, title: v.Step.Title, content: v.Step.Content}
		}
		if v.Funnel != nil {
			parent = tier{
				source:      SourceFunnel,
				seo:         v.Funnel.SEOFields,
				title:       v.Funnel.Name,
				description: v.Funnel.Description,
				favicon:     v.Funnel.Setting("favicon"),
			}
		}
	case site.CourseContent:
		// Store tier only.
	case nil:
	}
	return child, parent
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

type sourced struct {
	value  string
	source string
}

func firstSourced(vals ...sourced) (string, string) {
	for _, v := range vals {
		if s := strings.TrimSpace(v.value); s != "" {
			return s, v.source
		}
	}
	return "", ""
}

func first(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// canonical returns explicit when it normalises to an absolute http(s) URL,
// else https://{domain}{path} with root rendered as "/".
func canonical(explicit, domain, path string) string {
	if u, ok := NormalizeImage(explicit, domain); ok {
		return u
	}
	return "https://" + domain + routing.BuildPath("", path)
}

// OGLocale converts "en-us", "en_US", or "EN" into og:locale form.
func OGLocale(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "-", "_")
	lang, region, found := strings.Cut(tag, "_")
	lang = strings.ToLower(lang)
	if lang == "" {
		return DefaultLocale
	}
	if !found || region == "" {
		return lang
	}
	return lang + "_" + strings.ToUpper(region)
}
