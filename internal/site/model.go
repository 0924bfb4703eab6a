// internal/site/model.go
//
// Row models for the content store.
//
// Context
// -------
// The pipeline only ever reads these tables.  Nullable text columns are
// COALESCEd to '' at SQL level so every model field is a plain string;
// the SEO cascade treats "" as absent.
//
// Schema reference
//
//	custom_domains     (id, domain, store_id, is_verified, dns_configured)
//	domain_connections (id, domain_id, content_type, content_id, path, is_homepage)
//	stores             (id, name, description, favicon_url, subdomain, locale)
//	websites           (id, store_id, name, description, seo_title,
//	                    seo_description, og_image, seo_keywords, meta_robots,
//	                    canonical_url, settings)
//	website_pages      (id, website_id, slug, is_homepage, is_published, title,
//	                    seo_title, seo_description, og_image, seo_keywords,
//	                    meta_robots, canonical_url, content)
//	funnels            (same SEO columns as websites)
//	funnel_steps       (id, funnel_id, slug, step_order, is_published, title,
//	                    SEO columns, content)
//	course_areas       (id, store_id, title)
//
// Notes
// -----
//   - `settings` and `content` are JSON text; decoding is left to callers.
//   - Oxford commas, two spaces after periods.
package site

import (
	"encoding/json"
	"strings"
)

// ContentType tags the polymorphic target of a DomainConnection.
type ContentType string

const (
	TypeWebsite    ContentType = "website"
	TypeFunnel     ContentType = "funnel"
	TypeCourseArea ContentType = "course_area"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case TypeWebsite, TypeFunnel, TypeCourseArea:
		return true
	}
	return false
}

// CustomDomain mirrors one row in `custom_domains`.  Only rows with both
// flags set are eligible for resolution.
type CustomDomain struct {
	ID            uint64 `db:"id"            yaml:"id"`
	Domain        string `db:"domain"        yaml:"domain"`
	StoreID       uint64 `db:"store_id"      yaml:"store_id"`
	IsVerified    bool   `db:"is_verified"   yaml:"is_verified"`
	DNSConfigured bool   `db:"dns_configured" yaml:"dns_configured"`
}

// Eligible reports whether the domain may serve tenant content.
func (d CustomDomain) Eligible() bool { return d.IsVerified && d.DNSConfigured }

// Connection binds a domain to one content entity.  Path, when non-empty,
// is an exact-match route (stored without leading or trailing "/").
type Connection struct {
	ID          uint64      `db:"id"           yaml:"id"`
	DomainID    uint64      `db:"domain_id"    yaml:"domain_id"`
	ContentType ContentType `db:"content_type" yaml:"content_type"`
	ContentID   uint64      `db:"content_id"   yaml:"content_id"`
	Path        string      `db:"path"         yaml:"path"`
	IsHomepage  bool        `db:"is_homepage"  yaml:"is_homepage"`
}

// Store is the tenant account and the last tier of every SEO cascade.
type Store struct {
	ID          uint64 `db:"id"          yaml:"id"`
	Name        string `db:"name"        yaml:"name"`
	Description string `db:"description" yaml:"description"`
	FaviconURL  string `db:"favicon_url" yaml:"favicon_url"`
	Subdomain   string `db:"subdomain"   yaml:"subdomain"`
	Locale      string `db:"locale"      yaml:"locale"`
}

// SEOFields is embedded by every entity that carries its own metadata.
type SEOFields struct {
	SEOTitle       string `db:"seo_title"       yaml:"seo_title"`
	SEODescription string `db:"seo_description" yaml:"seo_description"`
	OGImage        string `db:"og_image"        yaml:"og_image"`
	SEOKeywords    string `db:"seo_keywords"    yaml:"seo_keywords"`
	MetaRobots     string `db:"meta_robots"     yaml:"meta_robots"`
	CanonicalURL   string `db:"canonical_url"   yaml:"canonical_url"`
}

// Website mirrors one row in `websites`.
type Website struct {
	ID          uint64 `db:"id"          yaml:"id"`
	StoreID     uint64 `db:"store_id"    yaml:"store_id"`
	Name        string `db:"name"        yaml:"name"`
	Description string `db:"description" yaml:"description"`
	Settings    string `db:"settings"    yaml:"settings"`
	SEOFields   `yaml:",inline"`
}

// Setting returns one string value from the JSON settings blob.
func (w *Website) Setting(key string) string { return setting(w.Settings, key) }

// Page mirrors one row in `website_pages`.
type Page struct {
	ID          uint64 `db:"id"           yaml:"id"`
	WebsiteID   uint64 `db:"website_id"   yaml:"website_id"`
	Slug        string `db:"slug"         yaml:"slug"`
	IsHomepage  bool   `db:"is_homepage"  yaml:"is_homepage"`
	IsPublished bool   `db:"is_published" yaml:"is_published"`
	Title       string `db:"title"        yaml:"title"`
	Content     string `db:"content"      yaml:"content"`
	SEOFields   `yaml:",inline"`
}

// Funnel mirrors one row in `funnels`.
type Funnel struct {
	ID          uint64 `db:"id"          yaml:"id"`
	StoreID     uint64 `db:"store_id"    yaml:"store_id"`
	Name        string `db:"name"        yaml:"name"`
	Description string `db:"description" yaml:"description"`
	Settings    string `db:"settings"    yaml:"settings"`
	SEOFields   `yaml:",inline"`
}

// Setting returns one string value from the JSON settings blob.
func (f *Funnel) Setting(key string) string { return setting(f.Settings, key) }

// Step mirrors one row in `funnel_steps`.
type Step struct {
	ID          uint64 `db:"id"           yaml:"id"`
	FunnelID    uint64 `db:"funnel_id"    yaml:"funnel_id"`
	Slug        string `db:"slug"         yaml:"slug"`
	StepOrder   int    `db:"step_order"   yaml:"step_order"`
	IsPublished bool   `db:"is_published" yaml:"is_published"`
	Title       string `db:"title"        yaml:"title"`
	Content     string `db:"content"      yaml:"content"`
	SEOFields   `yaml:",inline"`
}

// CourseArea mirrors one row in `course_areas`.  It has no SEO columns of
// its own; everything derives from the owning Store.
type CourseArea struct {
	ID      uint64 `db:"id"       yaml:"id"`
	StoreID uint64 `db:"store_id" yaml:"store_id"`
	Title   string `db:"title"    yaml:"title"`
}

// setting decodes a JSON object and returns key as a trimmed string.
// Malformed blobs and non-string values read as "".
func setting(raw, key string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
