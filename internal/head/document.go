// internal/head/document.go
//
// HTML Synthesizer: seo.Record → complete crawler document.
//
// Context
// -------
// The document is deliberately small: charset and viewport, title,
// description / keywords / robots, canonical, the Open Graph and Twitter
// Card blocks, favicon, one JSON-LD block, and a body.  The body is either
// the caller's pre-rendered page HTML (full-body mode) or the no-script
// fallback <h1>{title}</h1><p>{description}</p>.
//
// Every tenant-controlled value goes through html.EscapeString.  Only the
// body passed in by the caller is emitted verbatim, and that HTML comes
// from the document renderer, which sanitises its own input.
package head

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/yanizio/sitegate/internal/seo"
)

// DefaultCacheControl permits shared caching with revalidation.
const DefaultCacheControl = "public, max-age=300, s-maxage=300, stale-while-revalidate=600"

// structured is the schema.org WebSite / WebPage block.
type structured struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	InLanguage  string `json:"inLanguage,omitempty"`
	Publisher   *org   `json:"publisher,omitempty"`
}

type org struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Synthesize renders rec as a complete HTML document.  body, when non-empty,
// replaces the fallback body and is trusted HTML.
func Synthesize(rec seo.Record, body string) []byte {
	b := New()
	b.SetTitle(rec.Title)
	b.Name("description", rec.Description)
	if len(rec.Keywords) > 0 {
		b.Name("keywords", strings.Join(rec.Keywords, ", "))
	}
	b.Name("robots", rec.Robots)
	b.Link("canonical", rec.Canonical)

	// Open Graph
	b.Property("og:type", "website")
	b.Property("og:url", rec.Canonical)
	b.Property("og:title", rec.Title)
	b.Property("og:description", rec.Description)
	b.Property("og:image", rec.OGImage)
	b.Property("og:site_name", rec.SiteName)
	b.Property("og:locale", rec.Locale)

	// Twitter Card
	b.Name("twitter:card", "summary_large_image")
	b.Name("twitter:title", rec.Title)
	b.Name("twitter:description", rec.Description)
	b.Name("twitter:image", rec.OGImage)

	b.Link("icon", rec.Favicon)

	kind := "WebPage"
	if u, err := url.Parse(rec.Canonical); err == nil && (u.Path == "" || u.Path == "/") {
		kind = "WebSite"
	}
	// structured holds only strings; Marshal cannot fail.
	_ = b.JSONLD(structured{
		Context:     "https://schema.org",
		Type:        kind,
		Name:        rec.Title,
		URL:         rec.Canonical,
		Description: rec.Description,
		Image:       rec.OGImage,
		InLanguage:  strings.ReplaceAll(rec.Locale, "_", "-"),
		Publisher:   &org{Type: "Organization", Name: rec.SiteName},
	})

	var sb strings.Builder
	sb.Grow(2048 + len(body))
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(`<html lang="` + esc(lang(rec.Locale)) + `">` + "\n")
	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="utf-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	b.Render(&sb)
	sb.WriteString("</head>\n<body>\n")
	if body != "" {
		sb.WriteString(body)
		sb.WriteByte('\n')
	} else {
		sb.WriteString("<h1>" + esc(rec.Title) + "</h1>\n")
		sb.WriteString("<p>" + esc(rec.Description) + "</p>\n")
	}
	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String())
}

// WriteHeaders sets the response headers for a synthesised document.  An
// empty cacheControl uses DefaultCacheControl.
func WriteHeaders(h http.Header, cacheControl string) {
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", cacheControl)
	h.Add("Vary", "User-Agent")
}

// lang turns "en_US" into "en".
func lang(locale string) string {
	l, _, _ := strings.Cut(locale, "_")
	if l == "" {
		return "en"
	}
	return l
}
