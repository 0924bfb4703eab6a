// urlinfo.go
//
// URLInfo captures the request fields the prerender pipeline routes on:
//
//   - Host   – normalised host (lower-case, no :port).
//   - Path   – the URL path with a single leading "/" ("/" for root).
//   - Route  – the path stripped of leading/trailing "/".  Root is "".
//   - Ext    – file extension from the path (empty when absent).
//   - MIME   – mime.TypeByExtension(Ext).  Empty string when Ext == "".
//   - Query  – parsed query args.
package tenant

import (
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// URLInfo is derived once per request.
type URLInfo struct {
	Host  string     // shop.example
	Path  string     // "/blog/2025/05"
	Route string     // "blog/2025/05"
	Ext   string     // ".png"
	MIME  string     // "image/png"
	Query url.Values // parsed query args
}

// NewURLInfo builds URLInfo from the incoming request.
func NewURLInfo(r *http.Request) URLInfo {
	route := strings.Trim(r.URL.Path, "/")
	ext := filepath.Ext(route)

	return URLInfo{
		Host:  Normalize(r.Host),
		Path:  "/" + route,
		Route: route,
		Ext:   ext,
		MIME:  mime.TypeByExtension(ext),
		Query: r.URL.Query(),
	}
}

// IsAsset reports whether the path names a static file rather than a page.
// ".html" and ".htm" count as pages.
func (u URLInfo) IsAsset() bool {
	if u.Ext == "" {
		return false
	}
	return !strings.HasPrefix(u.MIME, "text/html")
}
