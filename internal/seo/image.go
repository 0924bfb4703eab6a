// internal/seo/image.go
//
// Image URL normalisation for og:image, twitter:image, and favicons.
//
//	"https://cdn.example/a.png"  → unchanged
//	"//cdn.example/a.png"        → "https://cdn.example/a.png"
//	"/a.png"                     → "https://{domain}/a.png"
//	"img/a.png"                  → "https://{domain}/img/a.png"
//	"not a url", "javascript:x"  → absent
//
// A bare relative value is joined only when it looks like a file path
// (safe characters, extension on the last segment).  Anything that cannot
// be verified is dropped: a missing og:image is better than a broken one.
package seo

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var relPathRe = regexp.MustCompile(`^[A-Za-z0-9._~\-/%]+$`)

// NormalizeImage returns the absolute URL for raw and true, or "" and
// false when raw is absent or unusable.
func NormalizeImage(raw, domain string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\r\n\"'<>\\") {
		return "", false
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			return raw, true
		}
		return "", false

	case strings.HasPrefix(raw, "//"):
		if u, err := url.Parse("https:" + raw); err == nil && u.Host != "" {
			return "https:" + raw, true
		}
		return "", false

	case strings.HasPrefix(raw, "/"):
		if domain == "" {
			return "", false
		}
		return "https://" + domain + raw, true
	}

	// Any other scheme (data:, javascript:, ftp:) is rejected.
	if i := strings.IndexByte(raw, ':'); i != -1 {
		return "", false
	}
	if domain == "" || !relPathRe.MatchString(raw) || path.Ext(raw) == "" {
		return "", false
	}
	return "https://" + domain + "/" + strings.TrimPrefix(raw, "./"), true
}
