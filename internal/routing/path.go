// internal/routing/path.go
//
// Path helpers.
//
// • Clean(path) ─ strips leading/trailing "/" and collapses empty segments,
//   so "//offer-a/" and "offer-a" route identically.  Root is "".
// • LastSegment(path) ─ final non-empty component, the slug candidate.
// • FirstSegment(path) ─ first non-empty component, used for course prefixes.
// • BuildPath(parent, slug) ─ joins parent path + slug with a single "/" and
//   guarantees exactly one leading slash.

package routing

import (
	"strings"
)

// Clean normalises a request path for routing.
func Clean(p string) string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// LastSegment returns the final non-empty component of p.
func LastSegment(p string) string {
	p = Clean(p)
	if i := strings.LastIndexByte(p, '/'); i != -1 {
		return p[i+1:]
	}
	return p
}

// FirstSegment returns the first non-empty component of p.
func FirstSegment(p string) string {
	p = Clean(p)
	if i := strings.IndexByte(p, '/'); i != -1 {
		return p[:i]
	}
	return p
}

// BuildPath joins parent + slug ensuring exactly one leading slash and no
// duplicate separators.
func BuildPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}
