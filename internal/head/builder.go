// internal/head/builder.go
//
// The Builder collects everything that should appear inside a document's
// <head> element.  It is scoped to a single render call.  The synthesiser
// pushes tags in, then Render emits them in a fixed order.
//
// Features
// --------
//   - SetTitle             – single <title> tag (last call wins).
//   - Name, Property, Link – meta/link tags built from raw values; the
//     Builder escapes every attribute, callers never pre-escape.
//   - JSONLD               – marshals a value with encoding/json, which
//     emits <, >, & as \u003c, \u003e, \u0026, and wraps it in
//     <script type="application/ld+json">…</script>.
//   - Empty values are dropped, never emitted as empty content="".
//   - Repeated name/property/rel keys keep the first value.
package head

import (
	"encoding/json"
	"html"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes, though typical use is one
// goroutine per render.
type Builder struct {
	mu sync.Mutex

	// Single-value fields
	title string

	// Multi-value slices
	metas  []string
	links  []string
	jsonLD []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the document <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Name adds <meta name="…" content="…">.
func (b *Builder) Name(name, content string) {
	if content == "" {
		return
	}
	b.add("name:"+name, &b.metas, `<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// Property adds <meta property="…" content="…"> (Open Graph).
func (b *Builder) Property(prop, content string) {
	if content == "" {
		return
	}
	b.add("property:"+prop, &b.metas, `<meta property="`+esc(prop)+`" content="`+esc(content)+`">`)
}

// Link adds <link rel="…" href="…">.
func (b *Builder) Link(rel, href string) {
	if href == "" {
		return
	}
	b.add("link:"+rel, &b.links, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// JSONLD adds one structured-data block.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	js := string(raw)
	b.add("jsonld:"+hash(js), &b.jsonLD, js)
	return nil
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	if len(s) > 64 {
		return s[:64]
	}
	return s
}

// ------------------------------------------------------------------
// Rendering
// ------------------------------------------------------------------

// Render writes title, metas, links, and JSON-LD in that order, one tag
// per line.
func (b *Builder) Render(sb *strings.Builder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.title != "" {
		sb.WriteString("<title>" + esc(b.title) + "</title>\n")
	}
	for _, sl := range [][]string{b.metas, b.links} {
		for _, tag := range sl {
			sb.WriteString(tag)
			sb.WriteByte('\n')
		}
	}
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString("</script>\n")
	}
}

// esc escapes & < > " ' for text and attribute positions.
func esc(s string) string { return html.EscapeString(s) }
