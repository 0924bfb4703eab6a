// internal/document/render.go
//
// Document → HTML.
//
// Workflow
// --------
//  1. One <style> block: layout rules for the section width classes and
//     the row/column flex grid, the narrow-viewport collapse, and the
//     document's globalStyles applied to .sg-page.
//  2. A recursive walk emits section → container → row → column →
//     element markup.  Every level routes its styles through Styles.CSS.
//  3. Elements dispatch on Type (see elements.go).
//
// Notes
// -----
//   - Rendering is a pure function of the Document and the form registry:
//     no clocks, no randomness, map keys always sorted.
//   - Every interpolated value is escaped; tenant rich text passes through
//     bluemonday's UGC policy.
package document

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/yanizio/sitegate/internal/form"
)

// MobileBreakpoint is the viewport width below which rows stack.
const MobileBreakpoint = "768px"

// sectionWidths maps the editor's width classes to container max-widths.
var sectionWidths = []struct{ class, max string }{
	{"full", "100%"},
	{"wide", "1200px"},
	{"medium", "960px"},
	{"small", "720px"},
}

const defaultSectionWidth = "wide"

// Renderer turns Documents into HTML.  A Renderer is safe for concurrent
// use once built.
type Renderer struct {
	forms    *form.Registry
	sanitize *bluemonday.Policy
	md       goldmark.Markdown
}

// NewRenderer returns a Renderer.  forms may be nil, in which case form
// elements must carry their fields inline.
func NewRenderer(forms *form.Registry) *Renderer {
	return &Renderer{
		forms:    forms,
		sanitize: bluemonday.UGCPolicy(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML is kept here and removed by the sanitizer instead.
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render returns the HTML fragment for doc: a <style> block followed by
// the page wrapper.  A nil doc renders as an empty page.
func (r *Renderer) Render(doc *Document) string {
	var b strings.Builder
	if doc == nil {
		doc = &Document{}
	}
	writeStyleBlock(&b, doc.GlobalStyles)

	b.WriteString(`<div class="sg-page">`)
	for i := range doc.Sections {
		r.section(&b, &doc.Sections[i])
	}
	b.WriteString("</div>\n")
	return b.String()
}

func writeStyleBlock(b *strings.Builder, global Styles) {
	var css strings.Builder
	css.WriteString(".sg-section>.sg-container{margin-left:auto;margin-right:auto}\n")
	for _, w := range sectionWidths {
		css.WriteString(".sg-section--" + w.class + ">.sg-container{max-width:" + w.max + "}\n")
	}
	css.WriteString(".sg-row{display:flex;flex-wrap:wrap}\n")
	css.WriteString(".sg-col{box-sizing:border-box}\n")
	css.WriteString("@media (max-width: " + MobileBreakpoint + "){.sg-row{flex-direction:column}.sg-col{width:100% !important}}\n")
	if g := global.CSS(); g != "" {
		css.WriteString(".sg-page{" + g + "}\n")
	}

	b.WriteString("<style>\n")
	// <style> is a raw-text element.
	b.WriteString(strings.ReplaceAll(css.String(), "</", `<\/`))
	b.WriteString("</style>\n")
}

func (r *Renderer) section(b *strings.Builder, s *Section) {
	width := strings.ToLower(strings.TrimSpace(s.Width))
	if !knownWidth(width) {
		width = defaultSectionWidth
	}

	b.WriteString(`<section` + idAttr(s.Anchor, s.ID) + ` class="sg-section sg-section--` + width + `"` + styleAttr(s.Styles.CSS()) + `>`)
	container := ""
	if cw, ok := cssValue(s.CustomWidth); ok {
		container = "max-width: " + cw + ";"
	}
	b.WriteString(`<div class="sg-container"` + styleAttr(container) + `>`)
	for i := range s.Rows {
		r.row(b, &s.Rows[i])
	}
	b.WriteString("</div></section>")
}

func (r *Renderer) row(b *strings.Builder, row *Row) {
	b.WriteString(`<div` + idAttr(row.Anchor, row.ID) + ` class="sg-row"` + styleAttr(row.Styles.CSS()) + `>`)
	for i := range row.Columns {
		r.column(b, &row.Columns[i])
	}
	b.WriteString("</div>")
}

func (r *Renderer) column(b *strings.Builder, c *Column) {
	width := percent(c.Width)
	if cw, ok := cssValue(c.CustomWidth); ok {
		width = cw
	}
	css := joinCSS("width: "+width+";", c.Styles.CSS())
	b.WriteString(`<div` + idAttr(c.Anchor, c.ID) + ` class="sg-col"` + styleAttr(css) + `>`)
	for i := range c.Elements {
		b.WriteString(r.element(&c.Elements[i]))
	}
	b.WriteString("</div>")
}

func knownWidth(w string) bool {
	for _, sw := range sectionWidths {
		if sw.class == w {
			return true
		}
	}
	return false
}

// idAttr prefers the author's anchor; otherwise the editor id is
// namespaced so it cannot collide with page-level ids.
func idAttr(anchor, id string) string {
	switch {
	case strings.TrimSpace(anchor) != "":
		return ` id="` + html.EscapeString(strings.TrimSpace(anchor)) + `"`
	case id != "":
		return ` id="sg-` + html.EscapeString(id) + `"`
	}
	return ""
}

func styleAttr(css string) string {
	if css == "" {
		return ""
	}
	return ` style="` + html.EscapeString(css) + `"`
}
