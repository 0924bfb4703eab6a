package document

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/yanizio/sitegate/internal/form"
)

/*──────────────────────────── dispatch ────────────────────────────*/

func (r *Renderer) element(e *Element) string {
	id := idAttr(e.Anchor, e.ID)
	style := e.Styles.CSS()

	switch strings.ToLower(e.Type) {
	case "heading":
		return r.heading(e, id, style)
	case "text":
		return `<div` + id + ` class="sg-el sg-text"` + styleAttr(style) + `>` +
			r.sanitize.Sanitize(str(e.Content, "html", "text")) + `</div>`
	case "markdown":
		return r.markdown(e, id, style)
	case "image":
		return image(e, id, style)
	case "button":
		return button(e, id, style)
	case "spacer":
		return spacer(e, id, style)
	case "divider":
		return divider(e, id, style)
	case "video":
		return video(e, id, style)
	case "form":
		return r.form(e, id, style)
	case "social-links", "social_links", "sociallinks":
		return socialLinks(e, id, style)
	}
	return `<div` + id + ` class="sg-el"` + styleAttr(style) + `>` + html.EscapeString(str(e.Content, "text")) + `</div>`
}

/*──────────────────────────── text ────────────────────────────*/

func (r *Renderer) heading(e *Element, id, style string) string {
	level := 2
	switch v := e.Content["level"].(type) {
	case float64:
		level = int(v)
	case int:
		level = v
	case string:
		if n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(v), "h")); err == nil {
			level = n
		}
	}
	if level < 1 || level > 6 {
		level = 2
	}
	tag := "h" + strconv.Itoa(level)
	return `<` + tag + id + ` class="sg-el sg-heading"` + styleAttr(style) + `>` +
		html.EscapeString(str(e.Content, "text")) + `</` + tag + `>`
}

func (r *Renderer) markdown(e *Element, id, style string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(str(e.Content, "markdown", "text")), &buf); err != nil {
		buf.Reset()
	}
	return `<div` + id + ` class="sg-el sg-markdown"` + styleAttr(style) + `>` +
		r.sanitize.Sanitize(buf.String()) + `</div>`
}

/*──────────────────────────── media ────────────────────────────*/

func image(e *Element, id, style string) string {
	src, ok := safeURL(str(e.Content, "src", "url"))
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<figure` + id + ` class="sg-el sg-image"` + styleAttr(style) + `>`)
	img := `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(str(e.Content, "alt")) + `" loading="lazy">`
	if href, ok := safeURL(str(e.Content, "link", "href")); ok {
		img = `<a href="` + html.EscapeString(href) + `">` + img + `</a>`
	}
	b.WriteString(img)
	if c := str(e.Content, "caption"); c != "" {
		b.WriteString(`<figcaption>` + html.EscapeString(c) + `</figcaption>`)
	}
	b.WriteString(`</figure>`)
	return b.String()
}

func video(e *Element, id, style string) string {
	raw := str(e.Content, "url", "src")
	title := str(e.Content, "title")
	if title == "" {
		title = "Video"
	}
	if embed := embedURL(raw); embed != "" {
		return `<div` + id + ` class="sg-el sg-video"` + styleAttr(style) + `>` +
			`<iframe src="` + html.EscapeString(embed) + `" title="` + html.EscapeString(title) +
			`" loading="lazy" allow="fullscreen; picture-in-picture" allowfullscreen></iframe></div>`
	}
	src, ok := safeURL(raw)
	if !ok {
		return ""
	}
	return `<div` + id + ` class="sg-el sg-video"` + styleAttr(style) + `>` +
		`<video src="` + html.EscapeString(src) + `" controls preload="metadata"></video></div>`
}

// embedURL maps YouTube and Vimeo page links to their player URLs.
func embedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	seg := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" && safeToken(v) {
			return "https://www.youtube.com/embed/" + v
		}
		if len(seg) == 2 && (seg[0] == "embed" || seg[0] == "shorts") && safeToken(seg[1]) {
			return "https://www.youtube.com/embed/" + seg[1]
		}
	case "youtu.be":
		if len(seg) == 1 && safeToken(seg[0]) {
			return "https://www.youtube.com/embed/" + seg[0]
		}
	case "vimeo.com", "player.vimeo.com":
		last := seg[len(seg)-1]
		if _, err := strconv.ParseUint(last, 10, 64); err == nil {
			return "https://player.vimeo.com/video/" + last
		}
	}
	return ""
}

func safeToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

/*──────────────────────────── layout ────────────────────────────*/

func button(e *Element, id, style string) string {
	label := str(e.Content, "text", "label")
	if label == "" {
		return ""
	}
	href, ok := safeURL(str(e.Content, "url", "href", "link"))
	if !ok {
		href = "#"
	}
	target := ""
	if b, _ := e.Content["newTab"].(bool); b {
		target = ` target="_blank" rel="noopener noreferrer"`
	}
	return `<a` + id + ` class="sg-el sg-button" href="` + html.EscapeString(href) + `"` + target + styleAttr(style) + `>` +
		html.EscapeString(label) + `</a>`
}

func spacer(e *Element, id, style string) string {
	h := length(e.Content["height"], "32px")
	return `<div` + id + ` class="sg-el sg-spacer" aria-hidden="true"` + styleAttr(joinCSS("height: "+h+";", style)) + `></div>`
}

func divider(e *Element, id, style string) string {
	border := ""
	if _, set := e.Content["thickness"]; set || str(e.Content, "color") != "" || str(e.Content, "style") != "" {
		line := str(e.Content, "style")
		if line != "solid" && line != "dashed" && line != "dotted" && line != "double" {
			line = "solid"
		}
		color, ok := cssValue(str(e.Content, "color"))
		if !ok {
			color = "currentColor"
		}
		border = "border: 0; border-top: " + length(e.Content["thickness"], "1px") + " " + line + " " + color + ";"
	}
	return `<hr` + id + ` class="sg-el sg-divider"` + styleAttr(joinCSS(border, style)) + `>`
}

/*──────────────────────────── form ────────────────────────────*/

func (r *Renderer) form(e *Element, id, style string) string {
	var def *form.Def
	if fid := str(e.Content, "formId"); fid != "" {
		def, _ = r.forms.Get(fid)
	}
	if def == nil {
		def = inlineForm(e)
	}
	if def == nil {
		return ""
	}

	prefix := "fld"
	if e.ID != "" {
		prefix = "fld-" + e.ID
	}
	markup, err := form.Render(def, form.Options{IDPrefix: prefix})
	if err != nil {
		return ""
	}
	return `<div` + id + ` class="sg-el sg-form-wrap"` + styleAttr(style) + `>` + markup + `</div>`
}

// inlineForm builds a Def from content.fields.  Unusable entries are
// skipped; a form with no usable fields yields nil.
func inlineForm(e *Element) *form.Def {
	list, _ := e.Content["fields"].([]any)
	fd := &form.Def{
		ID:     e.ID,
		Title:  str(e.Content, "title"),
		Action: str(e.Content, "action"),
		Submit: str(e.Content, "submitText", "submit"),
	}
	if fd.ID == "" {
		fd.ID = "inline"
	}
	if a, ok := safeURL(fd.Action); ok {
		fd.Action = a
	} else {
		fd.Action = ""
	}

	seen := make(map[string]bool)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		f := form.Field{
			Name:        str(m, "name", "id"),
			Label:       str(m, "label"),
			Type:        strings.ToLower(str(m, "type")),
			Placeholder: str(m, "placeholder"),
		}
		if f.Type == "" {
			f.Type = "text"
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		f.Required, _ = m["required"].(bool)
		if opts, ok := m["options"].([]any); ok {
			for _, o := range opts {
				if s := scalar(o); s != "" {
					f.Options = append(f.Options, s)
				}
			}
		}
		if f.Name == "" || seen[f.Name] || form.Validate(&form.Def{ID: fd.ID, Fields: []form.Field{f}}, "inline") != nil {
			continue
		}
		seen[f.Name] = true
		fd.Fields = append(fd.Fields, f)
	}
	if len(fd.Fields) == 0 {
		return nil
	}
	return fd
}

/*──────────────────────────── social ────────────────────────────*/

type socialLink struct{ platform, href string }

func socialLinks(e *Element, id, style string) string {
	var links []socialLink
	switch v := e.Content["links"].(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				links = append(links, socialLink{str(m, "platform", "name"), str(m, "url", "href")})
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			links = append(links, socialLink{k, scalar(v[k])})
		}
	}

	var b strings.Builder
	for _, l := range links {
		href, ok := safeURL(l.href)
		if !ok {
			continue
		}
		name := l.platform
		if name == "" {
			name = href
		}
		b.WriteString(`<li><a href="` + html.EscapeString(href) + `" rel="noopener noreferrer" aria-label="` +
			html.EscapeString(name) + `">` + html.EscapeString(name) + `</a></li>`)
	}
	if b.Len() == 0 {
		return ""
	}
	return `<ul` + id + ` class="sg-el sg-social"` + styleAttr(style) + `>` + b.String() + `</ul>`
}

/*──────────────────────────── helpers ────────────────────────────*/

// str returns the first non-empty scalar among keys.
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := scalar(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// length reads a CSS length; bare numbers are pixels.
func length(v any, def string) string {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return fmt.Sprintf("%gpx", t)
		}
	case int:
		if t > 0 {
			return strconv.Itoa(t) + "px"
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return length(n, def)
		}
		if s, ok := cssValue(t); ok {
			return s
		}
	}
	return def
}

// safeURL accepts http(s), mailto, tel, root-relative paths, and
// fragments.  Everything else, javascript: and data: included, is
// rejected.
func safeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\r\n\"'<>") {
		return "", false
	}
	if strings.HasPrefix(raw, "#") || (strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")) {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return "", false
		}
		return raw, true
	case "mailto", "tel":
		return raw, true
	}
	return "", false
}
