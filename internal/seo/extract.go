// internal/seo/extract.go
//
// Content-derived description extraction.
//
// Workflow
// --------
//  1. Structured content (a JSON page-builder document or block tree) is
//     walked and the strings of text-bearing nodes are collected.  Plain
//     strings and HTML skip this step.
//  2. Markup is removed with the x/net/html tokenizer-backed parser; text
//     nodes are joined with a space, script and style bodies skipped.
//  3. Leftover entity literals are dropped and whitespace collapsed.
//  4. The text is split into sentences and whole sentences accumulated
//     while the rune count stays within the budget.
//  5. If not even the first sentence fits it is cut at a word boundary
//     and "…" appended.  The result always ends in terminal punctuation.
//
// Bad input of any kind yields "".
package seo

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DescriptionBudget is the default character budget for descriptions.
const DescriptionBudget = 155

// ExtractDescription derives a meta description from page content.
func ExtractDescription(content string, budget int) string {
	if budget <= 0 {
		budget = DescriptionBudget
	}
	text := plainText(content)
	if text == "" {
		return ""
	}
	return fitSentences(splitSentences(text), budget)
}

/*──────────────────────────── structured walk ──────────────────────────────*/

// textTypes are node "type" values whose strings are prose.
var textTypes = map[string]bool{
	"paragraph": true,
	"heading":   true,
	"header":    true,
	"text":      true,
	"quote":     true,
	"list-item": true,
}

// textKeys are the keys read from a text-bearing node.
var textKeys = map[string]bool{
	"text":    true,
	"html":    true,
	"content": true,
	"value":   true,
}

func plainText(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	if c := content[0]; c == '[' || c == '{' || c == '"' {
		var doc any
		if err := json.Unmarshal([]byte(content), &doc); err == nil {
			if str, ok := doc.(string); ok {
				content = str
			} else {
				var parts []string
				collect(doc, false, &parts)
				content = strings.Join(parts, " ")
			}
		}
	}
	return cleanText(stripMarkup(content))
}

// collect appends prose strings found under v.  inText is true once an
// ancestor node declared a text-bearing type.
func collect(v any, inText bool, out *[]string) {
	switch n := v.(type) {
	case string:
		if inText {
			*out = append(*out, n)
		}
	case []any:
		for _, it := range n {
			collect(it, inText, out)
		}
	case map[string]any:
		if t, ok := n["type"].(string); ok {
			inText = inText || textTypes[strings.ToLower(t)]
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch val := n[k].(type) {
			case string:
				if inText && textKeys[k] {
					*out = append(*out, val)
				}
			case map[string]any, []any:
				if k == "styles" || k == "globalStyles" {
					continue
				}
				collect(val, inText, out)
			}
		}
	}
}

/*──────────────────────────── markup removal ───────────────────────────────*/

func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

var entityRe = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

func cleanText(s string) string {
	s = entityRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

/*──────────────────────────── sentences ────────────────────────────────────*/

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

// splitSentences cuts after a run of terminators followed by whitespace or
// the end of text.  An unterminated tail gets a ".".
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 == len(runes) || runes[j+1] == ' ' {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				out = append(out, s)
			}
			start = j + 1
		}
		i = j
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail+".")
	}
	return out
}

func fitSentences(sentences []string, budget int) string {
	var out string
	for _, s := range sentences {
		next := s
		if out != "" {
			next = out + " " + s
		}
		if utf8.RuneCountInString(next) > budget {
			break
		}
		out = next
	}
	if out != "" {
		return out
	}
	if len(sentences) == 0 {
		return ""
	}
	return truncate(sentences[0], budget)
}

// truncate cuts s to fit budget runes including the trailing "…", at the
// last word boundary when there is one.
func truncate(s string, budget int) string {
	runes := []rune(s)
	if budget < 2 {
		return "…"
	}
	atBoundary := true
	if len(runes) > budget-1 {
		atBoundary = runes[budget-1] == ' '
		runes = runes[:budget-1]
	}
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); !atBoundary && i > 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRightFunc(cut, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == ':' || r == '-' || isTerminal(r)
	})
	if cut == "" {
		return "…"
	}
	return cut + "…"
}
