// internal/document/document.go
//
// Page-builder document model.
//
// Context
// -------
// Website pages and funnel steps store their body as a nested document
// produced by the visual editor:
//
//	Document → Section[] → Row[] → Column[] → Element[]
//
// Every level carries a flat `styles` map of CSS-like properties in
// camelCase.  Elements carry a free-form `content` map whose keys depend
// on the element type; renderers read only the keys they understand.
//
// Stored content comes in two shapes: a bare JSON array of sections, or an
// object with `sections` (and optionally `globalStyles`).  Parse accepts
// both.  Anything else is ErrNotDocument so callers can fall back to
// plain-text handling.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotDocument means the input is valid data but not a page document.
var ErrNotDocument = errors.New("document: not a page document")

// Styles is a flat property → value map.  Values are usually strings but
// numbers and booleans from the editor are accepted.
type Styles map[string]any

// Document is the root of a page body.
type Document struct {
	Sections     []Section `json:"sections"               yaml:"sections"`
	GlobalStyles Styles    `json:"globalStyles,omitempty" yaml:"globalStyles"`
}

// Section is a full-bleed band of the page.  Width is one of full, wide,
// medium or small; CustomWidth overrides it with a literal CSS length.
type Section struct {
	ID          string `json:"id"                    yaml:"id"`
	Anchor      string `json:"anchor,omitempty"      yaml:"anchor"`
	Width       string `json:"width,omitempty"       yaml:"width"`
	CustomWidth string `json:"customWidth,omitempty" yaml:"customWidth"`
	Rows        []Row  `json:"rows"                  yaml:"rows"`
	Styles      Styles `json:"styles,omitempty"      yaml:"styles"`
}

// Row lays its columns out horizontally.
type Row struct {
	ID      string   `json:"id"               yaml:"id"`
	Anchor  string   `json:"anchor,omitempty" yaml:"anchor"`
	Columns []Column `json:"columns"          yaml:"columns"`
	Styles  Styles   `json:"styles,omitempty" yaml:"styles"`
}

// Column occupies Width twelfths of its row.
type Column struct {
	ID          string    `json:"id"                    yaml:"id"`
	Anchor      string    `json:"anchor,omitempty"      yaml:"anchor"`
	Width       float64   `json:"width,omitempty"       yaml:"width"`
	CustomWidth string    `json:"customWidth,omitempty" yaml:"customWidth"`
	Elements    []Element `json:"elements"              yaml:"elements"`
	Styles      Styles    `json:"styles,omitempty"      yaml:"styles"`
}

// Element is one leaf block: heading, text, image, and so on.
type Element struct {
	ID      string         `json:"id"                yaml:"id"`
	Anchor  string         `json:"anchor,omitempty"  yaml:"anchor"`
	Type    string         `json:"type"              yaml:"type"`
	Content map[string]any `json:"content,omitempty" yaml:"content"`
	Styles  Styles         `json:"styles,omitempty"  yaml:"styles"`
}

// Parse decodes raw JSON into a Document.
func Parse(raw []byte) (*Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrNotDocument
	}

	switch raw[0] {
	case '[':
		var secs []Section
		if err := json.Unmarshal(raw, &secs); err != nil {
			return nil, fmt.Errorf("document: decode sections: %w", err)
		}
		return &Document{Sections: secs}, nil

	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("document: decode: %w", err)
		}
		if _, ok := probe["sections"]; !ok {
			return nil, ErrNotDocument
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("document: decode: %w", err)
		}
		return &doc, nil
	}
	return nil, ErrNotDocument
}

// Canonical returns the document re-encoded with sorted map keys and no
// insignificant whitespace.  Equal documents produce equal bytes.
func (d *Document) Canonical() []byte {
	b, _ := json.Marshal(d) // all fields are JSON-safe by construction
	return b
}
