package seo

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractDescription_FirstSentenceWithinBudget(t *testing.T) {
	got := ExtractDescription("<p>Hello world.</p><p>Second sentence here.</p>", 20)
	if got != "Hello world." {
		t.Fatalf("got %q, want %q", got, "Hello world.")
	}
}

func TestExtractDescription_AccumulatesWholeSentences(t *testing.T) {
	in := "One two. Three four! Five six? Seven eight."
	got := ExtractDescription(in, 30)
	if got != "One two. Three four! Five six?" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractDescription_TruncatesAtWordBoundary(t *testing.T) {
	in := "This opening sentence is far longer than the tiny budget allows."
	got := ExtractDescription(in, 25)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("got %q, want ellipsis", got)
	}
	if utf8.RuneCountInString(got) > 25 {
		t.Fatalf("len(%q) = %d, want ≤ 25", got, utf8.RuneCountInString(got))
	}
	if got != "This opening sentence is…" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractDescription_AddsTerminalPunctuation(t *testing.T) {
	if got := ExtractDescription("Fresh bread daily", 0); got != "Fresh bread daily." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractDescription_EntitiesAndScripts(t *testing.T) {
	in := `<div>Fish &amp; chips&nbsp;served hot.<script>alert(1)</script><style>p{}</style></div>`
	if got := ExtractDescription(in, 0); got != "Fish & chips served hot." {
		t.Fatalf("got %q", got)
	}
	if got := ExtractDescription("Tom &amp;amp; Jerry.", 0); got != "Tom Jerry." {
		t.Fatalf("double-encoded: got %q", got)
	}
}

func TestExtractDescription_StructuredDocument(t *testing.T) {
	doc := `[{"id":"s1","rows":[{"columns":[{"width":12,"elements":[
		{"type":"image","content":{"src":"/a.png","alt":"Ignored alt"}},
		{"type":"heading","content":{"text":"Big Sale","level":1}},
		{"type":"text","content":{"html":"<p>Everything is half price today.</p>"},"styles":{"color":"red"}},
		{"type":"button","content":{"text":"Buy now"}}
	]}]}]}]`
	got := ExtractDescription(doc, 0)
	if got != "Big Sale Everything is half price today." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractDescription_BlockTree(t *testing.T) {
	doc := `{"blocks":[{"type":"paragraph","data":{"text":"Nested <b>block</b> text."}}]}`
	if got := ExtractDescription(doc, 0); got != "Nested block text." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractDescription_BadInputIsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", `{"type":"image"}`, "<p></p>", `[]`} {
		if got := ExtractDescription(in, 0); got != "" {
			t.Errorf("ExtractDescription(%q) = %q, want empty", in, got)
		}
	}
}
