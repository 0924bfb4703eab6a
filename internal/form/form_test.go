package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newsletter() *Def {
	return &Def{
		ID:     "newsletter",
		Action: "/subscribe",
		Fields: []Field{
			{Name: "email", Label: "Email", Type: "email", Required: true, Placeholder: "you@example.com"},
			{Name: "topic", Label: "Topic", Type: "select", Options: []string{"News", "Deals & offers"}},
		},
	}
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render(newsletter(), Options{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	b, _ := Render(newsletter(), Options{})
	if a != b {
		t.Fatalf("Render is not deterministic:\n%s\n---\n%s", a, b)
	}
	for _, want := range []string{
		`<form class="sg-form" data-form-id="newsletter" method="post" action="/subscribe">`,
		`<label for="fld-email">Email</label>`,
		`<input id="fld-email" name="email" type="email" placeholder="you@example.com" required>`,
		`<option value="Deals &amp; offers">Deals &amp; offers</option>`,
		`<button type="submit">Submit</button>`,
	} {
		if !strings.Contains(a, want) {
			t.Fatalf("output missing %q:\n%s", want, a)
		}
	}
	if strings.Contains(a, "csrf") || strings.Contains(a, "render_ts") {
		t.Fatalf("static form must not carry session inputs:\n%s", a)
	}
}

func TestRender_FirstStepOnly(t *testing.T) {
	fd := &Def{
		ID: "wizard",
		Steps: []Step{
			{Fields: []Field{{Name: "name", Label: "Name", Type: "text", MinLength: 2, MaxLength: 40}}},
			{Fields: []Field{{Name: "phone", Label: "Phone", Type: "tel"}}},
		},
	}
	out, err := Render(fd, Options{IDPrefix: "f1"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, `id="f1-name"`) || !strings.Contains(out, `minlength="2" maxlength="40"`) {
		t.Fatalf("first step not rendered:\n%s", out)
	}
	if strings.Contains(out, "phone") {
		t.Fatalf("second step leaked into output:\n%s", out)
	}
	if !strings.Contains(out, `name="current_step" value="step1"`) {
		t.Fatalf("derived step id missing:\n%s", out)
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	fd := &Def{ID: "x", Fields: []Field{{Name: "q", Label: `<script>alert(1)</script>`, Type: "text"}}}
	out, err := Render(fd, Options{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("label not escaped:\n%s", out)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]*Def{
		"missing id":   {Fields: []Field{{Name: "a", Label: "A", Type: "text"}}},
		"no fields":    {ID: "x"},
		"both":         {ID: "x", Fields: []Field{{Name: "a", Label: "A", Type: "text"}}, Steps: []Step{{}}},
		"bad type":     {ID: "x", Fields: []Field{{Name: "a", Label: "A", Type: "rocket"}}},
		"bad pattern":  {ID: "x", Fields: []Field{{Name: "a", Label: "A", Type: "text", Pattern: "("}}},
		"duplicate":    {ID: "x", Fields: []Field{{Name: "a", Label: "A", Type: "text"}, {Name: "a", Label: "B", Type: "text"}}},
		"min over max": {ID: "x", Fields: []Field{{Name: "a", Label: "A", Type: "text", MinLength: 5, MaxLength: 2}}},
		"bad method":   {ID: "x", Method: "put", Fields: []Field{{Name: "a", Label: "A", Type: "text"}}},
	}
	for name, fd := range cases {
		if err := Validate(fd, name); err == nil {
			t.Errorf("%s: Validate = nil, want error", name)
		}
	}
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	def := "id: contact\nfields:\n  - name: msg\n    label: Message\n    type: textarea\n"
	if err := os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(def), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	fd, ok := r.Get("contact")
	if !ok || fd.Fields[0].Type != "textarea" {
		t.Fatalf("Get(contact) = %+v, %v", fd, ok)
	}
}

func TestRegistry_MissingDirIsEmpty(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	var nilReg *Registry
	if _, ok := nilReg.Get("x"); ok {
		t.Fatal("nil registry Get reported ok")
	}
}
