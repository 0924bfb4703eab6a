package seo

import "testing"

func TestNormalizeImage(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://x/y.png", "https://x/y.png", true},
		{"HTTP://cdn.example/a.jpg", "HTTP://cdn.example/a.jpg", true},
		{"/y.png", "https://d/y.png", true},
		{"//cdn.example/a.png", "https://cdn.example/a.png", true},
		{"img/hero.webp", "https://d/img/hero.webp", true},
		{"not a url", "", false},
		{"hero", "", false},
		{"javascript:alert(1)", "", false},
		{"data:image/png;base64,AAAA", "", false},
		{"https://", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeImage(c.raw, "d")
		if got != c.want || ok != c.ok {
			t.Errorf("NormalizeImage(%q) = %q,%v, want %q,%v", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeImage_RelativeNeedsDomain(t *testing.T) {
	if _, ok := NormalizeImage("/y.png", ""); ok {
		t.Fatal("relative image accepted without a domain")
	}
}
